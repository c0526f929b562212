package keeper_test

import (
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/coin98/baryon-farm/pkg/ledgersim"
	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

func TestAddPool(t *testing.T) {
	operator := sdk.AccAddress("operator____________")
	genesis := types.DefaultGenesisState()
	genesis.Params.Operator = operator.String()

	ledger := newLedger(t, ledgersim.WithGenesis(genesis))
	ctx := ledger.Context()
	k := ledger.Keeper
	stranger := ledger.GenAccount()

	require.NoError(t, ledger.FundAccount(ctx, operator, coins(rewardDenom, 100_000)))
	require.NoError(t, ledger.FundAccount(ctx, stranger, coins(rewardDenom, 100_000)))

	testCases := []struct {
		name        string
		sender      sdk.AccAddress
		stakeKind   types.StakeKind
		tokens      []types.RewardToken
		start       int64
		expiration  int64
		rate        sdkmath.Int
		expectedErr error
	}{
		{
			name:       "operator",
			sender:     operator,
			stakeKind:  types.NFTStakeKind(kittyClass),
			tokens:     singleReward(rewardDenom),
			start:      t0,
			expiration: t0 + 100,
			rate:       sdkmath.NewInt(10),
		},
		{
			name:        "duplicate_stake_kind",
			sender:      operator,
			stakeKind:   types.NFTStakeKind(kittyClass),
			tokens:      singleReward(rewardDenom),
			start:       t0,
			expiration:  t0 + 100,
			rate:        sdkmath.NewInt(10),
			expectedErr: types.ErrDuplicateStakeKind,
		},
		{
			name:        "stranger",
			sender:      stranger,
			stakeKind:   types.NFTStakeKind(punkClass),
			tokens:      singleReward(rewardDenom),
			start:       t0,
			expiration:  t0 + 100,
			rate:        sdkmath.NewInt(10),
			expectedErr: types.ErrUnauthorized,
		},
		{
			name:        "empty_window",
			sender:      operator,
			stakeKind:   types.NFTStakeKind(punkClass),
			tokens:      singleReward(rewardDenom),
			start:       t0,
			expiration:  t0,
			rate:        sdkmath.NewInt(10),
			expectedErr: types.ErrInvalidSchedule,
		},
		{
			name:        "unknown_class",
			sender:      operator,
			stakeKind:   types.NFTStakeKind("ghost"),
			tokens:      singleReward(rewardDenom),
			start:       t0,
			expiration:  t0 + 100,
			rate:        sdkmath.NewInt(10),
			expectedErr: types.ErrInvalidInput,
		},
		{
			name:        "rate_truncates_to_zero",
			sender:      operator,
			stakeKind:   types.NFTStakeKind(punkClass),
			tokens:      []types.RewardToken{{Denom: rewardDenom, Multiplier: sdkmath.NewInt(1)}},
			start:       t0,
			expiration:  t0 + 100,
			rate:        sdkmath.NewInt(10),
			expectedErr: types.ErrInvalidInput,
		},
		{
			name:        "not_enough_funds",
			sender:      operator,
			stakeKind:   types.NFTStakeKind(punkClass),
			tokens:      singleReward(rewardDenom),
			start:       t0,
			expiration:  t0 + 100_000,
			rate:        sdkmath.NewInt(10),
			expectedErr: types.ErrInsufficientEscrow,
		},
		{
			name:       "native",
			sender:     ledger.Owner,
			stakeKind:  types.NativeStakeKind(stakeDenom),
			tokens:     singleReward(stakeDenom),
			start:      t0,
			expiration: t0 + 100,
			rate:       sdkmath.NewInt(1),
		},
	}

	require.NoError(t, ledger.FundAccount(ctx, ledger.Owner, coins(stakeDenom, 100)))

	var expectedID uint64
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)

			before := balance(ledger, ctx, tc.sender, tc.tokens[0].Denom)
			poolID, err := k.AddPool(ctx, tc.sender, tc.stakeKind, tc.tokens, tc.start, tc.expiration, tc.rate)
			if tc.expectedErr != nil {
				requireT.ErrorIs(err, tc.expectedErr)
				requireT.Equal(before.String(), balance(ledger, ctx, tc.sender, tc.tokens[0].Denom).String())
				next, err := k.PoolSequence.Peek(ctx)
				requireT.NoError(err)
				requireT.Equal(expectedID, next)
				return
			}

			requireT.NoError(err)
			requireT.Equal(expectedID, poolID)
			expectedID++

			pool, err := k.GetPool(ctx, poolID)
			requireT.NoError(err)
			requireT.NoError(pool.Validate())
			requireT.Equal(tc.start, pool.LastAccrualTime)

			funded := tc.rate.MulRaw(tc.expiration - tc.start)
			requireT.Equal(funded.String(), escrowOf(t, ledger, ctx, poolID, tc.tokens[0].Denom).Funded.String())
			requireT.Equal(before.Sub(funded).String(), balance(ledger, ctx, tc.sender, tc.tokens[0].Denom).String())
		})
	}
}

func TestAddPoolRejectsShortDelivery(t *testing.T) {
	requireT := require.New(t)

	ledger := newLedger(t)
	ctx := ledger.Context()
	ledger.Bank.SetTransferFee(rewardDenom, sdkmath.NewInt(1))

	requireT.NoError(ledger.FundAccount(ctx, ledger.Owner, coins(rewardDenom, 1000)))
	_, err := ledger.Keeper.AddPool(
		ctx, ledger.Owner, types.NFTStakeKind(kittyClass), singleReward(rewardDenom), t0, t0+100, sdkmath.NewInt(10),
	)
	requireT.ErrorIs(err, types.ErrInsufficientEscrow)
	requireT.Equal("1000", balance(ledger, ctx, ledger.Owner, rewardDenom).String())

	pools, err := ledger.Keeper.GetPools(ctx)
	requireT.NoError(err)
	requireT.Empty(pools)
}

func TestReconfigurePool(t *testing.T) {
	requireT := require.New(t)

	ledger := newLedger(t)
	ctx := ledger.Context()
	k := ledger.Keeper

	alice := ledger.GenAccount()
	mintItems(t, ledger, ctx, kittyClass, alice, "alice-1")
	poolID := addPool(t, ledger, ctx, types.NFTStakeKind(kittyClass), t0, t0+1000, 10)
	_, err := k.Deposit(at(ctx, t0), alice, poolID, []string{"alice-1"}, sdkmath.Int{})
	requireT.NoError(err)

	reconfigure := func(ctx sdk.Context, start, expiration, rate int64) error {
		return k.ReconfigurePool(ctx, ledger.Owner, poolID, start, expiration, sdkmath.NewInt(rate))
	}

	requireT.ErrorIs(reconfigure(at(ctx, t0+100), t0+100, t0+600, 20), types.ErrLockedOperation)

	_, err = k.UnlockOperation(ctx, ledger.Owner, types.OperationReconfigurePool)
	requireT.NoError(err)

	stranger := ledger.GenAccount()
	requireT.ErrorIs(
		k.ReconfigurePool(at(ctx, t0+100), stranger, poolID, t0+100, t0+600, sdkmath.NewInt(20)),
		types.ErrUnauthorized,
	)
	requireT.ErrorIs(reconfigure(at(ctx, t0+100), t0, t0+50, 20), types.ErrInvalidSchedule)

	// The new commitment needs 1000 more than the escrow holds.
	requireT.ErrorIs(reconfigure(at(ctx, t0+100), t0+100, t0+600, 20), types.ErrInsufficientEscrow)

	requireT.NoError(ledger.FundAccount(ctx, ledger.Owner, coins(rewardDenom, 1000)))
	requireT.NoError(reconfigure(at(ctx, t0+100), t0+100, t0+600, 20))
	requireT.True(balance(ledger, ctx, ledger.Owner, rewardDenom).IsZero())

	escrow := escrowOf(t, ledger, ctx, poolID, rewardDenom)
	requireT.Equal("11000", escrow.Funded.String())
	requireT.Equal("1000", escrow.Accrued.String())

	// Reward accrued before the change is kept, the new rate applies afterwards.
	reward, err := k.Harvest(at(ctx, t0+700), alice, poolID)
	requireT.NoError(err)
	requireT.Equal(coins(rewardDenom, 11000).String(), reward.String())

	surplus, err := k.Surplus(at(ctx, t0+700), poolID)
	requireT.NoError(err)
	requireT.True(surplus.IsZero())
	requireInvariants(t, ledger, at(ctx, t0+700))
}

func TestReconfigureWithLowerRateReleasesSurplus(t *testing.T) {
	requireT := require.New(t)

	ledger := newLedger(t)
	ctx := ledger.Context()
	k := ledger.Keeper

	poolID := addPool(t, ledger, ctx, types.NFTStakeKind(kittyClass), t0, t0+1000, 10)
	_, err := k.UnlockOperation(ctx, ledger.Owner, types.OperationReconfigurePool)
	requireT.NoError(err)

	requireT.NoError(k.ReconfigurePool(at(ctx, t0-10), ledger.Owner, poolID, t0, t0+1000, sdkmath.NewInt(4)))

	surplus, err := k.Surplus(at(ctx, t0-10), poolID)
	requireT.NoError(err)
	requireT.Equal(coins(rewardDenom, 6000).String(), surplus.String())
}

func TestReconfigureMovesStartEarlier(t *testing.T) {
	requireT := require.New(t)

	ledger := newLedger(t)
	ctx := ledger.Context()
	k := ledger.Keeper

	alice := ledger.GenAccount()
	mintItems(t, ledger, ctx, kittyClass, alice, "alice-1")
	poolID := addPool(t, ledger, ctx, types.NFTStakeKind(kittyClass), t0+1000, t0+2000, 1)
	_, err := k.UnlockOperation(ctx, ledger.Owner, types.OperationReconfigurePool)
	requireT.NoError(err)

	// Opening the window 900 seconds earlier needs 900 more escrow.
	requireT.NoError(ledger.FundAccount(ctx, ledger.Owner, coins(rewardDenom, 900)))
	requireT.NoError(k.ReconfigurePool(at(ctx, t0), ledger.Owner, poolID, t0+100, t0+2000, sdkmath.NewInt(1)))

	pool, err := k.GetPool(ctx, poolID)
	requireT.NoError(err)
	requireT.Equal(t0+100, pool.StartTime)
	requireT.Equal(t0+100, pool.LastAccrualTime)
	requireT.Equal("1900", escrowOf(t, ledger, ctx, poolID, rewardDenom).Funded.String())

	_, err = k.Deposit(at(ctx, t0+100), alice, poolID, []string{"alice-1"}, sdkmath.Int{})
	requireT.NoError(err)
	reward, err := k.Harvest(at(ctx, t0+600), alice, poolID)
	requireT.NoError(err)
	requireT.Equal(coins(rewardDenom, 500).String(), reward.String())

	// A start in the past opens the window at the reconfiguration time.
	requireT.NoError(k.ReconfigurePool(at(ctx, t0+700), ledger.Owner, poolID, t0, t0+2000, sdkmath.NewInt(1)))
	pool, err = k.GetPool(ctx, poolID)
	requireT.NoError(err)
	requireT.Equal(t0+700, pool.LastAccrualTime)
	requireInvariants(t, ledger, at(ctx, t0+700))
}

func TestTimeLock(t *testing.T) {
	requireT := require.New(t)

	ledger := newLedger(t)
	ctx := ledger.Context()
	k := ledger.Keeper
	qs := ledger.QueryServer()

	stranger := ledger.GenAccount()
	_, err := k.UnlockOperation(ctx, stranger, types.OperationUpdateParams)
	requireT.ErrorIs(err, types.ErrUnauthorized)
	_, err = k.UnlockOperation(ctx, ledger.Owner, "Withdraw")
	requireT.ErrorIs(err, types.ErrInvalidInput)

	unlockAt, err := k.UnlockOperation(ctx, ledger.Owner, types.OperationUpdateParams)
	requireT.NoError(err)
	requireT.Equal(genesisTime.Add(types.TimeLockDelay).Unix(), unlockAt)

	params := types.Params{Operator: stranger.String()}
	requireT.ErrorIs(
		k.UpdateParams(ctx.WithBlockTime(genesisTime.Add(time.Hour)), ledger.Owner, params),
		types.ErrLockedOperation,
	)

	res, err := qs.TimeLock(ctx, &types.QueryTimeLockRequest{Operation: types.OperationUpdateParams})
	requireT.NoError(err)
	requireT.Equal(unlockAt, res.UnlockAt)
	requireT.False(res.Unlocked)

	later := ctx.WithBlockTime(genesisTime.Add(types.TimeLockDelay))
	requireT.NoError(k.UpdateParams(later, ledger.Owner, params))
	got, err := k.GetParams(later)
	requireT.NoError(err)
	requireT.Equal(params, got)

	// Unlocks are not consumed by execution.
	requireT.NoError(k.UpdateParams(later, ledger.Owner, types.DefaultParams()))

	requireT.NoError(k.LockOperation(later, ledger.Owner, types.OperationUpdateParams))
	requireT.ErrorIs(k.UpdateParams(later, ledger.Owner, params), types.ErrLockedOperation)
	res, err = qs.TimeLock(later, &types.QueryTimeLockRequest{Operation: types.OperationUpdateParams})
	requireT.NoError(err)
	requireT.False(res.Unlocked)
	requireT.Zero(res.UnlockAt)
}
