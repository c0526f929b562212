package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/coin98/baryon-farm/pkg/ledgersim"
	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

const (
	kittyClass  = "kitty"
	punkClass   = "punk"
	rewardDenom = "ubary"
	bonusDenom  = "uvic"
	stakeDenom  = "uwvic"
)

// genesisTime is the time of the first block, pools start a day and more after it so timelocks armed at genesis
// time are already executable.
var genesisTime = time.Unix(1_700_000_000, 0).UTC()

// t0 is the default pool start time.
var t0 = genesisTime.Add(48 * time.Hour).Unix()

func newLedger(t *testing.T, options ...ledgersim.Option) *ledgersim.Ledger {
	t.Helper()

	options = append([]ledgersim.Option{ledgersim.WithStartTime(genesisTime)}, options...)
	ledger := ledgersim.New(options...)
	ctx := ledger.Context()
	require.NoError(t, ledger.NFT.CreateClass(ctx, kittyClass))
	require.NoError(t, ledger.NFT.CreateClass(ctx, punkClass))
	return ledger
}

func at(ctx sdk.Context, unix int64) sdk.Context {
	return ctx.WithBlockTime(time.Unix(unix, 0).UTC())
}

func oneX() sdkmath.Int {
	return types.MultiplierPrecision
}

func singleReward(denom string) []types.RewardToken {
	return []types.RewardToken{{Denom: denom, Multiplier: oneX()}}
}

// addPool funds the owner and creates a pool with a 1.0x reward token.
func addPool(
	t *testing.T,
	ledger *ledgersim.Ledger,
	ctx sdk.Context,
	stakeKind types.StakeKind,
	start, expiration int64,
	rate int64,
) uint64 {
	t.Helper()

	required := sdkmath.NewInt(rate * (expiration - start))
	require.NoError(t, ledger.FundAccount(ctx, ledger.Owner, sdk.NewCoins(sdk.NewCoin(rewardDenom, required))))
	poolID, err := ledger.Keeper.AddPool(
		ctx, ledger.Owner, stakeKind, singleReward(rewardDenom), start, expiration, sdkmath.NewInt(rate),
	)
	require.NoError(t, err)
	return poolID
}

// mintItems mints items of the class to the owner.
func mintItems(t *testing.T, ledger *ledgersim.Ledger, ctx sdk.Context, classID string, owner sdk.AccAddress, ids ...string) {
	t.Helper()

	for _, id := range ids {
		require.NoError(t, ledger.NFT.MintTo(ctx, classID, id, owner))
	}
}

func balance(ledger *ledgersim.Ledger, ctx sdk.Context, addr sdk.AccAddress, denom string) sdkmath.Int {
	return ledger.Bank.GetBalance(ctx, addr, denom).Amount
}

func escrowOf(t *testing.T, ledger *ledgersim.Ledger, ctx sdk.Context, poolID uint64, denom string) types.RewardEscrow {
	t.Helper()

	pool, err := ledger.Keeper.GetPool(ctx, poolID)
	require.NoError(t, err)
	escrows, err := ledger.Keeper.GetRewardEscrows(ctx, pool)
	require.NoError(t, err)
	for _, e := range escrows {
		if e.Denom == denom {
			return e.Escrow
		}
	}
	require.FailNow(t, "escrow not found", denom)
	return types.RewardEscrow{}
}

func requireInvariants(t *testing.T, ledger *ledgersim.Ledger, ctx sdk.Context) {
	t.Helper()

	msg, broken := ledger.CheckInvariants(ctx)
	require.False(t, broken, msg)
}

func coins(denom string, amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewInt64Coin(denom, amount))
}

func poolPositionKey(poolID uint64, owner sdk.AccAddress) collections.Pair[uint64, sdk.AccAddress] {
	return collections.Join(poolID, owner)
}
