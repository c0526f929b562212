package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestGenesisValidate(t *testing.T) {
	owner := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()

	validGenesis := func() *GenesisState {
		pool := validPool()
		pool.ID = 0
		pool.TotalShares = sdkmath.NewInt(2)

		genesis := DefaultGenesisState()
		genesis.NextPoolID = 1
		genesis.Pools = []Pool{pool}
		genesis.RewardEscrows = []PoolRewardEscrow{
			{PoolID: 0, Denom: "ubary", Escrow: NewRewardEscrow(sdkmath.NewInt(1000))},
			{PoolID: 0, Denom: "uvic", Escrow: NewRewardEscrow(sdkmath.NewInt(2000))},
		}
		genesis.Positions = []PoolPosition{
			{PoolID: 0, Owner: owner, Position: Position{
				Shares:     sdkmath.NewInt(2),
				RewardDebt: []sdkmath.Int{sdkmath.ZeroInt(), sdkmath.ZeroInt()},
			}},
		}
		genesis.StakedItems = []GenesisStakedItem{
			{ClassID: "kitty", NFTID: "kitty-1", PoolID: 0, Owner: owner},
			{ClassID: "kitty", NFTID: "kitty-2", PoolID: 0, Owner: owner},
		}
		genesis.TimeLocks = []TimeLock{{Operation: OperationUpdateParams, UnlockAt: 100}}
		return genesis
	}

	testCases := []struct {
		name      string
		modify    func(genesis *GenesisState)
		expectErr bool
	}{
		{
			name:   "valid",
			modify: func(*GenesisState) {},
		},
		{
			name: "pool_id_not_below_next",
			modify: func(genesis *GenesisState) {
				genesis.NextPoolID = 0
			},
			expectErr: true,
		},
		{
			name: "duplicate_stake_kind",
			modify: func(genesis *GenesisState) {
				pool := genesis.Pools[0]
				pool.ID = 1
				pool.TotalShares = sdkmath.ZeroInt()
				genesis.NextPoolID = 2
				genesis.Pools = append(genesis.Pools, pool)
			},
			expectErr: true,
		},
		{
			name: "missing_escrow",
			modify: func(genesis *GenesisState) {
				genesis.RewardEscrows = genesis.RewardEscrows[:1]
			},
			expectErr: true,
		},
		{
			name: "overpaid_escrow",
			modify: func(genesis *GenesisState) {
				genesis.RewardEscrows[0].Escrow.Paid = sdkmath.NewInt(1001)
			},
			expectErr: true,
		},
		{
			name: "shares_mismatch",
			modify: func(genesis *GenesisState) {
				genesis.Pools[0].TotalShares = sdkmath.NewInt(3)
			},
			expectErr: true,
		},
		{
			name: "items_mismatch",
			modify: func(genesis *GenesisState) {
				genesis.StakedItems = genesis.StakedItems[:1]
			},
			expectErr: true,
		},
		{
			name: "duplicate_item",
			modify: func(genesis *GenesisState) {
				genesis.StakedItems[1].NFTID = "kitty-1"
			},
			expectErr: true,
		},
		{
			name: "item_of_other_class",
			modify: func(genesis *GenesisState) {
				genesis.StakedItems[1].ClassID = "punk"
			},
			expectErr: true,
		},
		{
			name: "unknown_timelock",
			modify: func(genesis *GenesisState) {
				genesis.TimeLocks = append(genesis.TimeLocks, TimeLock{Operation: "Harvest"})
			},
			expectErr: true,
		},
		{
			name: "reward_debt_length",
			modify: func(genesis *GenesisState) {
				genesis.Positions[0].Position.RewardDebt = genesis.Positions[0].Position.RewardDebt[:1]
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			genesis := validGenesis()
			tc.modify(genesis)
			err := genesis.Validate()
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	require.NoError(t, DefaultGenesisState().Validate())
}
