package types

import (
	"strings"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	cosmoserrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"
)

type validatable interface {
	ValidateBasic() error
}

func TestMsgValidateBasic(t *testing.T) {
	addr := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()
	oneX := []RewardToken{{Denom: "ubary", Multiplier: MultiplierPrecision}}

	testCases := []struct {
		name        string
		msg         validatable
		expectedErr error
	}{
		{
			name: "add_pool",
			msg: &MsgAddPool{
				Sender:          addr,
				StakeKind:       NFTStakeKind("kitty"),
				RewardTokens:    oneX,
				StartTime:       10,
				ExpirationTime:  20,
				RewardPerSecond: sdkmath.NewInt(1),
			},
		},
		{
			name: "add_pool_invalid_sender",
			msg: &MsgAddPool{
				Sender:          "sender",
				StakeKind:       NFTStakeKind("kitty"),
				RewardTokens:    oneX,
				StartTime:       10,
				ExpirationTime:  20,
				RewardPerSecond: sdkmath.NewInt(1),
			},
			expectedErr: cosmoserrors.ErrInvalidAddress,
		},
		{
			name: "add_pool_empty_window",
			msg: &MsgAddPool{
				Sender:          addr,
				StakeKind:       NFTStakeKind("kitty"),
				RewardTokens:    oneX,
				StartTime:       20,
				ExpirationTime:  20,
				RewardPerSecond: sdkmath.NewInt(1),
			},
			expectedErr: ErrInvalidSchedule,
		},
		{
			name: "add_pool_without_reward",
			msg: &MsgAddPool{
				Sender:          addr,
				StakeKind:       NativeStakeKind("uwvic"),
				StartTime:       10,
				ExpirationTime:  20,
				RewardPerSecond: sdkmath.NewInt(1),
			},
			expectedErr: ErrInvalidInput,
		},
		{
			name: "reconfigure_pool",
			msg: &MsgReconfigurePool{
				Authority:       addr,
				StartTime:       10,
				ExpirationTime:  20,
				RewardPerSecond: sdkmath.NewInt(1),
			},
		},
		{
			name: "reconfigure_pool_zero_rate",
			msg: &MsgReconfigurePool{
				Authority:       addr,
				StartTime:       10,
				ExpirationTime:  20,
				RewardPerSecond: sdkmath.ZeroInt(),
			},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name: "deposit_items",
			msg:  &MsgDeposit{Sender: addr, ItemIDs: []string{"kitty-1", "kitty-2"}},
		},
		{
			name: "deposit_amount",
			msg:  &MsgDeposit{Sender: addr, Amount: sdkmath.NewInt(5)},
		},
		{
			name:        "deposit_items_and_amount",
			msg:         &MsgDeposit{Sender: addr, ItemIDs: []string{"kitty-1"}, Amount: sdkmath.NewInt(5)},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name:        "deposit_negative_amount",
			msg:         &MsgDeposit{Sender: addr, Amount: sdkmath.NewInt(-5)},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name:        "deposit_duplicate_item",
			msg:         &MsgDeposit{Sender: addr, ItemIDs: []string{"kitty-1", "kitty-1"}},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name:        "withdraw_empty_item",
			msg:         &MsgWithdraw{Sender: addr, ItemIDs: []string{"kitty-1", ""}},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name:        "withdraw_too_long_item",
			msg:         &MsgWithdraw{Sender: addr, ItemIDs: []string{strings.Repeat("k", MaxItemIDLength+1)}},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name: "withdraw_short_item",
			msg:  &MsgWithdraw{Sender: addr, ItemIDs: []string{"1"}},
		},
		{
			name: "harvest",
			msg:  &MsgHarvest{Sender: addr},
		},
		{
			name:        "emergency_withdraw_invalid_sender",
			msg:         &MsgEmergencyWithdraw{Sender: ""},
			expectedErr: cosmoserrors.ErrInvalidAddress,
		},
		{
			name: "sweep_unallocated",
			msg:  &MsgSweepUnallocated{Sender: addr, Denoms: []string{"ubary", "uvic"}},
		},
		{
			name:        "sweep_unallocated_duplicate_denom",
			msg:         &MsgSweepUnallocated{Sender: addr, Denoms: []string{"ubary", "ubary"}},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name: "sweep_pool_reward",
			msg:  &MsgSweepPoolReward{Sender: addr, Amount: sdk.NewCoins(sdk.NewInt64Coin("ubary", 1))},
		},
		{
			name:        "sweep_pool_reward_empty",
			msg:         &MsgSweepPoolReward{Sender: addr},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name: "sweep_multiple_pools",
			msg:  &MsgSweepMultiplePools{Authority: addr, PoolIDs: []uint64{0, 1}},
		},
		{
			name:        "sweep_multiple_pools_empty",
			msg:         &MsgSweepMultiplePools{Authority: addr},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name: "unlock_operation",
			msg:  &MsgUnlockOperation{Authority: addr, Operation: OperationReconfigurePool},
		},
		{
			name:        "lock_unknown_operation",
			msg:         &MsgLockOperation{Authority: addr, Operation: "Harvest"},
			expectedErr: cosmoserrors.ErrInvalidRequest,
		},
		{
			name: "update_params",
			msg:  &MsgUpdateParams{Authority: addr, Params: Params{Operator: addr}},
		},
		{
			name:        "update_params_invalid_operator",
			msg:         &MsgUpdateParams{Authority: addr, Params: Params{Operator: "operator"}},
			expectedErr: ErrInvalidParam,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
