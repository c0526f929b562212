package types

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	cosmoserrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// MsgAddPool creates a pool and escrows its full reward.
type MsgAddPool struct {
	Sender          string        `json:"sender"`
	StakeKind       StakeKind     `json:"stake_kind"`
	RewardTokens    []RewardToken `json:"reward_tokens"`
	StartTime       int64         `json:"start_time"`
	ExpirationTime  int64         `json:"expiration_time"`
	RewardPerSecond sdkmath.Int   `json:"reward_per_second"`
}

// MsgAddPoolResponse is the response of MsgAddPool.
type MsgAddPoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgReconfigurePool changes the schedule and emission rate of a pool.
type MsgReconfigurePool struct {
	Authority       string      `json:"authority"`
	PoolID          uint64      `json:"pool_id"`
	StartTime       int64       `json:"start_time"`
	ExpirationTime  int64       `json:"expiration_time"`
	RewardPerSecond sdkmath.Int `json:"reward_per_second"`
}

// MsgDeposit stakes nft items, or an amount for native pools.
type MsgDeposit struct {
	Sender  string      `json:"sender"`
	PoolID  uint64      `json:"pool_id"`
	ItemIDs []string    `json:"item_ids,omitempty"`
	Amount  sdkmath.Int `json:"amount,omitempty"`
}

// MsgWithdraw unstakes nft items, or an amount for native pools, and harvests.
type MsgWithdraw struct {
	Sender  string      `json:"sender"`
	PoolID  uint64      `json:"pool_id"`
	ItemIDs []string    `json:"item_ids,omitempty"`
	Amount  sdkmath.Int `json:"amount,omitempty"`
}

// MsgHarvest pays the pending reward of the sender.
type MsgHarvest struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
}

// MsgEmergencyWithdraw returns the whole stake of the sender and forfeits the pending reward.
type MsgEmergencyWithdraw struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
}

// MsgRewardResponse is the response of the messages which settle reward.
type MsgRewardResponse struct {
	Reward sdk.Coins `json:"reward"`
}

// MsgSweepUnallocated recovers module balances not reserved by any pool.
type MsgSweepUnallocated struct {
	Sender string   `json:"sender"`
	Denoms []string `json:"denoms"`
}

// MsgSweepPoolReward recovers surplus reward escrow of a pool.
type MsgSweepPoolReward struct {
	Sender string    `json:"sender"`
	PoolID uint64    `json:"pool_id"`
	Amount sdk.Coins `json:"amount"`
}

// MsgSweepMultiplePools recovers the whole surplus of several pools.
type MsgSweepMultiplePools struct {
	Authority string   `json:"authority"`
	PoolIDs   []uint64 `json:"pool_ids"`
}

// MsgSweepResponse is the response of the sweep messages.
type MsgSweepResponse struct {
	Amount sdk.Coins `json:"amount"`
}

// MsgUnlockOperation arms the timelock of a protected operation.
type MsgUnlockOperation struct {
	Authority string `json:"authority"`
	Operation string `json:"operation"`
}

// MsgLockOperation removes the timelock entry of a protected operation.
type MsgLockOperation struct {
	Authority string `json:"authority"`
	Operation string `json:"operation"`
}

// MsgUpdateParams updates the module params.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// EmptyResponse is returned by messages without a result.
type EmptyResponse struct{}

// ValidateBasic checks that message fields are valid.
func (m *MsgAddPool) ValidateBasic() error {
	if err := validateAddress("sender", m.Sender); err != nil {
		return err
	}
	if err := m.StakeKind.Validate(); err != nil {
		return err
	}
	if err := ValidateSchedule(m.StartTime, m.ExpirationTime); err != nil {
		return err
	}
	return ValidateRewardTokens(m.RewardPerSecond, m.RewardTokens)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgReconfigurePool) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if err := ValidateSchedule(m.StartTime, m.ExpirationTime); err != nil {
		return err
	}
	if m.RewardPerSecond.IsNil() || !m.RewardPerSecond.IsPositive() {
		return cosmoserrors.ErrInvalidRequest.Wrap("reward per second must be positive")
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgDeposit) ValidateBasic() error {
	if err := validateAddress("sender", m.Sender); err != nil {
		return err
	}
	return validateStake(m.ItemIDs, m.Amount)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgWithdraw) ValidateBasic() error {
	if err := validateAddress("sender", m.Sender); err != nil {
		return err
	}
	return validateStake(m.ItemIDs, m.Amount)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgHarvest) ValidateBasic() error {
	return validateAddress("sender", m.Sender)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgEmergencyWithdraw) ValidateBasic() error {
	return validateAddress("sender", m.Sender)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgSweepUnallocated) ValidateBasic() error {
	if err := validateAddress("sender", m.Sender); err != nil {
		return err
	}
	if len(m.Denoms) == 0 {
		return cosmoserrors.ErrInvalidRequest.Wrap("must specify at least one denom")
	}
	seen := make(map[string]bool)
	for _, denom := range m.Denoms {
		if err := sdk.ValidateDenom(denom); err != nil {
			return cosmoserrors.ErrInvalidRequest.Wrapf("invalid denom: %s", err)
		}
		if seen[denom] {
			return cosmoserrors.ErrInvalidRequest.Wrapf("duplicate denom: %s", denom)
		}
		seen[denom] = true
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgSweepPoolReward) ValidateBasic() error {
	if err := validateAddress("sender", m.Sender); err != nil {
		return err
	}
	if m.Amount.Empty() {
		return cosmoserrors.ErrInvalidRequest.Wrap("must specify an amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return cosmoserrors.ErrInvalidCoins.Wrap(err.Error())
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgSweepMultiplePools) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if len(m.PoolIDs) == 0 {
		return cosmoserrors.ErrInvalidRequest.Wrap("must specify at least one pool")
	}
	seen := make(map[uint64]bool)
	for _, id := range m.PoolIDs {
		if seen[id] {
			return cosmoserrors.ErrInvalidRequest.Wrapf("duplicate pool id: %d", id)
		}
		seen[id] = true
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgUnlockOperation) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return validateOperation(m.Operation)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgLockOperation) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return validateOperation(m.Operation)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgUpdateParams) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return m.Params.ValidateBasic()
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid %s address: %s", field, err)
	}
	return nil
}

func validateOperation(operation string) error {
	if !IsProtectedOperation(operation) {
		return cosmoserrors.ErrInvalidRequest.Wrapf("unknown operation: %s", operation)
	}
	return nil
}

func validateStake(itemIDs []string, amount sdkmath.Int) error {
	hasAmount := !amount.IsNil() && !amount.IsZero()
	switch {
	case len(itemIDs) == 0 && !hasAmount:
		return cosmoserrors.ErrInvalidRequest.Wrap("must specify item ids or an amount")
	case len(itemIDs) > 0 && hasAmount:
		return cosmoserrors.ErrInvalidRequest.Wrap("item ids and amount are mutually exclusive")
	case hasAmount:
		if amount.IsNegative() {
			return cosmoserrors.ErrInvalidRequest.Wrap("amount must be positive")
		}
		return nil
	}

	seen := make(map[string]bool)
	for _, id := range itemIDs {
		if id == "" || len(id) > MaxItemIDLength {
			return cosmoserrors.ErrInvalidRequest.Wrapf("invalid item id: %q", id)
		}
		if seen[id] {
			return cosmoserrors.ErrInvalidRequest.Wrapf("duplicate item id: %s", id)
		}
		seen[id] = true
	}
	return nil
}
