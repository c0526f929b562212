package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the nftfarm module genesis state.
type GenesisState struct {
	Params        Params              `json:"params"`
	NextPoolID    uint64              `json:"next_pool_id"`
	Pools         []Pool              `json:"pools"`
	RewardEscrows []PoolRewardEscrow  `json:"reward_escrows"`
	Positions     []PoolPosition      `json:"positions"`
	StakedItems   []GenesisStakedItem `json:"staked_items"`
	TimeLocks     []TimeLock          `json:"time_locks"`
}

// PoolRewardEscrow is the escrow of one reward denom of a pool.
type PoolRewardEscrow struct {
	PoolID uint64       `json:"pool_id"`
	Denom  string       `json:"denom"`
	Escrow RewardEscrow `json:"escrow"`
}

// PoolPosition is the position of one user in a pool.
type PoolPosition struct {
	PoolID   uint64   `json:"pool_id"`
	Owner    string   `json:"owner"`
	Position Position `json:"position"`
}

// GenesisStakedItem is one entry of the item membership index.
type GenesisStakedItem struct {
	ClassID string `json:"class_id"`
	NFTID   string `json:"nft_id"`
	PoolID  uint64 `json:"pool_id"`
	Owner   string `json:"owner"`
}

// DefaultGenesisState returns genesis state with default values.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params:        DefaultParams(),
		Pools:         []Pool{},
		RewardEscrows: []PoolRewardEscrow{},
		Positions:     []PoolPosition{},
		StakedItems:   []GenesisStakedItem{},
		TimeLocks:     []TimeLock{},
	}
}

// Validate validates genesis state.
//
//nolint:gocyclo // the checks are sequential and flat
func (m *GenesisState) Validate() error {
	if err := m.Params.ValidateBasic(); err != nil {
		return err
	}

	pools := make(map[uint64]Pool, len(m.Pools))
	stakeKinds := make(map[string]bool, len(m.Pools))
	for _, pool := range m.Pools {
		if pool.ID >= m.NextPoolID {
			return errorsmod.Wrapf(ErrInvalidInput, "pool id %d is not below next pool id %d", pool.ID, m.NextPoolID)
		}
		if _, found := pools[pool.ID]; found {
			return errorsmod.Wrapf(ErrInvalidInput, "duplicate pool id %d", pool.ID)
		}
		if err := pool.Validate(); err != nil {
			return err
		}
		if stakeKinds[pool.StakeKind.Key()] {
			return errorsmod.Wrapf(ErrDuplicateStakeKind, "stake kind %s", pool.StakeKind)
		}
		stakeKinds[pool.StakeKind.Key()] = true
		pools[pool.ID] = pool
	}

	escrows := make(map[string]bool, len(m.RewardEscrows))
	for _, e := range m.RewardEscrows {
		pool, found := pools[e.PoolID]
		if !found {
			return errorsmod.Wrapf(ErrPoolNotFound, "escrow references pool %d", e.PoolID)
		}
		if _, ok := pool.RewardIndex(e.Denom); !ok {
			return errorsmod.Wrapf(ErrInvalidInput, "escrow denom %s is not a reward token of pool %d", e.Denom, e.PoolID)
		}
		key := escrowKey(e.PoolID, e.Denom)
		if escrows[key] {
			return errorsmod.Wrapf(ErrInvalidInput, "duplicate escrow %s", key)
		}
		escrows[key] = true
		for _, v := range []sdkmath.Int{e.Escrow.Funded, e.Escrow.Accrued, e.Escrow.Paid, e.Escrow.Swept} {
			if v.IsNil() || v.IsNegative() {
				return errorsmod.Wrapf(ErrInvalidInput, "escrow %s has invalid amounts: %s", key, e.Escrow)
			}
		}
		if _, err := e.Escrow.Custody(); err != nil {
			return errorsmod.Wrapf(err, "escrow %s", key)
		}
	}
	for _, pool := range m.Pools {
		for _, denom := range pool.RewardDenoms() {
			if !escrows[escrowKey(pool.ID, denom)] {
				return errorsmod.Wrapf(ErrInvalidInput, "missing escrow %s", escrowKey(pool.ID, denom))
			}
		}
	}

	shares := make(map[uint64]sdkmath.Int, len(m.Pools))
	positionShares := make(map[string]sdkmath.Int, len(m.Positions))
	for _, p := range m.Positions {
		pool, found := pools[p.PoolID]
		if !found {
			return errorsmod.Wrapf(ErrPoolNotFound, "position references pool %d", p.PoolID)
		}
		if _, err := sdk.AccAddressFromBech32(p.Owner); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "position owner %s: %s", p.Owner, err)
		}
		key := positionKey(p.PoolID, p.Owner)
		if _, found := positionShares[key]; found {
			return errorsmod.Wrapf(ErrInvalidInput, "duplicate position %s", key)
		}
		if p.Position.Shares.IsNil() || p.Position.Shares.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidInput, "position %s has invalid shares", key)
		}
		if len(p.Position.RewardDebt) != len(pool.RewardTokens) {
			return errorsmod.Wrapf(ErrInvalidInput, "position %s has %d reward debts for %d reward tokens",
				key, len(p.Position.RewardDebt), len(pool.RewardTokens))
		}
		positionShares[key] = p.Position.Shares
		total, ok := shares[p.PoolID]
		if !ok {
			total = sdkmath.ZeroInt()
		}
		shares[p.PoolID] = total.Add(p.Position.Shares)
	}
	for _, pool := range m.Pools {
		total, ok := shares[pool.ID]
		if !ok {
			total = sdkmath.ZeroInt()
		}
		if !total.Equal(pool.TotalShares) {
			return errorsmod.Wrapf(ErrInvalidInput, "pool %d total shares %s, positions hold %s", pool.ID, pool.TotalShares, total)
		}
	}

	items := make(map[string]bool, len(m.StakedItems))
	itemCounts := make(map[string]int64, len(m.Positions))
	for _, item := range m.StakedItems {
		pool, found := pools[item.PoolID]
		if !found {
			return errorsmod.Wrapf(ErrPoolNotFound, "staked item references pool %d", item.PoolID)
		}
		if pool.StakeKind.IsNative() || pool.StakeKind.ClassID != item.ClassID {
			return errorsmod.Wrapf(ErrInvalidInput, "item %s/%s does not belong to pool %d", item.ClassID, item.NFTID, item.PoolID)
		}
		if _, err := sdk.AccAddressFromBech32(item.Owner); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "staked item owner %s: %s", item.Owner, err)
		}
		key := item.ClassID + "/" + item.NFTID
		if items[key] {
			return errorsmod.Wrapf(ErrDuplicateItem, "item %s", key)
		}
		items[key] = true
		itemCounts[positionKey(item.PoolID, item.Owner)]++
	}
	for _, p := range m.Positions {
		if pools[p.PoolID].StakeKind.IsNative() {
			continue
		}
		key := positionKey(p.PoolID, p.Owner)
		if !p.Position.Shares.Equal(sdkmath.NewInt(itemCounts[key])) {
			return errorsmod.Wrapf(ErrInvalidInput, "position %s has %s shares and %d staked items",
				key, p.Position.Shares, itemCounts[key])
		}
		delete(itemCounts, key)
	}
	if len(itemCounts) != 0 {
		return errorsmod.Wrap(ErrInvalidInput, "staked items without position")
	}

	locks := make(map[string]bool, len(m.TimeLocks))
	for _, lock := range m.TimeLocks {
		if !IsProtectedOperation(lock.Operation) {
			return errorsmod.Wrapf(ErrInvalidInput, "unknown timelocked operation %s", lock.Operation)
		}
		if locks[lock.Operation] {
			return errorsmod.Wrapf(ErrInvalidInput, "duplicate timelock %s", lock.Operation)
		}
		locks[lock.Operation] = true
	}

	return nil
}

func escrowKey(poolID uint64, denom string) string {
	return fmt.Sprintf("%d/%s", poolID, denom)
}

func positionKey(poolID uint64, owner string) string {
	return fmt.Sprintf("%d/%s", poolID, owner)
}
