package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return err
	}
	if err := k.PoolSequence.Set(ctx, genState.NextPoolID); err != nil {
		return err
	}

	pools := make(map[uint64]types.Pool, len(genState.Pools))
	for _, pool := range genState.Pools {
		if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
			return err
		}
		if err := k.StakeKinds.Set(ctx, pool.StakeKind.Key(), pool.ID); err != nil {
			return err
		}
		pools[pool.ID] = pool
	}

	for _, e := range genState.RewardEscrows {
		if err := k.RewardEscrows.Set(ctx, collections.Join(e.PoolID, e.Denom), e.Escrow); err != nil {
			return err
		}
	}

	for _, p := range genState.Positions {
		owner, err := k.addressCodec.StringToBytes(p.Owner)
		if err != nil {
			return errors.Wrapf(err, "invalid position owner %s", p.Owner)
		}
		if err := k.Positions.Set(ctx, collections.Join(p.PoolID, sdk.AccAddress(owner)), p.Position); err != nil {
			return err
		}
	}

	for _, item := range genState.StakedItems {
		owner, err := k.addressCodec.StringToBytes(item.Owner)
		if err != nil {
			return errors.Wrapf(err, "invalid staked item owner %s", item.Owner)
		}
		if err := k.addItem(ctx, pools[item.PoolID], owner, item.NFTID); err != nil {
			return err
		}
	}

	for _, lock := range genState.TimeLocks {
		if err := k.TimeLocks.Set(ctx, types.OperationID(lock.Operation), lock.UnlockAt); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis returns the module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	var err error

	genesis := types.DefaultGenesisState()
	genesis.Params, err = k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	genesis.NextPoolID, err = k.PoolSequence.Peek(ctx)
	if err != nil {
		return nil, err
	}
	genesis.Pools, err = k.GetPools(ctx)
	if err != nil {
		return nil, err
	}

	for _, pool := range genesis.Pools {
		escrows, err := k.GetRewardEscrows(ctx, pool)
		if err != nil {
			return nil, err
		}
		genesis.RewardEscrows = append(genesis.RewardEscrows, escrows...)
	}

	err = k.Positions.Walk(ctx, nil,
		func(key collections.Pair[uint64, sdk.AccAddress], position types.Position) (bool, error) {
			owner, err := k.addressCodec.BytesToString(key.K2())
			if err != nil {
				return true, err
			}
			genesis.Positions = append(genesis.Positions, types.PoolPosition{
				PoolID:   key.K1(),
				Owner:    owner,
				Position: position,
			})
			return false, nil
		})
	if err != nil {
		return nil, err
	}

	err = k.StakedItems.Walk(ctx, nil,
		func(key collections.Pair[string, string], item types.StakedItem) (bool, error) {
			owner, err := k.addressCodec.BytesToString(item.Owner)
			if err != nil {
				return true, err
			}
			genesis.StakedItems = append(genesis.StakedItems, types.GenesisStakedItem{
				ClassID: key.K1(),
				NFTID:   key.K2(),
				PoolID:  item.PoolID,
				Owner:   owner,
			})
			return false, nil
		})
	if err != nil {
		return nil, err
	}

	for _, operation := range types.GetProtectedOperations() {
		unlockAt, found, err := k.GetTimeLock(ctx, operation)
		if err != nil {
			return nil, err
		}
		if found {
			genesis.TimeLocks = append(genesis.TimeLocks, types.TimeLock{
				Operation: operation,
				UnlockAt:  unlockAt,
			})
		}
	}

	return genesis, nil
}
