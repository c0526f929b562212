package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

var _ types.QueryServer = QueryService{}

// QueryService serves read-only requests for the module.
type QueryService struct {
	keeper Keeper
}

// NewQueryService creates query service.
func NewQueryService(keeper Keeper) QueryService {
	return QueryService{
		keeper: keeper,
	}
}

// Params returns params of the module.
func (qs QueryService) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := qs.keeper.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryParamsResponse{
		Params: params,
	}, nil
}

// Pool returns a pool together with its reward escrows.
func (qs QueryService) Pool(ctx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	pool, err := qs.keeper.GetPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	escrows, err := qs.keeper.GetRewardEscrows(ctx, pool)
	if err != nil {
		return nil, err
	}

	return &types.QueryPoolResponse{
		Pool:    pool,
		Escrows: escrows,
	}, nil
}

// Pools returns all pools.
func (qs QueryService) Pools(ctx context.Context, _ *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	pools, err := qs.keeper.GetPools(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryPoolsResponse{
		Pools: pools,
	}, nil
}

// Position returns the position of an address in a pool.
func (qs QueryService) Position(
	ctx context.Context,
	req *types.QueryPositionRequest,
) (*types.QueryPositionResponse, error) {
	addr, err := qs.address(req.Address)
	if err != nil {
		return nil, err
	}
	position, err := qs.keeper.GetPosition(ctx, req.PoolID, addr)
	if err != nil {
		return nil, err
	}

	return &types.QueryPositionResponse{
		Position: position,
	}, nil
}

// StakedItems returns the items an address holds in a pool.
func (qs QueryService) StakedItems(
	ctx context.Context,
	req *types.QueryPositionRequest,
) (*types.QueryStakedItemsResponse, error) {
	addr, err := qs.address(req.Address)
	if err != nil {
		return nil, err
	}
	if _, err := qs.keeper.GetPool(ctx, req.PoolID); err != nil {
		return nil, err
	}
	itemIDs, err := qs.keeper.GetStakedItems(ctx, req.PoolID, addr)
	if err != nil {
		return nil, err
	}

	return &types.QueryStakedItemsResponse{
		ItemIDs: itemIDs,
	}, nil
}

// PendingReward returns the reward an address would harvest now.
func (qs QueryService) PendingReward(
	ctx context.Context,
	req *types.QueryPositionRequest,
) (*types.QueryPendingRewardResponse, error) {
	addr, err := qs.address(req.Address)
	if err != nil {
		return nil, err
	}
	reward, err := qs.keeper.PendingReward(ctx, req.PoolID, addr)
	if err != nil {
		return nil, err
	}

	return &types.QueryPendingRewardResponse{
		Reward: reward,
	}, nil
}

// Surplus returns the sweepable surplus of a pool.
func (qs QueryService) Surplus(ctx context.Context, req *types.QuerySurplusRequest) (*types.QuerySurplusResponse, error) {
	surplus, err := qs.keeper.Surplus(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}

	return &types.QuerySurplusResponse{
		Surplus: surplus,
	}, nil
}

// TimeLock returns the timelock state of a protected operation.
func (qs QueryService) TimeLock(
	ctx context.Context,
	req *types.QueryTimeLockRequest,
) (*types.QueryTimeLockResponse, error) {
	if !types.IsProtectedOperation(req.Operation) {
		return nil, errors.Wrapf(types.ErrInvalidInput, "operation %q is not timelocked", req.Operation)
	}
	unlockAt, _, err := qs.keeper.GetTimeLock(ctx, req.Operation)
	if err != nil {
		return nil, err
	}
	unlocked, err := qs.keeper.IsUnlocked(ctx, req.Operation)
	if err != nil {
		return nil, err
	}

	return &types.QueryTimeLockResponse{
		UnlockAt: unlockAt,
		Unlocked: unlocked,
	}, nil
}

func (qs QueryService) address(addr string) (sdk.AccAddress, error) {
	bz, err := qs.keeper.addressCodec.StringToBytes(addr)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidInput, "invalid address %s: %s", addr, err)
	}
	return bz, nil
}
