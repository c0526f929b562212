package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

var _ types.MsgServer = MsgServer{}

// MsgServer serves tx requests for the module.
type MsgServer struct {
	keeper Keeper
}

// NewMsgServer returns a new instance of the MsgServer.
func NewMsgServer(keeper Keeper) MsgServer {
	return MsgServer{
		keeper: keeper,
	}
}

// AddPool creates a pool funded by the sender.
func (ms MsgServer) AddPool(goCtx context.Context, req *types.MsgAddPool) (*types.MsgAddPoolResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	poolID, err := ms.keeper.AddPool(
		goCtx, sender, req.StakeKind, req.RewardTokens, req.StartTime, req.ExpirationTime, req.RewardPerSecond,
	)
	if err != nil {
		return nil, err
	}
	return &types.MsgAddPoolResponse{PoolID: poolID}, nil
}

// ReconfigurePool is a timelocked owner operation that changes the window and rate of a pool.
func (ms MsgServer) ReconfigurePool(goCtx context.Context, req *types.MsgReconfigurePool) (*types.EmptyResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := ms.address(req.Authority)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.ReconfigurePool(
		goCtx, authority, req.PoolID, req.StartTime, req.ExpirationTime, req.RewardPerSecond,
	); err != nil {
		return nil, err
	}
	return &types.EmptyResponse{}, nil
}

// Deposit stakes items or an amount.
func (ms MsgServer) Deposit(goCtx context.Context, req *types.MsgDeposit) (*types.MsgRewardResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	reward, err := ms.keeper.Deposit(goCtx, sender, req.PoolID, req.ItemIDs, req.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgRewardResponse{Reward: reward}, nil
}

// Withdraw unstakes items or an amount.
func (ms MsgServer) Withdraw(goCtx context.Context, req *types.MsgWithdraw) (*types.MsgRewardResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	reward, err := ms.keeper.Withdraw(goCtx, sender, req.PoolID, req.ItemIDs, req.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgRewardResponse{Reward: reward}, nil
}

// Harvest pays the pending reward.
func (ms MsgServer) Harvest(goCtx context.Context, req *types.MsgHarvest) (*types.MsgRewardResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	reward, err := ms.keeper.Harvest(goCtx, sender, req.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgRewardResponse{Reward: reward}, nil
}

// EmergencyWithdraw returns the whole stake and forfeits the pending reward.
func (ms MsgServer) EmergencyWithdraw(
	goCtx context.Context,
	req *types.MsgEmergencyWithdraw,
) (*types.EmptyResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.EmergencyWithdraw(goCtx, sender, req.PoolID); err != nil {
		return nil, err
	}
	return &types.EmptyResponse{}, nil
}

// SweepUnallocated recovers balances no pool reserves.
func (ms MsgServer) SweepUnallocated(
	goCtx context.Context,
	req *types.MsgSweepUnallocated,
) (*types.MsgSweepResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	amount, err := ms.keeper.SweepUnallocated(goCtx, sender, req.Denoms)
	if err != nil {
		return nil, err
	}
	return &types.MsgSweepResponse{Amount: amount}, nil
}

// SweepPoolReward recovers part of the surplus of a pool.
func (ms MsgServer) SweepPoolReward(
	goCtx context.Context,
	req *types.MsgSweepPoolReward,
) (*types.MsgSweepResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	amount, err := ms.keeper.SweepPoolReward(goCtx, sender, req.PoolID, req.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgSweepResponse{Amount: amount}, nil
}

// SweepMultiplePools is a timelocked owner operation recovering the surplus of several pools.
func (ms MsgServer) SweepMultiplePools(
	goCtx context.Context,
	req *types.MsgSweepMultiplePools,
) (*types.MsgSweepResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := ms.address(req.Authority)
	if err != nil {
		return nil, err
	}
	amount, err := ms.keeper.SweepMultiplePools(goCtx, authority, req.PoolIDs)
	if err != nil {
		return nil, err
	}
	return &types.MsgSweepResponse{Amount: amount}, nil
}

// UnlockOperation arms the timelock of a protected operation.
func (ms MsgServer) UnlockOperation(
	goCtx context.Context,
	req *types.MsgUnlockOperation,
) (*types.EmptyResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := ms.address(req.Authority)
	if err != nil {
		return nil, err
	}
	if _, err := ms.keeper.UnlockOperation(goCtx, authority, req.Operation); err != nil {
		return nil, err
	}
	return &types.EmptyResponse{}, nil
}

// LockOperation disarms the timelock of a protected operation.
func (ms MsgServer) LockOperation(goCtx context.Context, req *types.MsgLockOperation) (*types.EmptyResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := ms.address(req.Authority)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.LockOperation(goCtx, authority, req.Operation); err != nil {
		return nil, err
	}
	return &types.EmptyResponse{}, nil
}

// UpdateParams is a timelocked owner operation replacing the params.
func (ms MsgServer) UpdateParams(goCtx context.Context, req *types.MsgUpdateParams) (*types.EmptyResponse, error) {
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := ms.address(req.Authority)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.UpdateParams(goCtx, authority, req.Params); err != nil {
		return nil, err
	}
	return &types.EmptyResponse{}, nil
}

func (ms MsgServer) address(addr string) (sdk.AccAddress, error) {
	bz, err := ms.keeper.addressCodec.StringToBytes(addr)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidInput, "invalid address %s: %s", addr, err)
	}
	return bz, nil
}
