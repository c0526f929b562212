package types

import "context"

// MsgServer is the transaction surface of the module.
type MsgServer interface {
	AddPool(context.Context, *MsgAddPool) (*MsgAddPoolResponse, error)
	ReconfigurePool(context.Context, *MsgReconfigurePool) (*EmptyResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgRewardResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgRewardResponse, error)
	Harvest(context.Context, *MsgHarvest) (*MsgRewardResponse, error)
	EmergencyWithdraw(context.Context, *MsgEmergencyWithdraw) (*EmptyResponse, error)
	SweepUnallocated(context.Context, *MsgSweepUnallocated) (*MsgSweepResponse, error)
	SweepPoolReward(context.Context, *MsgSweepPoolReward) (*MsgSweepResponse, error)
	SweepMultiplePools(context.Context, *MsgSweepMultiplePools) (*MsgSweepResponse, error)
	UnlockOperation(context.Context, *MsgUnlockOperation) (*EmptyResponse, error)
	LockOperation(context.Context, *MsgLockOperation) (*EmptyResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*EmptyResponse, error)
}

// QueryServer is the read-only surface of the module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	Position(context.Context, *QueryPositionRequest) (*QueryPositionResponse, error)
	StakedItems(context.Context, *QueryPositionRequest) (*QueryStakedItemsResponse, error)
	PendingReward(context.Context, *QueryPositionRequest) (*QueryPendingRewardResponse, error)
	Surplus(context.Context, *QuerySurplusRequest) (*QuerySurplusResponse, error)
	TimeLock(context.Context, *QueryTimeLockRequest) (*QueryTimeLockResponse, error)
}
