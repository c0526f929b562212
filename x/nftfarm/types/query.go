package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryParamsRequest is the request of the Params query.
type QueryParamsRequest struct{}

// QueryParamsResponse is the response of the Params query.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryPoolRequest is the request of the Pool query.
type QueryPoolRequest struct {
	PoolID uint64 `json:"pool_id"`
}

// QueryPoolResponse is the response of the Pool query.
type QueryPoolResponse struct {
	Pool    Pool               `json:"pool"`
	Escrows []PoolRewardEscrow `json:"escrows"`
}

// QueryPoolsRequest is the request of the Pools query.
type QueryPoolsRequest struct{}

// QueryPoolsResponse is the response of the Pools query.
type QueryPoolsResponse struct {
	Pools []Pool `json:"pools"`
}

// QueryPositionRequest is the request of the Position and StakedItems queries.
type QueryPositionRequest struct {
	PoolID  uint64 `json:"pool_id"`
	Address string `json:"address"`
}

// QueryPositionResponse is the response of the Position query.
type QueryPositionResponse struct {
	Position Position `json:"position"`
}

// QueryStakedItemsResponse is the response of the StakedItems query.
type QueryStakedItemsResponse struct {
	ItemIDs []string `json:"item_ids"`
}

// QueryPendingRewardResponse is the response of the PendingReward query.
type QueryPendingRewardResponse struct {
	Reward sdk.Coins `json:"reward"`
}

// QuerySurplusRequest is the request of the Surplus query.
type QuerySurplusRequest struct {
	PoolID uint64 `json:"pool_id"`
}

// QuerySurplusResponse is the response of the Surplus query.
type QuerySurplusResponse struct {
	Surplus sdk.Coins `json:"surplus"`
}

// QueryTimeLockRequest is the request of the TimeLock query.
type QueryTimeLockRequest struct {
	Operation string `json:"operation"`
}

// QueryTimeLockResponse is the response of the TimeLock query.
type QueryTimeLockResponse struct {
	// UnlockAt is zero when the operation is locked without an entry.
	UnlockAt int64 `json:"unlock_at"`
	Unlocked bool  `json:"unlocked"`
}
