package types

// nftfarm module event types.
const (
	EventTypePoolAdded          = "pool_added"
	EventTypePoolReconfigured   = "pool_reconfigured"
	EventTypeDeposited          = "deposited"
	EventTypeWithdrawn          = "withdrawn"
	EventTypeHarvested          = "harvested"
	EventTypeEmergencyWithdrawn = "emergency_withdrawn"
	EventTypeSurplusSwept       = "surplus_swept"
	EventTypeUnallocatedSwept   = "unallocated_swept"
	EventTypeOperationUnlocked  = "operation_unlocked"
	EventTypeOperationLocked    = "operation_locked"
	EventTypeParamsUpdated      = "params_updated"

	AttributeKeyPoolID     = "pool_id"
	AttributeKeyUser       = "user"
	AttributeKeyStakeKind  = "stake_kind"
	AttributeKeyItems      = "items"
	AttributeKeyShares     = "shares"
	AttributeKeyReward     = "reward"
	AttributeKeyForfeited  = "forfeited"
	AttributeKeyAmount     = "amount"
	AttributeKeyStartTime  = "start_time"
	AttributeKeyExpiration = "expiration_time"
	AttributeKeyRate       = "reward_per_second"
	AttributeKeyOperation  = "operation"
	AttributeKeyUnlockAt   = "unlock_at"
)
