package types

import (
	"encoding/hex"
	"time"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/samber/lo"
)

// TimeLockDelay is the mandatory delay between unlocking and executing a protected operation.
const TimeLockDelay = 24 * time.Hour

// Protected operations.
const (
	OperationReconfigurePool    = "ReconfigurePool"
	OperationSweepMultiplePools = "SweepMultiplePools"
	OperationUpdateParams       = "UpdateParams"
)

// GetProtectedOperations returns all operations gated by the timelock.
func GetProtectedOperations() []string {
	return []string{
		OperationReconfigurePool,
		OperationSweepMultiplePools,
		OperationUpdateParams,
	}
}

// IsProtectedOperation reports whether the operation is gated by the timelock.
func IsProtectedOperation(operation string) bool {
	return lo.Contains(GetProtectedOperations(), operation)
}

// OperationID returns the stable identifier the timelock entry of an operation is stored under.
func OperationID(operation string) string {
	return hex.EncodeToString(tmhash.Sum([]byte(operation)))
}

// TimeLock is the timelock entry of an operation.
type TimeLock struct {
	Operation string `json:"operation"`
	UnlockAt  int64  `json:"unlock_at"`
}
