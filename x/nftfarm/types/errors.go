package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// NOTE: Error status code must start from 2.
var (
	// ErrUnauthorized is returned when the caller does not hold the required role.
	ErrUnauthorized = sdkerrors.Register(ModuleName, 2, "unauthorized")
	// ErrInvalidSchedule is returned when the expiration time is not after the start time.
	ErrInvalidSchedule = sdkerrors.Register(ModuleName, 3, "invalid schedule")
	// ErrDuplicateStakeKind is returned when the stake kind already backs a pool.
	ErrDuplicateStakeKind = sdkerrors.Register(ModuleName, 4, "duplicate stake kind")
	// ErrDuplicateItem is returned when an item is already staked.
	ErrDuplicateItem = sdkerrors.Register(ModuleName, 5, "duplicate item")
	// ErrItemNotFound is returned when an item is not staked by the caller in the pool.
	ErrItemNotFound = sdkerrors.Register(ModuleName, 6, "item not found")
	// ErrLockedOperation is returned when a timelocked operation is not unlocked yet.
	ErrLockedOperation = sdkerrors.Register(ModuleName, 7, "locked operation")
	// ErrInsufficientSurplus is returned when a sweep exceeds the pool surplus.
	ErrInsufficientSurplus = sdkerrors.Register(ModuleName, 8, "insufficient surplus")
	// ErrInsufficientEscrow is returned when the reward escrow cannot be funded in full.
	ErrInsufficientEscrow = sdkerrors.Register(ModuleName, 9, "insufficient escrow")
	// ErrArithmeticOverflow is returned when reward or share arithmetic overflows.
	ErrArithmeticOverflow = sdkerrors.Register(ModuleName, 10, "arithmetic overflow")
	// ErrPoolNotFound is returned when the pool does not exist.
	ErrPoolNotFound = sdkerrors.Register(ModuleName, 11, "pool not found")
	// ErrInvalidInput is returned when the input is invalid.
	ErrInvalidInput = sdkerrors.Register(ModuleName, 12, "invalid input")
	// ErrReentrantCall is returned when a collaborator calls back into the ledger during an operation.
	ErrReentrantCall = sdkerrors.Register(ModuleName, 13, "reentrant call")
	// ErrInvalidParam is returned when the module params are invalid.
	ErrInvalidParam = sdkerrors.Register(ModuleName, 14, "invalid param")
)
