// Package common defines shared constants and sentinel errors used across
// client and server layers of VaultKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Request proof errors (missing, malformed, expired or reused signature).
	ErrInvalidToken = errors.New("invalid token")
	ErrReplay       = errors.New("signature already used")

	// Validation errors.
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrInvalidAmount   = errors.New("amount must be more than zero")
	ErrBindingMismatch = errors.New("account does not match vault record")

	// ErrInvalidArgument is what a client sees for any of the above once
	// they have crossed the wire.
	ErrInvalidArgument = errors.New("invalid argument")

	// Transfer errors. Ledger failures are wrapped in ErrTransferFailed
	// together with one of the reasons below.
	ErrTransferFailed    = errors.New("transfer failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountFrozen     = errors.New("account is frozen")
	ErrMintMismatch      = errors.New("mint mismatch")
)
