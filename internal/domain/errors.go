package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services.
var (
	// ErrNotFound is returned when an entity is absent or unknown.
	ErrNotFound = errors.New("not found")

	// ErrBadCredentials collapses unknown user, wrong password and inactive
	// account during login.
	ErrBadCredentials = errors.New("incorrect username or password")

	// ErrTokenInvalid is returned for malformed or badly signed tokens.
	ErrTokenInvalid = errors.New("could not validate credentials")

	// ErrTokenExpired is returned when now >= exp.
	ErrTokenExpired = errors.New("token expired")

	// ErrInactiveAccount is returned for a valid token of a deactivated user.
	ErrInactiveAccount = errors.New("inactive user")

	// ErrSigningAuthority is returned when no usable key exists for a write.
	// It is never retried.
	ErrSigningAuthority = errors.New("no private key provided and operator account does not match sender")

	// ErrWalletNotSet is returned when an operation needs a linked wallet.
	ErrWalletNotSet = errors.New("wallet address not set")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing field: %s", e.Field)
	}
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// ConflictError reports a uniqueness violation on Field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already registered", e.Field)
}

// UpstreamError wraps a chain or metadata-store failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ReceiptTimeoutError is returned when a submitted transaction was not
// mined within the configured wait.
type ReceiptTimeoutError struct {
	TxHash string
}

func (e *ReceiptTimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not mined before timeout", e.TxHash)
}

// RevertedError is returned when a mined transaction has status 0.
type RevertedError struct {
	TxHash      string
	BlockNumber uint64
}

func (e *RevertedError) Error() string {
	return fmt.Sprintf("transaction %s reverted in block %d", e.TxHash, e.BlockNumber)
}

// Upstream wraps err as an UpstreamError unless it already is one.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}
