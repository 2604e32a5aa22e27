package domain

import "errors"

var (
	ErrTokenNotFound     = errors.New("token not found")
	ErrEmailNotFound     = errors.New("no tokens found for email")
	ErrNoUsableRecipient = errors.New("no usable recipient or tokens")
)

// Validation error codes surfaced to webhook callers.
const (
	CodeInvalidOrderID   = "missing_or_invalid_order_id"
	CodeInvalidTimestamp = "invalid_timestamp"
	CodeNoRecipient      = "no_recipient"
)

// Ignore reasons reported for deliveries that never reach the ledger.
const (
	ReasonProductMismatch   = "product_mismatch"
	ReasonUnsuccessfulOrder = "unsuccessful_order"
)

// ValidationError marks a malformed or incomplete inbound payload.
// It is surfaced as a 4xx and never retried server-side.
type ValidationError struct {
	Code string
}

func NewValidationError(code string) *ValidationError {
	return &ValidationError{Code: code}
}

func (e *ValidationError) Error() string {
	return e.Code
}

// StorageError marks a transaction or connectivity failure. The whole
// webhook delivery is safe to retry.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// MailError marks a send failure after successful persistence. A retried
// delivery observes the idempotent path instead of double issuance.
type MailError struct {
	Err error
}

func (e *MailError) Error() string {
	return "mail: " + e.Err.Error()
}

func (e *MailError) Unwrap() error {
	return e.Err
}
