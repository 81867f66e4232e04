package shared

import "errors"

// Taxonomy of failures surfaced to callers. None of them is fatal to the
// process; handlers map them to a response and the client may retry the
// triggering action manually.
var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the signed-in email matches neither an
	// owner account nor an active employee record.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock indicates a requested quantity exceeds the
	// product's quantity on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart indicates a checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPersistence wraps failures of the underlying store.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
