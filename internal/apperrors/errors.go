package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource
// (e.g. a status transition that is no longer allowed, or a reused idempotency key).
var ErrConflict = errors.New("resource state conflict")

// ErrUnauthorized indicates that the presented credential did not verify.
var ErrUnauthorized = errors.New("authentication failed")

// ErrInvalidToken indicates that a session token is malformed, expired or badly signed.
var ErrInvalidToken = errors.New("invalid session token")

// ErrForbidden indicates that the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientFunds indicates that a debit would take a balance below its floor.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrIndeterminate indicates that the outcome of an atomic mutation is unknown.
// Callers must query the transfer status instead of retrying blindly.
var ErrIndeterminate = errors.New("operation outcome unknown")

// ErrUnavailable wraps storage or infrastructure faults.
var ErrUnavailable = errors.New("service unavailable")
