package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is not in a state that allows the operation.
var ErrConflict = errors.New("conflicting resource state")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// Ledger errors.
var (
	// ErrInsufficientBalance is returned when an outflow would take a treasury below zero.
	ErrInsufficientBalance = errors.New("insufficient treasury balance")
	// ErrExceedsRemainingAmount is returned when a payment is larger than what is owed.
	ErrExceedsRemainingAmount = errors.New("amount exceeds remaining balance")
	// ErrInvalidAmount is returned for non-positive or malformed amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrHasAssociatedRecords blocks deletion of a record other rows still point at.
	ErrHasAssociatedRecords = errors.New("record has associated records")
	// ErrDuplicatePosting is returned by the ledger store when a reference was already posted.
	// Services treat it as an idempotent skip.
	ErrDuplicatePosting = errors.New("reference already posted")
	// ErrInsufficientStock is returned when a stock movement would make a quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}
