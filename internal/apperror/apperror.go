package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel category
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// BidTooLow is the rejection for a well-formed bid that does not exceed
// the current highest. Classified as a conflict: the caller raced against
// the listing's state and may resubmit with a higher amount.
func BidTooLow(current string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("Bid must be higher than the current bid of %s.", current),
	}
}

// ListingClosed rejects operations against a listing that is no longer
// active. Also a conflict: the state will never return to active.
func ListingClosed(id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("listing %s is closed", id),
	}
}
