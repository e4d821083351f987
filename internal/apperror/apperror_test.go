package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("listing", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should wrap ErrNotFound")
	}
	if err.Message != "listing not found with id abc123" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestValidationFailed(t *testing.T) {
	err := ValidationFailed("amount", "invalid bid amount")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should wrap ErrValidation")
	}
	if err.Field != "amount" {
		t.Errorf("Field = %q, want %q", err.Field, "amount")
	}
}

func TestBidTooLow(t *testing.T) {
	err := BidTooLow("15.00")

	if !errors.Is(err, ErrConflict) {
		t.Error("BidTooLow() should wrap ErrConflict")
	}
	if err.Message != "Bid must be higher than the current bid of 15.00." {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestListingClosed(t *testing.T) {
	err := ListingClosed("abc123")

	if !errors.Is(err, ErrConflict) {
		t.Error("ListingClosed() should wrap ErrConflict")
	}
}

func TestForbidden(t *testing.T) {
	err := Forbidden("only the lister may close a listing")

	if !errors.Is(err, ErrForbidden) {
		t.Error("Forbidden() should wrap ErrForbidden")
	}
}

// Wrapping an AppError with fmt.Errorf %w must keep the sentinel reachable
// through the chain — handlers rely on this for status mapping.
func TestUnwrapThroughWrapping(t *testing.T) {
	inner := NotFound("bid", "xyz")
	wrapped := fmt.Errorf("service: fetching bid: %w", inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should still match ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should find the AppError in the chain")
	}
	if appErr.Message != inner.Message {
		t.Errorf("Message = %q, want %q", appErr.Message, inner.Message)
	}
}
