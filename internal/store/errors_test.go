package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	notFoundErrs := []error{
		ErrNotFound,
		ErrUserNotFound,
		ErrCategoryNotFound,
		ErrProductNotFound,
		ErrRefreshTokenNotFound,
		fmt.Errorf("wrapped: %w", ErrProductNotFound),
	}

	for _, err := range notFoundErrs {
		if !IsNotFoundError(err) {
			t.Errorf("Expected %v to be a not found error", err)
		}
	}

	if IsNotFoundError(ErrDuplicate) {
		t.Error("Expected ErrDuplicate not to be a not found error")
	}

	if IsNotFoundError(errors.New("something else")) {
		t.Error("Expected unrelated error not to be a not found error")
	}
}

func TestIsDuplicateError(t *testing.T) {
	duplicateErrs := []error{
		ErrDuplicate,
		ErrEmailExists,
		ErrUsernameExists,
		ErrCategoryNameExists,
		ErrSKUExists,
		fmt.Errorf("wrapped: %w", ErrEmailExists),
	}

	for _, err := range duplicateErrs {
		if !IsDuplicateError(err) {
			t.Errorf("Expected %v to be a duplicate error", err)
		}
	}

	if IsDuplicateError(ErrNotFound) {
		t.Error("Expected ErrNotFound not to be a duplicate error")
	}
}
