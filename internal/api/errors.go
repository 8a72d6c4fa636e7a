package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// ErrPasswordMismatch is returned when the password confirmation does not
// match the password during registration.
var ErrPasswordMismatch = errors.New("passwords do not match")

// domainValidationErrors are the domain-level rejections that indicate bad
// request data rather than a server fault.
var domainValidationErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidEmail,
	domain.ErrInvalidPrice,
	domain.ErrInvalidStock,
	domain.ErrEmptyUsername,
	domain.ErrEmptyEmail,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyCategoryName,
	domain.ErrCategoryNameTooLong,
	domain.ErrCategorySelfParent,
	domain.ErrEmptyProductName,
	domain.ErrProductNameTooLong,
	domain.ErrEmptyDescription,
}

// MapErrorToStatusCode translates service and store errors into HTTP status
// codes. Unknown errors map to 500 so nothing internal leaks by accident.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrRevokedRefreshToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrSellerRequired):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, ErrPasswordMismatch),
		isDomainValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

func isDomainValidationError(err error) bool {
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a message safe to show to API clients for the
// given error. Internal errors get a generic message; the details stay in
// the logs.
func GetSafeErrorMessage(err error) string {
	status := MapErrorToStatusCode(err)

	switch status {
	case http.StatusUnauthorized:
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return "Invalid credentials"
		case errors.Is(err, auth.ErrExpiredToken),
			errors.Is(err, auth.ErrExpiredRefreshToken):
			return "Token expired"
		case errors.Is(err, auth.ErrRevokedRefreshToken):
			return "Token revoked"
		default:
			return "Invalid token"
		}

	case http.StatusForbidden:
		if errors.Is(err, service.ErrSellerRequired) {
			return "Seller account required"
		}
		return "You do not have permission to modify this resource"

	case http.StatusNotFound:
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return "User not found"
		case errors.Is(err, store.ErrCategoryNotFound):
			return "Category not found"
		case errors.Is(err, store.ErrProductNotFound):
			return "Product not found"
		default:
			return "Resource not found"
		}

	case http.StatusConflict:
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return "Email address is already registered"
		case errors.Is(err, store.ErrUsernameExists):
			return "Username is already taken"
		case errors.Is(err, store.ErrCategoryNameExists):
			return "Category name is already taken"
		default:
			return "Resource already exists"
		}

	case http.StatusBadRequest:
		// Domain validation messages name the rejected field, never
		// internal state, so they are safe to surface directly.
		return capitalize(err.Error())

	default:
		return "An unexpected error occurred"
	}
}

// ValidationDetails flattens validator errors into a field-to-message map
// suitable for the error response details. The password confirmation check
// is not a struct tag, so it is mapped to its field here.
func ValidationDetails(err error) map[string]string {
	if errors.Is(err, ErrPasswordMismatch) {
		return map[string]string{"password_confirm": "Passwords do not match"}
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	details := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details[strings.ToLower(fieldErr.Field())] = validationMessage(fieldErr)
	}
	return details
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fieldErr.Param() + " characters"
	case "max":
		return "Must be at most " + fieldErr.Param() + " characters"
	default:
		return "Invalid value"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
