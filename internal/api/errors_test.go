package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/storefront-api/internal/api"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired refresh token", auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"revoked refresh token", auth.ErrRevokedRefreshToken, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"seller required", service.ErrSellerRequired, http.StatusForbidden},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"product not found", store.ErrProductNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrCategoryNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"category name exists", store.ErrCategoryNameExists, http.StatusConflict},
		{"password mismatch", api.ErrPasswordMismatch, http.StatusBadRequest},
		{"invalid price", domain.ErrInvalidPrice, http.StatusBadRequest},
		{"name too long", domain.ErrProductNameTooLong, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("internal errors are masked", func(t *testing.T) {
		err := errors.New("pq: connection refused host=db.internal")
		msg := api.GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
		assert.NotContains(t, msg, "db.internal")
	})

	t.Run("conflicts name the field", func(t *testing.T) {
		assert.Equal(t, "Username is already taken", api.GetSafeErrorMessage(store.ErrUsernameExists))
		assert.Equal(t, "Email address is already registered", api.GetSafeErrorMessage(store.ErrEmailExists))
	})

	t.Run("auth errors stay generic", func(t *testing.T) {
		assert.Equal(t, "Invalid credentials", api.GetSafeErrorMessage(auth.ErrInvalidCredentials))
		assert.Equal(t, "Invalid token", api.GetSafeErrorMessage(auth.ErrInvalidRefreshToken))
	})

	t.Run("domain validation errors surface directly", func(t *testing.T) {
		assert.Equal(t, "Price must be positive", api.GetSafeErrorMessage(domain.ErrInvalidPrice))
	})
}
