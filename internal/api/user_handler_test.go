package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/api"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
)

type userTestEnv struct {
	router    chi.Router
	userStore *mocks.MockUserStore
}

func newUserTestEnv(t *testing.T) *userTestEnv {
	t.Helper()
	userStore := mocks.NewMockUserStore()
	svc := service.NewUserService(userStore, mocks.NewDB(), testLogger())
	handler := api.NewUserHandler(svc, testLogger())

	router := chi.NewRouter()
	router.Get("/users", handler.List)
	router.Get("/users/me", handler.Profile)
	router.Put("/users/me", handler.UpdateProfile)
	router.Delete("/users/me", handler.DeleteAccount)
	router.Get("/users/{id}", handler.Get)

	return &userTestEnv{router: router, userStore: userStore}
}

func (env *userTestEnv) seedUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, username+"@example.com", "password123")
	require.NoError(t, err)
	env.userStore.Users[user.Username] = user
	return user
}

func (env *userTestEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUserHandler_Get(t *testing.T) {
	env := newUserTestEnv(t)
	user := env.seedUser(t, "jdoe")

	t.Run("returns the public profile", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/users/"+user.ID.String(), nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.Equal(t, "jdoe", resp.Username)

		// The password hash never appears in any response
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed ID", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Profile(t *testing.T) {
	env := newUserTestEnv(t)
	user := env.seedUser(t, "jdoe")

	t.Run("returns the authenticated user", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/users/me", nil), user.ID)
		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.Equal(t, user.ID, resp.ID)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	t.Run("applies partial changes", func(t *testing.T) {
		env := newUserTestEnv(t)
		user := env.seedUser(t, "jdoe")

		payload := []byte(`{"first_name": "Janet", "email_notifications": false}`)
		req := asUser(httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(payload)), user.ID)

		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.Equal(t, "Janet", resp.FirstName)
		assert.False(t, resp.EmailNotifications)
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		env := newUserTestEnv(t)
		user := env.seedUser(t, "jdoe")

		payload := []byte(`{"email": "not-an-email"}`)
		req := asUser(httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(payload)), user.ID)

		rec := env.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_DeleteAccount(t *testing.T) {
	env := newUserTestEnv(t)
	user := env.seedUser(t, "jdoe")

	req := asUser(httptest.NewRequest(http.MethodDelete, "/users/me", nil), user.ID)
	assert.Equal(t, http.StatusNoContent, env.do(req).Code)
	assert.NotContains(t, env.userStore.Users, "jdoe")
}

func TestUserHandler_List(t *testing.T) {
	env := newUserTestEnv(t)
	env.seedUser(t, "jdoe")
	env.seedUser(t, "asmith")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/users?page_size=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Success bool               `json:"success"`
		Count   int                `json:"count"`
		Results []api.UserResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.True(t, page.Success)
	assert.Equal(t, 2, page.Count)
}
