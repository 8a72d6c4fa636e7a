package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

func seedUser(t *testing.T, userStore *mocks.MockUserStore) *domain.User {
	t.Helper()
	user, err := domain.NewUser("jdoe", "jdoe@example.com", "password123")
	require.NoError(t, err)
	userStore.Users[user.Username] = user
	return user
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := seedUser(t, userStore)

	svc := service.NewUserService(userStore, mocks.NewDB(), testLogger())

	t.Run("found", func(t *testing.T) {
		got, err := svc.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only the provided fields", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		user := seedUser(t, userStore)
		user.FirstName = "Jane"
		user.LastName = "Doe"

		svc := service.NewUserService(userStore, mocks.NewDB(), testLogger())

		newFirst := "Janet"
		notify := false
		updated, err := svc.UpdateProfile(ctx, user.ID, service.ProfileUpdate{
			FirstName:          &newFirst,
			EmailNotifications: &notify,
		})
		require.NoError(t, err)
		assert.Equal(t, "Janet", updated.FirstName)
		assert.Equal(t, "Doe", updated.LastName)
		assert.False(t, updated.EmailNotifications)
		assert.Equal(t, "jdoe@example.com", updated.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := service.NewUserService(mocks.NewMockUserStore(), mocks.NewDB(), testLogger())

		email := "new@example.com"
		_, err := svc.UpdateProfile(ctx, uuid.New(), service.ProfileUpdate{Email: &email})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("surfaces duplicate email errors", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		user := seedUser(t, userStore)
		userStore.UpdateFn = func(ctx context.Context, u *domain.User) error {
			return store.ErrEmailExists
		}

		svc := service.NewUserService(userStore, mocks.NewDB(), testLogger())

		email := "taken@example.com"
		_, err := svc.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Email: &email})
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	user := seedUser(t, userStore)

	svc := service.NewUserService(userStore, mocks.NewDB(), testLogger())

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	assert.NotContains(t, userStore.Users, user.Username)

	err := svc.DeleteUser(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
