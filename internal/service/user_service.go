package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// ProfileUpdate carries the optional profile fields a user may change.
// Nil pointers leave the corresponding field untouched.
type ProfileUpdate struct {
	Email              *string
	FirstName          *string
	LastName           *string
	PhoneNumber        *string
	EmailNotifications *bool
	Password           *string
}

// UserService provides user-related operations including profile updates
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByUsername retrieves a user by their username
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers retrieves a page of users and the total user count
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, int, error)

	// UpdateProfile applies the given profile changes to the user and
	// returns the updated user
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error)

	// DeleteUser deletes a user by their ID
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username
func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by username", "username", username)
		} else {
			s.logger.Error("failed to retrieve user by username",
				"error", err,
				"username", username)
		}
		return nil, fmt.Errorf("failed to retrieve user by username: %w", err)
	}

	return user, nil
}

// ListUsers retrieves a page of users ordered by creation time, newest first
func (s *UserServiceImpl) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, int, error) {
	users, total, err := s.userStore.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// UpdateProfile applies the given profile changes inside a transaction and
// returns the updated user. The read and write share the transaction so a
// concurrent update cannot be silently overwritten with stale fields.
func (s *UserServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update ProfileUpdate,
) (*domain.User, error) {
	var updated *domain.User

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve user for update: %w", err)
		}

		if update.Email != nil {
			user.Email = *update.Email
		}
		if update.FirstName != nil {
			user.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			user.LastName = *update.LastName
		}
		if update.PhoneNumber != nil {
			user.PhoneNumber = *update.PhoneNumber
		}
		if update.EmailNotifications != nil {
			user.EmailNotifications = *update.EmailNotifications
		}
		if update.Password != nil {
			// The store hashes the plaintext before writing
			user.Password = *update.Password
		}

		if err := txStore.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated = user
		return nil
	})

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || store.IsDuplicateError(err) {
			s.logger.Debug("profile update rejected",
				"error", err,
				"user_id", userID)
		} else {
			s.logger.Error("failed to update profile",
				"error", err,
				"user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID)
	return updated, nil
}

// DeleteUser deletes a user by their ID
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userStore.Delete(ctx, userID); err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to delete user",
				"error", err,
				"user_id", userID)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
