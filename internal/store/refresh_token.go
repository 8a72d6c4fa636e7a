package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RefreshToken records an issued refresh token so it can be revoked on
// logout or rotation. Only the token's JTI is stored, never the token itself.
type RefreshToken struct {
	JTI       uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Revoked reports whether the token has been revoked.
func (t *RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

// RefreshTokenStore defines the interface for refresh token persistence.
type RefreshTokenStore interface {
	// Save records a newly issued refresh token.
	Save(ctx context.Context, token *RefreshToken) error

	// GetByJTI retrieves a refresh token record by its JTI.
	// Returns ErrRefreshTokenNotFound if the token is unknown.
	GetByJTI(ctx context.Context, jti uuid.UUID) (*RefreshToken, error)

	// Revoke marks the token as revoked.
	// Returns ErrRefreshTokenNotFound if the token is unknown.
	Revoke(ctx context.Context, jti uuid.UUID) error

	// DeleteExpired removes tokens whose expiry is in the past.
	// Returns the number of deleted rows.
	DeleteExpired(ctx context.Context) (int64, error)

	// WithTx returns a new RefreshTokenStore bound to the provided transaction.
	WithTx(tx *sql.Tx) RefreshTokenStore
}
