package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// PostgresRefreshTokenStore implements the store.RefreshTokenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRefreshTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRefreshTokenStore creates a new PostgreSQL implementation of
// the RefreshTokenStore interface.
func NewPostgresRefreshTokenStore(db store.DBTX, logger *slog.Logger) *PostgresRefreshTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRefreshTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "refresh_token_store")),
	}
}

// Ensure PostgresRefreshTokenStore implements store.RefreshTokenStore interface
var _ store.RefreshTokenStore = (*PostgresRefreshTokenStore)(nil)

// WithTx returns a new RefreshTokenStore that uses the provided transaction.
func (s *PostgresRefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return &PostgresRefreshTokenStore{
		db:     tx,
		logger: s.logger,
	}
}

// Save implements store.RefreshTokenStore.Save
func (s *PostgresRefreshTokenStore) Save(ctx context.Context, token *store.RefreshToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO refresh_tokens (jti, user_id, expires_at, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.JTI,
		token.UserID,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		log.Error("failed to save refresh token",
			slog.String("error", err.Error()),
			slog.String("jti", token.JTI.String()))
		return MapError(err)
	}

	return nil
}

// GetByJTI implements store.RefreshTokenStore.GetByJTI
// Returns store.ErrRefreshTokenNotFound if the token is unknown.
func (s *PostgresRefreshTokenStore) GetByJTI(ctx context.Context, jti uuid.UUID) (*store.RefreshToken, error) {
	query := `SELECT jti, user_id, expires_at, revoked_at, created_at
		FROM refresh_tokens WHERE jti = $1`

	var token store.RefreshToken
	err := s.db.QueryRowContext(ctx, query, jti).Scan(
		&token.JTI,
		&token.UserID,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRefreshTokenNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to scan refresh token",
			slog.String("error", err.Error()))
		return nil, err
	}

	return &token, nil
}

// Revoke implements store.RefreshTokenStore.Revoke
// Revoking an already revoked token keeps the original revocation time.
func (s *PostgresRefreshTokenStore) Revoke(ctx context.Context, jti uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE refresh_tokens SET revoked_at = $1
		WHERE jti = $2 AND revoked_at IS NULL`
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), jti)
	if err != nil {
		log.Error("failed to revoke refresh token",
			slog.String("error", err.Error()),
			slog.String("jti", jti.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "refresh token"); err != nil {
		// Distinguish "unknown" from "already revoked" so callers can treat
		// a repeated logout as success.
		if _, getErr := s.GetByJTI(ctx, jti); getErr != nil {
			return store.ErrRefreshTokenNotFound
		}
		return nil
	}

	log.Info("refresh token revoked", slog.String("jti", jti.String()))
	return nil
}

// DeleteExpired implements store.RefreshTokenStore.DeleteExpired
func (s *PostgresRefreshTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		log.Error("failed to delete expired refresh tokens",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		log.Info("deleted expired refresh tokens", slog.Int64("count", deleted))
	}
	return deleted, nil
}
