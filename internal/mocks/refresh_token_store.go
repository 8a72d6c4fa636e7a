package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/store"
)

// MockRefreshTokenStore implements store.RefreshTokenStore for testing
type MockRefreshTokenStore struct {
	SaveFn          func(ctx context.Context, token *store.RefreshToken) error
	GetByJTIFn      func(ctx context.Context, jti uuid.UUID) (*store.RefreshToken, error)
	RevokeFn        func(ctx context.Context, jti uuid.UUID) error
	DeleteExpiredFn func(ctx context.Context) (int64, error)
	WithTxFn        func(tx *sql.Tx) store.RefreshTokenStore

	mu     sync.Mutex
	Tokens map[uuid.UUID]*store.RefreshToken
}

// NewMockRefreshTokenStore creates a new mock store with initialized defaults
func NewMockRefreshTokenStore() *MockRefreshTokenStore {
	return &MockRefreshTokenStore{
		Tokens: make(map[uuid.UUID]*store.RefreshToken),
	}
}

var _ store.RefreshTokenStore = (*MockRefreshTokenStore)(nil)

// Save implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) Save(ctx context.Context, token *store.RefreshToken) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[token.JTI] = token
	return nil
}

// GetByJTI implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) GetByJTI(ctx context.Context, jti uuid.UUID) (*store.RefreshToken, error) {
	if m.GetByJTIFn != nil {
		return m.GetByJTIFn(ctx, jti)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	token, exists := m.Tokens[jti]
	if !exists {
		return nil, store.ErrRefreshTokenNotFound
	}
	return token, nil
}

// Revoke implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) Revoke(ctx context.Context, jti uuid.UUID) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, jti)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	token, exists := m.Tokens[jti]
	if !exists {
		return store.ErrRefreshTokenNotFound
	}
	if token.RevokedAt == nil {
		now := time.Now().UTC()
		token.RevokedAt = &now
	}
	return nil
}

// DeleteExpired implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFn != nil {
		return m.DeleteExpiredFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	now := time.Now().UTC()
	for jti, token := range m.Tokens {
		if token.ExpiresAt.Before(now) {
			delete(m.Tokens, jti)
			deleted++
		}
	}
	return deleted, nil
}

// WithTx implements the RefreshTokenStore interface. Unless overridden, the
// mock ignores transactions.
func (m *MockRefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	if m.WithTxFn != nil {
		return m.WithTxFn(tx)
	}
	return m
}
