package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing
type MockCategoryStore struct {
	// Function fields for customizable behavior
	CreateFn    func(ctx context.Context, category *domain.Category) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetBySlugFn func(ctx context.Context, slug string) (*domain.Category, error)
	ListFn      func(ctx context.Context, filter store.CategoryFilter, limit, offset int) ([]*domain.Category, int, error)
	UpdateFn    func(ctx context.Context, category *domain.Category) error
	DeleteFn    func(ctx context.Context, id uuid.UUID) error

	// Data for the default map-backed implementation, keyed by ID
	mu         sync.Mutex
	Categories map[uuid.UUID]*domain.Category
}

// NewMockCategoryStore creates a new mock store with initialized defaults
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// Create implements the CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.Categories {
		if c.Name == category.Name {
			return store.ErrCategoryNameExists
		}
	}
	m.Categories[category.ID] = category
	return nil
}

// GetByID implements the CategoryStore interface
func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	category, exists := m.Categories[id]
	if !exists {
		return nil, store.ErrCategoryNotFound
	}
	return category, nil
}

// GetBySlug implements the CategoryStore interface
func (m *MockCategoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if m.GetBySlugFn != nil {
		return m.GetBySlugFn(ctx, slug)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, category := range m.Categories {
		if category.Slug == slug {
			return category, nil
		}
	}
	return nil, store.ErrCategoryNotFound
}

// List implements the CategoryStore interface
func (m *MockCategoryStore) List(
	ctx context.Context,
	filter store.CategoryFilter,
	limit, offset int,
) ([]*domain.Category, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, limit, offset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make([]*domain.Category, 0, len(m.Categories))
	for _, category := range m.Categories {
		categories = append(categories, category)
	}
	return categories, len(categories), nil
}

// Update implements the CategoryStore interface
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Categories[category.ID]; !exists {
		return store.ErrCategoryNotFound
	}
	m.Categories[category.ID] = category
	return nil
}

// Delete implements the CategoryStore interface
func (m *MockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Categories[id]; !exists {
		return store.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// WithTx implements the CategoryStore interface. The mock ignores transactions.
func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}
