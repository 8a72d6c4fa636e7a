package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockProductStore implements store.ProductStore for testing
type MockProductStore struct {
	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, product *domain.Product) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlugFn          func(ctx context.Context, slug string) (*domain.Product, error)
	ListFn               func(ctx context.Context, filter store.ProductFilter, limit, offset int) ([]*domain.Product, int, error)
	UpdateFn             func(ctx context.Context, product *domain.Product) error
	DeleteFn             func(ctx context.Context, id uuid.UUID) error
	IncrementViewCountFn func(ctx context.Context, id uuid.UUID) error

	// Data for the default map-backed implementation, keyed by ID
	mu       sync.Mutex
	Products map[uuid.UUID]*domain.Product
}

// NewMockProductStore creates a new mock store with initialized defaults
func NewMockProductStore() *MockProductStore {
	return &MockProductStore{
		Products: make(map[uuid.UUID]*domain.Product),
	}
}

var _ store.ProductStore = (*MockProductStore)(nil)

// Create implements the ProductStore interface
func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Products[product.ID] = product
	return nil
}

// GetByID implements the ProductStore interface
func (m *MockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, exists := m.Products[id]
	if !exists {
		return nil, store.ErrProductNotFound
	}
	return product, nil
}

// GetBySlug implements the ProductStore interface
func (m *MockProductStore) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if m.GetBySlugFn != nil {
		return m.GetBySlugFn(ctx, slug)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, product := range m.Products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, store.ErrProductNotFound
}

// List implements the ProductStore interface
func (m *MockProductStore) List(
	ctx context.Context,
	filter store.ProductFilter,
	limit, offset int,
) ([]*domain.Product, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, limit, offset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]*domain.Product, 0, len(m.Products))
	for _, product := range m.Products {
		if !filter.IncludeInactive && !product.IsActive {
			continue
		}
		products = append(products, product)
	}
	return products, len(products), nil
}

// Update implements the ProductStore interface
func (m *MockProductStore) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, product)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Products[product.ID]; !exists {
		return store.ErrProductNotFound
	}
	m.Products[product.ID] = product
	return nil
}

// Delete implements the ProductStore interface
func (m *MockProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Products[id]; !exists {
		return store.ErrProductNotFound
	}
	delete(m.Products, id)
	return nil
}

// IncrementViewCount implements the ProductStore interface
func (m *MockProductStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if m.IncrementViewCountFn != nil {
		return m.IncrementViewCountFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, exists := m.Products[id]
	if !exists {
		return store.ErrProductNotFound
	}
	product.ViewCount++
	return nil
}

// WithTx implements the ProductStore interface. The mock ignores transactions.
func (m *MockProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return m
}
