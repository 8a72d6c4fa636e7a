package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// ProductOrdering names the sort keys the listing endpoint accepts.
// The negated forms ("-price") sort descending, mirroring the query syntax.
var ProductOrderings = map[string]string{
	"price":       "price ASC",
	"-price":      "price DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"name":        "name ASC",
	"-name":       "name DESC",
	"view_count":  "view_count ASC",
	"-view_count": "view_count DESC",
}

// DefaultProductOrdering is applied when no (or an unknown) ordering is
// requested: newest first.
const DefaultProductOrdering = "created_at DESC"

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	// CategoryID restricts results to a single category.
	CategoryID *uuid.UUID

	// MinPrice/MaxPrice bound the price range (inclusive).
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal

	// Search matches name or description case-insensitively.
	Search string

	// SellerUsername matches the seller's username case-insensitively.
	SellerUsername string

	// IsFeatured restricts results to featured (or non-featured) products.
	IsFeatured *bool

	// InStock, when true, restricts results to products with positive stock.
	// False is a no-op rather than the inverse filter.
	InStock bool

	// IncludeInactive lifts the default is_active = true restriction.
	IncludeInactive bool

	// Ordering is one of the ProductOrderings keys. Unknown values fall
	// back to DefaultProductOrdering.
	Ordering string
}

// ProductStore defines the interface for product data persistence.
type ProductStore interface {
	// Create saves a new product, resolving slug and SKU collisions by
	// suffixing. Returns validation errors if the product data is invalid
	// and ErrInvalidEntity when the seller or category does not exist.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique ID.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// GetBySlug retrieves a product by its slug.
	// Returns ErrProductNotFound if the product does not exist.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List retrieves products matching the filter.
	// Returns the page and the total matching count.
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*domain.Product, int, error)

	// Update modifies an existing product.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its ID.
	// Returns ErrProductNotFound if the product does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViewCount atomically bumps the product's view counter.
	// Returns ErrProductNotFound if the product does not exist.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProductStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProductStore
}
