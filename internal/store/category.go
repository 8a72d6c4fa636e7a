package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// CategoryFilter narrows category listings. Zero values mean "no filter".
type CategoryFilter struct {
	// Search matches the category name case-insensitively.
	Search string

	// ParentID restricts results to children of the given category.
	ParentID *uuid.UUID

	// IsActive restricts results to active or inactive categories.
	IsActive *bool
}

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category, resolving slug collisions by suffixing.
	// Returns ErrCategoryNameExists if the name is already taken.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetBySlug retrieves a category by its slug.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// List retrieves categories matching the filter, ordered by display
	// order then name. Returns the page and the total matching count.
	List(ctx context.Context, filter CategoryFilter, limit, offset int) ([]*domain.Category, int, error)

	// Update modifies an existing category.
	// Returns ErrCategoryNotFound if the category does not exist.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category. Products referencing it keep existing with
	// a cleared category (the schema sets the reference null on delete).
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CategoryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
