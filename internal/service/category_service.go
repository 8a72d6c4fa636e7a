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

// CategoryUpdate carries the optional category fields a caller may change.
// Nil pointers leave the corresponding field untouched.
type CategoryUpdate struct {
	Name         *string
	Description  *string
	ParentID     *uuid.UUID
	ClearParent  bool
	IsActive     *bool
	DisplayOrder *int
}

// CategoryService provides category management operations
type CategoryService interface {
	// CreateCategory creates a new category with an auto-generated slug
	CreateCategory(ctx context.Context, name, description string, parentID *uuid.UUID, displayOrder int) (*domain.Category, error)

	// GetCategory retrieves a category by its ID
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetCategoryBySlug retrieves a category by its slug
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// ListCategories retrieves a page of categories matching the filter and
	// the total matching count
	ListCategories(ctx context.Context, filter store.CategoryFilter, limit, offset int) ([]*domain.Category, int, error)

	// UpdateCategory applies the given changes and returns the updated category
	UpdateCategory(ctx context.Context, id uuid.UUID, update CategoryUpdate) (*domain.Category, error)

	// DeleteCategory removes a category; products keep existing with a
	// cleared category reference
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// CategoryServiceImpl implements the CategoryService interface
type CategoryServiceImpl struct {
	categoryStore store.CategoryStore
	db            *sql.DB
	logger        *slog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryStore store.CategoryStore,
	db *sql.DB,
	logger *slog.Logger,
) *CategoryServiceImpl {
	return &CategoryServiceImpl{
		categoryStore: categoryStore,
		db:            db,
		logger:        logger.With("component", "category_service"),
	}
}

var _ CategoryService = (*CategoryServiceImpl)(nil)

// CreateCategory creates a new category with an auto-generated slug
func (s *CategoryServiceImpl) CreateCategory(
	ctx context.Context,
	name, description string,
	parentID *uuid.UUID,
	displayOrder int,
) (*domain.Category, error) {
	category, err := domain.NewCategory(name, description)
	if err != nil {
		s.logger.Debug("invalid category data", "error", err, "name", name)
		return nil, err
	}
	category.ParentID = parentID
	category.DisplayOrder = displayOrder

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.categoryStore.WithTx(tx).Create(ctx, category)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("category name already taken", "name", name)
		} else {
			s.logger.Error("failed to create category", "error", err, "name", name)
		}
		return nil, err
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"slug", category.Slug)
	return category, nil
}

// GetCategory retrieves a category by its ID
func (s *CategoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryStore.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrCategoryNotFound) {
			s.logger.Error("failed to retrieve category", "error", err, "category_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}
	return category, nil
}

// GetCategoryBySlug retrieves a category by its slug
func (s *CategoryServiceImpl) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.categoryStore.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, store.ErrCategoryNotFound) {
			s.logger.Error("failed to retrieve category by slug", "error", err, "slug", slug)
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}
	return category, nil
}

// ListCategories retrieves a page of categories matching the filter
func (s *CategoryServiceImpl) ListCategories(
	ctx context.Context,
	filter store.CategoryFilter,
	limit, offset int,
) ([]*domain.Category, int, error) {
	categories, total, err := s.categoryStore.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// UpdateCategory applies the given changes inside a transaction
func (s *CategoryServiceImpl) UpdateCategory(
	ctx context.Context,
	id uuid.UUID,
	update CategoryUpdate,
) (*domain.Category, error) {
	var updated *domain.Category

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.categoryStore.WithTx(tx)

		category, err := txStore.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to retrieve category for update: %w", err)
		}

		if update.Name != nil {
			category.Name = *update.Name
		}
		if update.Description != nil {
			category.Description = *update.Description
		}
		if update.ClearParent {
			category.ParentID = nil
		} else if update.ParentID != nil {
			category.ParentID = update.ParentID
		}
		if update.IsActive != nil {
			category.IsActive = *update.IsActive
		}
		if update.DisplayOrder != nil {
			category.DisplayOrder = *update.DisplayOrder
		}

		if err := txStore.Update(ctx, category); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}

		updated = category
		return nil
	})

	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) || store.IsDuplicateError(err) {
			s.logger.Debug("category update rejected", "error", err, "category_id", id)
		} else {
			s.logger.Error("failed to update category", "error", err, "category_id", id)
		}
		return nil, err
	}

	s.logger.Info("category updated", "category_id", id)
	return updated, nil
}

// DeleteCategory removes a category
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryStore.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrCategoryNotFound) {
			s.logger.Error("failed to delete category", "error", err, "category_id", id)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}
