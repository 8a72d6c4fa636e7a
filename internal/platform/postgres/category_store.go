package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// Unique constraint name from the categories migration.
const categoriesNameKey = "categories_name_key"

const categoryColumns = `id, name, slug, description, parent_id, is_active,
	display_order, created_at, updated_at`

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx returns a new CategoryStore that uses the provided transaction.
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CategoryStore.Create
// Slug collisions are resolved by reading the existing slugs and appending a
// numeric suffix before the single INSERT runs; a concurrent insert that
// steals the slug in between surfaces as store.ErrDuplicate.
// Returns store.ErrCategoryNameExists if the name is already taken.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	slug, err := resolveUniqueValue(ctx, s.db, "categories", "slug", category.Slug)
	if err != nil {
		log.Error("failed to resolve category slug",
			slog.String("error", err.Error()),
			slog.String("slug", category.Slug))
		return MapError(err)
	}
	category.Slug = slug

	query := `
		INSERT INTO categories (id, name, slug, description, parent_id, is_active,
			display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		category.ParentID,
		category.IsActive,
		category.DisplayOrder,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolationOn(err, categoriesNameKey) {
			return store.ErrCategoryNameExists
		}

		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("slug", category.Slug))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return s.scanCategory(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetBySlug implements store.CategoryStore.GetBySlug
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	return s.scanCategory(ctx, s.db.QueryRowContext(ctx, query, slug))
}

// List implements store.CategoryStore.List
// Results are ordered by display order, then name.
func (s *PostgresCategoryStore) List(ctx context.Context, filter store.CategoryFilter, limit, offset int) ([]*domain.Category, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	where, args := buildCategoryWhere(filter)

	countQuery := `SELECT COUNT(*) FROM categories` + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count categories", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM categories%s ORDER BY display_order ASC, name ASC LIMIT $%d OFFSET $%d`,
		categoryColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query categories", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	categories := []*domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := scanCategoryFields(rows, &category); err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	return categories, total, nil
}

// Update implements store.CategoryStore.Update
// The slug is not regenerated on rename; it stays stable once assigned.
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during update",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	category.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = $1, description = $2, parent_id = $3, is_active = $4,
			display_order = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		category.Name,
		category.Description,
		category.ParentID,
		category.IsActive,
		category.DisplayOrder,
		category.UpdatedAt,
		category.ID,
	)

	if err != nil {
		if IsUniqueViolationOn(err, categoriesNameKey) {
			return store.ErrCategoryNameExists
		}

		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "category"); err != nil {
		return store.ErrCategoryNotFound
	}

	log.Info("category updated successfully", slog.String("category_id", category.ID.String()))
	return nil
}

// Delete implements store.CategoryStore.Delete
// Products in the category keep existing; the schema nulls their reference.
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "category"); err != nil {
		return store.ErrCategoryNotFound
	}

	log.Info("category deleted successfully", slog.String("category_id", id.String()))
	return nil
}

// buildCategoryWhere translates a CategoryFilter into a WHERE clause and its
// positional arguments. An empty filter yields an empty clause.
func buildCategoryWhere(filter store.CategoryFilter) (string, []any) {
	conditions := []string{}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.ParentID != nil {
		args = append(args, *filter.ParentID)
		conditions = append(conditions, fmt.Sprintf("parent_id = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanCategoryFields(row rowScanner, category *domain.Category) error {
	return row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.ParentID,
		&category.IsActive,
		&category.DisplayOrder,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
}

func (s *PostgresCategoryStore) scanCategory(ctx context.Context, row *sql.Row) (*domain.Category, error) {
	var category domain.Category
	if err := scanCategoryFields(row, &category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to scan category",
			slog.String("error", err.Error()))
		return nil, err
	}
	return &category, nil
}
