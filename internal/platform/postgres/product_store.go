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

// productColumns is qualified with the table alias because List joins users
// for the seller filter.
const productColumns = `p.id, p.name, p.slug, p.sku, p.description, p.short_description,
	p.price, p.compare_price, p.stock_quantity, p.category_id, p.seller_id,
	p.is_active, p.is_featured, p.view_count, p.created_at, p.updated_at`

// PostgresProductStore implements the store.ProductStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a new PostgreSQL implementation of the
// ProductStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

// Ensure PostgresProductStore implements store.ProductStore interface
var _ store.ProductStore = (*PostgresProductStore)(nil)

// WithTx returns a new ProductStore that uses the provided transaction.
func (s *PostgresProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &PostgresProductStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProductStore.Create
// Slug and SKU collisions are resolved by reading the existing values and
// appending a numeric suffix before the single INSERT runs; a concurrent
// insert that steals either value in between surfaces as store.ErrDuplicate.
// Returns store.ErrInvalidEntity when the seller or category does not exist.
func (s *PostgresProductStore) Create(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during create",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	slug, err := resolveUniqueValue(ctx, s.db, "products", "slug", product.Slug)
	if err != nil {
		log.Error("failed to resolve product slug",
			slog.String("error", err.Error()),
			slog.String("slug", product.Slug))
		return MapError(err)
	}
	product.Slug = slug

	sku, err := resolveUniqueValue(ctx, s.db, "products", "sku", product.SKU)
	if err != nil {
		log.Error("failed to resolve product sku",
			slog.String("error", err.Error()),
			slog.String("sku", product.SKU))
		return MapError(err)
	}
	product.SKU = sku

	query := `
		INSERT INTO products (id, name, slug, sku, description, short_description,
			price, compare_price, stock_quantity, category_id, seller_id,
			is_active, is_featured, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.SKU,
		product.Description,
		product.ShortDescription,
		product.Price,
		product.ComparePrice,
		product.StockQuantity,
		product.CategoryID,
		product.SellerID,
		product.IsActive,
		product.IsFeatured,
		product.ViewCount,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return MapError(err)
	}

	log.Info("product created successfully",
		slog.String("product_id", product.ID.String()),
		slog.String("slug", product.Slug),
		slog.String("sku", product.SKU))
	return nil
}

// GetByID implements store.ProductStore.GetByID
// Returns store.ErrProductNotFound if the product does not exist.
func (s *PostgresProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	return s.scanProduct(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetBySlug implements store.ProductStore.GetBySlug
// Returns store.ErrProductNotFound if the product does not exist.
func (s *PostgresProductStore) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1`
	return s.scanProduct(ctx, s.db.QueryRowContext(ctx, query, slug))
}

// List implements store.ProductStore.List
// Unless IncludeInactive is set, only active products are returned.
func (s *PostgresProductStore) List(ctx context.Context, filter store.ProductFilter, limit, offset int) ([]*domain.Product, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	where, args := buildProductWhere(filter)

	countQuery := `SELECT COUNT(*) FROM products p JOIN users u ON u.id = p.seller_id` + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count products", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	ordering, ok := store.ProductOrderings[filter.Ordering]
	if !ok {
		ordering = store.DefaultProductOrdering
	}

	query := fmt.Sprintf(
		`SELECT %s FROM products p JOIN users u ON u.id = p.seller_id%s ORDER BY p.%s LIMIT $%d OFFSET $%d`,
		productColumns, where, ordering, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	products := []*domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := scanProductFields(rows, &product); err != nil {
			log.Error("failed to scan product row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		products = append(products, &product)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	return products, total, nil
}

// Update implements store.ProductStore.Update
// The slug and SKU stay stable once assigned; ViewCount is owned by
// IncrementViewCount and is not written here.
// Returns store.ErrProductNotFound if the product does not exist.
func (s *PostgresProductStore) Update(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during update",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	product.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, description = $2, short_description = $3, price = $4,
			compare_price = $5, stock_quantity = $6, category_id = $7,
			is_active = $8, is_featured = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.ShortDescription,
		product.Price,
		product.ComparePrice,
		product.StockQuantity,
		product.CategoryID,
		product.IsActive,
		product.IsFeatured,
		product.UpdatedAt,
		product.ID,
	)

	if err != nil {
		log.Error("failed to update product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "product"); err != nil {
		return store.ErrProductNotFound
	}

	log.Info("product updated successfully", slog.String("product_id", product.ID.String()))
	return nil
}

// Delete implements store.ProductStore.Delete
// Returns store.ErrProductNotFound if the product does not exist.
func (s *PostgresProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete product",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "product"); err != nil {
		return store.ErrProductNotFound
	}

	log.Info("product deleted successfully", slog.String("product_id", id.String()))
	return nil
}

// IncrementViewCount implements store.ProductStore.IncrementViewCount
// The increment happens in SQL so concurrent views never lose updates.
func (s *PostgresProductStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to increment view count",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "product"); err != nil {
		return store.ErrProductNotFound
	}

	return nil
}

// buildProductWhere translates a ProductFilter into a WHERE clause and its
// positional arguments. Ordering and pagination are handled by the caller.
func buildProductWhere(filter store.ProductFilter) (string, []any) {
	conditions := []string{}
	args := []any{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "p.is_active = TRUE")
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions,
			fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}
	if filter.SellerUsername != "" {
		args = append(args, filter.SellerUsername)
		conditions = append(conditions, fmt.Sprintf("LOWER(u.username) = LOWER($%d)", len(args)))
	}
	if filter.IsFeatured != nil {
		args = append(args, *filter.IsFeatured)
		conditions = append(conditions, fmt.Sprintf("p.is_featured = $%d", len(args)))
	}
	if filter.InStock {
		conditions = append(conditions, "p.stock_quantity > 0")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanProductFields(row rowScanner, product *domain.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.SKU,
		&product.Description,
		&product.ShortDescription,
		&product.Price,
		&product.ComparePrice,
		&product.StockQuantity,
		&product.CategoryID,
		&product.SellerID,
		&product.IsActive,
		&product.IsFeatured,
		&product.ViewCount,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}

func (s *PostgresProductStore) scanProduct(ctx context.Context, row *sql.Row) (*domain.Product, error) {
	var product domain.Product
	if err := scanProductFields(row, &product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to scan product",
			slog.String("error", err.Error()))
		return nil, err
	}
	return &product, nil
}
