package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/phrazzld/storefront-api/internal/task"
)

// ProductCreate carries the fields for creating a new product.
type ProductCreate struct {
	Name             string
	Description      string
	ShortDescription string
	Price            decimal.Decimal
	ComparePrice     *decimal.Decimal
	StockQuantity    int
	CategoryID       *uuid.UUID
	IsActive         *bool
	IsFeatured       bool
}

// ProductUpdate carries the optional product fields a seller may change.
// Nil pointers leave the corresponding field untouched.
type ProductUpdate struct {
	Name              *string
	Description       *string
	ShortDescription  *string
	Price             *decimal.Decimal
	ComparePrice      *decimal.Decimal
	ClearComparePrice bool
	StockQuantity     *int
	CategoryID        *uuid.UUID
	ClearCategory     bool
	IsActive          *bool
	IsFeatured        *bool
}

// ProductService provides product catalog operations
type ProductService interface {
	// CreateProduct creates a new product owned by the given seller.
	// Returns ErrSellerRequired if the user is not a seller.
	CreateProduct(ctx context.Context, sellerID uuid.UUID, params ProductCreate) (*domain.Product, error)

	// GetProduct retrieves a product by its ID
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// GetProductBySlug retrieves a product by its slug and records the view.
	// Inactive products are hidden from everyone but their owner; viewerID
	// is nil for anonymous requests.
	GetProductBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*domain.Product, error)

	// ListProducts retrieves a page of products matching the filter and the
	// total matching count
	ListProducts(ctx context.Context, filter store.ProductFilter, limit, offset int) ([]*domain.Product, int, error)

	// UpdateProduct applies the given changes to a product the requester owns.
	// Returns ErrNotOwned if the requester is not the product's seller.
	UpdateProduct(ctx context.Context, id, requesterID uuid.UUID, update ProductUpdate) (*domain.Product, error)

	// DeleteProduct removes a product the requester owns.
	// Returns ErrNotOwned if the requester is not the product's seller.
	DeleteProduct(ctx context.Context, id, requesterID uuid.UUID) error
}

// ProductServiceImpl implements the ProductService interface
type ProductServiceImpl struct {
	productStore store.ProductStore
	userStore    store.UserStore
	eventEmitter events.EventEmitter
	db           *sql.DB
	logger       *slog.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productStore store.ProductStore,
	userStore store.UserStore,
	eventEmitter events.EventEmitter,
	db *sql.DB,
	logger *slog.Logger,
) *ProductServiceImpl {
	return &ProductServiceImpl{
		productStore: productStore,
		userStore:    userStore,
		eventEmitter: eventEmitter,
		db:           db,
		logger:       logger.With("component", "product_service"),
	}
}

var _ ProductService = (*ProductServiceImpl)(nil)

// CreateProduct creates a new product owned by the given seller
func (s *ProductServiceImpl) CreateProduct(
	ctx context.Context,
	sellerID uuid.UUID,
	params ProductCreate,
) (*domain.Product, error) {
	seller, err := s.userStore.GetByID(ctx, sellerID)
	if err != nil {
		s.logger.Error("failed to load seller", "error", err, "seller_id", sellerID)
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	if !seller.IsSeller {
		s.logger.Debug("product create rejected for non-seller", "user_id", sellerID)
		return nil, ErrSellerRequired
	}

	product, err := domain.NewProduct(params.Name, params.Description, params.Price, sellerID)
	if err != nil {
		s.logger.Debug("invalid product data", "error", err, "seller_id", sellerID)
		return nil, err
	}

	product.ShortDescription = params.ShortDescription
	product.ComparePrice = params.ComparePrice
	product.StockQuantity = params.StockQuantity
	product.CategoryID = params.CategoryID
	product.IsFeatured = params.IsFeatured
	if params.IsActive != nil {
		product.IsActive = *params.IsActive
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.productStore.WithTx(tx).Create(ctx, product)
	})
	if err != nil {
		s.logger.Error("failed to create product",
			"error", err,
			"seller_id", sellerID,
			"name", params.Name)
		return nil, err
	}

	s.logger.Info("product created",
		"product_id", product.ID,
		"seller_id", sellerID,
		"slug", product.Slug)
	return product, nil
}

// GetProduct retrieves a product by its ID
func (s *ProductServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productStore.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrProductNotFound) {
			s.logger.Error("failed to retrieve product", "error", err, "product_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return product, nil
}

// GetProductBySlug retrieves a product by its slug and records the view.
// The view count is bumped asynchronously so the write never delays the
// response; a failed emit is logged, not surfaced.
func (s *ProductServiceImpl) GetProductBySlug(
	ctx context.Context,
	slug string,
	viewerID *uuid.UUID,
) (*domain.Product, error) {
	product, err := s.productStore.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, store.ErrProductNotFound) {
			s.logger.Error("failed to retrieve product by slug", "error", err, "slug", slug)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	if !product.IsActive && (viewerID == nil || *viewerID != product.SellerID) {
		return nil, store.ErrProductNotFound
	}

	s.emitViewEvent(ctx, product.ID)

	return product, nil
}

// emitViewEvent publishes a product view event for background processing.
func (s *ProductServiceImpl) emitViewEvent(ctx context.Context, productID uuid.UUID) {
	payload := struct {
		ProductID uuid.UUID `json:"product_id"`
	}{
		ProductID: productID,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeProductView, payload)
	if err != nil {
		s.logger.Error("failed to create product view event",
			"error", err,
			"product_id", productID)
		return
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit product view event",
			"error", err,
			"product_id", productID,
			"event_id", event.ID)
	}
}

// ListProducts retrieves a page of products matching the filter
func (s *ProductServiceImpl) ListProducts(
	ctx context.Context,
	filter store.ProductFilter,
	limit, offset int,
) ([]*domain.Product, int, error) {
	products, total, err := s.productStore.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// UpdateProduct applies the given changes to a product the requester owns
func (s *ProductServiceImpl) UpdateProduct(
	ctx context.Context,
	id, requesterID uuid.UUID,
	update ProductUpdate,
) (*domain.Product, error) {
	var updated *domain.Product

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.productStore.WithTx(tx)

		product, err := txStore.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to retrieve product for update: %w", err)
		}

		if product.SellerID != requesterID {
			return ErrNotOwned
		}

		if update.Name != nil {
			product.Name = *update.Name
		}
		if update.Description != nil {
			product.Description = *update.Description
		}
		if update.ShortDescription != nil {
			product.ShortDescription = *update.ShortDescription
		}
		if update.Price != nil {
			product.Price = *update.Price
		}
		if update.ClearComparePrice {
			product.ComparePrice = nil
		} else if update.ComparePrice != nil {
			product.ComparePrice = update.ComparePrice
		}
		if update.StockQuantity != nil {
			product.StockQuantity = *update.StockQuantity
		}
		if update.ClearCategory {
			product.CategoryID = nil
		} else if update.CategoryID != nil {
			product.CategoryID = update.CategoryID
		}
		if update.IsActive != nil {
			product.IsActive = *update.IsActive
		}
		if update.IsFeatured != nil {
			product.IsFeatured = *update.IsFeatured
		}

		if err := txStore.Update(ctx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		updated = product
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotOwned) || errors.Is(err, store.ErrProductNotFound) {
			s.logger.Debug("product update rejected",
				"error", err,
				"product_id", id,
				"requester_id", requesterID)
		} else {
			s.logger.Error("failed to update product",
				"error", err,
				"product_id", id)
		}
		return nil, err
	}

	s.logger.Info("product updated", "product_id", id, "seller_id", requesterID)
	return updated, nil
}

// DeleteProduct removes a product the requester owns
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id, requesterID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.productStore.WithTx(tx)

		product, err := txStore.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to retrieve product for delete: %w", err)
		}

		if product.SellerID != requesterID {
			return ErrNotOwned
		}

		return txStore.Delete(ctx, id)
	})

	if err != nil {
		if errors.Is(err, ErrNotOwned) || errors.Is(err, store.ErrProductNotFound) {
			s.logger.Debug("product delete rejected",
				"error", err,
				"product_id", id,
				"requester_id", requesterID)
		} else {
			s.logger.Error("failed to delete product", "error", err, "product_id", id)
		}
		return err
	}

	s.logger.Info("product deleted", "product_id", id, "seller_id", requesterID)
	return nil
}
