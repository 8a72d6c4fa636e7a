package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/phrazzld/storefront-api/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSeller(t *testing.T, isSeller bool) *domain.User {
	t.Helper()
	user, err := domain.NewUser("seller1", "seller@example.com", "password123")
	require.NoError(t, err)
	user.IsSeller = isSeller
	return user
}

func newTestProduct(t *testing.T, sellerID uuid.UUID) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(
		"Walnut Desk",
		"A desk made of walnut.",
		decimal.NewFromFloat(349.99),
		sellerID,
	)
	require.NoError(t, err)
	return product
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-sellers", func(t *testing.T) {
		buyer := newSeller(t, false)
		userStore := mocks.NewMockUserStore()
		userStore.Users[buyer.Username] = buyer

		svc := service.NewProductService(
			mocks.NewMockProductStore(),
			userStore,
			&mocks.MockEventEmitter{},
			mocks.NewDB(),
			testLogger(),
		)

		_, err := svc.CreateProduct(ctx, buyer.ID, service.ProductCreate{
			Name:        "Walnut Desk",
			Description: "A desk made of walnut.",
			Price:       decimal.NewFromFloat(349.99),
		})
		assert.ErrorIs(t, err, service.ErrSellerRequired)
	})

	t.Run("creates a product for a seller", func(t *testing.T) {
		seller := newSeller(t, true)
		userStore := mocks.NewMockUserStore()
		userStore.Users[seller.Username] = seller

		productStore := mocks.NewMockProductStore()
		svc := service.NewProductService(
			productStore,
			userStore,
			&mocks.MockEventEmitter{},
			mocks.NewDB(),
			testLogger(),
		)

		product, err := svc.CreateProduct(ctx, seller.ID, service.ProductCreate{
			Name:          "Walnut Desk",
			Description:   "A desk made of walnut.",
			Price:         decimal.NewFromFloat(349.99),
			StockQuantity: 4,
			IsFeatured:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, seller.ID, product.SellerID)
		assert.Equal(t, "walnut-desk", product.Slug)
		assert.True(t, product.IsActive)
		assert.True(t, product.IsFeatured)
		assert.Contains(t, productStore.Products, product.ID)
	})
}

func TestProductService_GetProductBySlug(t *testing.T) {
	ctx := context.Background()
	seller := newSeller(t, true)

	t.Run("emits a view event for active products", func(t *testing.T) {
		product := newTestProduct(t, seller.ID)
		productStore := mocks.NewMockProductStore()
		productStore.Products[product.ID] = product

		emitter := &mocks.MockEventEmitter{}
		svc := service.NewProductService(
			productStore,
			mocks.NewMockUserStore(),
			emitter,
			mocks.NewDB(),
			testLogger(),
		)

		got, err := svc.GetProductBySlug(ctx, product.Slug, nil)
		require.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)

		emitted := emitter.EmittedEvents()
		require.Len(t, emitted, 1)
		assert.Equal(t, task.TaskTypeProductView, emitted[0].Type)
	})

	t.Run("hides inactive products from anonymous viewers", func(t *testing.T) {
		product := newTestProduct(t, seller.ID)
		product.IsActive = false
		productStore := mocks.NewMockProductStore()
		productStore.Products[product.ID] = product

		svc := service.NewProductService(
			productStore,
			mocks.NewMockUserStore(),
			&mocks.MockEventEmitter{},
			mocks.NewDB(),
			testLogger(),
		)

		_, err := svc.GetProductBySlug(ctx, product.Slug, nil)
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})

	t.Run("shows inactive products to their owner", func(t *testing.T) {
		product := newTestProduct(t, seller.ID)
		product.IsActive = false
		productStore := mocks.NewMockProductStore()
		productStore.Products[product.ID] = product

		svc := service.NewProductService(
			productStore,
			mocks.NewMockUserStore(),
			&mocks.MockEventEmitter{},
			mocks.NewDB(),
			testLogger(),
		)

		got, err := svc.GetProductBySlug(ctx, product.Slug, &seller.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	seller := newSeller(t, true)

	t.Run("rejects updates from non-owners", func(t *testing.T) {
		product := newTestProduct(t, seller.ID)
		productStore := mocks.NewMockProductStore()
		productStore.Products[product.ID] = product

		svc := service.NewProductService(
			productStore,
			mocks.NewMockUserStore(),
			&mocks.MockEventEmitter{},
			mocks.NewDB(),
			testLogger(),
		)

		stranger := uuid.New()
		_, err := svc.UpdateProduct(ctx, product.ID, stranger, service.ProductUpdate{})
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	t.Run("applies partial updates for the owner", func(t *testing.T) {
		product := newTestProduct(t, seller.ID)
		productStore := mocks.NewMockProductStore()
		productStore.Products[product.ID] = product

		svc := service.NewProductService(
			productStore,
			mocks.NewMockUserStore(),
			&mocks.MockEventEmitter{},
			mocks.NewDB(),
			testLogger(),
		)

		newName := "Oak Desk"
		newStock := 9
		updated, err := svc.UpdateProduct(ctx, product.ID, seller.ID, service.ProductUpdate{
			Name:          &newName,
			StockQuantity: &newStock,
		})
		require.NoError(t, err)
		assert.Equal(t, "Oak Desk", updated.Name)
		assert.Equal(t, 9, updated.StockQuantity)
		// Untouched fields survive
		assert.Equal(t, "A desk made of walnut.", updated.Description)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	seller := newSeller(t, true)

	product := newTestProduct(t, seller.ID)
	productStore := mocks.NewMockProductStore()
	productStore.Products[product.ID] = product

	svc := service.NewProductService(
		productStore,
		mocks.NewMockUserStore(),
		&mocks.MockEventEmitter{},
		mocks.NewDB(),
		testLogger(),
	)

	t.Run("rejects deletes from non-owners", func(t *testing.T) {
		err := svc.DeleteProduct(ctx, product.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrNotOwned)
		assert.Contains(t, productStore.Products, product.ID)
	})

	t.Run("deletes for the owner", func(t *testing.T) {
		require.NoError(t, svc.DeleteProduct(ctx, product.ID, seller.ID))
		assert.NotContains(t, productStore.Products, product.ID)
	})

	t.Run("unknown product", func(t *testing.T) {
		err := svc.DeleteProduct(ctx, uuid.New(), seller.ID)
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})
}
