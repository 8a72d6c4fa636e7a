package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/api"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

type productTestEnv struct {
	router       chi.Router
	userStore    *mocks.MockUserStore
	productStore *mocks.MockProductStore
	emitter      *mocks.MockEventEmitter
}

// newProductTestEnv wires a ProductHandler to the real service backed by
// mock stores and mounts it on the routes it serves in production. The
// "authenticated" user is injected via asUser rather than a real token.
func newProductTestEnv(t *testing.T) *productTestEnv {
	t.Helper()
	userStore := mocks.NewMockUserStore()
	productStore := mocks.NewMockProductStore()
	emitter := &mocks.MockEventEmitter{}

	svc := service.NewProductService(productStore, userStore, emitter, mocks.NewDB(), testLogger())
	handler := api.NewProductHandler(svc, testLogger())

	router := chi.NewRouter()
	router.Get("/products", handler.List)
	router.Get("/products/{slug}", handler.Get)
	router.Post("/products", handler.Create)
	router.Put("/products/{id}", handler.Update)
	router.Delete("/products/{id}", handler.Delete)

	return &productTestEnv{
		router:       router,
		userStore:    userStore,
		productStore: productStore,
		emitter:      emitter,
	}
}

// asUser attaches the user ID the auth middleware would have set.
func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func (env *productTestEnv) seedSeller(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, username+"@example.com", "password123")
	require.NoError(t, err)
	user.IsSeller = true
	env.userStore.Users[user.Username] = user
	return user
}

func (env *productTestEnv) seedProduct(t *testing.T, sellerID uuid.UUID, name string) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(name, "Description of "+name, decimal.NewFromInt(25), sellerID)
	require.NoError(t, err)
	env.productStore.Products[product.ID] = product
	return product
}

func (env *productTestEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestProductHandler_Create(t *testing.T) {
	body := map[string]any{
		"name":           "Walnut Desk",
		"description":    "A desk made of walnut.",
		"price":          "349.99",
		"stock_quantity": 4,
	}

	t.Run("creates a product for a seller", func(t *testing.T) {
		env := newProductTestEnv(t)
		seller := env.seedSeller(t, "seller1")

		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req := asUser(httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(payload)), seller.ID)

		rec := env.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.ProductResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.Equal(t, "walnut-desk", resp.Slug)
		assert.Equal(t, seller.ID, resp.SellerID)
		assert.True(t, resp.InStock)
	})

	t.Run("forbids non-sellers", func(t *testing.T) {
		env := newProductTestEnv(t)
		buyer, err := domain.NewUser("buyer1", "buyer1@example.com", "password123")
		require.NoError(t, err)
		env.userStore.Users[buyer.Username] = buyer

		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req := asUser(httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(payload)), buyer.ID)

		rec := env.do(req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newProductTestEnv(t)

		payload, err := json.Marshal(body)
		require.NoError(t, err)
		rec := env.do(httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(payload)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProductHandler_Get(t *testing.T) {
	t.Run("returns the product and derived fields", func(t *testing.T) {
		env := newProductTestEnv(t)
		seller := env.seedSeller(t, "seller1")
		product := env.seedProduct(t, seller.ID, "Walnut Desk")
		compare := decimal.NewFromInt(50)
		product.ComparePrice = &compare

		rec := env.do(httptest.NewRequest(http.MethodGet, "/products/"+product.Slug, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.ProductResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.Equal(t, product.ID, resp.ID)
		assert.True(t, resp.DiscountPercentage.Equal(decimal.NewFromInt(50)))

		// Each view emits a counting event
		assert.Len(t, env.emitter.EmittedEvents(), 1)
	})

	t.Run("hides inactive products from strangers", func(t *testing.T) {
		env := newProductTestEnv(t)
		seller := env.seedSeller(t, "seller1")
		product := env.seedProduct(t, seller.ID, "Walnut Desk")
		product.IsActive = false

		rec := env.do(httptest.NewRequest(http.MethodGet, "/products/"+product.Slug, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		req := asUser(httptest.NewRequest(http.MethodGet, "/products/"+product.Slug, nil), uuid.New())
		assert.Equal(t, http.StatusNotFound, env.do(req).Code)

		req = asUser(httptest.NewRequest(http.MethodGet, "/products/"+product.Slug, nil), seller.ID)
		assert.Equal(t, http.StatusOK, env.do(req).Code)
	})

	t.Run("unknown slug", func(t *testing.T) {
		env := newProductTestEnv(t)

		rec := env.do(httptest.NewRequest(http.MethodGet, "/products/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_Update(t *testing.T) {
	t.Run("owner can update", func(t *testing.T) {
		env := newProductTestEnv(t)
		seller := env.seedSeller(t, "seller1")
		product := env.seedProduct(t, seller.ID, "Walnut Desk")

		payload := []byte(`{"price": "199.99", "is_featured": true}`)
		req := asUser(httptest.NewRequest(
			http.MethodPut, "/products/"+product.ID.String(), bytes.NewReader(payload)), seller.ID)

		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.ProductResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.True(t, resp.Price.Equal(decimal.NewFromFloat(199.99)))
		assert.True(t, resp.IsFeatured)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		env := newProductTestEnv(t)
		seller := env.seedSeller(t, "seller1")
		product := env.seedProduct(t, seller.ID, "Walnut Desk")

		payload := []byte(`{"is_featured": true}`)
		req := asUser(httptest.NewRequest(
			http.MethodPut, "/products/"+product.ID.String(), bytes.NewReader(payload)), uuid.New())

		rec := env.do(req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	env := newProductTestEnv(t)
	seller := env.seedSeller(t, "seller1")
	product := env.seedProduct(t, seller.ID, "Walnut Desk")

	req := asUser(httptest.NewRequest(
		http.MethodDelete, "/products/"+product.ID.String(), nil), uuid.New())
	assert.Equal(t, http.StatusForbidden, env.do(req).Code)

	req = asUser(httptest.NewRequest(
		http.MethodDelete, "/products/"+product.ID.String(), nil), seller.ID)
	assert.Equal(t, http.StatusNoContent, env.do(req).Code)
	assert.NotContains(t, env.productStore.Products, product.ID)
}

func TestProductHandler_List(t *testing.T) {
	t.Run("passes filters through to the store", func(t *testing.T) {
		env := newProductTestEnv(t)

		var captured store.ProductFilter
		var capturedLimit, capturedOffset int
		env.productStore.ListFn = func(
			ctx context.Context,
			filter store.ProductFilter,
			limit, offset int,
		) ([]*domain.Product, int, error) {
			captured = filter
			capturedLimit = limit
			capturedOffset = offset
			return nil, 0, nil
		}

		target := "/products?category=" + uuid.Nil.String() +
			"&min_price=10&max_price=99.50&search=desk&seller=Seller1" +
			"&is_featured=true&in_stock=true&ordering=-price&page=3&page_size=20"
		rec := env.do(httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, captured.CategoryID)
		require.NotNil(t, captured.MinPrice)
		assert.True(t, captured.MinPrice.Equal(decimal.NewFromInt(10)))
		require.NotNil(t, captured.MaxPrice)
		assert.True(t, captured.MaxPrice.Equal(decimal.NewFromFloat(99.50)))
		assert.Equal(t, "desk", captured.Search)
		assert.Equal(t, "Seller1", captured.SellerUsername)
		require.NotNil(t, captured.IsFeatured)
		assert.True(t, *captured.IsFeatured)
		assert.True(t, captured.InStock)
		assert.Equal(t, "-price", captured.Ordering)
		assert.Equal(t, 20, capturedLimit)
		assert.Equal(t, 40, capturedOffset)
	})

	t.Run("returns a paginated envelope", func(t *testing.T) {
		env := newProductTestEnv(t)
		seller := env.seedSeller(t, "seller1")
		env.seedProduct(t, seller.ID, "Walnut Desk")
		env.seedProduct(t, seller.ID, "Oak Chair")

		rec := env.do(httptest.NewRequest(http.MethodGet, "/products", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var page struct {
			Success  bool                  `json:"success"`
			Count    int                   `json:"count"`
			Next     *string               `json:"next"`
			Previous *string               `json:"previous"`
			Results  []api.ProductResponse `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.True(t, page.Success)
		assert.Equal(t, 2, page.Count)
		assert.Nil(t, page.Next)
		assert.Nil(t, page.Previous)
		assert.Len(t, page.Results, 2)
	})
}
