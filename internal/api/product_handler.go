package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

// ProductHandler handles catalog browsing and seller product management.
type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a new ProductHandler with the given dependencies.
func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger.With("component", "product_handler"),
	}
}

// List handles GET /products. Supported query parameters: category,
// min_price, max_price, search, seller, is_featured, in_stock, ordering,
// page, page_size. Only active products are listed.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := shared.ParsePageParams(r)
	filter := parseProductFilter(r)

	products, total, err := h.productService.ListProducts(
		r.Context(), filter, params.PageSize, params.Offset())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithPage(w, r, params, total, NewProductResponseList(products))
}

// Get handles GET /products/{slug}. An inactive product is visible only to
// its seller; to everyone else it does not exist.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var viewerID *uuid.UUID
	if userID, ok := middleware.GetUserID(r); ok {
		viewerID = &userID
	}

	product, err := h.productService.GetProductBySlug(r.Context(), slug, viewerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewProductResponse(product))
}

// Create handles POST /products. Only seller accounts may create products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ProductCreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails(ValidationDetails(err)))
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), userID, service.ProductCreate{
		Name:             req.Name,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		ComparePrice:     req.ComparePrice,
		StockQuantity:    req.StockQuantity,
		CategoryID:       req.CategoryID,
		IsActive:         req.IsActive,
		IsFeatured:       req.IsFeatured,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, NewProductResponse(product))
}

// Update handles PUT /products/{id}. Only the product's seller may update it.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req ProductUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails(ValidationDetails(err)))
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, userID, service.ProductUpdate{
		Name:              req.Name,
		Description:       req.Description,
		ShortDescription:  req.ShortDescription,
		Price:             req.Price,
		ComparePrice:      req.ComparePrice,
		ClearComparePrice: req.ClearComparePrice,
		StockQuantity:     req.StockQuantity,
		CategoryID:        req.CategoryID,
		ClearCategory:     req.ClearCategory,
		IsActive:          req.IsActive,
		IsFeatured:        req.IsFeatured,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewProductResponse(product))
}

// Delete handles DELETE /products/{id}. Only the product's seller may
// delete it.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseProductFilter reads the product list filter query parameters.
// Unparseable values are ignored rather than rejected.
func parseProductFilter(r *http.Request) store.ProductFilter {
	q := r.URL.Query()
	filter := store.ProductFilter{
		Search:         q.Get("search"),
		SellerUsername: q.Get("seller"),
		Ordering:       q.Get("ordering"),
	}

	if raw := q.Get("category"); raw != "" {
		if categoryID, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = &categoryID
		}
	}

	if raw := q.Get("min_price"); raw != "" {
		if minPrice, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &minPrice
		}
	}

	if raw := q.Get("max_price"); raw != "" {
		if maxPrice, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &maxPrice
		}
	}

	if raw := q.Get("is_featured"); raw != "" {
		if isFeatured, err := strconv.ParseBool(raw); err == nil {
			filter.IsFeatured = &isFeatured
		}
	}

	if raw := q.Get("in_stock"); raw != "" {
		if inStock, err := strconv.ParseBool(raw); err == nil && inStock {
			filter.InStock = true
		}
	}

	return filter
}
