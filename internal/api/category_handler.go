package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

// CategoryHandler handles category browsing and management.
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler with the given dependencies.
func NewCategoryHandler(categoryService service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger.With("component", "category_handler"),
	}
}

// List handles GET /categories. Supported query parameters: search,
// parent, is_active, page, page_size.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	params := shared.ParsePageParams(r)
	filter := parseCategoryFilter(r)

	categories, total, err := h.categoryService.ListCategories(
		r.Context(), filter, params.PageSize, params.Offset())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithPage(w, r, params, total, NewCategoryResponseList(categories))
}

// Get handles GET /categories/{slug}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.categoryService.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewCategoryResponse(category))
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryCreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails(ValidationDetails(err)))
		return
	}

	category, err := h.categoryService.CreateCategory(
		r.Context(), req.Name, req.Description, req.ParentID, req.DisplayOrder)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, NewCategoryResponse(category))
}

// Update handles PUT /categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req CategoryUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails(ValidationDetails(err)))
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), id, service.CategoryUpdate{
		Name:         req.Name,
		Description:  req.Description,
		ParentID:     req.ParentID,
		ClearParent:  req.ClearParent,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewCategoryResponse(category))
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseCategoryFilter reads the category list filter query parameters.
// Unparseable values are ignored rather than rejected.
func parseCategoryFilter(r *http.Request) store.CategoryFilter {
	q := r.URL.Query()
	filter := store.CategoryFilter{
		Search: q.Get("search"),
	}

	if raw := q.Get("parent"); raw != "" {
		if parentID, err := uuid.Parse(raw); err == nil {
			filter.ParentID = &parentID
		}
	}

	if raw := q.Get("is_active"); raw != "" {
		if isActive, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &isActive
		}
	}

	return filter
}
