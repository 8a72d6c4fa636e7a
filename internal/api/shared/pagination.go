package shared

import (
	"net/http"
	"strconv"
)

// Pagination defaults and bounds for list endpoints.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageParams holds the parsed pagination query parameters.
type PageParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePageParams reads the "page" and "page_size" query parameters.
// Out-of-range or unparseable values fall back to the defaults; page_size is
// clamped to MaxPageSize.
func ParsePageParams(r *http.Request) PageParams {
	params := PageParams{Page: 1, PageSize: DefaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.Page = page
		}
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			if size > MaxPageSize {
				size = MaxPageSize
			}
			params.PageSize = size
		}
	}

	return params
}

// PaginatedResponse is the envelope for list endpoints: the total count of
// matching rows, links to the neighboring pages, and the current page of
// results.
type PaginatedResponse struct {
	Success  bool        `json:"success"`
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// RespondWithPage writes a paginated response. Next and previous links are
// built from the request URL so client filters survive page navigation.
func RespondWithPage(
	w http.ResponseWriter,
	r *http.Request,
	params PageParams,
	count int,
	results interface{},
) {
	RespondWithJSON(w, r, http.StatusOK, PaginatedResponse{
		Success:  true,
		Count:    count,
		Next:     pageLink(r, params, count, 1),
		Previous: pageLink(r, params, count, -1),
		Results:  results,
	})
}

// pageLink builds the URL for the page at the given offset from the current
// one, or nil when that page is out of range.
func pageLink(r *http.Request, params PageParams, count, direction int) *string {
	target := params.Page + direction
	if target < 1 {
		return nil
	}
	if (target-1)*params.PageSize >= count {
		return nil
	}

	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(target))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	u.RawQuery = q.Encode()

	link := u.String()
	return &link
}
