package shared_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/api/shared"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, shared.DefaultPageSize},
		{"explicit values", "page=3&page_size=25", 3, 25},
		{"page size clamped", "page_size=500", 1, shared.MaxPageSize},
		{"garbage ignored", "page=abc&page_size=-1", 1, shared.DefaultPageSize},
		{"zero page ignored", "page=0", 1, shared.DefaultPageSize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/items?"+tc.query, nil)
			params := shared.ParsePageParams(req)
			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantPageSize, params.PageSize)
		})
	}
}

func TestPageParamsOffset(t *testing.T) {
	assert.Equal(t, 0, shared.PageParams{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 40, shared.PageParams{Page: 3, PageSize: 20}.Offset())
}

func TestRespondWithPage(t *testing.T) {
	decode := func(t *testing.T, rec *httptest.ResponseRecorder) shared.PaginatedResponse {
		t.Helper()
		var page shared.PaginatedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		return page
	}

	t.Run("middle page links both ways and keeps filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items?search=desk&page=2&page_size=10", nil)
		rec := httptest.NewRecorder()

		shared.RespondWithPage(rec, req, shared.PageParams{Page: 2, PageSize: 10}, 25, []string{})

		page := decode(t, rec)
		assert.Equal(t, 25, page.Count)
		require.NotNil(t, page.Next)
		assert.Contains(t, *page.Next, "page=3")
		assert.Contains(t, *page.Next, "search=desk")
		require.NotNil(t, page.Previous)
		assert.Contains(t, *page.Previous, "page=1")
	})

	t.Run("first page has no previous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		rec := httptest.NewRecorder()

		shared.RespondWithPage(rec, req, shared.PageParams{Page: 1, PageSize: 10}, 25, []string{})

		page := decode(t, rec)
		assert.Nil(t, page.Previous)
		assert.NotNil(t, page.Next)
	})

	t.Run("last page has no next", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items?page=3", nil)
		rec := httptest.NewRecorder()

		shared.RespondWithPage(rec, req, shared.PageParams{Page: 3, PageSize: 10}, 25, []string{})

		page := decode(t, rec)
		assert.Nil(t, page.Next)
		assert.NotNil(t, page.Previous)
	})

	t.Run("empty result set links nowhere", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		rec := httptest.NewRecorder()

		shared.RespondWithPage(rec, req, shared.PageParams{Page: 1, PageSize: 10}, 0, []string{})

		page := decode(t, rec)
		assert.Nil(t, page.Next)
		assert.Nil(t, page.Previous)
	})
}
