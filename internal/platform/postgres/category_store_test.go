package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/store"
)

func newTestCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	category, err := domain.NewCategory(name, "")
	require.NoError(t, err)
	return category
}

func TestPostgresCategoryStore_Create(t *testing.T) {
	t.Run("keeps the base slug when free", func(t *testing.T) {
		db := &fakeDB{}
		catStore := postgres.NewPostgresCategoryStore(db.open(), testLogger())
		category := newTestCategory(t, "Home & Garden")

		require.NoError(t, catStore.Create(context.Background(), category))
		assert.Equal(t, "home-garden", category.Slug)
		assert.Len(t, db.execs, 1)
	})

	t.Run("suffixes the slug when taken", func(t *testing.T) {
		db := &fakeDB{existingSlugs: []string{"home-garden", "home-garden-1"}}
		catStore := postgres.NewPostgresCategoryStore(db.open(), testLogger())
		category := newTestCategory(t, "Home & Garden")

		require.NoError(t, catStore.Create(context.Background(), category))
		assert.Equal(t, "home-garden-2", category.Slug)

		// Exactly one INSERT, already carrying the suffixed slug. A second
		// statement after a failed one would die inside a transaction.
		require.Len(t, db.execs, 1)
		assert.Contains(t, db.execs[0], "home-garden-2")
	})

	t.Run("maps a name conflict without retrying", func(t *testing.T) {
		db := &fakeDB{execErrs: []error{&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "categories_name_key",
		}}}
		catStore := postgres.NewPostgresCategoryStore(db.open(), testLogger())
		category := newTestCategory(t, "Books")

		err := catStore.Create(context.Background(), category)
		assert.ErrorIs(t, err, store.ErrCategoryNameExists)
		assert.Len(t, db.execs, 1)
	})

	t.Run("maps a concurrent slug insert to a duplicate", func(t *testing.T) {
		db := &fakeDB{execErrs: []error{&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "categories_slug_key",
		}}}
		catStore := postgres.NewPostgresCategoryStore(db.open(), testLogger())
		category := newTestCategory(t, "Books")

		err := catStore.Create(context.Background(), category)
		assert.True(t, store.IsDuplicateError(err))
		assert.Len(t, db.execs, 1)
	})
}
