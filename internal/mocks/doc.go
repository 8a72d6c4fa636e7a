// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are shared across test packages. Each mock
// exposes function fields so tests can customize exactly the methods they
// exercise:
//
//	mockStore := &mocks.MockProductStore{
//		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
//			return nil, store.ErrProductNotFound
//		},
//	}
//
// The package also provides NewDB, a *sql.DB backed by a stub driver whose
// transactions commit and roll back without a database. Services that wrap
// store calls in RunInTransaction can be tested against it together with the
// store mocks, which ignore the transaction handle.
package mocks
