package mocks

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
)

// stubDriver is a database/sql driver whose connections support only
// transaction begin/commit/rollback. Store mocks never touch the underlying
// connection, so this is all RunInTransaction needs.
type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) {
	return &stubConn{}, nil
}

type stubConn struct{}

func (*stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not support statements")
}

func (*stubConn) Close() error {
	return nil
}

func (*stubConn) Begin() (driver.Tx, error) {
	return stubTx{}, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubDriver sync.Once

// NewDB returns a *sql.DB whose transactions are no-ops. Use it wherever a
// service requires a database handle for RunInTransaction but the stores
// under test are mocks.
func NewDB() *sql.DB {
	registerStubDriver.Do(func() {
		sql.Register("stubtx", stubDriver{})
	})

	db, err := sql.Open("stubtx", "")
	if err != nil {
		// sql.Open with a registered driver only fails on a bad DSN
		panic(fmt.Sprintf("failed to open stub database: %v", err))
	}
	return db
}
