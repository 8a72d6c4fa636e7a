package postgres_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"strings"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDB scripts the statements a store issues against a single table:
// uniqueness lookups answer from the configured value lists, and writes
// either succeed or fail with the error scripted for that call. Every exec
// is recorded so tests can assert how many statements ran and with which
// arguments.
type fakeDB struct {
	existingSlugs []string
	existingSKUs  []string
	execErrs      []error

	execs [][]driver.Value
}

func (f *fakeDB) open() *sql.DB {
	return sql.OpenDB(fakeConnector{db: f})
}

type fakeConnector struct{ db *fakeDB }

func (c fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{db: c.db}, nil
}

func (c fakeConnector) Driver() driver.Driver { return fakeDriver{db: c.db} }

type fakeDriver struct{ db *fakeDB }

func (d fakeDriver) Open(string) (driver.Conn, error) {
	return &fakeConn{db: d.db}, nil
}

type fakeConn struct{ db *fakeDB }

func (*fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("fake connection does not support prepared statements")
}

func (*fakeConn) Close() error { return nil }

func (*fakeConn) Begin() (driver.Tx, error) { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func (c *fakeConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	values := c.db.existingSlugs
	if strings.Contains(query, "sku") {
		values = c.db.existingSKUs
	}
	return &fakeRows{values: values}, nil
}

func (c *fakeConn) ExecContext(_ context.Context, _ string, args []driver.NamedValue) (driver.Result, error) {
	values := make([]driver.Value, len(args))
	for i, arg := range args {
		values[i] = arg.Value
	}
	c.db.execs = append(c.db.execs, values)

	if i := len(c.db.execs) - 1; i < len(c.db.execErrs) && c.db.execErrs[i] != nil {
		return nil, c.db.execErrs[i]
	}
	return driver.RowsAffected(1), nil
}

type fakeRows struct {
	values []string
	pos    int
}

func (r *fakeRows) Columns() []string { return []string{"value"} }

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.pos]
	r.pos++
	return nil
}
