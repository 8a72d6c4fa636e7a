package postgres

import (
	"context"
	"fmt"

	"github.com/phrazzld/storefront-api/internal/store"
)

// maxSuffixAttempts bounds the collision suffix search. Hitting the bound
// means the same base value already exists dozens of times, which is a data
// problem rather than something to search through.
const maxSuffixAttempts = 50

// resolveUniqueValue returns base when the column does not contain it yet,
// otherwise the first "base-N" suffix that is still free. The lookup goes
// through the store's DBTX and so runs inside the caller's transaction.
// Postgres aborts a transaction after any failed statement, so collisions
// must be resolved with a read up front instead of retrying a failed INSERT.
func resolveUniqueValue(ctx context.Context, db store.DBTX, table, column, base string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 OR %s LIKE $2`,
		column, table, column, column)

	rows, err := db.QueryContext(ctx, query, base, base+"-%")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = rows.Close()
	}()

	taken := map[string]struct{}{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return "", err
		}
		taken[value] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if _, exists := taken[base]; !exists {
		return base, nil
	}
	for i := 1; i <= maxSuffixAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, exists := taken[candidate]; !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: could not find a free %s for %q", store.ErrDuplicate, column, base)
}
