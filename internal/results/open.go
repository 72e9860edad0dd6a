package results

import (
	"context"
	"database/sql"
	"fmt"
)

// Open picks a backend by driver name: "sqlite3" (or empty) reuses sqliteDB,
// "postgres" connects to connStr.
func Open(ctx context.Context, driver string, sqliteDB *sql.DB, connStr string) (Store, error) {
	switch driver {
	case "", "sqlite3", "sqlite":
		if sqliteDB == nil {
			return nil, fmt.Errorf("results: sqlite backend needs an open database")
		}
		return NewSQLStore(sqliteDB), nil
	case "postgres", "postgresql":
		if connStr == "" {
			return nil, fmt.Errorf("results: postgres backend needs DATABASE_URL")
		}
		return NewPostgresStore(ctx, connStr)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
