package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer runs DDL. *store.Store satisfies it.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply creates every table that does not exist yet, in order.
func Apply(ctx context.Context, db Execer, tables []Table) error {
	for _, t := range tables {
		if _, err := db.Exec(ctx, t.DDL()); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}
