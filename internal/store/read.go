package store

import (
	"context"
	"fmt"

	"github.com/roach88/quietwrite/internal/ir"
	"github.com/roach88/quietwrite/internal/querysql"
)

// QueryRows returns the rows of table matching where, each as an ordered
// column assignment set in result-column order.
// Results are ordered deterministically by rowid.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) QueryRows(ctx context.Context, table string, where ir.Filter, columns ...string) ([]*ir.Assignments, error) {
	query, args, err := querysql.CompileSelect(table, columns, where)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query %s: columns: %w", table, err)
	}

	out := []*ir.Assignments{}
	for rows.Next() {
		raw := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		row := ir.NewAssignments()
		for i, name := range names {
			v, err := ir.ValueFromAny(raw[i])
			if err != nil {
				return nil, fmt.Errorf("scan %s.%s: %w", table, name, err)
			}
			row.Set(name, v)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return out, nil
}

// Count returns how many rows of table match where.
func (s *Store) Count(ctx context.Context, table string, where ir.Filter) (int64, error) {
	if err := querysql.CheckFilter(where.Text, len(where.Params)); err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM " + table
	if where.Text != "" {
		query += " WHERE " + where.Text
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, where.Params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
