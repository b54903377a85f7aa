package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/quietwrite/internal/ir"
	"github.com/roach88/quietwrite/internal/querysql"
)

// Update writes set to the rows of table matching where and returns the
// number of rows affected.
//
// where.Params are bound positionally into where.Text. Zero affected rows is
// the no-op signal: nothing is published. When at least one row changed, a
// notify.Change is published on the store's bus.
//
// Driver errors (constraint violations, missing tables) are wrapped with %w
// and otherwise passed through.
func (s *Store) Update(ctx context.Context, table string, set *ir.Assignments, where ir.Predicate) (int64, error) {
	query, args, err := querysql.CompileUpdate(table, set, where)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s: rows affected: %w", table, err)
	}

	if rows == 0 {
		s.logger.Debug("update matched no rows",
			slog.String("table", table),
			slog.String("where", where.Text))
		return 0, nil
	}

	ev, err := s.bus.Publish(table, rows, set.Columns())
	if err != nil {
		// The write is committed; a closed bus only loses the notification.
		s.logger.Warn("change not published",
			slog.String("table", table),
			slog.Int64("rows", rows),
			slog.Any("error", err))
		return rows, nil
	}

	s.logger.Info("update applied",
		slog.String("table", table),
		slog.Int64("rows", rows),
		slog.String("change_id", ev.ID),
		slog.Int64("seq", ev.Seq))

	return rows, nil
}

// UpdateIfChanged compiles base and set into a change-aware predicate and
// runs Update with it. Rows whose stored values already equal set are not
// touched, so an update that changes nothing returns 0 and publishes nothing.
//
// Compile errors (querysql.ErrEmptyAssignmentSet, querysql.ErrMalformedFilter)
// are returned unchanged; engine errors pass through Update.
func (s *Store) UpdateIfChanged(ctx context.Context, table string, base ir.Filter, set *ir.Assignments) (int64, error) {
	where, err := querysql.CompileChange(base, set)
	if err != nil {
		return 0, err
	}
	return s.Update(ctx, table, set, where)
}

// Insert writes one row. Null values are stored as SQL NULL.
// Inserts are seeding operations and publish nothing.
func (s *Store) Insert(ctx context.Context, table string, row *ir.Assignments) error {
	query, args, err := querysql.CompileInsert(table, row)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
