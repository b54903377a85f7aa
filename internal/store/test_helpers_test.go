package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/quietwrite/internal/ir"
	"github.com/roach88/quietwrite/internal/notify"
)

const notesDDL = `CREATE TABLE notes (
	_id   INTEGER PRIMARY KEY,
	title TEXT,
	body  TEXT,
	stars INTEGER,
	score REAL
)`

// createTestStore creates a file-backed store in a temp dir with a notes table.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.Exec(context.Background(), notesDDL)
	require.NoError(t, err)
	return s
}

// seedNote inserts one note row.
func seedNote(t *testing.T, s *Store, id int64, title, body ir.Value, stars ir.Value) {
	t.Helper()
	err := s.Insert(context.Background(), "notes", ir.NewAssignments(
		ir.A("_id", ir.Int(id)),
		ir.A("title", title),
		ir.A("body", body),
		ir.A("stars", stars),
	))
	require.NoError(t, err)
}

// fixedBus returns a bus with deterministic IDs.
func fixedBus(t *testing.T) *notify.Bus {
	t.Helper()
	b := notify.NewBus(notify.WithIDGenerator(notify.NewFixedGenerator("change")))
	t.Cleanup(b.Close)
	return b
}
