package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quietwrite/internal/ir"
)

func TestCompileUpdate_WithChangePredicate(t *testing.T) {
	set := ir.NewAssignments(
		ir.A("title", ir.Text("new")),
		ir.A("body", ir.Null{}),
		ir.A("stars", ir.Int(4)),
	)
	where, err := CompileChange(ir.NewFilter("_id = ?", int64(1)), set)
	require.NoError(t, err)

	sql, params, err := CompileUpdate("notes", set, where)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE notes SET title = ?, body = NULL, stars = ? WHERE (_id = ?) AND "+
			"(title != ? OR title IS NULL OR body NOT NULL OR stars != ? OR stars IS NULL)",
		sql)
	// SET params first, then the predicate's params
	assert.Equal(t, []any{"new", int64(4), int64(1), "new", int64(4)}, params)
	assert.Equal(t, CountPlaceholders(sql), len(params))
}

func TestCompileUpdate_NoWhere(t *testing.T) {
	sql, params, err := CompileUpdate("notes", ir.NewAssignments(ir.A("a", ir.Int(1))), ir.Predicate{})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE notes SET a = ?", sql)
	assert.Equal(t, []any{int64(1)}, params)
}

func TestCompileUpdate_Errors(t *testing.T) {
	set := ir.NewAssignments(ir.A("a", ir.Int(1)))

	_, _, err := CompileUpdate("", set, ir.Predicate{})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, _, err = CompileUpdate("notes", ir.NewAssignments(), ir.Predicate{})
	assert.ErrorIs(t, err, ErrEmptyAssignmentSet)

	_, _, err = CompileUpdate("notes", set, ir.Predicate{Text: "_id = ?"})
	assert.ErrorIs(t, err, ErrMalformedFilter)

	_, _, err = CompileUpdate("notes", ir.NewAssignments(ir.A("a", unbindable{})), ir.Predicate{})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCompileInsert(t *testing.T) {
	sql, params, err := CompileInsert("notes", ir.NewAssignments(
		ir.A("_id", ir.Int(1)),
		ir.A("title", ir.Text("hello")),
		ir.A("body", ir.Null{}),
	))
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO notes (_id, title, body) VALUES (?, ?, ?)", sql)
	assert.Equal(t, []any{int64(1), "hello", nil}, params)
}

func TestCompileInsert_Errors(t *testing.T) {
	_, _, err := CompileInsert("", ir.NewAssignments(ir.A("a", ir.Int(1))))
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, _, err = CompileInsert("notes", nil)
	assert.ErrorIs(t, err, ErrEmptyAssignmentSet)
}

func TestCompileSelect(t *testing.T) {
	testCases := []struct {
		name       string
		columns    []string
		where      ir.Filter
		wantSQL    string
		wantParams []any
	}{
		{
			name:       "all columns no filter",
			wantSQL:    "SELECT * FROM notes ORDER BY rowid ASC",
			wantParams: []any{},
		},
		{
			name:       "columns with filter",
			columns:    []string{"title", "body"},
			where:      ir.NewFilter("_id = ?", int64(3)),
			wantSQL:    "SELECT title, body FROM notes WHERE _id = ? ORDER BY rowid ASC",
			wantParams: []any{int64(3)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, params, err := CompileSelect("notes", tc.columns, tc.where)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantParams, params)

			// MANDATORY: every query has ORDER BY
			assert.Contains(t, sql, "ORDER BY")
		})
	}
}

func TestCompileSelect_MalformedFilter(t *testing.T) {
	_, _, err := CompileSelect("notes", nil, ir.NewFilter("_id = ?"))
	assert.ErrorIs(t, err, ErrMalformedFilter)
}

func TestCompileError_Message(t *testing.T) {
	err := &CompileError{Code: ErrCodeInvalidValue, Message: "bad", Column: "a"}
	assert.Equal(t, "INVALID_VALUE: bad (column=a)", err.Error())

	err = NewMalformedFilterError(2, 1)
	assert.Equal(t, "MALFORMED_FILTER: filter has 2 placeholder(s) but 1 parameter(s)", err.Error())
	assert.Equal(t, CompileErrorCode(""), ErrorCode(assert.AnError))
}
