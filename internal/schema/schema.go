// Package schema compiles CUE table definitions into SQLite DDL.
//
// The harness and CLI use it to create the tables a scenario updates. The
// input shape is:
//
//	table: notes: {
//	    key: "_id"          // optional, default "_id"
//	    columns: {
//	        title: "TEXT"
//	        stars: "INTEGER"
//	    }
//	}
//
// Tables and columns keep their declaration order. The key column is always
// "<key> INTEGER PRIMARY KEY" and must not be repeated under columns.
package schema

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// DefaultKey is the primary key column used when a table omits key.
const DefaultKey = "_id"

// ColumnTypes lists the accepted column types (SQLite storage classes and
// NUMERIC affinity).
var ColumnTypes = []string{"TEXT", "INTEGER", "REAL", "BLOB", "NUMERIC"}

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table is one compiled table definition.
type Table struct {
	Name    string
	Key     string
	Columns []Column
}

// Column is one non-key column.
type Column struct {
	Name string
	Type string
}

// DDL renders an idempotent CREATE TABLE statement.
func (t Table) DDL() string {
	parts := make([]string, 0, len(t.Columns)+1)
	parts = append(parts, t.Key+" INTEGER PRIMARY KEY")
	for _, c := range t.Columns {
		parts = append(parts, c.Name+" "+c.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(parts, ", "))
}

// Load reads and compiles a CUE schema file.
func Load(path string) ([]Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Compile(data, path)
}

// Compile evaluates CUE source and returns its tables in declaration order.
// filename is used for error positions only.
func Compile(source []byte, filename string) ([]Table, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(source, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tablesVal := v.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return nil, &CompileError{Field: "table", Message: "at least one table is required", Pos: v.Pos()}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var tables []Table
	for iter.Next() {
		t, err := compileTable(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	if len(tables) == 0 {
		return nil, &CompileError{Field: "table", Message: "at least one table is required", Pos: tablesVal.Pos()}
	}

	return tables, nil
}

func compileTable(name string, v cue.Value) (Table, error) {
	if !identifierRE.MatchString(name) {
		return Table{}, &CompileError{Field: "table", Message: fmt.Sprintf("invalid table name %q", name), Pos: v.Pos()}
	}

	t := Table{Name: name, Key: DefaultKey}

	keyVal := v.LookupPath(cue.ParsePath("key"))
	if keyVal.Exists() {
		key, err := keyVal.String()
		if err != nil {
			return Table{}, formatCUEError(err)
		}
		if !identifierRE.MatchString(key) {
			return Table{}, &CompileError{Field: name + ".key", Message: fmt.Sprintf("invalid key column %q", key), Pos: keyVal.Pos()}
		}
		t.Key = key
	}

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return Table{}, &CompileError{Field: name + ".columns", Message: "columns are required", Pos: v.Pos()}
	}

	iter, err := colsVal.Fields()
	if err != nil {
		return Table{}, formatCUEError(err)
	}

	for iter.Next() {
		col := iter.Label()
		field := name + ".columns." + col
		if !identifierRE.MatchString(col) {
			return Table{}, &CompileError{Field: field, Message: fmt.Sprintf("invalid column name %q", col), Pos: iter.Value().Pos()}
		}
		if col == t.Key {
			return Table{}, &CompileError{Field: field, Message: "key column must not be listed under columns", Pos: iter.Value().Pos()}
		}

		typ, err := iter.Value().String()
		if err != nil {
			return Table{}, formatCUEError(err)
		}
		typ = strings.ToUpper(typ)
		if !isColumnType(typ) {
			return Table{}, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("unsupported column type %q (want one of %s)", typ, strings.Join(ColumnTypes, ", ")),
				Pos:     iter.Value().Pos(),
			}
		}

		t.Columns = append(t.Columns, Column{Name: col, Type: typ})
	}

	if len(t.Columns) == 0 {
		return Table{}, &CompileError{Field: name + ".columns", Message: "at least one column is required", Pos: colsVal.Pos()}
	}

	return t, nil
}

func isColumnType(typ string) bool {
	for _, ct := range ColumnTypes {
		if ct == typ {
			return true
		}
	}
	return false
}

// CompileError represents a schema error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
