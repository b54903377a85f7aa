package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/quietwrite/internal/ir"
)

// CompileUpdate builds a parameterized UPDATE statement.
//
//	UPDATE <table> SET c1 = ?, c2 = NULL WHERE <where.Text>
//
// SET parameters come first (one per present value, in assignment order),
// followed by where.Params. Null assignments are written as the NULL keyword
// and bind nothing. An empty where.Text omits the WHERE clause.
//
// CRITICAL: values are never interpolated - always "?" placeholders.
func CompileUpdate(table string, set *ir.Assignments, where ir.Predicate) (string, []any, error) {
	if table == "" {
		return "", nil, &CompileError{Code: ErrCodeInvalidTarget, Message: "table name is required"}
	}
	if set.Len() == 0 {
		return "", nil, newEmptyAssignmentError()
	}
	if err := CheckFilter(where.Text, len(where.Params)); err != nil {
		return "", nil, err
	}

	setClause, params, err := compileSet(set)
	if err != nil {
		return "", nil, err
	}
	params = append(params, where.Params...)

	sql := fmt.Sprintf("UPDATE %s SET %s", table, setClause)
	if where.Text != "" {
		sql += " WHERE " + where.Text
	}

	return sql, params, nil
}

// compileSet converts assignments into "col = ?" / "col = NULL" pairs.
func compileSet(set *ir.Assignments) (string, []any, error) {
	parts := make([]string, 0, set.Len())
	var params []any

	err := set.Each(func(column string, v ir.Value) error {
		if ir.IsNull(v) {
			parts = append(parts, column+" = NULL")
			return nil
		}
		param, err := ir.Param(v)
		if err != nil {
			return newInvalidValueError(column, err)
		}
		parts = append(parts, column+" = ?")
		params = append(params, param)
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return strings.Join(parts, ", "), params, nil
}

// CompileInsert builds a parameterized INSERT statement for one row.
// Null values are bound as SQL NULL.
func CompileInsert(table string, row *ir.Assignments) (string, []any, error) {
	if table == "" {
		return "", nil, &CompileError{Code: ErrCodeInvalidTarget, Message: "table name is required"}
	}
	if row.Len() == 0 {
		return "", nil, newEmptyAssignmentError()
	}

	columns := row.Columns()
	placeholders := make([]string, len(columns))
	params := make([]any, len(columns))

	for i, p := range row.Pairs() {
		placeholders[i] = "?"
		if ir.IsNull(p.Value) {
			params[i] = nil
			continue
		}
		param, err := ir.Param(p.Value)
		if err != nil {
			return "", nil, newInvalidValueError(p.Column, err)
		}
		params[i] = param
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "))

	return sql, params, nil
}

// CompileSelect builds a SELECT over one table with an optional filter.
//
// MANDATORY: every query includes ORDER BY for deterministic results.
func CompileSelect(table string, columns []string, where ir.Filter) (string, []any, error) {
	if table == "" {
		return "", nil, &CompileError{Code: ErrCodeInvalidTarget, Message: "table name is required"}
	}
	if err := CheckFilter(where.Text, len(where.Params)); err != nil {
		return "", nil, err
	}

	selectClause := "*"
	if len(columns) > 0 {
		selectClause = strings.Join(columns, ", ")
	}

	sql := fmt.Sprintf("SELECT %s FROM %s", selectClause, table)
	if where.Text != "" {
		sql += " WHERE " + where.Text
	}
	sql += " ORDER BY " + stableOrderKey()

	params := make([]any, len(where.Params))
	copy(params, where.Params)

	return sql, params, nil
}

// stableOrderKey returns the ORDER BY key used for every SELECT.
// rowid exists on every ordinary SQLite table.
func stableOrderKey() string {
	return "rowid ASC"
}
