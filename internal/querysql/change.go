package querysql

import (
	"strings"

	"github.com/roach88/quietwrite/internal/ir"
)

// CompileChange augments a base filter so that an UPDATE using the result
// matches a row only if at least one assigned column would actually change.
//
// For each assignment, in insertion order:
//   - present value v: "col != ? OR col IS NULL", binding v
//   - Null:            "col NOT NULL", binding nothing
//
// The disjuncts are joined with OR and parenthesized. A non-empty base is
// kept verbatim in its own parentheses and joined with AND:
//
//	(<base>) AND (<disjuncts>)
//
// An empty base yields just (<disjuncts>).
//
// The "OR col IS NULL" arm is required because "col != ?" evaluates to NULL,
// not true, when the stored value is NULL.
//
// Output params are the base params followed by one param per present
// value. CompileChange is a pure function; the returned slices never alias
// the inputs.
func CompileChange(base ir.Filter, set *ir.Assignments) (ir.Predicate, error) {
	if set.Len() == 0 {
		return ir.Predicate{}, newEmptyAssignmentError()
	}

	if err := CheckFilter(base.Text, len(base.Params)); err != nil {
		return ir.Predicate{}, err
	}

	disjuncts := make([]string, 0, set.Len())
	params := make([]any, 0, len(base.Params)+set.Len())
	params = append(params, base.Params...)

	err := set.Each(func(column string, v ir.Value) error {
		if ir.IsNull(v) {
			disjuncts = append(disjuncts, column+" NOT NULL")
			return nil
		}
		param, err := ir.Param(v)
		if err != nil {
			return newInvalidValueError(column, err)
		}
		disjuncts = append(disjuncts, column+" != ? OR "+column+" IS NULL")
		params = append(params, param)
		return nil
	})
	if err != nil {
		return ir.Predicate{}, err
	}

	changed := "(" + strings.Join(disjuncts, " OR ") + ")"

	var text string
	if base.Text == "" {
		text = changed
	} else {
		text = "(" + base.Text + ") AND " + changed
	}

	return ir.Predicate{Text: text, Params: params}, nil
}
