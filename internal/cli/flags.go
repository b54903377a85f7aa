package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quietwrite/internal/ir"
)

// assignmentFlag is a repeatable flag that appends to a shared, ordered
// assignment set. --set, --text and --null all write through one
// *ir.Assignments, so the assignment order is the command-line order
// across all three flags.
type assignmentFlag struct {
	set  *ir.Assignments
	kind string // "set" | "text" | "null"
}

func (f *assignmentFlag) String() string {
	if f.set == nil {
		return ""
	}
	parts := make([]string, 0, f.set.Len())
	for _, p := range f.set.Pairs() {
		parts = append(parts, p.Column+"="+ir.Format(p.Value))
	}
	return strings.Join(parts, ",")
}

func (f *assignmentFlag) Type() string {
	if f.kind == "null" {
		return "column"
	}
	return "column=value"
}

func (f *assignmentFlag) Set(s string) error {
	if f.kind == "null" {
		if s == "" {
			return fmt.Errorf("column name is required")
		}
		f.set.Set(s, ir.Null{})
		return nil
	}

	column, literal, ok := strings.Cut(s, "=")
	if !ok || column == "" {
		return fmt.Errorf("expected column=value, got %q", s)
	}
	if f.kind == "text" {
		f.set.Set(column, ir.Text(literal))
		return nil
	}
	f.set.Set(column, ir.ParseLiteral(literal))
	return nil
}

// paramFlag appends to the shared, ordered --where parameter list.
// --param and --text-param write through one slice so binding order is
// the command-line order across both flags.
type paramFlag struct {
	values *[]ir.Value
	text   bool
}

func (f *paramFlag) String() string {
	if f.values == nil {
		return ""
	}
	parts := make([]string, len(*f.values))
	for i, v := range *f.values {
		parts[i] = ir.Format(v)
	}
	return strings.Join(parts, ",")
}

func (f *paramFlag) Type() string {
	return "value"
}

func (f *paramFlag) Set(s string) error {
	if f.text {
		*f.values = append(*f.values, ir.Text(s))
		return nil
	}
	*f.values = append(*f.values, ir.ParseLiteral(s))
	return nil
}

// filterFlags holds the base filter and proposed assignments shared by
// compile and update.
type filterFlags struct {
	Where  string
	Params []ir.Value
	Set    *ir.Assignments
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	ff.Set = ir.NewAssignments()

	cmd.Flags().StringVar(&ff.Where, "where", "", "base filter with ? placeholders (empty matches every row)")
	cmd.Flags().Var(&paramFlag{values: &ff.Params}, "param", "value bound to the next ? in --where; parsed as int, float, else text (repeatable)")
	cmd.Flags().Var(&paramFlag{values: &ff.Params, text: true}, "text-param", "value bound to the next ? in --where, always text (repeatable)")
	cmd.Flags().Var(&assignmentFlag{set: ff.Set, kind: "set"}, "set", "assign column=value; value parsed as int, float, else text (repeatable)")
	cmd.Flags().Var(&assignmentFlag{set: ff.Set, kind: "text"}, "text", "assign column=value, value always text (repeatable)")
	cmd.Flags().Var(&assignmentFlag{set: ff.Set, kind: "null"}, "null", "assign NULL to column (repeatable)")
}

// filter builds the base filter from --param and --text-param values.
func (ff *filterFlags) filter() (ir.Filter, error) {
	params := make([]any, len(ff.Params))
	for i, v := range ff.Params {
		p, err := ir.Param(v)
		if err != nil {
			return ir.Filter{}, fmt.Errorf("--param %d: %w", i+1, err)
		}
		params[i] = p
	}
	return ir.NewFilter(ff.Where, params...), nil
}
