package ir

// Pair is one column assignment used for ordered construction.
type Pair struct {
	Column string
	Value  Value
}

// A is a shorthand for Pair.
// Example: NewAssignments(A("title", NewText("x")), A("body", Null{}))
func A(column string, v Value) Pair {
	return Pair{Column: column, Value: v}
}

// Assignments is an ordered mapping from column name to proposed Value.
//
// Iteration yields columns in first-insertion order. Setting a column that
// already exists replaces its value but keeps its original position, so the
// last write wins without reordering.
//
// The zero value is an empty, usable set.
type Assignments struct {
	columns []string
	values  map[string]Value
}

// NewAssignments creates an Assignments from pairs, in order.
func NewAssignments(pairs ...Pair) *Assignments {
	a := &Assignments{
		columns: make([]string, 0, len(pairs)),
		values:  make(map[string]Value, len(pairs)),
	}
	for _, p := range pairs {
		a.Set(p.Column, p.Value)
	}
	return a
}

// Set assigns v to column and returns the receiver for chaining.
// A nil v is stored as Null.
func (a *Assignments) Set(column string, v Value) *Assignments {
	if v == nil {
		v = Null{}
	}
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[column]; !ok {
		a.columns = append(a.columns, column)
	}
	a.values[column] = v
	return a
}

// Get returns the value assigned to column.
func (a *Assignments) Get(column string) (Value, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[column]
	return v, ok
}

// Len returns the number of distinct columns.
func (a *Assignments) Len() int {
	if a == nil {
		return 0
	}
	return len(a.columns)
}

// Columns returns the column names in insertion order.
// The returned slice is a copy.
func (a *Assignments) Columns() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.columns))
	copy(out, a.columns)
	return out
}

// Pairs returns the assignments as pairs in insertion order.
func (a *Assignments) Pairs() []Pair {
	if a == nil {
		return nil
	}
	out := make([]Pair, len(a.columns))
	for i, c := range a.columns {
		out[i] = Pair{Column: c, Value: a.values[c]}
	}
	return out
}

// Each calls fn for every assignment in insertion order.
// Iteration stops at the first error, which is returned.
func (a *Assignments) Each(fn func(column string, v Value) error) error {
	if a == nil {
		return nil
	}
	for _, c := range a.columns {
		if err := fn(c, a.values[c]); err != nil {
			return err
		}
	}
	return nil
}
