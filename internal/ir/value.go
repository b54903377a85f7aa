package ir

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a sealed interface representing a proposed column value.
// Only Null, Text, Int and Real implement it.
//
// Null is the "no value" branch; the other three are Present values that
// serialize to a bound SQL parameter via Param.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a proposed SQL NULL.
type Null struct{}

func (Null) value() {}

// String implements fmt.Stringer.
func (Null) String() string { return "NULL" }

// Text represents a present text value.
type Text string

func (Text) value() {}

// Int represents a present integer value.
type Int int64

func (Int) value() {}

// Real represents a present floating point value.
type Real float64

func (Real) value() {}

// NewText creates a Text value.
func NewText(s string) Text {
	return Text(s)
}

// NewInt creates an Int value.
func NewInt(n int64) Int {
	return Int(n)
}

// NewReal creates a Real value.
func NewReal(f float64) Real {
	return Real(f)
}

// IsNull reports whether v is the Null variant.
// A nil interface is treated as Null so callers never bind a Go nil.
func IsNull(v Value) bool {
	switch v.(type) {
	case nil, Null, *Null:
		return true
	default:
		return false
	}
}

// Param converts a present Value to the Go driver value bound for its
// placeholder. Null has no parameter form and returns an error.
func Param(v Value) (any, error) {
	switch val := v.(type) {
	case Text:
		return string(val), nil
	case Int:
		return int64(val), nil
	case Real:
		if math.IsNaN(float64(val)) {
			return nil, fmt.Errorf("NaN cannot be bound as a SQL parameter")
		}
		return float64(val), nil
	case nil, Null, *Null:
		return nil, fmt.Errorf("null value has no parameter form")
	default:
		return nil, fmt.Errorf("unsupported Value type for SQL parameter: %T", v)
	}
}

// Equal reports whether two values are the same variant with the same literal.
// Null equals Null here; SQL comparison semantics are the compiler's concern.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch x := a.(type) {
	case Text:
		y, ok := b.(Text)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Real:
		y, ok := b.(Real)
		return ok && x == y
	default:
		return false
	}
}

// Format renders a value for human-readable output (CLI text mode, traces).
func Format(v Value) string {
	switch val := v.(type) {
	case Text:
		return strconv.Quote(string(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Real:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case nil, Null, *Null:
		return "NULL"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ValueFromAny converts a decoded scalar (YAML, JSON or database row) into a
// Value. nil becomes Null; bools become Int 0/1 as SQLite stores them.
func ValueFromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return Text(val), nil
	case []byte:
		return Text(string(val)), nil
	case int:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(int64(val)), nil
	case float32:
		return Real(float64(val)), nil
	case float64:
		return Real(val), nil
	case bool:
		if val {
			return Int(1), nil
		}
		return Int(0), nil
	default:
		return nil, fmt.Errorf("unsupported scalar type: %T", v)
	}
}

// ParseLiteral parses a command-line literal: integers first, then floats,
// otherwise the raw text.
func ParseLiteral(s string) Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Real(f)
	}
	return Text(s)
}
