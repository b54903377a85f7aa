package ir

// Filter is a caller-supplied base selection: a WHERE template with
// positional "?" placeholders and the parameters bound to them, in order.
//
// Filter is a dumb carrier. It does not validate that len(Params) matches the
// placeholders in Text; the compiler does that and reports a malformed filter.
type Filter struct {
	Text   string `json:"text"`
	Params []any  `json:"params"`
}

// NewFilter creates a Filter from a template and its parameters.
func NewFilter(text string, params ...any) Filter {
	return Filter{Text: text, Params: params}
}

// Predicate is a compiled WHERE template ready for the storage engine.
//
// The placeholder count in Text always equals len(Params).
type Predicate struct {
	Text   string `json:"text"`
	Params []any  `json:"params"`
}
