package harness

import "github.com/roach88/quietwrite/internal/notify"

// TraceEvent records one executed step.
type TraceEvent struct {
	Step  int    `json:"step"`
	Table string `json:"table"`

	// Predicate is the compiled change-aware WHERE text and its params.
	// Empty when compilation failed.
	Predicate string `json:"predicate,omitempty"`
	Params    []any  `json:"params,omitempty"`

	// Rows is the affected-row count reported by the engine.
	Rows int64 `json:"rows"`

	// Changes are the events observed on the bus after the step.
	Changes []notify.Change `json:"changes,omitempty"`

	// Error is the compile error code, if the step failed to compile.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses match.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
