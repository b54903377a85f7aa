package harness

import (
	"context"
	"fmt"

	"github.com/roach88/quietwrite/internal/ir"
)

// checkStep compares a step's trace event against its expect clause.
func checkStep(i int, expect *StepExpect, ev TraceEvent) []string {
	if expect == nil {
		return nil
	}

	var errs []string

	if expect.Error != ev.Error {
		switch {
		case ev.Error == "":
			errs = append(errs, fmt.Sprintf("step %d: expected error %s, got none", i, expect.Error))
		case expect.Error == "":
			errs = append(errs, fmt.Sprintf("step %d: unexpected error %s", i, ev.Error))
		default:
			errs = append(errs, fmt.Sprintf("step %d: expected error %s, got %s", i, expect.Error, ev.Error))
		}
	}

	if expect.Rows != nil && *expect.Rows != ev.Rows {
		errs = append(errs, fmt.Sprintf("step %d: expected %d affected row(s), got %d", i, *expect.Rows, ev.Rows))
	}

	if expect.Notified != nil {
		notified := len(ev.Changes) > 0
		if *expect.Notified != notified {
			errs = append(errs, fmt.Sprintf("step %d: expected notified=%t, got %t (%d change event(s))",
				i, *expect.Notified, notified, len(ev.Changes)))
		}
	}

	return errs
}

// checkFinalState queries each check's rows and compares them positionally
// with the expected rows. Only columns listed in an expected row are read.
func (h *Harness) checkFinalState(ctx context.Context, checks []StateCheck) []string {
	var errs []string

	for i, check := range checks {
		params, err := bindParams(check.Params)
		if err != nil {
			errs = append(errs, fmt.Sprintf("final_state[%d]: %v", i, err))
			continue
		}

		got, err := h.store.QueryRows(ctx, check.Table, ir.NewFilter(check.Where, params...), expectedColumns(check.Expect)...)
		if err != nil {
			errs = append(errs, fmt.Sprintf("final_state[%d]: query %s: %v", i, check.Table, err))
			continue
		}

		if len(got) != len(check.Expect) {
			errs = append(errs, fmt.Sprintf("final_state[%d]: expected %d row(s) in %s, got %d",
				i, len(check.Expect), check.Table, len(got)))
			continue
		}

		for r, want := range check.Expect {
			for _, p := range want.Pairs {
				actual, _ := got[r].Get(p.Column)
				if !ir.Equal(p.Value, actual) {
					errs = append(errs, fmt.Sprintf("final_state[%d]: %s row %d column %s: expected %s, got %s",
						i, check.Table, r, p.Column, ir.Format(p.Value), ir.Format(actual)))
				}
			}
		}
	}

	return errs
}

// expectedColumns returns the union of columns named by the expected rows,
// in first-seen order. With no expected rows it returns nil, which selects
// every column.
func expectedColumns(rows []Row) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for _, p := range r.Pairs {
			if !seen[p.Column] {
				seen[p.Column] = true
				cols = append(cols, p.Column)
			}
		}
	}
	return cols
}
