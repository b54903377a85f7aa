package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/quietwrite/internal/ir"
	"github.com/roach88/quietwrite/internal/notify"
	"github.com/roach88/quietwrite/internal/querysql"
	"github.com/roach88/quietwrite/internal/schema"
	"github.com/roach88/quietwrite/internal/store"
)

// Harness runs one scenario against an isolated store.
type Harness struct {
	store  *store.Store
	sub    *notify.Subscription
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a fixed change ID
// generator, so traces are identical across runs.
//
// Execution flow:
//  1. Open an in-memory store and create the schema's tables
//  2. Insert seed rows
//  3. Run each step through Store.UpdateIfChanged and check its expect clause
//  4. Compare final_state checks against table contents
//
// Setup failures (bad schema, seed constraint violations) are returned as
// errors. Expectation mismatches are recorded on the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	tables, err := schema.Load(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	bus := notify.NewBus(notify.WithIDGenerator(notify.NewFixedGenerator("change")))
	defer bus.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	st, err := store.Open(":memory:", store.WithBus(bus), store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := schema.Apply(ctx, st, tables); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	sub, err := st.Subscribe("")
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Close()

	h := &Harness{store: st, sub: sub, logger: logger}

	if err := h.executeSeed(ctx, scenario.Seed); err != nil {
		return nil, fmt.Errorf("failed to execute seed: %w", err)
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	for _, msg := range h.checkFinalState(ctx, scenario.FinalState) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) executeSeed(ctx context.Context, seed []SeedTable) error {
	for _, st := range seed {
		for i, row := range st.Rows {
			if err := h.store.Insert(ctx, st.Table, row.Assignments()); err != nil {
				return fmt.Errorf("seed %s[%d]: %w", st.Table, i, err)
			}
		}
	}
	return nil
}

// executeSteps runs every step and validates its expect clause.
// Compile errors are recorded in the trace rather than aborting the run, so
// scenarios can assert on them. Engine errors abort.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		params, err := bindParams(step.Params)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		base := ir.NewFilter(step.Where, params...)
		set := step.Set.Assignments()
		ev := TraceEvent{Step: i, Table: step.Table}

		pred, compileErr := querysql.CompileChange(base, set)
		if compileErr == nil {
			ev.Predicate = pred.Text
			ev.Params = pred.Params

			rows, err := h.store.Update(ctx, step.Table, set, pred)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			ev.Rows = rows
		} else {
			code := querysql.ErrorCode(compileErr)
			if code == "" {
				return fmt.Errorf("step %d: %w", i, compileErr)
			}
			ev.Error = string(code)
		}

		ev.Changes = h.sub.Drain()
		result.AddTrace(ev)

		for _, msg := range checkStep(i, step.Expect, ev) {
			result.AddError(msg)
		}

		h.logger.Info("step completed",
			"step", i,
			"table", step.Table,
			"rows", ev.Rows,
			"changes", len(ev.Changes),
		)
	}
	return nil
}

// bindParams converts YAML scalars into driver parameter values.
// YAML null binds as SQL NULL.
func bindParams(raw []any) ([]any, error) {
	params := make([]any, len(raw))
	for i, r := range raw {
		v, err := ir.ValueFromAny(r)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		if ir.IsNull(v) {
			params[i] = nil
			continue
		}
		p, err := ir.Param(v)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		params[i] = p
	}
	return params, nil
}
