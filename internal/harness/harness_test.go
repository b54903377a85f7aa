package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quietwrite/internal/notify"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)

			require.NoError(t, AssertGolden(t, scenario.Name, result))
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/note_edits.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := MarshalTrace(scenario.Name, first)
	require.NoError(t, err)
	b, err := MarshalTrace(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_Trace(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/note_edits.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Trace, 5)

	changed := result.Trace[2]
	assert.Equal(t, "(stars = ?) AND (title != ? OR title IS NULL OR body NOT NULL)", changed.Predicate)
	assert.Equal(t, []any{int64(3), "final"}, changed.Params)
	assert.Equal(t, int64(2), changed.Rows)
	assert.Equal(t, []notify.Change{{
		ID:      "change-1",
		Seq:     1,
		Table:   "notes",
		Rows:    2,
		Columns: []string{"title", "body"},
	}}, changed.Changes)

	assert.Equal(t, "EMPTY_ASSIGNMENT_SET", result.Trace[3].Error)
	assert.Empty(t, result.Trace[3].Predicate)
}

// writeScenario writes a scenario next to a copy of the test schema.
func writeScenario(t *testing.T, body string) *Scenario {
	t.Helper()
	dir := t.TempDir()

	cue, err := os.ReadFile("testdata/scenarios/schema.cue")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.cue"), cue, 0644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	return s
}

func TestRun_ExpectationMismatch(t *testing.T) {
	s := writeScenario(t, `
name: mismatch
description: "every expectation is wrong"
schema: schema.cue
seed:
  - table: notes
    rows:
      - {_id: 1, title: same}
steps:
  - table: notes
    where: "_id = ?"
    params: [1]
    set: {title: same}
    expect: {rows: 1, notified: true}
  - table: notes
    set: {title: other}
    expect: {error: MALFORMED_FILTER}
final_state:
  - table: notes
    expect:
      - {title: same}
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	joined := strings.Join(result.Errors, "\n")
	assert.Contains(t, joined, "step 0: expected 1 affected row(s), got 0")
	assert.Contains(t, joined, "step 0: expected notified=true, got false")
	assert.Contains(t, joined, "step 1: expected error MALFORMED_FILTER, got none")
	assert.Contains(t, joined, `final_state[0]: notes row 0 column title: expected "same", got "other"`)
}

func TestRun_UnexpectedCompileError(t *testing.T) {
	s := writeScenario(t, `
name: unexpected
description: "compile error without expect.error"
schema: schema.cue
steps:
  - table: notes
    set: {}
    expect: {rows: 0}
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "step 0: unexpected error EMPTY_ASSIGNMENT_SET")
}

func TestRun_FinalStateRowCount(t *testing.T) {
	s := writeScenario(t, `
name: rowcount
description: "final_state row count mismatch"
schema: schema.cue
seed:
  - table: notes
    rows:
      - {_id: 1, title: a}
      - {_id: 2, title: b}
steps:
  - table: notes
    set: {title: a}
final_state:
  - table: notes
    expect:
      - {title: a}
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "final_state[0]: expected 1 row(s) in notes, got 2")
}

func TestRun_SetupErrors(t *testing.T) {
	t.Run("missing schema file", func(t *testing.T) {
		s := &Scenario{
			Name:   "x",
			Schema: filepath.Join(t.TempDir(), "missing.cue"),
			Steps:  []Step{{Table: "notes"}},
		}
		_, err := Run(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load schema")
	})

	t.Run("seed constraint violation", func(t *testing.T) {
		s := writeScenario(t, `
name: dup
description: "duplicate primary key"
schema: schema.cue
seed:
  - table: notes
    rows:
      - {_id: 1}
      - {_id: 1}
steps:
  - table: notes
    set: {title: a}
`)
		_, err := Run(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute seed")
	})

	t.Run("unknown column aborts", func(t *testing.T) {
		s := writeScenario(t, `
name: badcol
description: "engine error"
schema: schema.cue
steps:
  - table: notes
    set: {nope: 1}
`)
		_, err := Run(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 0")
	})
}

func TestBindParams(t *testing.T) {
	params, err := bindParams([]any{1, "a", 0.5, nil, true})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "a", 0.5, nil, int64(1)}, params)

	_, err = bindParams([]any{[]int{1}})
	assert.Error(t, err)
}
