package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quietwrite/internal/ir"
)

const minimalScenario = `
name: minimal
description: "one step"
schema: schema.cue
steps:
  - table: notes
    where: "_id = ?"
    params: [1]
    set: {title: hello, body: null, stars: 2}
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Steps, 1)

	step := s.Steps[0]
	assert.Equal(t, "_id = ?", step.Where)
	assert.Equal(t, []any{1}, step.Params)
	assert.Nil(t, step.Expect)
	assert.Equal(t, []ir.Pair{
		{Column: "title", Value: ir.Text("hello")},
		{Column: "body", Value: ir.Null{}},
		{Column: "stars", Value: ir.Int(2)},
	}, step.Set.Pairs)
}

func TestParseScenario_SetKeepsDeclarationOrder(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: order
description: "order"
schema: schema.cue
steps:
  - table: notes
    set:
      zeta: 1
      alpha: 2
      mid: 3
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, s.Steps[0].Set.Assignments().Columns())
}

func TestParseScenario_Expect(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: expect
description: "expect"
schema: schema.cue
steps:
  - table: notes
    set: {title: x}
    expect: {rows: 0, notified: false}
  - table: notes
    set: {}
    expect: {error: EMPTY_ASSIGNMENT_SET}
`))
	require.NoError(t, err)

	first := s.Steps[0].Expect
	require.NotNil(t, first)
	require.NotNil(t, first.Rows)
	require.NotNil(t, first.Notified)
	assert.Equal(t, int64(0), *first.Rows)
	assert.False(t, *first.Notified)

	second := s.Steps[1].Expect
	require.NotNil(t, second)
	assert.Nil(t, second.Rows)
	assert.Equal(t, "EMPTY_ASSIGNMENT_SET", second.Error)
	assert.Empty(t, s.Steps[1].Set.Pairs)
}

func TestParseScenario_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: d\nschema: s.cue\nstepz: []\n",
			wantMsg: "field stepz not found",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nschema: s.cue\nsteps:\n  - {table: notes, set: {a: 1}}\n",
			wantMsg: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nschema: s.cue\nsteps:\n  - {table: notes, set: {a: 1}}\n",
			wantMsg: "description is required",
		},
		{
			name:    "missing schema",
			yaml:    "name: x\ndescription: d\nsteps:\n  - {table: notes, set: {a: 1}}\n",
			wantMsg: "schema is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: d\nschema: s.cue\n",
			wantMsg: "steps list is required",
		},
		{
			name:    "step without table",
			yaml:    "name: x\ndescription: d\nschema: s.cue\nsteps:\n  - {set: {a: 1}}\n",
			wantMsg: "steps[0]: table is required",
		},
		{
			name:    "set is not a mapping",
			yaml:    "name: x\ndescription: d\nschema: s.cue\nsteps:\n  - {table: notes, set: [a, b]}\n",
			wantMsg: "expected a mapping",
		},
		{
			name:    "duplicate column",
			yaml:    "name: x\ndescription: d\nschema: s.cue\nsteps:\n  - table: notes\n    set:\n      a: 1\n      a: 2\n",
			wantMsg: "a",
		},
		{
			name:    "seed without table",
			yaml:    "name: x\ndescription: d\nschema: s.cue\nseed:\n  - rows: []\nsteps:\n  - {table: notes, set: {a: 1}}\n",
			wantMsg: "seed[0]: table is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestLoadScenario_ResolvesSchemaPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "schema.cue"), s.Schema)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
