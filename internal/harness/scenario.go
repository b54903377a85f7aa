package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quietwrite/internal/ir"
)

// Scenario defines an update scenario.
// A scenario seeds a fresh database, issues change-aware updates and asserts
// on affected rows, change notifications and final state.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the path to a CUE table schema.
	// Relative paths are resolved against the scenario file's directory.
	Schema string `yaml:"schema"`

	// Seed lists rows inserted before the first step.
	Seed []SeedTable `yaml:"seed,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// FinalState validates table contents after all steps.
	FinalState []StateCheck `yaml:"final_state,omitempty"`
}

// SeedTable holds rows for one table.
type SeedTable struct {
	Table string `yaml:"table"`
	Rows  []Row  `yaml:"rows"`
}

// Step is one UpdateIfChanged call.
type Step struct {
	// Table is the update target.
	Table string `yaml:"table"`

	// Where is the base filter template ("" matches every row).
	Where string `yaml:"where,omitempty"`

	// Params are bound to Where's placeholders, in order.
	Params []any `yaml:"params,omitempty"`

	// Set is the proposed column values. YAML null means SQL NULL.
	// Key order is preserved.
	Set Row `yaml:"set"`

	// Expect validates the outcome. Nil means no validation.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect specifies the expected outcome of a step.
type StepExpect struct {
	// Rows is the expected affected-row count.
	Rows *int64 `yaml:"rows,omitempty"`

	// Notified is whether a change event is expected.
	Notified *bool `yaml:"notified,omitempty"`

	// Error is an expected compile error code (e.g. "EMPTY_ASSIGNMENT_SET").
	Error string `yaml:"error,omitempty"`
}

// StateCheck compares the rows matching a filter against expected rows.
// Expected rows are subset matches: only listed columns are compared.
type StateCheck struct {
	Table  string `yaml:"table"`
	Where  string `yaml:"where,omitempty"`
	Params []any  `yaml:"params,omitempty"`
	Expect []Row  `yaml:"expect"`
}

// Row is an ordered column -> value mapping decoded from a YAML mapping.
type Row struct {
	Pairs []ir.Pair
}

// UnmarshalYAML decodes a mapping node while keeping key order.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of column: value", node.Line)
	}

	seen := make(map[string]bool, len(node.Content)/2)
	r.Pairs = make([]ir.Pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var column string
		if err := keyNode.Decode(&column); err != nil {
			return fmt.Errorf("line %d: column name: %w", keyNode.Line, err)
		}
		if column == "" {
			return fmt.Errorf("line %d: empty column name", keyNode.Line)
		}
		if seen[column] {
			return fmt.Errorf("line %d: duplicate column %q", keyNode.Line, column)
		}
		seen[column] = true

		var raw any
		if err := valNode.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: column %q: %w", valNode.Line, column, err)
		}
		v, err := ir.ValueFromAny(raw)
		if err != nil {
			return fmt.Errorf("line %d: column %q: %w", valNode.Line, column, err)
		}
		r.Pairs = append(r.Pairs, ir.A(column, v))
	}
	return nil
}

// Assignments converts the row into an ordered assignment set.
func (r Row) Assignments() *ir.Assignments {
	return ir.NewAssignments(r.Pairs...)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The schema path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, seed := range s.Seed {
		if seed.Table == "" {
			return fmt.Errorf("seed[%d]: table is required", i)
		}
	}
	for i, step := range s.Steps {
		if step.Table == "" {
			return fmt.Errorf("steps[%d]: table is required", i)
		}
	}
	for i, check := range s.FinalState {
		if check.Table == "" {
			return fmt.Errorf("final_state[%d]: table is required", i)
		}
	}

	return nil
}
