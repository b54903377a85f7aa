// Package harness runs YAML update scenarios against an isolated store.
//
// # Scenario Format
//
//	name: note_edits
//	description: "What this scenario validates"
//	schema: schema.cue          # relative to the scenario file
//	seed:
//	  - table: notes
//	    rows:
//	      - {_id: 1, title: hello, body: null}
//	steps:
//	  - table: notes
//	    where: "_id = ?"
//	    params: [1]
//	    set: {title: hello}     # key order is the assignment order
//	    expect: {rows: 0, notified: false}
//	  - table: notes
//	    set: {}
//	    expect: {error: EMPTY_ASSIGNMENT_SET}
//	final_state:
//	  - table: notes
//	    where: "_id = ?"
//	    params: [1]
//	    expect:
//	      - {title: hello}
//
// YAML null is SQL NULL everywhere: in seed rows, set values and params.
// Unknown fields are rejected.
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory SQLite database and a fixed change ID
// generator ("change-1", "change-2", ...), so the trace of a scenario is
// byte-identical across runs and can be compared against a golden file
// with RunWithGolden.
package harness
