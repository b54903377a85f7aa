// Package ir provides the value types shared by the change-detection compiler,
// the storage engine and the CLI.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Types:
//   - Value: a proposed column value, either Present (Text, Int, Real) or Null
//   - Assignments: an ordered column -> Value mapping (insertion order is kept)
//   - Filter: an opaque base WHERE template plus its positional parameters
//   - Predicate: the compiled WHERE template handed to the storage engine
//
// Key design constraints:
//   - Null is an explicit variant, never a Go nil
//   - Assignments iterate in insertion order; the compiler depends on it
//   - Filter and Predicate text is never parsed or rewritten by this package
package ir
