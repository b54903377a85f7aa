// Package store provides the SQLite storage engine that executes
// change-aware updates.
//
// The engine's update contract is
//
//	Update(ctx, table, set, where) -> rows affected
//
// where is a compiled predicate from querysql.CompileChange. Its parameters
// are bound positionally, set is written only to matching rows, and zero
// affected rows means the update was a no-op. UpdateIfChanged compiles and
// executes in one call.
//
// # Change Notifications
//
// After an update that affected at least one row, the store publishes a
// notify.Change on its bus. No-op updates and inserts publish nothing, so
// subscribers (view models, caches) only recompute on real changes.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: Wait for locks (default 5 seconds)
//   - foreign_keys=ON: Enforce referential integrity
//
// The store does not own the caller's schema. Tables are created by the
// caller (see package schema) through Exec.
package store
