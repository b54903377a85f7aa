// Package notify carries change events from the storage engine to
// subscribers (UI view models, caches, tests).
//
// The Bus is constructed by the caller and passed down; there is no
// process-wide observer. The store publishes only after an UPDATE affected
// at least one row, so a change-aware update that turned out to be a no-op
// produces no event.
//
// Publishing never blocks: each Subscription owns a buffered channel and
// events that do not fit are dropped and counted.
//
// Events are stamped with a monotonic sequence number from Clock and an ID
// from an IDGenerator (UUIDv7 in production, FixedGenerator in tests).
package notify
