// Package trace provides SQLite-backed recording of resolution passes.
//
// The engine itself is pure and performs no I/O; it emits events to an
// optional Recorder owned by the caller. This package supplies a Recorder
// that appends events to an append-only SQLite log, one row per event,
// grouped by a UUIDv7 pass token and ordered by a monotonic seq.
//
// Reads always order by seq ASC so a recorded pass replays in exactly the
// order it happened. The replay check re-resolves the same inputs and
// compares canonical encodings byte-for-byte, pinning down the engine's
// idempotence guarantee.
package trace
