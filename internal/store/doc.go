// Package store provides a SQLite-backed attribute store implementing the
// same lookup contract as the in-memory world, so compiled queries run
// unchanged against persisted snapshots.
//
// Tables:
//   - entities: registered entity ids
//   - attributes: (entity_id, attr) membership pairs
//   - links: (kind, from_id, to_id) labeled directed links
//
// Lookups compile requirement sets to parameterized compound SELECTs
// (INTERSECT for positive requirements, EXCEPT for negated ones). Every
// query ends with ORDER BY id ASC COLLATE BINARY so results are identical
// across runs and across SQLite versions — the same sequence the in-memory
// world produces by sorting.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: links and attributes cascade on entity removal
//
// The query.Source contract has no error channel, so Lookup and LinkTargets
// report database failures through Err: a failed lookup narrows to the empty
// set and the sticky error is available once evaluation returns.
package store
