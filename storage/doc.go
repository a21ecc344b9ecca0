// Package storage provides event store backends behind a URI-scheme
// factory. Supported schemes:
//
//   - mem://            volatile in-process store
//   - file:///path      one JSON file per event under a base directory
//   - sqlite://path     SQLite database (modernc.org/sqlite, no cgo)
//   - postgres://...    PostgreSQL via a pgx connection pool
//
// All backends implement interfaces.EventStore: an append-only table of
// event records plus a monotonic id counter. Ids are assigned atomically
// with the insert and never reused; records are never deleted.
package storage
