// Package sqlite is the SQLite run ledger: one row per reduction run with
// the method, parameters and before/after metrics, so repeated batches over
// the same dataset can be compared later.
//
// The schema is managed by golang-migrate from embedded migrations.
package sqlite
