// Package memengine provides an in-memory implementation of the ledger store.
//
// It offers the same method set as postgresengine.Store, including transactions with
// rollback and compare-and-swap semantics, so command and query handlers can be tested
// without a database. Faults can be injected per operation to exercise failure paths.
package memengine
