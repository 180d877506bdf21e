// Package adapters provide database adapter implementations for the PostgreSQL ledger store.
//
// Three PostgreSQL libraries are supported: pgx.Pool, sql.DB, and sqlx.DB. All adapters
// offer the same DBAdapter interface, including transactions, so the store works with
// any supported connection type.
package adapters
