// Package postgresengine provides a PostgreSQL implementation of the ledger store.
//
// The store keeps items, borrowers, borrow records and the journal in four tables and
// builds every statement with goqu. It supports three database connection types:
//   - pgx.Pool (recommended, optionally with a read replica)
//   - sql.DB (standard library, with lib/pq)
//   - sqlx.DB (sqlx extensions)
//
// Transactions are carried in the context: WithinTx opens one and passes a derived context
// to the callback; every store method called with that context runs on the transaction.
// Counter and status updates are compare-and-swap statements that return
// ledger.ErrConcurrencyConflict when another transaction changed the row first.
//
// Example usage:
//
//	store, err := postgresengine.NewStoreFromPGXPool(pool,
//		postgresengine.WithLogger(slog.Default()),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	if err := store.Migrate(ctx); err != nil {
//		// handle error
//	}
package postgresengine
