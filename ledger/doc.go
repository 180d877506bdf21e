// Package ledger provides the core types and contracts of the movie rental inventory ledger.
//
// The ledger owns two counters per catalog item, quantity (copies owned) and available
// (copies on the shelf), plus the borrow records that explain the difference between them.
// Storage engines in the sub-packages persist this state:
//   - postgresengine: PostgreSQL via pgx.Pool, sql.DB or sqlx.DB
//   - memengine: an in-memory engine for tests and local tooling
//
// Every command runs inside one transaction opened with WithinTx. Counter updates are
// compare-and-swap writes; a lost race surfaces as ErrConcurrencyConflict so that
// callers can retry with fresh state.
//
// Common usage pattern:
//
//	err := store.WithinTx(ctx, func(txCtx context.Context) error {
//		item, err := store.ItemByID(txCtx, itemID)
//		if err != nil {
//			return err
//		}
//
//		next := item.Counters()
//		next.Available--
//
//		return store.CompareAndSwapItemCounters(txCtx, itemID, item.Counters(), next)
//	})
package ledger
