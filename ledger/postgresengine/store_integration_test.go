package postgresengine_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine"
)

const testDSNEnv = "RENTAL_TEST_DSN"

var errTestRollback = errors.New("rollback please")

// storeFactories builds one store per supported connection type.
func storeFactories(t *testing.T, dsn string) map[string]postgresengine.Store {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	pgxStore, err := postgresengine.NewStoreFromPGXPool(pool)
	require.NoError(t, err)

	sqlStore, err := postgresengine.NewStoreFromSQLDB(sqlDB)
	require.NoError(t, err)

	sqlxStore, err := postgresengine.NewStoreFromSQLX(sqlxDB)
	require.NoError(t, err)

	return map[string]postgresengine.Store{
		"pgx.pool": pgxStore,
		"sql.db":   sqlStore,
		"sqlx.db":  sqlxStore,
	}
}

func givenIntegrationStores(t *testing.T) map[string]postgresengine.Store {
	t.Helper()

	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", testDSNEnv)
	}

	return storeFactories(t, dsn)
}

func givenCleanSchema(ctx context.Context, t *testing.T, store postgresengine.Store) {
	t.Helper()

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Truncate(ctx))
}

func givenItem(ctx context.Context, t *testing.T, store postgresengine.Store, quantity int) ledger.Item {
	t.Helper()

	item := ledger.Item{
		ID:        uuid.New(),
		Title:     "The Thing",
		Quantity:  quantity,
		Available: quantity,
		CreatedAt: time.Now(),
	}

	inserted, err := store.InsertItem(ctx, item)
	require.NoError(t, err)
	require.True(t, inserted)

	return item
}

func givenBorrower(ctx context.Context, t *testing.T, store postgresengine.Store, limit int) ledger.Borrower {
	t.Helper()

	borrower := ledger.Borrower{
		ID:           uuid.New(),
		Name:         "Ripley",
		Role:         ledger.RoleUser,
		BorrowLimit:  limit,
		RegisteredAt: time.Now(),
	}

	inserted, err := store.InsertBorrower(ctx, borrower)
	require.NoError(t, err)
	require.True(t, inserted)

	return borrower
}

func Test_Store_ItemCounters_CompareAndSwap(t *testing.T) {
	for name, store := range givenIntegrationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			givenCleanSchema(ctx, t, store)
			item := givenItem(ctx, t, store, 2)

			// act
			err := store.CompareAndSwapItemCounters(ctx, item.ID, item.Counters(), ledger.Counters{Quantity: 2, Available: 1})
			staleErr := store.CompareAndSwapItemCounters(ctx, item.ID, item.Counters(), ledger.Counters{Quantity: 2, Available: 1})

			// assert
			require.NoError(t, err)
			assert.ErrorIs(t, staleErr, ledger.ErrConcurrencyConflict)

			reloaded, err := store.ItemByID(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, ledger.Counters{Quantity: 2, Available: 1}, reloaded.Counters())
		})
	}
}

func Test_Store_InsertItem_IsIdempotent(t *testing.T) {
	for name, store := range givenIntegrationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			givenCleanSchema(ctx, t, store)
			item := givenItem(ctx, t, store, 1)

			// act
			inserted, err := store.InsertItem(ctx, item)

			// assert
			require.NoError(t, err)
			assert.False(t, inserted)
		})
	}
}

func Test_Store_ItemByID_NotFound(t *testing.T) {
	for name, store := range givenIntegrationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			givenCleanSchema(ctx, t, store)

			_, err := store.ItemByID(ctx, uuid.New())

			assert.ErrorIs(t, err, ledger.ErrItemNotFound)
		})
	}
}

func Test_Store_WithinTx_RollsBackOnError(t *testing.T) {
	for name, store := range givenIntegrationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			givenCleanSchema(ctx, t, store)
			item := givenItem(ctx, t, store, 3)

			// act
			err := store.WithinTx(ctx, func(txCtx context.Context) error {
				swapErr := store.CompareAndSwapItemCounters(txCtx, item.ID, item.Counters(), ledger.Counters{Quantity: 3, Available: 0})
				require.NoError(t, swapErr)

				return errTestRollback
			})

			// assert
			assert.ErrorIs(t, err, errTestRollback)

			reloaded, err := store.ItemByID(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, 3, reloaded.Available)
		})
	}
}

func Test_Store_BorrowRecords_Lifecycle(t *testing.T) {
	for name, store := range givenIntegrationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			givenCleanSchema(ctx, t, store)
			item := givenItem(ctx, t, store, 2)
			borrower := givenBorrower(ctx, t, store, 5)

			record := ledger.BorrowRecord{
				ID:         uuid.New(),
				ItemID:     item.ID,
				BorrowerID: borrower.ID,
				BorrowedAt: time.Now().Add(-time.Hour),
			}
			require.NoError(t, store.InsertBorrowRecord(ctx, record))
			assert.ErrorIs(t, store.InsertBorrowRecord(ctx, record), ledger.ErrDuplicateRecordID)

			// act: report loss
			pending := record
			pending.Status = ledger.StatusPendingLoss
			require.NoError(t, store.UpdateBorrowRecord(ctx, pending, ledger.StatusNone))

			// assert: pending loss still holds a slot and a copy
			active, err := store.ActiveBorrowRecords(ctx, borrower.ID)
			require.NoError(t, err)
			assert.Len(t, active, 1)

			held, err := store.CountCopiesHeld(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, held)

			pendingList, err := store.PendingLossRecords(ctx)
			require.NoError(t, err)
			require.Len(t, pendingList, 1)
			assert.Equal(t, record.ID, pendingList[0].ID)

			// act: confirm loss
			now := time.Now()
			confirmed := pending
			confirmed.Status = ledger.StatusConfirmedLoss
			confirmed.ReturnedAt = &now
			require.NoError(t, store.UpdateBorrowRecord(ctx, confirmed, ledger.StatusPendingLoss))

			// assert: terminal
			held, err = store.CountCopiesHeld(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, held)

			reloaded, err := store.BorrowRecordByID(ctx, record.ID)
			require.NoError(t, err)
			assert.Equal(t, ledger.StatusConfirmedLoss, reloaded.Status)
			assert.NotNil(t, reloaded.ReturnedAt)

			staleErr := store.UpdateBorrowRecord(ctx, confirmed, ledger.StatusPendingLoss)
			assert.ErrorIs(t, staleErr, ledger.ErrConcurrencyConflict)

			history, err := store.BorrowRecordsForBorrower(ctx, borrower.ID)
			require.NoError(t, err)
			assert.Len(t, history, 1)
		})
	}
}

func Test_Store_Journal_AppendAndFilter(t *testing.T) {
	for name, store := range givenIntegrationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			givenCleanSchema(ctx, t, store)
			itemID := uuid.New()
			otherItemID := uuid.New()

			// act
			err := store.AppendJournal(
				ctx,
				ledger.JournalEntry{EntryType: "ItemAdded", OccurredAt: time.Now(), ItemID: &itemID, PayloadJSON: []byte(`{"a":1}`), MetadataJSON: []byte(`{}`)},
				ledger.JournalEntry{EntryType: "ItemAdded", OccurredAt: time.Now(), ItemID: &otherItemID, PayloadJSON: []byte(`{"a":2}`), MetadataJSON: []byte(`{}`)},
			)

			// assert
			require.NoError(t, err)

			entries, err := store.JournalEntries(ctx, ledger.JournalFilter{ItemID: itemID})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "ItemAdded", entries[0].EntryType)
			require.NotNil(t, entries[0].ItemID)
			assert.Equal(t, itemID, *entries[0].ItemID)
			assert.Nil(t, entries[0].BorrowerID)
		})
	}
}

func Test_Store_BumpBorrowerVersion(t *testing.T) {
	for name, store := range givenIntegrationStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			givenCleanSchema(ctx, t, store)
			borrower := givenBorrower(ctx, t, store, 5)

			require.NoError(t, store.BumpBorrowerVersion(ctx, borrower.ID, 0))
			assert.ErrorIs(t, store.BumpBorrowerVersion(ctx, borrower.ID, 0), ledger.ErrConcurrencyConflict)

			reloaded, err := store.BorrowerByID(ctx, borrower.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), reloaded.Version)
		})
	}
}
