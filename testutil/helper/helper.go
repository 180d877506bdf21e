package helper

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Store is what the fixture helpers need to seed a ledger store.
type Store interface {
	InsertItem(ctx context.Context, item ledger.Item) (bool, error)
	ItemByID(ctx context.Context, id uuid.UUID) (ledger.Item, error)
	InsertBorrower(ctx context.Context, borrower ledger.Borrower) (bool, error)
	InsertBorrowRecord(ctx context.Context, record ledger.BorrowRecord) error
	BorrowRecordByID(ctx context.Context, id uuid.UUID) (ledger.BorrowRecord, error)
}

// GivenUniqueID returns a fresh v7 uuid so that ids sort in creation order.
func GivenUniqueID(t testing.TB) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return id
}

// FixtureItem builds an item with the given counters.
func FixtureItem(quantity int, available int, fakeClock time.Time) ledger.Item {
	id := uuid.New()

	return ledger.Item{
		ID:        id,
		Title:     "Movie " + id.String()[:8],
		Quantity:  quantity,
		Available: available,
		CreatedAt: fakeClock.UTC(),
	}
}

// FixtureBorrower builds a borrower with role and limit.
func FixtureBorrower(role ledger.Role, borrowLimit int, fakeClock time.Time) ledger.Borrower {
	id := uuid.New()

	return ledger.Borrower{
		ID:           id,
		Name:         "Borrower " + strconv.Itoa(int(id.ID()%1000)),
		Role:         role,
		BorrowLimit:  borrowLimit,
		RegisteredAt: fakeClock.UTC(),
	}
}

// FixtureBorrowRecord builds an unreturned record with the given status.
func FixtureBorrowRecord(itemID, borrowerID uuid.UUID, status ledger.BorrowStatus, borrowedAt time.Time) ledger.BorrowRecord {
	return ledger.BorrowRecord{
		ID:         uuid.New(),
		ItemID:     itemID,
		BorrowerID: borrowerID,
		BorrowedAt: borrowedAt.UTC(),
		Status:     status,
	}
}

// GivenItem stores an item with the given counters.
func GivenItem(t testing.TB, ctx context.Context, store Store, quantity int, available int) ledger.Item {
	t.Helper()

	item := FixtureItem(quantity, available, time.Now())
	inserted, err := store.InsertItem(ctx, item)
	require.NoError(t, err)
	require.True(t, inserted)

	return item
}

// GivenBorrower stores a borrower with role and limit.
func GivenBorrower(t testing.TB, ctx context.Context, store Store, role ledger.Role, borrowLimit int) ledger.Borrower {
	t.Helper()

	borrower := FixtureBorrower(role, borrowLimit, time.Now())
	inserted, err := store.InsertBorrower(ctx, borrower)
	require.NoError(t, err)
	require.True(t, inserted)

	return borrower
}

// GivenBorrowRecord stores an unreturned record without touching the item's counters.
func GivenBorrowRecord(
	t testing.TB,
	ctx context.Context,
	store Store,
	itemID uuid.UUID,
	borrowerID uuid.UUID,
	status ledger.BorrowStatus,
	borrowedAt time.Time,
) ledger.BorrowRecord {

	t.Helper()

	record := FixtureBorrowRecord(itemID, borrowerID, status, borrowedAt)
	require.NoError(t, store.InsertBorrowRecord(ctx, record))

	return record
}

// AssertCounters checks an item's stored counters and the 0 <= available <= quantity invariant.
func AssertCounters(t testing.TB, ctx context.Context, store Store, itemID uuid.UUID, quantity int, available int) {
	t.Helper()

	item, err := store.ItemByID(ctx, itemID)
	require.NoError(t, err)
	require.Equal(t, ledger.Counters{Quantity: quantity, Available: available}, item.Counters(), "item counters")
	require.True(t, item.Counters().Valid(), "counters must satisfy 0 <= available <= quantity")
}

// LoadRecord loads a stored record or fails the test.
func LoadRecord(t testing.TB, ctx context.Context, store Store, id uuid.UUID) ledger.BorrowRecord {
	t.Helper()

	record, err := store.BorrowRecordByID(ctx, id)
	require.NoError(t, err)

	return record
}
