package returnitem_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/memengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/returnitem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	. "github.com/AntonStoeckl/movie-rental-ledger/testutil/helper" //nolint:revive
)

func createHandler(store *memengine.Store) returnitem.CommandHandler {
	return returnitem.NewCommandHandler(store, returnitem.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 1)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusNone, time.Now().Add(-time.Hour))
	returnedAt := time.Now()

	// act
	result, err := createHandler(store).Handle(ctx, returnitem.BuildCommand(core.ActorFromBorrower(borrower), item.ID, returnedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Available)
	assert.Equal(t, shell.StatusSuccess, result.Status())
	AssertCounters(t, ctx, store, item.ID, 2, 2)

	stored := LoadRecord(t, ctx, store, record.ID)
	require.NotNil(t, stored.ReturnedAt)
	assert.Equal(t, core.ToOccurredAt(returnedAt), *stored.ReturnedAt)
}

func Test_CommandHandler_Handle_ClampsAtQuantity(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 2)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusNone, time.Now().Add(-time.Hour))

	// act
	result, err := createHandler(store).Handle(ctx, returnitem.BuildCommand(core.ActorFromBorrower(borrower), item.ID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Clamped)
	assert.ErrorIs(t, result.Warning, core.ErrAvailabilityClamped)
	assert.Equal(t, shell.StatusWarning, result.Status())
	AssertCounters(t, ctx, store, item.ID, 2, 2)
	assert.NotNil(t, LoadRecord(t, ctx, store, record.ID).ReturnedAt)
}

func Test_CommandHandler_Handle_NoActiveBorrow(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 1)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)

	// act
	_, err := createHandler(store).Handle(ctx, returnitem.BuildCommand(core.ActorFromBorrower(borrower), item.ID, time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrNoActiveBorrow)
	AssertCounters(t, ctx, store, item.ID, 2, 1)

	entries, err := store.JournalEntries(ctx, ledger.JournalFilter{BorrowerID: borrower.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, core.ReturningItemFailedEventType, entries[0].EntryType)
}

func Test_CommandHandler_Handle_ReturnsOldestRecordFirst(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 1)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	older := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusNone, time.Now().Add(-2*time.Hour))
	newer := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusNone, time.Now().Add(-time.Hour))

	// act
	_, err := createHandler(store).Handle(ctx, returnitem.BuildCommand(core.ActorFromBorrower(borrower), item.ID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.NotNil(t, LoadRecord(t, ctx, store, older.ID).ReturnedAt)
	assert.Nil(t, LoadRecord(t, ctx, store, newer.ID).ReturnedAt)
}

func Test_CommandHandler_Handle_RetriesWhenRecordChangedConcurrently(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 1)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusNone, time.Now().Add(-time.Hour))
	store.InjectFault(memengine.OpUpdateBorrowRecord, ledger.ErrConcurrencyConflict, 1)

	// act
	result, err := createHandler(store).Handle(ctx, returnitem.BuildCommand(core.ActorFromBorrower(borrower), item.ID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	AssertCounters(t, ctx, store, item.ID, 2, 2)
}

func Test_CommandHandler_Handle_ClampedReturnStillConflicts(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 2)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusNone, time.Now().Add(-time.Hour))
	store.InjectFault(memengine.OpCompareAndSwapItemCounters, ledger.ErrConcurrencyConflict, 1)

	// act
	result, err := createHandler(store).Handle(ctx, returnitem.BuildCommand(core.ActorFromBorrower(borrower), item.ID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts, "the item row guards the transaction even when available is clamped")
	assert.True(t, result.Clamped)
	AssertCounters(t, ctx, store, item.ID, 2, 2)
	assert.NotNil(t, LoadRecord(t, ctx, store, record.ID).ReturnedAt)
}
