package confirmloss_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/memengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/confirmloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	. "github.com/AntonStoeckl/movie-rental-ledger/testutil/helper" //nolint:revive
)

func createHandler(store *memengine.Store) confirmloss.CommandHandler {
	return confirmloss.NewCommandHandler(store, confirmloss.WithRetryOptions(
		shell.WithBaseDelay(time.Millisecond),
		shell.WithMaxAttempts(3),
	))
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 2)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusPendingLoss, confirmedAt.Add(-time.Hour))

	// act
	result, err := createHandler(store).Handle(ctx, confirmloss.BuildCommand(core.ActorFromBorrower(admin), record.ID, confirmedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.StatusSuccess, result.Status())
	assert.Equal(t, 2, result.Quantity)
	assert.True(t, result.QuantityReduced)
	AssertCounters(t, ctx, store, item.ID, 2, 2)

	stored := LoadRecord(t, ctx, store, record.ID)
	assert.Equal(t, ledger.StatusConfirmedLoss, stored.Status)
	require.NotNil(t, stored.ReturnedAt)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), stored.ReturnedAt.UTC(), "a confirmed loss is stamped with the confirmation date")

	held, err := store.ActiveBorrowRecords(ctx, borrower.ID)
	require.NoError(t, err)
	assert.Empty(t, held, "a confirmed loss frees the slot")

	entries, err := store.JournalEntries(ctx, ledger.JournalFilter{BorrowerID: borrower.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, core.LossConfirmedEventType, entries[0].EntryType)
}

func Test_CommandHandler_Handle_SecondConfirmIsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 2)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusPendingLoss, confirmedAt.Add(-time.Hour))
	command := confirmloss.BuildCommand(core.ActorFromBorrower(admin), record.ID, confirmedAt)
	handler := createHandler(store)

	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.StatusIdempotent, result.Status())
	AssertCounters(t, ctx, store, item.ID, 2, 2)
}

func Test_CommandHandler_Handle_DriftedCounters_ClosesRecordWithWarning(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 2)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusPendingLoss, confirmedAt.Add(-time.Hour))

	// act
	result, err := createHandler(store).Handle(ctx, confirmloss.BuildCommand(core.ActorFromBorrower(admin), record.ID, confirmedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.StatusWarning, result.Status())
	assert.ErrorIs(t, result.Warning, core.ErrQuantityNotReduced)
	assert.False(t, result.QuantityReduced)
	AssertCounters(t, ctx, store, item.ID, 2, 2)
	assert.Equal(t, ledger.StatusConfirmedLoss, LoadRecord(t, ctx, store, record.ID).Status)
}

func Test_CommandHandler_Handle_NonAdminIsForbidden(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 2)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusPendingLoss, confirmedAt.Add(-time.Hour))

	// act
	_, err := createHandler(store).Handle(ctx, confirmloss.BuildCommand(core.ActorFromBorrower(borrower), record.ID, confirmedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.Equal(t, ledger.StatusPendingLoss, LoadRecord(t, ctx, store, record.ID).Status)
	AssertCounters(t, ctx, store, item.ID, 3, 2)
}

func Test_CommandHandler_Handle_UnknownRecord(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)

	// act
	_, err := createHandler(store).Handle(ctx, confirmloss.BuildCommand(core.ActorFromBorrower(admin), uuid.New(), confirmedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrNoActiveBorrow)
}

func Test_CommandHandler_Handle_RetriesOnConcurrencyConflict(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 2)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)
	record := GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusPendingLoss, confirmedAt.Add(-time.Hour))
	store.InjectFault(memengine.OpCompareAndSwapItemCounters, ledger.ErrConcurrencyConflict, 1)

	// act
	result, err := createHandler(store).Handle(ctx, confirmloss.BuildCommand(core.ActorFromBorrower(admin), record.ID, confirmedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	AssertCounters(t, ctx, store, item.ID, 2, 2)
	assert.Equal(t, ledger.StatusConfirmedLoss, LoadRecord(t, ctx, store, record.ID).Status)
}
