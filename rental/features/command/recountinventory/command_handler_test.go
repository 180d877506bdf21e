package recountinventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/memengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/confirmloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/recountinventory"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	. "github.com/AntonStoeckl/movie-rental-ledger/testutil/helper" //nolint:revive
)

func createHandler(store *memengine.Store) recountinventory.CommandHandler {
	return recountinventory.NewCommandHandler(store, recountinventory.WithRetryOptions(
		shell.WithBaseDelay(time.Millisecond),
		shell.WithMaxAttempts(3),
	))
}

func Test_CommandHandler_Handle_RepairsDriftedItemsOnly(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)

	consistent := GivenItem(t, ctx, store, 2, 1)
	GivenBorrowRecord(t, ctx, store, consistent.ID, borrower.ID, ledger.StatusNone, time.Now())

	drifted := GivenItem(t, ctx, store, 5, 1)
	GivenBorrowRecord(t, ctx, store, drifted.ID, borrower.ID, ledger.StatusPendingLoss, time.Now())

	// act
	result, err := createHandler(store).Handle(ctx, recountinventory.BuildCommand(time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Corrected)
	require.Len(t, result.Corrections, 1)
	assert.Equal(t, drifted.ID, result.Corrections[0].ItemID)
	assert.Equal(t, 5, result.Corrections[0].PreviousQuantity)
	assert.Equal(t, 2, result.Corrections[0].Quantity)

	AssertCounters(t, ctx, store, consistent.ID, 2, 1)
	AssertCounters(t, ctx, store, drifted.ID, 2, 1)

	entries, err := store.JournalEntries(ctx, ledger.JournalFilter{ItemID: drifted.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, core.InventoryRecountedEventType, entries[0].EntryType)
}

func Test_CommandHandler_Handle_SecondRunIsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 4, 4)
	handler := createHandler(store)

	_, err := handler.Handle(ctx, recountinventory.BuildCommand(time.Now()))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, recountinventory.BuildCommand(time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.StatusIdempotent, result.Status())
	assert.Equal(t, 0, result.Corrected)
	AssertCounters(t, ctx, store, item.ID, 4, 4)
}

func Test_CommandHandler_Handle_AfterConfirmedLoss_QuantityEqualsAvailablePlusHeld(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 1)
	alice := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	bob := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)
	GivenBorrowRecord(t, ctx, store, item.ID, alice.ID, ledger.StatusNone, time.Now())
	lost := GivenBorrowRecord(t, ctx, store, item.ID, bob.ID, ledger.StatusPendingLoss, time.Now())

	_, err := confirmloss.NewCommandHandler(store).Handle(ctx,
		confirmloss.BuildCommand(core.ActorFromBorrower(admin), lost.ID, time.Now()))
	require.NoError(t, err)
	AssertCounters(t, ctx, store, item.ID, 2, 1)

	// act
	result, err := createHandler(store).Handle(ctx, recountinventory.BuildCommand(time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Corrected, "confirm already left quantity = available + held")

	held, err := store.CountCopiesHeld(ctx, item.ID)
	require.NoError(t, err)
	AssertCounters(t, ctx, store, item.ID, 1+held, 1)
}

func Test_CommandHandler_Handle_RetriesOnConcurrencyConflict(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 3)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	GivenBorrowRecord(t, ctx, store, item.ID, borrower.ID, ledger.StatusNone, time.Now())
	store.InjectFault(memengine.OpCompareAndSwapItemCounters, ledger.ErrConcurrencyConflict, 1)

	// act
	result, err := createHandler(store).Handle(ctx, recountinventory.BuildCommand(time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	AssertCounters(t, ctx, store, item.ID, 4, 3)
}

func Test_CommandHandler_Handle_StopsAtFirstFailure(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	GivenItem(t, ctx, store, 3, 3)
	store.InjectFault(memengine.OpCountCopiesHeld, ledger.ErrQueryingFailed, 1)

	// act
	result, err := createHandler(store).Handle(ctx, recountinventory.BuildCommand(time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrPersistenceFailure)
	assert.ErrorIs(t, err, ledger.ErrQueryingFailed)
	assert.Equal(t, 0, result.Checked)
}
