package restockcopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/memengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/restockcopy"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	. "github.com/AntonStoeckl/movie-rental-ledger/testutil/helper" //nolint:revive
)

func createHandler(store *memengine.Store) restockcopy.CommandHandler {
	return restockcopy.NewCommandHandler(store, restockcopy.WithRetryOptions(
		shell.WithBaseDelay(time.Millisecond),
		shell.WithMaxAttempts(3),
	))
}

func Test_CommandHandler_Handle_IncrementsAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 1)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)

	// act
	result, err := createHandler(store).Handle(ctx, restockcopy.BuildCommand(core.ActorFromBorrower(admin), item.ID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.StatusSuccess, result.Status())
	assert.Equal(t, 2, result.Available)
	assert.False(t, result.Clamped)
	AssertCounters(t, ctx, store, item.ID, 3, 2)
}

func Test_CommandHandler_Handle_AllCopiesOnShelf_WarnsAndLeavesAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 2)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)

	// act
	result, err := createHandler(store).Handle(ctx, restockcopy.BuildCommand(core.ActorFromBorrower(admin), item.ID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.StatusWarning, result.Status())
	assert.ErrorIs(t, result.Warning, core.ErrAvailabilityClamped)
	assert.True(t, result.Clamped)
	AssertCounters(t, ctx, store, item.ID, 2, 2)

	entries, err := store.JournalEntries(ctx, ledger.JournalFilter{ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, core.CopyRestockedEventType, entries[0].EntryType)
}

func Test_CommandHandler_Handle_ClampedRestockStillConflicts(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 2, 2)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)
	store.InjectFault(memengine.OpCompareAndSwapItemCounters, ledger.ErrConcurrencyConflict, 1)

	// act
	result, err := createHandler(store).Handle(ctx, restockcopy.BuildCommand(core.ActorFromBorrower(admin), item.ID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts, "the item row guards the transaction even when nothing changes")
	AssertCounters(t, ctx, store, item.ID, 2, 2)
}

func Test_CommandHandler_Handle_UserIsForbidden(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 3, 1)
	user := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)

	// act
	_, err := createHandler(store).Handle(ctx, restockcopy.BuildCommand(core.ActorFromBorrower(user), item.ID, time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrForbidden)
	AssertCounters(t, ctx, store, item.ID, 3, 1)

	entries, err := store.JournalEntries(ctx, ledger.JournalFilter{ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1, "the failure is journaled")
	assert.Equal(t, core.RestockingCopyFailedEventType, entries[0].EntryType)
}
