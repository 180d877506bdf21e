package ledgerjournal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/memengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/borrowitem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/ledgerjournal"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	. "github.com/AntonStoeckl/movie-rental-ledger/testutil/helper" //nolint:revive
)

func Test_QueryHandler_Handle_ShowsSuccessAndFailureNewestFirst(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	item := GivenItem(t, ctx, store, 1, 1)
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	admin := GivenBorrower(t, ctx, store, ledger.RoleAdmin, 3)
	actor := core.ActorFromBorrower(borrower)
	borrow := borrowitem.NewCommandHandler(store)

	_, err := borrow.Handle(ctx, borrowitem.BuildCommand(actor, item.ID, time.Now()))
	require.NoError(t, err)
	_, err = borrow.Handle(ctx, borrowitem.BuildCommand(actor, item.ID, time.Now()))
	require.ErrorIs(t, err, core.ErrItemUnavailable)

	// act
	result, err := ledgerjournal.NewQueryHandler(store).Handle(ctx,
		ledgerjournal.BuildQuery(core.ActorFromBorrower(admin), item.ID, uuid.Nil, 0))

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)

	assert.Equal(t, core.BorrowingItemFailedEventType, result.Lines[0].EntryType)
	assert.True(t, result.Lines[0].Failed)
	assert.Greater(t, result.Lines[0].SequenceNumber, result.Lines[1].SequenceNumber)

	assert.Equal(t, core.ItemBorrowedEventType, result.Lines[1].EntryType)
	assert.False(t, result.Lines[1].Failed)
	assert.Equal(t, borrower.ID.String(), result.Lines[1].BorrowerID)
	assert.Equal(t, item.ID.String(), result.Lines[1].Payload["ItemID"])
	assert.NotEmpty(t, result.Lines[1].MessageID)
}

func Test_QueryHandler_Handle_BorrowerMayOnlyReadOwnEntries(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	other := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	actor := core.ActorFromBorrower(borrower)
	handler := ledgerjournal.NewQueryHandler(store)

	// act
	own, ownErr := handler.Handle(ctx, ledgerjournal.BuildQuery(actor, uuid.Nil, borrower.ID, 10))
	_, otherErr := handler.Handle(ctx, ledgerjournal.BuildQuery(actor, uuid.Nil, other.ID, 10))
	_, everythingErr := handler.Handle(ctx, ledgerjournal.BuildQuery(actor, uuid.Nil, uuid.Nil, 10))

	// assert
	require.NoError(t, ownErr)
	assert.Equal(t, 0, own.Count)
	assert.ErrorIs(t, otherErr, core.ErrForbidden)
	assert.ErrorIs(t, everythingErr, core.ErrForbidden)
}
