package itemsincirculation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/memengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/additem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/borrowitem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/itemsincirculation"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	. "github.com/AntonStoeckl/movie-rental-ledger/testutil/helper" //nolint:revive
)

func Test_QueryHandler_Handle_ListsItemsByTitleWithTotals(t *testing.T) {
	// arrange
	ctx := ledger.WithEventualConsistency(context.Background())
	store := memengine.NewStore()
	addItem := additem.NewCommandHandler(store)
	metropolis := uuid.New()
	casablanca := uuid.New()

	_, err := addItem.Handle(ctx, additem.BuildCommand(metropolis, "Metropolis", 2, time.Now()))
	require.NoError(t, err)
	_, err = addItem.Handle(ctx, additem.BuildCommand(casablanca, "Casablanca", 3, time.Now()))
	require.NoError(t, err)

	borrower := GivenBorrower(t, ctx, store, ledger.RoleUser, 5)
	_, err = borrowitem.NewCommandHandler(store).Handle(ctx,
		borrowitem.BuildCommand(core.ActorFromBorrower(borrower), metropolis, time.Now()))
	require.NoError(t, err)

	// act
	result, err := itemsincirculation.NewQueryHandler(store).Handle(ctx, itemsincirculation.BuildQuery())

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "Casablanca", result.Items[0].Title)
	assert.Equal(t, "Metropolis", result.Items[1].Title)
	assert.Equal(t, 1, result.Items[1].Borrowed)
	assert.Equal(t, 5, result.TotalQuantity)
	assert.Equal(t, 4, result.TotalAvailable)
}

func Test_QueryHandler_Handle_EmptyCatalog(t *testing.T) {
	// act
	result, err := itemsincirculation.NewQueryHandler(memengine.NewStore()).Handle(context.Background(), itemsincirculation.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Items)
}

type levelRecordingStore struct {
	level ledger.ConsistencyLevel
}

func (s *levelRecordingStore) Items(ctx context.Context) ([]ledger.Item, error) {
	s.level = ledger.GetConsistencyLevel(ctx)
	return nil, nil
}

func Test_QueryHandler_Handle_ReadsFromReplicaUnlessStrongRequested(t *testing.T) {
	// arrange
	store := &levelRecordingStore{}
	handler := itemsincirculation.NewQueryHandler(store)

	// act
	_, err := handler.Handle(context.Background(), itemsincirculation.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, ledger.EventualConsistency, store.level)

	// act
	_, err = handler.Handle(ledger.WithStrongConsistency(context.Background()), itemsincirculation.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, ledger.StrongConsistency, store.level)
}
