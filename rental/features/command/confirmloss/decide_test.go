package confirmloss_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/confirmloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/testutil/helper"
)

var confirmedAt = time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)

func adminActor() core.Actor {
	return core.ActorFromBorrower(helper.FixtureBorrower(ledger.RoleAdmin, 3, confirmedAt))
}

func pendingFacts(quantity int, available int) confirmloss.Facts {
	item := helper.FixtureItem(quantity, available, confirmedAt)
	record := helper.FixtureBorrowRecord(item.ID, uuid.New(), ledger.StatusPendingLoss, confirmedAt.Add(-48*time.Hour))

	return confirmloss.Facts{Record: &record, Item: &item}
}

func Test_Decide_Success_ReducesQuantity(t *testing.T) {
	// arrange
	facts := pendingFacts(3, 1)

	// act
	result := confirmloss.Decide(facts, confirmloss.BuildCommand(adminActor(), facts.Record.ID, confirmedAt))

	// assert
	require.NoError(t, result.HasError())
	require.NoError(t, result.HasWarning())

	event, ok := result.Event.(core.LossConfirmed)
	require.True(t, ok)
	assert.Equal(t, 2, event.Quantity)
	assert.True(t, event.QuantityReduced)
	assert.Equal(t, facts.Record.BorrowerID.String(), event.BorrowerID)
}

func Test_Decide_Warning_WhenQuantityWouldDropBelowAvailable(t *testing.T) {
	// arrange
	facts := pendingFacts(2, 2)

	// act
	result := confirmloss.Decide(facts, confirmloss.BuildCommand(adminActor(), facts.Record.ID, confirmedAt))

	// assert
	assert.ErrorIs(t, result.HasWarning(), core.ErrQuantityNotReduced)
	assert.True(t, result.HasStateChange())

	event, ok := result.Event.(core.LossConfirmed)
	require.True(t, ok)
	assert.Equal(t, 2, event.Quantity)
	assert.False(t, event.QuantityReduced)
}

func Test_Decide_Warning_WhenItemIsGone(t *testing.T) {
	// arrange
	facts := pendingFacts(2, 1)
	facts.Item = nil

	// act
	result := confirmloss.Decide(facts, confirmloss.BuildCommand(adminActor(), facts.Record.ID, confirmedAt))

	// assert
	assert.ErrorIs(t, result.HasWarning(), core.ErrQuantityNotReduced)
}

func Test_Decide_Idempotent_WhenAlreadyConfirmed(t *testing.T) {
	// arrange
	facts := pendingFacts(2, 1)
	facts.Record.Status = ledger.StatusConfirmedLoss
	facts.Record.ReturnedAt = &confirmedAt

	// act
	result := confirmloss.Decide(facts, confirmloss.BuildCommand(adminActor(), facts.Record.ID, confirmedAt))

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Decide_Failures(t *testing.T) {
	user := core.ActorFromBorrower(helper.FixtureBorrower(ledger.RoleUser, 5, confirmedAt))
	returnedAt := confirmedAt.Add(-time.Hour)

	testCases := []struct {
		name    string
		actor   core.Actor
		arrange func(*confirmloss.Facts)
		wantErr error
	}{
		{name: "anonymous", actor: core.AnonymousActor(), wantErr: core.ErrUnauthorized},
		{name: "not an admin", actor: user, wantErr: core.ErrForbidden},
		{name: "unknown record", actor: adminActor(), arrange: func(f *confirmloss.Facts) { f.Record = nil }, wantErr: core.ErrNoActiveBorrow},
		{name: "no loss reported", actor: adminActor(), arrange: func(f *confirmloss.Facts) { f.Record.Status = ledger.StatusNone }, wantErr: core.ErrNotPendingLoss},
		{name: "already returned", actor: adminActor(), arrange: func(f *confirmloss.Facts) { f.Record.ReturnedAt = &returnedAt }, wantErr: core.ErrNotPendingLoss},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			facts := pendingFacts(2, 1)
			recordID := facts.Record.ID
			if tc.arrange != nil {
				tc.arrange(&facts)
			}

			// act
			result := confirmloss.Decide(facts, confirmloss.BuildCommand(tc.actor, recordID, confirmedAt))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.wantErr)
			assert.Equal(t, core.ConfirmingLossFailedEventType, result.Event.IsEventType())
		})
	}
}

func Test_Decide_ForbiddenIsUnauthorized(t *testing.T) {
	// arrange
	user := core.ActorFromBorrower(helper.FixtureBorrower(ledger.RoleUser, 5, confirmedAt))
	facts := pendingFacts(2, 1)

	// act
	result := confirmloss.Decide(facts, confirmloss.BuildCommand(user, facts.Record.ID, confirmedAt))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrUnauthorized)
}
