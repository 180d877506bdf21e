package restockcopy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/restockcopy"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/testutil/helper"
)

func Test_Decide_Success_IncrementsAvailable(t *testing.T) {
	// arrange
	now := time.Now()
	item := helper.FixtureItem(3, 1, now)
	admin := core.ActorFromBorrower(helper.FixtureBorrower(ledger.RoleAdmin, 3, now))

	// act
	result := restockcopy.Decide(restockcopy.Facts{Item: &item}, restockcopy.BuildCommand(admin, item.ID, now))

	// assert
	require.NoError(t, result.HasError())
	require.NoError(t, result.HasWarning())

	event, ok := result.Event.(core.CopyRestocked)
	require.True(t, ok)
	assert.Equal(t, 2, event.Available)
	assert.False(t, event.Clamped)
}

func Test_Decide_Warning_AllCopiesOnShelf(t *testing.T) {
	// arrange
	now := time.Now()
	item := helper.FixtureItem(3, 3, now)
	admin := core.ActorFromBorrower(helper.FixtureBorrower(ledger.RoleAdmin, 3, now))

	// act
	result := restockcopy.Decide(restockcopy.Facts{Item: &item}, restockcopy.BuildCommand(admin, item.ID, now))

	// assert
	assert.ErrorIs(t, result.HasWarning(), core.ErrAvailabilityClamped)

	event, ok := result.Event.(core.CopyRestocked)
	require.True(t, ok)
	assert.Equal(t, 3, event.Available)
	assert.True(t, event.Clamped)
}

func Test_Decide_Failures(t *testing.T) {
	now := time.Now()
	item := helper.FixtureItem(3, 1, now)

	testCases := []struct {
		name    string
		actor   core.Actor
		facts   restockcopy.Facts
		wantErr error
	}{
		{name: "anonymous", actor: core.AnonymousActor(), facts: restockcopy.Facts{Item: &item}, wantErr: core.ErrUnauthorized},
		{
			name:    "user is forbidden",
			actor:   core.ActorFromBorrower(helper.FixtureBorrower(ledger.RoleUser, 5, now)),
			facts:   restockcopy.Facts{Item: &item},
			wantErr: core.ErrForbidden,
		},
		{
			name:    "unknown item",
			actor:   core.ActorFromBorrower(helper.FixtureBorrower(ledger.RoleAdmin, 3, now)),
			wantErr: core.ErrInvalidItem,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := restockcopy.Decide(tc.facts, restockcopy.BuildCommand(tc.actor, item.ID, now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.wantErr)
			assert.False(t, result.HasStateChange())
		})
	}
}
