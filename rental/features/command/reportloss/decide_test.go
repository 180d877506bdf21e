package reportloss_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/reportloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/testutil/helper"
)

var reportedAt = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func validCard() core.PaymentDetails {
	return core.PaymentDetails{CardNumber: "4111111111111111", CVC: "123", ExpiryMonth: "6", ExpiryYear: "2026"}
}

func givenRecord(status ledger.BorrowStatus) (reportloss.Facts, core.Actor, ledger.BorrowRecord) {
	borrower := helper.FixtureBorrower(ledger.RoleUser, 5, reportedAt)
	record := helper.FixtureBorrowRecord(uuid.New(), borrower.ID, status, reportedAt.Add(-24*time.Hour))

	return reportloss.Facts{ActiveRecords: ledger.BorrowRecords{record}}, core.ActorFromBorrower(borrower), record
}

func Test_Decide_Success_ReportsLoss(t *testing.T) {
	// arrange
	facts, actor, record := givenRecord(ledger.StatusNone)

	// act
	result := reportloss.Decide(facts, reportloss.BuildCommand(actor, record.ItemID, validCard(), reportedAt))

	// assert
	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.LossReported)
	require.True(t, ok)
	assert.Equal(t, record.ID.String(), event.RecordID)
	assert.Equal(t, "1111", event.CardLast4)
}

func Test_Decide_Idempotent_WhenAlreadyPending(t *testing.T) {
	// arrange
	facts, actor, record := givenRecord(ledger.StatusPendingLoss)

	// act
	result := reportloss.Decide(facts, reportloss.BuildCommand(actor, record.ItemID, validCard(), reportedAt))

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventToAppend())
}

func Test_Decide_Failures(t *testing.T) {
	expired := validCard()
	expired.ExpiryMonth = "5"

	shortNumber := validCard()
	shortNumber.CardNumber = "4111"

	badMonth := validCard()
	badMonth.ExpiryMonth = "13"

	testCases := []struct {
		name    string
		status  ledger.BorrowStatus
		actor   func(core.Actor) core.Actor
		otherID bool
		card    core.PaymentDetails
		wantErr error
	}{
		{name: "anonymous", status: ledger.StatusNone, actor: func(core.Actor) core.Actor { return core.AnonymousActor() }, card: validCard(), wantErr: core.ErrUnauthorized},
		{name: "expired card", status: ledger.StatusNone, card: expired, wantErr: core.ErrInvalidPaymentDetails},
		{name: "short card number", status: ledger.StatusNone, card: shortNumber, wantErr: core.ErrInvalidPaymentDetails},
		{name: "month out of range", status: ledger.StatusNone, card: badMonth, wantErr: core.ErrInvalidPaymentDetails},
		{name: "item not held", status: ledger.StatusNone, otherID: true, card: validCard(), wantErr: core.ErrNoActiveBorrow},
		{name: "confirmed loss", status: ledger.StatusConfirmedLoss, card: validCard(), wantErr: core.ErrNoActiveBorrow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			facts, actor, record := givenRecord(tc.status)
			if tc.actor != nil {
				actor = tc.actor(actor)
			}

			itemID := record.ItemID
			if tc.otherID {
				itemID = uuid.New()
			}

			// act
			result := reportloss.Decide(facts, reportloss.BuildCommand(actor, itemID, tc.card, reportedAt))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.wantErr)
			assert.Equal(t, core.ReportingLossFailedEventType, result.Event.IsEventType())
		})
	}
}
