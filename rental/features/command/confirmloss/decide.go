package confirmloss

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on. Record and Item are nil when they do not exist.
type Facts struct {
	Record *ledger.BorrowRecord
	Item   *ledger.Item
}

// Decide implements the business logic of confirming a loss.
//
// Business Rules:
//
//	GIVEN: a record with status PENDING_LOSS
//	WHEN: ConfirmLoss command from an admin is received
//	THEN: LossConfirmed event, the record is closed and quantity decreases by one
//	WARNING: QuantityNotReduced if the item is gone or quantity cannot go below available
//	ERROR: Unauthorized if the actor is anonymous
//	ERROR: Forbidden if the actor is not an admin
//	ERROR: NoActiveBorrow if the record does not exist
//	ERROR: NotPendingLoss if the record is returned or has no loss report
//	IDEMPOTENCY: if the record is already CONFIRMED_LOSS, no event is generated
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{
		BorrowerID: command.Actor.BorrowerID.String(),
		RecordID:   command.RecordID.String(),
	}

	if !command.Actor.IsAuthenticated() {
		return core.FailedDecision(core.ConfirmingLossFailedEventType, refs, core.ErrUnauthorized, command.OccurredAt)
	}

	if !command.Actor.IsAdmin() {
		return core.FailedDecision(core.ConfirmingLossFailedEventType, refs, core.ErrForbidden, command.OccurredAt)
	}

	if facts.Record == nil {
		return core.FailedDecision(core.ConfirmingLossFailedEventType, refs, core.ErrNoActiveBorrow, command.OccurredAt)
	}

	record := *facts.Record
	refs.ItemID = record.ItemID.String()

	if record.Status == ledger.StatusConfirmedLoss {
		return core.IdempotentDecision()
	}

	if record.Status != ledger.StatusPendingLoss || !record.IsUnreturned() {
		return core.FailedDecision(core.ConfirmingLossFailedEventType, refs, core.ErrNotPendingLoss, command.OccurredAt)
	}

	if facts.Item == nil {
		return core.WarningDecision(
			core.BuildLossConfirmed(record.ID, record.ItemID, record.BorrowerID, command.Actor.BorrowerID, 0, false, command.OccurredAt),
			core.ErrQuantityNotReduced,
		)
	}

	next, ok := reducedCounters(*facts.Item)
	if !ok {
		return core.WarningDecision(
			core.BuildLossConfirmed(
				record.ID, record.ItemID, record.BorrowerID, command.Actor.BorrowerID,
				facts.Item.Quantity, false, command.OccurredAt,
			),
			core.ErrQuantityNotReduced,
		)
	}

	return core.SuccessDecision(
		core.BuildLossConfirmed(
			record.ID, record.ItemID, record.BorrowerID, command.Actor.BorrowerID,
			next.Quantity, true, command.OccurredAt,
		),
	)
}

// reducedCounters removes the lost copy from quantity. available is untouched.
func reducedCounters(item ledger.Item) (ledger.Counters, bool) {
	next := ledger.Counters{Quantity: item.Quantity - 1, Available: item.Available}

	return next, next.Valid()
}
