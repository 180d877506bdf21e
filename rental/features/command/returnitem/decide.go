package returnitem

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on. Item is nil when it does not exist.
type Facts struct {
	Item          *ledger.Item
	ActiveRecords ledger.BorrowRecords
}

// heldRecord is the record a return closes: the oldest unreturned one for the item,
// with or without a pending loss report.
func heldRecord(facts Facts, command Command) (ledger.BorrowRecord, bool) {
	return core.FindHeldRecord(facts.ActiveRecords, command.ItemID, ledger.StatusNone, ledger.StatusPendingLoss)
}

// Decide implements the business logic of returning a copy.
//
// Business Rules:
//
//	GIVEN: the acting borrower holds the item
//	WHEN: ReturnItem command is received
//	THEN: ItemReturned event with available increased by one
//	WARNING: AvailabilityClamped if available already equals quantity (available unchanged)
//	ERROR: Unauthorized if the actor is anonymous
//	ERROR: NoActiveBorrow if the borrower holds no unreturned record for the item
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{
		ItemID:     command.ItemID.String(),
		BorrowerID: command.Actor.BorrowerID.String(),
	}

	if !command.Actor.IsAuthenticated() {
		return core.FailedDecision(core.ReturningItemFailedEventType, refs, core.ErrUnauthorized, command.OccurredAt)
	}

	record, found := heldRecord(facts, command)
	if !found {
		return core.FailedDecision(core.ReturningItemFailedEventType, refs, core.ErrNoActiveBorrow, command.OccurredAt)
	}

	if facts.Item == nil {
		refs.RecordID = record.ID.String()
		return core.FailedDecision(core.ReturningItemFailedEventType, refs, core.ErrItemUnavailable, command.OccurredAt)
	}

	if facts.Item.Available >= facts.Item.Quantity {
		return core.WarningDecision(
			core.BuildItemReturned(record.ID, command.ItemID, record.BorrowerID, facts.Item.Available, true, command.OccurredAt),
			core.ErrAvailabilityClamped,
		)
	}

	return core.SuccessDecision(
		core.BuildItemReturned(record.ID, command.ItemID, record.BorrowerID, facts.Item.Available+1, false, command.OccurredAt),
	)
}
