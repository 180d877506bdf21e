package borrowitem

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on, loaded fresh inside the transaction.
// Item and Borrower are nil when they do not exist.
type Facts struct {
	Item          *ledger.Item
	Borrower      *ledger.Borrower
	ActiveRecords ledger.BorrowRecords
}

// Decide implements the business logic to determine whether an item may be borrowed.
// This is a pure function with no side effects.
//
// Business Rules (first failure wins):
//
//	GIVEN: an item with ItemID and the acting borrower
//	WHEN: BorrowItem command is received
//	THEN: ItemBorrowed event with the new available count and remaining slots
//	ERROR: Unauthorized if the actor is anonymous or not a known borrower
//	ERROR: ItemUnavailable if the item does not exist or has no copy available
//	ERROR: LimitExceeded if the borrower holds borrow_limit records (active or pending loss)
//	ERROR: DuplicateBorrow if the borrower already holds this item (soft failure)
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{
		ItemID:     command.ItemID.String(),
		BorrowerID: command.Actor.BorrowerID.String(),
		RecordID:   command.RecordID.String(),
	}

	if !command.Actor.IsAuthenticated() || facts.Borrower == nil {
		return core.FailedDecision(core.BorrowingItemFailedEventType, refs, core.ErrUnauthorized, command.OccurredAt)
	}

	if facts.Item == nil || facts.Item.Available <= 0 {
		return core.FailedDecision(core.BorrowingItemFailedEventType, refs, core.ErrItemUnavailable, command.OccurredAt)
	}

	held := core.CountSlotsHeld(facts.ActiveRecords)
	if held >= facts.Borrower.BorrowLimit {
		return core.FailedDecision(core.BorrowingItemFailedEventType, refs, core.ErrLimitExceeded, command.OccurredAt)
	}

	if _, holds := core.FindHeldRecord(facts.ActiveRecords, command.ItemID, ledger.StatusNone, ledger.StatusPendingLoss); holds {
		return core.FailedDecision(core.BorrowingItemFailedEventType, refs, core.ErrDuplicateBorrow, command.OccurredAt)
	}

	return core.SuccessDecision(
		core.BuildItemBorrowed(
			command.RecordID,
			command.ItemID,
			facts.Borrower.ID,
			facts.Item.Available-1,
			core.RemainingSlots(facts.Borrower.BorrowLimit, held+1),
			command.OccurredAt,
		),
	)
}
