package writeoffcopies

import (
	"fmt"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on. Item is nil when it does not exist.
type Facts struct {
	Item *ledger.Item
}

// Decide implements the business logic of writing off copies.
//
// Business Rules:
//
//	GIVEN: an item in the catalog with enough copies on the shelf
//	WHEN: WriteOffCopies command from an admin is received
//	THEN: CopiesWrittenOff event, quantity and available shrink by the number of copies
//	ERROR: Unauthorized if the actor is anonymous
//	ERROR: Forbidden if the actor is not an admin
//	ERROR: InvalidItem if copies is not positive, exceeds quantity, or the item does not exist
//	ERROR: CopiesOnLoan if copies exceeds available
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{
		ItemID:     command.ItemID.String(),
		BorrowerID: command.Actor.BorrowerID.String(),
	}

	if !command.Actor.IsAuthenticated() {
		return core.FailedDecision(core.WritingOffCopiesFailedEventType, refs, core.ErrUnauthorized, command.OccurredAt)
	}

	if !command.Actor.IsAdmin() {
		return core.FailedDecision(core.WritingOffCopiesFailedEventType, refs, core.ErrForbidden, command.OccurredAt)
	}

	if command.Copies <= 0 {
		return core.FailedDecision(core.WritingOffCopiesFailedEventType, refs,
			fmt.Errorf("%w: copies must be positive, got %d", core.ErrInvalidItem, command.Copies), command.OccurredAt)
	}

	if facts.Item == nil {
		return core.FailedDecision(core.WritingOffCopiesFailedEventType, refs,
			fmt.Errorf("%w: %w", core.ErrInvalidItem, ledger.ErrItemNotFound), command.OccurredAt)
	}

	if command.Copies > facts.Item.Quantity {
		return core.FailedDecision(core.WritingOffCopiesFailedEventType, refs,
			fmt.Errorf("%w: cannot write off %d of %d copies", core.ErrInvalidItem, command.Copies, facts.Item.Quantity),
			command.OccurredAt)
	}

	if command.Copies > facts.Item.Available {
		return core.FailedDecision(core.WritingOffCopiesFailedEventType, refs,
			fmt.Errorf("%w: %d requested, %d on the shelf", core.ErrCopiesOnLoan, command.Copies, facts.Item.Available),
			command.OccurredAt)
	}

	next := shrunkCounters(*facts.Item, command.Copies)

	return core.SuccessDecision(
		core.BuildCopiesWrittenOff(
			command.ItemID, command.Actor.BorrowerID, command.Copies,
			next.Quantity, next.Available, command.OccurredAt,
		),
	)
}

func shrunkCounters(item ledger.Item, copies int) ledger.Counters {
	return ledger.Counters{Quantity: item.Quantity - copies, Available: item.Available - copies}
}
