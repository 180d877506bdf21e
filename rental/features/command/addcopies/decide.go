package addcopies

import (
	"fmt"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on. Item is nil when it does not exist.
type Facts struct {
	Item *ledger.Item
}

// Decide implements the business logic of adding copies.
//
// Business Rules:
//
//	GIVEN: an item in the catalog
//	WHEN: AddCopies command from an admin is received
//	THEN: CopiesAddedToItem event, quantity and available grow by the number of copies
//	ERROR: Unauthorized if the actor is anonymous
//	ERROR: Forbidden if the actor is not an admin
//	ERROR: InvalidItem if copies is not positive or the item does not exist
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{
		ItemID:     command.ItemID.String(),
		BorrowerID: command.Actor.BorrowerID.String(),
	}

	if !command.Actor.IsAuthenticated() {
		return core.FailedDecision(core.AddingCopiesFailedEventType, refs, core.ErrUnauthorized, command.OccurredAt)
	}

	if !command.Actor.IsAdmin() {
		return core.FailedDecision(core.AddingCopiesFailedEventType, refs, core.ErrForbidden, command.OccurredAt)
	}

	if command.Copies <= 0 {
		return core.FailedDecision(core.AddingCopiesFailedEventType, refs,
			fmt.Errorf("%w: copies must be positive, got %d", core.ErrInvalidItem, command.Copies), command.OccurredAt)
	}

	if facts.Item == nil {
		return core.FailedDecision(core.AddingCopiesFailedEventType, refs,
			fmt.Errorf("%w: %w", core.ErrInvalidItem, ledger.ErrItemNotFound), command.OccurredAt)
	}

	next := grownCounters(*facts.Item, command.Copies)

	return core.SuccessDecision(
		core.BuildCopiesAddedToItem(
			command.ItemID, command.Actor.BorrowerID, command.Copies,
			next.Quantity, next.Available, command.OccurredAt,
		),
	)
}

func grownCounters(item ledger.Item, copies int) ledger.Counters {
	return ledger.Counters{Quantity: item.Quantity + copies, Available: item.Available + copies}
}
