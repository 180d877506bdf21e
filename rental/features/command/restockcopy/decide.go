package restockcopy

import (
	"fmt"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on. Item is nil when it does not exist.
type Facts struct {
	Item *ledger.Item
}

// Decide implements the business logic of restocking a copy.
//
// Business Rules:
//
//	GIVEN: an item in the catalog
//	WHEN: RestockCopy command from an admin is received
//	THEN: CopyRestocked event with available increased by one
//	WARNING: AvailabilityClamped if available already equals quantity (available unchanged)
//	ERROR: Unauthorized if the actor is anonymous
//	ERROR: Forbidden if the actor is not an admin
//	ERROR: InvalidItem if the item does not exist
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{
		ItemID:     command.ItemID.String(),
		BorrowerID: command.Actor.BorrowerID.String(),
	}

	if !command.Actor.IsAuthenticated() {
		return core.FailedDecision(core.RestockingCopyFailedEventType, refs, core.ErrUnauthorized, command.OccurredAt)
	}

	if !command.Actor.IsAdmin() {
		return core.FailedDecision(core.RestockingCopyFailedEventType, refs, core.ErrForbidden, command.OccurredAt)
	}

	if facts.Item == nil {
		return core.FailedDecision(core.RestockingCopyFailedEventType, refs,
			fmt.Errorf("%w: %w", core.ErrInvalidItem, ledger.ErrItemNotFound), command.OccurredAt)
	}

	if facts.Item.Available >= facts.Item.Quantity {
		return core.WarningDecision(
			core.BuildCopyRestocked(command.ItemID, command.Actor.BorrowerID, facts.Item.Available, true, command.OccurredAt),
			core.ErrAvailabilityClamped,
		)
	}

	return core.SuccessDecision(
		core.BuildCopyRestocked(command.ItemID, command.Actor.BorrowerID, facts.Item.Available+1, false, command.OccurredAt),
	)
}
