package additem

import (
	"fmt"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on. Existing is nil for a new item id.
type Facts struct {
	Existing *ledger.Item
}

// Decide implements the business logic of adding an item.
//
// Business Rules:
//
//	GIVEN: an item id that is not in the catalog yet
//	WHEN: AddItem command is received
//	THEN: ItemAddedToCatalog event with available = quantity
//	ERROR: InvalidItem if the title is empty or quantity is not positive
//	IDEMPOTENCY: if the item already exists, no event is generated
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{ItemID: command.ItemID.String()}

	if command.Title == "" {
		return core.FailedDecision(core.AddingItemFailedEventType, refs,
			fmt.Errorf("%w: title must not be empty", core.ErrInvalidItem), command.OccurredAt)
	}

	if command.Quantity <= 0 {
		return core.FailedDecision(core.AddingItemFailedEventType, refs,
			fmt.Errorf("%w: quantity must be positive, got %d", core.ErrInvalidItem, command.Quantity), command.OccurredAt)
	}

	if facts.Existing != nil {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildItemAddedToCatalog(command.ItemID, command.Title, command.Quantity, command.OccurredAt),
	)
}
