package recountinventory

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the state of one item at recount time.
type Facts struct {
	Item       ledger.Item
	CopiesHeld int
}

// Decide implements the business logic of recounting one item.
//
// Business Rules:
//
//	GIVEN: an item and the number of its copies held by borrowers
//	WHEN: RecountInventory runs
//	THEN: InventoryRecounted event with quantity = available + copies held
//	IDEMPOTENCY: if quantity already matches, no event is generated
func Decide(facts Facts, command Command) core.DecisionResult {
	recounted := recountedCounters(facts)

	if recounted == facts.Item.Counters() {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildInventoryRecounted(
			facts.Item.ID,
			facts.Item.Quantity,
			recounted.Quantity,
			recounted.Available,
			facts.CopiesHeld,
			command.OccurredAt,
		),
	)
}

func recountedCounters(facts Facts) ledger.Counters {
	return ledger.Counters{
		Quantity:  facts.Item.Available + facts.CopiesHeld,
		Available: facts.Item.Available,
	}
}
