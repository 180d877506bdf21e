package remainingborrowslots

import (
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	queryType = "RemainingBorrowSlots"
)

// Query represents the intent to ask for the actor's remaining borrow slots.
type Query struct {
	Actor core.Actor
}

// BuildQuery creates a new Query for the given actor.
func BuildQuery(actor core.Actor) Query {
	return Query{
		Actor: actor,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
