package pendinglosses

import (
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	queryType = "PendingLosses"
)

// Query represents the intent of an admin to list pending loss reports.
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
