package borrowinghistory

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	queryType = "BorrowingHistory"
)

// Query represents the intent to list a borrower's records.
type Query struct {
	Actor      core.Actor
	BorrowerID uuid.UUID
}

// BuildQuery creates a new Query. A nil borrowerID means the actor's own history.
func BuildQuery(actor core.Actor, borrowerID uuid.UUID) Query {
	if borrowerID == uuid.Nil {
		borrowerID = actor.BorrowerID
	}

	return Query{
		Actor:      actor,
		BorrowerID: borrowerID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
