package ledgerjournal

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	queryType = "LedgerJournal"

	defaultLimit = 100
)

// Query represents the intent to read journal entries. uuid.Nil filters are ignored.
type Query struct {
	Actor      core.Actor
	ItemID     uuid.UUID
	BorrowerID uuid.UUID
	Limit      int
}

// BuildQuery creates a new Query. A non-positive limit falls back to 100 entries.
func BuildQuery(actor core.Actor, itemID uuid.UUID, borrowerID uuid.UUID, limit int) Query {
	if limit <= 0 {
		limit = defaultLimit
	}

	return Query{
		Actor:      actor,
		ItemID:     itemID,
		BorrowerID: borrowerID,
		Limit:      limit,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
