package ledgerjournal

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Store defines the ledger reads needed by the QueryHandler.
type Store interface {
	JournalEntries(ctx context.Context, filter ledger.JournalFilter) ([]ledger.JournalEntry, error)
}

// QueryHandler reads the journal.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query: Authorize -> Load -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Journal, error) {
	if !query.Actor.IsAuthenticated() {
		return Journal{}, fmt.Errorf("%s: %w", queryType, core.ErrUnauthorized)
	}

	if !query.Actor.IsAdmin() && query.BorrowerID != query.Actor.BorrowerID {
		return Journal{}, fmt.Errorf("%s: %w", queryType, core.ErrForbidden)
	}

	entries, err := h.store.JournalEntries(ctx, ledger.JournalFilter{
		ItemID:     query.ItemID,
		BorrowerID: query.BorrowerID,
		Limit:      query.Limit,
	})
	if err != nil {
		return Journal{}, err
	}

	return ProjectJournal(entries)
}
