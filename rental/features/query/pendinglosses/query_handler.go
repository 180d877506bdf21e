package pendinglosses

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Store defines the ledger reads needed by the QueryHandler.
type Store interface {
	PendingLossRecords(ctx context.Context) ([]ledger.BorrowRecord, error)
	Items(ctx context.Context) ([]ledger.Item, error)
}

// QueryHandler lists pending losses for admins.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query: Authorize -> Load -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (PendingLosses, error) {
	if !query.Actor.IsAuthenticated() {
		return PendingLosses{}, fmt.Errorf("%s: %w", queryType, core.ErrUnauthorized)
	}

	if !query.Actor.IsAdmin() {
		return PendingLosses{}, fmt.Errorf("%s: %w", queryType, core.ErrForbidden)
	}

	ctx = ledger.PreferEventualConsistency(ctx)

	records, err := h.store.PendingLossRecords(ctx)
	if err != nil {
		return PendingLosses{}, err
	}

	items, err := h.store.Items(ctx)
	if err != nil {
		return PendingLosses{}, err
	}

	return ProjectPendingLosses(records, items), nil
}
