package borrowinghistory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Store defines the ledger reads needed by the QueryHandler.
type Store interface {
	BorrowRecordsForBorrower(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error)
	Items(ctx context.Context) ([]ledger.Item, error)
}

// QueryHandler lists a borrower's history.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query: Authorize -> Load -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowingHistory, error) {
	if !query.Actor.IsAuthenticated() {
		return BorrowingHistory{}, fmt.Errorf("%s: %w", queryType, core.ErrUnauthorized)
	}

	if query.BorrowerID != query.Actor.BorrowerID && !query.Actor.IsAdmin() {
		return BorrowingHistory{}, fmt.Errorf("%s: %w", queryType, core.ErrForbidden)
	}

	ctx = ledger.PreferEventualConsistency(ctx)

	records, err := h.store.BorrowRecordsForBorrower(ctx, query.BorrowerID)
	if err != nil {
		return BorrowingHistory{}, err
	}

	items, err := h.store.Items(ctx)
	if err != nil {
		return BorrowingHistory{}, err
	}

	return ProjectBorrowingHistory(query.BorrowerID, records, items), nil
}
