package remainingborrowslots

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Store defines the ledger reads needed by the QueryHandler.
type Store interface {
	BorrowerByID(ctx context.Context, id uuid.UUID) (ledger.Borrower, error)
	ActiveBorrowRecords(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error)
}

// QueryHandler loads the borrower and their active records and projects the remaining slots.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query: Load -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (RemainingSlots, error) {
	if !query.Actor.IsAuthenticated() {
		return RemainingSlots{}, nil
	}

	ctx = ledger.WithStrongConsistency(ctx)

	borrower, err := h.store.BorrowerByID(ctx, query.Actor.BorrowerID)
	if errors.Is(err, ledger.ErrBorrowerNotFound) {
		return RemainingSlots{BorrowerID: query.Actor.BorrowerID.String()}, nil
	}

	if err != nil {
		return RemainingSlots{}, err
	}

	records, err := h.store.ActiveBorrowRecords(ctx, borrower.ID)
	if err != nil {
		return RemainingSlots{}, err
	}

	return ProjectRemainingSlots(borrower, records), nil
}
