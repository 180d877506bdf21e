package itemsincirculation

import (
	"context"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Store defines the ledger reads needed by the QueryHandler.
type Store interface {
	Items(ctx context.Context) ([]ledger.Item, error)
}

// QueryHandler lists the inventory.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query: Load -> Project.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (ItemsInCirculation, error) {
	ctx = ledger.PreferEventualConsistency(ctx)

	items, err := h.store.Items(ctx)
	if err != nil {
		return ItemsInCirculation{}, err
	}

	return ProjectItemsInCirculation(items), nil
}
