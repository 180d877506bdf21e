package postgresengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine/internal/adapters"
)

func scanItem(rows adapters.DBRows) (ledger.Item, error) {
	var item ledger.Item
	err := rows.Scan(&item.ID, &item.Title, &item.Quantity, &item.Available, &item.CreatedAt)

	return item, err
}

// ItemByID loads one item. It returns ledger.ErrItemNotFound if no such item exists.
func (s Store) ItemByID(ctx context.Context, id uuid.UUID) (ledger.Item, error) {
	var item ledger.Item

	err := s.observe(ctx, operationItemByID, func(ctx context.Context) error {
		sqlQuery, err := s.buildSelectItemsQuery(&id)
		if err != nil {
			return err
		}

		items, err := collect(ctx, s, operationItemByID, sqlQuery, scanItem)
		if err != nil {
			return err
		}

		if len(items) == 0 {
			return ledger.ErrItemNotFound
		}

		item = items[0]

		return nil
	})

	return item, err
}

// Items loads all items ordered by title.
func (s Store) Items(ctx context.Context) ([]ledger.Item, error) {
	var items []ledger.Item

	err := s.observe(ctx, operationItems, func(ctx context.Context) error {
		sqlQuery, err := s.buildSelectItemsQuery(nil)
		if err != nil {
			return err
		}

		items, err = collect(ctx, s, operationItems, sqlQuery, scanItem)

		return err
	})

	return items, err
}

// InsertItem stores a new item. It reports false, without error, if the id already exists.
func (s Store) InsertItem(ctx context.Context, item ledger.Item) (bool, error) {
	if !item.Counters().Valid() {
		return false, ledger.ErrInvalidCounters
	}

	var inserted bool

	err := s.observe(ctx, operationInsertItem, func(ctx context.Context) error {
		sqlQuery, err := s.buildInsertItemQuery(item)
		if err != nil {
			return err
		}

		rowsAffected, err := s.exec(ctx, operationInsertItem, sqlQuery)
		inserted = rowsAffected == 1

		return err
	})

	return inserted, err
}

// CompareAndSwapItemCounters writes next if the stored counters still equal expected.
// It returns ledger.ErrConcurrencyConflict otherwise.
func (s Store) CompareAndSwapItemCounters(ctx context.Context, id uuid.UUID, expected, next ledger.Counters) error {
	if !next.Valid() {
		return ledger.ErrInvalidCounters
	}

	return s.observe(ctx, operationSwapItemCounters, func(ctx context.Context) error {
		sqlQuery, err := s.buildSwapItemCountersQuery(id, expected, next)
		if err != nil {
			return err
		}

		return s.execExpectingOneRow(ctx, operationSwapItemCounters, sqlQuery)
	})
}
