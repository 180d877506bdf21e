package itemsincirculation

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// ProjectItemsInCirculation builds the result from items in the order they are given.
func ProjectItemsInCirculation(items []ledger.Item) ItemsInCirculation {
	result := ItemsInCirculation{Items: make([]ItemInfo, 0, len(items))}

	for _, item := range items {
		result.Items = append(result.Items, ItemInfo{
			ItemID:    item.ID.String(),
			Title:     item.Title,
			Quantity:  item.Quantity,
			Available: item.Available,
			Borrowed:  item.Quantity - item.Available,
			CreatedAt: item.CreatedAt,
		})

		result.TotalQuantity += item.Quantity
		result.TotalAvailable += item.Available
	}

	result.Count = len(result.Items)

	return result
}
