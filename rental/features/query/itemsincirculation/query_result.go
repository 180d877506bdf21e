package itemsincirculation

import (
	"time"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// ItemInfo is one catalog item with its counters.
type ItemInfo struct {
	ItemID    core.ItemIDString
	Title     string
	Quantity  int
	Available int
	Borrowed  int
	CreatedAt time.Time
}

// ItemsInCirculation represents the query result.
type ItemsInCirculation struct {
	Items          []ItemInfo
	Count          int
	TotalQuantity  int
	TotalAvailable int
}
