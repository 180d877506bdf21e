package remainingborrowslots

import (
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// RemainingSlots represents the query result.
type RemainingSlots struct {
	BorrowerID     core.BorrowerIDString
	BorrowLimit    int
	SlotsHeld      int
	RemainingSlots int
}
