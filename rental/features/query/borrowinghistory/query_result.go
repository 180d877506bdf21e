package borrowinghistory

import (
	"time"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Entry is one borrow record of the history. ReturnedAt is nil while the copy is out.
// Status is ACTIVE, RETURNED, PENDING_LOSS or CONFIRMED_LOSS.
type Entry struct {
	RecordID   core.RecordIDString
	ItemID     core.ItemIDString
	Title      string
	BorrowedAt time.Time
	ReturnedAt *time.Time
	Status     string
	Held       bool
}

// BorrowingHistory represents the query result.
type BorrowingHistory struct {
	BorrowerID    core.BorrowerIDString
	Entries       []Entry
	Count         int
	CurrentlyHeld int
}
