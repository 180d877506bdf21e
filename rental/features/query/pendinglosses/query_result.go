package pendinglosses

import (
	"time"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// PendingLoss is one record waiting for confirmation.
type PendingLoss struct {
	RecordID   core.RecordIDString
	ItemID     core.ItemIDString
	Title      string
	BorrowerID core.BorrowerIDString
	BorrowedAt time.Time
}

// PendingLosses represents the query result.
type PendingLosses struct {
	Losses []PendingLoss
	Count  int
}
