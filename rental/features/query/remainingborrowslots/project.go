package remainingborrowslots

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// ProjectRemainingSlots computes the result from the borrower and their active records.
func ProjectRemainingSlots(borrower ledger.Borrower, records []ledger.BorrowRecord) RemainingSlots {
	held := core.CountSlotsHeld(records)

	return RemainingSlots{
		BorrowerID:     borrower.ID.String(),
		BorrowLimit:    borrower.BorrowLimit,
		SlotsHeld:      held,
		RemainingSlots: core.RemainingSlots(borrower.BorrowLimit, held),
	}
}
