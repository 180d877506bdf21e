package borrowinghistory

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

const (
	statusActive   = "ACTIVE"
	statusReturned = "RETURNED"
)

// ProjectBorrowingHistory builds the history from records that are already ordered newest first.
func ProjectBorrowingHistory(borrowerID uuid.UUID, records []ledger.BorrowRecord, items []ledger.Item) BorrowingHistory {
	titles := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Title
	}

	result := BorrowingHistory{
		BorrowerID: borrowerID.String(),
		Entries:    make([]Entry, 0, len(records)),
	}

	for _, r := range records {
		status := string(r.Status)
		switch {
		case r.Status != ledger.StatusNone:
		case r.IsUnreturned():
			status = statusActive
		default:
			status = statusReturned
		}

		if r.HoldsSlot() {
			result.CurrentlyHeld++
		}

		result.Entries = append(result.Entries, Entry{
			RecordID:   r.ID.String(),
			ItemID:     r.ItemID.String(),
			Title:      titles[r.ItemID],
			BorrowedAt: r.BorrowedAt,
			ReturnedAt: r.ReturnedAt,
			Status:     status,
			Held:       r.HoldsSlot(),
		})
	}

	result.Count = len(result.Entries)

	return result
}
