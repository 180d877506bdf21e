package pendinglosses

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// ProjectPendingLosses joins the pending records with their item titles. The record order is kept.
func ProjectPendingLosses(records []ledger.BorrowRecord, items []ledger.Item) PendingLosses {
	titles := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Title
	}

	losses := make([]PendingLoss, 0, len(records))
	for _, r := range records {
		losses = append(losses, PendingLoss{
			RecordID:   r.ID.String(),
			ItemID:     r.ItemID.String(),
			Title:      titles[r.ItemID],
			BorrowerID: r.BorrowerID.String(),
			BorrowedAt: r.BorrowedAt,
		})
	}

	return PendingLosses{Losses: losses, Count: len(losses)}
}
