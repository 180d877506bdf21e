package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// ItemIDString represents an item identifier.
type ItemIDString = string

// BorrowerIDString represents a borrower identifier.
type BorrowerIDString = string

// RecordIDString represents a borrow record identifier.
type RecordIDString = string

// EventTypeString represents the type of domain event.
type EventTypeString = string

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// ToCalendarDate cuts t down to midnight UTC of its day.
func ToCalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RemainingSlots is max(0, limit - held).
func RemainingSlots(limit int, held int) int {
	if held >= limit {
		return 0
	}

	return limit - held
}

// CountSlotsHeld counts the records that count against a borrower's limit.
func CountSlotsHeld(records []ledger.BorrowRecord) int {
	held := 0

	for _, r := range records {
		if r.HoldsSlot() {
			held++
		}
	}

	return held
}

// FindHeldRecord returns the oldest record for itemID that still holds a slot and has one of
// the given statuses. records are expected oldest first.
func FindHeldRecord(records []ledger.BorrowRecord, itemID uuid.UUID, statuses ...ledger.BorrowStatus) (ledger.BorrowRecord, bool) {
	for _, r := range records {
		if r.ItemID != itemID || !r.HoldsSlot() {
			continue
		}

		for _, status := range statuses {
			if r.Status == status {
				return r, true
			}
		}
	}

	return ledger.BorrowRecord{}, false
}
