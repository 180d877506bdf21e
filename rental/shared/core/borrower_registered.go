package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// BorrowerRegisteredEventType is the event type identifier.
const BorrowerRegisteredEventType = "BorrowerRegistered"

// BorrowerRegistered represents when a member is registered as a borrower.
type BorrowerRegistered struct {
	EventType   EventTypeString
	BorrowerID  BorrowerIDString
	Name        string
	Role        string
	BorrowLimit int
	OccurredAt  OccurredAt
}

// BuildBorrowerRegistered creates a new BorrowerRegistered event.
func BuildBorrowerRegistered(
	borrowerID uuid.UUID,
	name string,
	role ledger.Role,
	borrowLimit int,
	occurredAt time.Time,
) BorrowerRegistered {

	return BorrowerRegistered{
		EventType:   BorrowerRegisteredEventType,
		BorrowerID:  borrowerID.String(),
		Name:        name,
		Role:        string(role),
		BorrowLimit: borrowLimit,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BorrowerRegistered) IsEventType() string {
	return BorrowerRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e BorrowerRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BorrowerRegistered) IsErrorEvent() bool {
	return false
}
