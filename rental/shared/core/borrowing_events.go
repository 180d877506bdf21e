package core

import (
	"time"

	"github.com/google/uuid"
)

// ItemBorrowedEventType is the event type identifier.
const ItemBorrowedEventType = "ItemBorrowed"

// ItemBorrowed represents when a borrower takes a copy of an item off the shelf.
// Available and RemainingSlots are the counters after the borrow.
type ItemBorrowed struct {
	EventType      EventTypeString
	RecordID       RecordIDString
	ItemID         ItemIDString
	BorrowerID     BorrowerIDString
	Available      int
	RemainingSlots int
	OccurredAt     OccurredAt
}

// BuildItemBorrowed creates a new ItemBorrowed event.
func BuildItemBorrowed(
	recordID uuid.UUID,
	itemID uuid.UUID,
	borrowerID uuid.UUID,
	available int,
	remainingSlots int,
	occurredAt time.Time,
) ItemBorrowed {

	return ItemBorrowed{
		EventType:      ItemBorrowedEventType,
		RecordID:       recordID.String(),
		ItemID:         itemID.String(),
		BorrowerID:     borrowerID.String(),
		Available:      available,
		RemainingSlots: remainingSlots,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemBorrowed) IsEventType() string {
	return ItemBorrowedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemBorrowed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ItemBorrowed) IsErrorEvent() bool {
	return false
}

// ItemReturnedEventType is the event type identifier.
const ItemReturnedEventType = "ItemReturned"

// ItemReturned represents when a borrower brings a copy back. Clamped is set when available
// was already equal to quantity and therefore not increased.
type ItemReturned struct {
	EventType  EventTypeString
	RecordID   RecordIDString
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	Available  int
	Clamped    bool
	OccurredAt OccurredAt
}

// BuildItemReturned creates a new ItemReturned event.
func BuildItemReturned(
	recordID uuid.UUID,
	itemID uuid.UUID,
	borrowerID uuid.UUID,
	available int,
	clamped bool,
	occurredAt time.Time,
) ItemReturned {

	return ItemReturned{
		EventType:  ItemReturnedEventType,
		RecordID:   recordID.String(),
		ItemID:     itemID.String(),
		BorrowerID: borrowerID.String(),
		Available:  available,
		Clamped:    clamped,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemReturned) IsEventType() string {
	return ItemReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ItemReturned) IsErrorEvent() bool {
	return false
}

// LossReportedEventType is the event type identifier.
const LossReportedEventType = "LossReported"

// LossReported represents when a borrower flags a borrowed copy as lost.
type LossReported struct {
	EventType  EventTypeString
	RecordID   RecordIDString
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	CardLast4  string
	OccurredAt OccurredAt
}

// BuildLossReported creates a new LossReported event.
func BuildLossReported(
	recordID uuid.UUID,
	itemID uuid.UUID,
	borrowerID uuid.UUID,
	cardLast4 string,
	occurredAt time.Time,
) LossReported {

	return LossReported{
		EventType:  LossReportedEventType,
		RecordID:   recordID.String(),
		ItemID:     itemID.String(),
		BorrowerID: borrowerID.String(),
		CardLast4:  cardLast4,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LossReported) IsEventType() string {
	return LossReportedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LossReported) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e LossReported) IsErrorEvent() bool {
	return false
}

// LossConfirmedEventType is the event type identifier.
const LossConfirmedEventType = "LossConfirmed"

// LossConfirmed represents when an admin confirms a reported loss and closes the record.
// QuantityReduced is false when the lost copy could not be removed from the item's quantity.
type LossConfirmed struct {
	EventType       EventTypeString
	RecordID        RecordIDString
	ItemID          ItemIDString
	BorrowerID      BorrowerIDString
	ConfirmedBy     BorrowerIDString
	Quantity        int
	QuantityReduced bool
	OccurredAt      OccurredAt
}

// BuildLossConfirmed creates a new LossConfirmed event. quantity is the item's quantity afterward.
func BuildLossConfirmed(
	recordID uuid.UUID,
	itemID uuid.UUID,
	borrowerID uuid.UUID,
	confirmedBy uuid.UUID,
	quantity int,
	quantityReduced bool,
	occurredAt time.Time,
) LossConfirmed {

	return LossConfirmed{
		EventType:       LossConfirmedEventType,
		RecordID:        recordID.String(),
		ItemID:          itemID.String(),
		BorrowerID:      borrowerID.String(),
		ConfirmedBy:     confirmedBy.String(),
		Quantity:        quantity,
		QuantityReduced: quantityReduced,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LossConfirmed) IsEventType() string {
	return LossConfirmedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LossConfirmed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e LossConfirmed) IsErrorEvent() bool {
	return false
}
