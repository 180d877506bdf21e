package core

import (
	"time"

	"github.com/google/uuid"
)

// ItemAddedToCatalogEventType is the event type identifier.
const ItemAddedToCatalogEventType = "ItemAddedToCatalog"

// ItemAddedToCatalog represents when a movie is added to the catalog with its initial copies.
type ItemAddedToCatalog struct {
	EventType  EventTypeString
	ItemID     ItemIDString
	Title      string
	Quantity   int
	OccurredAt OccurredAt
}

// BuildItemAddedToCatalog creates a new ItemAddedToCatalog event.
func BuildItemAddedToCatalog(itemID uuid.UUID, title string, quantity int, occurredAt time.Time) ItemAddedToCatalog {
	return ItemAddedToCatalog{
		EventType:  ItemAddedToCatalogEventType,
		ItemID:     itemID.String(),
		Title:      title,
		Quantity:   quantity,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemAddedToCatalog) IsEventType() string {
	return ItemAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ItemAddedToCatalog) IsErrorEvent() bool {
	return false
}

// CopiesAddedToItemEventType is the event type identifier.
const CopiesAddedToItemEventType = "CopiesAddedToItem"

// CopiesAddedToItem represents when an admin adds copies of an existing movie.
type CopiesAddedToItem struct {
	EventType  EventTypeString
	ItemID     ItemIDString
	AddedBy    BorrowerIDString
	Copies     int
	Quantity   int
	Available  int
	OccurredAt OccurredAt
}

// BuildCopiesAddedToItem creates a new CopiesAddedToItem event. quantity and available are the new counters.
func BuildCopiesAddedToItem(
	itemID uuid.UUID,
	addedBy uuid.UUID,
	copies int,
	quantity int,
	available int,
	occurredAt time.Time,
) CopiesAddedToItem {

	return CopiesAddedToItem{
		EventType:  CopiesAddedToItemEventType,
		ItemID:     itemID.String(),
		AddedBy:    addedBy.String(),
		Copies:     copies,
		Quantity:   quantity,
		Available:  available,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopiesAddedToItem) IsEventType() string {
	return CopiesAddedToItemEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopiesAddedToItem) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CopiesAddedToItem) IsErrorEvent() bool {
	return false
}

// InventoryRecountedEventType is the event type identifier.
const InventoryRecountedEventType = "InventoryRecounted"

// InventoryRecounted represents a repaired quantity: quantity = available + copies held.
type InventoryRecounted struct {
	EventType        EventTypeString
	ItemID           ItemIDString
	PreviousQuantity int
	Quantity         int
	Available        int
	CopiesHeld       int
	OccurredAt       OccurredAt
}

// BuildInventoryRecounted creates a new InventoryRecounted event.
func BuildInventoryRecounted(
	itemID uuid.UUID,
	previousQuantity int,
	quantity int,
	available int,
	copiesHeld int,
	occurredAt time.Time,
) InventoryRecounted {

	return InventoryRecounted{
		EventType:        InventoryRecountedEventType,
		ItemID:           itemID.String(),
		PreviousQuantity: previousQuantity,
		Quantity:         quantity,
		Available:        available,
		CopiesHeld:       copiesHeld,
		OccurredAt:       ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e InventoryRecounted) IsEventType() string {
	return InventoryRecountedEventType
}

// HasOccurredAt returns when this event occurred.
func (e InventoryRecounted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e InventoryRecounted) IsErrorEvent() bool {
	return false
}

// CopiesWrittenOffEventType is the event type identifier.
const CopiesWrittenOffEventType = "CopiesWrittenOff"

// CopiesWrittenOff represents copies lost on the company side, for example damaged stock.
// quantity and available both shrink by Copies.
type CopiesWrittenOff struct {
	EventType    EventTypeString
	ItemID       ItemIDString
	WrittenOffBy BorrowerIDString
	Copies       int
	Quantity     int
	Available    int
	OccurredAt   OccurredAt
}

// BuildCopiesWrittenOff creates a new CopiesWrittenOff event. quantity and available are the new counters.
func BuildCopiesWrittenOff(
	itemID uuid.UUID,
	writtenOffBy uuid.UUID,
	copies int,
	quantity int,
	available int,
	occurredAt time.Time,
) CopiesWrittenOff {

	return CopiesWrittenOff{
		EventType:    CopiesWrittenOffEventType,
		ItemID:       itemID.String(),
		WrittenOffBy: writtenOffBy.String(),
		Copies:       copies,
		Quantity:     quantity,
		Available:    available,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopiesWrittenOff) IsEventType() string {
	return CopiesWrittenOffEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopiesWrittenOff) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CopiesWrittenOff) IsErrorEvent() bool {
	return false
}

// CopyRestockedEventType is the event type identifier.
const CopyRestockedEventType = "CopyRestocked"

// CopyRestocked represents an admin putting one copy back on the shelf.
// Clamped is true when available already equaled quantity and stayed unchanged.
type CopyRestocked struct {
	EventType   EventTypeString
	ItemID      ItemIDString
	RestockedBy BorrowerIDString
	Available   int
	Clamped     bool
	OccurredAt  OccurredAt
}

// BuildCopyRestocked creates a new CopyRestocked event. available is the new counter.
func BuildCopyRestocked(
	itemID uuid.UUID,
	restockedBy uuid.UUID,
	available int,
	clamped bool,
	occurredAt time.Time,
) CopyRestocked {

	return CopyRestocked{
		EventType:   CopyRestockedEventType,
		ItemID:      itemID.String(),
		RestockedBy: restockedBy.String(),
		Available:   available,
		Clamped:     clamped,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyRestocked) IsEventType() string {
	return CopyRestockedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyRestocked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CopyRestocked) IsErrorEvent() bool {
	return false
}
