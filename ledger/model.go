package ledger

import (
	"time"

	"github.com/google/uuid"
)

// BorrowStatus is the loss state of a borrow record. The zero value means "no loss reported".
type BorrowStatus string

const (
	StatusNone          BorrowStatus = ""
	StatusPendingLoss   BorrowStatus = "PENDING_LOSS"
	StatusConfirmedLoss BorrowStatus = "CONFIRMED_LOSS"
)

// Role is the borrower's role as known to the identity collaborator.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Counters holds the two inventory counters of an Item.
type Counters struct {
	Quantity  int
	Available int
}

// Valid reports whether the counters satisfy 0 <= available <= quantity.
func (c Counters) Valid() bool {
	return c.Available >= 0 && c.Available <= c.Quantity
}

// Item is a catalog entry (a movie) with its inventory counters.
type Item struct {
	ID        uuid.UUID
	Title     string
	Quantity  int
	Available int
	CreatedAt time.Time
}

// Counters returns the item's counters as a value.
func (i Item) Counters() Counters {
	return Counters{Quantity: i.Quantity, Available: i.Available}
}

// Borrower is a member who may hold up to BorrowLimit records at the same time.
// Version is bumped by every borrow so that concurrent borrows of the same borrower conflict.
type Borrower struct {
	ID           uuid.UUID
	Name         string
	Role         Role
	BorrowLimit  int
	Version      int64
	RegisteredAt time.Time
}

// BorrowRecord is one borrowing of one copy of an Item by a Borrower.
type BorrowRecord struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	BorrowerID uuid.UUID
	BorrowedAt time.Time
	ReturnedAt *time.Time
	Status     BorrowStatus
}

// IsUnreturned reports whether the record has no return timestamp yet.
func (r BorrowRecord) IsUnreturned() bool {
	return r.ReturnedAt == nil
}

// HoldsSlot reports whether the record counts against the borrower's limit:
// unreturned and either without loss report or with a pending one.
func (r BorrowRecord) HoldsSlot() bool {
	return r.IsUnreturned() && (r.Status == StatusNone || r.Status == StatusPendingLoss)
}

// HoldsCopy reports whether the record keeps a copy out of the shelf that is still owned,
// i.e. it is unreturned and not a confirmed loss.
func (r BorrowRecord) HoldsCopy() bool {
	return r.IsUnreturned() && r.Status != StatusConfirmedLoss
}

// BorrowRecords is a slice of BorrowRecord.
type BorrowRecords = []BorrowRecord

// JournalEntry is an audit line written for every ledger decision.
type JournalEntry struct {
	SequenceNumber int64
	EntryType      string
	OccurredAt     time.Time
	ItemID         *uuid.UUID
	BorrowerID     *uuid.UUID
	PayloadJSON    []byte
	MetadataJSON   []byte
}

// JournalFilter selects journal entries by item and/or borrower. Zero-value fields are ignored.
type JournalFilter struct {
	ItemID     uuid.UUID
	BorrowerID uuid.UUID
	Limit      int
}
