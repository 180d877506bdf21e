package borrowitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "BorrowItem"
)

// Command represents the intent of a borrower to borrow one copy of an item.
// RecordID is fixed when the command is built so that retries write the same record.
type Command struct {
	Actor      core.Actor
	ItemID     uuid.UUID
	RecordID   uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh record id.
func BuildCommand(actor core.Actor, itemID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		ItemID:     itemID,
		RecordID:   uuid.New(),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
