package restockcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "RestockCopy"
)

// Command represents the intent of an admin to put one copy back on the shelf.
type Command struct {
	Actor      core.Actor
	ItemID     uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, itemID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		ItemID:     itemID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
