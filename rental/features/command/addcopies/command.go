package addcopies

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "AddCopies"
)

// Command represents the intent of an admin to add copies to an item.
type Command struct {
	Actor      core.Actor
	ItemID     uuid.UUID
	Copies     int
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, itemID uuid.UUID, copies int, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		ItemID:     itemID,
		Copies:     copies,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
