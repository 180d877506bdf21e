package confirmloss

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "ConfirmLoss"
)

// Command represents the intent of an admin to confirm a reported loss.
type Command struct {
	Actor      core.Actor
	RecordID   uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, recordID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		RecordID:   recordID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
