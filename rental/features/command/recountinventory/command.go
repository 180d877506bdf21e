package recountinventory

import (
	"time"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "RecountInventory"
)

// Command represents the intent to recount the quantity of every item.
type Command struct {
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(occurredAt time.Time) Command {
	return Command{
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
