package additem

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "AddItem"
)

// Command represents the intent to add a movie to the catalog.
type Command struct {
	ItemID     uuid.UUID
	Title      string
	Quantity   int
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters. The title is trimmed.
func BuildCommand(itemID uuid.UUID, title string, quantity int, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		Title:      strings.TrimSpace(title),
		Quantity:   quantity,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
