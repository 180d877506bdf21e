package reportloss

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "ReportLoss"
)

// Command represents the intent of a borrower to report a held copy as lost.
type Command struct {
	Actor      core.Actor
	ItemID     uuid.UUID
	Payment    core.PaymentDetails
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, itemID uuid.UUID, payment core.PaymentDetails, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		ItemID:     itemID,
		Payment:    payment,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
