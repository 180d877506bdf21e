package reportloss

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on.
type Facts struct {
	ActiveRecords ledger.BorrowRecords
}

// reportableRecord is the oldest record of the item without a loss report.
func reportableRecord(facts Facts, command Command) (ledger.BorrowRecord, bool) {
	return core.FindHeldRecord(facts.ActiveRecords, command.ItemID, ledger.StatusNone)
}

// Decide implements the business logic of reporting a loss.
//
// Business Rules:
//
//	GIVEN: the acting borrower holds the item without a loss report
//	WHEN: ReportLoss command with valid card details is received
//	THEN: LossReported event, the record becomes PENDING_LOSS
//	ERROR: Unauthorized if the actor is anonymous
//	ERROR: InvalidPaymentDetails if the card details do not validate
//	ERROR: NoActiveBorrow if the borrower does not hold the item
//	IDEMPOTENCY: if the item is already pending loss for this borrower, no event is generated
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{
		ItemID:     command.ItemID.String(),
		BorrowerID: command.Actor.BorrowerID.String(),
	}

	if !command.Actor.IsAuthenticated() {
		return core.FailedDecision(core.ReportingLossFailedEventType, refs, core.ErrUnauthorized, command.OccurredAt)
	}

	if err := command.Payment.Validate(command.OccurredAt); err != nil {
		return core.FailedDecision(core.ReportingLossFailedEventType, refs, err, command.OccurredAt)
	}

	if record, found := reportableRecord(facts, command); found {
		return core.SuccessDecision(
			core.BuildLossReported(record.ID, command.ItemID, record.BorrowerID, command.Payment.Last4(), command.OccurredAt),
		)
	}

	if _, pending := core.FindHeldRecord(facts.ActiveRecords, command.ItemID, ledger.StatusPendingLoss); pending {
		return core.IdempotentDecision()
	}

	return core.FailedDecision(core.ReportingLossFailedEventType, refs, core.ErrNoActiveBorrow, command.OccurredAt)
}
