package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// IdempotentDecision(), SuccessDecision(event), WarningDecision(event, err) or ErrorDecision(event, err).
type DecisionResult struct {
	Outcome string      // "idempotent", "success", "warning", or "error"
	Event   DomainEvent // nil for idempotent decisions
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	warningOutcome    = "warning"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
		Event:   nil,
	}
}

// SuccessDecision creates a DecisionResult indicating a successful state change.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Event:   event,
	}
}

// WarningDecision creates a DecisionResult for a state change that is applied only partially.
// err describes what was left out.
func WarningDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{
		Outcome: warningOutcome,
		Event:   event,
		Err:     err,
	}
}

// ErrorDecision creates a DecisionResult indicating a business rule violation with a failure event to journal.
func ErrorDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Event:   event,
		Err:     err,
	}
}

// HasEventToAppend returns true if there is an event to journal.
func (r DecisionResult) HasEventToAppend() bool {
	return r.Outcome != idempotentOutcome
}

// IsIdempotent returns true if no state change is needed.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasStateChange returns true if the decision changes state, fully or partially.
func (r DecisionResult) HasStateChange() bool {
	return r.Outcome == successOutcome || r.Outcome == warningOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}

// HasWarning returns the warning if there is one, otherwise nil.
func (r DecisionResult) HasWarning() error {
	if r.Outcome == warningOutcome {
		return r.Err
	}

	return nil
}
