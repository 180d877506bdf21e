package registerborrower

import (
	"fmt"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// Facts is the current state the decision is based on. Existing is nil for a new borrower id.
type Facts struct {
	Existing *ledger.Borrower
}

// Decide implements the business logic of registering a borrower.
//
// Business Rules:
//
//	GIVEN: a borrower id that is not registered yet
//	WHEN: RegisterBorrower command is received
//	THEN: BorrowerRegistered event
//	ERROR: InvalidBorrower if the name is empty, the role is unknown or the limit is negative
//	IDEMPOTENCY: if the borrower already exists, no event is generated
func Decide(facts Facts, command Command) core.DecisionResult {
	refs := core.FailureRefs{BorrowerID: command.BorrowerID.String()}

	var invalid error

	switch {
	case command.Name == "":
		invalid = fmt.Errorf("%w: name must not be empty", core.ErrInvalidBorrower)
	case command.Role != ledger.RoleUser && command.Role != ledger.RoleAdmin:
		invalid = fmt.Errorf("%w: unknown role %q", core.ErrInvalidBorrower, command.Role)
	case command.BorrowLimit < 0:
		invalid = fmt.Errorf("%w: borrow limit must not be negative", core.ErrInvalidBorrower)
	}

	if invalid != nil {
		return core.FailedDecision(core.RegisteringBorrowerFailedEventType, refs, invalid, command.OccurredAt)
	}

	if facts.Existing != nil {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBorrowerRegistered(command.BorrowerID, command.Name, command.Role, command.BorrowLimit, command.OccurredAt),
	)
}
