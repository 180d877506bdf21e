package core

import (
	"errors"
	"fmt"
)

// Business failures. Failure events wrap them so callers can match with errors.Is.
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = fmt.Errorf("%w: admin role required", ErrUnauthorized)
	ErrItemUnavailable       = errors.New("item unavailable")
	ErrCopiesOnLoan          = fmt.Errorf("%w: copies on loan cannot be written off", ErrItemUnavailable)
	ErrLimitExceeded         = errors.New("borrow limit exceeded")
	ErrDuplicateBorrow       = errors.New("item already borrowed by this borrower")
	ErrNoActiveBorrow        = errors.New("no active borrow")
	ErrNotPendingLoss        = fmt.Errorf("%w: record is not pending loss", ErrNoActiveBorrow)
	ErrInvalidPaymentDetails = errors.New("invalid payment details")
	ErrInvalidItem           = errors.New("invalid item")
	ErrInvalidBorrower       = errors.New("invalid borrower")
	ErrPersistenceFailure    = errors.New("persistence failure")
)

// Partial successes. The state change happened, but not completely.
var (
	ErrAvailabilityClamped = errors.New("available already equals quantity, not increased")
	ErrQuantityNotReduced  = errors.New("loss confirmed but quantity not reduced")
)

// IsSoftFailure reports whether err is a business failure that is logged as a warning
// instead of an error.
func IsSoftFailure(err error) bool {
	return errors.Is(err, ErrDuplicateBorrow)
}

// IsBusinessError reports whether err stems from a business rule rather than from infrastructure.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrUnauthorized,
		ErrItemUnavailable,
		ErrLimitExceeded,
		ErrDuplicateBorrow,
		ErrNoActiveBorrow,
		ErrInvalidPaymentDetails,
		ErrInvalidItem,
		ErrInvalidBorrower,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
