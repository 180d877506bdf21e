package shell

import (
	"errors"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// AsPersistenceFailure marks infrastructure errors as core.ErrPersistenceFailure so that callers
// can tell them apart from business rule violations. Business errors, context errors and
// concurrency conflicts are returned unchanged.
func AsPersistenceFailure(err error) error {
	if err == nil ||
		core.IsBusinessError(err) ||
		errors.Is(err, core.ErrPersistenceFailure) ||
		IsCancellationError(err) ||
		IsTimeoutError(err) ||
		IsConcurrencyConflictError(err) {

		return err
	}

	return errors.Join(core.ErrPersistenceFailure, err)
}
