package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
)

func Test_HandlerResult_Status(t *testing.T) {
	retryMetrics := shell.RetryMetrics{Attempts: 2, TotalDelay: time.Millisecond, LastErrorType: "none"}

	assert.Equal(t, shell.StatusSuccess, shell.NewSuccessResult(retryMetrics).Status())
	assert.Equal(t, shell.StatusIdempotent, shell.NewIdempotentResult(retryMetrics).Status())
	assert.Equal(t, shell.StatusWarning, shell.NewWarningResult(retryMetrics, core.ErrQuantityNotReduced).Status())
	assert.Equal(t, shell.StatusSuccess, shell.NewErrorResult(retryMetrics).Status())

	result := shell.NewSuccessResult(retryMetrics)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.Equal(t, time.Millisecond, result.TotalRetryDelay)
	assert.Equal(t, result, result.HandlerMeta())
}

func Test_AsPersistenceFailure(t *testing.T) {
	infraErr := errors.Join(ledger.ErrQueryingFailed, errors.New("connection refused"))

	testCases := []struct {
		name            string
		err             error
		wantPersistence bool
	}{
		{name: "infrastructure error", err: infraErr, wantPersistence: true},
		{name: "business error", err: core.ErrLimitExceeded},
		{name: "concurrency conflict", err: ledger.ErrConcurrencyConflict},
		{name: "canceled", err: context.Canceled},
		{name: "deadline", err: context.DeadlineExceeded},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := shell.AsPersistenceFailure(tc.err)

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, tc.wantPersistence, errors.Is(err, core.ErrPersistenceFailure))
		})
	}

	assert.NoError(t, shell.AsPersistenceFailure(nil))
}

func Test_StatusForError(t *testing.T) {
	assert.Equal(t, shell.StatusCanceled, shell.StatusForError(context.Canceled))
	assert.Equal(t, shell.StatusTimeout, shell.StatusForError(context.DeadlineExceeded))
	assert.Equal(t, shell.StatusConcurrencyConflict, shell.StatusForError(ledger.ErrConcurrencyConflict))
	assert.Equal(t, shell.StatusRejected, shell.StatusForError(core.ErrForbidden))
	assert.Equal(t, shell.StatusRejected, shell.StatusForError(core.ErrNotPendingLoss))
	assert.Equal(t, shell.StatusError, shell.StatusForError(core.ErrPersistenceFailure))
}
