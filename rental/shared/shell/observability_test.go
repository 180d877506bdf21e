package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	"github.com/AntonStoeckl/movie-rental-ledger/testutil/helper"
)

func Test_LogOutcome_LevelsByStatus(t *testing.T) {
	testCases := []struct {
		status  string
		err     error
		level   string
		message string
		errKey  string
	}{
		{status: shell.StatusSuccess, level: "info", message: shell.LogMsgCommandCompleted},
		{status: shell.StatusIdempotent, level: "info", message: shell.LogMsgCommandCompleted},
		{status: shell.StatusWarning, err: core.ErrAvailabilityClamped, level: "warn", message: shell.LogMsgCommandWarning, errKey: shell.LogAttrWarning},
		{status: shell.StatusRejected, err: core.ErrDuplicateBorrow, level: "warn", message: shell.LogMsgCommandRejected, errKey: shell.LogAttrWarning},
		{status: shell.StatusError, err: errors.New("boom"), level: "error", message: shell.LogMsgCommandFailed, errKey: shell.LogAttrError},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			logger := helper.NewContextualLoggerSpy(true)

			// act
			shell.LogOutcome(context.Background(), nil, logger, shell.LogAttrCommandType, "BorrowItem", tc.status, time.Millisecond, tc.err)

			// assert
			records := logger.RecordsAt(tc.level)
			require.Len(t, records, 1)
			assert.Equal(t, tc.message, records[0].Message)
			assert.Equal(t, "BorrowItem", records[0].Arg(shell.LogAttrCommandType))
			assert.Equal(t, tc.status, records[0].Arg(shell.LogAttrBusinessOutcome))

			if tc.err != nil {
				assert.Equal(t, tc.err.Error(), records[0].Arg(tc.errKey))
			}
		})
	}
}

func Test_LogOutcome_PrefersContextualLogger(t *testing.T) {
	// arrange
	logger := helper.NewContextualLoggerSpy(true)
	contextualLogger := helper.NewContextualLoggerSpy(true)

	// act
	shell.LogOutcome(context.Background(), logger, contextualLogger, shell.LogAttrQueryType, "PendingLosses", shell.StatusSuccess, 0, nil)

	// assert
	assert.Empty(t, logger.GetRecords())
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgQueryCompleted))
}

func Test_RecordCommandMetrics_NilCollector(t *testing.T) {
	assert.NotPanics(t, func() {
		shell.RecordCommandMetrics(context.Background(), nil, "BorrowItem", shell.StatusSuccess, time.Millisecond)
		shell.FinishSpan(nil, nil, shell.StatusSuccess, time.Millisecond, nil)
	})
}

func Test_RecordCommandMetrics_StatusCounter(t *testing.T) {
	// arrange
	metrics := helper.NewMetricsCollectorSpy(true)

	// act
	shell.RecordCommandMetrics(context.Background(), metrics, "ConfirmLoss", shell.StatusWarning, time.Millisecond)

	// assert
	assert.True(t, metrics.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithLabel(shell.LogAttrCommandType, "ConfirmLoss").
		Assert())
	assert.Equal(t, 1, metrics.CountCounterRecordsForMetric(shell.CommandHandlerWarningMetric))
}
