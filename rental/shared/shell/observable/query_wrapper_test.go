package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/observable"
	. "github.com/AntonStoeckl/movie-rental-ledger/testutil/helper" //nolint:revive
)

type mockQuery struct{}

func (q mockQuery) QueryType() string {
	return "TestQuery"
}

type mockQueryHandler struct {
	result []string
	err    error
}

func (h mockQueryHandler) Handle(_ context.Context, _ mockQuery) ([]string, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)
	tracing := NewTracingCollectorSpy(true)
	logger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, []string](
		mockQueryHandler{result: []string{"a", "b"}},
		observable.WithQueryMetrics[mockQuery, []string](metrics),
		observable.WithQueryTracing[mockQuery, []string](tracing),
		observable.WithQueryContextualLogging[mockQuery, []string](logger),
	)
	assert.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel("query_type", "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, metrics.HasDurationRecord(shell.QueryHandlerDurationMetric))
	assert.True(t, tracing.HasFinishedSpan(shell.SpanNameQueryHandle, shell.StatusSuccess))
	assert.True(t, logger.HasInfoLog(shell.LogMsgQueryStarted))
	assert.True(t, logger.HasInfoLog(shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_Forbidden(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)
	logger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, []string](
		mockQueryHandler{err: core.ErrForbidden},
		observable.WithQueryMetrics[mockQuery, []string](metrics),
		observable.WithQueryLogging[mockQuery, []string](logger),
	)
	assert.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithStatus(shell.StatusRejected).
		Assert())
	assert.True(t, logger.HasWarnLog(shell.LogMsgQueryFailed))
}

func Test_QueryWrapper_Handle_Canceled(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)
	logger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, []string](
		mockQueryHandler{err: context.Canceled},
		observable.WithQueryMetrics[mockQuery, []string](metrics),
		observable.WithQueryContextualLogging[mockQuery, []string](logger),
	)
	assert.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, metrics.HasCounterRecord(shell.QueryHandlerCanceledMetric))
	assert.True(t, logger.HasErrorLog(shell.LogMsgQueryFailed))
}
