package postgresengine

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

const (
	metricOperationDuration    = "ledgerstore_operation_duration_seconds"
	metricOperationCalls       = "ledgerstore_operation_calls_total"
	metricDatabaseErrors       = "ledgerstore_database_errors_total"
	metricConcurrencyConflicts = "ledgerstore_concurrency_conflicts_total"
	metricRowsReturned         = "ledgerstore_rows_returned"

	spanNamePrefix    = "ledgerstore."
	spanAttrOperation = "operation"
	spanAttrErrorType = "error_type"
	spanAttrDuration  = "duration_ms"

	statusSuccess  = "success"
	statusError    = "error"
	statusNotFound = "not_found"
	statusConflict = "conflict"

	errorTypeConcurrency = "concurrency_conflict"
	errorTypeNotFound    = "not_found"
	errorTypeBuildQuery  = "build_query"
	errorTypeDatabase    = "database"
	errorTypeCanceled    = "canceled"

	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "ledgerstore operation: "
	logMsgOperationFailed     = "ledgerstore operation failed"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitTxFailed      = "failed to commit transaction"
	logMsgRollbackFailed      = "failed to roll back transaction"
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrOperation          = "operation"
	logAttrDurationMS         = "duration_ms"
	logAttrRowsAffected       = "rows_affected"
	logAttrRowCount           = "row_count"

	operationMigrate             = "migrate"
	operationTruncate            = "truncate"
	operationItemByID            = "item_by_id"
	operationItems               = "items"
	operationInsertItem          = "insert_item"
	operationSwapItemCounters    = "swap_item_counters"
	operationBorrowerByID        = "borrower_by_id"
	operationInsertBorrower      = "insert_borrower"
	operationBumpBorrowerVersion = "bump_borrower_version"
	operationRecordByID          = "borrow_record_by_id"
	operationActiveRecords       = "active_borrow_records"
	operationRecordsForBorrower  = "borrow_records_for_borrower"
	operationPendingLossRecords  = "pending_loss_records"
	operationCountCopiesHeld     = "count_copies_held"
	operationInsertRecord        = "insert_borrow_record"
	operationUpdateRecord        = "update_borrow_record"
	operationAppendJournal       = "append_journal"
	operationJournalEntries      = "journal_entries"
)

// observe instruments one store operation with a span, duration and call metrics, and logs.
func (s Store) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := s.startSpan(ctx, operation)
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	status := statusFor(err)

	s.recordDuration(ctx, metricOperationDuration, duration, operation, status)
	s.incrementCounter(ctx, metricOperationCalls, map[string]string{spanAttrOperation: operation, "status": status})

	switch status {
	case statusConflict:
		s.incrementCounter(ctx, metricConcurrencyConflicts, map[string]string{spanAttrOperation: operation})
		s.logInfo(ctx, logMsgConcurrencyConflict, logAttrOperation, operation)
	case statusError:
		s.incrementCounter(ctx, metricDatabaseErrors, map[string]string{
			spanAttrOperation: operation,
			spanAttrErrorType: errorTypeFor(err),
		})
		s.logError(ctx, logMsgOperationFailed, err, logAttrOperation, operation)
	default:
		s.logInfo(ctx, logMsgOperation+operation, logAttrDurationMS, toMilliseconds(duration))
	}

	s.finishSpan(span, status, duration, err)

	return err
}

func statusFor(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, ledger.ErrConcurrencyConflict):
		return statusConflict
	case isNotFound(err):
		return statusNotFound
	default:
		return statusError
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ledger.ErrItemNotFound) ||
		errors.Is(err, ledger.ErrBorrowerNotFound) ||
		errors.Is(err, ledger.ErrBorrowRecordNotFound)
}

func errorTypeFor(err error) string {
	switch {
	case errors.Is(err, ledger.ErrConcurrencyConflict):
		return errorTypeConcurrency
	case isNotFound(err):
		return errorTypeNotFound
	case errors.Is(err, ledger.ErrBuildingQueryFailed):
		return errorTypeBuildQuery
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorTypeCanceled
	default:
		return errorTypeDatabase
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (s Store) startSpan(ctx context.Context, operation string) (context.Context, ledger.SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{spanAttrOperation: operation})
}

func (s Store) finishSpan(span ledger.SpanContext, status string, duration time.Duration, err error) {
	if s.tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrDuration: formatMilliseconds(duration),
	}

	if err != nil && status == statusError {
		attrs[spanAttrErrorType] = errorTypeFor(err)
	}

	s.tracingCollector.FinishSpan(span, status, attrs)
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(toMilliseconds(d), 'f', 3, 64)
}

func (s Store) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, "status": status}

	if contextual, ok := s.metricsCollector.(ledger.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metric, duration, labels)
}

func (s Store) recordValue(ctx context.Context, metric string, value float64, operation string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation}

	if contextual, ok := s.metricsCollector.(ledger.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metric, value, labels)
}

func (s Store) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextual, ok := s.metricsCollector.(ledger.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metric, labels)
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s Store) logQueryWithDuration(ctx context.Context, sqlQuery string, operation string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, args...)
		return
	}

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+operation, args...)
	}
}

func (s Store) logInfo(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s Store) logWarn(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s Store) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}
}
