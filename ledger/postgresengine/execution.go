package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine/internal/adapters"
)

// query executes sqlQuery on the current executor and returns the rows; callers must close them.
func (s Store) query(ctx context.Context, operation string, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := s.executor(ctx).Query(ctx, sqlQuery)
	s.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(ledger.ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

// exec executes sqlQuery on the current executor and returns the number of affected rows.
func (s Store) exec(ctx context.Context, operation string, sqlQuery sqlQueryString) (int64, error) {
	start := time.Now()
	result, execErr := s.executor(ctx).Exec(ctx, sqlQuery)
	s.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(ledger.ErrExecutingStatementFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, errors.Join(ledger.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// execExpectingOneRow runs a compare-and-swap statement; zero affected rows is a concurrency conflict.
func (s Store) execExpectingOneRow(ctx context.Context, operation string, sqlQuery sqlQueryString) error {
	rowsAffected, err := s.exec(ctx, operation, sqlQuery)
	if err != nil {
		return err
	}

	if rowsAffected < 1 {
		s.logInfo(ctx, logMsgConcurrencyConflict, logAttrOperation, operation, logAttrRowsAffected, rowsAffected)
		return ledger.ErrConcurrencyConflict
	}

	return nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// collect scans all rows with scanFn and reports the row count as a metric.
func collect[T any](
	ctx context.Context,
	s Store,
	operation string,
	sqlQuery sqlQueryString,
	scanFn func(rows adapters.DBRows) (T, error),
) ([]T, error) {
	rows, err := s.query(ctx, operation, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(ctx, rows)

	result := make([]T, 0)

	for rows.Next() {
		row, scanErr := scanFn(rows)
		if scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, operation)
			return nil, errors.Join(ledger.ErrScanningDBRowFailed, scanErr)
		}

		result = append(result, row)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, errors.Join(ledger.ErrQueryingFailed, iterErr)
	}

	s.recordValue(ctx, metricRowsReturned, float64(len(result)), operation)

	return result, nil
}
