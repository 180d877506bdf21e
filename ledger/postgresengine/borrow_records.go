package postgresengine

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine/internal/adapters"
)

func scanRecord(rows adapters.DBRows) (ledger.BorrowRecord, error) {
	var record ledger.BorrowRecord
	var returnedAt sql.NullTime
	var status string

	err := rows.Scan(&record.ID, &record.ItemID, &record.BorrowerID, &record.BorrowedAt, &returnedAt, &status)
	if err != nil {
		return ledger.BorrowRecord{}, err
	}

	if returnedAt.Valid {
		t := returnedAt.Time
		record.ReturnedAt = &t
	}

	record.Status = ledger.BorrowStatus(status)

	return record, nil
}

func (s Store) records(
	ctx context.Context,
	operation string,
	build func() (sqlQueryString, error),
) ([]ledger.BorrowRecord, error) {
	var records []ledger.BorrowRecord

	err := s.observe(ctx, operation, func(ctx context.Context) error {
		sqlQuery, err := build()
		if err != nil {
			return err
		}

		records, err = collect(ctx, s, operation, sqlQuery, scanRecord)

		return err
	})

	return records, err
}

// BorrowRecordByID loads one borrow record. It returns ledger.ErrBorrowRecordNotFound if it does not exist.
func (s Store) BorrowRecordByID(ctx context.Context, id uuid.UUID) (ledger.BorrowRecord, error) {
	records, err := s.records(ctx, operationRecordByID, func() (sqlQueryString, error) {
		return s.buildSelectRecordByIDQuery(id)
	})
	if err != nil {
		return ledger.BorrowRecord{}, err
	}

	if len(records) == 0 {
		return ledger.BorrowRecord{}, ledger.ErrBorrowRecordNotFound
	}

	return records[0], nil
}

// ActiveBorrowRecords loads the borrower's unreturned records with status none or PENDING_LOSS,
// oldest first. These are the records that count against the borrow limit.
func (s Store) ActiveBorrowRecords(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error) {
	return s.records(ctx, operationActiveRecords, func() (sqlQueryString, error) {
		return s.buildSelectActiveRecordsForBorrowerQuery(borrowerID)
	})
}

// BorrowRecordsForBorrower loads the borrower's full history, newest first.
func (s Store) BorrowRecordsForBorrower(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error) {
	return s.records(ctx, operationRecordsForBorrower, func() (sqlQueryString, error) {
		return s.buildSelectRecordsForBorrowerQuery(borrowerID)
	})
}

// PendingLossRecords loads all records waiting for loss confirmation, oldest first.
func (s Store) PendingLossRecords(ctx context.Context) ([]ledger.BorrowRecord, error) {
	return s.records(ctx, operationPendingLossRecords, s.buildSelectPendingLossRecordsQuery)
}

// CountCopiesHeld counts the item's unreturned records that are not confirmed losses.
func (s Store) CountCopiesHeld(ctx context.Context, itemID uuid.UUID) (int, error) {
	var count int

	err := s.observe(ctx, operationCountCopiesHeld, func(ctx context.Context) error {
		sqlQuery, err := s.buildCountCopiesHeldForItemQuery(itemID)
		if err != nil {
			return err
		}

		counts, err := collect(ctx, s, operationCountCopiesHeld, sqlQuery, func(rows adapters.DBRows) (int64, error) {
			var n int64
			return n, rows.Scan(&n)
		})
		if err != nil {
			return err
		}

		if len(counts) > 0 {
			count = int(counts[0])
		}

		return nil
	})

	return count, err
}

// InsertBorrowRecord stores a new borrow record. It returns ledger.ErrDuplicateRecordID when the
// id is taken; the duplicate is not a concurrency conflict and is not retried.
func (s Store) InsertBorrowRecord(ctx context.Context, record ledger.BorrowRecord) error {
	return s.observe(ctx, operationInsertRecord, func(ctx context.Context) error {
		sqlQuery, err := s.buildInsertRecordQuery(record)
		if err != nil {
			return err
		}

		rowsAffected, err := s.exec(ctx, operationInsertRecord, sqlQuery)
		if err != nil {
			return err
		}

		if rowsAffected < 1 {
			return ledger.ErrDuplicateRecordID
		}

		return nil
	})
}

// UpdateBorrowRecord writes the record's status and return timestamp if the stored record is
// still unreturned with expectedStatus. It returns ledger.ErrConcurrencyConflict otherwise.
func (s Store) UpdateBorrowRecord(ctx context.Context, record ledger.BorrowRecord, expectedStatus ledger.BorrowStatus) error {
	return s.observe(ctx, operationUpdateRecord, func(ctx context.Context) error {
		sqlQuery, err := s.buildUpdateRecordQuery(record, expectedStatus)
		if err != nil {
			return err
		}

		return s.execExpectingOneRow(ctx, operationUpdateRecord, sqlQuery)
	})
}
