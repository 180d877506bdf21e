package ledger

import (
	"errors"
)

var (
	ErrNilDatabaseConnection  = errors.New("database connection must not be nil")
	ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
	ErrConcurrencyConflict    = errors.New("concurrency error, no rows were affected")

	ErrItemNotFound         = errors.New("item not found")
	ErrBorrowerNotFound     = errors.New("borrower not found")
	ErrBorrowRecordNotFound = errors.New("borrow record not found")
	ErrDuplicateRecordID    = errors.New("borrow record id already exists")

	ErrBuildingQueryFailed       = errors.New("building query failed")
	ErrQueryingFailed            = errors.New("querying failed")
	ErrExecutingStatementFailed  = errors.New("executing statement failed")
	ErrScanningDBRowFailed       = errors.New("scanning db row failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrBeginningTxFailed         = errors.New("beginning transaction failed")
	ErrCommittingTxFailed        = errors.New("committing transaction failed")
	ErrInvalidCounters           = errors.New("counters violate 0 <= available <= quantity")
)
