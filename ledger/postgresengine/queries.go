package postgresengine

import (
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

const (
	dialectPostgres = "postgres"

	colID             = "id"
	colTitle          = "title"
	colQuantity       = "quantity"
	colAvailable      = "available"
	colCreatedAt      = "created_at"
	colName           = "name"
	colRole           = "role"
	colBorrowLimit    = "borrow_limit"
	colVersion        = "version"
	colRegisteredAt   = "registered_at"
	colItemID         = "item_id"
	colBorrowerID     = "borrower_id"
	colBorrowedAt     = "borrowed_at"
	colReturnedAt     = "returned_at"
	colStatus         = "status"
	colSequenceNumber = "sequence_number"
	colEntryType      = "entry_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	aliasCount        = "cnt"
)

type sqlQueryString = string

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

func toSQL(sqlQuery string, _ []any, err error) (sqlQueryString, error) {
	if err != nil {
		return "", errors.Join(ledger.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.UTC()
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}

	return id.String()
}

/*** items ***/

func (s Store) buildSelectItemsQuery(id *uuid.UUID) (sqlQueryString, error) {
	stmt := dialect().
		From(s.tables.Items).
		Select(colID, colTitle, colQuantity, colAvailable, colCreatedAt).
		Order(goqu.I(colTitle).Asc(), goqu.I(colID).Asc())

	if id != nil {
		stmt = stmt.Where(goqu.C(colID).Eq(id.String()))
	}

	return toSQL(stmt.ToSQL())
}

func (s Store) buildInsertItemQuery(item ledger.Item) (sqlQueryString, error) {
	stmt := dialect().
		Insert(s.tables.Items).
		Rows(goqu.Record{
			colID:        item.ID.String(),
			colTitle:     item.Title,
			colQuantity:  item.Quantity,
			colAvailable: item.Available,
			colCreatedAt: item.CreatedAt.UTC(),
		}).
		OnConflict(goqu.DoNothing())

	return toSQL(stmt.ToSQL())
}

func (s Store) buildSwapItemCountersQuery(id uuid.UUID, expected, next ledger.Counters) (sqlQueryString, error) {
	stmt := dialect().
		Update(s.tables.Items).
		Set(goqu.Record{
			colQuantity:  next.Quantity,
			colAvailable: next.Available,
		}).
		Where(
			goqu.C(colID).Eq(id.String()),
			goqu.C(colQuantity).Eq(expected.Quantity),
			goqu.C(colAvailable).Eq(expected.Available),
		)

	return toSQL(stmt.ToSQL())
}

/*** borrowers ***/

func (s Store) buildSelectBorrowerQuery(id uuid.UUID) (sqlQueryString, error) {
	stmt := dialect().
		From(s.tables.Borrowers).
		Select(colID, colName, colRole, colBorrowLimit, colVersion, colRegisteredAt).
		Where(goqu.C(colID).Eq(id.String()))

	return toSQL(stmt.ToSQL())
}

func (s Store) buildInsertBorrowerQuery(borrower ledger.Borrower) (sqlQueryString, error) {
	stmt := dialect().
		Insert(s.tables.Borrowers).
		Rows(goqu.Record{
			colID:           borrower.ID.String(),
			colName:         borrower.Name,
			colRole:         string(borrower.Role),
			colBorrowLimit:  borrower.BorrowLimit,
			colVersion:      borrower.Version,
			colRegisteredAt: borrower.RegisteredAt.UTC(),
		}).
		OnConflict(goqu.DoNothing())

	return toSQL(stmt.ToSQL())
}

func (s Store) buildBumpBorrowerVersionQuery(id uuid.UUID, expectedVersion int64) (sqlQueryString, error) {
	stmt := dialect().
		Update(s.tables.Borrowers).
		Set(goqu.Record{colVersion: expectedVersion + 1}).
		Where(
			goqu.C(colID).Eq(id.String()),
			goqu.C(colVersion).Eq(expectedVersion),
		)

	return toSQL(stmt.ToSQL())
}

/*** borrow records ***/

func (s Store) selectRecords() *goqu.SelectDataset {
	return dialect().
		From(s.tables.BorrowRecords).
		Select(colID, colItemID, colBorrowerID, colBorrowedAt, colReturnedAt, colStatus)
}

func (s Store) buildSelectRecordByIDQuery(id uuid.UUID) (sqlQueryString, error) {
	return toSQL(s.selectRecords().Where(goqu.C(colID).Eq(id.String())).ToSQL())
}

func (s Store) buildSelectActiveRecordsForBorrowerQuery(borrowerID uuid.UUID) (sqlQueryString, error) {
	stmt := s.selectRecords().
		Where(
			goqu.C(colBorrowerID).Eq(borrowerID.String()),
			goqu.C(colReturnedAt).IsNull(),
			goqu.C(colStatus).In(string(ledger.StatusNone), string(ledger.StatusPendingLoss)),
		).
		Order(goqu.I(colBorrowedAt).Asc(), goqu.I(colID).Asc())

	return toSQL(stmt.ToSQL())
}

func (s Store) buildSelectRecordsForBorrowerQuery(borrowerID uuid.UUID) (sqlQueryString, error) {
	stmt := s.selectRecords().
		Where(goqu.C(colBorrowerID).Eq(borrowerID.String())).
		Order(goqu.I(colBorrowedAt).Desc(), goqu.I(colID).Asc())

	return toSQL(stmt.ToSQL())
}

func (s Store) buildSelectPendingLossRecordsQuery() (sqlQueryString, error) {
	stmt := s.selectRecords().
		Where(
			goqu.C(colStatus).Eq(string(ledger.StatusPendingLoss)),
			goqu.C(colReturnedAt).IsNull(),
		).
		Order(goqu.I(colBorrowedAt).Asc(), goqu.I(colID).Asc())

	return toSQL(stmt.ToSQL())
}

func (s Store) buildCountCopiesHeldForItemQuery(itemID uuid.UUID) (sqlQueryString, error) {
	stmt := dialect().
		From(s.tables.BorrowRecords).
		Select(goqu.COUNT(goqu.Star()).As(aliasCount)).
		Where(
			goqu.C(colItemID).Eq(itemID.String()),
			goqu.C(colReturnedAt).IsNull(),
			goqu.C(colStatus).Neq(string(ledger.StatusConfirmedLoss)),
		)

	return toSQL(stmt.ToSQL())
}

func (s Store) buildInsertRecordQuery(record ledger.BorrowRecord) (sqlQueryString, error) {
	stmt := dialect().
		Insert(s.tables.BorrowRecords).
		Rows(goqu.Record{
			colID:         record.ID.String(),
			colItemID:     record.ItemID.String(),
			colBorrowerID: record.BorrowerID.String(),
			colBorrowedAt: record.BorrowedAt.UTC(),
			colReturnedAt: nullableTime(record.ReturnedAt),
			colStatus:     string(record.Status),
		}).
		OnConflict(goqu.DoNothing())

	return toSQL(stmt.ToSQL())
}

func (s Store) buildUpdateRecordQuery(record ledger.BorrowRecord, expectedStatus ledger.BorrowStatus) (sqlQueryString, error) {
	stmt := dialect().
		Update(s.tables.BorrowRecords).
		Set(goqu.Record{
			colReturnedAt: nullableTime(record.ReturnedAt),
			colStatus:     string(record.Status),
		}).
		Where(
			goqu.C(colID).Eq(record.ID.String()),
			goqu.C(colStatus).Eq(string(expectedStatus)),
			goqu.C(colReturnedAt).IsNull(),
		)

	return toSQL(stmt.ToSQL())
}

/*** journal ***/

func (s Store) buildInsertJournalQuery(entries []ledger.JournalEntry) (sqlQueryString, error) {
	rows := make([]any, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, goqu.Record{
			colEntryType:  entry.EntryType,
			colOccurredAt: entry.OccurredAt.UTC(),
			colItemID:     nullableUUID(entry.ItemID),
			colBorrowerID: nullableUUID(entry.BorrowerID),
			colPayload:    string(entry.PayloadJSON),
			colMetadata:   string(entry.MetadataJSON),
		})
	}

	return toSQL(dialect().Insert(s.tables.Journal).Rows(rows...).ToSQL())
}

func (s Store) buildSelectJournalQuery(filter ledger.JournalFilter) (sqlQueryString, error) {
	stmt := dialect().
		From(s.tables.Journal).
		Select(colSequenceNumber, colEntryType, colOccurredAt, colItemID, colBorrowerID, colPayload, colMetadata).
		Order(goqu.I(colSequenceNumber).Desc())

	if filter.ItemID != uuid.Nil {
		stmt = stmt.Where(goqu.C(colItemID).Eq(filter.ItemID.String()))
	}

	if filter.BorrowerID != uuid.Nil {
		stmt = stmt.Where(goqu.C(colBorrowerID).Eq(filter.BorrowerID.String()))
	}

	if filter.Limit > 0 {
		stmt = stmt.Limit(uint(filter.Limit))
	}

	return toSQL(stmt.ToSQL())
}
