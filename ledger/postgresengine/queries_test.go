package postgresengine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

func givenStore(t *testing.T) Store {
	t.Helper()

	return Store{tables: DefaultTableNames()}
}

func Test_BuildSelectItemsQuery_ByID(t *testing.T) {
	// arrange
	s := givenStore(t)
	id := uuid.New()

	// act
	sqlQuery, err := s.buildSelectItemsQuery(&id)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `SELECT "id", "title", "quantity", "available", "created_at" FROM "items"`)
	assert.Contains(t, sqlQuery, `("id" = '`+id.String()+`')`)
}

func Test_BuildSelectItemsQuery_All(t *testing.T) {
	// arrange
	s := givenStore(t)

	// act
	sqlQuery, err := s.buildSelectItemsQuery(nil)

	// assert
	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "WHERE")
	assert.Contains(t, sqlQuery, `ORDER BY "title" ASC, "id" ASC`)
}

func Test_BuildInsertItemQuery_IgnoresConflicts(t *testing.T) {
	// arrange
	s := givenStore(t)
	item := ledger.Item{ID: uuid.New(), Title: "Alien", Quantity: 3, Available: 3, CreatedAt: time.Now()}

	// act
	sqlQuery, err := s.buildInsertItemQuery(item)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "items"`)
	assert.Contains(t, sqlQuery, `'Alien'`)
	assert.Contains(t, sqlQuery, "ON CONFLICT DO NOTHING")
}

func Test_BuildSwapItemCountersQuery_GuardsOnExpectedCounters(t *testing.T) {
	// arrange
	s := givenStore(t)
	id := uuid.New()

	// act
	sqlQuery, err := s.buildSwapItemCountersQuery(
		id,
		ledger.Counters{Quantity: 4, Available: 2},
		ledger.Counters{Quantity: 4, Available: 1},
	)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `UPDATE "items" SET`)
	assert.Contains(t, sqlQuery, `("id" = '`+id.String()+`')`)
	assert.Contains(t, sqlQuery, `("quantity" = 4)`)
	assert.Contains(t, sqlQuery, `("available" = 2)`)
}

func Test_BuildBumpBorrowerVersionQuery(t *testing.T) {
	// arrange
	s := givenStore(t)
	id := uuid.New()

	// act
	sqlQuery, err := s.buildBumpBorrowerVersionQuery(id, 7)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `UPDATE "borrowers" SET "version"=8`)
	assert.Contains(t, sqlQuery, `("version" = 7)`)
}

func Test_BuildSelectActiveRecordsForBorrowerQuery_CountsPendingLossAsActive(t *testing.T) {
	// arrange
	s := givenStore(t)
	borrowerID := uuid.New()

	// act
	sqlQuery, err := s.buildSelectActiveRecordsForBorrowerQuery(borrowerID)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "borrow_records"`)
	assert.Contains(t, sqlQuery, `("borrower_id" = '`+borrowerID.String()+`')`)
	assert.Contains(t, sqlQuery, `("returned_at" IS NULL)`)
	assert.Contains(t, sqlQuery, `("status" IN ('', 'PENDING_LOSS'))`)
}

func Test_BuildCountCopiesHeldForItemQuery_ExcludesConfirmedLosses(t *testing.T) {
	// arrange
	s := givenStore(t)
	itemID := uuid.New()

	// act
	sqlQuery, err := s.buildCountCopiesHeldForItemQuery(itemID)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `COUNT(*) AS "cnt"`)
	assert.Contains(t, sqlQuery, `("returned_at" IS NULL)`)
	assert.Contains(t, sqlQuery, `("status" != 'CONFIRMED_LOSS')`)
}

func Test_BuildUpdateRecordQuery_GuardsOnExpectedStatus(t *testing.T) {
	// arrange
	s := givenStore(t)
	returnedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	record := ledger.BorrowRecord{ID: uuid.New(), ReturnedAt: &returnedAt, Status: ledger.StatusConfirmedLoss}

	// act
	sqlQuery, err := s.buildUpdateRecordQuery(record, ledger.StatusPendingLoss)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `UPDATE "borrow_records" SET`)
	assert.Contains(t, sqlQuery, `'CONFIRMED_LOSS'`)
	assert.Contains(t, sqlQuery, `("status" = 'PENDING_LOSS')`)
	assert.Contains(t, sqlQuery, `("returned_at" IS NULL)`)
}

func Test_BuildInsertRecordQuery_WritesNullReturnedAt(t *testing.T) {
	// arrange
	s := givenStore(t)
	record := ledger.BorrowRecord{ID: uuid.New(), ItemID: uuid.New(), BorrowerID: uuid.New(), BorrowedAt: time.Now()}

	// act
	sqlQuery, err := s.buildInsertRecordQuery(record)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "borrow_records"`)
	assert.Contains(t, sqlQuery, "NULL")
	assert.Contains(t, sqlQuery, "ON CONFLICT DO NOTHING")
}

func Test_BuildSelectJournalQuery_AppliesFilter(t *testing.T) {
	// arrange
	s := givenStore(t)
	itemID := uuid.New()

	// act
	sqlQuery, err := s.buildSelectJournalQuery(ledger.JournalFilter{ItemID: itemID, Limit: 10})

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "ledger_journal"`)
	assert.Contains(t, sqlQuery, `("item_id" = '`+itemID.String()+`')`)
	assert.NotContains(t, sqlQuery, `"borrower_id" =`)
	assert.Contains(t, sqlQuery, `ORDER BY "sequence_number" DESC`)
	assert.Contains(t, sqlQuery, "LIMIT 10")
}

func Test_BuildInsertJournalQuery_MultipleRows(t *testing.T) {
	// arrange
	s := givenStore(t)
	itemID := uuid.New()
	entries := []ledger.JournalEntry{
		{EntryType: "ItemBorrowed", OccurredAt: time.Now(), ItemID: &itemID, PayloadJSON: []byte(`{}`), MetadataJSON: []byte(`{}`)},
		{EntryType: "ItemReturned", OccurredAt: time.Now(), PayloadJSON: []byte(`{}`), MetadataJSON: []byte(`{}`)},
	}

	// act
	sqlQuery, err := s.buildInsertJournalQuery(entries)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "ledger_journal"`)
	assert.Contains(t, sqlQuery, `'ItemBorrowed'`)
	assert.Contains(t, sqlQuery, `'ItemReturned'`)
}

func Test_SchemaStatements_UseConfiguredTableNames(t *testing.T) {
	// arrange
	s := Store{tables: TableNames{Items: "movies", Borrowers: "users", BorrowRecords: "borrowings", Journal: "audit"}}

	// act
	statements := s.schemaStatements()

	// assert
	require.NotEmpty(t, statements)
	assert.Contains(t, statements[0], `CREATE TABLE IF NOT EXISTS "movies"`)
	assert.Contains(t, statements[2], `REFERENCES "movies" (id)`)
	assert.Contains(t, statements[2], `REFERENCES "users" (id)`)
	assert.Contains(t, statements[len(statements)-1], `"audit"`)
}

func Test_StatusFor(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: statusSuccess},
		{name: "conflict", err: ledger.ErrConcurrencyConflict, expected: statusConflict},
		{name: "item not found", err: ledger.ErrItemNotFound, expected: statusNotFound},
		{name: "record not found", err: ledger.ErrBorrowRecordNotFound, expected: statusNotFound},
		{name: "database", err: ledger.ErrQueryingFailed, expected: statusError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, statusFor(tc.err))
		})
	}
}
