package postgresengine

import (
	"context"
	"fmt"
	"strings"
)

// quoteIdent quotes a PostgreSQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// schemaStatements returns the DDL for the four ledger tables. All statements are idempotent.
func (s Store) schemaStatements() []string {
	items := quoteIdent(s.tables.Items)
	borrowers := quoteIdent(s.tables.Borrowers)
	records := quoteIdent(s.tables.BorrowRecords)
	journal := quoteIdent(s.tables.Journal)

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id          uuid PRIMARY KEY,
	title       text NOT NULL,
	quantity    integer NOT NULL CHECK (quantity >= 0),
	available   integer NOT NULL CHECK (available >= 0),
	created_at  timestamptz NOT NULL DEFAULT now(),
	CHECK (available <= quantity)
)`, items),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id             uuid PRIMARY KEY,
	name           text NOT NULL,
	role           text NOT NULL,
	borrow_limit   integer NOT NULL CHECK (borrow_limit >= 0),
	version        bigint NOT NULL DEFAULT 0,
	registered_at  timestamptz NOT NULL DEFAULT now()
)`, borrowers),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id           uuid PRIMARY KEY,
	item_id      uuid NOT NULL REFERENCES %s (id),
	borrower_id  uuid NOT NULL REFERENCES %s (id),
	borrowed_at  timestamptz NOT NULL,
	returned_at  timestamptz NULL,
	status       text NOT NULL DEFAULT ''
)`, records, items, borrowers),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (borrower_id) WHERE returned_at IS NULL`,
			quoteIdent(s.tables.BorrowRecords+"_unreturned_by_borrower_idx"), records),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (item_id) WHERE returned_at IS NULL`,
			quoteIdent(s.tables.BorrowRecords+"_unreturned_by_item_idx"), records),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (borrowed_at) WHERE status = 'PENDING_LOSS'`,
			quoteIdent(s.tables.BorrowRecords+"_pending_loss_idx"), records),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	sequence_number  bigserial PRIMARY KEY,
	entry_type       text NOT NULL,
	occurred_at      timestamptz NOT NULL,
	item_id          uuid NULL,
	borrower_id      uuid NULL,
	payload          jsonb NOT NULL,
	metadata         jsonb NOT NULL
)`, journal),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (item_id)`,
			quoteIdent(s.tables.Journal+"_item_idx"), journal),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (borrower_id)`,
			quoteIdent(s.tables.Journal+"_borrower_idx"), journal),
	}
}

// Migrate creates the ledger tables and indexes if they do not exist yet.
func (s Store) Migrate(ctx context.Context) error {
	return s.observe(ctx, operationMigrate, func(ctx context.Context) error {
		for _, statement := range s.schemaStatements() {
			if _, err := s.exec(ctx, operationMigrate, statement); err != nil {
				return err
			}
		}

		return nil
	})
}

// Truncate removes all rows from the ledger tables. Intended for tests and simulations.
func (s Store) Truncate(ctx context.Context) error {
	statement := fmt.Sprintf(
		"TRUNCATE TABLE %s, %s, %s, %s RESTART IDENTITY",
		quoteIdent(s.tables.Journal),
		quoteIdent(s.tables.BorrowRecords),
		quoteIdent(s.tables.Borrowers),
		quoteIdent(s.tables.Items),
	)

	return s.observe(ctx, operationTruncate, func(ctx context.Context) error {
		_, err := s.exec(ctx, operationTruncate, statement)
		return err
	})
}
