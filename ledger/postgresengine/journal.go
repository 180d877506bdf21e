package postgresengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine/internal/adapters"
)

func scanJournalEntry(rows adapters.DBRows) (ledger.JournalEntry, error) {
	var entry ledger.JournalEntry
	var itemID, borrowerID uuid.NullUUID

	err := rows.Scan(
		&entry.SequenceNumber,
		&entry.EntryType,
		&entry.OccurredAt,
		&itemID,
		&borrowerID,
		&entry.PayloadJSON,
		&entry.MetadataJSON,
	)
	if err != nil {
		return ledger.JournalEntry{}, err
	}

	if itemID.Valid {
		entry.ItemID = &itemID.UUID
	}

	if borrowerID.Valid {
		entry.BorrowerID = &borrowerID.UUID
	}

	return entry, nil
}

// AppendJournal writes one or more journal entries.
func (s Store) AppendJournal(ctx context.Context, entry ledger.JournalEntry, additional ...ledger.JournalEntry) error {
	entries := append([]ledger.JournalEntry{entry}, additional...)

	return s.observe(ctx, operationAppendJournal, func(ctx context.Context) error {
		sqlQuery, err := s.buildInsertJournalQuery(entries)
		if err != nil {
			return err
		}

		_, err = s.exec(ctx, operationAppendJournal, sqlQuery)

		return err
	})
}

// JournalEntries loads journal entries matching filter, newest first.
func (s Store) JournalEntries(ctx context.Context, filter ledger.JournalFilter) ([]ledger.JournalEntry, error) {
	var entries []ledger.JournalEntry

	err := s.observe(ctx, operationJournalEntries, func(ctx context.Context) error {
		sqlQuery, err := s.buildSelectJournalQuery(filter)
		if err != nil {
			return err
		}

		entries, err = collect(ctx, s, operationJournalEntries, sqlQuery, scanJournalEntry)

		return err
	})

	return entries, err
}
