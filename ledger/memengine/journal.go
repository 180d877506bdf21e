package memengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// AppendJournal writes one or more journal entries and assigns sequence numbers.
func (s *Store) AppendJournal(ctx context.Context, entry ledger.JournalEntry, additional ...ledger.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpAppendJournal); err != nil {
		return err
	}

	for _, e := range append([]ledger.JournalEntry{entry}, additional...) {
		s.data.sequence++
		e.SequenceNumber = s.data.sequence
		s.data.journal = append(s.data.journal, e)
	}

	return nil
}

// JournalEntries loads journal entries matching filter, newest first.
func (s *Store) JournalEntries(ctx context.Context, filter ledger.JournalFilter) ([]ledger.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpJournalEntries); err != nil {
		return nil, err
	}

	entries := make([]ledger.JournalEntry, 0)

	for i := len(s.data.journal) - 1; i >= 0; i-- {
		e := s.data.journal[i]

		if filter.ItemID != uuid.Nil && (e.ItemID == nil || *e.ItemID != filter.ItemID) {
			continue
		}

		if filter.BorrowerID != uuid.Nil && (e.BorrowerID == nil || *e.BorrowerID != filter.BorrowerID) {
			continue
		}

		entries = append(entries, e)

		if filter.Limit > 0 && len(entries) == filter.Limit {
			break
		}
	}

	return entries, nil
}
