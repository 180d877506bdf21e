package memengine

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// selectRecords must be called with mu held.
func (s *Store) selectRecords(match func(ledger.BorrowRecord) bool, newestFirst bool) []ledger.BorrowRecord {
	records := make([]ledger.BorrowRecord, 0)
	for _, record := range s.data.records {
		if match(record) {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].BorrowedAt.Equal(records[j].BorrowedAt) {
			if newestFirst {
				return records[i].BorrowedAt.After(records[j].BorrowedAt)
			}

			return records[i].BorrowedAt.Before(records[j].BorrowedAt)
		}

		return records[i].ID.String() < records[j].ID.String()
	})

	return records
}

func (s *Store) readRecords(
	ctx context.Context,
	operation string,
	match func(ledger.BorrowRecord) bool,
	newestFirst bool,
) ([]ledger.BorrowRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(operation); err != nil {
		return nil, err
	}

	return s.selectRecords(match, newestFirst), nil
}

// BorrowRecordByID loads one borrow record.
func (s *Store) BorrowRecordByID(ctx context.Context, id uuid.UUID) (ledger.BorrowRecord, error) {
	records, err := s.readRecords(ctx, OpBorrowRecordByID, func(r ledger.BorrowRecord) bool { return r.ID == id }, false)
	if err != nil {
		return ledger.BorrowRecord{}, err
	}

	if len(records) == 0 {
		return ledger.BorrowRecord{}, ledger.ErrBorrowRecordNotFound
	}

	return records[0], nil
}

// ActiveBorrowRecords loads the borrower's records that hold a slot, oldest first.
func (s *Store) ActiveBorrowRecords(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error) {
	return s.readRecords(ctx, OpActiveBorrowRecords, func(r ledger.BorrowRecord) bool {
		return r.BorrowerID == borrowerID && r.HoldsSlot()
	}, false)
}

// BorrowRecordsForBorrower loads the borrower's full history, newest first.
func (s *Store) BorrowRecordsForBorrower(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error) {
	return s.readRecords(ctx, OpBorrowRecordsForBorrower, func(r ledger.BorrowRecord) bool {
		return r.BorrowerID == borrowerID
	}, true)
}

// PendingLossRecords loads all records waiting for loss confirmation, oldest first.
func (s *Store) PendingLossRecords(ctx context.Context) ([]ledger.BorrowRecord, error) {
	return s.readRecords(ctx, OpPendingLossRecords, func(r ledger.BorrowRecord) bool {
		return r.IsUnreturned() && r.Status == ledger.StatusPendingLoss
	}, false)
}

// CountCopiesHeld counts the item's unreturned records that are not confirmed losses.
func (s *Store) CountCopiesHeld(ctx context.Context, itemID uuid.UUID) (int, error) {
	records, err := s.readRecords(ctx, OpCountCopiesHeld, func(r ledger.BorrowRecord) bool {
		return r.ItemID == itemID && r.HoldsCopy()
	}, false)

	return len(records), err
}

// InsertBorrowRecord stores a new borrow record. A taken id returns ledger.ErrDuplicateRecordID.
func (s *Store) InsertBorrowRecord(ctx context.Context, record ledger.BorrowRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpInsertBorrowRecord); err != nil {
		return err
	}

	if _, exists := s.data.records[record.ID]; exists {
		return ledger.ErrDuplicateRecordID
	}

	s.data.records[record.ID] = record

	return nil
}

// UpdateBorrowRecord writes status and return timestamp if the stored record is still
// unreturned with expectedStatus.
func (s *Store) UpdateBorrowRecord(ctx context.Context, record ledger.BorrowRecord, expectedStatus ledger.BorrowStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpUpdateBorrowRecord); err != nil {
		return err
	}

	stored, ok := s.data.records[record.ID]
	if !ok || stored.Status != expectedStatus || !stored.IsUnreturned() {
		return ledger.ErrConcurrencyConflict
	}

	stored.Status = record.Status
	stored.ReturnedAt = record.ReturnedAt
	s.data.records[record.ID] = stored

	return nil
}
