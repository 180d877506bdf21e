package memengine

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Operation names usable with InjectFault.
const (
	OpItemByID                   = "ItemByID"
	OpItems                      = "Items"
	OpInsertItem                 = "InsertItem"
	OpCompareAndSwapItemCounters = "CompareAndSwapItemCounters"
	OpBorrowerByID               = "BorrowerByID"
	OpInsertBorrower             = "InsertBorrower"
	OpBumpBorrowerVersion        = "BumpBorrowerVersion"
	OpBorrowRecordByID           = "BorrowRecordByID"
	OpActiveBorrowRecords        = "ActiveBorrowRecords"
	OpBorrowRecordsForBorrower   = "BorrowRecordsForBorrower"
	OpPendingLossRecords         = "PendingLossRecords"
	OpCountCopiesHeld            = "CountCopiesHeld"
	OpInsertBorrowRecord         = "InsertBorrowRecord"
	OpUpdateBorrowRecord         = "UpdateBorrowRecord"
	OpAppendJournal              = "AppendJournal"
	OpJournalEntries             = "JournalEntries"
	OpCommit                     = "Commit"
)

type txContextKey struct{}

type fault struct {
	err       error
	remaining int
}

type state struct {
	items     map[uuid.UUID]ledger.Item
	borrowers map[uuid.UUID]ledger.Borrower
	records   map[uuid.UUID]ledger.BorrowRecord
	journal   []ledger.JournalEntry
	sequence  int64
}

func (s state) clone() state {
	return state{
		items:     maps.Clone(s.items),
		borrowers: maps.Clone(s.borrowers),
		records:   maps.Clone(s.records),
		journal:   append([]ledger.JournalEntry(nil), s.journal...),
		sequence:  s.sequence,
	}
}

// Store is an in-memory ledger store. The zero value is not usable; use NewStore.
type Store struct {
	txMu   sync.Mutex
	mu     sync.RWMutex
	data   state
	faults map[string]*fault
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: state{
			items:     make(map[uuid.UUID]ledger.Item),
			borrowers: make(map[uuid.UUID]ledger.Borrower),
			records:   make(map[uuid.UUID]ledger.BorrowRecord),
		},
		faults: make(map[string]*fault),
	}
}

// InjectFault makes the next times calls of operation fail with err.
func (s *Store) InjectFault(operation string, err error, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faults[operation] = &fault{err: err, remaining: times}
}

// takeFault must be called with mu held.
func (s *Store) takeFault(operation string) error {
	f, ok := s.faults[operation]
	if !ok || f.remaining <= 0 {
		return nil
	}

	f.remaining--
	if f.remaining == 0 {
		delete(s.faults, operation)
	}

	return f.err
}

// WithinTx runs fn while holding the transaction lock. State changes made by fn are
// discarded when it returns an error or panics. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(txContextKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.mu.Lock()
			s.data = snapshot
			s.mu.Unlock()
			panic(p)
		}
	}()

	err := fn(context.WithValue(ctx, txContextKey{}, true))
	if err == nil {
		s.mu.Lock()
		err = s.takeFault(OpCommit)
		s.mu.Unlock()
	}

	if err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()

		return err
	}

	return nil
}

/*** items ***/

// ItemByID loads one item.
func (s *Store) ItemByID(ctx context.Context, id uuid.UUID) (ledger.Item, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpItemByID); err != nil {
		return ledger.Item{}, err
	}

	item, ok := s.data.items[id]
	if !ok {
		return ledger.Item{}, ledger.ErrItemNotFound
	}

	return item, nil
}

// Items loads all items ordered by title.
func (s *Store) Items(ctx context.Context) ([]ledger.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpItems); err != nil {
		return nil, err
	}

	items := make([]ledger.Item, 0, len(s.data.items))
	for _, item := range s.data.items {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}

		return items[i].ID.String() < items[j].ID.String()
	})

	return items, nil
}

// InsertItem stores a new item. It reports false if the id already exists.
func (s *Store) InsertItem(ctx context.Context, item ledger.Item) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if !item.Counters().Valid() {
		return false, ledger.ErrInvalidCounters
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpInsertItem); err != nil {
		return false, err
	}

	if _, exists := s.data.items[item.ID]; exists {
		return false, nil
	}

	s.data.items[item.ID] = item

	return true, nil
}

// CompareAndSwapItemCounters writes next if the stored counters still equal expected.
func (s *Store) CompareAndSwapItemCounters(ctx context.Context, id uuid.UUID, expected, next ledger.Counters) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !next.Valid() {
		return ledger.ErrInvalidCounters
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpCompareAndSwapItemCounters); err != nil {
		return err
	}

	item, ok := s.data.items[id]
	if !ok || item.Counters() != expected {
		return ledger.ErrConcurrencyConflict
	}

	item.Quantity = next.Quantity
	item.Available = next.Available
	s.data.items[id] = item

	return nil
}

/*** borrowers ***/

// BorrowerByID loads one borrower.
func (s *Store) BorrowerByID(ctx context.Context, id uuid.UUID) (ledger.Borrower, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Borrower{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpBorrowerByID); err != nil {
		return ledger.Borrower{}, err
	}

	borrower, ok := s.data.borrowers[id]
	if !ok {
		return ledger.Borrower{}, ledger.ErrBorrowerNotFound
	}

	return borrower, nil
}

// InsertBorrower stores a new borrower. It reports false if the id already exists.
func (s *Store) InsertBorrower(ctx context.Context, borrower ledger.Borrower) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpInsertBorrower); err != nil {
		return false, err
	}

	if _, exists := s.data.borrowers[borrower.ID]; exists {
		return false, nil
	}

	s.data.borrowers[borrower.ID] = borrower

	return true, nil
}

// BumpBorrowerVersion increments the borrower's version if it still equals expectedVersion.
func (s *Store) BumpBorrowerVersion(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFault(OpBumpBorrowerVersion); err != nil {
		return err
	}

	borrower, ok := s.data.borrowers[id]
	if !ok || borrower.Version != expectedVersion {
		return ledger.ErrConcurrencyConflict
	}

	borrower.Version++
	s.data.borrowers[id] = borrower

	return nil
}
