package borrowitem

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
)

// Store defines the ledger operations needed by the CommandHandler.
type Store interface {
	shell.TxRunner
	shell.JournalAppender
	ItemByID(ctx context.Context, id uuid.UUID) (ledger.Item, error)
	BorrowerByID(ctx context.Context, id uuid.UUID) (ledger.Borrower, error)
	ActiveBorrowRecords(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error)
	InsertBorrowRecord(ctx context.Context, record ledger.BorrowRecord) error
	BumpBorrowerVersion(ctx context.Context, id uuid.UUID, expectedVersion int64) error
	CompareAndSwapItemCounters(ctx context.Context, id uuid.UUID, expected, next ledger.Counters) error
}

// Result is the outcome of a successful borrow: the item's remaining available copies and the
// borrower's remaining slots.
type Result struct {
	shell.HandlerResult
	Available      int
	RemainingSlots int
}

// CommandHandler orchestrates the command processing workflow with pure business logic and retry:
// Load -> Decide -> Write -> Journal, in one transaction.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store        Store
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{store: store}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry on concurrency conflicts.
// Business rule violations are journaled and returned as errors.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var decision core.DecisionResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, shell.AsPersistenceFailure(err)
	}

	event, _ := decision.Event.(core.ItemBorrowed)

	return Result{
		HandlerResult:  shell.NewSuccessResult(retryMetrics),
		Available:      event.Available,
		RemainingSlots: event.RemainingSlots,
	}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	var decision core.DecisionResult

	ctx = ledger.WithStrongConsistency(ctx)

	err := h.store.WithinTx(ctx, func(txCtx context.Context) error {
		facts, err := h.loadFacts(txCtx, command)
		if err != nil {
			return err
		}

		decision = Decide(facts, command)

		if decision.HasStateChange() {
			if err = h.write(txCtx, facts, command); err != nil {
				return err
			}
		}

		return shell.AppendToJournal(txCtx, h.store, decision.Event, shell.JournalRefs{
			ItemID:     command.ItemID,
			BorrowerID: command.Actor.BorrowerID,
		})
	})
	if err != nil {
		return decision, err
	}

	return decision, decision.HasError()
}

func (h CommandHandler) loadFacts(ctx context.Context, command Command) (Facts, error) {
	var facts Facts

	item, err := h.store.ItemByID(ctx, command.ItemID)
	switch {
	case err == nil:
		facts.Item = &item
	case !errors.Is(err, ledger.ErrItemNotFound):
		return Facts{}, err
	}

	if !command.Actor.IsAuthenticated() {
		return facts, nil
	}

	borrower, err := h.store.BorrowerByID(ctx, command.Actor.BorrowerID)
	switch {
	case errors.Is(err, ledger.ErrBorrowerNotFound):
		return facts, nil
	case err != nil:
		return Facts{}, err
	}

	facts.Borrower = &borrower

	facts.ActiveRecords, err = h.store.ActiveBorrowRecords(ctx, borrower.ID)
	if err != nil {
		return Facts{}, err
	}

	return facts, nil
}

func (h CommandHandler) write(ctx context.Context, facts Facts, command Command) error {
	if err := h.store.BumpBorrowerVersion(ctx, facts.Borrower.ID, facts.Borrower.Version); err != nil {
		return err
	}

	record := ledger.BorrowRecord{
		ID:         command.RecordID,
		ItemID:     command.ItemID,
		BorrowerID: facts.Borrower.ID,
		BorrowedAt: command.OccurredAt,
		Status:     ledger.StatusNone,
	}

	if err := h.store.InsertBorrowRecord(ctx, record); err != nil {
		return err
	}

	current := facts.Item.Counters()
	next := ledger.Counters{Quantity: current.Quantity, Available: current.Available - 1}

	return h.store.CompareAndSwapItemCounters(ctx, facts.Item.ID, current, next)
}
