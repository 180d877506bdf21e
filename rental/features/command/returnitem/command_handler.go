package returnitem

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
	ActiveBorrowRecords(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error)
	UpdateBorrowRecord(ctx context.Context, record ledger.BorrowRecord, expectedStatus ledger.BorrowStatus) error
	CompareAndSwapItemCounters(ctx context.Context, id uuid.UUID, expected, next ledger.Counters) error
}

// Result is the outcome of a return. Clamped is true when available was already at quantity.
type Result struct {
	shell.HandlerResult
	Available int
	Clamped   bool
}

// CommandHandler orchestrates Load -> Decide -> Write -> Journal in one transaction, with retry.
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

	event, _ := decision.Event.(core.ItemReturned)
	result := Result{Available: event.Available, Clamped: event.Clamped}

	if warning := decision.HasWarning(); warning != nil {
		result.HandlerResult = shell.NewWarningResult(retryMetrics, warning)
		return result, nil
	}

	result.HandlerResult = shell.NewSuccessResult(retryMetrics)

	return result, nil
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

	if !command.Actor.IsAuthenticated() {
		return facts, nil
	}

	item, err := h.store.ItemByID(ctx, command.ItemID)
	switch {
	case err == nil:
		facts.Item = &item
	case !errors.Is(err, ledger.ErrItemNotFound):
		return Facts{}, err
	}

	facts.ActiveRecords, err = h.store.ActiveBorrowRecords(ctx, command.Actor.BorrowerID)
	if err != nil {
		return Facts{}, err
	}

	return facts, nil
}

func (h CommandHandler) write(ctx context.Context, facts Facts, command Command) error {
	record, _ := heldRecord(facts, command)
	expectedStatus := record.Status

	returnedAt := command.OccurredAt
	record.ReturnedAt = &returnedAt

	if err := h.store.UpdateBorrowRecord(ctx, record, expectedStatus); err != nil {
		return err
	}

	// A clamped return swaps the counters for themselves, so a concurrent change still conflicts.
	current := facts.Item.Counters()
	next := current

	if current.Available < current.Quantity {
		next.Available++
	}

	return h.store.CompareAndSwapItemCounters(ctx, facts.Item.ID, current, next)
}
