package confirmloss

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
	BorrowRecordByID(ctx context.Context, id uuid.UUID) (ledger.BorrowRecord, error)
	ItemByID(ctx context.Context, id uuid.UUID) (ledger.Item, error)
	UpdateBorrowRecord(ctx context.Context, record ledger.BorrowRecord, expectedStatus ledger.BorrowStatus) error
	CompareAndSwapItemCounters(ctx context.Context, id uuid.UUID, expected, next ledger.Counters) error
}

// Result is the outcome of a confirmation. Quantity is the item's quantity afterward.
type Result struct {
	shell.HandlerResult
	Quantity        int
	QuantityReduced bool
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

	if decision.IsIdempotent() {
		return Result{HandlerResult: shell.NewIdempotentResult(retryMetrics)}, nil
	}

	event, _ := decision.Event.(core.LossConfirmed)
	result := Result{Quantity: event.Quantity, QuantityReduced: event.QuantityReduced}

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

		if decision.IsIdempotent() {
			return nil
		}

		if decision.HasStateChange() {
			if err = h.write(txCtx, facts, command); err != nil {
				return err
			}
		}

		refs := shell.JournalRefs{BorrowerID: command.Actor.BorrowerID}
		if facts.Record != nil {
			refs = shell.JournalRefs{ItemID: facts.Record.ItemID, BorrowerID: facts.Record.BorrowerID}
		}

		return shell.AppendToJournal(txCtx, h.store, decision.Event, refs)
	})
	if err != nil {
		return decision, err
	}

	return decision, decision.HasError()
}

func (h CommandHandler) loadFacts(ctx context.Context, command Command) (Facts, error) {
	var facts Facts

	if !command.Actor.IsAdmin() {
		return facts, nil
	}

	record, err := h.store.BorrowRecordByID(ctx, command.RecordID)
	switch {
	case errors.Is(err, ledger.ErrBorrowRecordNotFound):
		return facts, nil
	case err != nil:
		return Facts{}, err
	}

	facts.Record = &record

	item, err := h.store.ItemByID(ctx, record.ItemID)
	switch {
	case err == nil:
		facts.Item = &item
	case !errors.Is(err, ledger.ErrItemNotFound):
		return Facts{}, err
	}

	return facts, nil
}

func (h CommandHandler) write(ctx context.Context, facts Facts, command Command) error {
	record := *facts.Record
	record.Status = ledger.StatusConfirmedLoss
	confirmedOn := core.ToCalendarDate(command.OccurredAt)
	record.ReturnedAt = &confirmedOn

	if err := h.store.UpdateBorrowRecord(ctx, record, ledger.StatusPendingLoss); err != nil {
		return err
	}

	if facts.Item == nil {
		return nil
	}

	next, ok := reducedCounters(*facts.Item)
	if !ok {
		return nil
	}

	return h.store.CompareAndSwapItemCounters(ctx, facts.Item.ID, facts.Item.Counters(), next)
}
