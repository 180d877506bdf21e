package additem

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
	InsertItem(ctx context.Context, item ledger.Item) (bool, error)
}

// Result is the outcome of adding an item.
type Result struct {
	shell.HandlerResult
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

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics)}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	var decision core.DecisionResult

	ctx = ledger.WithStrongConsistency(ctx)

	err := h.store.WithinTx(ctx, func(txCtx context.Context) error {
		var facts Facts

		existing, err := h.store.ItemByID(txCtx, command.ItemID)
		switch {
		case err == nil:
			facts.Existing = &existing
		case !errors.Is(err, ledger.ErrItemNotFound):
			return err
		}

		decision = Decide(facts, command)

		if decision.IsIdempotent() {
			return nil
		}

		if decision.HasStateChange() {
			inserted, err := h.store.InsertItem(txCtx, ledger.Item{
				ID:        command.ItemID,
				Title:     command.Title,
				Quantity:  command.Quantity,
				Available: command.Quantity,
				CreatedAt: command.OccurredAt,
			})
			if err != nil {
				return err
			}

			if !inserted {
				// Someone else inserted the id since we looked; the retry sees it and turns idempotent.
				return ledger.ErrConcurrencyConflict
			}
		}

		return shell.AppendToJournal(txCtx, h.store, decision.Event, shell.JournalRefs{ItemID: command.ItemID})
	})
	if err != nil {
		return decision, err
	}

	return decision, decision.HasError()
}
