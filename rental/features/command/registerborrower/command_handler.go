package registerborrower

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
	BorrowerByID(ctx context.Context, id uuid.UUID) (ledger.Borrower, error)
	InsertBorrower(ctx context.Context, borrower ledger.Borrower) (bool, error)
}

// Result is the outcome of a registration.
type Result struct {
	shell.HandlerResult
	BorrowLimit int
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

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), BorrowLimit: command.BorrowLimit}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	var decision core.DecisionResult

	ctx = ledger.WithStrongConsistency(ctx)

	err := h.store.WithinTx(ctx, func(txCtx context.Context) error {
		var facts Facts

		existing, err := h.store.BorrowerByID(txCtx, command.BorrowerID)
		switch {
		case err == nil:
			facts.Existing = &existing
		case !errors.Is(err, ledger.ErrBorrowerNotFound):
			return err
		}

		decision = Decide(facts, command)

		if decision.IsIdempotent() {
			return nil
		}

		if decision.HasStateChange() {
			inserted, err := h.store.InsertBorrower(txCtx, ledger.Borrower{
				ID:           command.BorrowerID,
				Name:         command.Name,
				Role:         command.Role,
				BorrowLimit:  command.BorrowLimit,
				RegisteredAt: command.OccurredAt,
			})
			if err != nil {
				return err
			}

			if !inserted {
				return ledger.ErrConcurrencyConflict
			}
		}

		return shell.AppendToJournal(txCtx, h.store, decision.Event, shell.JournalRefs{BorrowerID: command.BorrowerID})
	})
	if err != nil {
		return decision, err
	}

	return decision, decision.HasError()
}
