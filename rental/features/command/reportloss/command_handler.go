package reportloss

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
)

// Store defines the ledger operations needed by the CommandHandler.
type Store interface {
	shell.TxRunner
	shell.JournalAppender
	ActiveBorrowRecords(ctx context.Context, borrowerID uuid.UUID) ([]ledger.BorrowRecord, error)
	UpdateBorrowRecord(ctx context.Context, record ledger.BorrowRecord, expectedStatus ledger.BorrowStatus) error
}

// Result names the record that is now pending loss. RecordID is uuid.Nil for idempotent results.
type Result struct {
	shell.HandlerResult
	RecordID uuid.UUID
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

	event, _ := decision.Event.(core.LossReported)
	recordID, _ := uuid.Parse(event.RecordID)

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), RecordID: recordID}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	var decision core.DecisionResult

	ctx = ledger.WithStrongConsistency(ctx)

	err := h.store.WithinTx(ctx, func(txCtx context.Context) error {
		var facts Facts

		if command.Actor.IsAuthenticated() {
			records, err := h.store.ActiveBorrowRecords(txCtx, command.Actor.BorrowerID)
			if err != nil {
				return err
			}

			facts.ActiveRecords = records
		}

		decision = Decide(facts, command)

		if decision.IsIdempotent() {
			return nil
		}

		if decision.HasStateChange() {
			record, _ := reportableRecord(facts, command)
			record.Status = ledger.StatusPendingLoss

			if err := h.store.UpdateBorrowRecord(txCtx, record, ledger.StatusNone); err != nil {
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
