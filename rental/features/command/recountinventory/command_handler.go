package recountinventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
)

// Store defines the ledger operations needed by the CommandHandler.
type Store interface {
	shell.TxRunner
	shell.JournalAppender
	Items(ctx context.Context) ([]ledger.Item, error)
	ItemByID(ctx context.Context, id uuid.UUID) (ledger.Item, error)
	CountCopiesHeld(ctx context.Context, itemID uuid.UUID) (int, error)
	CompareAndSwapItemCounters(ctx context.Context, id uuid.UUID, expected, next ledger.Counters) error
}

// Correction is one item whose quantity was repaired.
type Correction struct {
	ItemID           uuid.UUID
	Title            string
	PreviousQuantity int
	Quantity         int
	Available        int
}

// Result summarizes a recount. The embedded HandlerResult sums the retries of all items and is
// idempotent when nothing had to be corrected.
type Result struct {
	shell.HandlerResult
	Checked     int
	Corrected   int
	Corrections []Correction
}

// CommandHandler recounts every item, each in its own transaction with retry.
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

// Handle recounts all items. It stops at the first item that fails and returns what was
// corrected so far together with the error.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	items, err := h.store.Items(ledger.WithStrongConsistency(ctx))
	if err != nil {
		return Result{}, shell.AsPersistenceFailure(err)
	}

	result := Result{Corrections: make([]Correction, 0)}
	total := shell.RetryMetrics{LastErrorType: "none"}

	for _, item := range items {
		var decision core.DecisionResult

		retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
			var execErr error
			decision, execErr = h.recountItem(retryCtx, item.ID, command)

			return execErr
		}, h.retryOptions...)

		total = addRetryMetrics(total, retryMetrics)

		if err != nil {
			result.HandlerResult = shell.NewErrorResult(total)
			return result, shell.AsPersistenceFailure(fmt.Errorf("recounting item %s: %w", item.ID, err))
		}

		result.Checked++

		if event, ok := decision.Event.(core.InventoryRecounted); ok {
			result.Corrected++
			result.Corrections = append(result.Corrections, Correction{
				ItemID:           item.ID,
				Title:            item.Title,
				PreviousQuantity: event.PreviousQuantity,
				Quantity:         event.Quantity,
				Available:        event.Available,
			})
		}
	}

	if result.Corrected == 0 {
		result.HandlerResult = shell.NewIdempotentResult(total)
		return result, nil
	}

	result.HandlerResult = shell.NewSuccessResult(total)

	return result, nil
}

// recountItem loads the item fresh inside the transaction, so the counters it swaps from are
// the ones the held count was taken with.
func (h CommandHandler) recountItem(ctx context.Context, itemID uuid.UUID, command Command) (core.DecisionResult, error) {
	var decision core.DecisionResult

	ctx = ledger.WithStrongConsistency(ctx)

	err := h.store.WithinTx(ctx, func(txCtx context.Context) error {
		item, err := h.store.ItemByID(txCtx, itemID)
		if errors.Is(err, ledger.ErrItemNotFound) {
			decision = core.IdempotentDecision()
			return nil
		}

		if err != nil {
			return err
		}

		held, err := h.store.CountCopiesHeld(txCtx, itemID)
		if err != nil {
			return err
		}

		facts := Facts{Item: item, CopiesHeld: held}
		decision = Decide(facts, command)

		if decision.IsIdempotent() {
			return nil
		}

		if err = h.store.CompareAndSwapItemCounters(txCtx, itemID, item.Counters(), recountedCounters(facts)); err != nil {
			return err
		}

		return shell.AppendToJournal(txCtx, h.store, decision.Event, shell.JournalRefs{ItemID: itemID})
	})

	return decision, err
}

func addRetryMetrics(total shell.RetryMetrics, next shell.RetryMetrics) shell.RetryMetrics {
	total.Attempts += next.Attempts
	total.TotalDelay += next.TotalDelay
	total.LastErrorType = next.LastErrorType
	total.RetriesExhausted = total.RetriesExhausted || next.RetriesExhausted

	return total
}
