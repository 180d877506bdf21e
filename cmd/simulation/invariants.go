package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/itemsincirculation"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/remainingborrowslots"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/handlers"
)

// CopiesCounter counts the copies of an item that are held by borrowers.
type CopiesCounter interface {
	CountCopiesHeld(ctx context.Context, itemID uuid.UUID) (int, error)
}

// Violation is one broken invariant found after a run.
type Violation struct {
	Subject string
	Reason  string
}

func (v Violation) String() string {
	return v.Subject + ": " + v.Reason
}

// verifyInvariants checks every item's counters against the borrow records and every user's
// slots against the borrow limit. It expects a recount to have run.
func verifyInvariants(
	ctx context.Context,
	h handlers.Handlers,
	copies CopiesCounter,
	users []core.Actor,
) ([]Violation, error) {
	violations := make([]Violation, 0)
	ctx = ledger.WithStrongConsistency(ctx)

	items, err := h.ItemsInCirculation.Handle(ctx, itemsincirculation.BuildQuery())
	if err != nil {
		return nil, err
	}

	for _, item := range items.Items {
		subject := fmt.Sprintf("item %s (%s)", item.ItemID, item.Title)

		if item.Available < 0 || item.Available > item.Quantity {
			violations = append(violations, Violation{
				Subject: subject,
				Reason:  fmt.Sprintf("available %d outside [0, %d]", item.Available, item.Quantity),
			})
		}

		held, err := copies.CountCopiesHeld(ctx, uuid.MustParse(item.ItemID))
		if err != nil {
			return nil, err
		}

		if item.Quantity != item.Available+held {
			violations = append(violations, Violation{
				Subject: subject,
				Reason:  fmt.Sprintf("quantity %d != available %d + held %d", item.Quantity, item.Available, held),
			})
		}
	}

	for _, user := range users {
		slots, err := h.RemainingBorrowSlots.Handle(ctx, remainingborrowslots.BuildQuery(user))
		if err != nil {
			return nil, err
		}

		if slots.SlotsHeld > slots.BorrowLimit {
			violations = append(violations, Violation{
				Subject: "borrower " + slots.BorrowerID,
				Reason:  fmt.Sprintf("holds %d slots, limit is %d", slots.SlotsHeld, slots.BorrowLimit),
			})
		}
	}

	return violations, nil
}
