package core

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Actor is the identity on whose behalf an operation runs. It is passed explicitly into every
// command and query. The zero value is the anonymous actor.
type Actor struct {
	BorrowerID  uuid.UUID
	Role        ledger.Role
	BorrowLimit int
}

// AnonymousActor returns an unauthenticated actor.
func AnonymousActor() Actor {
	return Actor{}
}

// BuildActor creates an authenticated actor.
func BuildActor(borrowerID uuid.UUID, role ledger.Role, borrowLimit int) Actor {
	return Actor{
		BorrowerID:  borrowerID,
		Role:        role,
		BorrowLimit: borrowLimit,
	}
}

// ActorFromBorrower builds the actor for a stored borrower.
func ActorFromBorrower(b ledger.Borrower) Actor {
	return BuildActor(b.ID, b.Role, b.BorrowLimit)
}

// IsAuthenticated reports whether the actor carries a borrower identity.
func (a Actor) IsAuthenticated() bool {
	return a.BorrowerID != uuid.Nil
}

// IsAdmin reports whether the actor is authenticated with the admin role.
func (a Actor) IsAdmin() bool {
	return a.IsAuthenticated() && a.Role == ledger.RoleAdmin
}
