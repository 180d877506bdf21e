package main

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// SimulationState is the simulation's own view of the ledger, used to generate plausible scenarios.
// It is updated from handler outcomes and may lag behind the store under concurrency.
type SimulationState struct {
	mu sync.RWMutex

	items  []uuid.UUID
	users  []core.Actor
	admins []core.Actor

	// holdings tracks borrowed items per borrower (BorrowerID -> ItemID -> true)
	holdings map[uuid.UUID]map[uuid.UUID]bool

	// pendingLosses tracks reported losses waiting for confirmation (RecordID -> true)
	pendingLosses map[uuid.UUID]bool
}

// NewSimulationState creates a new empty simulation state.
func NewSimulationState() *SimulationState {
	return &SimulationState{
		holdings:      make(map[uuid.UUID]map[uuid.UUID]bool),
		pendingLosses: make(map[uuid.UUID]bool),
	}
}

func (s *SimulationState) AddItem(itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, itemID)
}

func (s *SimulationState) AddBorrower(actor core.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actor.IsAdmin() {
		s.admins = append(s.admins, actor)
		return
	}

	s.users = append(s.users, actor)
}

func (s *SimulationState) Borrowed(borrowerID, itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.holdings[borrowerID] == nil {
		s.holdings[borrowerID] = make(map[uuid.UUID]bool)
	}

	s.holdings[borrowerID][itemID] = true
}

// Released forgets a holding after a return or a loss report.
func (s *SimulationState) Released(borrowerID, itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holdings[borrowerID], itemID)
}

func (s *SimulationState) LossReported(recordID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingLosses[recordID] = true
}

func (s *SimulationState) LossConfirmed(recordID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pendingLosses, recordID)
}

// RandomItem returns uuid.Nil when there are no items.
func (s *SimulationState) RandomItem(rng *rand.Rand) uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.items) == 0 {
		return uuid.Nil
	}

	return s.items[rng.IntN(len(s.items))]
}

// RandomUser reports false when no users are registered.
func (s *SimulationState) RandomUser(rng *rand.Rand) (core.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.users) == 0 {
		return core.Actor{}, false
	}

	return s.users[rng.IntN(len(s.users))], true
}

// RandomAdmin reports false when no admins are registered.
func (s *SimulationState) RandomAdmin(rng *rand.Rand) (core.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.admins) == 0 {
		return core.Actor{}, false
	}

	return s.admins[rng.IntN(len(s.admins))], true
}

// RandomHolding picks a user that holds at least one item and one of those items.
func (s *SimulationState) RandomHolding(rng *rand.Rand) (core.Actor, uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]core.Actor, 0)
	for _, user := range s.users {
		if len(s.holdings[user.BorrowerID]) > 0 {
			candidates = append(candidates, user)
		}
	}

	if len(candidates) == 0 {
		return core.Actor{}, uuid.Nil, false
	}

	user := candidates[rng.IntN(len(candidates))]

	held := make([]uuid.UUID, 0, len(s.holdings[user.BorrowerID]))
	for itemID := range s.holdings[user.BorrowerID] {
		held = append(held, itemID)
	}

	return user, held[rng.IntN(len(held))], true
}

// RandomPendingLoss reports false when no loss is waiting for confirmation.
func (s *SimulationState) RandomPendingLoss(rng *rand.Rand) (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.pendingLosses) == 0 {
		return uuid.Nil, false
	}

	n := rng.IntN(len(s.pendingLosses))
	for recordID := range s.pendingLosses {
		if n == 0 {
			return recordID, true
		}
		n--
	}

	return uuid.Nil, false
}

// Users returns a copy of the registered users.
func (s *SimulationState) Users() []core.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]core.Actor(nil), s.users...)
}

// GetStats returns the number of items, users, holdings and pending losses.
func (s *SimulationState) GetStats() (items, users, holdings, pendingLosses int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, held := range s.holdings {
		holdings += len(held)
	}

	return len(s.items), len(s.users), holdings, len(s.pendingLosses)
}
