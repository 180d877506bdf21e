package main

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

// ScenarioType represents different types of scenarios the simulation can execute.
type ScenarioType string

const (
	ScenarioBorrow      ScenarioType = "borrow"
	ScenarioReturn      ScenarioType = "return"
	ScenarioReportLoss  ScenarioType = "report_loss"
	ScenarioConfirmLoss ScenarioType = "confirm_loss"
	ScenarioQuerySlots  ScenarioType = "query_slots"
)

// Scenario represents a single operation to be executed by the simulation.
type Scenario struct {
	Type     ScenarioType
	Actor    core.Actor
	ItemID   uuid.UUID
	RecordID uuid.UUID
	Repeat   bool // executed twice in a row to provoke an idempotent outcome
}

// ScenarioSelector picks scenarios that make sense for the current simulation state.
// Scenarios that need state which does not exist yet fall back to a borrow.
type ScenarioSelector struct {
	state  *SimulationState
	config Config
}

// NewScenarioSelector creates a new scenario selector with the given state and configuration.
func NewScenarioSelector(state *SimulationState, config Config) *ScenarioSelector {
	return &ScenarioSelector{state: state, config: config}
}

// Next draws one scenario using rng. rng is owned by the caller.
func (s *ScenarioSelector) Next(rng *rand.Rand) Scenario {
	scenario := s.draw(rng)
	scenario.Repeat = rng.Float64() < s.config.RepeatRate

	return scenario
}

func (s *ScenarioSelector) draw(rng *rand.Rand) Scenario {
	mix := s.config.Mix
	roll := rng.IntN(mix.total())

	switch {
	case roll < mix.Borrow:
		return s.borrow(rng)

	case roll < mix.Borrow+mix.Return:
		if user, itemID, ok := s.state.RandomHolding(rng); ok {
			return Scenario{Type: ScenarioReturn, Actor: user, ItemID: itemID}
		}

	case roll < mix.Borrow+mix.Return+mix.ReportLoss:
		if user, itemID, ok := s.state.RandomHolding(rng); ok {
			return Scenario{Type: ScenarioReportLoss, Actor: user, ItemID: itemID}
		}

	case roll < mix.Borrow+mix.Return+mix.ReportLoss+mix.ConfirmLoss:
		admin, hasAdmin := s.state.RandomAdmin(rng)
		recordID, hasLoss := s.state.RandomPendingLoss(rng)

		if hasAdmin && hasLoss {
			return Scenario{Type: ScenarioConfirmLoss, Actor: admin, RecordID: recordID}
		}

	default:
		if user, ok := s.state.RandomUser(rng); ok {
			return Scenario{Type: ScenarioQuerySlots, Actor: user}
		}
	}

	return s.borrow(rng)
}

func (s *ScenarioSelector) borrow(rng *rand.Rand) Scenario {
	user, _ := s.state.RandomUser(rng)

	return Scenario{Type: ScenarioBorrow, Actor: user, ItemID: s.state.RandomItem(rng)}
}
