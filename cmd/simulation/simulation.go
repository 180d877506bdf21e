package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/additem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/borrowitem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/confirmloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/recountinventory"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/registerborrower"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/reportloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/returnitem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/remainingborrowslots"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/handlers"
)

// Stats counts scenario outcomes. Rejected are business rule failures, Failed are infrastructure errors.
type Stats struct {
	Requests   atomic.Int64
	Succeeded  atomic.Int64
	Idempotent atomic.Int64
	Warnings   atomic.Int64
	Rejected   atomic.Int64
	Failed     atomic.Int64
	Retried    atomic.Int64
}

// Report is the outcome of one simulation run.
type Report struct {
	Requests   int64
	Succeeded  int64
	Idempotent int64
	Warnings   int64
	Rejected   int64
	Failed     int64
	Retried    int64
	Duration   time.Duration

	Recount    recountinventory.Result
	Violations []Violation
}

// RentalSimulation drives concurrent traffic through the ledger handlers.
type RentalSimulation struct {
	handlers handlers.Handlers
	copies   CopiesCounter
	config   Config
	state    *SimulationState
	selector *ScenarioSelector

	// Worker pool
	requestQueue chan Scenario
	wg           sync.WaitGroup

	stats Stats

	// lastErrors keeps the newest infrastructure error per scenario type for the final log
	mu         sync.Mutex
	lastErrors map[ScenarioType]error
}

// NewRentalSimulation creates a simulation on top of the wired handlers.
func NewRentalSimulation(h handlers.Handlers, copies CopiesCounter, config Config) *RentalSimulation {
	state := NewSimulationState()

	return &RentalSimulation{
		handlers:     h,
		copies:       copies,
		config:       config,
		state:        state,
		selector:     NewScenarioSelector(state, config),
		requestQueue: make(chan Scenario, config.Workers*2),
		lastErrors:   make(map[ScenarioType]error),
	}
}

// Run seeds the catalog and the borrowers, runs the configured number of scenarios,
// then recounts the inventory and checks the invariants.
func (rs *RentalSimulation) Run(ctx context.Context) (Report, error) {
	log.Printf("Setup phase: adding %d items with %d copies, %d users and %d admins",
		rs.config.Items, rs.config.Copies, rs.config.Borrowers, rs.config.Admins)

	if err := rs.setup(ctx); err != nil {
		return Report{}, fmt.Errorf("failed to setup initial state: %w", err)
	}

	log.Printf("Starting main simulation phase with %d workers...", rs.config.Workers)

	start := time.Now()
	rs.runMainSimulation(ctx)
	duration := time.Since(start)

	items, users, holdings, pending := rs.state.GetStats()
	log.Printf("Main phase done in %s: %d items, %d users, %d holdings, %d pending losses",
		duration.Round(time.Millisecond), items, users, holdings, pending)

	// Recount must not be canceled together with the traffic.
	verifyCtx := context.WithoutCancel(ctx)

	recount, err := rs.handlers.RecountInventory.Handle(verifyCtx, recountinventory.BuildCommand(shell.Now()))
	if err != nil {
		return Report{}, fmt.Errorf("recount failed: %w", err)
	}

	violations, err := verifyInvariants(verifyCtx, rs.handlers, rs.copies, rs.state.Users())
	if err != nil {
		return Report{}, fmt.Errorf("invariant check failed: %w", err)
	}

	report := rs.report(duration)
	report.Recount = recount
	report.Violations = violations

	rs.logReport(report)

	return report, nil
}

func (rs *RentalSimulation) setup(ctx context.Context) error {
	now := shell.Now()

	for i := 1; i <= rs.config.Items; i++ {
		itemID := uuid.New()

		_, err := rs.handlers.AddItem.Handle(ctx, additem.BuildCommand(itemID, fmt.Sprintf("Movie %04d", i), rs.config.Copies, now))
		if err != nil {
			return err
		}

		rs.state.AddItem(itemID)
	}

	register := func(role ledger.Role, count int) error {
		for i := 1; i <= count; i++ {
			borrowerID := uuid.New()

			result, err := rs.handlers.RegisterBorrower.Handle(
				ctx,
				registerborrower.BuildCommand(borrowerID, fmt.Sprintf("%s %04d", role, i), role, 0, now),
			)
			if err != nil {
				return err
			}

			rs.state.AddBorrower(core.BuildActor(borrowerID, role, result.BorrowLimit))
		}

		return nil
	}

	if err := register(ledger.RoleAdmin, rs.config.Admins); err != nil {
		return err
	}

	return register(ledger.RoleUser, rs.config.Borrowers)
}

func (rs *RentalSimulation) runMainSimulation(ctx context.Context) {
	for i := 0; i < rs.config.Workers; i++ {
		rs.wg.Add(1)
		go rs.worker(ctx, i)
	}

	var ticker *time.Ticker
	if rs.config.Rate > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(rs.config.Rate))
		defer ticker.Stop()
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)) //nolint:gosec

queueing:
	for i := 0; i < rs.config.Requests; i++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				break queueing
			case <-ticker.C:
			}
		}

		select {
		case <-ctx.Done():
			break queueing
		case rs.requestQueue <- rs.selector.Next(rng):
		}
	}

	close(rs.requestQueue)
	rs.wg.Wait()
}

func (rs *RentalSimulation) worker(ctx context.Context, workerID int) {
	defer rs.wg.Done()

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(workerID))) //nolint:gosec

	for scenario := range rs.requestQueue {
		if ctx.Err() != nil {
			continue
		}

		rs.execute(ctx, scenario, rng)

		if scenario.Repeat {
			rs.execute(ctx, scenario, rng)
		}
	}
}

func (rs *RentalSimulation) execute(ctx context.Context, scenario Scenario, rng *rand.Rand) {
	rs.stats.Requests.Add(1)

	meta, err := rs.dispatch(ctx, scenario, rng)

	if meta.RetryAttempts > 1 {
		rs.stats.Retried.Add(1)
	}

	switch {
	case err == nil && meta.Idempotent:
		rs.stats.Idempotent.Add(1)
	case err == nil && meta.Warning != nil:
		rs.stats.Warnings.Add(1)
	case err == nil:
		rs.stats.Succeeded.Add(1)
	case core.IsBusinessError(err):
		rs.stats.Rejected.Add(1)
	case shell.IsCancellationError(err):
	default:
		rs.stats.Failed.Add(1)

		rs.mu.Lock()
		rs.lastErrors[scenario.Type] = err
		rs.mu.Unlock()
	}
}

func (rs *RentalSimulation) dispatch(ctx context.Context, scenario Scenario, rng *rand.Rand) (shell.HandlerResult, error) {
	now := shell.Now()
	borrowerID := scenario.Actor.BorrowerID

	switch scenario.Type {
	case ScenarioBorrow:
		result, err := rs.handlers.BorrowItem.Handle(ctx, borrowitem.BuildCommand(scenario.Actor, scenario.ItemID, now))
		if err == nil && !result.Idempotent {
			rs.state.Borrowed(borrowerID, scenario.ItemID)
		}

		return result.HandlerResult, err

	case ScenarioReturn:
		result, err := rs.handlers.ReturnItem.Handle(ctx, returnitem.BuildCommand(scenario.Actor, scenario.ItemID, now))
		if err == nil || errors.Is(err, core.ErrNoActiveBorrow) {
			rs.state.Released(borrowerID, scenario.ItemID)
		}

		return result.HandlerResult, err

	case ScenarioReportLoss:
		result, err := rs.handlers.ReportLoss.Handle(
			ctx,
			reportloss.BuildCommand(scenario.Actor, scenario.ItemID, randomCard(rng, now), now),
		)
		if err == nil || errors.Is(err, core.ErrNoActiveBorrow) {
			rs.state.Released(borrowerID, scenario.ItemID)
		}

		if err == nil && result.RecordID != uuid.Nil {
			rs.state.LossReported(result.RecordID)
		}

		return result.HandlerResult, err

	case ScenarioConfirmLoss:
		result, err := rs.handlers.ConfirmLoss.Handle(ctx, confirmloss.BuildCommand(scenario.Actor, scenario.RecordID, now))
		if err == nil || errors.Is(err, core.ErrNoActiveBorrow) {
			rs.state.LossConfirmed(scenario.RecordID)
		}

		return result.HandlerResult, err

	case ScenarioQuerySlots:
		slots, err := rs.handlers.RemainingBorrowSlots.Handle(ctx, remainingborrowslots.BuildQuery(scenario.Actor))
		if err == nil && slots.RemainingSlots < 0 {
			err = fmt.Errorf("borrower %s has %d remaining slots", slots.BorrowerID, slots.RemainingSlots)
		}

		return shell.HandlerResult{RetryAttempts: 1}, err

	default:
		return shell.HandlerResult{}, fmt.Errorf("unknown scenario type %q", scenario.Type)
	}
}

// randomCard returns card details that pass validation at now.
func randomCard(rng *rand.Rand, now time.Time) core.PaymentDetails {
	number := "4"
	for len(number) < 16 {
		number += strconv.Itoa(rng.IntN(10))
	}

	return core.PaymentDetails{
		CardNumber:  number,
		CVC:         fmt.Sprintf("%03d", rng.IntN(1000)),
		ExpiryMonth: fmt.Sprintf("%02d", 1+rng.IntN(12)),
		ExpiryYear:  strconv.Itoa(now.Year() + 1 + rng.IntN(4)),
	}
}

func (rs *RentalSimulation) report(duration time.Duration) Report {
	return Report{
		Requests:   rs.stats.Requests.Load(),
		Succeeded:  rs.stats.Succeeded.Load(),
		Idempotent: rs.stats.Idempotent.Load(),
		Warnings:   rs.stats.Warnings.Load(),
		Rejected:   rs.stats.Rejected.Load(),
		Failed:     rs.stats.Failed.Load(),
		Retried:    rs.stats.Retried.Load(),
		Duration:   duration,
	}
}

func (rs *RentalSimulation) logReport(report Report) {
	perSecond := 0.0
	if report.Duration > 0 {
		perSecond = float64(report.Requests) / report.Duration.Seconds()
	}

	log.Printf("📊 %d requests (%.1f/s): %d succeeded, %d idempotent, %d warnings, %d rejected, %d failed, %d retried",
		report.Requests, perSecond, report.Succeeded, report.Idempotent, report.Warnings,
		report.Rejected, report.Failed, report.Retried)

	rs.mu.Lock()
	for scenarioType, err := range rs.lastErrors {
		log.Printf("❌ last %s error: %v", scenarioType, err)
	}
	rs.mu.Unlock()

	log.Printf("🔁 recount checked %d items, corrected %d", report.Recount.Checked, report.Recount.Corrected)

	for _, violation := range report.Violations {
		log.Printf("🚨 %s", violation)
	}

	if len(report.Violations) == 0 {
		log.Printf("✅ all inventory and borrow limit invariants hold")
	}
}
