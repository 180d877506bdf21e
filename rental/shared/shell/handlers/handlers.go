package handlers

import (
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/addcopies"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/additem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/borrowitem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/confirmloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/recountinventory"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/registerborrower"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/reportloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/restockcopy"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/returnitem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/writeoffcopies"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/borrowinghistory"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/itemsincirculation"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/ledgerjournal"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/pendinglosses"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/remainingborrowslots"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/observable"
)

// Store is the union of what all ledger features need; both engines implement it.
type Store interface {
	borrowitem.Store
	returnitem.Store
	reportloss.Store
	confirmloss.Store
	recountinventory.Store
	additem.Store
	addcopies.Store
	writeoffcopies.Store
	restockcopy.Store
	registerborrower.Store
	remainingborrowslots.Store
	pendinglosses.Store
	borrowinghistory.Store
	itemsincirculation.Store
	ledgerjournal.Store
}

// Observability holds the optional collaborators the wrappers report to. Nil fields are skipped.
type Observability struct {
	Logger           shell.Logger
	ContextualLogger shell.ContextualLogger
	Metrics          shell.MetricsCollector
	Tracing          shell.TracingCollector
}

// Handlers are all command and query handlers, each wrapped with observability.
type Handlers struct {
	BorrowItem       *observable.CommandWrapper[borrowitem.Command, borrowitem.Result]
	ReturnItem       *observable.CommandWrapper[returnitem.Command, returnitem.Result]
	ReportLoss       *observable.CommandWrapper[reportloss.Command, reportloss.Result]
	ConfirmLoss      *observable.CommandWrapper[confirmloss.Command, confirmloss.Result]
	RecountInventory *observable.CommandWrapper[recountinventory.Command, recountinventory.Result]
	AddItem          *observable.CommandWrapper[additem.Command, additem.Result]
	AddCopies        *observable.CommandWrapper[addcopies.Command, addcopies.Result]
	WriteOffCopies   *observable.CommandWrapper[writeoffcopies.Command, writeoffcopies.Result]
	RestockCopy      *observable.CommandWrapper[restockcopy.Command, restockcopy.Result]
	RegisterBorrower *observable.CommandWrapper[registerborrower.Command, registerborrower.Result]

	RemainingBorrowSlots *observable.QueryWrapper[remainingborrowslots.Query, remainingborrowslots.RemainingSlots]
	PendingLosses        *observable.QueryWrapper[pendinglosses.Query, pendinglosses.PendingLosses]
	BorrowingHistory     *observable.QueryWrapper[borrowinghistory.Query, borrowinghistory.BorrowingHistory]
	ItemsInCirculation   *observable.QueryWrapper[itemsincirculation.Query, itemsincirculation.ItemsInCirculation]
	LedgerJournal        *observable.QueryWrapper[ledgerjournal.Query, ledgerjournal.Journal]
}

// New builds all handlers on store. retryOptions apply to every command handler; when a metrics
// collector is set, retry metrics are added per command type.
//
//nolint:funlen
func New(store Store, obs Observability, retryOptions ...shell.RetryOption) (Handlers, error) {
	var (
		h   Handlers
		err error
	)

	h.BorrowItem, err = wrapCommand[borrowitem.Command, borrowitem.Result](
		borrowitem.NewCommandHandler(store, borrowitem.WithRetryOptions(obs.retryOptions(retryOptions, borrowitem.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.ReturnItem, err = wrapCommand[returnitem.Command, returnitem.Result](
		returnitem.NewCommandHandler(store, returnitem.WithRetryOptions(obs.retryOptions(retryOptions, returnitem.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.ReportLoss, err = wrapCommand[reportloss.Command, reportloss.Result](
		reportloss.NewCommandHandler(store, reportloss.WithRetryOptions(obs.retryOptions(retryOptions, reportloss.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.ConfirmLoss, err = wrapCommand[confirmloss.Command, confirmloss.Result](
		confirmloss.NewCommandHandler(store, confirmloss.WithRetryOptions(obs.retryOptions(retryOptions, confirmloss.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.RecountInventory, err = wrapCommand[recountinventory.Command, recountinventory.Result](
		recountinventory.NewCommandHandler(store, recountinventory.WithRetryOptions(obs.retryOptions(retryOptions, recountinventory.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.AddItem, err = wrapCommand[additem.Command, additem.Result](
		additem.NewCommandHandler(store, additem.WithRetryOptions(obs.retryOptions(retryOptions, additem.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.AddCopies, err = wrapCommand[addcopies.Command, addcopies.Result](
		addcopies.NewCommandHandler(store, addcopies.WithRetryOptions(obs.retryOptions(retryOptions, addcopies.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.WriteOffCopies, err = wrapCommand[writeoffcopies.Command, writeoffcopies.Result](
		writeoffcopies.NewCommandHandler(store, writeoffcopies.WithRetryOptions(obs.retryOptions(retryOptions, writeoffcopies.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.RestockCopy, err = wrapCommand[restockcopy.Command, restockcopy.Result](
		restockcopy.NewCommandHandler(store, restockcopy.WithRetryOptions(obs.retryOptions(retryOptions, restockcopy.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.RegisterBorrower, err = wrapCommand[registerborrower.Command, registerborrower.Result](
		registerborrower.NewCommandHandler(store, registerborrower.WithRetryOptions(obs.retryOptions(retryOptions, registerborrower.Command{})...)),
		obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.RemainingBorrowSlots, err = wrapQuery[remainingborrowslots.Query, remainingborrowslots.RemainingSlots](
		remainingborrowslots.NewQueryHandler(store), obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.PendingLosses, err = wrapQuery[pendinglosses.Query, pendinglosses.PendingLosses](pendinglosses.NewQueryHandler(store), obs)
	if err != nil {
		return Handlers{}, err
	}

	h.BorrowingHistory, err = wrapQuery[borrowinghistory.Query, borrowinghistory.BorrowingHistory](
		borrowinghistory.NewQueryHandler(store), obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.ItemsInCirculation, err = wrapQuery[itemsincirculation.Query, itemsincirculation.ItemsInCirculation](
		itemsincirculation.NewQueryHandler(store), obs,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.LedgerJournal, err = wrapQuery[ledgerjournal.Query, ledgerjournal.Journal](ledgerjournal.NewQueryHandler(store), obs)
	if err != nil {
		return Handlers{}, err
	}

	return h, nil
}

func (o Observability) retryOptions(base []shell.RetryOption, command shell.Command) []shell.RetryOption {
	options := append([]shell.RetryOption(nil), base...)
	if o.Metrics != nil {
		options = append(options, shell.WithMetrics(o.Metrics, command.CommandType()))
	}

	return options
}

func wrapCommand[C shell.Command, R shell.ReportsHandlerResult](
	coreHandler shell.CoreCommandHandler[C, R],
	obs Observability,
) (*observable.CommandWrapper[C, R], error) {
	var options []observable.CommandOption[C, R]

	if obs.Logger != nil {
		options = append(options, observable.WithCommandLogging[C, R](obs.Logger))
	}

	if obs.ContextualLogger != nil {
		options = append(options, observable.WithCommandContextualLogging[C, R](obs.ContextualLogger))
	}

	if obs.Metrics != nil {
		options = append(options, observable.WithCommandMetrics[C, R](obs.Metrics))
	}

	if obs.Tracing != nil {
		options = append(options, observable.WithCommandTracing[C, R](obs.Tracing))
	}

	return observable.NewCommandWrapper[C, R](coreHandler, options...)
}

func wrapQuery[Q shell.Query, R any](
	coreHandler shell.CoreQueryHandler[Q, R],
	obs Observability,
) (*observable.QueryWrapper[Q, R], error) {
	var options []observable.QueryOption[Q, R]

	if obs.Logger != nil {
		options = append(options, observable.WithQueryLogging[Q, R](obs.Logger))
	}

	if obs.ContextualLogger != nil {
		options = append(options, observable.WithQueryContextualLogging[Q, R](obs.ContextualLogger))
	}

	if obs.Metrics != nil {
		options = append(options, observable.WithQueryMetrics[Q, R](obs.Metrics))
	}

	if obs.Tracing != nil {
		options = append(options, observable.WithQueryTracing[Q, R](obs.Tracing))
	}

	return observable.NewQueryWrapper[Q, R](coreHandler, options...)
}
