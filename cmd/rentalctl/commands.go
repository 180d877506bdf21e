package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/addcopies"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/additem"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/confirmloss"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/recountinventory"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/registerborrower"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/restockcopy"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/command/writeoffcopies"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/borrowinghistory"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/itemsincirculation"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/ledgerjournal"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/features/query/pendinglosses"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errMissingFlag = errors.New("missing required flag")

type command func(ctx context.Context, a *app, args []string, out io.Writer) error

var commands = map[string]command{
	"migrate":        migrateCommand,
	"seed":           seedCommand,
	"issue-token":    issueTokenCommand,
	"recount":        recountCommand,
	"items":          itemsCommand,
	"pending-losses": pendingLossesCommand,
	"confirm-loss":   confirmLossCommand,
	"add-copies":     addCopiesCommand,
	"write-off":      writeOffCommand,
	"restock":        restockCommand,
	"history":        historyCommand,
	"journal":        journalCommand,
}

// outcome is what rentalctl prints for a command handler result.
type outcome struct {
	Status  string `json:"status"`
	Warning string `json:"warning,omitempty"`
	Retries int    `json:"retries"`
	Details any    `json:"details,omitempty"`
}

func newOutcome(meta shell.HandlerResult, details any) outcome {
	o := outcome{
		Status:  meta.Status(),
		Retries: max(meta.RetryAttempts-1, 0),
		Details: details,
	}

	if meta.Warning != nil {
		o.Warning = meta.Warning.Error()
	}

	return o
}

func printJSON(out io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(raw))

	return err
}

func parseUUID(name string, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("%w: -%s", errMissingFlag, name)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("-%s: %w", name, err)
	}

	return id, nil
}

func migrateCommand(ctx context.Context, a *app, args []string, _ io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	log.Printf("✅ ledger tables are in place")

	return nil
}

type seedConfig struct {
	Items       int
	Copies      int
	Users       int
	Admins      int
	TitlePrefix string
}

type seededBorrower struct {
	BorrowerID string `json:"borrowerId"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Token      string `json:"token,omitempty"`
}

type seedReport struct {
	ItemIDs   []string         `json:"itemIds"`
	Borrowers []seededBorrower `json:"borrowers"`
}

func seedCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	var cfg seedConfig

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.IntVar(&cfg.Items, "items", 10, "Number of catalog items to add")
	fs.IntVar(&cfg.Copies, "copies", 2, "Copies per item")
	fs.IntVar(&cfg.Users, "users", 20, "Number of USER borrowers to register")
	fs.IntVar(&cfg.Admins, "admins", 1, "Number of ADMIN borrowers to register")
	fs.StringVar(&cfg.TitlePrefix, "title-prefix", "Movie", "Title prefix of the added items")

	if err := fs.Parse(args); err != nil {
		return err
	}

	auth, err := a.authenticator()
	if errors.Is(err, config.ErrMissingJWTSecret) {
		log.Printf("⚠️ no JWT secret configured, seeding without tokens")
	} else if err != nil {
		return err
	}

	report := seedReport{}
	now := shell.Now()

	for i := 1; i <= cfg.Items; i++ {
		itemID := uuid.New()
		title := fmt.Sprintf("%s %03d", cfg.TitlePrefix, i)

		if _, err = a.handlers.AddItem.Handle(ctx, additem.BuildCommand(itemID, title, cfg.Copies, now)); err != nil {
			return fmt.Errorf("adding %q: %w", title, err)
		}

		report.ItemIDs = append(report.ItemIDs, itemID.String())
	}

	register := func(role ledger.Role, count int) error {
		for i := 1; i <= count; i++ {
			borrowerID := uuid.New()
			name := fmt.Sprintf("%s %03d", role, i)

			if _, err := a.handlers.RegisterBorrower.Handle(ctx, registerborrower.BuildCommand(borrowerID, name, role, 0, now)); err != nil {
				return fmt.Errorf("registering %q: %w", name, err)
			}

			seeded := seededBorrower{BorrowerID: borrowerID.String(), Name: name, Role: string(role)}

			if auth != nil {
				token, err := auth.Issue(borrowerID)
				if err != nil {
					return err
				}

				seeded.Token = token
			}

			report.Borrowers = append(report.Borrowers, seeded)
		}

		return nil
	}

	if err = register(ledger.RoleAdmin, cfg.Admins); err != nil {
		return err
	}

	if err = register(ledger.RoleUser, cfg.Users); err != nil {
		return err
	}

	log.Printf("✅ seeded %d items and %d borrowers", len(report.ItemIDs), len(report.Borrowers))

	return printJSON(out, report)
}

func issueTokenCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	var borrower string

	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	fs.StringVar(&borrower, "borrower", "", "Borrower id the token is issued for")

	if err := fs.Parse(args); err != nil {
		return err
	}

	borrowerID, err := parseUUID("borrower", borrower)
	if err != nil {
		return err
	}

	if _, err = a.store.BorrowerByID(ctx, borrowerID); err != nil {
		return err
	}

	auth, err := a.authenticator()
	if err != nil {
		return err
	}

	token, err := auth.Issue(borrowerID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)

	return err
}

func recountCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recount", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.handlers.RecountInventory.Handle(ctx, recountinventory.BuildCommand(shell.Now()))
	if err != nil {
		return err
	}

	log.Printf("✅ checked %d items, corrected %d", result.Checked, result.Corrected)

	return printJSON(out, newOutcome(result.HandlerResult, result.Corrections))
}

func itemsCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := a.handlers.ItemsInCirculation.Handle(ctx, itemsincirculation.BuildQuery())
	if err != nil {
		return err
	}

	return printJSON(out, items)
}

func pendingLossesCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	var token string

	fs := flag.NewFlagSet("pending-losses", flag.ContinueOnError)
	fs.StringVar(&token, "token", "", "Bearer token of an ADMIN borrower")

	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := a.actor(ctx, token)
	if err != nil {
		return err
	}

	losses, err := a.handlers.PendingLosses.Handle(ctx, pendinglosses.BuildQuery(actor))
	if err != nil {
		return err
	}

	return printJSON(out, losses)
}

func confirmLossCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	var record, token string

	fs := flag.NewFlagSet("confirm-loss", flag.ContinueOnError)
	fs.StringVar(&record, "record", "", "Id of the borrow record with a reported loss")
	fs.StringVar(&token, "token", "", "Bearer token of an ADMIN borrower")

	if err := fs.Parse(args); err != nil {
		return err
	}

	recordID, err := parseUUID("record", record)
	if err != nil {
		return err
	}

	actor, err := a.actor(ctx, token)
	if err != nil {
		return err
	}

	result, err := a.handlers.ConfirmLoss.Handle(ctx, confirmloss.BuildCommand(actor, recordID, shell.Now()))
	if err != nil {
		return err
	}

	if result.Warning != nil {
		log.Printf("⚠️ loss confirmed, quantity left unchanged: %v", result.Warning)
	}

	return printJSON(out, newOutcome(result.HandlerResult, map[string]any{
		"quantity":        result.Quantity,
		"quantityReduced": result.QuantityReduced,
	}))
}

// inventoryFlags are the flags shared by the admin inventory commands.
type inventoryFlags struct {
	item   string
	token  string
	copies int
}

func parseInventoryFlags(name string, args []string, withCopies bool) (inventoryFlags, uuid.UUID, error) {
	var f inventoryFlags

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.item, "item", "", "Id of the item")
	fs.StringVar(&f.token, "token", "", "Bearer token of an ADMIN borrower")

	if withCopies {
		fs.IntVar(&f.copies, "copies", 1, "Number of copies")
	}

	if err := fs.Parse(args); err != nil {
		return f, uuid.Nil, err
	}

	itemID, err := parseUUID("item", f.item)

	return f, itemID, err
}

func addCopiesCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	f, itemID, err := parseInventoryFlags("add-copies", args, true)
	if err != nil {
		return err
	}

	actor, err := a.actor(ctx, f.token)
	if err != nil {
		return err
	}

	result, err := a.handlers.AddCopies.Handle(ctx, addcopies.BuildCommand(actor, itemID, f.copies, shell.Now()))
	if err != nil {
		return err
	}

	return printJSON(out, newOutcome(result.HandlerResult, map[string]any{
		"quantity":  result.Quantity,
		"available": result.Available,
	}))
}

func writeOffCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	f, itemID, err := parseInventoryFlags("write-off", args, true)
	if err != nil {
		return err
	}

	actor, err := a.actor(ctx, f.token)
	if err != nil {
		return err
	}

	result, err := a.handlers.WriteOffCopies.Handle(ctx, writeoffcopies.BuildCommand(actor, itemID, f.copies, shell.Now()))
	if err != nil {
		return err
	}

	return printJSON(out, newOutcome(result.HandlerResult, map[string]any{
		"quantity":  result.Quantity,
		"available": result.Available,
	}))
}

func restockCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	f, itemID, err := parseInventoryFlags("restock", args, false)
	if err != nil {
		return err
	}

	actor, err := a.actor(ctx, f.token)
	if err != nil {
		return err
	}

	result, err := a.handlers.RestockCopy.Handle(ctx, restockcopy.BuildCommand(actor, itemID, shell.Now()))
	if err != nil {
		return err
	}

	if result.Warning != nil {
		log.Printf("⚠️ all copies already on the shelf: %v", result.Warning)
	}

	return printJSON(out, newOutcome(result.HandlerResult, map[string]any{
		"available": result.Available,
	}))
}

func historyCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	var borrower, token string

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.StringVar(&token, "token", "", "Bearer token of the borrower or of an ADMIN")
	fs.StringVar(&borrower, "borrower", "", "Borrower id, defaults to the token's borrower")

	if err := fs.Parse(args); err != nil {
		return err
	}

	borrowerID := uuid.Nil
	if borrower != "" {
		id, err := parseUUID("borrower", borrower)
		if err != nil {
			return err
		}

		borrowerID = id
	}

	actor, err := a.actor(ctx, token)
	if err != nil {
		return err
	}

	history, err := a.handlers.BorrowingHistory.Handle(ctx, borrowinghistory.BuildQuery(actor, borrowerID))
	if err != nil {
		return err
	}

	return printJSON(out, history)
}

func journalCommand(ctx context.Context, a *app, args []string, out io.Writer) error {
	var item, borrower, token string
	var limit int

	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	fs.StringVar(&token, "token", "", "Bearer token, ADMIN for unfiltered reads")
	fs.StringVar(&item, "item", "", "Only entries about this item")
	fs.StringVar(&borrower, "borrower", "", "Only entries about this borrower")
	fs.IntVar(&limit, "limit", 0, "Maximum number of entries, newest first")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var itemID, borrowerID uuid.UUID
	var err error

	if item != "" {
		if itemID, err = parseUUID("item", item); err != nil {
			return err
		}
	}

	if borrower != "" {
		if borrowerID, err = parseUUID("borrower", borrower); err != nil {
			return err
		}
	}

	actor, err := a.actor(ctx, token)
	if err != nil {
		return err
	}

	journal, err := a.handlers.LedgerJournal.Handle(ctx, ledgerjournal.BuildQuery(actor, itemID, borrowerID, limit))
	if err != nil {
		return err
	}

	return printJSON(out, journal)
}
