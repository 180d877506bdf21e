package postgresengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine/internal/adapters"
)

const (
	defaultItemsTableName         = "items"
	defaultBorrowersTableName     = "borrowers"
	defaultBorrowRecordsTableName = "borrow_records"
	defaultJournalTableName       = "ledger_journal"
)

// txContextKey carries the open transaction inside a context.
type txContextKey struct{}

// Store is the PostgreSQL ledger store.
type Store struct {
	db               adapters.DBAdapter
	tables           TableNames
	logger           ledger.Logger
	metricsCollector ledger.MetricsCollector
	tracingCollector ledger.TracingCollector
	contextualLogger ledger.ContextualLogger
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ledger.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromPGXPoolAndReplica creates a new Store using a primary pgx Pool and a replica pool.
// Reads outside a transaction use the replica when the context asks for eventual consistency.
func NewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil || replica == nil {
		return Store{}, ledger.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ledger.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ledger.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{
		db:     db,
		tables: DefaultTableNames(),
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// WithinTx runs fn inside one database transaction. The context passed to fn carries the
// transaction; store calls made with it join the transaction. A nested WithinTx joins the
// outer transaction. The transaction is committed when fn returns nil and rolled back otherwise,
// including when fn panics; the panic is re-raised after the rollback.
func (s Store) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(adapters.DBTx); ok {
		return fn(ctx)
	}

	tx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		s.logError(ctx, logMsgBeginTxFailed, beginErr)
		return errors.Join(ledger.ErrBeginningTxFailed, beginErr)
	}

	txCtx := context.WithValue(ctx, txContextKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			s.rollback(ctx, tx)
			panic(p)
		}
	}()

	if fnErr := fn(txCtx); fnErr != nil {
		s.rollback(ctx, tx)

		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		s.logError(ctx, logMsgCommitTxFailed, commitErr)
		return errors.Join(ledger.ErrCommittingTxFailed, commitErr)
	}

	return nil
}

func (s Store) rollback(ctx context.Context, tx adapters.DBTx) {
	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
		s.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
	}
}

// executor returns the transaction carried by ctx, or the connection pool.
func (s Store) executor(ctx context.Context) adapters.DBExecutor {
	if tx, ok := ctx.Value(txContextKey{}).(adapters.DBTx); ok {
		return tx
	}

	return s.db
}
