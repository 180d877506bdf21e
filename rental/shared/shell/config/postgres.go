package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine"
)

// PostgresPGXPoolConfig creates a pgxpool.Config for dsn with the configured pool sizing.
func PostgresPGXPoolConfig(db DatabaseConfig, dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing pgx pool config: %w", err)
	}

	dbConfig.MaxConns = db.MaxConns
	dbConfig.MinConns = db.MinConns
	dbConfig.MaxConnLifetime = db.MaxConnLifetime
	dbConfig.MaxConnIdleTime = db.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = db.HealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = db.ConnectTimeout

	return dbConfig, nil
}

// PostgresSQLDB opens and pings a *sql.DB (lib/pq) for dsn.
func PostgresSQLDB(ctx context.Context, db DatabaseConfig, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	// Configure connection pool settings
	sqlDB.SetMaxOpenConns(int(db.MaxConns))
	sqlDB.SetMaxIdleConns(db.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(db.MaxConnLifetime)
	sqlDB.SetConnMaxIdleTime(db.MaxConnIdleTime)

	if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", pingErr)
	}

	return sqlDB, nil
}

// PostgresSQLXDB opens and pings a *sqlx.DB (lib/pq) for dsn.
func PostgresSQLXDB(ctx context.Context, db DatabaseConfig, dsn string) (*sqlx.DB, error) {
	sqlxDB, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	sqlxDB.SetMaxOpenConns(int(db.MaxConns))
	sqlxDB.SetMaxIdleConns(db.MaxIdleConns)
	sqlxDB.SetConnMaxLifetime(db.MaxConnLifetime)
	sqlxDB.SetConnMaxIdleTime(db.MaxConnIdleTime)

	if pingErr := sqlxDB.PingContext(ctx); pingErr != nil {
		_ = sqlxDB.Close()
		return nil, fmt.Errorf("pinging database: %w", pingErr)
	}

	return sqlxDB, nil
}

// OpenStore connects with the configured adapter and returns the ledger store plus a function
// that closes the connections. A replica DSN is only used with the pgx.pool adapter.
func OpenStore(ctx context.Context, cfg Config, options ...postgresengine.Option) (postgresengine.Store, func(), error) {
	if err := cfg.Validate(); err != nil {
		return postgresengine.Store{}, nil, err
	}

	options = append([]postgresengine.Option{postgresengine.WithTableNames(cfg.TableNames())}, options...)

	switch cfg.Database.Adapter {
	case AdapterSQLDB:
		db, err := PostgresSQLDB(ctx, cfg.Database, cfg.Database.DSN)
		if err != nil {
			return postgresengine.Store{}, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return postgresengine.Store{}, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case AdapterSQLXDB:
		db, err := PostgresSQLXDB(ctx, cfg.Database, cfg.Database.DSN)
		if err != nil {
			return postgresengine.Store{}, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return postgresengine.Store{}, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	default:
		return openPGXStore(ctx, cfg, options)
	}
}

func openPGXStore(ctx context.Context, cfg Config, options []postgresengine.Option) (postgresengine.Store, func(), error) {
	poolConfig, err := PostgresPGXPoolConfig(cfg.Database, cfg.Database.DSN)
	if err != nil {
		return postgresengine.Store{}, nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return postgresengine.Store{}, nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	if cfg.Database.ReplicaDSN == "" {
		store, storeErr := postgresengine.NewStoreFromPGXPool(pool, options...)
		if storeErr != nil {
			pool.Close()
			return postgresengine.Store{}, nil, storeErr
		}

		return store, pool.Close, nil
	}

	replicaConfig, err := PostgresPGXPoolConfig(cfg.Database, cfg.Database.ReplicaDSN)
	if err != nil {
		pool.Close()
		return postgresengine.Store{}, nil, err
	}

	replica, err := pgxpool.NewWithConfig(ctx, replicaConfig)
	if err != nil {
		pool.Close()
		return postgresengine.Store{}, nil, fmt.Errorf("creating replica pgx pool: %w", err)
	}

	closeAll := func() {
		replica.Close()
		pool.Close()
	}

	store, err := postgresengine.NewStoreFromPGXPoolAndReplica(pool, replica, options...)
	if err != nil {
		closeAll()
		return postgresengine.Store{}, nil, err
	}

	return store, closeAll, nil
}
