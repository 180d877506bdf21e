package postgresengine

import (
	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// TableNames holds the four table names used by the store.
type TableNames struct {
	Items         string
	Borrowers     string
	BorrowRecords string
	Journal       string
}

// DefaultTableNames returns the table names used when no WithTableNames option is given.
func DefaultTableNames() TableNames {
	return TableNames{
		Items:         defaultItemsTableName,
		Borrowers:     defaultBorrowersTableName,
		BorrowRecords: defaultBorrowRecordsTableName,
		Journal:       defaultJournalTableName,
	}
}

// WithTableNames overrides the table names. All four names must be non-empty.
func WithTableNames(names TableNames) Option {
	return func(s *Store) error {
		if names.Items == "" || names.Borrowers == "" || names.BorrowRecords == "" || names.Journal == "" {
			return ledger.ErrEmptyTableNameSupplied
		}

		s.tables = names

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: row counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like rollback or cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger ledger.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
func WithMetrics(collector ledger.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
func WithTracing(collector ledger.TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// When set, it is preferred over the plain logger for operation-level messages.
func WithContextualLogger(logger ledger.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}
