package shell

import (
	"context"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the workflow: load -> decide -> write -> journal, all in one transaction.
// R embeds HandlerResult and adds the feature's own post-operation values.
type CoreCommandHandler[C Command, R ReportsHandlerResult] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// CoreQueryHandler defines the contract for components that answer queries.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// TxRunner runs fn inside one store transaction. Nested calls join the outer transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// JournalAppender writes journal entries.
type JournalAppender interface {
	AppendJournal(ctx context.Context, entry ledger.JournalEntry, additional ...ledger.JournalEntry) error
}
