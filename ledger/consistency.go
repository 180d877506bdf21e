package ledger

import "context"

// ConsistencyLevel defines the consistency requirements for read operations outside a transaction.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary database. This is the default.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica database, if one is configured.
	// Suitable for query handlers that can tolerate slightly stale data.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "ledger.consistency_level"

// WithStrongConsistency returns a context that routes reads to the primary database.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows reads from a replica database.
// Reads inside a transaction always use the transaction's connection, regardless of this setting.
//
// Example usage:
//
//	ctx = ledger.WithEventualConsistency(ctx)
//	records, err := store.PendingLossRecords(ctx)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// PreferEventualConsistency allows replica reads unless the caller already chose a level.
// Read-only list queries use it so that callers needing fresh data can still pass
// WithStrongConsistency.
func PreferEventualConsistency(ctx context.Context) context.Context {
	if _, set := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); set {
		return ctx
	}

	return WithEventualConsistency(ctx)
}

// GetConsistencyLevel extracts the consistency level from the context, defaulting to StrongConsistency.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
