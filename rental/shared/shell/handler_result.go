package shell

import "time"

// HandlerResult represents the outcome of a command handler execution.
// It captures both business outcomes (idempotency, partial success) and execution metadata
// (retry information) without coupling the handler to specific observability implementations.
type HandlerResult struct {
	// Idempotent indicates whether the operation was idempotent (no state change needed).
	// This is a first-class business outcome, not an error condition.
	Idempotent bool

	// Warning is set when the state change was applied only partially.
	Warning error

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the type of the final error encountered during retries.
	// Values: "none" (success), "concurrency_conflict", "context_canceled", "context_deadline_exceeded", "other"
	LastErrorType string

	// RetriesExhausted indicates whether max retry attempts were reached with a retryable error.
	RetriesExhausted bool
}

// ReportsHandlerResult is implemented by every command result; feature results embed HandlerResult.
type ReportsHandlerResult interface {
	HandlerMeta() HandlerResult
}

// HandlerMeta returns the result itself so that embedding types satisfy ReportsHandlerResult.
func (r HandlerResult) HandlerMeta() HandlerResult {
	return r
}

// Status returns the business outcome as a metrics/log status.
func (r HandlerResult) Status() string {
	switch {
	case r.Idempotent:
		return StatusIdempotent
	case r.Warning != nil:
		return StatusWarning
	default:
		return StatusSuccess
	}
}

func fromRetryMetrics(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewSuccessResult creates a HandlerResult for successful operations (non-idempotent).
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics)
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := fromRetryMetrics(retryMetrics)
	result.Idempotent = true

	return result
}

// NewWarningResult creates a HandlerResult for partially applied operations.
func NewWarningResult(retryMetrics RetryMetrics, warning error) HandlerResult {
	result := fromRetryMetrics(retryMetrics)
	result.Warning = warning

	return result
}

// NewErrorResult creates a HandlerResult for failed operations.
// The handler returns the error separately; this only carries the retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics)
}
