package helper

import (
	"context"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// SpyLogRecord represents one captured log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// Arg returns the value logged for key, or nil.
func (r SpyLogRecord) Arg(key string) any {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1]
		}
	}

	return nil
}

// ContextualLoggerSpy captures log calls for testing. It implements both
// ledger.Logger and ledger.ContextualLogger.
type ContextualLoggerSpy struct {
	mu          sync.Mutex
	records     []SpyLogRecord
	recordCalls bool
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) record(level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: append([]any(nil), args...)})
}

func (s *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

func (s *ContextualLoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }
func (s *ContextualLoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args) }
func (s *ContextualLoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args) }
func (s *ContextualLoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

// GetRecords returns a copy of all captured records.
func (s *ContextualLoggerSpy) GetRecords() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.records...)
}

// RecordsAt returns the captured records of one level ("debug", "info", "warn", "error").
func (s *ContextualLoggerSpy) RecordsAt(level string) []SpyLogRecord {
	var matching []SpyLogRecord

	for _, r := range s.GetRecords() {
		if r.Level == level {
			matching = append(matching, r)
		}
	}

	return matching
}

// HasLog reports whether a message was logged at level.
func (s *ContextualLoggerSpy) HasLog(level string, message string) bool {
	for _, r := range s.RecordsAt(level) {
		if r.Message == message {
			return true
		}
	}

	return false
}

// HasInfoLog reports whether message was logged at info level.
func (s *ContextualLoggerSpy) HasInfoLog(message string) bool { return s.HasLog("info", message) }

// HasWarnLog reports whether message was logged at warn level.
func (s *ContextualLoggerSpy) HasWarnLog(message string) bool { return s.HasLog("warn", message) }

// HasErrorLog reports whether message was logged at error level.
func (s *ContextualLoggerSpy) HasErrorLog(message string) bool { return s.HasLog("error", message) }

// String renders the captured records, handy in assertion messages.
func (s *ContextualLoggerSpy) String() string {
	return fmt.Sprintf("%v", s.GetRecords())
}

var (
	_ ledger.ContextualLogger = (*ContextualLoggerSpy)(nil)
	_ ledger.Logger           = (*ContextualLoggerSpy)(nil)
)
