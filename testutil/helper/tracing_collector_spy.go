package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
)

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	status     string
	attributes map[string]string
}

// SetStatus implements ledger.SpanContext.
func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

// AddAttribute implements ledger.SpanContext.
func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

// SpySpanRecord represents one started and possibly finished span.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	EndAttributes   map[string]string
	Status          string
	Finished        bool
	span            *SpySpanContext
}

// TracingCollectorSpy is a TracingCollector that captures spans for testing.
type TracingCollectorSpy struct {
	mu          sync.Mutex
	spans       []*SpySpanRecord
	recordCalls bool
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

// StartSpan implements ledger.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, ledger.SpanContext) {
	span := &SpySpanContext{attributes: make(map[string]string)}

	if s.recordCalls {
		s.mu.Lock()
		s.spans = append(s.spans, &SpySpanRecord{Name: name, StartAttributes: maps.Clone(attrs), span: span})
		s.mu.Unlock()
	}

	return ctx, span
}

// FinishSpan implements ledger.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(spanCtx ledger.SpanContext, status string, attrs map[string]string) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.spans {
		if record.span == spanCtx {
			record.Status = status
			record.EndAttributes = maps.Clone(attrs)
			record.Finished = true
		}
	}
}

// GetSpanRecords returns copies of all captured spans.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpySpanRecord, 0, len(s.spans))
	for _, r := range s.spans {
		records = append(records, *r)
	}

	return records
}

// GetSpanRecordCount returns the number of started spans.
func (s *TracingCollectorSpy) GetSpanRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.spans)
}

// HasFinishedSpan reports whether a span with name was finished with status.
func (s *TracingCollectorSpy) HasFinishedSpan(name string, status string) bool {
	for _, r := range s.GetSpanRecords() {
		if r.Name == name && r.Finished && r.Status == status {
			return true
		}
	}

	return false
}

var _ ledger.TracingCollector = (*TracingCollectorSpy)(nil)
