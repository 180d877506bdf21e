package shell

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

var (
	// ErrMappingToJournalEntryFailed is returned when a domain event cannot be serialized.
	ErrMappingToJournalEntryFailed = errors.New("mapping domain event to journal entry failed")

	// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
	ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")
)

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// JournalRefs names the item and borrower a journal entry is about. uuid.Nil means none.
type JournalRefs struct {
	ItemID     uuid.UUID
	BorrowerID uuid.UUID
}

// JournalEntryFrom converts a domain event into a journal entry with JSON payload and metadata.
func JournalEntryFrom(event core.DomainEvent, refs JournalRefs, metadata EventMetadata) (ledger.JournalEntry, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return ledger.JournalEntry{}, errors.Join(ErrMappingToJournalEntryFailed, err)
	}

	metadataJSON, err := jsoniter.ConfigFastest.Marshal(metadata)
	if err != nil {
		return ledger.JournalEntry{}, errors.Join(ErrMappingToJournalEntryFailed, err)
	}

	return ledger.JournalEntry{
		EntryType:    event.IsEventType(),
		OccurredAt:   event.HasOccurredAt(),
		ItemID:       optionalID(refs.ItemID),
		BorrowerID:   optionalID(refs.BorrowerID),
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// AppendToJournal journals the decided event with fresh metadata.
func AppendToJournal(ctx context.Context, appender JournalAppender, event core.DomainEvent, refs JournalRefs) error {
	uid := uuid.New()

	entry, err := JournalEntryFrom(event, refs, BuildEventMetadata(uid, uid, uid))
	if err != nil {
		return err
	}

	return appender.AppendJournal(ctx, entry)
}

// EventMetadataFrom extracts EventMetadata from a journal entry.
func EventMetadataFrom(entry ledger.JournalEntry) (EventMetadata, error) {
	metadata := new(EventMetadata)
	if err := jsoniter.ConfigFastest.Unmarshal(entry.MetadataJSON, metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}

// JournalPayload decodes the payload of a journal entry into a generic map.
func JournalPayload(entry ledger.JournalEntry) (map[string]any, error) {
	payload := make(map[string]any)
	if err := jsoniter.ConfigFastest.Unmarshal(entry.PayloadJSON, &payload); err != nil {
		return nil, errors.Join(ErrMappingToJournalEntryFailed, err)
	}

	return payload, nil
}

// Now returns the current time as core.OccurredAt. Handlers use it for timestamps they write.
func Now() time.Time {
	return core.ToOccurredAt(time.Now())
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}

	return &id
}
