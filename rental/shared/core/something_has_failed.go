package core

import (
	"fmt"
	"time"
)

// Failure event types, one per command.
const (
	AddingItemFailedEventType          = "AddingItemFailed"
	AddingCopiesFailedEventType        = "AddingCopiesFailed"
	WritingOffCopiesFailedEventType    = "WritingOffCopiesFailed"
	RestockingCopyFailedEventType      = "RestockingCopyFailed"
	RegisteringBorrowerFailedEventType = "RegisteringBorrowerFailed"
	BorrowingItemFailedEventType       = "BorrowingItemFailed"
	ReturningItemFailedEventType       = "ReturningItemFailed"
	ReportingLossFailedEventType       = "ReportingLossFailed"
	ConfirmingLossFailedEventType      = "ConfirmingLossFailed"
)

// SomethingHasFailed is the journaled record of a command rejected by a business rule.
// It is stored like any other event so the audit trail shows attempts and not only changes.
type SomethingHasFailed struct {
	EventType   EventTypeString
	ItemID      ItemIDString
	BorrowerID  BorrowerIDString
	RecordID    RecordIDString
	FailureInfo string
	OccurredAt  OccurredAt
}

// FailureRefs names the entities a failed command was about. Empty fields are omitted.
type FailureRefs struct {
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	RecordID   RecordIDString
}

// BuildSomethingHasFailed creates a new failure event of the given type.
func BuildSomethingHasFailed(
	eventType EventTypeString,
	refs FailureRefs,
	failureInfo string,
	occurredAt time.Time,
) SomethingHasFailed {

	return SomethingHasFailed{
		EventType:   eventType,
		ItemID:      refs.ItemID,
		BorrowerID:  refs.BorrowerID,
		RecordID:    refs.RecordID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e SomethingHasFailed) IsEventType() string {
	return e.EventType
}

// HasOccurredAt returns when this event occurred.
func (e SomethingHasFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed operation.
func (e SomethingHasFailed) IsErrorEvent() bool {
	return true
}

// FailedDecision builds the failure event for a rejected command and wraps cause so that
// errors.Is(err, cause) holds for the returned error.
func FailedDecision(eventType EventTypeString, refs FailureRefs, cause error, occurredAt time.Time) DecisionResult {
	event := BuildSomethingHasFailed(eventType, refs, cause.Error(), occurredAt)

	return ErrorDecision(event, fmt.Errorf("%s: %w", event.EventType, cause))
}
