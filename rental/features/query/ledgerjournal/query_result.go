package ledgerjournal

import (
	"time"
)

// Line is one decoded journal entry.
type Line struct {
	SequenceNumber int64
	EntryType      string
	OccurredAt     time.Time
	ItemID         string
	BorrowerID     string
	Failed         bool
	MessageID      string
	Payload        map[string]any
}

// Journal represents the query result.
type Journal struct {
	Lines []Line
	Count int
}
