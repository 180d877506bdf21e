package ledgerjournal

import (
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell"
)

// ProjectJournal decodes the entries. An entry whose JSON cannot be decoded fails the projection.
func ProjectJournal(entries []ledger.JournalEntry) (Journal, error) {
	lines := make([]Line, 0, len(entries))

	for _, entry := range entries {
		payload, err := shell.JournalPayload(entry)
		if err != nil {
			return Journal{}, err
		}

		metadata, err := shell.EventMetadataFrom(entry)
		if err != nil {
			return Journal{}, err
		}

		lines = append(lines, Line{
			SequenceNumber: entry.SequenceNumber,
			EntryType:      entry.EntryType,
			OccurredAt:     entry.OccurredAt,
			ItemID:         idString(entry.ItemID),
			BorrowerID:     idString(entry.BorrowerID),
			Failed:         strings.HasSuffix(entry.EntryType, "Failed"),
			MessageID:      metadata.MessageID,
			Payload:        payload,
		})
	}

	return Journal{Lines: lines, Count: len(lines)}, nil
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}
