package publishers

import (
	"time"

	"github.com/samvad-hq/inlink-go/internal/domain"
)

// Event represents the payload published downstream when a target's metadata changes.
type Event struct {
	Snapshot          domain.Snapshot `json:"snapshot"`
	PreviousSignature string          `json:"previous_signature,omitempty"`
	CollectedAt       time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event for the given snapshot.
func NewEvent(snap domain.Snapshot, previousSignature string) Event {
	return Event{
		Snapshot:          snap,
		PreviousSignature: previousSignature,
		CollectedAt:       time.Now().UTC(),
	}
}

// attributes are attached to queue and topic messages for filtering.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"target_id": e.Snapshot.TargetID,
		"source":    e.Snapshot.Source,
	}
	if e.Snapshot.Signature != "" {
		attrs["data_signature"] = e.Snapshot.Signature
	}
	return attrs
}

func (e Event) logFields() map[string]any {
	return map[string]any{
		"target_id":          e.Snapshot.TargetID,
		"url":                e.Snapshot.URL,
		"source":             e.Snapshot.Source,
		"data_signature":     e.Snapshot.Signature,
		"previous_signature": e.PreviousSignature,
	}
}
