package publishers

import (
	"github.com/samvad-hq/inlink-go/internal/domain"
	"github.com/samvad-hq/inlink-go/pkg/inlink"
)

func testEvent() Event {
	raw := inlink.NewRawMetadata()
	raw.Set(inlink.RawKeyTitle, "Example")
	return NewEvent(domain.Snapshot{
		TargetID:  "target-1",
		URL:       "https://example.com",
		Status:    200,
		Source:    domain.SourceAPI,
		Signature: "sig-2",
		Formatted: &inlink.FormattedMetadata{Title: "Example", DataSignature: "sig-2"},
		Raw:       raw,
	}, "sig-1")
}
