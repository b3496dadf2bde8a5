package domain

import "github.com/samvad-hq/inlink-go/pkg/inlink"

// Domain contains core models shared by the crawler and publishers.

// Snapshot sources.
const (
	SourceAPI    = "api"
	SourceScrape = "scrape"
)

// Snapshot is the metadata observed for one target at one point in time.
type Snapshot struct {
	TargetID   string                    `json:"target_id"`
	TargetName string                    `json:"target_name"`
	URL        string                    `json:"url"`
	Status     int                       `json:"status"`
	Source     string                    `json:"source"`
	Signature  string                    `json:"data_signature,omitempty"`
	Formatted  *inlink.FormattedMetadata `json:"formatted,omitempty"`
	Raw        inlink.RawMetadata        `json:"raw"`
	// APIError is the message of an error response that triggered a scrape.
	APIError string `json:"api_error,omitempty"`
}

// SnapshotFromSuccess builds an API-sourced snapshot.
func SnapshotFromSuccess(targetID, targetName, url string, status int, res *inlink.SuccessResponse) Snapshot {
	formatted := res.Formatted
	return Snapshot{
		TargetID:   targetID,
		TargetName: targetName,
		URL:        url,
		Status:     status,
		Source:     SourceAPI,
		Signature:  formatted.DataSignature,
		Formatted:  &formatted,
		Raw:        res.Raw,
	}
}
