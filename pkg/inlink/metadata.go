package inlink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// FormattedMetadata is the service's normalized, display-ready view of a page.
// Image and favicon URLs point at the service's own asset storage.
type FormattedMetadata struct {
	SiteName               string `json:"site_name,omitempty"`
	ThemeColor             string `json:"theme_color,omitempty"`
	Title                  string `json:"title,omitempty"`
	Description            string `json:"description,omitempty"`
	Image                  string `json:"image,omitempty"`
	Favicon                string `json:"favicon,omitempty"`
	CustomFavicon          string `json:"custom_favicon,omitempty"`
	ShouldUseCustomFavicon *bool  `json:"shouldUseCustomFavicon,omitempty"`
	// DataSignature changes whenever the formatted fields change.
	DataSignature string `json:"data_signature"`
	Username      string `json:"username,omitempty"`
	DomainIcon    string `json:"domain_icon,omitempty"`
}

// UsesCustomFavicon reports the shouldUseCustomFavicon flag, false when absent.
func (f FormattedMetadata) UsesCustomFavicon() bool {
	return f.ShouldUseCustomFavicon != nil && *f.ShouldUseCustomFavicon
}

// Well-known raw metadata keys.
const (
	RawKeyTitle       = "title"
	RawKeyDescription = "description"
	RawKeyImage       = "image"
	RawKeySiteName    = "site_name"
	RawKeyType        = "type"
	RawKeyURL         = "url"
	RawKeyThemeColor  = "theme-color"
)

// RawMetadata holds the as-scraped key/value pairs. A nil value means the key
// was present with a null value.
type RawMetadata struct {
	Fields map[string]*string
}

// NewRawMetadata returns an empty RawMetadata ready for Set.
func NewRawMetadata() RawMetadata {
	return RawMetadata{Fields: make(map[string]*string)}
}

// Get returns the value stored for key and whether a non-null value exists.
func (r RawMetadata) Get(key string) (string, bool) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Set stores value under key, allocating the map when needed.
func (r *RawMetadata) Set(key, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]*string)
	}
	v := value
	r.Fields[key] = &v
}

// Keys returns the stored keys in sorted order.
func (r RawMetadata) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (r RawMetadata) Len() int { return len(r.Fields) }

func (r RawMetadata) lookup(key string) string {
	v, _ := r.Get(key)
	return v
}

func (r RawMetadata) Title() string       { return r.lookup(RawKeyTitle) }
func (r RawMetadata) Description() string { return r.lookup(RawKeyDescription) }
func (r RawMetadata) Image() string       { return r.lookup(RawKeyImage) }
func (r RawMetadata) SiteName() string    { return r.lookup(RawKeySiteName) }
func (r RawMetadata) Type() string        { return r.lookup(RawKeyType) }
func (r RawMetadata) URL() string         { return r.lookup(RawKeyURL) }
func (r RawMetadata) ThemeColor() string  { return r.lookup(RawKeyThemeColor) }

// MarshalJSON encodes the fields as a flat JSON object.
func (r RawMetadata) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Fields)
}

// UnmarshalJSON decodes a flat JSON object. Strings and nulls map directly;
// other scalars and nested values are kept as their compact JSON text.
func (r *RawMetadata) UnmarshalJSON(data []byte) error {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("raw metadata: %w", err)
	}
	fields := make(map[string]*string, len(values))
	for k, v := range values {
		trimmed := bytes.TrimSpace(v)
		switch {
		case bytes.Equal(trimmed, []byte("null")):
			fields[k] = nil
		case len(trimmed) > 0 && trimmed[0] == '"':
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return fmt.Errorf("raw metadata key %q: %w", k, err)
			}
			fields[k] = &s
		default:
			var buf bytes.Buffer
			if err := json.Compact(&buf, trimmed); err != nil {
				return fmt.Errorf("raw metadata key %q: %w", k, err)
			}
			s := buf.String()
			fields[k] = &s
		}
	}
	r.Fields = fields
	return nil
}
