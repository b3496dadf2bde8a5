package inlink

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSuccess bool
		wantError   bool
	}{
		{"success", `{"formatted":{"data_signature":"s"},"raw":{}}`, true, false},
		{"error", `{"error":"x"}`, false, true},
		{"error wins over success keys", `{"formatted":{},"raw":{},"error":"x"}`, false, true},
		{"only formatted", `{"formatted":{"data_signature":"s"}}`, false, false},
		{"empty object", `{}`, false, false},
		{"array", `[1,2]`, false, false},
		{"string", `"hello"`, false, false},
		{"formatted not an object", `{"formatted":"x","raw":{}}`, true, false},
		{"raw not an object", `{"formatted":{"data_signature":"s"},"raw":"x"}`, true, false},
		{"numeric title", `{"formatted":{"title":5,"data_signature":"s"},"raw":{}}`, true, false},
		{"null formatted and raw", `{"formatted":null,"raw":null}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := DecodeResponseData([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeResponseData: %v", err)
			}
			if got := IsSuccess(data); got != tt.wantSuccess {
				t.Fatalf("IsSuccess = %v, want %v", got, tt.wantSuccess)
			}
			if got := IsError(data); got != tt.wantError {
				t.Fatalf("IsError = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestClassifiersOnNil(t *testing.T) {
	if IsSuccess(nil) || IsError(nil) {
		t.Fatalf("nil data must not classify")
	}
	var s *SuccessResponse
	if IsSuccess(s) {
		t.Fatalf("typed nil must not classify as success")
	}
}

func TestDecodeSuccessResponse(t *testing.T) {
	body := `{
  "formatted": {
    "site_name": "Example",
    "theme_color": "#ffffff",
    "title": "Hello",
    "image": "https://cdn.example/img.png",
    "custom_favicon": "X.svg",
    "shouldUseCustomFavicon": true,
    "data_signature": "abc123",
    "username": "someone",
    "domain_icon": "X.svg"
  },
  "raw": {
    "title": "Hello",
    "theme-color": "#fff",
    "twitter:card": "summary",
    "og:locale": null,
    "width": 1200
  }
}`
	data, err := DecodeResponseData([]byte(body))
	if err != nil {
		t.Fatalf("DecodeResponseData: %v", err)
	}
	s, ok := AsSuccess(data)
	if !ok {
		t.Fatalf("expected success, got %#v", data)
	}
	f := s.Formatted
	if f.SiteName != "Example" || f.DataSignature != "abc123" || f.Username != "someone" || f.DomainIcon != "X.svg" {
		t.Fatalf("unexpected formatted %#v", f)
	}
	if !f.UsesCustomFavicon() {
		t.Fatalf("expected custom favicon flag")
	}
	if s.Raw.Title() != "Hello" || s.Raw.ThemeColor() != "#fff" {
		t.Fatalf("unexpected raw accessors %#v", s.Raw.Fields)
	}
	if v, ok := s.Raw.Get("twitter:card"); !ok || v != "summary" {
		t.Fatalf("extra key lost: %q %v", v, ok)
	}
	if _, ok := s.Raw.Get("og:locale"); ok {
		t.Fatalf("null value should not be reported as set")
	}
	if _, present := s.Raw.Fields["og:locale"]; !present {
		t.Fatalf("null key should still be present")
	}
	if v, _ := s.Raw.Get("width"); v != "1200" {
		t.Fatalf("numeric value = %q", v)
	}
}

func TestDecodeSuccessSkipsMistypedFields(t *testing.T) {
	body := `{"formatted":{"title":5,"site_name":"Site","data_signature":"s","shouldUseCustomFavicon":"true"},"raw":"x"}`
	data, err := DecodeResponseData([]byte(body))
	if err != nil {
		t.Fatalf("DecodeResponseData: %v", err)
	}
	s, ok := AsSuccess(data)
	if !ok {
		t.Fatalf("expected success, got %#v", data)
	}
	if s.Formatted.Title != "" || s.Formatted.SiteName != "Site" || s.Formatted.DataSignature != "s" {
		t.Fatalf("unexpected formatted %#v", s.Formatted)
	}
	if s.Formatted.ShouldUseCustomFavicon != nil {
		t.Fatalf("mistyped flag should be skipped")
	}
	if s.Raw.Fields == nil || s.Raw.Len() != 0 {
		t.Fatalf("non-object raw should decode empty, got %#v", s.Raw.Fields)
	}

	out, err := json.Marshal(QueryResult{Status: 200, Data: data})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"status":200,"data":`+body+`}` {
		t.Fatalf("body not passed through: %s", out)
	}
}

func TestSuccessResponseMarshalsFieldsWhenBuilt(t *testing.T) {
	s := &SuccessResponse{Formatted: FormattedMetadata{DataSignature: "s"}}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"formatted":{"data_signature":"s"},"raw":{}}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestRawMetadataKeepsUnknownKeys(t *testing.T) {
	var raw RawMetadata
	if err := json.Unmarshal([]byte(`{"title":"T","custom:key":"v","gone":null}`), &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"custom:key":"v","gone":null,"title":"T"}` {
		t.Fatalf("unexpected encoding %s", out)
	}
	if got := strings.Join(raw.Keys(), ","); got != "custom:key,gone,title" {
		t.Fatalf("Keys = %s", got)
	}
}

func TestRawMetadataSet(t *testing.T) {
	var raw RawMetadata
	raw.Set(RawKeySiteName, "Site")
	if raw.SiteName() != "Site" || raw.Len() != 1 {
		t.Fatalf("unexpected raw %#v", raw.Fields)
	}
	out, _ := json.Marshal(RawMetadata{})
	if string(out) != "{}" {
		t.Fatalf("empty raw encodes as %s", out)
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	for _, body := range []string{"", "not json", `{"error":`} {
		if _, err := DecodeResponseData([]byte(body)); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("body %q: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}

func TestQueryResultJSON(t *testing.T) {
	data, err := DecodeResponseData([]byte(`{"error":"not found"}`))
	if err != nil {
		t.Fatalf("DecodeResponseData: %v", err)
	}
	out, err := json.Marshal(QueryResult{Status: 200, Data: data})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"status":200,"data":{"error":"not found"}}` {
		t.Fatalf("unexpected json %s", out)
	}

	unknown, _ := DecodeResponseData([]byte(` [1, 2] `))
	out, _ = json.Marshal(QueryResult{Status: 500, Data: unknown})
	if string(out) != `{"status":500,"data":[1,2]}` {
		t.Fatalf("unexpected json %s", out)
	}
	if Kind(unknown) != "unknown" || Kind(data) != "error" {
		t.Fatalf("unexpected kinds")
	}
}
