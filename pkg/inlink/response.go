package inlink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the API body is not valid JSON.
var ErrMalformedResponse = errors.New("inlink: malformed response body")

// ResponseData is one of *SuccessResponse, *ErrorResponse or *UnknownResponse.
type ResponseData interface {
	responseData()
}

// SuccessResponse carries the metadata for a scraped page. Fields whose JSON
// type does not match are left zero; the body as received is kept for re-encoding.
type SuccessResponse struct {
	Formatted FormattedMetadata `json:"formatted"`
	Raw       RawMetadata       `json:"raw"`

	body json.RawMessage
}

// ErrorResponse is returned by the API when it answered but could not scrape the page.
type ErrorResponse struct {
	Message string `json:"error"`
}

// UnknownResponse keeps a valid JSON body that matches neither known shape.
type UnknownResponse struct {
	Body json.RawMessage
}

func (*SuccessResponse) responseData() {}
func (*ErrorResponse) responseData()   {}
func (*UnknownResponse) responseData() {}

// MarshalJSON writes the received body when there is one, otherwise the typed fields.
func (s *SuccessResponse) MarshalJSON() ([]byte, error) {
	if len(s.body) > 0 {
		return s.body, nil
	}
	type plain SuccessResponse
	return json.Marshal((*plain)(s))
}

// MarshalJSON writes the body back verbatim.
func (u *UnknownResponse) MarshalJSON() ([]byte, error) {
	if len(u.Body) == 0 {
		return []byte("null"), nil
	}
	return u.Body, nil
}

// IsSuccess reports whether data is a success response.
func IsSuccess(data ResponseData) bool {
	_, ok := AsSuccess(data)
	return ok
}

// IsError reports whether data is an error response.
func IsError(data ResponseData) bool {
	_, ok := AsError(data)
	return ok
}

// AsSuccess narrows data to a success response.
func AsSuccess(data ResponseData) (*SuccessResponse, bool) {
	s, ok := data.(*SuccessResponse)
	return s, ok && s != nil
}

// AsError narrows data to an error response.
func AsError(data ResponseData) (*ErrorResponse, bool) {
	e, ok := data.(*ErrorResponse)
	return e, ok && e != nil
}

// DecodeResponseData picks the variant from the keys present in body.
// An "error" key wins over "formatted"/"raw" so the two shapes never overlap.
func DecodeResponseData(body []byte) (ResponseData, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, snippet(body))
	}

	trimmed := bytes.TrimSpace(body)
	unknown := &UnknownResponse{Body: json.RawMessage(append([]byte(nil), trimmed...))}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return unknown, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if raw, ok := keys["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			// non-string error payloads keep their JSON text
			msg = string(bytes.TrimSpace(raw))
		}
		return &ErrorResponse{Message: msg}, nil
	}

	_, hasFormatted := keys["formatted"]
	_, hasRaw := keys["raw"]
	if !hasFormatted || !hasRaw {
		return unknown, nil
	}

	return &SuccessResponse{
		Formatted: decodeFormatted(keys["formatted"]),
		Raw:       decodeRaw(keys["raw"]),
		body:      unknown.Body,
	}, nil
}

// decodeFormatted fills what it can; a non-object or a mistyped field is skipped.
func decodeFormatted(raw json.RawMessage) FormattedMetadata {
	var f FormattedMetadata
	_ = json.Unmarshal(raw, &f)
	return f
}

func decodeRaw(raw json.RawMessage) RawMetadata {
	var r RawMetadata
	if err := json.Unmarshal(raw, &r); err != nil || r.Fields == nil {
		return NewRawMetadata()
	}
	return r
}

func snippet(body []byte) string {
	const maxLen = 256
	s := string(bytes.TrimSpace(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
