package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Transport performs exactly one HTTP round trip per call. Implementations
// attach provider credentials, translate non-2xx statuses into
// *TransportError and every lower-level failure into *NetworkError. They never
// retry and never look at the business fields of a 2xx body.
type Transport interface {
	Post(ctx context.Context, payload any, path string) (Body, error)
	Get(ctx context.Context, path string, params map[string]string) (Body, error)
	Close() error
}

// Body is a provider's parsed JSON object. Numbers are kept as json.Number so
// decoding into typed responses loses no precision.
type Body map[string]any

// Message returns the provider's message field, or "" when absent.
func (b Body) Message() string {
	msg, _ := b["message"].(string)
	return msg
}

// Status returns the provider's boolean status field. It is informational
// only; success is decided by message equality.
func (b Body) Status() (bool, bool) {
	status, ok := b["status"].(bool)
	return status, ok
}

// Decode converts the body into target.
func (b Body) Decode(target any) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(target)
}

// ParseBody parses a JSON object.
func ParseBody(data []byte) (Body, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body Body
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("response body is not a JSON object")
	}
	return body, nil
}

// ToPayload converts a request value into the map sent to the transport so
// identity fields can be injected next to the request's own fields.
func ToPayload(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	payload := map[string]any{}
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Envelope is the common provider response shape.
type Envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message" validate:"required"`
	Data    T      `json:"data"`
}

// ListEnvelope is an Envelope whose data is a page of items.
type ListEnvelope[T any] struct {
	Status  bool           `json:"status"`
	Message string         `json:"message" validate:"required"`
	Data    []T            `json:"data" validate:"dive"`
	Meta    map[string]any `json:"meta,omitempty"`
}
