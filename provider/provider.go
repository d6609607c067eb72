package provider

import (
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gateway is a configured provider client that owns a transport.
type Gateway interface {
	io.Closer
	// Name returns the provider's registry name.
	Name() string
}

// ConfigField represents a required configuration field for a payment provider
type ConfigField struct {
	Key         string `json:"key"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // "string", "url", "boolean", "duration"
	Description string `json:"description"`
	Example     string `json:"example"`
	Pattern     string `json:"pattern,omitempty"`   // regex pattern for validation
	MinLength   int    `json:"minLength,omitempty"` // minimum length for string fields
	MaxLength   int    `json:"maxLength,omitempty"` // maximum length for string fields
}

// Factory builds a Gateway from a provider settings map.
type Factory func(settings map[string]string, logger zerolog.Logger) (Gateway, error)

// DecodeResult converts a body that already passed AssertSuccess into T and
// validates it, so no partially valid response is ever returned.
func DecodeResult[T any](schema *Schema, body Body) (*T, error) {
	var result T
	if err := body.Decode(&result); err != nil {
		return nil, &ValidationError{
			Type:       displayName(typeNameOf(result)),
			Violations: []FieldViolation{{Field: "body", Constraint: "decode", Param: err.Error()}},
		}
	}
	if err := schema.Validate(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// NewReference returns a unique transaction reference usable as an order id.
func NewReference() string {
	return uuid.NewString()
}
