package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Error kinds. Every error returned by an adapter matches exactly one of these
// with errors.Is, except CardNotEligibleError which also matches ErrGateway.
var (
	ErrValidation      = errors.New("validation error")
	ErrNetwork         = errors.New("network error")
	ErrTransport       = errors.New("transport error")
	ErrGateway         = errors.New("gateway error")
	ErrCardNotEligible = errors.New("card not eligible")
	ErrConfiguration   = errors.New("configuration error")
)

const maskFill = "****"

// Mask redacts a context value before it is rendered into text. Lengths
// count characters, not bytes. Strings longer than 6 characters keep their
// first and last two characters; anything else keeps at most its first two
// characters.
func Mask(value any) string {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}
	r := []rune(s)
	if ok && len(r) > 6 {
		return string(r[:2]) + maskFill + string(r[len(r)-2:])
	}
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r) + maskFill
}

// MaskContext returns a copy of ctx with every value masked.
func MaskContext(ctx map[string]any) map[string]string {
	masked := make(map[string]string, len(ctx))
	for k, v := range ctx {
		masked[k] = Mask(v)
	}
	return masked
}

// FieldViolation describes one failed constraint.
type FieldViolation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Param      string `json:"param,omitempty"`
}

func (v FieldViolation) String() string {
	if v.Param != "" {
		return fmt.Sprintf("%s failed '%s=%s'", v.Field, v.Constraint, v.Param)
	}
	return fmt.Sprintf("%s failed '%s'", v.Field, v.Constraint)
}

// ValidationError is returned when a request or response value does not
// satisfy its declared constraints. Offending values are never included.
type ValidationError struct {
	Type       string           `json:"type"`
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Type, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NetworkError wraps any failure below the HTTP status level: request
// construction, connection, timeout, unreadable or malformed bodies.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network failure: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// TransportError is returned for a non-2xx HTTP status. Body holds the parsed
// JSON object when the provider sent JSON, otherwise the raw text.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       any
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: HTTP error %d", e.Method, e.Path, e.StatusCode)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// GatewayError is a business-level failure: the HTTP call succeeded but the
// provider did not return the expected success literal.
//
// Context keeps the raw values so callers can branch on them; every textual
// rendering (Error, MarshalJSON, zerolog) masks them.
type GatewayError struct {
	Message string
	Code    int
	Context map[string]any
}

// NewGatewayError builds a GatewayError, copying ctx.
func NewGatewayError(message string, code int, ctx map[string]any) *GatewayError {
	c := make(map[string]any, len(ctx))
	for k, v := range ctx {
		c[k] = v
	}
	return &GatewayError{Message: message, Code: code, Context: c}
}

func (e *GatewayError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Code != 0 {
		fmt.Fprintf(&b, " (Error code: %d)", e.Code)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" | context: {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", k, Mask(e.Context[k]))
		}
		b.WriteString("}")
	}
	return b.String()
}

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// MaskedContext returns the context with every value masked.
func (e *GatewayError) MaskedContext() map[string]string {
	return MaskContext(e.Context)
}

// MarshalJSON renders the error with a masked context.
func (e *GatewayError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string            `json:"message"`
		Code    int               `json:"code"`
		Context map[string]string `json:"context,omitempty"`
	}{e.Message, e.Code, e.MaskedContext()})
}

// MarshalZerologObject lets the error be logged with zerolog's Object.
func (e *GatewayError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("message", e.Message).Int("code", e.Code)
	ctx := zerolog.Dict()
	for k, v := range e.MaskedContext() {
		ctx.Str(k, v)
	}
	ev.Dict("context", ctx)
}

// CardNotEligibleError is returned when the card flow's eligibility guard
// fails. No authentication call is made.
type CardNotEligibleError struct {
	*GatewayError
	Recommendation string
	TransactionID  string
}

func (e *CardNotEligibleError) Error() string { return e.GatewayError.Error() }

func (e *CardNotEligibleError) Unwrap() error { return e.GatewayError }

func (e *CardNotEligibleError) Is(target error) bool {
	return target == ErrCardNotEligible || target == ErrGateway
}

// ConfigurationError reports required settings that are missing or invalid
// when a client is constructed.
type ConfigurationError struct {
	Provider string
	Fields   []string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: invalid configuration", e.Provider)
	if len(e.Fields) > 0 {
		msg += ": missing " + strings.Join(e.Fields, ", ")
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
