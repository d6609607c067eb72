package provider

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	currencyPattern  = regexp.MustCompile(`^[A-Z]{3}$`)
	referencePattern = regexp.MustCompile(`^[\w\-=.]+$`)
	digitsPattern    = regexp.MustCompile(`^[0-9]+$`)
)

// FieldRules maps a Go struct field name to a validator rule string.
type FieldRules map[string]string

// ConstraintSet overrides the struct-tag constraints of one or more types.
// Providers ship one set per API version so that drafts with different
// bounds for the same field can coexist.
type ConstraintSet struct {
	Name  string
	Rules map[any]FieldRules
}

// Schema validates request and response values against their declared
// constraints. A Schema is safe for concurrent use once constructed.
type Schema struct {
	validate *validator.Validate
	name     string
}

// NewSchema creates a schema with the package's custom rules registered and
// the given constraint sets applied in order.
func NewSchema(sets ...ConstraintSet) *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "currency", matchPattern(currencyPattern))
	mustRegister(v, "reference", matchPattern(referencePattern))
	mustRegister(v, "digits", matchPattern(digitsPattern))

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			return d.InexactFloat64()
		case Amount:
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{}, Amount{})

	names := make([]string, 0, len(sets))
	for _, set := range sets {
		for typ, rules := range set.Rules {
			v.RegisterStructValidationMapRules(rules, typ)
		}
		names = append(names, set.Name)
	}

	return &Schema{validate: v, name: strings.Join(names, "+")}
}

// Name identifies the constraint sets applied to this schema.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks v and returns a *ValidationError naming every offending
// field. Values are never coerced.
func (s *Schema) Validate(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	rootName, typeName := "", "nil"
	if rv := reflect.Indirect(reflect.ValueOf(v)); rv.IsValid() {
		rootName = rv.Type().Name()
		typeName = displayName(rootName)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{
			Type:       typeName,
			Violations: []FieldViolation{{Field: typeName, Constraint: "struct"}},
		}
	}

	out := &ValidationError{Type: typeName, Violations: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		out.Violations = append(out.Violations, FieldViolation{
			Field:      strings.TrimPrefix(fe.Namespace(), rootName+"."),
			Constraint: fe.Tag(),
			Param:      fe.Param(),
		})
	}
	return out
}

// Require reports a single missing value, for path and query inputs that are
// not carried in a struct.
func Require(typeName, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Type:       typeName,
			Violations: []FieldViolation{{Field: field, Constraint: "required"}},
		}
	}
	return nil
}

// displayName shortens instantiated generic names:
// "Envelope[github.com/x/alatpay.CardInit]" -> "Envelope[CardInit]".
func displayName(name string) string {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return name
	}
	arg := strings.TrimSuffix(name[open+1:], "]")
	if i := strings.LastIndexByte(arg, '.'); i >= 0 {
		arg = arg[i+1:]
	}
	return name[:open] + "[" + arg + "]"
}

// mustRegister panics when a rule cannot be registered, which only happens
// for an invalid tag or a nil func.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("provider: register validation %q: %v", tag, err))
	}
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func typeNameOf(v any) string {
	if t := reflect.TypeOf(v); t != nil {
		return t.Name()
	}
	return "nil"
}
