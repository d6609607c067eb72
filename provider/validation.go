package provider

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidateConfigFields validates configuration against provided field
// definitions. Every missing required key is reported at once; the first
// malformed value is reported with its reason.
func ValidateConfigFields(providerName string, config map[string]string, fields []ConfigField) error {
	var missing []string
	for _, field := range fields {
		value := config[field.Key]
		if strings.TrimSpace(value) == "" {
			if field.Required {
				missing = append(missing, field.Key)
			}
			continue
		}
		if err := validateFieldType(field, value); err != nil {
			return &ConfigurationError{Provider: providerName, Reason: err.Error()}
		}
		if err := validateFieldPattern(field, value); err != nil {
			return &ConfigurationError{Provider: providerName, Reason: err.Error()}
		}
		if err := validateFieldLength(field, value); err != nil {
			return &ConfigurationError{Provider: providerName, Reason: err.Error()}
		}
	}

	if len(missing) > 0 {
		return &ConfigurationError{Provider: providerName, Fields: missing}
	}
	return nil
}

// validateFieldType validates field based on its type
func validateFieldType(field ConfigField, value string) error {
	switch field.Type {
	case "url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("field '%s' must be an http(s) URL", field.Key)
		}
	case "boolean":
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("field '%s' must be 'true' or 'false'", field.Key)
		}
	case "duration":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("field '%s' must be a duration such as 30s", field.Key)
		}
	}
	return nil
}

// validateFieldPattern validates field against regex pattern
func validateFieldPattern(field ConfigField, value string) error {
	if field.Pattern == "" {
		return nil
	}

	matched, err := regexp.MatchString(field.Pattern, value)
	if err != nil {
		return fmt.Errorf("invalid pattern for field '%s': %v", field.Key, err)
	}
	if !matched {
		return fmt.Errorf("field '%s' does not match required pattern", field.Key)
	}
	return nil
}

// validateFieldLength validates field length constraints
func validateFieldLength(field ConfigField, value string) error {
	if field.MinLength > 0 && len(value) < field.MinLength {
		return fmt.Errorf("field '%s' must be at least %d characters", field.Key, field.MinLength)
	}
	if field.MaxLength > 0 && len(value) > field.MaxLength {
		return fmt.Errorf("field '%s' must not exceed %d characters", field.Key, field.MaxLength)
	}
	return nil
}
