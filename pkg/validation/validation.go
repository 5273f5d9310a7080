package validation

import (
	"fmt"
	"strings"

	"acgl-management-api/internal/model"
)

// Flag value normalization: flags arrive as "0"/"1", "true"/"false" or
// "yes"/"no" depending on the client and are stored as "0"/"1".
var flagValues = map[string]string{
	"":      "0",
	"0":     "0",
	"1":     "1",
	"true":  "1",
	"false": "0",
	"yes":   "1",
	"no":    "0",
}

// NormalizeFlag returns the canonical "0"/"1" form of a flag value.
func NormalizeFlag(value string) (string, error) {
	normalized, ok := flagValues[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", fmt.Errorf("invalid flag value: %q", value)
	}
	return normalized, nil
}

// ValidateRequired checks if a string field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateRecordInput validates submitted field values against an entity
// schema and normalizes flag fields in place. It returns one message per
// failed constraint; an empty slice means the input is acceptable.
func ValidateRecordInput(schema model.Schema, fields map[string]string) []string {
	var errs []string

	for _, f := range schema.Fields {
		value := fields[f.Name]

		if f.Required {
			if err := ValidateRequired(f.Name, value); err != nil {
				errs = append(errs, err.Error())
				continue
			}
		}

		if f.Flag {
			normalized, err := NormalizeFlag(value)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", f.Name, err))
				continue
			}
			fields[f.Name] = normalized
		}

		if len(value) > 255 {
			errs = append(errs, fmt.Sprintf("%s cannot exceed 255 characters", f.Name))
		}
	}

	return errs
}

// FilterKnownFields drops any submitted key the schema does not declare, so
// arbitrary body keys never reach the store layer.
func FilterKnownFields(schema model.Schema, fields map[string]string) map[string]string {
	out := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		if v, ok := fields[f.Name]; ok {
			out[f.Name] = v
		}
	}
	return out
}
