// Package validate type-checks submitted values against a
// schema.NormalizedContract's field registry, the C3 component. Pure,
// no I/O.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/formgate/gateway/internal/schema"
)

// Issue is one FIELD_VALIDATION_FAILED entry.
type Issue struct {
	FieldID string `json:"field_id"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

var stringTypes = map[schema.FieldType]bool{
	schema.Text: true, schema.Textarea: true, schema.Tel: true, schema.Date: true,
	schema.DateTime: true, schema.Time: true, schema.Email: true, schema.URL: true,
}

// Values validates every visible field's submitted value, returning the
// full issue list (never stops at the first failure, per the teacher's
// table-driven validator style of collecting everything the client needs
// to fix in one round trip).
func Values(contract *schema.NormalizedContract, visible map[string]bool, data map[string]any) []Issue {
	var issues []Issue

	for _, id := range contract.FieldOrder {
		if !visible[id] {
			continue
		}
		field := contract.Fields[id]
		value, present := data[id]

		if !present || isNilOrEmptyString(value) {
			if field.Required {
				issues = append(issues, Issue{FieldID: id, Message: "Required field is missing"})
			}
			continue
		}

		if msg := validateField(field, value); msg != "" {
			issues = append(issues, Issue{FieldID: id, Message: msg})
		}
	}

	return issues
}

func isNilOrEmptyString(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

func validateField(field *schema.NormalizedField, value any) string {
	switch {
	case stringTypes[field.Type]:
		return validateString(field, value)
	case field.Type == schema.Number || field.Type == schema.Rating:
		return validateNumber(field, value)
	case field.Type == schema.Checkbox || field.Type == schema.Boolean:
		return validateBoolean(field, value)
	case field.Type == schema.Radio || field.Type == schema.Select:
		return validateOption(field, value)
	case field.Type == schema.Multiselect:
		return validateMultiselect(field, value)
	default:
		return fmt.Sprintf("Unsupported field type %q", field.Type)
	}
}

func validateString(field *schema.NormalizedField, value any) string {
	s, ok := value.(string)
	if !ok {
		return "Value must be a string"
	}

	switch field.Type {
	case schema.Email:
		if !emailPattern.MatchString(s) {
			return "Value must be a valid email address"
		}
	case schema.URL:
		u, err := url.Parse(s)
		if err != nil || !u.IsAbs() {
			return "Value must be an absolute URL"
		}
	case schema.Date:
		if !datePattern.MatchString(s) {
			return "Value must be a date in YYYY-MM-DD format"
		}
	case schema.DateTime:
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return "Value must be an ISO-8601 timestamp with offset"
		}
	case schema.Time:
		if !timePattern.MatchString(s) {
			return "Value must be a time in HH:mm or HH:mm:ss format"
		}
	}

	if field.MinLength != nil && len(s) < *field.MinLength {
		return fmt.Sprintf("Value must be at least %d characters", *field.MinLength)
	}
	if field.MaxLength != nil && len(s) > *field.MaxLength {
		return fmt.Sprintf("Value must be at most %d characters", *field.MaxLength)
	}
	if field.PatternCompiled != nil && !field.PatternCompiled.MatchString(s) {
		return "Value does not match the required pattern"
	}
	return ""
}

func validateNumber(field *schema.NormalizedField, value any) string {
	n, ok := value.(float64)
	if !ok || n != n {
		return "Value must be a number"
	}
	if field.Type == schema.Rating && n != float64(int64(n)) {
		return "Value must be an integer"
	}
	if field.Min != nil && n < *field.Min {
		return fmt.Sprintf("Value must be at least %v", *field.Min)
	}
	if field.Max != nil && n > *field.Max {
		return fmt.Sprintf("Value must be at most %v", *field.Max)
	}
	return ""
}

func validateBoolean(field *schema.NormalizedField, value any) string {
	b, ok := value.(bool)
	if !ok {
		return "Value must be a boolean"
	}
	if field.Type == schema.Checkbox && field.Required && !b {
		return "This field must be checked"
	}
	return ""
}

func validateOption(field *schema.NormalizedField, value any) string {
	if !isPrimitiveValue(value) {
		return "Value must be a single option"
	}
	if !matchesOption(field, value) {
		return "Value is not one of the allowed options"
	}
	return ""
}

func validateMultiselect(field *schema.NormalizedField, value any) string {
	arr, ok := value.([]any)
	if !ok {
		return "Value must be an array of options"
	}
	for _, item := range arr {
		if !isPrimitiveValue(item) {
			return "Every selected value must be a primitive option"
		}
		if !matchesOption(field, item) {
			return "Value contains an option that is not allowed"
		}
	}
	count := len(arr)
	if field.Min != nil && float64(count) < *field.Min {
		return fmt.Sprintf("Select at least %v option(s)", *field.Min)
	}
	if field.Max != nil && float64(count) > *field.Max {
		return fmt.Sprintf("Select at most %v option(s)", *field.Max)
	}
	return ""
}

func matchesOption(field *schema.NormalizedField, value any) bool {
	canon := schema.CanonValue(value)
	for _, opt := range field.Options {
		if opt.Canon == canon {
			return true
		}
	}
	return false
}

func isPrimitiveValue(v any) bool {
	switch v.(type) {
	case string, float64, bool, nil:
		return true
	default:
		return false
	}
}
