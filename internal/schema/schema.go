// Package schema normalizes an arbitrary published form schema into a
// strict field registry and rule list, failing closed on anything it does
// not recognize. It is pure and has no I/O, mirroring the teacher's
// preference for small, independently testable packages under internal/.
package schema

import (
	"fmt"
	"regexp"
)

// FieldType enumerates the exact supported set (§4.1). Anything else fails
// the whole parse.
type FieldType string

const (
	Text        FieldType = "text"
	Textarea    FieldType = "textarea"
	Email       FieldType = "email"
	Number      FieldType = "number"
	Tel         FieldType = "tel"
	URL         FieldType = "url"
	Date        FieldType = "date"
	DateTime    FieldType = "datetime"
	Time        FieldType = "time"
	Radio       FieldType = "radio"
	Select      FieldType = "select"
	Multiselect FieldType = "multiselect"
	Checkbox    FieldType = "checkbox"
	Boolean     FieldType = "boolean"
	Rating      FieldType = "rating"
)

var supportedFieldTypes = map[FieldType]bool{
	Text: true, Textarea: true, Email: true, Number: true, Tel: true, URL: true,
	Date: true, DateTime: true, Time: true, Radio: true, Select: true,
	Multiselect: true, Checkbox: true, Boolean: true, Rating: true,
}

var optionRequiredTypes = map[FieldType]bool{
	Radio: true, Select: true, Multiselect: true,
}

// fieldIDAliases and typeAliases implement §4.1's "first non-empty wins,
// trimmed" alias resolution. Fixed lookups only — never reflect on shape.
var fieldIDAliases = []string{"id", "field_id", "fieldId", "key", "name"}
var typeAliases = []string{"type", "field_type", "fieldType"}

var supportedValidationKeys = map[string]bool{
	"required": true, "min": true, "max": true, "minLength": true,
	"maxLength": true, "pattern": true, "options": true,
}

// NormalizedField is a field as registered in a NormalizedContract.
type NormalizedField struct {
	ID              string
	Type            FieldType
	DefaultVisible  bool
	Required        bool
	Min             *float64
	Max             *float64
	MinLength       *int
	MaxLength       *int
	Pattern         string
	PatternCompiled *regexp.Regexp
	Options         []OptionValue
}

// OptionValue is a primitive extracted from an options list entry.
type OptionValue struct {
	// Canon is the (type,string(value)) canonicalization used for
	// radio/select/multiselect membership checks (§4.3).
	Canon string
	Raw   any
}

type RuleMode string

const (
	ModeAll RuleMode = "all"
	ModeAny RuleMode = "any"
)

type Operator string

const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "not_exists"
)

// operatorAliases maps every accepted spelling (lower-cased first) to its
// canonical Operator. §4.1 / Open Question: no unlisted aliases are added.
var operatorAliases = map[string]Operator{
	"eq": OpEq, "=": OpEq, "==": OpEq,
	"neq": OpNeq, "!=": OpNeq, "<>": OpNeq,
	"in": OpIn, "not_in": OpNotIn, "nin": OpNotIn,
	"gt": OpGt, ">": OpGt,
	"gte": OpGte, ">=": OpGte,
	"lt": OpLt, "<": OpLt,
	"lte": OpLte, "<=": OpLte,
	"contains": OpContains, "includes": OpContains,
	"not_contains": OpNotContains, "not_includes": OpNotContains,
	"exists": OpExists, "not_exists": OpNotExists,
}

type Condition struct {
	FieldID  string
	Operator Operator
	Value    any
	HasValue bool
}

type ActionType string

const (
	ActionShow ActionType = "show"
	ActionHide ActionType = "hide"
)

type Action struct {
	Type           ActionType
	TargetFieldID  string
}

type NormalizedRule struct {
	Mode       RuleMode
	Conditions []Condition
	Actions    []Action
}

// NormalizedContract is the C1 output: an ordered field registry and an
// ordered rule list. Field order is preserved for stable error output.
type NormalizedContract struct {
	FieldOrder []string
	Fields     map[string]*NormalizedField
	Rules      []NormalizedRule
}

func (c *NormalizedContract) field(id string) (*NormalizedField, bool) {
	f, ok := c.Fields[id]
	return f, ok
}

// ParseError carries the UNSUPPORTED_FORM_SCHEMA issue list (§4.1). Parsing
// stops at the first fault anywhere in the schema, so Issues holds exactly
// one entry.
type ParseError struct {
	Issues []string
}

func (e *ParseError) Error() string {
	if len(e.Issues) == 0 {
		return "unsupported form schema"
	}
	return e.Issues[0]
}

func fail(issue string) *ParseError {
	return &ParseError{Issues: []string{issue}}
}

// Parse normalizes an arbitrary published schema value. A non-nil
// *ParseError means the caller must respond 422 UNSUPPORTED_FORM_SCHEMA.
func Parse(raw any) (*NormalizedContract, *ParseError) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, fail("schema root must be an object")
	}

	contract := &NormalizedContract{Fields: map[string]*NormalizedField{}}

	fieldLists, err := collectFieldLists(root)
	if err != nil {
		return nil, err
	}

	for _, raw := range fieldLists {
		field, err := parseField(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := contract.Fields[field.ID]; dup {
			return nil, fail(fmt.Sprintf("duplicate field id %q", field.ID))
		}
		contract.Fields[field.ID] = field
		contract.FieldOrder = append(contract.FieldOrder, field.ID)
	}

	rules, err := parseRules(root, contract)
	if err != nil {
		return nil, err
	}
	contract.Rules = rules

	return contract, nil
}

// collectFieldLists gathers fields from the top-level "fields" array and
// from every step's "fields" array, per §4.1 rule 1.
func collectFieldLists(root map[string]any) ([]any, *ParseError) {
	var out []any

	if rawFields, present := root["fields"]; present {
		arr, ok := rawFields.([]any)
		if !ok {
			return nil, fail("\"fields\" must be an array")
		}
		out = append(out, arr...)
	}

	if rawSteps, present := root["steps"]; present {
		steps, ok := rawSteps.([]any)
		if !ok {
			return nil, fail("\"steps\" must be an array")
		}
		for _, rawStep := range steps {
			step, ok := rawStep.(map[string]any)
			if !ok {
				return nil, fail("each step must be an object")
			}
			if rawStepFields, present := step["fields"]; present {
				arr, ok := rawStepFields.([]any)
				if !ok {
					return nil, fail("step \"fields\" must be an array")
				}
				out = append(out, arr...)
			}
		}
	}

	return out, nil
}

func firstAlias(m map[string]any, aliases []string) (string, bool) {
	for _, key := range aliases {
		v, present := m[key]
		if !present {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = trimSpace(s)
		if s != "" {
			return s, true
		}
	}
	return "", false
}

func parseField(raw any) (*NormalizedField, *ParseError) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fail("each field must be an object")
	}

	id, ok := firstAlias(obj, fieldIDAliases)
	if !ok {
		return nil, fail("field is missing a non-empty id")
	}

	typeStr, ok := firstAlias(obj, typeAliases)
	if !ok {
		return nil, fail(fmt.Sprintf("field %q is missing a type", id))
	}
	ft := FieldType(typeStr)
	if !supportedFieldTypes[ft] {
		return nil, fail(fmt.Sprintf("field %q has unsupported type %q", id, typeStr))
	}

	field := &NormalizedField{ID: id, Type: ft, DefaultVisible: true}

	if hidden, present := obj["hidden"]; present {
		b, ok := hidden.(bool)
		if !ok {
			return nil, fail(fmt.Sprintf("field %q: \"hidden\" must be boolean", id))
		}
		if b {
			field.DefaultVisible = false
		}
	}

	// Validators may appear under "validation", "rules", or directly on
	// the field object itself (§4.1 rule 3).
	sources := []map[string]any{obj}
	for _, key := range []string{"validation", "rules"} {
		if sub, present := obj[key]; present {
			m, ok := sub.(map[string]any)
			if !ok {
				return nil, fail(fmt.Sprintf("field %q: %q must be an object", id, key))
			}
			sources = append(sources, m)
		}
	}

	for i, src := range sources {
		for key, val := range src {
			if key == "required" {
				b, ok := val.(bool)
				if !ok {
					return nil, fail(fmt.Sprintf("field %q: \"required\" must be boolean", id))
				}
				field.Required = b
				continue
			}
			if !supportedValidationKeys[key] {
				if i > 0 {
					return nil, fail(fmt.Sprintf("field %q: unsupported validation key %q", id, key))
				}
				continue // on the field object itself: id, type, hidden, label and similar keys
			}
			if err := applyValidator(field, key, val); err != nil {
				return nil, err
			}
		}
	}

	if optionRequiredTypes[ft] && len(field.Options) == 0 {
		return nil, fail(fmt.Sprintf("field %q of type %q requires a non-empty options list", id, ft))
	}

	return field, nil
}

func applyValidator(field *NormalizedField, key string, val any) *ParseError {
	switch key {
	case "min", "max":
		n, ok := asFiniteNumber(val)
		if !ok {
			return fail(fmt.Sprintf("field %q: %q must be a finite number", field.ID, key))
		}
		if key == "min" {
			field.Min = &n
		} else {
			field.Max = &n
		}
	case "minLength", "maxLength":
		n, ok := asFiniteNumber(val)
		if !ok {
			return fail(fmt.Sprintf("field %q: %q must be a finite number", field.ID, key))
		}
		i := int(n)
		if key == "minLength" {
			field.MinLength = &i
		} else {
			field.MaxLength = &i
		}
	case "pattern":
		s, ok := val.(string)
		if !ok {
			return fail(fmt.Sprintf("field %q: \"pattern\" must be a string", field.ID))
		}
		re, err := regexp.Compile(s)
		if err != nil {
			return fail(fmt.Sprintf("field %q: \"pattern\" does not compile: %v", field.ID, err))
		}
		field.Pattern = s
		field.PatternCompiled = re
	case "options":
		opts, ok := val.([]any)
		if !ok {
			return fail(fmt.Sprintf("field %q: \"options\" must be an array", field.ID))
		}
		for _, o := range opts {
			ov, err := extractOption(o)
			if err != nil {
				return fail(fmt.Sprintf("field %q: invalid option: %v", field.ID, err))
			}
			field.Options = append(field.Options, ov)
		}
	}
	return nil
}

func extractOption(raw any) (OptionValue, error) {
	switch v := raw.(type) {
	case string, float64, bool, nil:
		return OptionValue{Canon: canonOption(v), Raw: v}, nil
	case map[string]any:
		primitive, ok := firstAliasAny(v, fieldIDAliases)
		if !ok {
			if val, present := v["value"]; present {
				return OptionValue{Canon: canonOption(val), Raw: val}, nil
			}
			return OptionValue{}, fmt.Errorf("no id-aliased primitive found in option object")
		}
		return OptionValue{Canon: canonOption(primitive), Raw: primitive}, nil
	default:
		return OptionValue{}, fmt.Errorf("unsupported option shape %T", raw)
	}
}

func firstAliasAny(m map[string]any, aliases []string) (any, bool) {
	for _, key := range aliases {
		if v, present := m[key]; present {
			return v, true
		}
	}
	return nil, false
}

// CanonValue canonicalizes a value the same way option entries are
// canonicalized, so submitted values can be matched against Options.
func CanonValue(v any) string {
	return canonOption(v)
}

func canonOption(v any) string {
	switch t := v.(type) {
	case string:
		return "string:" + t
	case float64:
		return fmt.Sprintf("number:%v", t)
	case bool:
		return fmt.Sprintf("bool:%v", t)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("other:%v", t)
	}
}

func asFiniteNumber(v any) (float64, bool) {
	n, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if n != n || n > maxFinite || n < -maxFinite {
		return 0, false
	}
	return n, true
}

const maxFinite = 1.7976931348623157e+308

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
