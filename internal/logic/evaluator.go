// Package logic computes per-submission field visibility from a
// schema.NormalizedContract, the C2 component. It is pure: no I/O, no
// shared state, safe to call from any goroutine.
package logic

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/formgate/gateway/internal/schema"
)

// Visibility computes the visibility of every registered field given
// submitted data, per §4.2: initialize to defaultVisible, then apply rules
// in declared order; later rules override earlier ones for the same
// target field.
func Visibility(contract *schema.NormalizedContract, data map[string]any) map[string]bool {
	visible := make(map[string]bool, len(contract.FieldOrder))
	for _, id := range contract.FieldOrder {
		visible[id] = contract.Fields[id].DefaultVisible
	}

	for _, rule := range contract.Rules {
		if !ruleMatches(rule, data) {
			continue
		}
		for _, action := range rule.Actions {
			visible[action.TargetFieldID] = action.Type == schema.ActionShow
		}
	}

	return visible
}

func ruleMatches(rule schema.NormalizedRule, data map[string]any) bool {
	switch rule.Mode {
	case schema.ModeAny:
		for _, cond := range rule.Conditions {
			if evalCondition(cond, data) {
				return true
			}
		}
		return len(rule.Conditions) == 0
	default: // all
		for _, cond := range rule.Conditions {
			if !evalCondition(cond, data) {
				return false
			}
		}
		return true
	}
}

func evalCondition(cond schema.Condition, data map[string]any) bool {
	actual, present := data[cond.FieldID]

	switch cond.Operator {
	case schema.OpExists:
		return isPresentNonEmpty(actual, present)
	case schema.OpNotExists:
		return !isPresentNonEmpty(actual, present)
	case schema.OpEq:
		return present && structuralEqual(actual, cond.Value)
	case schema.OpNeq:
		return !present || !structuralEqual(actual, cond.Value)
	case schema.OpIn:
		return present && memberOf(actual, cond.Value)
	case schema.OpNotIn:
		return !present || !memberOf(actual, cond.Value)
	case schema.OpGt, schema.OpGte, schema.OpLt, schema.OpLte:
		return present && orderedCompare(cond.Operator, actual, cond.Value)
	case schema.OpContains:
		return present && containsValue(actual, cond.Value)
	case schema.OpNotContains:
		if !present {
			return true
		}
		return !containsValue(actual, cond.Value)
	default:
		return false
	}
}

// isPresentNonEmpty implements §4.2 "exists": non-null, non-undefined,
// non-empty-string-after-trim, non-empty-array.
func isPresentNonEmpty(v any, present bool) bool {
	if !present || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

// structuralEqual implements canonical-JSON value equality.
func structuralEqual(a, b any) bool {
	ca, errA := canonicalJSON(a)
	cb, errB := canonicalJSON(b)
	if errA != nil || errB != nil {
		return false
	}
	return ca == cb
}

func canonicalJSON(v any) (string, error) {
	b, err := json.Marshal(normalizeForCanon(v))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// normalizeForCanon recursively sorts map keys so structurally-equal
// values serialize identically regardless of key order.
func normalizeForCanon(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]any, 0, len(keys)*2)
		for _, k := range keys {
			ordered = append(ordered, k, normalizeForCanon(t[k]))
		}
		return ordered
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeForCanon(e)
		}
		return out
	default:
		return t
	}
}

func memberOf(actual any, set any) bool {
	arr, ok := set.([]any)
	if !ok {
		return false
	}
	for _, item := range arr {
		if structuralEqual(actual, item) {
			return true
		}
	}
	return false
}

// orderedCompare implements §4.2 gt/gte/lt/lte: numeric compare if both
// sides coerce to finite numbers, else ISO-datetime parse both sides,
// else false.
func orderedCompare(op schema.Operator, actual, expected any) bool {
	if an, aok := asNumber(actual); aok {
		if en, eok := asNumber(expected); eok {
			return compareOrdered(op, an, en)
		}
	}
	at, aok := asTime(actual)
	et, eok := asTime(expected)
	if aok && eok {
		return compareOrdered(op, float64(at.UnixNano()), float64(et.UnixNano()))
	}
	return false
}

func compareOrdered(op schema.Operator, a, b float64) bool {
	switch op {
	case schema.OpGt:
		return a > b
	case schema.OpGte:
		return a >= b
	case schema.OpLt:
		return a < b
	case schema.OpLte:
		return a <= b
	default:
		return false
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// containsValue implements §4.2 contains: substring if both strings, else
// membership if actual is an array, else false.
func containsValue(actual, expected any) bool {
	if as, ok := actual.(string); ok {
		if es, ok := expected.(string); ok {
			return strings.Contains(as, es)
		}
		return false
	}
	if arr, ok := actual.([]any); ok {
		for _, item := range arr {
			if structuralEqual(item, expected) {
				return true
			}
		}
	}
	return false
}
