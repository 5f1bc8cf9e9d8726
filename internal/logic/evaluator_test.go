package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/schema"
)

func mustParse(t *testing.T, raw any) *schema.NormalizedContract {
	t.Helper()
	c, err := schema.Parse(raw)
	require.Nil(t, err)
	return c
}

func TestVisibility_HideRuleStripsField(t *testing.T) {
	contract := mustParse(t, map[string]any{
		"fields": []any{
			map[string]any{"id": "contact_method", "type": "radio", "options": []any{"phone", "email"}},
			map[string]any{"id": "details", "type": "text"},
		},
		"logic": []any{
			map[string]any{
				"if":   []any{map[string]any{"field_id": "contact_method", "operator": "eq", "value": "phone"}},
				"then": []any{map[string]any{"type": "hide_field", "target": "details"}},
			},
		},
	})

	vis := Visibility(contract, map[string]any{"contact_method": "phone", "details": "x"})
	assert.False(t, vis["details"])

	vis2 := Visibility(contract, map[string]any{"contact_method": "email", "details": "x"})
	assert.True(t, vis2["details"])
}

func TestVisibility_LaterRuleOverridesEarlier(t *testing.T) {
	contract := mustParse(t, map[string]any{
		"fields": []any{
			map[string]any{"id": "a", "type": "text"},
			map[string]any{"id": "b", "type": "text"},
		},
		"logic": []any{
			map[string]any{
				"if":   []any{map[string]any{"field_id": "a", "operator": "exists"}},
				"then": []any{map[string]any{"type": "hide", "target": "b"}},
			},
			map[string]any{
				"if":   []any{map[string]any{"field_id": "a", "operator": "exists"}},
				"then": []any{map[string]any{"type": "show", "target": "b"}},
			},
		},
	})
	vis := Visibility(contract, map[string]any{"a": "anything"})
	assert.True(t, vis["b"])
}

func TestEvalCondition_AnyMode(t *testing.T) {
	contract := mustParse(t, map[string]any{
		"fields": []any{
			map[string]any{"id": "a", "type": "text"},
			map[string]any{"id": "b", "type": "text"},
			map[string]any{"id": "c", "type": "text"},
		},
		"logic": []any{
			map[string]any{
				"if": map[string]any{"any": []any{
					map[string]any{"field_id": "a", "operator": "eq", "value": "x"},
					map[string]any{"field_id": "b", "operator": "eq", "value": "y"},
				}},
				"then": []any{map[string]any{"type": "hide", "target": "c"}},
			},
		},
	})
	vis := Visibility(contract, map[string]any{"a": "x", "b": "nope"})
	assert.False(t, vis["c"])
}

func TestEvalCondition_NumericOrderedCompare(t *testing.T) {
	contract := mustParse(t, map[string]any{
		"fields": []any{
			map[string]any{"id": "age", "type": "number"},
			map[string]any{"id": "adult_only", "type": "text", "hidden": true},
		},
		"logic": []any{
			map[string]any{
				"if":   []any{map[string]any{"field_id": "age", "operator": "gte", "value": float64(18)}},
				"then": []any{map[string]any{"type": "show", "target": "adult_only"}},
			},
		},
	})
	// adult_only starts hidden, so it is visible only if 21 gte 18 holds.
	vis := Visibility(contract, map[string]any{"age": float64(21)})
	assert.True(t, vis["adult_only"])
}

func TestEvalCondition_ExistsTrimsEmptyString(t *testing.T) {
	contract := mustParse(t, map[string]any{
		"fields": []any{
			map[string]any{"id": "a", "type": "text"},
			map[string]any{"id": "b", "type": "text"},
		},
		"logic": []any{
			map[string]any{
				"if":   []any{map[string]any{"field_id": "a", "operator": "exists"}},
				"then": []any{map[string]any{"type": "hide", "target": "b"}},
			},
		},
	})
	vis := Visibility(contract, map[string]any{"a": "   "})
	assert.True(t, vis["b"])
}

func TestContainsValue_SubstringAndArrayMembership(t *testing.T) {
	assert.True(t, containsValue("hello world", "world"))
	assert.False(t, containsValue("hello", "world"))
	assert.True(t, containsValue([]any{"a", "b"}, "b"))
	assert.False(t, containsValue([]any{"a"}, "b"))
}

func TestStructuralEqual_KeyOrderIndependent(t *testing.T) {
	a := map[string]any{"x": float64(1), "y": float64(2)}
	b := map[string]any{"y": float64(2), "x": float64(1)}
	assert.True(t, structuralEqual(a, b))
}
