package schema

import "fmt"

var conditionAliases = []string{"if", "when", "conditions"}
var actionAliases = []string{"then", "action", "actions"}

func parseRules(root map[string]any, contract *NormalizedContract) ([]NormalizedRule, *ParseError) {
	rawLogic, present := root["logic"]
	if !present {
		return nil, nil
	}
	arr, ok := rawLogic.([]any)
	if !ok {
		return nil, fail("\"logic\" must be an array")
	}

	var rules []NormalizedRule
	for _, raw := range arr {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fail("each logic rule must be an object")
		}

		if isDisabled(obj) {
			continue
		}

		rawCond, ok := firstAliasAny(obj, conditionAliases)
		if !ok {
			return nil, fail("logic rule is missing a condition (if/when/conditions)")
		}
		mode, conditions, err := parseConditions(rawCond, contract)
		if err != nil {
			return nil, err
		}

		rawAction, ok := firstAliasAny(obj, actionAliases)
		if !ok {
			return nil, fail("logic rule is missing an action (then/action/actions)")
		}
		actions, err := parseActions(rawAction, contract)
		if err != nil {
			return nil, err
		}

		rules = append(rules, NormalizedRule{Mode: mode, Conditions: conditions, Actions: actions})
	}

	return rules, nil
}

func isDisabled(obj map[string]any) bool {
	for _, key := range []string{"enabled", "isActive"} {
		if v, present := obj[key]; present {
			if b, ok := v.(bool); ok && !b {
				return true
			}
		}
	}
	return false
}

// parseConditions handles the three accepted shapes (§4.1 rule parsing):
// an array (mode all), an object with "all" xor "any", or a single
// condition object (mode all, one entry).
func parseConditions(raw any, contract *NormalizedContract) (RuleMode, []Condition, *ParseError) {
	switch v := raw.(type) {
	case []any:
		conds, err := parseConditionList(v, contract)
		if err != nil {
			return "", nil, err
		}
		return ModeAll, conds, nil
	case map[string]any:
		allRaw, hasAll := v["all"]
		anyRaw, hasAny := v["any"]
		switch {
		case hasAll && hasAny:
			return "", nil, fail("logic condition object must have exactly one of \"all\"/\"any\"")
		case hasAll:
			arr, ok := allRaw.([]any)
			if !ok {
				return "", nil, fail("\"all\" must be an array of conditions")
			}
			conds, err := parseConditionList(arr, contract)
			if err != nil {
				return "", nil, err
			}
			return ModeAll, conds, nil
		case hasAny:
			arr, ok := anyRaw.([]any)
			if !ok {
				return "", nil, fail("\"any\" must be an array of conditions")
			}
			conds, err := parseConditionList(arr, contract)
			if err != nil {
				return "", nil, err
			}
			return ModeAny, conds, nil
		default:
			cond, err := parseCondition(v, contract)
			if err != nil {
				return "", nil, err
			}
			return ModeAll, []Condition{cond}, nil
		}
	default:
		return "", nil, fail("logic condition must be an array or object")
	}
}

func parseConditionList(arr []any, contract *NormalizedContract) ([]Condition, *ParseError) {
	var out []Condition
	for _, raw := range arr {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fail("each condition must be an object")
		}
		cond, err := parseCondition(obj, contract)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

func parseCondition(obj map[string]any, contract *NormalizedContract) (Condition, *ParseError) {
	fieldID, ok := firstAlias(obj, fieldIDAliases)
	if !ok {
		return Condition{}, fail("condition is missing a field id")
	}
	if _, exists := contract.field(fieldID); !exists {
		return Condition{}, fail(fmt.Sprintf("condition references unknown field %q", fieldID))
	}

	rawOp, ok := obj["operator"]
	if !ok {
		return Condition{}, fail(fmt.Sprintf("condition on %q is missing an operator", fieldID))
	}
	opStr, ok := rawOp.(string)
	if !ok {
		return Condition{}, fail(fmt.Sprintf("condition on %q: operator must be a string", fieldID))
	}
	op, ok := operatorAliases[toLower(opStr)]
	if !ok {
		return Condition{}, fail(fmt.Sprintf("condition on %q uses unsupported operator %q", fieldID, opStr))
	}

	value, hasValue := obj["value"]

	switch op {
	case OpExists, OpNotExists:
		// accept no value
	case OpIn, OpNotIn:
		if !hasValue {
			return Condition{}, fail(fmt.Sprintf("condition on %q: %q requires an array value", fieldID, op))
		}
		arr, ok := value.([]any)
		if !ok {
			return Condition{}, fail(fmt.Sprintf("condition on %q: %q requires an array value", fieldID, op))
		}
		for _, v := range arr {
			if !isPrimitive(v) {
				return Condition{}, fail(fmt.Sprintf("condition on %q: %q array must contain only primitives", fieldID, op))
			}
		}
	case OpContains, OpNotContains:
		if !hasValue || !isPrimitive(value) {
			return Condition{}, fail(fmt.Sprintf("condition on %q: %q requires a primitive value", fieldID, op))
		}
	case OpGt, OpGte, OpLt, OpLte:
		if !hasValue {
			return Condition{}, fail(fmt.Sprintf("condition on %q: %q requires a value", fieldID, op))
		}
		if _, isNum := value.(float64); !isNum {
			if _, isStr := value.(string); !isStr {
				return Condition{}, fail(fmt.Sprintf("condition on %q: %q requires a number or string value", fieldID, op))
			}
		}
	default: // eq, neq
		if !hasValue {
			return Condition{}, fail(fmt.Sprintf("condition on %q: %q requires a value", fieldID, op))
		}
	}

	return Condition{FieldID: fieldID, Operator: op, Value: value, HasValue: hasValue}, nil
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case string, float64, bool, nil:
		return true
	default:
		return false
	}
}

// parseActions accepts a single action object or an array of them.
func parseActions(raw any, contract *NormalizedContract) ([]Action, *ParseError) {
	switch v := raw.(type) {
	case []any:
		var out []Action
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fail("each action must be an object")
			}
			a, err := parseAction(obj, contract)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		return out, nil
	case map[string]any:
		a, err := parseAction(v, contract)
		if err != nil {
			return nil, err
		}
		return []Action{a}, nil
	default:
		return nil, fail("action must be an object or array of objects")
	}
}

var showActionAliases = map[string]bool{"show": true, "show_field": true}
var hideActionAliases = map[string]bool{"hide": true, "hide_field": true}

func parseAction(obj map[string]any, contract *NormalizedContract) (Action, *ParseError) {
	rawType, ok := firstAlias(obj, typeAliases)
	if !ok {
		return Action{}, fail("action is missing a type")
	}

	var actionType ActionType
	switch {
	case showActionAliases[rawType]:
		actionType = ActionShow
	case hideActionAliases[rawType]:
		actionType = ActionHide
	case rawType == "set_visibility":
		rawVisible, present := obj["visible"]
		if !present {
			return Action{}, fail("\"set_visibility\" requires a boolean \"visible\"")
		}
		visible, ok := rawVisible.(bool)
		if !ok {
			return Action{}, fail("\"set_visibility\" requires a boolean \"visible\"")
		}
		if visible {
			actionType = ActionShow
		} else {
			actionType = ActionHide
		}
	default:
		return Action{}, fail(fmt.Sprintf("unsupported action type %q", rawType))
	}

	targetAliases := append([]string{"target", "target_field_id", "targetFieldId", "field"}, fieldIDAliases...)
	target, ok := firstAlias(obj, targetAliases)
	if !ok {
		return Action{}, fail("action is missing a target field id")
	}
	if _, exists := contract.field(target); !exists {
		return Action{}, fail(fmt.Sprintf("action targets unknown field %q", target))
	}

	return Action{Type: actionType, TargetFieldID: target}, nil
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
