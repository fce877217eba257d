package tinyvecdb

import (
	"encoding/json"
	"fmt"
)

// parseFilter decodes a filter document once, up front, so query and
// mutation callers can reuse the parsed form across every record
// instead of re-unmarshaling the top-level object per candidate.
func parseFilter(filterJSON []byte) (map[string]json.RawMessage, error) {
	if len(filterJSON) == 0 {
		return nil, nil
	}
	var filter map[string]json.RawMessage
	if err := json.Unmarshal(filterJSON, &filter); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return filter, nil
}

// evalFilter applies a filter document (spec.md §4.5) to a record's raw
// JSON metadata. A nil or empty filter always matches. metadata may be
// nil (no metadata stored), in which case every field lookup misses.
func evalFilter(filter map[string]json.RawMessage, metadata json.RawMessage) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	var doc map[string]json.RawMessage
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc); err != nil {
			return false, fmt.Errorf("%w: metadata is not a JSON object: %v", ErrInvalidFilter, err)
		}
	}
	return matchObject(filter, doc)
}

// matchObject evaluates an implicit conjunction of keys: each key in
// filter is either an operator ($-prefixed, only valid at the top of a
// field's own sub-filter) or a field name whose value is either an
// operator object or a nested object to recurse into.
func matchObject(filter map[string]json.RawMessage, doc map[string]json.RawMessage) (bool, error) {
	for field, rawCond := range filter {
		if isOperatorKey(field) {
			return false, fmt.Errorf("%w: operator %q used outside a field predicate", ErrInvalidFilter, field)
		}

		var cond map[string]json.RawMessage
		if err := json.Unmarshal(rawCond, &cond); err != nil {
			return false, fmt.Errorf("%w: predicate for %q must be an object: %v", ErrInvalidFilter, field, err)
		}

		ok, err := matchField(field, cond, doc)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// matchField evaluates the predicate object for a single field against
// doc, which may be nil if an ancestor object was missing.
func matchField(field string, cond map[string]json.RawMessage, doc map[string]json.RawMessage) (bool, error) {
	raw, present := doc[field]

	if hasOperatorKeys(cond) {
		for op, arg := range cond {
			ok, err := evalOperator(op, arg, raw, present)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}

	// Nested-object traversal: the field's own value must itself be a
	// JSON object, and cond recurses into it as a fresh implicit
	// conjunction (spec.md §4.5, "recursively matched against the
	// field's object value"). A missing field recurses with a nil
	// object, so beneath it only $exists:false, $ne and $nin can hold.
	if !present {
		return matchObject(cond, nil)
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return false, nil
	}
	return matchObject(cond, nested)
}

func isOperatorKey(key string) bool {
	return len(key) > 0 && key[0] == '$'
}

func hasOperatorKeys(cond map[string]json.RawMessage) bool {
	for k := range cond {
		if isOperatorKey(k) {
			return true
		}
	}
	return false
}

// evalOperator applies one $-operator to the field value found at raw
// (present indicates whether the field existed at all in its parent).
func evalOperator(op string, arg json.RawMessage, raw json.RawMessage, present bool) (bool, error) {
	switch op {
	case "$eq":
		if !present {
			return false, nil
		}
		return jsonEqual(raw, arg), nil
	case "$ne":
		if !present {
			return true, nil
		}
		return !jsonEqual(raw, arg), nil
	case "$gt", "$gte", "$lt", "$lte":
		if !present {
			return false, nil
		}
		return compareNumeric(op, raw, arg)
	case "$in":
		if !present {
			return false, nil
		}
		return inSet(raw, arg)
	case "$nin":
		if !present {
			return true, nil
		}
		ok, err := inSet(raw, arg)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case "$exists":
		var want bool
		if err := json.Unmarshal(arg, &want); err != nil {
			return false, fmt.Errorf("%w: $exists requires a boolean: %v", ErrInvalidFilter, err)
		}
		return present == want, nil
	default:
		return false, fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, op)
	}
}

// jsonEqual reports strict equality per spec.md §4.5: both sides must
// decode to the same JSON type, and type mismatches are always false,
// never coerced.
func jsonEqual(a, b json.RawMessage) bool {
	var av, bv interface{}
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	return deepJSONEqual(av, bv)
}

func deepJSONEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepJSONEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !deepJSONEqual(v, bvv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// compareNumeric applies a numeric comparison operator; both sides must
// decode as JSON numbers or the predicate is false, never coerced from
// a numeric-looking string.
func compareNumeric(op string, raw, arg json.RawMessage) (bool, error) {
	a, aOK := asFloat64(raw)
	b, bOK := asFloat64(arg)
	if !aOK || !bOK {
		return false, nil
	}
	switch op {
	case "$gt":
		return a > b, nil
	case "$gte":
		return a >= b, nil
	case "$lt":
		return a < b, nil
	case "$lte":
		return a <= b, nil
	}
	return false, fmt.Errorf("%w: unknown numeric operator %q", ErrInvalidFilter, op)
}

// asFloat64 decodes raw as a JSON number. json.Unmarshal happily
// decodes "null" into a float64 zero value with no error, so that case
// is rejected explicitly rather than silently coercing a missing/null
// value into 0 for $gt/$gte/$lt/$lte.
func asFloat64(raw json.RawMessage) (float64, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// inSet implements $in: for a scalar field value, element-wise equality
// against the provided array; for an array field value, a non-empty
// intersection with it (spec.md §4.5).
func inSet(raw, arg json.RawMessage) (bool, error) {
	var candidates []json.RawMessage
	if err := json.Unmarshal(arg, &candidates); err != nil {
		return false, fmt.Errorf("%w: $in/$nin requires an array argument: %v", ErrInvalidFilter, err)
	}

	var asArray []json.RawMessage
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return intersects(asArray, candidates), nil
	}

	for _, c := range candidates {
		if jsonEqual(raw, c) {
			return true, nil
		}
	}
	return false, nil
}

func intersects(fieldValues, candidates []json.RawMessage) bool {
	for _, fv := range fieldValues {
		for _, c := range candidates {
			if jsonEqual(fv, c) {
				return true
			}
		}
	}
	return false
}
