package coerce

import (
	"errors"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// errNotPairs rejects arrays that are not a {key, value} pair encoding.
var errNotPairs = errors.New("not a key/value pair array")

// coerceMap coerces an object into a map, validating each key against the
// declared key type (string, enum, or literal) and each value against the
// value type. Failed entries become flags rather than failing the map. An
// array of {key, value} pairs is accepted in lieu of an object literal.
func coerceMap(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	obj, ok := raw.(*jsonish.Object)
	if !ok {
		if arr, isArr := raw.(*jsonish.Array); isArr {
			converted, convErr := pairsToObject(arr)
			if convErr != nil {
				return nil, c.mismatch(target, raw)
			}

			obj = converted
		} else {
			return nil, c.mismatch(target, raw)
		}
	}

	result := &Value{Kind: KindMap, Type: target}

	if obj.State == jsonish.Incomplete {
		result.AddFlag(Flag{Kind: FlagIncomplete})
	}

	for _, e := range obj.Entries {
		keyRaw := &jsonish.String{Value: e.Key, State: jsonish.Complete}

		if _, err := coerceValue(c.child(e.Key), target.Key, keyRaw); err != nil {
			result.AddFlag(Flag{Kind: FlagMapKeyParseError, Key: e.Key, Err: err})

			continue
		}

		v, err := coerceValue(c.child(e.Key), target.Elem, e.Value)
		if err != nil {
			result.AddFlag(Flag{Kind: FlagMapValueParseError, Key: e.Key, Err: err})

			continue
		}

		result.Entries = append(result.Entries, MapEntry{Key: e.Key, Value: v})
	}

	return result, nil
}

// pairsToObject converts [{key, value}, ...] into an object.
func pairsToObject(arr *jsonish.Array) (*jsonish.Object, error) {
	obj := &jsonish.Object{State: arr.State}

	for _, item := range arr.Items {
		pair, ok := item.(*jsonish.Object)
		if !ok {
			return nil, errNotPairs
		}

		keyValue, hasKey := pair.Get("key")
		value, hasValue := pair.Get("value")

		if !hasKey || !hasValue {
			return nil, errNotPairs
		}

		keyStr, ok := keyValue.(*jsonish.String)
		if !ok {
			return nil, errNotPairs
		}

		obj.Entries = append(obj.Entries, jsonish.Entry{Key: keyStr.Value, Value: value})
	}

	return obj, nil
}
