package coerce

import (
	"strconv"
	"strings"

	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/typeir"
)

// coerceString accepts strings as-is and stringifies everything else with
// a conversion flag. Null is not a string.
func coerceString(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	switch r := raw.(type) {
	case *jsonish.String:
		return &Value{Kind: KindString, Str: r.Value}, nil
	case *jsonish.Number:
		v := &Value{Kind: KindString, Str: r.Value.String()}
		v.AddFlag(Flag{Kind: FlagValueToString})

		return v, nil
	case *jsonish.Bool:
		v := &Value{Kind: KindString, Str: strconv.FormatBool(r.Value)}
		v.AddFlag(Flag{Kind: FlagValueToString})

		return v, nil
	case *jsonish.Object, *jsonish.Array:
		v := &Value{Kind: KindString, Str: jsonish.Render(raw)}
		v.AddFlag(Flag{Kind: FlagValueToString})

		return v, nil
	}

	return nil, c.mismatch(target, raw)
}

// coerceInt accepts integral numbers, fraction-free floats (flagged), and
// strings holding a parseable integer (flagged).
func coerceInt(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	switch r := raw.(type) {
	case *jsonish.Number:
		if i, err := r.Value.Int64(); err == nil {
			return &Value{Kind: KindInt, Int: i}, nil
		}

		f, err := r.Value.Float64()
		if err != nil {
			return nil, c.mismatch(target, raw)
		}

		if f != float64(int64(f)) {
			return nil, c.mismatch(target, raw)
		}

		v := &Value{Kind: KindInt, Int: int64(f)}
		v.AddFlag(Flag{Kind: FlagFloatToInt})

		return v, nil

	case *jsonish.String:
		s := strings.TrimSpace(r.Value)

		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			v := &Value{Kind: KindInt, Int: i}
			v.AddFlag(Flag{Kind: FlagStringToNumber})

			return v, nil
		}

		if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
			v := &Value{Kind: KindInt, Int: int64(f)}
			v.AddFlag(Flag{Kind: FlagStringToNumber})
			v.AddFlag(Flag{Kind: FlagFloatToInt})

			return v, nil
		}
	}

	return nil, c.mismatch(target, raw)
}

// coerceFloat accepts both number shapes and strings holding a parseable
// float (flagged).
func coerceFloat(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	switch r := raw.(type) {
	case *jsonish.Number:
		f, err := r.Value.Float64()
		if err != nil {
			return nil, c.mismatch(target, raw)
		}

		return &Value{Kind: KindFloat, Float: f}, nil

	case *jsonish.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(r.Value), 64); err == nil {
			v := &Value{Kind: KindFloat, Float: f}
			v.AddFlag(Flag{Kind: FlagStringToNumber})

			return v, nil
		}
	}

	return nil, c.mismatch(target, raw)
}

// coerceBool accepts booleans and the strings "true"/"false",
// case-insensitively (flagged).
func coerceBool(c ctx, target *typeir.Type, raw jsonish.Value) (*Value, error) {
	switch r := raw.(type) {
	case *jsonish.Bool:
		return &Value{Kind: KindBool, Bool: r.Value}, nil

	case *jsonish.String:
		switch strings.ToLower(strings.TrimSpace(r.Value)) {
		case "true":
			v := &Value{Kind: KindBool, Bool: true}
			v.AddFlag(Flag{Kind: FlagStringToBool})

			return v, nil
		case "false":
			v := &Value{Kind: KindBool, Bool: false}
			v.AddFlag(Flag{Kind: FlagStringToBool})

			return v, nil
		}
	}

	return nil, c.mismatch(target, raw)
}

// coerceAny types a raw value by its natural shape: integral numbers
// become ints, arrays become any-lists, objects become string-keyed
// any-maps.
func coerceAny(c ctx, raw jsonish.Value) (*Value, error) {
	switch r := raw.(type) {
	case *jsonish.Null:
		return &Value{Kind: KindNull, Type: typeir.Any()}, nil
	case *jsonish.Bool:
		return &Value{Kind: KindBool, Bool: r.Value}, nil
	case *jsonish.String:
		return &Value{Kind: KindString, Str: r.Value}, nil
	case *jsonish.Number:
		if i, err := r.Value.Int64(); err == nil {
			return &Value{Kind: KindInt, Int: i}, nil
		}

		f, err := r.Value.Float64()
		if err != nil {
			return nil, c.mismatch(typeir.Any(), raw)
		}

		return &Value{Kind: KindFloat, Float: f}, nil
	case *jsonish.Array:
		items := make([]*Value, 0, len(r.Items))

		for i, item := range r.Items {
			v, err := coerceValue(c.child(strconv.Itoa(i)), typeir.Any(), item)
			if err != nil {
				return nil, err
			}

			items = append(items, v)
		}

		return &Value{Kind: KindList, Type: typeir.List(typeir.Any()), Items: items}, nil
	case *jsonish.Object:
		entries := make([]MapEntry, 0, len(r.Entries))

		for _, e := range r.Entries {
			v, err := coerceValue(c.child(e.Key), typeir.Any(), e.Value)
			if err != nil {
				return nil, err
			}

			entries = append(entries, MapEntry{Key: e.Key, Value: v})
		}

		return &Value{
			Kind:    KindMap,
			Type:    typeir.Map(typeir.String(), typeir.Any()),
			Entries: entries,
		}, nil
	}

	return nil, c.mismatch(typeir.Any(), raw)
}
