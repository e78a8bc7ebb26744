package jsonish

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errTrailingData rejects inputs that hold a valid JSON document followed
// by more content; those go through the lenient strategies instead.
var errTrailingData = errors.New("trailing data after json document")

// decodeStrict parses text as one standard JSON document, preserving
// object key order.
//
// Strings are Complete: they were closed by a quote to parse at all.
// A number at the document root is Incomplete, because with streaming
// input the next digit might still arrive.
func decodeStrict(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	if n, ok := v.(*Number); ok {
		n.State = Incomplete
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return &Null{}, nil
	case bool:
		return &Bool{Value: t}, nil
	case json.Number:
		return &Number{Value: t, State: Complete}, nil
	case string:
		return &String{Value: t, State: Complete}, nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}

	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := &Object{State: Complete}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		obj.Entries = append(obj.Entries, Entry{Key: key, Value: value})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return obj, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := &Array{State: Complete}

	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		arr.Items = append(arr.Items, item)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return arr, nil
}
