package jsonish_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krypticmouse/dsgo/jsonish"
)

func TestSimplifyCollapsesSingleAnyOf(t *testing.T) {
	t.Parallel()

	inner := &jsonish.Bool{Value: true}
	v := jsonish.Simplify(&jsonish.AnyOf{Candidates: []jsonish.Value{inner}, Original: "true"}, false)

	assert.Same(t, inner, v)
}

func TestSimplifyMergesNestedFixed(t *testing.T) {
	t.Parallel()

	v := jsonish.Simplify(&jsonish.Fixed{
		Inner: &jsonish.Fixed{
			Inner: &jsonish.Null{},
			Fixes: []jsonish.Fix{jsonish.FixTrailingComma},
		},
		Fixes: []jsonish.Fix{jsonish.FixGreppedForJSON},
	}, false)

	fixed, ok := v.(*jsonish.Fixed)
	require.True(t, ok)
	assert.Equal(t,
		[]jsonish.Fix{jsonish.FixGreppedForJSON, jsonish.FixTrailingComma},
		fixed.Fixes)
	assert.IsType(t, &jsonish.Null{}, fixed.Inner)
}

func TestSimplifyCompletesDeeplyWhenDone(t *testing.T) {
	t.Parallel()

	v := jsonish.Simplify(&jsonish.Array{
		Items: []jsonish.Value{
			&jsonish.Number{Value: "1", State: jsonish.Incomplete},
			&jsonish.String{Value: "x", State: jsonish.Incomplete},
		},
		State: jsonish.Incomplete,
	}, true)

	assert.Equal(t, jsonish.Complete, v.CompletionState())

	arr, ok := v.(*jsonish.Array)
	require.True(t, ok)

	for _, item := range arr.Items {
		assert.Equal(t, jsonish.Complete, item.CompletionState())
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   jsonish.Value
		want string
	}{
		"null":   {in: &jsonish.Null{}, want: "null"},
		"bool":   {in: &jsonish.Bool{Value: true}, want: "true"},
		"number": {in: &jsonish.Number{Value: "1.5"}, want: "1.5"},
		"string": {in: &jsonish.String{Value: "hi"}, want: `"hi"`},
		"array": {
			in: &jsonish.Array{Items: []jsonish.Value{
				&jsonish.Number{Value: "1"},
				&jsonish.Number{Value: "2"},
			}},
			want: "[1,2]",
		},
		"object": {
			in: &jsonish.Object{Entries: []jsonish.Entry{
				{Key: "a", Value: &jsonish.Number{Value: "1"}},
				{Key: "b", Value: &jsonish.Bool{Value: false}},
			}},
			want: `{"a":1,"b":false}`,
		},
		"anyof renders original": {
			in:   &jsonish.AnyOf{Candidates: []jsonish.Value{&jsonish.Null{}}, Original: "raw text"},
			want: "raw text",
		},
		"fixed renders inner": {
			in:   &jsonish.Fixed{Inner: &jsonish.Bool{Value: true}},
			want: "true",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, jsonish.Render(tc.in))
		})
	}
}

func TestObjectGet(t *testing.T) {
	t.Parallel()

	obj := &jsonish.Object{Entries: []jsonish.Entry{
		{Key: "a", Value: &jsonish.Number{Value: "1"}},
	}}

	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.IsType(t, &jsonish.Number{}, v)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}
