package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krypticmouse/dsgo/coerce"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

func TestCoerceList(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	v, err := coerce.Coerce(reg, typeir.List(typeir.Int()), parseRaw(t, "[1, 2, 3]", true))
	require.NoError(t, err)
	require.Equal(t, coerce.KindList, v.Kind)
	require.Len(t, v.Items, 3)
	assert.Zero(t, v.Score())
	assert.Equal(t, int64(2), v.Items[1].Int)
}

func TestCoerceListSingleToArray(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	v, err := coerce.Coerce(reg, typeir.List(typeir.Int()), parseRaw(t, "7", true))
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(7), v.Items[0].Int)
	assert.True(t, v.Cond.Has(coerce.FlagSingleToArray))
}

func TestCoerceListPartialOnItemError(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	v, err := coerce.Coerce(reg, typeir.List(typeir.Int()), parseRaw(t, `[1, "x", 3]`, true))
	require.NoError(t, err, "item errors must not fail the list")
	require.Len(t, v.Items, 2)
	assert.Equal(t, int64(1), v.Items[0].Int)
	assert.Equal(t, int64(3), v.Items[1].Int)

	require.True(t, v.Cond.Has(coerce.FlagArrayItemParseError))

	var flag coerce.Flag

	for _, f := range v.Cond.Flags {
		if f.Kind == coerce.FlagArrayItemParseError {
			flag = f
		}
	}

	assert.Equal(t, 1, flag.Index)
	assert.Error(t, flag.Err)
}

func TestCoerceListDeeperFailuresScoreWorse(t *testing.T) {
	t.Parallel()

	early := coerce.Flag{Kind: coerce.FlagArrayItemParseError, Index: 0}
	late := coerce.Flag{Kind: coerce.FlagArrayItemParseError, Index: 7}

	assert.Less(t, early.Penalty(), late.Penalty())
}

func TestCoerceMap(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.Map(typeir.String(), typeir.Int())

	v, err := coerce.Coerce(reg, target, parseRaw(t, `{"a": 1, "b": 2}`, true))
	require.NoError(t, err)
	require.Equal(t, coerce.KindMap, v.Kind)
	require.Len(t, v.Entries, 2)
	assert.Equal(t, "a", v.Entries[0].Key)
	assert.Equal(t, int64(2), v.Entries[1].Value.Int)
}

func TestCoerceMapPairsRepresentation(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.Map(typeir.String(), typeir.Int())

	v, err := coerce.Coerce(reg, target,
		parseRaw(t, `[{"key": "a", "value": 1}, {"key": "b", "value": 2}]`, true))
	require.NoError(t, err)
	require.Len(t, v.Entries, 2)
	assert.Equal(t, "b", v.Entries[1].Key)
}

func TestCoerceMapBadValueBecomesFlag(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.Map(typeir.String(), typeir.Int())

	v, err := coerce.Coerce(reg, target, parseRaw(t, `{"a": 1, "b": "nope"}`, true))
	require.NoError(t, err)
	require.Len(t, v.Entries, 1)
	assert.True(t, v.Cond.Has(coerce.FlagMapValueParseError))
}

func TestCoerceMapEnumKeys(t *testing.T) {
	t.Parallel()

	reg := enumRegistry(t)
	target := typeir.Map(typeir.Enum("Status"), typeir.Int())

	v, err := coerce.Coerce(reg, target, parseRaw(t, `{"Open": 1, "Bogus": 2}`, true))
	require.NoError(t, err)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "Open", v.Entries[0].Key)
	assert.True(t, v.Cond.Has(coerce.FlagMapKeyParseError))
}

func TestCoerceTuple(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.Tuple(typeir.Int(), typeir.String())

	v, err := coerce.Coerce(reg, target, parseRaw(t, `[1, "x"]`, true))
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.Equal(t, int64(1), v.Items[0].Int)
	assert.Equal(t, "x", v.Items[1].Str)

	_, err = coerce.Coerce(reg, target, parseRaw(t, `[1]`, true))
	require.Error(t, err, "tuples require exact arity")
}

func TestCoerceAliasCycleDepthGuard(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().
		AddAlias("Loop", typeir.Alias("Loop")).
		Build()
	require.NoError(t, err)

	_, err = coerce.Coerce(reg, typeir.Alias("Loop"), parseRaw(t, "1", true))
	require.Error(t, err)
	assert.ErrorIs(t, err, coerce.ErrDepthExceeded)
}

func TestCoerceRecursiveAlias(t *testing.T) {
	t.Parallel()

	reg := jsonAliasRegistry(t)

	v, err := coerce.Coerce(reg, typeir.Alias("JSON"),
		parseRaw(t, `{"a": [1, "two", {"b": null}]}`, true))
	require.NoError(t, err)
	require.Equal(t, coerce.KindMap, v.Kind)

	plain, ok := v.Plain().(map[string]any)
	require.True(t, ok)

	list, ok := plain["a"].([]any)
	require.True(t, ok)
	require.Len(t, list, 3)
	assert.Equal(t, int64(1), list[0])
	assert.Equal(t, "two", list[1])
}
