package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krypticmouse/dsgo/coerce"
	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

func TestCoerceUnionPicksExactMatch(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.Union(typeir.Int(), typeir.String())

	v, err := coerce.Coerce(reg, target, parseRaw(t, "3", true))
	require.NoError(t, err)
	assert.Equal(t, coerce.KindInt, v.Kind)

	idx, ok := v.Cond.UnionWinner()
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	v, err = coerce.Coerce(reg, target, parseRaw(t, `"three"`, true))
	require.NoError(t, err)
	assert.Equal(t, coerce.KindString, v.Kind)

	idx, ok = v.Cond.UnionWinner()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestCoerceUnionLowestScoreWins(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	// "12" coerces to string with score 0 and to int with a conversion
	// flag; the string variant must win even though int is declared
	// first.
	target := typeir.Union(typeir.Int(), typeir.String())

	v, err := coerce.Coerce(reg, target, parseRaw(t, `"12"`, true))
	require.NoError(t, err)
	assert.Equal(t, coerce.KindString, v.Kind)
	assert.Equal(t, "12", v.Str)
}

func TestCoerceUnionTieBreaksByDeclaredOrder(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	// An integral number matches both variants at score 0; the earlier
	// declared variant must win, deterministically.
	target := typeir.Union(typeir.Float(), typeir.Int())

	v, err := coerce.Coerce(reg, target, parseRaw(t, "3", true))
	require.NoError(t, err)
	assert.Equal(t, coerce.KindFloat, v.Kind)

	flipped := typeir.Union(typeir.Int(), typeir.Float())

	v, err = coerce.Coerce(reg, flipped, parseRaw(t, "3", true))
	require.NoError(t, err)
	assert.Equal(t, coerce.KindInt, v.Kind)
}

func TestCoerceOptionalUnionNull(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	v, err := coerce.Coerce(reg, typeir.Optional(typeir.Int()), parseRaw(t, "null", true))
	require.NoError(t, err)
	assert.Equal(t, coerce.KindNull, v.Kind)
	assert.Zero(t, v.Score())
}

func TestCoerceUnionNoMatch(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.Union(typeir.Int(), typeir.Bool())

	opts := jsonish.DefaultOptions()
	opts.AllowAsString = true

	raw, err := jsonish.Parse("null", opts, true)
	require.NoError(t, err)

	_, err = coerce.Coerce(reg, target, raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, coerce.ErrUnionNoMatch)

	var noMatch *coerce.UnionNoMatchError

	require.ErrorAs(t, err, &noMatch)
	assert.Len(t, noMatch.Reasons, 2, "every member's reason is preserved")
}

func classBlocksRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg, err := schema.NewBuilder().
		AddClass(schema.ClassDef{
			Name: "TextBlock",
			Fields: []schema.FieldDef{
				{Name: "text", Type: typeir.String()},
			},
		}).
		AddClass(schema.ClassDef{
			Name: "ImageBlock",
			Fields: []schema.FieldDef{
				{Name: "url", Type: typeir.String()},
				{Name: "alt", Type: typeir.Optional(typeir.String())},
			},
		}).
		AddClass(schema.ClassDef{
			Name: "CodeBlock",
			Fields: []schema.FieldDef{
				{Name: "code", Type: typeir.String()},
				{Name: "lang", Type: typeir.String()},
			},
		}).
		Build()
	require.NoError(t, err)

	return reg
}

func TestCoerceArrayOfUnionsHomogeneous(t *testing.T) {
	t.Parallel()

	reg := classBlocksRegistry(t)
	element := typeir.Union(
		typeir.Class("TextBlock"),
		typeir.Class("ImageBlock"),
		typeir.Class("CodeBlock"),
	)

	// Twenty homogeneous blocks: the union hint should carry the winning
	// variant from element to element.
	var sb []byte

	sb = append(sb, '[')

	for i := 0; i < 20; i++ {
		if i > 0 {
			sb = append(sb, ',')
		}

		sb = append(sb, `{"text": "block"}`...)
	}

	sb = append(sb, ']')

	v, err := coerce.Coerce(reg, typeir.List(element), parseRaw(t, string(sb), true))
	require.NoError(t, err)
	require.Len(t, v.Items, 20)

	for i, item := range v.Items {
		require.Equal(t, coerce.KindClass, item.Kind, "item %d", i)
		assert.Equal(t, "TextBlock", item.Name, "item %d", i)

		idx, ok := item.Cond.UnionWinner()
		require.True(t, ok, "item %d carries a union match", i)
		assert.Equal(t, 0, idx, "item %d", i)
	}
}

func TestCoerceArrayOfUnionsHintDoesNotChangeOutcome(t *testing.T) {
	t.Parallel()

	reg := classBlocksRegistry(t)
	element := typeir.Union(
		typeir.Class("TextBlock"),
		typeir.Class("ImageBlock"),
		typeir.Class("CodeBlock"),
	)

	// A heterogeneous array: the hint from the image block must not make
	// the following text block coerce as an image.
	in := `[{"url": "u"}, {"text": "t"}, {"code": "c", "lang": "go"}]`

	v, err := coerce.Coerce(reg, typeir.List(element), parseRaw(t, in, true))
	require.NoError(t, err)
	require.Len(t, v.Items, 3)

	assert.Equal(t, "ImageBlock", v.Items[0].Name)
	assert.Equal(t, "TextBlock", v.Items[1].Name)
	assert.Equal(t, "CodeBlock", v.Items[2].Name)
}

func TestCoerceNestedUnionOutermostWinner(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	// (bool | (int | string))[]: the hint must reflect the OUTER union's
	// winner, not the inner one's.
	inner := typeir.Union(typeir.Int(), typeir.String())
	inner.Meta.Streaming.Done = true // non-zero meta keeps the nesting
	element := typeir.Union(typeir.Bool(), inner)

	v, err := coerce.Coerce(reg, typeir.List(element), parseRaw(t, `[1, 2]`, true))
	require.NoError(t, err)
	require.Len(t, v.Items, 2)

	idx, ok := v.Items[0].Cond.UnionWinner()
	require.True(t, ok)
	assert.Equal(t, 1, idx, "outermost union winner is the nested union variant")
}
