package dsgo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dsgo "github.com/krypticmouse/dsgo"
	"github.com/krypticmouse/dsgo/coerce"
	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/texttest"
	"github.com/krypticmouse/dsgo/typeir"
)

func answerRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg, err := schema.NewBuilder().
		AddClass(schema.ClassDef{
			Name: "Answer",
			Fields: []schema.FieldDef{
				{Name: "answer", Type: typeir.String()},
				{Name: "confidence", Type: typeir.Float()},
			},
		}).
		SetTarget(typeir.Class("Answer")).
		Build()
	require.NoError(t, err)

	return reg
}

func TestParsePlainJSON(t *testing.T) {
	t.Parallel()

	reg := answerRegistry(t)

	result, err := dsgo.Parse(`{"answer": "4", "confidence": 0.9}`,
		nil, reg, jsonish.DefaultOptions(), true)
	require.NoError(t, err)

	assert.Empty(t, result.Flags)
	assert.Zero(t, result.Value.Score())
	assert.Empty(t, result.Explanations)

	plain, ok := result.Value.Plain().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "4", plain["answer"])
	assert.InDelta(t, 0.9, plain["confidence"], 1e-9)
}

func TestParseFencedCodeBlock(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().
		AddClass(schema.ClassDef{
			Name:   "Payload",
			Fields: []schema.FieldDef{{Name: "a", Type: typeir.Int()}},
		}).
		SetTarget(typeir.Class("Payload")).
		Build()
	require.NoError(t, err)

	in := texttest.JoinLF(
		"here is the answer:",
		texttest.Fence("json", `{"a": 1}`),
	)

	result, err := dsgo.Parse(in, nil, reg, jsonish.DefaultOptions(), true)
	require.NoError(t, err)

	a, ok := result.Value.Field("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.Int)

	hasMarkdownFlag := false

	for _, f := range result.Flags {
		if f.Kind == coerce.FlagObjectFromMarkdown {
			hasMarkdownFlag = true
		}
	}

	assert.True(t, hasMarkdownFlag)
}

func TestParseSingleToArrayTolerance(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().SetTarget(typeir.List(typeir.Int())).Build()
	require.NoError(t, err)

	result, err := dsgo.Parse("7", nil, reg, jsonish.DefaultOptions(), true)
	require.NoError(t, err)

	require.Len(t, result.Value.Items, 1)
	assert.Equal(t, int64(7), result.Value.Items[0].Int)
	assert.True(t, result.Value.Cond.Has(coerce.FlagSingleToArray))
}

func TestParseAssertViolation(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().
		AddClass(schema.ClassDef{
			Name: "Measurement",
			Fields: []schema.FieldDef{
				{
					Name: "value",
					Type: typeir.Int().WithConstraint(typeir.Assert("positive", "this > 0")),
				},
			},
		}).
		SetTarget(typeir.Class("Measurement")).
		Build()
	require.NoError(t, err)

	_, err = dsgo.Parse(`{"value": -1}`, nil, reg, jsonish.DefaultOptions(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, coerce.ErrAssertsFailed)

	var failed *coerce.AssertFailedError

	require.ErrorAs(t, err, &failed)
	require.Len(t, failed.Failed, 1)
	assert.Equal(t, "positive", failed.Failed[0].Label)
}

func TestParseRecursiveClass(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().
		AddClass(schema.ClassDef{
			Name: "Node",
			Fields: []schema.FieldDef{
				{Name: "value", Type: typeir.Int()},
				{Name: "next", Type: typeir.Optional(typeir.Class("Node"))},
			},
		}).
		SetTarget(typeir.Class("Node")).
		Build()
	require.NoError(t, err)
	require.True(t, reg.IsRecursiveClass("Node"))

	result, err := dsgo.Parse(`{"value": 1, "next": {"value": 2, "next": null}}`,
		nil, reg, jsonish.DefaultOptions(), true)
	require.NoError(t, err)

	plain, ok := result.Value.Plain().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(1), plain["value"])

	next, ok := plain["next"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(2), next["value"])
	assert.Nil(t, next["next"])
}

func TestParseArrayOfUnionBlocks(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().
		AddClass(schema.ClassDef{
			Name:   "TextBlock",
			Fields: []schema.FieldDef{{Name: "text", Type: typeir.String()}},
		}).
		AddClass(schema.ClassDef{
			Name:   "ImageBlock",
			Fields: []schema.FieldDef{{Name: "url", Type: typeir.String()}},
		}).
		SetTarget(typeir.List(typeir.Union(
			typeir.Class("TextBlock"),
			typeir.Class("ImageBlock"),
		))).
		Build()
	require.NoError(t, err)

	in := `[{"text": "a"}, {"text": "b"}, {"url": "http://x"}, {"text": "c"}]`

	result, err := dsgo.Parse(in, nil, reg, jsonish.DefaultOptions(), true)
	require.NoError(t, err)
	require.Len(t, result.Value.Items, 4)

	assert.Equal(t, "TextBlock", result.Value.Items[0].Name)
	assert.Equal(t, "TextBlock", result.Value.Items[1].Name)
	assert.Equal(t, "ImageBlock", result.Value.Items[2].Name)
	assert.Equal(t, "TextBlock", result.Value.Items[3].Name)

	unionMatches := 0

	for _, f := range result.Flags {
		if f.Kind == coerce.FlagUnionMatch {
			unionMatches++
		}
	}

	assert.Equal(t, 4, unionMatches)
}

func TestParseStreamingPrefix(t *testing.T) {
	t.Parallel()

	reg := answerRegistry(t)
	prefix := `{"answer": "4", "confidence": 0.`

	result, err := dsgo.Parse(prefix, nil, reg, jsonish.DefaultOptions(), false)
	require.NoError(t, err)

	answer, ok := result.Value.Field("answer")
	require.True(t, ok)
	assert.Equal(t, "4", answer.Str)

	incomplete := false

	for _, f := range result.Flags {
		if f.Kind == coerce.FlagIncomplete {
			incomplete = true
		}
	}

	assert.True(t, incomplete, "a streaming prefix must carry incomplete flags")
}

func TestParseExplanationsForDroppedItems(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().SetTarget(typeir.List(typeir.Int())).Build()
	require.NoError(t, err)

	result, err := dsgo.Parse(`[1, "x", 3]`, nil, reg, jsonish.DefaultOptions(), true)
	require.NoError(t, err)
	require.Len(t, result.Explanations, 1)
	assert.Equal(t, "<root>.1", result.Explanations[0].Path)
	assert.Contains(t, result.Explanations[0].Message, "item dropped")
}

func TestParseTotalFailure(t *testing.T) {
	t.Parallel()

	reg := answerRegistry(t)

	opts := jsonish.DefaultOptions()
	opts.AllowAsString = false
	opts.AllowFixes = false
	opts.FindAllJSONObjects = false
	opts.AllowMarkdownJSON = false

	_, err := dsgo.Parse("not json at all", nil, reg, opts, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, dsgo.ErrLenientParseFailed)
}

func TestParseRawResponsePreserved(t *testing.T) {
	t.Parallel()

	reg := answerRegistry(t)
	in := `{"answer": "x", "confidence": 1.0}`

	result, err := dsgo.Parse(in, nil, reg, jsonish.DefaultOptions(), true)
	require.NoError(t, err)
	assert.Equal(t, in, result.RawResponse)
}
