package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krypticmouse/dsgo/coerce"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
)

func TestRunUserChecksReportsChecks(t *testing.T) {
	t.Parallel()

	target := typeir.Int().WithConstraint(typeir.Check("positive", "this > 0"))

	reg := emptyRegistry(t)

	v, err := coerce.Coerce(reg, target, parseRaw(t, "-3", true))
	require.NoError(t, err)

	results, err := coerce.RunUserChecks(reg, v, target)
	require.NoError(t, err, "failing checks never reject the parse")
	require.Len(t, results, 1)
	assert.Equal(t, "positive", results[0].Label)
	assert.False(t, results[0].Passed)

	v, err = coerce.Coerce(reg, target, parseRaw(t, "3", true))
	require.NoError(t, err)

	results, err = coerce.RunUserChecks(reg, v, target)
	require.NoError(t, err)
	assert.True(t, results[0].Passed)
}

func TestRunUserChecksAssertFailureRejects(t *testing.T) {
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
		Build()
	require.NoError(t, err)

	v, err := coerce.Coerce(reg, typeir.Class("Measurement"), parseRaw(t, `{"value": -1}`, true))
	require.NoError(t, err)

	_, err = coerce.RunUserChecks(reg, v, typeir.Class("Measurement"))
	require.Error(t, err)
	assert.ErrorIs(t, err, coerce.ErrAssertsFailed)

	var failed *coerce.AssertFailedError

	require.ErrorAs(t, err, &failed)
	require.Len(t, failed.Failed, 1)
	assert.Equal(t, "positive", failed.Failed[0].Label)
}

func TestRunUserChecksDeduplicatesAsserts(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.List(typeir.Int().WithConstraint(typeir.Assert("positive", "this > 0")))

	v, err := coerce.Coerce(reg, target, parseRaw(t, "[-1, -2, -3]", true))
	require.NoError(t, err)

	_, err = coerce.RunUserChecks(reg, v, target)
	require.Error(t, err)

	var failed *coerce.AssertFailedError

	require.ErrorAs(t, err, &failed)
	assert.Len(t, failed.Failed, 1,
		"the same assert failing on several items reports once")
}

func TestRunUserChecksClassLevelConstraints(t *testing.T) {
	t.Parallel()

	reg, err := schema.NewBuilder().
		AddClass(schema.ClassDef{
			Name: "Range",
			Fields: []schema.FieldDef{
				{Name: "lo", Type: typeir.Int()},
				{Name: "hi", Type: typeir.Int()},
			},
			Constraints: []typeir.Constraint{
				typeir.Check("ordered", "this.lo <= this.hi"),
			},
		}).
		Build()
	require.NoError(t, err)

	v, err := coerce.Coerce(reg, typeir.Class("Range"), parseRaw(t, `{"lo": 1, "hi": 5}`, true))
	require.NoError(t, err)

	results, err := coerce.RunUserChecks(reg, v, typeir.Class("Range"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)

	v, err = coerce.Coerce(reg, typeir.Class("Range"), parseRaw(t, `{"lo": 9, "hi": 5}`, true))
	require.NoError(t, err)

	results, err = coerce.RunUserChecks(reg, v, typeir.Class("Range"))
	require.NoError(t, err)
	assert.False(t, results[0].Passed)
}

func TestRunUserChecksUnionConstraintAppliesToWinner(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)

	u := typeir.Union(typeir.Int(), typeir.String())
	u.Meta.Constraints = []typeir.Constraint{typeir.Check("nonzero", "this != 0")}

	v, err := coerce.Coerce(reg, u, parseRaw(t, "0", true))
	require.NoError(t, err)

	results, err := coerce.RunUserChecks(reg, v, u)
	require.NoError(t, err)
	require.Len(t, results, 1, "the distributed constraint evaluates once, on the winner")
	assert.False(t, results[0].Passed)
}

func TestRunUserChecksBadExpressionFails(t *testing.T) {
	t.Parallel()

	reg := emptyRegistry(t)
	target := typeir.Int().WithConstraint(typeir.Check("broken", "this +"))

	v, err := coerce.Coerce(reg, target, parseRaw(t, "1", true))
	require.NoError(t, err)

	results, err := coerce.RunUserChecks(reg, v, target)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed, "an uncompilable expression counts as failed")
}
