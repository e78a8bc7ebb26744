package typeir_test

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/krypticmouse/dsgo/typeir"
)

// genScalar produces leaf types, occasionally annotated.
func genScalar() gopter.Gen {
	return gen.IntRange(0, 7).Map(func(i int) *typeir.Type {
		switch i {
		case 0:
			return typeir.Bool()
		case 1:
			return typeir.Int()
		case 2:
			return typeir.Float()
		case 3:
			return typeir.String()
		case 4:
			return typeir.Null()
		case 5:
			return typeir.LiteralStringType("x")
		case 6:
			return typeir.LiteralIntType(7)
		default:
			return typeir.Int().WithConstraint(typeir.Check("pos", "this > 0"))
		}
	})
}

// genType produces arbitrary type trees up to the given depth.
func genType(depth int) gopter.Gen {
	if depth <= 0 {
		return genScalar()
	}

	return gen.IntRange(0, 5).FlatMap(func(v any) gopter.Gen {
		switch v.(int) {
		case 0:
			return genType(depth - 1).Map(typeir.List)
		case 1:
			return genType(depth - 1).Map(func(e *typeir.Type) *typeir.Type {
				return typeir.Map(typeir.String(), e)
			})
		case 2, 3:
			return gen.SliceOfN(3, genType(depth-1)).Map(func(ms []*typeir.Type) *typeir.Type {
				return typeir.Union(ms...)
			})
		case 4:
			return gen.SliceOfN(3, genType(depth-1)).Map(func(ms []*typeir.Type) *typeir.Type {
				u := typeir.Union(ms...)
				u.Meta.Constraints = []typeir.Constraint{typeir.Assert("nz", "this != 0")}

				return u
			})
		default:
			return genScalar()
		}
	}, reflect.TypeOf(&typeir.Type{}))
}

// TestSimplifyIsProjectionProperty verifies that simplify is a projection:
// simplifying an already-simplified type changes nothing, structurally.
func TestSimplifyIsProjectionProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("simplify(simplify(t)) == simplify(t)", prop.ForAll(
		func(tp *typeir.Type) bool {
			once := typeir.Simplify(tp)
			twice := typeir.Simplify(once)

			return typeir.EqualIgnoringMeta(once, twice)
		},
		genType(3),
	))

	properties.TestingRun(t)
}

// TestUnionNullMarkerProperty verifies that for unions over scalars, the
// simplified form keeps a standalone null exactly when the input had a null
// member alongside at least one non-null member.
func TestUnionNullMarkerProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("standalone null survives iff declared", prop.ForAll(
		func(members []*typeir.Type) bool {
			u := typeir.Union(members...)
			got := typeir.Simplify(u)

			hadNull := false
			nonNull := map[string]bool{}

			for _, m := range members {
				if m.Kind == typeir.KindNull {
					hadNull = true
				} else {
					nonNull[m.String()] = true
				}
			}

			if len(nonNull) == 0 {
				return got.Kind == typeir.KindNull || !hadNull
			}

			if !hadNull || len(nonNull) == 0 {
				if got.Kind != typeir.KindUnion {
					return true
				}

				return !got.IsOptional()
			}

			return got.Kind == typeir.KindUnion && got.IsOptional()
		},
		gen.SliceOfN(4, genScalar()),
	))

	properties.TestingRun(t)
}

// TestConstraintDistributionProperty verifies that check/assert constraints
// on a union move onto every non-null member and off the union itself.
func TestConstraintDistributionProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	c := typeir.Assert("bounds", "this < 100")

	properties.Property("constraints distribute to members", prop.ForAll(
		func(pick int) bool {
			// Two structurally distinct non-null members plus null keep the
			// simplified form a union.
			members := []*typeir.Type{typeir.Int(), typeir.String(), typeir.Null()}
			u := typeir.Union(members[:2+pick%2]...)
			u.Members = append(u.Members, typeir.Null())
			u.Meta.Constraints = []typeir.Constraint{c}

			got := typeir.Simplify(u)
			if got.Kind != typeir.KindUnion {
				return false
			}

			for _, cc := range got.Meta.Constraints {
				if cc == c {
					return false
				}
			}

			for _, m := range got.Members {
				if m.Kind == typeir.KindNull {
					continue
				}

				found := false

				for _, cc := range m.Meta.Constraints {
					if cc == c {
						found = true
					}
				}

				if !found {
					return false
				}
			}

			return true
		},
		gen.IntRange(0, 1),
	))

	properties.TestingRun(t)
}
