package typeir

// Simplify rewrites t into its normal form. Two types are structurally
// equal iff their simplified forms are equal ignoring member order within
// unions. Simplify is a projection up to metadata placement: applying it
// twice yields a result structurally equal to applying it once. When a
// union member is itself a union kept nested for its streaming flags, the
// constraints and streaming flags pushed onto that member in one pass move
// on to its own members in the next.
//
// For unions the normal form is computed as:
//
//  1. Nested unions with zero metadata are flattened one level.
//  2. Duplicate members (ignoring metadata) are removed, first occurrence
//     kept.
//  3. A direct null member is noted and stripped from the working list.
//  4. Members that are structurally contained in another union member are
//     absorbed into it.
//  5. Check- and assert-level constraints on the union are moved onto each
//     remaining member; other constraints stay on the union.
//  6. The union's streaming done/needed propagate onto each member; state
//     stays on the union, and done/needed are also kept there.
//  7. If a remaining member is itself optional, the standalone null is
//     absorbed by it.
//  8. Zero members yield null; one member with no surviving null yields
//     that member; otherwise the union is rebuilt with the surviving null
//     appended last.
//
// All other kinds simplify by recursing into their children.
func Simplify(t *Type) *Type {
	if t == nil {
		return nil
	}

	if t.Kind != KindUnion {
		c := t.Clone()
		c.Elem = Simplify(c.Elem)
		c.Key = Simplify(c.Key)
		c.Ret = Simplify(c.Ret)

		for i, m := range c.Members {
			c.Members[i] = Simplify(m)
		}

		return c
	}

	return simplifyUnion(t)
}

func simplifyUnion(t *Type) *Type {
	members := flattenUnions(t.Members)
	members = dedupeMembers(members)

	// Strip the direct null, remembering whether one was present.
	hasNull := false
	kept := members[:0]

	for _, m := range members {
		if m.Kind == KindNull {
			hasNull = true

			continue
		}

		kept = append(kept, m)
	}

	members = absorbSubtypes(kept)

	// A member that is itself optional already admits null.
	if hasNull && anyMemberOptional(members) {
		hasNull = false
	}

	distributed, keptMeta := splitConstraints(t.Meta.Constraints)

	streaming := t.Meta.Streaming
	for _, m := range members {
		m.Meta.Constraints = append(m.Meta.Constraints, distributed...)

		if streaming.Done {
			m.Meta.Streaming.Done = true
		}

		if streaming.Needed {
			m.Meta.Streaming.Needed = true
		}
	}

	newMeta := Meta{Constraints: keptMeta, Streaming: streaming}

	switch {
	case len(members) == 0:
		return Null()
	case len(members) == 1 && !hasNull:
		return members[0]
	}

	if hasNull {
		members = append(members, Null())
	}

	u := Union(members...)
	u.Meta = newMeta

	return u
}

// flattenUnions simplifies each member and inlines nested union members
// one level. Only members whose simplified form carries zero metadata are
// inlined: a simplified union has already distributed its constraints, but
// streaming flags stay on it, and flattening those away would detach them
// from the member set they apply to.
func flattenUnions(members []*Type) []*Type {
	flat := make([]*Type, 0, len(members))

	for _, m := range members {
		sm := Simplify(m)

		if sm.Kind == KindUnion && sm.Meta.IsZero() {
			flat = append(flat, sm.Members...)

			continue
		}

		flat = append(flat, sm)
	}

	return flat
}

// dedupeMembers removes structural duplicates ignoring metadata, keeping
// the first occurrence.
func dedupeMembers(members []*Type) []*Type {
	unique := make([]*Type, 0, len(members))

	for _, m := range members {
		dup := false

		for _, u := range unique {
			if EqualIgnoringMeta(m, u) {
				dup = true

				break
			}
		}

		if !dup {
			unique = append(unique, m)
		}
	}

	return unique
}

// absorbSubtypes removes members that are structurally one of another union
// member's members: when X is contained in Y, X is absorbed into Y.
func absorbSubtypes(members []*Type) []*Type {
	removed := make([]bool, len(members))

	for i, candidate := range members {
		for j, target := range members {
			if i == j || removed[j] {
				continue
			}

			if isContainedIn(candidate, target) {
				removed[i] = true

				break
			}
		}
	}

	kept := make([]*Type, 0, len(members))

	for i, m := range members {
		if !removed[i] {
			kept = append(kept, m)
		}
	}

	return kept
}

// isContainedIn reports whether candidate structurally equals one of
// target's members, when target is a union. Metadata is ignored.
func isContainedIn(candidate, target *Type) bool {
	if target.Kind != KindUnion {
		return false
	}

	for _, m := range target.Members {
		if EqualIgnoringMeta(candidate, m) {
			return true
		}
	}

	return false
}

func anyMemberOptional(members []*Type) bool {
	for _, m := range members {
		if m.IsOptional() {
			return true
		}
	}

	return false
}

// splitConstraints partitions constraints into those distributed onto union
// members (check and assert levels) and those kept on the union itself.
func splitConstraints(cs []Constraint) (distributed, kept []Constraint) {
	for _, c := range cs {
		switch c.Level {
		case LevelCheck, LevelAssert:
			distributed = append(distributed, c)
		default:
			kept = append(kept, c)
		}
	}

	return distributed, kept
}
