package coerce

// Flag penalties. The score of a typed value is the sum of penalties over
// itself and all descendants; a score of zero is a perfect match, and the
// coercer returns the interpretation minimizing it. The exact integers are
// a tuning detail; the relative order is what ranks alternatives, in
// particular:
//
//	ExtraKey < StringToNumber < FloatToInt < SingleToArray < ImpliedKey
//
// Scoring never changes values, only picks among alternatives.
var penalties = map[FlagKind]int{
	FlagUnionMatch:                 0,
	FlagObjectFromFixedJSON:        0, // plus one per repair marker
	FlagIncomplete:                 1,
	FlagPending:                    1,
	FlagOptionalDefaultFromNoValue: 1,
	FlagObjectFromMarkdown:         1,
	FlagGreppedForJSON:             1,
	FlagFirstMatch:                 1,
	FlagExtraKey:                   1,
	FlagMapKeyParseError:           1,
	FlagMapValueParseError:         1,
	FlagStringToNumber:             2,
	FlagStringToBool:               2,
	FlagValueToString:              2,
	FlagFloatToInt:                 3,
	FlagSingleToArray:              4,
	FlagImpliedKey:                 5,
}

// Penalty returns the fixed non-negative penalty of a flag.
func (f Flag) Penalty() int {
	switch f.Kind {
	case FlagArrayItemParseError:
		// Failures deeper into an array hint that the interpretation went
		// off the rails late; penalize proportional to the index.
		return 1 + f.Index
	case FlagObjectFromFixedJSON:
		return len(f.Fixes)
	default:
		return penalties[f.Kind]
	}
}

// Score returns the penalty sum over v and all of its descendants.
func (v *Value) Score() int {
	if v == nil {
		return 0
	}

	score := 0

	for _, f := range v.Cond.Flags {
		score += f.Penalty()
	}

	for _, item := range v.Items {
		score += item.Score()
	}

	for _, e := range v.Entries {
		score += e.Value.Score()
	}

	for _, f := range v.Fields {
		score += f.Value.Score()
	}

	return score
}
