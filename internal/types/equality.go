package types

// IsEq is the structural equality relation used throughout the engine
// (unification's "already equal" fast path, coherence's member-overlap
// check, and the reifier's union deduplication). TyError short-circuits to
// equal-to-everything so a single unresolved error doesn't cascade into
// further diagnostics.
//
// Unlike the reference this is modeled on, union and record equality are
// fully implemented here rather than left unsound: unions compare as
// multisets under IsEq, and records compare by key set then pointwise by
// value (spec.md §9's open question, resolved as documented in DESIGN.md).
func IsEq(s *Store, a, b TyId) bool {
	return isEq(s, a, b, make(map[[2]TyId]bool))
}

func isEq(s *Store, a, b TyId, seen map[[2]TyId]bool) bool {
	key := [2]TyId{a, b}
	if seen[key] {
		// Already assumed equal on this path; break recursive cycles
		// without claiming false equality.
		return true
	}
	seen[key] = true

	ta, tb := s.Get(a), s.Get(b)
	if _, ok := ta.(*TyError); ok {
		return true
	}
	if _, ok := tb.(*TyError); ok {
		return true
	}

	switch x := ta.(type) {
	case *TyPrim:
		y, ok := tb.(*TyPrim)
		return ok && x.Kind == y.Kind

	case *TySelf:
		_, ok := tb.(*TySelf)
		return ok

	case *TyList:
		y, ok := tb.(*TyList)
		return ok && isEq(s, x.Elem, y.Elem, seen)

	case *TyTuple:
		y, ok := tb.(*TyTuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !isEq(s, x.Elems[i], y.Elems[i], seen) {
				return false
			}
		}
		return true

	case *TyFunc:
		y, ok := tb.(*TyFunc)
		return ok && isEq(s, x.In, y.In, seen) && isEq(s, x.Out, y.Out, seen)

	case *TyData:
		y, ok := tb.(*TyData)
		if !ok || x.Data != y.Data || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !isEq(s, x.Args[i], y.Args[i], seen) {
				return false
			}
		}
		return true

	case *TyGen:
		y, ok := tb.(*TyGen)
		return ok && x.Index == y.Index && x.Scope == y.Scope

	case *TyAssoc:
		y, ok := tb.(*TyAssoc)
		return ok && x.Class == y.Class && x.Name == y.Name && isEq(s, x.Inner, y.Inner, seen)

	case *TyRecord:
		y, ok := tb.(*TyRecord)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for _, fx := range x.Fields {
			fy, ok := fieldByName(y, fx.Name)
			if !ok || !isEq(s, fx.Ty, fy, seen) {
				return false
			}
		}
		return true

	case *TyUnion:
		y, ok := tb.(*TyUnion)
		if !ok {
			return false
		}
		return unionMultisetEq(s, x.Members, y.Members, seen)

	default:
		return false
	}
}

func fieldByName(r *TyRecord, name string) (TyId, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Ty, true
		}
	}
	return 0, false
}

// unionMultisetEq compares two variant lists as multisets under IsEq: every
// member of xs has a distinct, unused match in ys and vice versa.
func unionMultisetEq(s *Store, xs, ys []TyId, seen map[[2]TyId]bool) bool {
	if len(xs) != len(ys) {
		return false
	}
	used := make([]bool, len(ys))
	for _, x := range xs {
		matched := false
		for j, y := range ys {
			if used[j] {
				continue
			}
			if isEq(s, x, y, seen) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
