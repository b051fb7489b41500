package types

// Subst describes a structural substitution applied by Apply: an optional
// replacement for TySelf, and an optional generic scope whose TyGen nodes
// get replaced positionally by Args.
type Subst struct {
	Self     *TyId
	HasScope bool
	Scope    GenScopeId
	Args     []TyId
}

// Apply walks the type rooted at id, replacing TySelf (if Subst.Self is
// set) and TyGen nodes belonging to Subst.Scope (if Subst.HasScope) with
// their substitutes, reinserting only the nodes on the path that actually
// changed. It is used to instantiate a class field's declared signature
// against a concrete receiver (spec.md §4.2's member-field check) and to
// project a data type's single-record-variant payload against its type
// arguments (spec.md §4.5's non-inference field-access walk).
func (s *Store) Apply(sub Subst, id TyId) TyId {
	return s.apply(sub, id, make(map[TyId]TyId))
}

func (s *Store) apply(sub Subst, id TyId, memo map[TyId]TyId) TyId {
	if out, ok := memo[id]; ok {
		return out
	}
	switch t := s.Get(id).(type) {
	case *TySelf:
		if sub.Self != nil {
			memo[id] = *sub.Self
			return *sub.Self
		}
		return id

	case *TyGen:
		if sub.HasScope && t.Scope == sub.Scope && t.Index < len(sub.Args) {
			out := sub.Args[t.Index]
			memo[id] = out
			return out
		}
		return id

	case *TyError, *TyPrim:
		return id

	case *TyList:
		ne := s.apply(sub, t.Elem, memo)
		if ne == t.Elem {
			return id
		}
		out := s.Insert(s.Span(id), &TyList{Elem: ne})
		memo[id] = out
		return out

	case *TyTuple:
		changed := false
		elems := make([]TyId, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = s.apply(sub, e, memo)
			if elems[i] != e {
				changed = true
			}
		}
		if !changed {
			return id
		}
		out := s.Insert(s.Span(id), &TyTuple{Elems: elems})
		memo[id] = out
		return out

	case *TyUnion:
		changed := false
		members := make([]TyId, len(t.Members))
		for i, m := range t.Members {
			members[i] = s.apply(sub, m, memo)
			if members[i] != m {
				changed = true
			}
		}
		if !changed {
			return id
		}
		out := s.Insert(s.Span(id), &TyUnion{Members: members})
		memo[id] = out
		return out

	case *TyRecord:
		changed := false
		fields := make([]RecordField, len(t.Fields))
		for i, f := range t.Fields {
			nf := s.apply(sub, f.Ty, memo)
			fields[i] = RecordField{Name: f.Name, Ty: nf}
			if nf != f.Ty {
				changed = true
			}
		}
		if !changed {
			return id
		}
		out := s.Insert(s.Span(id), &TyRecord{Fields: fields})
		memo[id] = out
		return out

	case *TyFunc:
		ni := s.apply(sub, t.In, memo)
		no := s.apply(sub, t.Out, memo)
		if ni == t.In && no == t.Out {
			return id
		}
		out := s.Insert(s.Span(id), &TyFunc{In: ni, Out: no})
		memo[id] = out
		return out

	case *TyData:
		changed := false
		args := make([]TyId, len(t.Args))
		for i, a := range t.Args {
			args[i] = s.apply(sub, a, memo)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return id
		}
		out := s.Insert(s.Span(id), &TyData{Data: t.Data, Args: args})
		memo[id] = out
		return out

	case *TyAssoc:
		ni := s.apply(sub, t.Inner, memo)
		if ni == t.Inner {
			return id
		}
		out := s.Insert(s.Span(id), &TyAssoc{Inner: ni, Class: t.Class, Name: t.Name})
		memo[id] = out
		return out

	default:
		return id
	}
}
