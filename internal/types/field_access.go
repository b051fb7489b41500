package types

// DataVariants is the minimal data-table contract ResolveField needs: for
// a single-variant data type whose payload is a record or another data
// type, it returns that payload's interned type and the generic scope its
// variant was declared under, so Apply can project the payload against
// concrete type arguments.
type DataVariants interface {
	SingleRecordVariant(id DataId) (record TyId, scope GenScopeId, ok bool)
}

// ResolveField is the non-inference field-access walk described in
// spec.md §4.5's second paragraph: it walks through single-variant records
// across multiple data-type indirections, tracking already-seen data ids
// to break recursion, and reports how many indirections (data-type
// unwraps) the caller needs to emit in lowered code.
func ResolveField(s *Store, datas DataVariants, ty TyId, field string) (recordTy, fieldTy TyId, indirections int, ok bool) {
	seen := make(map[DataId]bool)
	cur := ty
	for {
		switch t := s.Get(cur).(type) {
		case *TyRecord:
			if fty, found := fieldByName(t, field); found {
				return cur, fty, indirections, true
			}
			return 0, 0, 0, false

		case *TyData:
			if seen[t.Data] {
				return 0, 0, 0, false
			}
			seen[t.Data] = true
			record, scope, has := datas.SingleRecordVariant(t.Data)
			if !has {
				return 0, 0, 0, false
			}
			cur = s.Apply(Subst{HasScope: true, Scope: scope, Args: t.Args}, record)
			indirections++

		default:
			return 0, 0, 0, false
		}
	}
}
