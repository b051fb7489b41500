package classes

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// Members holds every declared member, indexed by the class it implements.
type Members struct {
	store   *types.Store
	classes *Table
	byClass map[types.ClassId][]*Member
	list    []*Member
}

// NewMembers creates an empty member table bound to store and classes.
func NewMembers(store *types.Store, classes *Table) *Members {
	return &Members{store: store, classes: classes, byClass: make(map[types.ClassId][]*Member)}
}

// All returns every member targeting class, in declaration order.
func (m *Members) All(class types.ClassId) []*Member {
	return m.byClass[class]
}

// Declare resolves and registers a member decl. Associated-type bindings
// and field bodies are stored for the define phase and inference to use;
// associated-type names not found on the class are reported as
// NoSuchClassItem immediately (AssocNames is known at this point, since
// class declaration fills it in before any member is declared), but field
// names are validated later (see internal/driver's defineMemberFields).
func (m *Members) Declare(decl *ast.MemberDecl, dl types.DataLookup, al types.AliasLookup) errcode.List {
	classId, ok := m.classes.LookupClass(decl.ClassName)
	if !ok {
		return errcode.List{errcode.New(errcode.NoSuchClass, decl.Span, "no such class %q", decl.ClassName)}
	}
	class := m.classes.Get(classId)

	scope := m.store.InsertGenScope(decl.Generics)
	hasScope := len(decl.Generics) > 0

	ctx := types.ResolveCtx{
		Classes: m.classes,
		Datas:   dl,
		Aliases: al,
		Scopes:  []types.GenScopeId{scope},
	}
	target, errs := m.store.Resolve(ctx, decl.Target)

	assoc := make(map[string]types.TyId)
	for _, a := range decl.Assocs {
		if !class.HasAssoc(a.Name) {
			errs = append(errs, errcode.New(errcode.NoSuchClassItem, a.Span, "class %q has no associated type %q", class.Name, a.Name))
			continue
		}
		ty, es := m.store.Resolve(ctx, a.Type)
		errs = append(errs, es...)
		assoc[a.Name] = ty
	}

	// Field names are checked against the class's declared signatures later
	// (internal/driver's defineMemberFields), once ct.Define has actually
	// populated them — class field signatures aren't resolved until step 8
	// of the phased driver, well after members are declared in step 3.
	// Only a same-member duplicate can be caught here.
	fields := make(map[string]ast.Expr)
	fieldSpan := make(map[string]ast.Span)
	for _, f := range decl.Fields {
		if _, dup := fields[f.Name]; dup {
			errs = append(errs, errcode.New(errcode.DuplicateMemberItem, f.Span, "member already supplies field %q", f.Name))
			continue
		}
		fields[f.Name] = f.Value
		fieldSpan[f.Name] = f.Span
	}

	id := MemberId(len(m.list))
	member := &Member{
		Id: id, ClassId: classId, Target: target, Scope: scope, HasScope: hasScope,
		Assoc: assoc, Fields: fields, FieldSpan: fieldSpan, Span: decl.Span,
	}
	m.list = append(m.list, member)
	m.byClass[classId] = append(m.byClass[classId], member)
	return errs
}

// CheckCoherence enforces at most one member matches any given concrete
// type per class. Unlike a fatal invariant breach, overlapping members are
// a recoverable diagnostic (spec.md §9's resolved design note): the first
// declared member wins and the rest are reported.
func (m *Members) CheckCoherence() errcode.List {
	var errs errcode.List
	for class, members := range m.byClass {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if overlaps(m.store, members[i].Target, members[j].Target) {
					errs = append(errs, errcode.New(errcode.CoherenceViolation, members[j].Span,
						"member for class %q overlaps an earlier member", m.classes.Get(class).Name).
						WithInfo("class", class).
						WithInfo("first", members[i].Id).
						WithInfo("second", members[j].Id))
				}
			}
		}
	}
	return errs
}

// Lookup returns every member of class that covers ty. More than one match
// is a coherence violation returned to the caller as a CoherenceViolation
// error rather than a panic; the resolution sites (the Access, ClassAssoc
// and Impl constraints) report that error and do not pick a member.
func Lookup(store *types.Store, class types.ClassId, members *Members, ty types.TyId) ([]*Member, *errcode.Error) {
	var matches []*Member
	for _, mem := range members.All(class) {
		if covers(store, mem.Target, ty) {
			matches = append(matches, mem)
		}
	}
	if len(matches) > 1 {
		return matches, errcode.New(errcode.CoherenceViolation, store.Span(ty),
			"multiple members of class %d cover this type", class)
	}
	return matches, nil
}

// overlaps reports whether two member target types could both cover some
// concrete type. A blanket (bare generic) on either side overlaps
// everything. A union target overlaps whenever any of its variants does:
// one shared variant is a concrete type both members would match, even
// when neither union contains the other (e.g. [Nat|Char] and [Char|Bool]
// both cover [Char]). The remaining shapes overlap when their heads agree
// and every component overlaps pointwise.
func overlaps(s *types.Store, a, b types.TyId) bool {
	if isBlanket(s, a) || isBlanket(s, b) {
		return true
	}
	if au, ok := s.Get(a).(*types.TyUnion); ok {
		for _, v := range au.Members {
			if overlaps(s, v, b) {
				return true
			}
		}
		return false
	}
	if bu, ok := s.Get(b).(*types.TyUnion); ok {
		for _, v := range bu.Members {
			if overlaps(s, a, v) {
				return true
			}
		}
		return false
	}

	ta, tb := s.Get(a), s.Get(b)
	switch x := ta.(type) {
	case *types.TyPrim:
		y, ok := tb.(*types.TyPrim)
		return ok && x.Kind == y.Kind

	case *types.TySelf:
		_, ok := tb.(*types.TySelf)
		return ok

	case *types.TyList:
		y, ok := tb.(*types.TyList)
		return ok && overlaps(s, x.Elem, y.Elem)

	case *types.TyTuple:
		y, ok := tb.(*types.TyTuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !overlaps(s, x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true

	case *types.TyFunc:
		y, ok := tb.(*types.TyFunc)
		return ok && overlaps(s, x.In, y.In) && overlaps(s, x.Out, y.Out)

	case *types.TyData:
		y, ok := tb.(*types.TyData)
		if !ok || x.Data != y.Data || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !overlaps(s, x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true

	case *types.TyAssoc:
		y, ok := tb.(*types.TyAssoc)
		return ok && x.Class == y.Class && x.Name == y.Name && overlaps(s, x.Inner, y.Inner)

	case *types.TyRecord:
		y, ok := tb.(*types.TyRecord)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for _, fx := range x.Fields {
			fy, ok := recordField(y, fx.Name)
			if !ok || !overlaps(s, fx.Ty, fy) {
				return false
			}
		}
		return true

	default:
		return types.IsEq(s, a, b)
	}
}

func isBlanket(s *types.Store, ty types.TyId) bool {
	_, ok := s.Get(ty).(*types.TyGen)
	return ok
}

// covers implements the structural "member target covers concrete type"
// relation: a blanket generic target matches anything; otherwise the
// constructors must agree and every component must cover pointwise. A union
// on the concrete side is covered when every one of its variants is covered
// by some member-side union variant (or by a non-union member target that
// covers it directly).
func covers(s *types.Store, memberTy, concreteTy types.TyId) bool {
	if isBlanket(s, memberTy) {
		return true
	}

	if cu, ok := s.Get(concreteTy).(*types.TyUnion); ok {
		for _, variant := range cu.Members {
			if !coversVariant(s, memberTy, variant) {
				return false
			}
		}
		return true
	}
	return coversVariant(s, memberTy, concreteTy)
}

func coversVariant(s *types.Store, memberTy, concreteTy types.TyId) bool {
	if mu, ok := s.Get(memberTy).(*types.TyUnion); ok {
		for _, mv := range mu.Members {
			if covers(s, mv, concreteTy) {
				return true
			}
		}
		return false
	}

	mt, ct := s.Get(memberTy), s.Get(concreteTy)
	switch m := mt.(type) {
	case *types.TyPrim:
		c, ok := ct.(*types.TyPrim)
		return ok && m.Kind == c.Kind

	case *types.TySelf:
		_, ok := ct.(*types.TySelf)
		return ok

	case *types.TyList:
		c, ok := ct.(*types.TyList)
		return ok && covers(s, m.Elem, c.Elem)

	case *types.TyTuple:
		c, ok := ct.(*types.TyTuple)
		if !ok || len(m.Elems) != len(c.Elems) {
			return false
		}
		for i := range m.Elems {
			if !covers(s, m.Elems[i], c.Elems[i]) {
				return false
			}
		}
		return true

	case *types.TyFunc:
		c, ok := ct.(*types.TyFunc)
		return ok && covers(s, m.In, c.In) && covers(s, m.Out, c.Out)

	case *types.TyData:
		c, ok := ct.(*types.TyData)
		if !ok || m.Data != c.Data || len(m.Args) != len(c.Args) {
			return false
		}
		for i := range m.Args {
			if !covers(s, m.Args[i], c.Args[i]) {
				return false
			}
		}
		return true

	case *types.TyAssoc:
		c, ok := ct.(*types.TyAssoc)
		return ok && m.Class == c.Class && m.Name == c.Name && covers(s, m.Inner, c.Inner)

	case *types.TyRecord:
		c, ok := ct.(*types.TyRecord)
		if !ok || len(m.Fields) != len(c.Fields) {
			return false
		}
		for _, mf := range m.Fields {
			cf, ok := recordField(c, mf.Name)
			if !ok || !covers(s, mf.Ty, cf) {
				return false
			}
		}
		return true

	case *types.TyUnion:
		// Handled above via coversVariant's member-side loop; reaching
		// here means an empty union, which covers nothing.
		return false

	default:
		return types.IsEq(s, memberTy, concreteTy)
	}
}

func recordField(r *types.TyRecord, name string) (types.TyId, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Ty, true
		}
	}
	return 0, false
}
