package types

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
)

// ClassLookup resolves a class name to its id, used while resolving
// TEAssoc's explicit class name and generic-parameter obligations
// elsewhere.
type ClassLookup interface {
	LookupClass(name string) (ClassId, bool)
}

// DataLookup resolves a data type name to its id and the generic scope its
// head was declared under.
type DataLookup interface {
	LookupData(name string) (DataId, GenScopeId, bool)
}

// AliasDef is the resolved right-hand side of an alias declaration.
type AliasDef struct {
	Scope  GenScopeId
	Target TyId
}

// AliasLookup resolves an alias name to its definition.
type AliasLookup interface {
	LookupAlias(name string) (AliasDef, bool)
}

// ResolveCtx carries everything Resolve needs to turn surface syntax into
// interned types: the lookup tables for data/alias/class names, the stack
// of generic scopes currently in scope for bare-name resolution (innermost
// first), and whether `Self` is currently meaningful.
type ResolveCtx struct {
	Classes     ClassLookup
	Datas       DataLookup
	Aliases     AliasLookup
	Scopes      []GenScopeId
	SelfAllowed bool
	SelfClass   ClassId
}

// Resolve interns an ast.TypeExpr, producing an errcode.List of any
// unresolved references (spec.md §3: "After the declare phase, every
// referenced class/data/alias resolves or the item is dropped with an
// error.").
func (s *Store) Resolve(ctx ResolveCtx, te ast.TypeExpr) (TyId, errcode.List) {
	switch t := te.(type) {
	case *ast.TEName:
		return s.resolveName(ctx, t)

	case *ast.TESelf:
		if !ctx.SelfAllowed {
			return s.Insert(t.Span, &TyError{Reason: "Self outside class context"}),
				errcode.List{errcode.New(errcode.Unsupported, t.Span, "Self is only valid inside a class's field signatures or a member's bodies")}
		}
		return s.Insert(t.Span, &TySelf{}), nil

	case *ast.TEList:
		elem, errs := s.Resolve(ctx, t.Elem)
		return s.Insert(t.Span, &TyList{Elem: elem}), errs

	case *ast.TETuple:
		elems := make([]TyId, len(t.Elements))
		var errs errcode.List
		for i, e := range t.Elements {
			id, es := s.Resolve(ctx, e)
			elems[i] = id
			errs = append(errs, es...)
		}
		return s.Insert(t.Span, &TyTuple{Elems: elems}), errs

	case *ast.TEUnion:
		var members []TyId
		var errs errcode.List
		for _, m := range t.Members {
			id, es := s.Resolve(ctx, m)
			errs = append(errs, es...)
			members = append(members, s.flattenUnionMember(id)...)
		}
		return s.Insert(t.Span, &TyUnion{Members: members}), errs

	case *ast.TERecord:
		fields := make([]RecordField, len(t.Fields))
		var errs errcode.List
		for i, f := range t.Fields {
			id, es := s.Resolve(ctx, f.Type)
			errs = append(errs, es...)
			fields[i] = RecordField{Name: f.Name, Ty: id}
		}
		return s.Insert(t.Span, &TyRecord{Fields: fields}), errs

	case *ast.TEFunc:
		out, errs := s.Resolve(ctx, t.Out)
		for i := len(t.In) - 1; i >= 0; i-- {
			in, es := s.Resolve(ctx, t.In[i])
			errs = append(errs, es...)
			out = s.Insert(t.Span, &TyFunc{In: in, Out: out})
		}
		return out, errs

	case *ast.TEAssoc:
		inner, errs := s.Resolve(ctx, t.Inner)
		classID, ok := s.resolveAssocClass(ctx, t)
		if !ok {
			errs = append(errs, errcode.New(errcode.NoSuchClass, t.Span, "no such class %q", t.Class))
			return s.Insert(t.Span, &TyError{Reason: "unresolved associated type class"}), errs
		}
		return s.Insert(t.Span, &TyAssoc{Inner: inner, Class: classID, Name: t.Name}), errs

	default:
		return s.Insert(te.Position(), &TyError{Reason: "unknown type expression"}),
			errcode.List{errcode.New(errcode.Unsupported, te.Position(), "unknown type expression %T", te)}
	}
}

func (s *Store) resolveAssocClass(ctx ResolveCtx, t *ast.TEAssoc) (ClassId, bool) {
	if t.Class == "" {
		if ctx.SelfAllowed {
			return ctx.SelfClass, true
		}
		return 0, false
	}
	return ctx.Classes.LookupClass(t.Class)
}

func (s *Store) resolveName(ctx ResolveCtx, t *ast.TEName) (TyId, errcode.List) {
	if len(t.Args) == 0 {
		for i := len(ctx.Scopes) - 1; i >= 0; i-- {
			scope := s.GetGenScope(ctx.Scopes[i])
			for idx, p := range scope.Params {
				if p.Name == t.Name {
					return s.Insert(t.Span, &TyGen{Index: idx, Scope: ctx.Scopes[i]}), nil
				}
			}
		}
		if prim, ok := ParsePrim(t.Name); ok {
			return s.Insert(t.Span, &TyPrim{Kind: prim}), nil
		}
	}

	if ctx.Datas != nil {
		if id, scope, ok := ctx.Datas.LookupData(t.Name); ok {
			args := make([]TyId, len(t.Args))
			var errs errcode.List
			for i, a := range t.Args {
				aid, es := s.Resolve(ctx, a)
				args[i] = aid
				errs = append(errs, es...)
			}
			_ = scope // data arity is not enforced at resolution time; coherence/flow will surface mismatches
			return s.Insert(t.Span, &TyData{Data: id, Args: args}), errs
		}
	}

	if ctx.Aliases != nil {
		if def, ok := ctx.Aliases.LookupAlias(t.Name); ok {
			args := make([]TyId, len(t.Args))
			var errs errcode.List
			for i, a := range t.Args {
				aid, es := s.Resolve(ctx, a)
				args[i] = aid
				errs = append(errs, es...)
			}
			expanded := s.Apply(Subst{HasScope: true, Scope: def.Scope, Args: args}, def.Target)
			return expanded, errs
		}
	}

	return s.Insert(t.Span, &TyError{Reason: "unresolved type name"}),
		errcode.List{errcode.New(errcode.NoSuchItem, t.Span, "no such type %q", t.Name)}
}

// flattenUnionMember splices a union member that is itself a union into the
// parent's member list, matching the reifier's transitive-flattening
// behavior at the surface-syntax level too.
func (s *Store) flattenUnionMember(id TyId) []TyId {
	if u, ok := s.Get(id).(*TyUnion); ok {
		var out []TyId
		for _, m := range u.Members {
			out = append(out, s.flattenUnionMember(m)...)
		}
		return out
	}
	return []TyId{id}
}
