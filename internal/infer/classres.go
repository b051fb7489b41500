package infer

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/classes"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// classLookup resolves which members of class cover ty, reusing
// classes.Lookup's coherence-aware matching (blanket generics, structural
// coverage, union-on-the-concrete-side).
func classLookup(e *Engine, class types.ClassId, ty types.TyId) ([]*classes.Member, *errcode.Error) {
	matches, err := classes.Lookup(e.Store, class, e.Members, ty)
	return matches, err
}

// fieldCandidate is one class found to own field for a given receiver:
// member is nil for an "implied" candidate (the receiver is a generic or
// Self whose super-obligations transitively require the class — fulfilled
// by assumption, no concrete member involved).
type fieldCandidate struct {
	class  types.ClassId
	field  classes.ClassField
	member *classes.Member
}

// resolveFieldCandidates implements spec.md §4.3's class-resolution
// algorithm for a method/field projection whose owning class isn't named
// in the syntax: implied candidates come from a Gen/Self receiver's
// transitive super-obligations; external candidates are classes that
// declare the field and have at least one member covering the receiver's
// type. Zero is NoSuchItem, more than one is AmbiguousClassItem.
func resolveFieldCandidates(e *Engine, field string, v VarId, span ast.Span) ([]fieldCandidate, *errcode.Error) {
	seen := make(map[types.ClassId]bool)
	var candidates []fieldCandidate

	var obligations []types.ClassId
	switch info := e.Info(v).(type) {
	case IGen:
		scope := e.Store.GetGenScope(info.Scope)
		obligations = scope.Params[info.Index].MustObligations()
	case ISelf:
		obligations = e.selfSupers
	}
	for _, classID := range classes.TransitiveSupers(e.Classes, obligations) {
		if seen[classID] {
			continue
		}
		if f, ok := e.Classes.Get(classID).FieldByName(field); ok {
			seen[classID] = true
			candidates = append(candidates, fieldCandidate{class: classID, field: f})
		}
	}

	ty := e.reifyConcrete(v)
	for _, c := range e.Classes.All() {
		if seen[c.Id] {
			continue
		}
		f, ok := c.FieldByName(field)
		if !ok {
			continue
		}
		matches, err := classLookup(e, c.Id, ty)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			continue
		}
		seen[c.Id] = true
		candidates = append(candidates, fieldCandidate{class: c.Id, field: f, member: matches[0]})
	}

	switch len(candidates) {
	case 0:
		return nil, errcode.New(errcode.NoSuchItem, span, "no class declares field %q for this type", field)
	case 1:
		return candidates, nil
	default:
		return nil, errcode.New(errcode.AmbiguousClassItem, span, "field %q is covered by %d classes", field, len(candidates)).
			WithInfo("field", field)
	}
}

// instantiateClassField instantiates a class field's declared signature
// against a concrete receiver: SelfType substituted for receiverTy, then
// the member's own generic scope instantiated with fresh variables.
func (e *Engine) instantiateClassField(member *classes.Member, class types.ClassId, field classes.ClassField, receiverTy types.TyId, span ast.Span) VarId {
	selfSubst := types.Subst{Self: &receiverTy}
	withSelf := e.Store.Apply(selfSubst, field.Type)
	fv := e.FromTy(span, withSelf)
	if member.HasScope {
		fv = e.Instantiate(span, fv, member.Scope)
	}
	return fv
}

// reifyConcrete lowers a (by now sufficiently resolved) inference variable
// back into an interned types.TyId for class-coverage lookups. Any
// remaining IUnknown is replaced by a TyError placeholder: the full
// reifier (internal/reify) is what actually reports CannotInfer for
// genuinely unresolved variables at the end of a def's inference.
func (e *Engine) reifyConcrete(v VarId) types.TyId {
	return e.reifyConcreteRec(v, make(map[VarId]types.TyId))
}

func (e *Engine) reifyConcreteRec(v VarId, memo map[VarId]types.TyId) types.TyId {
	v = e.Resolve(v)
	if id, ok := memo[v]; ok {
		return id
	}
	id := e.reifyConcreteInto(v, memo)
	memo[v] = id
	return id
}

func (e *Engine) reifyConcreteInto(v VarId, memo map[VarId]types.TyId) types.TyId {
	span := e.Span(v)
	switch info := e.Info(v).(type) {
	case IUnknown:
		return e.Store.Insert(span, &types.TyError{Reason: "unresolved"})
	case IError:
		return e.Store.Insert(span, &types.TyError{Reason: info.Reason})
	case IPrim:
		return e.Store.Insert(span, &types.TyPrim{Kind: info.Kind})
	case ISelf:
		return e.Store.Insert(span, &types.TySelf{})
	case IGen:
		return e.Store.Insert(span, &types.TyGen{Index: info.Index, Scope: info.Scope})
	case IList:
		elem := e.reifyConcreteRec(info.Elem, memo)
		return e.Store.Insert(span, &types.TyList{Elem: elem})
	case ITuple:
		elems := make([]types.TyId, len(info.Elems))
		for i, el := range info.Elems {
			elems[i] = e.reifyConcreteRec(el, memo)
		}
		return e.Store.Insert(span, &types.TyTuple{Elems: elems})
	case IUnion:
		members := make([]types.TyId, len(info.Members))
		for i, m := range info.Members {
			members[i] = e.reifyConcreteRec(m, memo)
		}
		return e.Store.Insert(span, &types.TyUnion{Members: members})
	case IRecord:
		fields := make([]types.RecordField, len(info.Fields))
		for i, f := range info.Fields {
			fields[i] = types.RecordField{Name: f.Name, Ty: e.reifyConcreteRec(f.Var, memo)}
		}
		return e.Store.Insert(span, &types.TyRecord{Fields: fields})
	case IFunc:
		in := e.reifyConcreteRec(info.In, memo)
		out := e.reifyConcreteRec(info.Out, memo)
		return e.Store.Insert(span, &types.TyFunc{In: in, Out: out})
	case IData:
		args := make([]types.TyId, len(info.Args))
		for i, a := range info.Args {
			args[i] = e.reifyConcreteRec(a, memo)
		}
		return e.Store.Insert(span, &types.TyData{Data: info.Data, Args: args})
	case IAssoc:
		inner := e.reifyConcreteRec(info.Inner, memo)
		return e.Store.Insert(span, &types.TyAssoc{Inner: inner, Class: info.Class, Name: info.Name})
	default:
		return e.Store.Insert(span, &types.TyError{Reason: "unrecognized"})
	}
}
