// Package reify hardens inference-time type variables into concrete,
// interned types once the constraint queue has drained: every IUnion is
// canonicalized (flattened and deduplicated under structural equality),
// and any variable that never resolved past Unknown becomes a typed
// CannotInfer error rather than silently leaking an inference artifact
// into the rest of the pipeline.
package reify

import (
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/infer"
	"github.com/vela-lang/vela/internal/types"
)

// Reifier carries the memo table shared across a reification pass so
// structurally shared inference variables collapse to the same TyId.
type Reifier struct {
	Store *types.Store
	memo  map[infer.VarId]types.TyId
	errs  errcode.List
}

// New creates a Reifier over store.
func New(store *types.Store) *Reifier {
	return &Reifier{Store: store, memo: make(map[infer.VarId]types.TyId)}
}

// Reify lowers v into a types.TyId. CannotInfer diagnostics found along the
// way accumulate on this Reifier (shared across every call, so callers
// reifying many defs in one pass get one combined list) and are read back
// with Errs.
func (r *Reifier) Reify(e *infer.Engine, v infer.VarId) types.TyId {
	return r.reify(e, v)
}

// Errs returns every CannotInfer diagnostic collected so far.
func (r *Reifier) Errs() errcode.List {
	return r.errs
}

func (r *Reifier) reify(e *infer.Engine, v infer.VarId) types.TyId {
	v = e.Resolve(v)
	if id, ok := r.memo[v]; ok {
		return id
	}
	span := e.Span(v)

	switch info := e.Info(v).(type) {
	case infer.IUnknown:
		r.errs = append(r.errs, errcode.New(errcode.CannotInfer, span, "could not infer a concrete type for this expression"))
		id := r.Store.Insert(span, &types.TyError{Reason: "unresolved"})
		r.memo[v] = id
		return id

	case infer.IError:
		id := r.Store.Insert(span, &types.TyError{Reason: info.Reason})
		r.memo[v] = id
		return id

	case infer.IPrim:
		id := r.Store.Insert(span, &types.TyPrim{Kind: info.Kind})
		r.memo[v] = id
		return id

	case infer.ISelf:
		id := r.Store.Insert(span, &types.TySelf{})
		r.memo[v] = id
		return id

	case infer.IGen:
		id := r.Store.Insert(span, &types.TyGen{Index: info.Index, Scope: info.Scope})
		r.memo[v] = id
		return id

	case infer.IList:
		id := r.Store.Insert(span, &types.TyError{Reason: "placeholder"})
		r.memo[v] = id
		elem := r.reify(e, info.Elem)
		real := r.Store.Insert(span, &types.TyList{Elem: elem})
		r.memo[v] = real
		return real

	case infer.ITuple:
		elems := make([]types.TyId, len(info.Elems))
		for i, el := range info.Elems {
			elems[i] = r.reify(e, el)
		}
		id := r.Store.Insert(span, &types.TyTuple{Elems: elems})
		r.memo[v] = id
		return id

	case infer.IUnion:
		var members []types.TyId
		for _, m := range info.Members {
			members = append(members, r.flatten(e, m)...)
		}
		members = dedup(r.Store, members)
		var id types.TyId
		if len(members) == 1 {
			id = members[0]
		} else {
			id = r.Store.Insert(span, &types.TyUnion{Members: members})
		}
		r.memo[v] = id
		return id

	case infer.IRecord:
		fields := make([]types.RecordField, len(info.Fields))
		for i, f := range info.Fields {
			fields[i] = types.RecordField{Name: f.Name, Ty: r.reify(e, f.Var)}
		}
		id := r.Store.Insert(span, &types.TyRecord{Fields: fields})
		r.memo[v] = id
		return id

	case infer.IFunc:
		in := r.reify(e, info.In)
		out := r.reify(e, info.Out)
		id := r.Store.Insert(span, &types.TyFunc{In: in, Out: out})
		r.memo[v] = id
		return id

	case infer.IData:
		args := make([]types.TyId, len(info.Args))
		for i, a := range info.Args {
			args[i] = r.reify(e, a)
		}
		id := r.Store.Insert(span, &types.TyData{Data: info.Data, Args: args})
		r.memo[v] = id
		return id

	case infer.IAssoc:
		inner := r.reify(e, info.Inner)
		id := r.Store.Insert(span, &types.TyAssoc{Inner: inner, Class: info.Class, Name: info.Name})
		r.memo[v] = id
		return id

	default:
		id := r.Store.Insert(span, &types.TyError{Reason: "unrecognized inference node"})
		r.memo[v] = id
		return id
	}
}

// flatten reifies m and, if the result is itself a union, splices its
// members into the parent rather than nesting unions (spec.md §4.3's
// transitive flattening).
func (r *Reifier) flatten(e *infer.Engine, m infer.VarId) []types.TyId {
	id := r.reify(e, m)
	if u, ok := r.Store.Get(id).(*types.TyUnion); ok {
		return u.Members
	}
	return []types.TyId{id}
}

// dedup removes structurally-equal members, keeping the first occurrence
// of each, so a widened union never reports the same variant twice.
func dedup(store *types.Store, members []types.TyId) []types.TyId {
	var out []types.TyId
	for _, m := range members {
		duplicate := false
		for _, o := range out {
			if types.IsEq(store, m, o) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, m)
		}
	}
	return out
}
