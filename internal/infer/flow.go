package infer

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
)

// edit is one undoable binding made while attempting a flow check; union
// widening needs to try a member, roll back on failure, and try the next
// one without leaving partial unifications behind.
type edit struct {
	v   VarId
	old TyInfo
}

type journal struct {
	edits []edit
}

func (e *Engine) record(j *journal, v VarId, info TyInfo) {
	j.edits = append(j.edits, edit{v: v, old: e.vars[v].info})
	e.vars[v].info = info
}

func (e *Engine) undo(j *journal) {
	for i := len(j.edits) - 1; i >= 0; i-- {
		ed := j.edits[i]
		e.vars[ed.v].info = ed.old
	}
}

// CheckFlow checks that a value of the shape described by from may flow
// into a context expecting to, the subtype/flow relation described in
// SPEC_FULL §4.3: structurally equal shapes always flow, an unresolved
// variable on either side unifies with the other, and a union on the
// right-hand side admits any value structurally covered by one of its
// members (width-subtype widening). Narrowing — a union flowing into a
// concrete non-union target — is never permitted.
func (e *Engine) CheckFlow(from, to VarId, span ast.Span) *errcode.Error {
	j := &journal{}
	if err := e.checkFlow(j, from, to, span, make(map[[2]VarId]bool)); err != nil {
		e.undo(j)
		return err
	}
	return nil
}

func (e *Engine) checkFlow(j *journal, from, to VarId, span ast.Span, seen map[[2]VarId]bool) *errcode.Error {
	from, to = e.Resolve(from), e.Resolve(to)
	if from == to {
		return nil
	}
	key := [2]VarId{from, to}
	if seen[key] {
		return nil
	}
	seen[key] = true

	infoFrom, infoTo := e.Info(from), e.Info(to)

	// Unknown is resolved before Error is checked, matching the reference's
	// match-arm order: an Unknown flowing against an Error must still bind
	// (to Error, propagating the taint) rather than fall through to the
	// plain Error/Error no-op below and leave the Unknown side dangling.
	if _, ok := infoFrom.(IUnknown); ok {
		if _, ok := infoTo.(IError); ok {
			e.record(j, from, IError{Reason: "propagated from an already-errored type"})
			return nil
		}
		if e.occurs(from, to) {
			return errcode.New(errcode.Recursive, span, "occurs check failed: type would be infinite")
		}
		e.record(j, from, IRef{Var: to})
		return nil
	}
	if _, ok := infoTo.(IUnknown); ok {
		if _, ok := infoFrom.(IError); ok {
			e.record(j, to, IError{Reason: "propagated from an already-errored type"})
			return nil
		}
		if e.occurs(to, from) {
			return errcode.New(errcode.Recursive, span, "occurs check failed: type would be infinite")
		}
		e.record(j, to, IRef{Var: from})
		return nil
	}

	// Neither side is Unknown here, so an Error on either side is already
	// bound to something concrete (or another Error) — nothing left to
	// propagate, just suppress the cascading diagnostic.
	if _, ok := infoFrom.(IError); ok {
		return nil
	}
	if _, ok := infoTo.(IError); ok {
		return nil
	}

	if u, ok := infoTo.(IUnion); ok {
		if fu, ok := infoFrom.(IUnion); ok {
			for _, m := range fu.Members {
				if err := e.checkFlow(j, m, to, span, seen); err != nil {
					return err
				}
			}
			return nil
		}
		for _, m := range u.Members {
			sub := &journal{}
			if err := e.checkFlow(sub, from, m, span, cloneSeen(seen)); err == nil {
				j.edits = append(j.edits, sub.edits...)
				return nil
			}
			e.undo(sub)
		}
		return errcode.New(errcode.CannotCoerce, span, "value does not fit any member of the expected union")
	}

	if _, ok := infoFrom.(IUnion); ok {
		return errcode.New(errcode.CannotCoerce, span, "a union value cannot flow into a non-union target without narrowing")
	}

	switch f := infoFrom.(type) {
	case IPrim:
		t, ok := infoTo.(IPrim)
		if !ok || f.Kind != t.Kind {
			return mismatch(span, infoFrom, infoTo)
		}
		return nil

	case ISelf:
		if _, ok := infoTo.(ISelf); !ok {
			return mismatch(span, infoFrom, infoTo)
		}
		return nil

	case IGen:
		t, ok := infoTo.(IGen)
		if !ok || f.Index != t.Index || f.Scope != t.Scope {
			return mismatch(span, infoFrom, infoTo)
		}
		return nil

	case IList:
		t, ok := infoTo.(IList)
		if !ok {
			return mismatch(span, infoFrom, infoTo)
		}
		return e.checkFlow(j, f.Elem, t.Elem, span, seen)

	case ITuple:
		t, ok := infoTo.(ITuple)
		if !ok || len(f.Elems) != len(t.Elems) {
			return mismatch(span, infoFrom, infoTo)
		}
		for i := range f.Elems {
			if err := e.checkFlow(j, f.Elems[i], t.Elems[i], span, seen); err != nil {
				return err
			}
		}
		return nil

	case IRecord:
		t, ok := infoTo.(IRecord)
		if !ok {
			return mismatch(span, infoFrom, infoTo)
		}
		for _, tf := range t.Fields {
			ff, ok := fieldByName(f.Fields, tf.Name)
			if !ok {
				return errcode.New(errcode.CannotCoerce, span, "missing field %q", tf.Name)
			}
			if err := e.checkFlow(j, ff, tf.Var, span, seen); err != nil {
				return err
			}
		}
		return nil

	case IFunc:
		t, ok := infoTo.(IFunc)
		if !ok {
			return mismatch(span, infoFrom, infoTo)
		}
		if err := e.checkFlow(j, t.In, f.In, span, seen); err != nil {
			return err
		}
		return e.checkFlow(j, f.Out, t.Out, span, seen)

	case IData:
		t, ok := infoTo.(IData)
		if !ok || f.Data != t.Data || len(f.Args) != len(t.Args) {
			return mismatch(span, infoFrom, infoTo)
		}
		for i := range f.Args {
			if err := e.checkFlow(j, f.Args[i], t.Args[i], span, seen); err != nil {
				return err
			}
		}
		return nil

	case IAssoc:
		t, ok := infoTo.(IAssoc)
		if !ok || f.Class != t.Class || f.Name != t.Name {
			return mismatch(span, infoFrom, infoTo)
		}
		return e.checkFlow(j, f.Inner, t.Inner, span, seen)

	default:
		return mismatch(span, infoFrom, infoTo)
	}
}

func fieldByName(fields []IRecordField, name string) (VarId, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Var, true
		}
	}
	return 0, false
}

func cloneSeen(seen map[[2]VarId]bool) map[[2]VarId]bool {
	out := make(map[[2]VarId]bool, len(seen))
	for k, v := range seen {
		out[k] = v
	}
	return out
}

func mismatch(span ast.Span, from, to TyInfo) *errcode.Error {
	return errcode.New(errcode.CannotCoerce, span, "cannot flow %T into %T", from, to)
}

// occurs reports whether v appears anywhere in the structure rooted at in,
// following resolved variables; binding v to a structure containing itself
// would create an infinite type.
func (e *Engine) occurs(v, in VarId) bool {
	return e.occursRec(e.Resolve(v), e.Resolve(in), make(map[VarId]bool))
}

func (e *Engine) occursRec(v, in VarId, seen map[VarId]bool) bool {
	in = e.Resolve(in)
	if v == in {
		return true
	}
	if seen[in] {
		return false
	}
	seen[in] = true
	switch info := e.Info(in).(type) {
	case IList:
		return e.occursRec(v, info.Elem, seen)
	case ITuple:
		for _, el := range info.Elems {
			if e.occursRec(v, el, seen) {
				return true
			}
		}
	case IUnion:
		for _, m := range info.Members {
			if e.occursRec(v, m, seen) {
				return true
			}
		}
	case IRecord:
		for _, f := range info.Fields {
			if e.occursRec(v, f.Var, seen) {
				return true
			}
		}
	case IFunc:
		return e.occursRec(v, info.In, seen) || e.occursRec(v, info.Out, seen)
	case IData:
		for _, a := range info.Args {
			if e.occursRec(v, a, seen) {
				return true
			}
		}
	case IAssoc:
		return e.occursRec(v, info.Inner, seen)
	}
	return false
}
