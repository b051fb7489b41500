// Package infer implements the bidirectional, constraint-based inference
// engine: a union-find style type-variable store, a FIFO constraint queue
// resolved to a fixed point, lazy numeric-literal defaulting, and the
// class/field/associated-type resolution machinery that backs method and
// operator dispatch.
package infer

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/classes"
	"github.com/vela-lang/vela/internal/data"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// VarId is a dense index into Engine.vars, the inference-time analogue of
// types.TyId.
type VarId int

// TyInfo is an inference-time type node: like types.Ty but referencing
// VarIds instead of TyIds, plus IRef (a union-find link to another
// variable) and IUnknown (not yet constrained to anything).
type TyInfo interface {
	infoNode()
}

type IUnknown struct{ Origin ast.Span }
type IRef struct{ Var VarId }
type IError struct{ Reason string }
type IPrim struct{ Kind types.PrimKind }
type IList struct{ Elem VarId }
type ITuple struct{ Elems []VarId }
type IUnion struct{ Members []VarId }
type IRecordField struct {
	Name string
	Var  VarId
}
type IRecord struct{ Fields []IRecordField }
type IFunc struct{ In, Out VarId }
type IData struct {
	Data types.DataId
	Args []VarId
}
type IGen struct {
	Index int
	Scope types.GenScopeId
}
type ISelf struct{}
type IAssoc struct {
	Inner VarId
	Class types.ClassId
	Name  string
}

func (IUnknown) infoNode()    {}
func (IRef) infoNode()        {}
func (IError) infoNode()      {}
func (IPrim) infoNode()       {}
func (IList) infoNode()       {}
func (ITuple) infoNode()      {}
func (IUnion) infoNode()      {}
func (IRecord) infoNode()     {}
func (IFunc) infoNode()       {}
func (IData) infoNode()       {}
func (IGen) infoNode()        {}
func (ISelf) infoNode()       {}
func (IAssoc) infoNode()      {}

type varSlot struct {
	span ast.Span
	info TyInfo
}

// classVarSlot holds a class witness produced while resolving a method or
// field projection (`x.foo`): the class is filled in once resolution
// succeeds, left nil while still pending.
type classVarSlot struct {
	span  ast.Span
	class *types.ClassId
}

// DefaultingTrace records a numeric-literal defaulting decision, mirroring
// the teacher's own DefaultingTrace for reproducible diagnostics.
type DefaultingTrace struct {
	Var     VarId
	Default types.TyId
	Span    ast.Span
}

// Engine is one module's inference session: its type-variable store, the
// pending constraint and lazy-literal queues, and the tables it resolves
// class/data/alias references against.
type Engine struct {
	Store   *types.Store
	Classes *classes.Table
	Members *classes.Members
	Datas   *data.Table
	Aliases *data.AliasTable

	vars      []varSlot
	classVars []classVarSlot

	constraints  []Constraint
	lazyLiterals []*lazyLiteral

	selfType   *VarId
	selfSupers []types.ClassId

	Trace  bool
	traces []DefaultingTrace

	Errs errcode.List
}

// NewEngine creates an inference engine bound to the given declaration
// tables.
func NewEngine(store *types.Store, ct *classes.Table, mt *classes.Members, dt *data.Table, at *data.AliasTable) *Engine {
	return &Engine{Store: store, Classes: ct, Members: mt, Datas: dt, Aliases: at}
}

// Fresh allocates a new unconstrained type variable.
func (e *Engine) Fresh(span ast.Span) VarId {
	e.vars = append(e.vars, varSlot{span: span, info: IUnknown{Origin: span}})
	return VarId(len(e.vars) - 1)
}

// FreshClassVar allocates a new pending class witness slot, used when
// resolving a method/field projection whose owning class isn't known yet.
func (e *Engine) FreshClassVar(span ast.Span) int {
	e.classVars = append(e.classVars, classVarSlot{span: span})
	return len(e.classVars) - 1
}

// BindClassVar records which class a method/field projection resolved to,
// once AccessC (or any other class-resolution constraint) has picked a
// single candidate. A witness that stays unbound means the projection was
// a plain structural field access, never a class dispatch.
func (e *Engine) BindClassVar(idx int, class types.ClassId) {
	c := class
	e.classVars[idx].class = &c
}

// ClassVarClass returns the class a previously allocated witness resolved
// to, reporting ok=false if resolution hasn't bound one (yet, or ever).
func (e *Engine) ClassVarClass(idx int) (types.ClassId, bool) {
	c := e.classVars[idx].class
	if c == nil {
		return 0, false
	}
	return *c, true
}

// ClassVarSpan returns the span a class witness was allocated at, for a
// consumer that wants to report which call site a dispatch belongs to.
func (e *Engine) ClassVarSpan(idx int) ast.Span {
	return e.classVars[idx].span
}

// NumClassVars reports how many class witnesses this engine has allocated,
// letting a caller enumerate ClassVarClass/ClassVarSpan after Solve.
func (e *Engine) NumClassVars() int {
	return len(e.classVars)
}

// Bind sets a variable's info directly (used by flow unification once two
// variables are determined to describe the same structure).
func (e *Engine) Bind(v VarId, info TyInfo) {
	e.vars[v].info = info
}

// Info returns v's current info, following IRef chains with path
// compression, the same union-find shape the teacher's substitution map
// uses for TVar resolution.
func (e *Engine) Info(v VarId) TyInfo {
	cur := v
	var chain []VarId
	for {
		info := e.vars[cur].info
		ref, ok := info.(IRef)
		if !ok {
			for _, c := range chain {
				e.vars[c].info = IRef{Var: cur}
			}
			return info
		}
		chain = append(chain, cur)
		cur = ref.Var
	}
}

// Resolve returns the representative variable id after following IRef
// links (with path compression).
func (e *Engine) Resolve(v VarId) VarId {
	cur := v
	var chain []VarId
	for {
		ref, ok := e.vars[cur].info.(IRef)
		if !ok {
			for _, c := range chain {
				e.vars[c].info = IRef{Var: cur}
			}
			return cur
		}
		chain = append(chain, cur)
		cur = ref.Var
	}
}

// Span returns the originating span for a variable.
func (e *Engine) Span(v VarId) ast.Span {
	return e.vars[e.Resolve(v)].span
}

// FromTy lifts an already-interned type into a fresh, fully-bound
// variable (used to seed class field signatures and def type hints into
// the engine before unifying them against inferred expression types).
func (e *Engine) FromTy(span ast.Span, id types.TyId) VarId {
	return e.fromTy(span, id, make(map[types.TyId]VarId))
}

func (e *Engine) fromTy(span ast.Span, id types.TyId, memo map[types.TyId]VarId) VarId {
	if v, ok := memo[id]; ok {
		return v
	}
	v := e.Fresh(span)
	memo[id] = v
	switch t := e.Store.Get(id).(type) {
	case *types.TyError:
		e.Bind(v, IError{Reason: t.Reason})
	case *types.TyPrim:
		e.Bind(v, IPrim{Kind: t.Kind})
	case *types.TySelf:
		e.Bind(v, ISelf{})
	case *types.TyGen:
		e.Bind(v, IGen{Index: t.Index, Scope: t.Scope})
	case *types.TyList:
		e.Bind(v, IList{Elem: e.fromTy(span, t.Elem, memo)})
	case *types.TyTuple:
		elems := make([]VarId, len(t.Elems))
		for i, el := range t.Elems {
			elems[i] = e.fromTy(span, el, memo)
		}
		e.Bind(v, ITuple{Elems: elems})
	case *types.TyUnion:
		members := make([]VarId, len(t.Members))
		for i, m := range t.Members {
			members[i] = e.fromTy(span, m, memo)
		}
		e.Bind(v, IUnion{Members: members})
	case *types.TyRecord:
		fields := make([]IRecordField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = IRecordField{Name: f.Name, Var: e.fromTy(span, f.Ty, memo)}
		}
		e.Bind(v, IRecord{Fields: fields})
	case *types.TyFunc:
		e.Bind(v, IFunc{In: e.fromTy(span, t.In, memo), Out: e.fromTy(span, t.Out, memo)})
	case *types.TyData:
		args := make([]VarId, len(t.Args))
		for i, a := range t.Args {
			args[i] = e.fromTy(span, a, memo)
		}
		e.Bind(v, IData{Data: t.Data, Args: args})
	case *types.TyAssoc:
		innerV := e.fromTy(span, t.Inner, memo)
		e.Queue(ClassAssocC{Inner: innerV, Class: t.Class, Name: t.Name, Result: v, Span: span})
	}
	return v
}

// Instantiate creates a fresh copy of a generic-scope-bound variable,
// replacing every IGen node belonging to scope with a newly allocated
// variable (one per distinct index encountered), the way the teacher's
// Instantiate mints fresh TVars per Scheme quantifier.
func (e *Engine) Instantiate(span ast.Span, v VarId, scope types.GenScopeId) VarId {
	fresh := make(map[int]VarId)
	return e.instantiate(span, v, scope, fresh, make(map[VarId]VarId))
}

func (e *Engine) instantiate(span ast.Span, v VarId, scope types.GenScopeId, fresh map[int]VarId, memo map[VarId]VarId) VarId {
	v = e.Resolve(v)
	if out, ok := memo[v]; ok {
		return out
	}
	switch info := e.Info(v).(type) {
	case IGen:
		if info.Scope != scope {
			return v
		}
		if fv, ok := fresh[info.Index]; ok {
			return fv
		}
		nv := e.Fresh(span)
		fresh[info.Index] = nv
		memo[v] = nv
		return nv

	case IList:
		out := e.Fresh(span)
		memo[v] = out
		e.Bind(out, IList{Elem: e.instantiate(span, info.Elem, scope, fresh, memo)})
		return out

	case ITuple:
		out := e.Fresh(span)
		memo[v] = out
		elems := make([]VarId, len(info.Elems))
		for i, el := range info.Elems {
			elems[i] = e.instantiate(span, el, scope, fresh, memo)
		}
		e.Bind(out, ITuple{Elems: elems})
		return out

	case IUnion:
		out := e.Fresh(span)
		memo[v] = out
		members := make([]VarId, len(info.Members))
		for i, m := range info.Members {
			members[i] = e.instantiate(span, m, scope, fresh, memo)
		}
		e.Bind(out, IUnion{Members: members})
		return out

	case IRecord:
		out := e.Fresh(span)
		memo[v] = out
		fields := make([]IRecordField, len(info.Fields))
		for i, f := range info.Fields {
			fields[i] = IRecordField{Name: f.Name, Var: e.instantiate(span, f.Var, scope, fresh, memo)}
		}
		e.Bind(out, IRecord{Fields: fields})
		return out

	case IFunc:
		out := e.Fresh(span)
		memo[v] = out
		e.Bind(out, IFunc{In: e.instantiate(span, info.In, scope, fresh, memo), Out: e.instantiate(span, info.Out, scope, fresh, memo)})
		return out

	case IData:
		out := e.Fresh(span)
		memo[v] = out
		args := make([]VarId, len(info.Args))
		for i, a := range info.Args {
			args[i] = e.instantiate(span, a, scope, fresh, memo)
		}
		e.Bind(out, IData{Data: info.Data, Args: args})
		return out

	case IAssoc:
		// fromTy never binds IAssoc directly (it queues ClassAssocC instead),
		// but a variable could still reach this shape by other means.
		out := e.Fresh(span)
		memo[v] = out
		e.Bind(out, IAssoc{Inner: e.instantiate(span, info.Inner, scope, fresh, memo), Class: info.Class, Name: info.Name})
		return out

	default:
		return v
	}
}

// Traces returns the numeric-defaulting decisions recorded while solving,
// empty unless Trace was set before Solve ran.
func (e *Engine) Traces() []DefaultingTrace {
	return e.traces
}

// SetSelf establishes the current member definition's receiver (Self) and
// its super-obligations, for use while inferring a member's field bodies
// (SPEC_FULL §4.2's with_unknown_self context).
func (e *Engine) SetSelf(v VarId, supers []types.ClassId) {
	e.selfType = &v
	e.selfSupers = supers
}

// ClearSelf removes the current Self binding once a member's fields are
// done.
func (e *Engine) ClearSelf() {
	e.selfType = nil
	e.selfSupers = nil
}
