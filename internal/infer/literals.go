package infer

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// literalClass distinguishes the two numeric literal forms: Nat literals
// may default to or widen into Nat, Int, or Real; Real literals only ever
// resolve to Real.
type literalClass int

const (
	natLiteral literalClass = iota
	realLiteral
)

func (lc literalClass) allowed(k types.PrimKind) bool {
	switch lc {
	case realLiteral:
		return k == types.Real
	default:
		return k == types.Nat || k == types.Int || k == types.Real
	}
}

func (lc literalClass) defaultKind() types.PrimKind {
	if lc == realLiteral {
		return types.Real
	}
	return types.Nat
}

// lazyLiteral is a queued numeric literal awaiting defaulting: its type
// variable stays an ordinary IUnknown through normal flow-checking (so it
// can unify freely with whatever numeric context it's used in) and is only
// forced to a concrete prim once the main constraint queue has drained.
type lazyLiteral struct {
	Var   VarId
	Class literalClass
	Span  ast.Span
}

// NatLit allocates a fresh deferred-numeric-type variable for a Nat
// literal (spec.md §3's Nat literal, subtyping Nat|Int|Real).
func (e *Engine) NatLit(span ast.Span) VarId {
	v := e.Fresh(span)
	e.lazyLiterals = append(e.lazyLiterals, &lazyLiteral{Var: v, Class: natLiteral, Span: span})
	return v
}

// RealLit allocates a fresh deferred-numeric-type variable for a Real
// literal (subtypes Real only).
func (e *Engine) RealLit(span ast.Span) VarId {
	v := e.Fresh(span)
	e.lazyLiterals = append(e.lazyLiterals, &lazyLiteral{Var: v, Class: realLiteral, Span: span})
	return v
}

// resolveLazyLiterals defaults every still-queued literal once ordinary
// constraint solving reaches a fixed point: a literal whose variable never
// got unified with anything defaults outright (Nat for Nat literals, Real
// for Real literals); one whose variable ended up unified with a union is
// checked to fit one of the union's numeric members without narrowing the
// union itself (the variable keeps the union type — other uses of it must
// still see every member); anything else — a concrete but disallowed prim,
// or a non-numeric shape entirely — is NonNumeric.
func (e *Engine) resolveLazyLiterals() errcode.List {
	var errs errcode.List
	for _, lit := range e.lazyLiterals {
		v := e.Resolve(lit.Var)
		switch info := e.Info(v).(type) {
		case IUnknown:
			kind := lit.Class.defaultKind()
			e.Bind(v, IPrim{Kind: kind})
			if e.Trace {
				e.traces = append(e.traces, DefaultingTrace{
					Var: v, Default: e.Store.Prim(lit.Span, kind), Span: lit.Span,
				})
			}

		case IPrim:
			if !lit.Class.allowed(info.Kind) {
				errs = append(errs, errcode.New(errcode.NonNumeric, lit.Span, "literal is not compatible with %s", info.Kind))
			}

		case IUnion:
			if _, ok := e.chooseUnionMember(info.Members, lit.Class); !ok {
				errs = append(errs, errcode.New(errcode.NonNumeric, lit.Span, "no member of the expected union accepts a numeric literal"))
			}

		default:
			errs = append(errs, errcode.New(errcode.NonNumeric, lit.Span, "literal used where a non-numeric type is expected"))
		}
	}
	e.lazyLiterals = nil
	return errs
}

func (e *Engine) chooseUnionMember(members []VarId, class literalClass) (types.PrimKind, bool) {
	def := class.defaultKind()
	foundAny := false
	var any types.PrimKind
	for _, m := range members {
		info := e.Info(e.Resolve(m))
		p, ok := info.(IPrim)
		if !ok || !class.allowed(p.Kind) {
			continue
		}
		if p.Kind == def {
			return p.Kind, true
		}
		if !foundAny {
			any = p.Kind
			foundAny = true
		}
	}
	return any, foundAny
}
