package infer

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// opKey is a table key: the operator spelling plus both operand prim
// kinds.
type opKey struct {
	op       string
	lhs, rhs types.PrimKind
}

// opTable is the static binary-operator table from spec.md §4.6: a
// package-level map initialized once, mirroring ailang's globally shared
// operator table rather than recomputing per-call arithmetic rules.
var opTable = buildOpTable()

func buildOpTable() map[opKey]types.PrimKind {
	t := make(map[opKey]types.PrimKind)

	// Equality/inequality over Bool, Nat, Int, Char. Real equality is
	// deliberately absent.
	for _, k := range []types.PrimKind{types.Bool, types.Nat, types.Int, types.Char} {
		t[opKey{"==", k, k}] = types.Bool
		t[opKey{"!=", k, k}] = types.Bool
	}

	// Same-kind arithmetic only; mixed-prim combinations are invalid. Nat
	// subtraction yields Int (it can go negative), and any division yields
	// Real.
	t[opKey{"+", types.Nat, types.Nat}] = types.Nat
	t[opKey{"*", types.Nat, types.Nat}] = types.Nat
	t[opKey{"-", types.Nat, types.Nat}] = types.Int
	t[opKey{"+", types.Int, types.Int}] = types.Int
	t[opKey{"*", types.Int, types.Int}] = types.Int
	t[opKey{"-", types.Int, types.Int}] = types.Int
	for _, op := range []string{"+", "-", "*"} {
		t[opKey{op, types.Real, types.Real}] = types.Real
	}
	for _, k := range []types.PrimKind{types.Nat, types.Int, types.Real} {
		t[opKey{"/", k, k}] = types.Real
	}

	// Modulo is Nat-only.
	t[opKey{"%", types.Nat, types.Nat}] = types.Nat

	// Comparisons yield Bool, same-kind numeric operands only.
	for _, op := range []string{"<", "<=", ">", ">="} {
		for _, k := range []types.PrimKind{types.Nat, types.Int, types.Real} {
			t[opKey{op, k, k}] = types.Bool
		}
	}

	// Logical operators over Bool.
	for _, op := range []string{"&&", "||", "^"} {
		t[opKey{op, types.Bool, types.Bool}] = types.Bool
	}

	return t
}

// BinaryC resolves a binary operator's result type once both operand
// prims are known, or a list Join (`++`) once both operand lists'
// element flow has been checked. Still-Unknown operands defer the
// constraint (spec.md §4.6).
type BinaryC struct {
	Op          string
	Left, Right VarId
	Result      VarId
	Span        ast.Span
}

func (c BinaryC) position() ast.Span { return c.Span }

func (c BinaryC) try(e *Engine) (bool, *errcode.Error) {
	l := e.Resolve(c.Left)
	r := e.Resolve(c.Right)
	li, ri := e.Info(l), e.Info(r)

	if _, ok := li.(IUnknown); ok {
		return false, nil
	}
	if _, ok := ri.(IUnknown); ok {
		return false, nil
	}
	if _, ok := li.(IError); ok {
		e.Bind(e.Resolve(c.Result), IError{Reason: "propagated from an already-errored type"})
		return true, nil
	}
	if _, ok := ri.(IError); ok {
		e.Bind(e.Resolve(c.Result), IError{Reason: "propagated from an already-errored type"})
		return true, nil
	}

	if c.Op == "++" {
		ll, lok := li.(IList)
		rl, rok := ri.(IList)
		if !lok || !rok {
			return true, errcode.New(errcode.InvalidBinaryOp, c.Span, "++ requires two lists")
		}
		elem := e.Fresh(c.Span)
		if err := e.CheckFlow(ll.Elem, elem, c.Span); err != nil {
			return true, err
		}
		if err := e.CheckFlow(rl.Elem, elem, c.Span); err != nil {
			return true, err
		}
		joined := e.Fresh(c.Span)
		e.Bind(joined, IList{Elem: elem})
		if err := e.CheckFlow(joined, c.Result, c.Span); err != nil {
			return true, err
		}
		return true, nil
	}

	lp, lok := li.(IPrim)
	rp, rok := ri.(IPrim)
	if !lok || !rok {
		return true, errcode.New(errcode.InvalidBinaryOp, c.Span, "operator %q requires primitive operands", c.Op)
	}
	result, ok := opTable[opKey{c.Op, lp.Kind, rp.Kind}]
	if !ok {
		return true, errcode.New(errcode.InvalidBinaryOp, c.Span, "no overload of %q for %s and %s", c.Op, lp.Kind, rp.Kind)
	}
	// The result flows into (rather than overwrites) the result variable:
	// it may already be unified with a declared type the operator's output
	// must actually be compatible with.
	rv := e.Fresh(c.Span)
	e.Bind(rv, IPrim{Kind: result})
	if err := e.CheckFlow(rv, c.Result, c.Span); err != nil {
		return true, err
	}
	return true, nil
}
