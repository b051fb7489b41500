package infer

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// Env is a lexical scope: variable name to its inference-time type. Each
// scope-introducing form (Lambda, LetExpr) copies the map rather than
// mutating the caller's, so sibling branches never see each other's
// bindings.
type Env map[string]VarId

func (env Env) child() Env {
	out := make(Env, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	return out
}

// Infer synthesizes expr's type bottom-up, queuing constraints for
// anything that can't be decided immediately (binary operators, field
// access, class obligations).
func (e *Engine) Infer(env Env, expr ast.Expr) VarId {
	return e.infer(env, expr)
}

// Check infers expr's type and checks it flows into expected, returning
// expected itself so the caller can keep threading a single variable.
func (e *Engine) Check(env Env, expr ast.Expr, expected VarId) VarId {
	got := e.infer(env, expr)
	if err := e.CheckFlow(got, expected, expr.Position()); err != nil {
		e.Errs = append(e.Errs, err)
	}
	return expected
}

func (e *Engine) infer(env Env, expr ast.Expr) VarId {
	span := expr.Position()
	switch x := expr.(type) {
	case *ast.Var:
		if v, ok := env[x.Name]; ok {
			return v
		}
		e.Errs = append(e.Errs, errcode.New(errcode.NoSuchItem, span, "no such variable %q", x.Name))
		return e.Fresh(span)

	case *ast.NatLit:
		return e.NatLit(span)

	case *ast.RealLit:
		return e.RealLit(span)

	case *ast.BoolLit:
		v := e.Fresh(span)
		e.Bind(v, IPrim{Kind: types.Bool})
		return v

	case *ast.CharLit:
		v := e.Fresh(span)
		e.Bind(v, IPrim{Kind: types.Char})
		return v

	case *ast.Lambda:
		child := env.child()
		params := make([]VarId, len(x.Params))
		for i, name := range x.Params {
			pv := e.Fresh(span)
			params[i] = pv
			child[name] = pv
		}
		bodyV := e.infer(child, x.Body)
		out := bodyV
		for i := len(params) - 1; i >= 0; i-- {
			fv := e.Fresh(span)
			e.Bind(fv, IFunc{In: params[i], Out: out})
			out = fv
		}
		return out

	case *ast.App:
		cur := e.infer(env, x.Fn)
		for _, argExpr := range x.Args {
			argV := e.infer(env, argExpr)
			cur = e.applyCall(cur, argV, span)
		}
		return cur

	case *ast.BinaryExpr:
		leftV := e.infer(env, x.Left)
		rightV := e.infer(env, x.Right)
		resultV := e.Fresh(span)
		e.Queue(BinaryC{Op: x.Op, Left: leftV, Right: rightV, Result: resultV, Span: span})
		return resultV

	case *ast.UnaryExpr:
		operandV := e.infer(env, x.Operand)
		role := "not"
		if x.Op == "-" {
			role = "neg"
		}
		if classID, ok := e.Classes.Lang(role); ok {
			e.Queue(ImplC{Var: operandV, Class: classID, Span: span})
		} else {
			e.Errs = append(e.Errs, errcode.New(errcode.InvalidUnaryOp, span, "no lang item provides unary %q", x.Op))
		}
		return operandV

	case *ast.FieldAccess:
		targetV := e.infer(env, x.Target)
		resultV := e.Fresh(span)
		classVar := e.FreshClassVar(span)
		e.Queue(AccessC{Target: targetV, Field: x.Field, Result: resultV, ClassVar: classVar, Span: span})
		return resultV

	case *ast.TupleExpr:
		elems := make([]VarId, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = e.infer(env, el)
		}
		v := e.Fresh(span)
		e.Bind(v, ITuple{Elems: elems})
		return v

	case *ast.ListExpr:
		elemV := e.Fresh(span)
		for _, el := range x.Elements {
			elV := e.infer(env, el)
			if err := e.CheckFlow(elV, elemV, span); err != nil {
				e.Errs = append(e.Errs, err)
			}
		}
		v := e.Fresh(span)
		e.Bind(v, IList{Elem: elemV})
		return v

	case *ast.RecordExpr:
		fields := make([]IRecordField, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = IRecordField{Name: f.Name, Var: e.infer(env, f.Value)}
		}
		v := e.Fresh(span)
		e.Bind(v, IRecord{Fields: fields})
		return v

	case *ast.LetExpr:
		valueV := e.infer(env, x.Value)
		child := env.child()
		child[x.Name] = valueV
		return e.infer(child, x.Body)

	case *ast.IfExpr:
		condV := e.infer(env, x.Cond)
		boolV := e.Fresh(span)
		e.Bind(boolV, IPrim{Kind: types.Bool})
		if err := e.CheckFlow(condV, boolV, span); err != nil {
			e.Errs = append(e.Errs, err)
		}
		thenV := e.infer(env, x.Then)
		elseV := e.infer(env, x.Else)
		resultV := e.Fresh(span)
		if err := e.CheckFlow(thenV, resultV, span); err != nil {
			e.Errs = append(e.Errs, err)
		}
		if err := e.CheckFlow(elseV, resultV, span); err != nil {
			e.Errs = append(e.Errs, err)
		}
		return resultV

	default:
		e.Errs = append(e.Errs, errcode.New(errcode.Unsupported, span, "unsupported expression %T", expr))
		return e.Fresh(span)
	}
}

// applyCall resolves one application step: cur must describe a function
// accepting argV, and the call's result is cur's Out. An unresolved cur
// is bound to a fresh function shape on the spot, matching the teacher's
// lazy function-type discovery during App inference.
func (e *Engine) applyCall(cur, argV VarId, span ast.Span) VarId {
	cur = e.Resolve(cur)
	switch info := e.Info(cur).(type) {
	case IUnknown:
		in := e.Fresh(span)
		out := e.Fresh(span)
		e.Bind(cur, IFunc{In: in, Out: out})
		if err := e.CheckFlow(argV, in, span); err != nil {
			e.Errs = append(e.Errs, err)
		}
		return out

	case IFunc:
		if err := e.CheckFlow(argV, info.In, span); err != nil {
			e.Errs = append(e.Errs, err)
		}
		return info.Out

	case IError:
		return e.Fresh(span)

	default:
		e.Errs = append(e.Errs, errcode.New(errcode.Unsupported, span, "cannot call a non-function value"))
		return e.Fresh(span)
	}
}
