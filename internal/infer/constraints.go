package infer

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/classes"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// Constraint is one deferred obligation in the engine's FIFO queue. try
// reports false when the constraint cannot yet be resolved (not enough is
// known about its variables) and should stay queued; true means it was
// resolved, successfully or with a reported error.
type Constraint interface {
	try(e *Engine) (bool, *errcode.Error)
	position() ast.Span
}

// Queue adds a constraint to the end of the pending queue.
func (e *Engine) Queue(c Constraint) {
	e.constraints = append(e.constraints, c)
}

// Solve drains the constraint queue to a fixed point: each round tries
// every still-pending constraint in order, keeping the ones that return
// false; the round-robin repeats as long as some round makes progress.
// Numeric-literal defaulting only fires once ordinary constraints stall —
// a constraint blocked on a literal's still-undefaulted type (e.g. a field
// projection on a bare numeric literal) gets one more round against the
// now-concrete default before anything is given up on. Constraints still
// unresolved after that are reported as CannotInfer, mirroring the
// teacher's unresolved-constraint diagnostics.
func (e *Engine) Solve() errcode.List {
	var errs errcode.List
	defaulted := false
	for {
		if len(e.constraints) == 0 {
			break
		}
		pending := e.constraints
		e.constraints = nil
		progressed := false
		for _, c := range pending {
			resolved, err := c.try(e)
			if !resolved {
				e.constraints = append(e.constraints, c)
				continue
			}
			progressed = true
			if err != nil {
				errs = append(errs, err)
			}
		}
		if progressed {
			continue
		}
		if !defaulted && len(e.lazyLiterals) > 0 {
			defaulted = true
			errs = append(errs, e.resolveLazyLiterals()...)
			continue
		}
		break
	}
	for _, c := range e.constraints {
		errs = append(errs, errcode.New(errcode.CannotInfer, c.position(), "could not resolve constraint before reaching a fixed point"))
	}
	e.constraints = nil
	if !defaulted {
		errs = append(errs, e.resolveLazyLiterals()...)
	}
	return errs
}

// CheckFlowC defers a CheckFlow to the queue (used when one side may not
// yet be resolved enough to check, e.g. still IUnknown with pending
// upstream constraints of its own).
type CheckFlowC struct {
	From, To VarId
	Span     ast.Span
}

func (c CheckFlowC) position() ast.Span { return c.Span }

func (c CheckFlowC) try(e *Engine) (bool, *errcode.Error) {
	if err := e.CheckFlow(c.From, c.To, c.Span); err != nil {
		return true, err
	}
	return true, nil
}

// ImplC obligates Var to implement Class, discharged once Var resolves to
// something other than IUnknown: a concrete shape is checked via
// classes.Lookup, a generic (IGen) is checked against its scope's resolved
// obligations, and Self is checked against the member's declared supers.
type ImplC struct {
	Var   VarId
	Class types.ClassId
	Span  ast.Span
}

func (c ImplC) position() ast.Span { return c.Span }

func (c ImplC) try(e *Engine) (bool, *errcode.Error) {
	v := e.Resolve(c.Var)
	info := e.Info(v)
	if _, ok := info.(IUnknown); ok {
		return false, nil
	}
	if _, ok := info.(IError); ok {
		return true, nil
	}

	if g, ok := info.(IGen); ok {
		scope := e.Store.GetGenScope(g.Scope)
		for _, ob := range classes.TransitiveSupers(e.Classes, scope.Params[g.Index].MustObligations()) {
			if ob == c.Class {
				return true, nil
			}
		}
		return true, errcode.New(errcode.TypeDoesNotFulfil, c.Span, "generic parameter %q does not carry the required obligation", scope.Params[g.Index].Name)
	}

	if _, ok := info.(ISelf); ok {
		for _, s := range classes.TransitiveSupers(e.Classes, e.selfSupers) {
			if s == c.Class {
				return true, nil
			}
		}
		return true, errcode.New(errcode.TypeDoesNotFulfil, c.Span, "Self does not carry the required super obligation")
	}

	ty := e.reifyConcrete(v)
	matches, err := classLookup(e, c.Class, ty)
	if err != nil {
		return true, err
	}
	if len(matches) == 0 {
		return true, errcode.New(errcode.TypeDoesNotFulfil, c.Span, "type does not fulfil the required class")
	}
	return true, nil
}

// ClassAssocC resolves an associated-type projection (`Inner.Name` under
// Class) against the member covering Inner, binding Result to that
// member's declared associated-type binding.
type ClassAssocC struct {
	Inner  VarId
	Class  types.ClassId
	Name   string
	Result VarId
	Span   ast.Span
}

func (c ClassAssocC) position() ast.Span { return c.Span }

func (c ClassAssocC) try(e *Engine) (bool, *errcode.Error) {
	v := e.Resolve(c.Inner)
	if _, ok := e.Info(v).(IUnknown); ok {
		return false, nil
	}
	if _, ok := e.Info(v).(IError); ok {
		e.Bind(e.Resolve(c.Result), IError{Reason: "propagated from an already-errored type"})
		return true, nil
	}

	ty := e.reifyConcrete(v)
	matches, err := classLookup(e, c.Class, ty)
	if err != nil {
		return true, err
	}
	if len(matches) == 0 {
		return true, errcode.New(errcode.NoSuchClassItem, c.Span, "no member covers this type for associated type %q", c.Name)
	}
	member := matches[0]
	bound, ok := member.Assoc[c.Name]
	if !ok {
		return true, errcode.New(errcode.NoSuchClassItem, c.Span, "member does not bind associated type %q", c.Name)
	}
	boundVar := e.FromTy(c.Span, bound)
	if err := e.CheckFlow(boundVar, c.Result, c.Span); err != nil {
		return true, err
	}
	return true, nil
}

// AccessC is FieldAccess's constraint: `x.foo` doubles as plain record
// projection and method/associated-item call syntax (SPEC_FULL §3). Once
// Target is resolved enough to inspect, it first tries structural
// projection — a direct record field, or a field reached by walking
// single-variant record data-type indirections — and only falls back to
// class-field resolution when no structural field by that name exists.
// ClassVar is the index of the class witness (spec.md §4.3's class_vars
// table) allocated for this projection; it is bound via BindClassVar only
// when resolution actually falls through to the class-field path, so a
// downstream consumer can tell a plain record projection (witness stays
// unbound) apart from a resolved method dispatch.
type AccessC struct {
	Target   VarId
	Field    string
	Result   VarId
	ClassVar int
	Span     ast.Span
}

func (c AccessC) position() ast.Span { return c.Span }

func (c AccessC) try(e *Engine) (bool, *errcode.Error) {
	v := e.Resolve(c.Target)
	info := e.Info(v)
	if _, ok := info.(IUnknown); ok {
		return false, nil
	}
	if _, ok := info.(IError); ok {
		e.Bind(e.Resolve(c.Result), IError{Reason: "propagated from an already-errored type"})
		return true, nil
	}

	if r, ok := info.(IRecord); ok {
		if fv, ok := fieldByName(r.Fields, c.Field); ok {
			if err := e.CheckFlow(fv, c.Result, c.Span); err != nil {
				return true, err
			}
			return true, nil
		}
	}
	if _, ok := info.(IData); ok {
		ty := e.reifyConcrete(v)
		_, fieldTy, _, ok := types.ResolveField(e.Store, dataVariantsView(e), ty, c.Field)
		if ok {
			fv := e.FromTy(c.Span, fieldTy)
			if err := e.CheckFlow(fv, c.Result, c.Span); err != nil {
				return true, err
			}
			return true, nil
		}
	}

	candidates, ferr := resolveFieldCandidates(e, c.Field, v, c.Span)
	if ferr != nil {
		return true, ferr
	}
	cand := candidates[0]
	e.BindClassVar(c.ClassVar, cand.class)
	ty := e.reifyConcrete(v)
	var fv VarId
	if cand.member != nil {
		fv = e.instantiateClassField(cand.member, cand.class, cand.field, ty, c.Span)
	} else {
		// Implied candidate: the receiver's own Gen/Self obligations
		// guarantee the class, so the field signature is taken on
		// assumption with no concrete member to instantiate against.
		selfSubst := types.Subst{Self: &ty}
		withSelf := e.Store.Apply(selfSubst, cand.field.Type)
		fv = e.FromTy(c.Span, withSelf)
	}
	if err := e.CheckFlow(fv, c.Result, c.Span); err != nil {
		return true, err
	}
	return true, nil
}
