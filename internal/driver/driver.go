// Package driver runs the phased compile pass over a parsed module: a
// strict declare-then-define order (spec.md §4.7) so that classes, data
// types, aliases, members and defs may all reference one another
// regardless of the order they appear in source.
package driver

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/classes"
	"github.com/vela-lang/vela/internal/data"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/infer"
	"github.com/vela-lang/vela/internal/reify"
	"github.com/vela-lang/vela/internal/types"
)

// Context is the shared, fully-populated result of a driver run: every
// declaration table plus the reified type of every def, available to a
// downstream lowering stage.
type Context struct {
	Store   *types.Store
	Classes *classes.Table
	Members *classes.Members
	Datas   *data.Table
	Aliases *data.AliasTable
	Defs    *data.DefTable

	// DefTypes holds each def's reified, fully-inferred type, keyed by
	// name, once step 13 has run.
	DefTypes map[string]types.TyId

	// MethodDispatch records, for each def, which class a method/field
	// projection in its body resolved to (spec.md §4.3's class_vars
	// witness table) — the binding MIR class lowering needs to turn
	// `x.foo` into a call against a specific member's implementation
	// rather than a plain record projection. A projection resolved purely
	// structurally (direct record field) never appears here.
	MethodDispatch map[string][]ClassDispatch

	// DefaultingTraces records, per def, every numeric-literal defaulting
	// decision made while its body was solved. Populated only when the
	// driver ran with TraceDefaulting set.
	DefaultingTraces map[string][]infer.DefaultingTrace
}

// ClassDispatch is one resolved method/field projection: the span of the
// `x.foo` expression and the class its receiver was found to implement.
type ClassDispatch struct {
	Span  ast.Span
	Class types.ClassId
}

// Driver runs the 13-step phased pass described in spec.md §4.7.
type Driver struct {
	// TraceDefaulting records numeric-literal defaulting decisions on the
	// resulting Context for a CLI or debugger to render.
	TraceDefaulting bool
}

// Run analyzes mod from scratch, returning the populated Context and every
// diagnostic accumulated along the way. Individual failed items are
// skipped rather than aborting the pass (spec.md §5's error-recovery
// norm); only a programmer-error invariant breach (never reached through
// this entry point under normal operation) would terminate early.
func (d Driver) Run(mod *ast.Module) (*Context, errcode.List) {
	store := types.NewStore()
	ct := classes.NewTable()
	at := data.NewAliasTable()
	dt := data.NewTable()
	mt := classes.NewMembers(store, ct)
	deft := data.NewDefTable()

	ctx := &Context{
		Store: store, Classes: ct, Members: mt, Datas: dt, Aliases: at, Defs: deft,
		DefTypes:         make(map[string]types.TyId),
		MethodDispatch:   make(map[string][]ClassDispatch),
		DefaultingTraces: make(map[string][]infer.DefaultingTrace),
	}
	var errs errcode.List

	// Step 1: declare classes (enters the lang-item registry as a side
	// effect of Declare scanning each class's attributes).
	for _, c := range mod.Classes {
		errs = append(errs, ct.Declare(store, c)...)
	}

	// Step 2: declare aliases, then data heads.
	for _, a := range mod.Aliases {
		errs = append(errs, at.Declare(store, a)...)
	}
	for _, d := range mod.Datas {
		errs = append(errs, dt.DeclareHead(store, d)...)
	}

	// Step 3: declare members (class must already exist), then defs.
	for _, m := range mod.Members {
		errs = append(errs, mt.Declare(m, dt, at)...)
	}
	errs = append(errs, mt.CheckCoherence()...)
	for _, dd := range mod.Defs {
		errs = append(errs, deft.Declare(store, dd)...)
	}

	// Step 4: check_lang_items, then check_gen_scopes.
	errs = append(errs, ct.MissingLangItems(moduleSpan(mod))...)
	errs = append(errs, store.CheckGenScopes(ct.LookupClass)...)

	// Step 5: define aliases (may reference other declared types).
	errs = append(errs, at.ResolveAll(store, ct, dt)...)

	// Steps 6-8: define class obligations, associated-type names (already
	// captured at declare time via Class.AssocNames), and field
	// signatures — kept as one combined pass per DESIGN.md, since step 7
	// has nothing left to do once Declare has run.
	for _, c := range mod.Classes {
		errs = append(errs, ct.Define(store, c, dt, at)...)
	}

	// Step 9: define data type bodies.
	for _, d := range mod.Datas {
		errs = append(errs, dt.DefineBody(store, d, dt, at)...)
	}

	// Step 10: define member obligations — each member's target type must
	// fulfil every super-obligation of the class it implements.
	errs = append(errs, checkMemberObligations(store, ct, mt)...)

	// Steps 11-12: define member associated-type bodies (already resolved
	// structurally at declare time; spec.md §4.7 step 11 explicitly defers
	// cross-field flow, which there is none of at the type level) and
	// field bodies, fully checked against the class's declared signature
	// with Self bound to the member's own target.
	errs = append(errs, defineMemberFields(store, ct, mt, dt, at)...)

	// Step 13: define def bodies — hint first, then body flowing into it.
	// Hints resolve only now so they may reference aliases and data types
	// defined in the steps above.
	errs = append(errs, deft.ResolveHints(store, ct, dt, at)...)
	errs = append(errs, defineDefBodies(ctx, d.TraceDefaulting)...)

	return ctx, errs
}

// moduleSpan picks a representative span for module-level diagnostics that
// aren't tied to one declaration (missing lang items). The first class
// declared is as good an anchor as any; an empty module reports at the
// zero span.
func moduleSpan(mod *ast.Module) ast.Span {
	if len(mod.Classes) > 0 {
		return mod.Classes[0].Span
	}
	if len(mod.Defs) > 0 {
		return mod.Defs[0].Span
	}
	return ast.Span{}
}

// checkMemberObligations implements spec.md §4.7 step 10: every member's
// target type must satisfy each super-obligation the class it implements
// declares, checked the same way ImplC checks an obligation against a
// resolved type during inference, minus the deferred-Unknown case (a
// member's target is always a concrete, already-resolved type by this
// point).
func checkMemberObligations(store *types.Store, ct *classes.Table, mt *classes.Members) errcode.List {
	var errs errcode.List
	for _, c := range ct.All() {
		for _, member := range mt.All(c.Id) {
			for _, super := range c.Supers {
				if gen, ok := store.Get(member.Target).(*types.TyGen); ok {
					scope := store.GetGenScope(gen.Scope)
					fulfilled := false
					for _, ob := range classes.TransitiveSupers(ct, scope.Params[gen.Index].MustObligations()) {
						if ob == super {
							fulfilled = true
							break
						}
					}
					if !fulfilled {
						errs = append(errs, errcode.New(errcode.TypeDoesNotFulfil, member.Span,
							"member of class %q does not fulfil super obligation %q", c.Name, ct.Get(super).Name))
					}
					continue
				}
				matches, err := classes.Lookup(store, super, mt, member.Target)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if len(matches) == 0 {
					errs = append(errs, errcode.New(errcode.TypeDoesNotFulfil, member.Span,
						"member of class %q does not fulfil super obligation %q", c.Name, ct.Get(super).Name))
				}
			}
		}
	}
	return errs
}

// defineMemberFields implements spec.md §4.7 step 12: each member's field
// bodies are inferred with Self bound to the member's own target type
// (and the class's super-obligations available via SetSelf), then checked
// to flow into the class's declared field signature. Spec.md §3's
// invariant that a member's assoc/field maps cover every name the class
// declares is enforced here, once the class's field signatures (populated
// only by ct.Define, which runs after member declaration) actually exist
// to compare against.
func defineMemberFields(store *types.Store, ct *classes.Table, mt *classes.Members, dt *data.Table, at *data.AliasTable) errcode.List {
	var errs errcode.List
	for _, c := range ct.All() {
		for _, member := range mt.All(c.Id) {
			for _, name := range c.AssocNames {
				if _, ok := member.Assoc[name]; !ok {
					errs = append(errs, errcode.New(errcode.MissingClassItem, member.Span,
						"member of class %q is missing associated type %q", c.Name, name))
				}
			}
			for name, span := range member.FieldSpan {
				if _, ok := c.FieldByName(name); !ok {
					errs = append(errs, errcode.New(errcode.NoSuchClassItem, span,
						"class %q has no field %q", c.Name, name))
				}
			}

			e := infer.NewEngine(store, ct, mt, dt, at)
			selfV := e.FromTy(member.Span, member.Target)
			e.SetSelf(selfV, c.Supers)

			for _, f := range c.Fields {
				body, ok := member.Fields[f.Name]
				if !ok {
					errs = append(errs, errcode.New(errcode.MissingClassItem, member.Span,
						"member of class %q is missing field %q", c.Name, f.Name))
					continue
				}
				// The member's own generics stay rigid while its bodies are
				// checked; instantiation with fresh variables happens only at
				// use sites (instantiateClassField), never at the definition
				// site itself.
				env := infer.Env{"self": selfV}
				withSelf := store.Apply(types.Subst{Self: &member.Target}, f.Type)
				expected := e.FromTy(f.Span, withSelf)
				e.Check(env, body, expected)
			}

			e.ClearSelf()
			errs = append(errs, e.Solve()...)
			errs = append(errs, e.Errs...)
		}
	}
	return errs
}

// defineDefBodies implements spec.md §4.7 step 13: each def's body is
// inferred, checked to flow into its declared hint (if any), reified, and
// recorded in ctx.DefTypes.
func defineDefBodies(ctx *Context, trace bool) errcode.List {
	var errs errcode.List
	for _, d := range ctx.Defs.All() {
		e := infer.NewEngine(ctx.Store, ctx.Classes, ctx.Members, ctx.Datas, ctx.Aliases)
		e.Trace = trace

		// Every hinted def is visible to every body (forward references are
		// the point of the declare/define split), instantiated fresh so a
		// generic def's parameters unify per referencing def rather than
		// leaking rigid generics across items. Hint-less defs stay out of
		// scope: their types are only known once their own inference runs.
		env := infer.Env{}
		for _, other := range ctx.Defs.All() {
			if !other.HasHint {
				continue
			}
			hv := e.FromTy(other.Span, other.Hint)
			env[other.Name] = e.Instantiate(other.Span, hv, other.Scope)
		}

		var result infer.VarId
		if d.HasHint {
			// The def's own generics stay rigid against its own body: the
			// body must be well-typed for every choice of the parameters,
			// not for one convenient unification of them.
			expected := e.FromTy(d.Span, d.Hint)
			result = e.Check(env, d.Body, expected)
		} else {
			result = e.Infer(env, d.Body)
		}

		errs = append(errs, e.Solve()...)
		errs = append(errs, e.Errs...)

		r := reify.New(ctx.Store)
		ty := r.Reify(e, result)
		errs = append(errs, r.Errs()...)
		ctx.DefTypes[d.Name] = ty

		for i := 0; i < e.NumClassVars(); i++ {
			if class, ok := e.ClassVarClass(i); ok {
				ctx.MethodDispatch[d.Name] = append(ctx.MethodDispatch[d.Name], ClassDispatch{
					Span:  e.ClassVarSpan(i),
					Class: class,
				})
			}
		}
		if traces := e.Traces(); len(traces) > 0 {
			ctx.DefaultingTraces[d.Name] = traces
		}
	}
	return errs
}
