package data

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// aliasEntry is an alias's raw AST target plus its generic scope, kept
// until resolution so RecursiveAlias can be detected by walking the
// reference graph before any expansion happens.
type aliasEntry struct {
	name   string
	span   ast.Span
	scope  types.GenScopeId
	target ast.TypeExpr
}

// AliasTable is the alias registry. Resolution happens in two passes:
// Declare records the head and raw target, then Resolve expands every
// alias's target, detecting cycles through the alias reference graph
// before falling into Store.Resolve's own recursion.
type AliasTable struct {
	byName   map[string]int
	entries  []*aliasEntry
	resolved map[string]types.AliasDef
}

// NewAliasTable creates an empty alias table.
func NewAliasTable() *AliasTable {
	return &AliasTable{byName: make(map[string]int), resolved: make(map[string]types.AliasDef)}
}

// LookupAlias implements types.AliasLookup.
func (t *AliasTable) LookupAlias(name string) (types.AliasDef, bool) {
	def, ok := t.resolved[name]
	return def, ok
}

// Declare registers an alias head.
func (t *AliasTable) Declare(store *types.Store, decl *ast.AliasDecl) errcode.List {
	if _, exists := t.byName[decl.Name]; exists {
		return errcode.List{errcode.New(errcode.DuplicateClassName, decl.Span, "alias %q already declared", decl.Name)}
	}
	scope := store.InsertGenScope(decl.Generics)
	t.byName[decl.Name] = len(t.entries)
	t.entries = append(t.entries, &aliasEntry{name: decl.Name, span: decl.Span, scope: scope, target: decl.Target})
	return nil
}

// ResolveAll expands every alias's target in dependency order, reporting
// RecursiveAlias for any alias that refers to itself (directly or
// transitively) through a bare type name before any generic-argument
// indirection would break the cycle.
func (t *AliasTable) ResolveAll(store *types.Store, cl types.ClassLookup, dl types.DataLookup) errcode.List {
	var errs errcode.List
	state := make(map[string]int) // 0 = unvisited, 1 = in progress, 2 = done
	var visit func(name string) bool
	visit = func(name string) bool {
		idx, ok := t.byName[name]
		if !ok {
			return true
		}
		switch state[name] {
		case 1:
			errs = append(errs, errcode.New(errcode.RecursiveAlias, t.entries[idx].span, "alias %q is recursive", name))
			return false
		case 2:
			return true
		}
		state[name] = 1
		entry := t.entries[idx]
		if !walkAliasRefs(entry.target, visit) {
			state[name] = 2
			return false
		}
		ctx := types.ResolveCtx{Classes: cl, Datas: dl, Aliases: t, Scopes: []types.GenScopeId{entry.scope}}
		target, es := store.Resolve(ctx, entry.target)
		errs = append(errs, es...)
		t.resolved[name] = types.AliasDef{Scope: entry.scope, Target: target}
		state[name] = 2
		return true
	}
	for _, e := range t.entries {
		visit(e.name)
	}
	return errs
}

// walkAliasRefs visits every bare type name mentioned in te (recursing
// through composite shapes) via visit, short-circuiting on the first
// reported cycle.
func walkAliasRefs(te ast.TypeExpr, visit func(string) bool) bool {
	switch t := te.(type) {
	case *ast.TEName:
		if len(t.Args) == 0 {
			if !visit(t.Name) {
				return false
			}
		}
		for _, a := range t.Args {
			if !walkAliasRefs(a, visit) {
				return false
			}
		}
		return true
	case *ast.TEList:
		return walkAliasRefs(t.Elem, visit)
	case *ast.TETuple:
		for _, e := range t.Elements {
			if !walkAliasRefs(e, visit) {
				return false
			}
		}
		return true
	case *ast.TEUnion:
		for _, m := range t.Members {
			if !walkAliasRefs(m, visit) {
				return false
			}
		}
		return true
	case *ast.TERecord:
		for _, f := range t.Fields {
			if !walkAliasRefs(f.Type, visit) {
				return false
			}
		}
		return true
	case *ast.TEFunc:
		for _, in := range t.In {
			if !walkAliasRefs(in, visit) {
				return false
			}
		}
		return walkAliasRefs(t.Out, visit)
	case *ast.TEAssoc:
		return walkAliasRefs(t.Inner, visit)
	default:
		return true
	}
}
