package data

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// Def is a top-level def: its own generic scope, an optional declared type
// hint, and its body expression. RawHint is the hint as parsed; it stays
// unresolved until the define phase because it may reference aliases and
// data types whose own definitions land after defs are declared. Hint and
// HasHint are filled in by the driver once resolution runs.
type Def struct {
	Name    string
	Span    ast.Span
	Scope   types.GenScopeId
	RawHint ast.TypeExpr
	HasHint bool
	Hint    types.TyId
	Body    ast.Expr
}

// DefTable is the top-level def registry.
type DefTable struct {
	byName map[string]int
	list   []*Def
}

// NewDefTable creates an empty def table.
func NewDefTable() *DefTable {
	return &DefTable{byName: make(map[string]int)}
}

// Get looks up a def by name.
func (t *DefTable) Get(name string) (*Def, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.list[idx], true
}

// All returns every def in declaration order.
func (t *DefTable) All() []*Def {
	return t.list
}

// Declare registers a def's head (generics and, unresolved, its optional
// type hint), deferring the hint's resolution and the body's type-check to
// the define phase: a hint may reference aliases whose own definitions
// only run after every def is declared.
func (t *DefTable) Declare(store *types.Store, decl *ast.DefDecl) errcode.List {
	if _, exists := t.byName[decl.Name]; exists {
		return errcode.List{errcode.New(errcode.DuplicateClassName, decl.Span, "def %q already declared", decl.Name)}
	}
	scope := store.InsertGenScope(decl.Generics)
	d := &Def{Name: decl.Name, Span: decl.Span, Scope: scope, RawHint: decl.Hint, Body: decl.Body}
	t.byName[decl.Name] = len(t.list)
	t.list = append(t.list, d)
	return nil
}

// ResolveHints interns every declared def's raw hint, once the class, data
// and alias tables are fully defined.
func (t *DefTable) ResolveHints(store *types.Store, cl types.ClassLookup, dl types.DataLookup, al types.AliasLookup) errcode.List {
	var errs errcode.List
	for _, d := range t.list {
		if d.RawHint == nil {
			continue
		}
		ctx := types.ResolveCtx{Classes: cl, Datas: dl, Aliases: al, Scopes: []types.GenScopeId{d.Scope}}
		hint, es := store.Resolve(ctx, d.RawHint)
		errs = append(errs, es...)
		d.HasHint = true
		d.Hint = hint
	}
	return errs
}
