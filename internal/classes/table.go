package classes

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// recognisedLangRoles are the lang-item roles the inference engine must
// find to desugar built-in operators: unary negation, logical not, and
// union-widening coercions. A class opts in by carrying a `lang(role)`
// attribute in source, not by its name. A module missing any of these
// cannot type-check a program that uses the corresponding syntax (spec.md
// §4.4, MissingLangItem).
var recognisedLangRoles = map[string]bool{
	"neg":   true,
	"not":   true,
	"union": true,
}

// Table is the class registry: name lookup plus dense storage, and the
// resolved lang-item classes once Declare has run.
type Table struct {
	byName map[string]types.ClassId
	list   []*Class
	lang   map[string]types.ClassId
}

// NewTable creates an empty class table.
func NewTable() *Table {
	return &Table{byName: make(map[string]types.ClassId), lang: make(map[string]types.ClassId)}
}

// LookupClass implements types.ClassLookup.
func (t *Table) LookupClass(name string) (types.ClassId, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Get returns the class registered under id.
func (t *Table) Get(id types.ClassId) *Class {
	return t.list[id]
}

// All returns every declared class in declaration order.
func (t *Table) All() []*Class {
	return t.list
}

// Lang returns the class id bound to a lang-item role ("neg", "not",
// "union"), reporting ok=false if it was never resolved.
func (t *Table) Lang(role string) (types.ClassId, bool) {
	id, ok := t.lang[role]
	return id, ok
}

// Declare registers a class head: its name, generics (not yet obligation
// checked), supers and associated types, deferring field-signature
// resolution until every class name is known (spec.md §4.1's declare-then-
// define ordering). Duplicate names are reported via DuplicateClassName and
// the later declaration is dropped.
func (t *Table) Declare(store *types.Store, decl *ast.ClassDecl) errcode.List {
	if _, exists := t.byName[decl.Name]; exists {
		return errcode.List{errcode.New(errcode.DuplicateClassName, decl.Span, "class %q already declared", decl.Name)}
	}

	var errs errcode.List
	if len(decl.Generics) > 0 {
		errs = append(errs, errcode.New(errcode.Unsupported, decl.Span, "class %q must not declare generic parameters", decl.Name))
	}

	scope := store.InsertGenScope(decl.Generics)
	id := types.ClassId(len(t.list))
	c := &Class{
		Id:         id,
		Name:       decl.Name,
		Span:       decl.Span,
		Attributes: decl.Attributes,
		Scope:      scope,
		SuperNames: append([]string(nil), decl.Supers...),
		AssocNames: append([]string(nil), decl.AssocTypes...),
	}
	t.list = append(t.list, c)
	t.byName[decl.Name] = id

	for _, role := range langRolesOf(decl.Attributes) {
		t.lang[role] = id
	}
	return errs
}

// langRolesOf scans a class's attributes for `lang(role)` annotations,
// returning every recognised role named. Unrecognised roles are ignored
// here; nothing currently flags them as an error since an attribute typo
// just means the class fails to register as that lang item, surfaced
// later via MissingLangItems.
func langRolesOf(attrs []ast.Attribute) []string {
	var roles []string
	for _, a := range attrs {
		if a.Name != "lang" {
			continue
		}
		for _, arg := range a.Args {
			if recognisedLangRoles[arg] {
				roles = append(roles, arg)
			}
		}
	}
	return roles
}

// Define resolves a class's super-obligations and field signatures, now
// that every class name in the module is registered. Self is allowed in
// field signatures; bare generic names resolve against the class's own
// scope.
func (t *Table) Define(store *types.Store, decl *ast.ClassDecl, dl types.DataLookup, al types.AliasLookup) errcode.List {
	c := t.list[t.byName[decl.Name]]
	var errs errcode.List

	for _, superName := range c.SuperNames {
		superId, ok := t.LookupClass(superName)
		if !ok {
			errs = append(errs, errcode.New(errcode.NoSuchClass, c.Span, "class %q has no such super class %q", c.Name, superName))
			continue
		}
		c.Supers = append(c.Supers, superId)
	}

	ctx := types.ResolveCtx{
		Classes:     t,
		Datas:       dl,
		Aliases:     al,
		Scopes:      []types.GenScopeId{c.Scope},
		SelfAllowed: true,
		SelfClass:   c.Id,
	}
	seen := make(map[string]bool)
	for _, f := range decl.Fields {
		if seen[f.Name] {
			errs = append(errs, errcode.New(errcode.DuplicateClassItem, f.Span, "class %q already declares item %q", c.Name, f.Name))
			continue
		}
		seen[f.Name] = true
		ty, es := store.Resolve(ctx, f.Type)
		errs = append(errs, es...)
		c.Fields = append(c.Fields, ClassField{Name: f.Name, Type: ty, Span: f.Span})
	}
	return errs
}

// TransitiveSupers walks the super-class graph breadth-first from roots,
// deduplicating visited classes. The roots themselves are included: an
// obligation on a class trivially implies that class.
func TransitiveSupers(t *Table, roots []types.ClassId) []types.ClassId {
	seen := make(map[types.ClassId]bool)
	var out []types.ClassId
	queue := append([]types.ClassId(nil), roots...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		queue = append(queue, t.Get(id).Supers...)
	}
	return out
}

// MissingLangItems reports every lang-item role (spec.md §4.4) that never
// resolved to a declared class, for the driver to surface once at the end
// of the declare phase.
func (t *Table) MissingLangItems(span ast.Span) errcode.List {
	var errs errcode.List
	for _, role := range []string{"neg", "not", "union"} {
		if _, ok := t.lang[role]; !ok {
			errs = append(errs, errcode.New(errcode.MissingLangItem, span, "no class provides the %q lang item", role))
		}
	}
	return errs
}
