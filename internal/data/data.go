// Package data implements the data-type, alias and top-level def tables:
// declaring variant heads before resolving their payloads so mutually
// recursive data types resolve, alias expansion with recursion detection,
// and the def table's generic scope plus optional type hint and body.
package data

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

// Variant is one constructor of a data type: Payload is the zero TyId with
// HasPayload false for a bare tag (no associated data).
type Variant struct {
	Name       string
	Payload    types.TyId
	HasPayload bool
	Span       ast.Span
}

// Data is a declared data type.
type Data struct {
	Id       types.DataId
	Name     string
	Span     ast.Span
	Scope    types.GenScopeId
	Variants []Variant
}

// VariantByName looks up a constructor by name.
func (d *Data) VariantByName(name string) (Variant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Table is the data-type registry.
type Table struct {
	byName map[string]types.DataId
	list   []*Data
}

// NewTable creates an empty data table.
func NewTable() *Table {
	return &Table{byName: make(map[string]types.DataId)}
}

// LookupData implements types.DataLookup.
func (t *Table) LookupData(name string) (types.DataId, types.GenScopeId, bool) {
	id, ok := t.byName[name]
	if !ok {
		return 0, 0, false
	}
	return id, t.list[id].Scope, true
}

// Get returns the data type registered under id.
func (t *Table) Get(id types.DataId) *Data {
	return t.list[id]
}

// All returns every declared data type in declaration order.
func (t *Table) All() []*Data {
	return t.list
}

// DeclareHead registers a data type's name and generic scope, leaving
// variant payloads unresolved until DefineBody runs (spec.md §4.1's
// declare-then-define ordering lets data types reference one another
// regardless of declaration order).
func (t *Table) DeclareHead(store *types.Store, decl *ast.DataDecl) errcode.List {
	if _, exists := t.byName[decl.Name]; exists {
		return errcode.List{errcode.New(errcode.DuplicateClassName, decl.Span, "data type %q already declared", decl.Name)}
	}
	scope := store.InsertGenScope(decl.Generics)
	id := types.DataId(len(t.list))
	t.list = append(t.list, &Data{Id: id, Name: decl.Name, Span: decl.Span, Scope: scope})
	t.byName[decl.Name] = id
	return nil
}

// DefineBody resolves a previously declared data type's variant payloads.
func (t *Table) DefineBody(store *types.Store, decl *ast.DataDecl, dl types.DataLookup, al types.AliasLookup) errcode.List {
	d := t.list[t.byName[decl.Name]]
	var errs errcode.List

	ctx := types.ResolveCtx{Classes: nil, Datas: dl, Aliases: al, Scopes: []types.GenScopeId{d.Scope}}
	seen := make(map[string]bool)
	for _, v := range decl.Variants {
		if seen[v.Name] {
			errs = append(errs, errcode.New(errcode.DuplicateClassItem, v.Span, "data type %q already declares variant %q", d.Name, v.Name))
			continue
		}
		seen[v.Name] = true
		if v.Payload == nil {
			d.Variants = append(d.Variants, Variant{Name: v.Name, Span: v.Span})
			continue
		}
		ty, es := store.Resolve(ctx, v.Payload)
		errs = append(errs, es...)
		d.Variants = append(d.Variants, Variant{Name: v.Name, Payload: ty, HasPayload: true, Span: v.Span})
	}
	return errs
}

// singleRecordVariant reports whether a data type's sole variant carries a
// payload that field access can be transparently projected through: a
// record, or another data type (which the walk in types.ResolveField keeps
// unwrapping, one indirection per level).
func (t *Table) singleRecordVariant(store *types.Store, id types.DataId) (types.TyId, types.GenScopeId, bool) {
	d := t.list[id]
	if len(d.Variants) != 1 || !d.Variants[0].HasPayload {
		return 0, 0, false
	}
	switch store.Get(d.Variants[0].Payload).(type) {
	case *types.TyRecord, *types.TyData:
		return d.Variants[0].Payload, d.Scope, true
	}
	return 0, 0, false
}

// VariantsView adapts a Table to types.DataVariants, binding the store
// needed to inspect a variant's payload shape (the interface itself stays
// store-agnostic so the types package never imports data).
type VariantsView struct {
	Table *Table
	Store *types.Store
}

// SingleRecordVariant implements types.DataVariants.
func (v VariantsView) SingleRecordVariant(id types.DataId) (types.TyId, types.GenScopeId, bool) {
	return v.Table.singleRecordVariant(v.Store, id)
}
