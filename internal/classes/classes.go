// Package classes implements the class and member tables: class
// declarations with their fields, super-obligations and associated types,
// and the members (instances) that target a concrete or blanket-generic
// type, plus the structural coverage relation coherence is checked against.
package classes

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/types"
)

// MemberId is a dense id for a registered member (instance) declaration.
type MemberId int

// ClassField is one field of a class, its declared signature possibly
// mentioning Self or the class's own generic parameters.
type ClassField struct {
	Name string
	Type types.TyId
	Span ast.Span
}

// Class is a declared class: its own generic parameters (if any), its
// super-obligations, the associated type names it introduces, and its
// fields.
type Class struct {
	Id         types.ClassId
	Name       string
	Span       ast.Span
	Attributes []ast.Attribute
	Scope      types.GenScopeId
	SuperNames []string
	Supers     []types.ClassId
	AssocNames []string
	Fields     []ClassField
}

// HasAssoc reports whether name is one of this class's associated types.
func (c *Class) HasAssoc(name string) bool {
	for _, n := range c.AssocNames {
		if n == name {
			return true
		}
	}
	return false
}

// FieldByName looks up a class field's declared signature.
func (c *Class) FieldByName(name string) (ClassField, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ClassField{}, false
}

// Member is a declared member (instance): the class it implements, the
// concrete or blanket type it targets, the associated-type bindings it
// supplies, and the field bodies it provides.
type Member struct {
	Id        MemberId
	ClassId   types.ClassId
	Target    types.TyId
	Scope     types.GenScopeId
	HasScope  bool
	Assoc     map[string]types.TyId
	Fields    map[string]ast.Expr
	FieldSpan map[string]ast.Span
	Span      ast.Span
}
