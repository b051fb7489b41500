package types

import (
	"fmt"
	"strings"
)

// Ty is an interned, tagged type value (spec.md §3's "Interned type").
// Every constructor below is a closed sum; switches over Ty are exhaustive.
type Ty interface {
	String() string
	tyNode()
}

// TyError marks a type that could not be determined; it compares equal to
// everything under IsEq, to suppress cascading diagnostics.
type TyError struct {
	Reason string
}

func (t *TyError) tyNode()        {}
func (t *TyError) String() string { return fmt.Sprintf("<error: %s>", t.Reason) }

// TyPrim is one of Nat, Int, Real, Bool, Char.
type TyPrim struct {
	Kind PrimKind
}

func (t *TyPrim) tyNode()        {}
func (t *TyPrim) String() string { return t.Kind.String() }

// TyList is `[Elem]`.
type TyList struct {
	Elem TyId
}

func (t *TyList) tyNode() {}

// TyTuple is `(e1, e2, ...)`.
type TyTuple struct {
	Elems []TyId
}

func (t *TyTuple) tyNode() {}

// TyUnion is a structural set of alternatives, width-subtyped on the right
// of a flow. Members are kept in insertion order prior to reification;
// IsEq and the reifier treat the order as insignificant.
type TyUnion struct {
	Members []TyId
}

func (t *TyUnion) tyNode() {}

// RecordField is one entry of an ordered record type.
type RecordField struct {
	Name string
	Ty   TyId
}

// TyRecord is `{ name: Type, ... }`; Fields preserves declaration order.
type TyRecord struct {
	Fields []RecordField
}

func (t *TyRecord) tyNode() {}

// TyFunc is `In -> Out`. Multi-parameter functions curry through nested
// TyFunc values, matching the source language's single-argument arrows.
type TyFunc struct {
	In  TyId
	Out TyId
}

func (t *TyFunc) tyNode() {}

// TyData is a (possibly parameterized) reference to a declared data type.
type TyData struct {
	Data DataId
	Args []TyId
}

func (t *TyData) tyNode() {}

// TyGen references the Index'th parameter of generic scope Scope.
type TyGen struct {
	Index int
	Scope GenScopeId
}

func (t *TyGen) tyNode() {}

// TySelf is the `Self` type, valid only while checking a class's field
// signatures or a member's bodies.
type TySelf struct{}

func (t *TySelf) tyNode()        {}
func (t *TySelf) String() string { return "Self" }

// TyAssoc is `Inner.Name`, the associated type Name of Class as seen on
// Inner.
type TyAssoc struct {
	Inner TyId
	Class ClassId
	Name  string
}

func (t *TyAssoc) tyNode() {}

// String renders a type for diagnostics. It never follows TyId links
// itself (that is Store's job via Store.StringOf) except where it already
// holds the nested value by id and a Store is unavailable; callers that
// need full pretty-printing should use Store.StringOf.
func (t *TyList) String() string  { return fmt.Sprintf("[#%d]", t.Elem) }
func (t *TyTuple) String() string { return fmt.Sprintf("(%s)", joinIds(t.Elems)) }
func (t *TyUnion) String() string { return strings.Join(mapIds(t.Members, func(id TyId) string { return fmt.Sprintf("#%d", id) }), " | ") }
func (t *TyRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = fmt.Sprintf("%s: #%d", f.Name, f.Ty)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
func (t *TyFunc) String() string  { return fmt.Sprintf("#%d -> #%d", t.In, t.Out) }
func (t *TyData) String() string  { return fmt.Sprintf("Data(%d)[%s]", t.Data, joinIds(t.Args)) }
func (t *TyGen) String() string   { return fmt.Sprintf("Gen(%d,%d)", t.Index, t.Scope) }
func (t *TyAssoc) String() string { return fmt.Sprintf("#%d.%s", t.Inner, t.Name) }

func joinIds(ids []TyId) string {
	return strings.Join(mapIds(ids, func(id TyId) string { return fmt.Sprintf("#%d", id) }), ", ")
}

func mapIds(ids []TyId, f func(TyId) string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = f(id)
	}
	return out
}
