// Package ast defines the input contract the analysis engine consumes.
//
// Everything here is produced upstream by a parser that is not part of this
// repository; the engine never constructs these values itself. Span is
// opaque to the engine: it is carried around for diagnostics and never
// branched on.
package ast

import "fmt"

// Span is a source range. The engine treats it as an opaque token.
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// Ident is a bare name, already tokenized by the parser.
type Ident = string

// Attribute is a parser-level annotation such as `lang(not)`.
type Attribute struct {
	Name string
	Args []string
	Span Span
}

// GenericParam is one parameter of a generic scope together with the raw
// (unresolved) class-obligation names the parser saw after `:`.
type GenericParam struct {
	Name    Ident
	Classes []Ident
	Span    Span
}

// Module is the full parsed program the driver analyzes. Declarations may
// appear in any order within each slice; the driver imposes the phase order.
type Module struct {
	Classes []*ClassDecl
	Aliases []*AliasDecl
	Datas   []*DataDecl
	Members []*MemberDecl
	Defs    []*DefDecl
}

// ClassField is a named value-field signature belonging to a class; its
// Type may mention TESelf.
type ClassField struct {
	Name Ident
	Type TypeExpr
	Span Span
}

// ClassDecl declares a type class.
type ClassDecl struct {
	Name        Ident
	Generics    []GenericParam // must be empty; non-empty is Unsupported
	Attributes  []Attribute
	Supers      []Ident // super-obligations: other classes a member must also satisfy
	AssocTypes  []Ident // associated-type names, unbounded
	Fields      []ClassField
	Span        Span
}

// AliasDecl declares `alias Name<Generics> = Target`.
type AliasDecl struct {
	Name     Ident
	Generics []GenericParam
	Target   TypeExpr
	Span     Span
}

// DataVariant is one constructor of a data type.
type DataVariant struct {
	Name    Ident
	Payload TypeExpr // nil for a nullary variant
	Span    Span
}

// DataDecl declares `data Name<Generics> = Variant | Variant ...`.
type DataDecl struct {
	Name     Ident
	Generics []GenericParam
	Variants []DataVariant
	Span     Span
}

// MemberField is one value-field implementation inside a member body.
type MemberField struct {
	Name  Ident
	Value Expr
	Span  Span
}

// MemberAssoc is one associated-type binding inside a member body.
type MemberAssoc struct {
	Name Ident
	Type TypeExpr
	Span Span
}

// MemberDecl declares `Target as Class<Generics> { assoc...; field = expr... }`.
type MemberDecl struct {
	ClassName Ident
	Target    TypeExpr
	Generics  []GenericParam
	Assocs    []MemberAssoc
	Fields    []MemberField
	Span      Span
}

// DefDecl declares a top-level binding, with an optional fully-specified
// type hint and a body expression.
type DefDecl struct {
	Name     Ident
	Generics []GenericParam
	Hint     TypeExpr // nil if absent
	Body     Expr
	Span     Span
}
