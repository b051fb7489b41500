package ast

// Node is the minimal interface shared by every AST node.
type Node interface {
	Position() Span
}

// TypeExpr is the parser's surface syntax for a type, prior to interning by
// the type store.
type TypeExpr interface {
	Node
	typeExprNode()
}

// TEName references a primitive, a data type, an alias, or a generic
// parameter by name; Args is non-empty for a parameterized data reference
// such as `List<Nat>`.
type TEName struct {
	Name Ident
	Args []TypeExpr
	Span Span
}

func (t *TEName) typeExprNode()  {}
func (t *TEName) Position() Span { return t.Span }

// TESelf references the class `Self` type, valid only inside class field
// signatures and member bodies.
type TESelf struct {
	Span Span
}

func (t *TESelf) typeExprNode()  {}
func (t *TESelf) Position() Span { return t.Span }

// TEList is `[Elem]`.
type TEList struct {
	Elem TypeExpr
	Span Span
}

func (t *TEList) typeExprNode()  {}
func (t *TEList) Position() Span { return t.Span }

// TETuple is `(A, B, ...)`.
type TETuple struct {
	Elements []TypeExpr
	Span     Span
}

func (t *TETuple) typeExprNode()  {}
func (t *TETuple) Position() Span { return t.Span }

// TEUnion is `A | B | ...`.
type TEUnion struct {
	Members []TypeExpr
	Span    Span
}

func (t *TEUnion) typeExprNode()  {}
func (t *TEUnion) Position() Span { return t.Span }

// TERecordField is one field of a record type expression.
type TERecordField struct {
	Name Ident
	Type TypeExpr
}

// TERecord is `{ name: Type, ... }`. Field order is significant: the engine
// stores fields in an ordered map and reproduces this order in diagnostics.
type TERecord struct {
	Fields []TERecordField
	Span   Span
}

func (t *TERecord) typeExprNode()  {}
func (t *TERecord) Position() Span { return t.Span }

// TEFunc is `(In...) -> Out`.
type TEFunc struct {
	In   []TypeExpr
	Out  TypeExpr
	Span Span
}

func (t *TEFunc) typeExprNode()  {}
func (t *TEFunc) Position() Span { return t.Span }

// TEAssoc is `Inner.Name`, an associated-type projection written directly
// in surface syntax (as opposed to one synthesized during instantiation).
type TEAssoc struct {
	Inner TypeExpr
	Class Ident
	Name  Ident
	Span  Span
}

func (t *TEAssoc) typeExprNode()  {}
func (t *TEAssoc) Position() Span { return t.Span }
