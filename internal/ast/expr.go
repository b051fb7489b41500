package ast

// Expr is the minimal expression surface the inference engine needs: enough
// to exercise flow unification, field/method resolution, binary operators,
// class resolution and numeric-literal typing. It deliberately does not
// include a general pattern-match expression; LetExpr supports only a bare
// variable pattern, and any richer pattern form upstream lowers to
// errcode.PatternNotSupported before reaching this engine.
type Expr interface {
	Node
	exprNode()
}

// Var references a bound name (a parameter, a let-binding, or a top-level
// def).
type Var struct {
	Name Ident
	Span Span
}

func (e *Var) exprNode()      {}
func (e *Var) Position() Span { return e.Span }

// NatLit is an unsuffixed integer literal; its type is deferred to the lazy
// numeric-literal queue (it may subtype Nat, Int, or Real).
type NatLit struct {
	Raw  string
	Span Span
}

func (e *NatLit) exprNode()      {}
func (e *NatLit) Position() Span { return e.Span }

// RealLit is a literal written with a decimal point or exponent; it may
// only subtype Real.
type RealLit struct {
	Raw  string
	Span Span
}

func (e *RealLit) exprNode()      {}
func (e *RealLit) Position() Span { return e.Span }

// BoolLit is `true`/`false`.
type BoolLit struct {
	Value bool
	Span  Span
}

func (e *BoolLit) exprNode()      {}
func (e *BoolLit) Position() Span { return e.Span }

// CharLit is a single-character literal.
type CharLit struct {
	Value rune
	Span  Span
}

func (e *CharLit) exprNode()      {}
func (e *CharLit) Position() Span { return e.Span }

// Lambda is `\params. body`.
type Lambda struct {
	Params []Ident
	Body   Expr
	Span   Span
}

func (e *Lambda) exprNode()      {}
func (e *Lambda) Position() Span { return e.Span }

// App is function application `fn(args...)`.
type App struct {
	Fn   Expr
	Args []Expr
	Span Span
}

func (e *App) exprNode()      {}
func (e *App) Position() Span { return e.Span }

// BinaryExpr is `left op right`, resolved against the static operator table.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Span  Span
}

func (e *BinaryExpr) exprNode()      {}
func (e *BinaryExpr) Position() Span { return e.Span }

// UnaryExpr is `op operand`, desugaring to a lang-item method call
// (`not`/`neg`).
type UnaryExpr struct {
	Op      string
	Operand Expr
	Span    Span
}

func (e *UnaryExpr) exprNode()      {}
func (e *UnaryExpr) Position() Span { return e.Span }

// FieldAccess is `target.field`. It doubles as a method/associated-item
// projection: when Target's type is a record, this resolves structurally;
// otherwise it resolves against class field/associated-type tables.
type FieldAccess struct {
	Target Expr
	Field  Ident
	Span   Span
}

func (e *FieldAccess) exprNode()      {}
func (e *FieldAccess) Position() Span { return e.Span }

// TupleExpr is `(e1, e2, ...)`.
type TupleExpr struct {
	Elements []Expr
	Span     Span
}

func (e *TupleExpr) exprNode()      {}
func (e *TupleExpr) Position() Span { return e.Span }

// ListExpr is `[e1, e2, ...]`.
type ListExpr struct {
	Elements []Expr
	Span     Span
}

func (e *ListExpr) exprNode()      {}
func (e *ListExpr) Position() Span { return e.Span }

// RecordFieldValue is one field of a record literal.
type RecordFieldValue struct {
	Name  Ident
	Value Expr
}

// RecordExpr is `{ name: value, ... }`.
type RecordExpr struct {
	Fields []RecordFieldValue
	Span   Span
}

func (e *RecordExpr) exprNode()      {}
func (e *RecordExpr) Position() Span { return e.Span }

// LetExpr is `let name = value; body`. Only a bare variable pattern is
// supported; any other pattern form is an upstream concern.
type LetExpr struct {
	Name  Ident
	Value Expr
	Body  Expr
	Span  Span
}

func (e *LetExpr) exprNode()      {}
func (e *LetExpr) Position() Span { return e.Span }

// IfExpr is `if cond then t else f`.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Span Span
}

func (e *IfExpr) exprNode()      {}
func (e *IfExpr) Position() Span { return e.Span }
