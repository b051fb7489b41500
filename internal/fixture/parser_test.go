package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/internal/ast"
)

func TestParseTypeAtoms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want func(t *testing.T, te ast.TypeExpr)
	}{
		{"prim name", "Nat", func(t *testing.T, te ast.TypeExpr) {
			n, ok := te.(*ast.TEName)
			require.True(t, ok)
			assert.Equal(t, "Nat", n.Name)
			assert.Empty(t, n.Args)
		}},
		{"list", "[Nat]", func(t *testing.T, te ast.TypeExpr) {
			l, ok := te.(*ast.TEList)
			require.True(t, ok)
			assert.Equal(t, "Nat", l.Elem.(*ast.TEName).Name)
		}},
		{"generic application", "List<Nat>", func(t *testing.T, te ast.TypeExpr) {
			n, ok := te.(*ast.TEName)
			require.True(t, ok)
			assert.Equal(t, "List", n.Name)
			require.Len(t, n.Args, 1)
		}},
		{"union", "Nat | Char", func(t *testing.T, te ast.TypeExpr) {
			u, ok := te.(*ast.TEUnion)
			require.True(t, ok)
			require.Len(t, u.Members, 2)
		}},
		{"func", "(Nat) -> Char", func(t *testing.T, te ast.TypeExpr) {
			f, ok := te.(*ast.TEFunc)
			require.True(t, ok)
			require.Len(t, f.In, 1)
		}},
		{"tuple", "(Nat, Char)", func(t *testing.T, te ast.TypeExpr) {
			tup, ok := te.(*ast.TETuple)
			require.True(t, ok)
			require.Len(t, tup.Elements, 2)
		}},
		{"parenthesized single is not a tuple", "(Nat)", func(t *testing.T, te ast.TypeExpr) {
			_, ok := te.(*ast.TEName)
			assert.True(t, ok)
		}},
		{"record", "{x: Nat, y: Char}", func(t *testing.T, te ast.TypeExpr) {
			r, ok := te.(*ast.TERecord)
			require.True(t, ok)
			require.Len(t, r.Fields, 2)
			assert.Equal(t, "x", r.Fields[0].Name)
		}},
		{"self", "Self", func(t *testing.T, te ast.TypeExpr) {
			_, ok := te.(*ast.TESelf)
			assert.True(t, ok)
		}},
		{"associated type projection", "Self.Item", func(t *testing.T, te ast.TypeExpr) {
			a, ok := te.(*ast.TEAssoc)
			require.True(t, ok)
			assert.Equal(t, "Item", a.Name)
			_, ok = a.Inner.(*ast.TESelf)
			assert.True(t, ok)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te, err := ParseType(tt.src, "test")
			require.NoError(t, err)
			tt.want(t, te)
		})
	}
}

func TestParseTypeRejectsTrailingInput(t *testing.T) {
	_, err := ParseType("Nat Nat", "test")
	assert.Error(t, err)
}

func TestParseExprForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want func(t *testing.T, e ast.Expr)
	}{
		{"lambda", `\x y. x`, func(t *testing.T, e ast.Expr) {
			l, ok := e.(*ast.Lambda)
			require.True(t, ok)
			assert.Equal(t, []string{"x", "y"}, l.Params)
		}},
		{"let", "let x = 1; x", func(t *testing.T, e ast.Expr) {
			l, ok := e.(*ast.LetExpr)
			require.True(t, ok)
			assert.Equal(t, "x", l.Name)
		}},
		{"if", "if true then 1 else 2", func(t *testing.T, e ast.Expr) {
			_, ok := e.(*ast.IfExpr)
			assert.True(t, ok)
		}},
		{"binary left assoc", "1 + 2 + 3", func(t *testing.T, e ast.Expr) {
			top, ok := e.(*ast.BinaryExpr)
			require.True(t, ok)
			assert.Equal(t, "+", top.Op)
			_, ok = top.Left.(*ast.BinaryExpr)
			assert.True(t, ok, "left-associative: outer left should itself be a BinaryExpr")
		}},
		{"unary", "-x", func(t *testing.T, e ast.Expr) {
			u, ok := e.(*ast.UnaryExpr)
			require.True(t, ok)
			assert.Equal(t, "-", u.Op)
		}},
		{"field access", "x.foo", func(t *testing.T, e ast.Expr) {
			f, ok := e.(*ast.FieldAccess)
			require.True(t, ok)
			assert.Equal(t, "foo", f.Field)
		}},
		{"call", "f(1, 2)", func(t *testing.T, e ast.Expr) {
			a, ok := e.(*ast.App)
			require.True(t, ok)
			require.Len(t, a.Args, 2)
		}},
		{"list literal", "[1, 2, 3]", func(t *testing.T, e ast.Expr) {
			l, ok := e.(*ast.ListExpr)
			require.True(t, ok)
			require.Len(t, l.Elements, 3)
		}},
		{"tuple literal", "(1, 2)", func(t *testing.T, e ast.Expr) {
			tup, ok := e.(*ast.TupleExpr)
			require.True(t, ok)
			require.Len(t, tup.Elements, 2)
		}},
		{"record literal", "{x: 1, y: 2}", func(t *testing.T, e ast.Expr) {
			r, ok := e.(*ast.RecordExpr)
			require.True(t, ok)
			require.Len(t, r.Fields, 2)
		}},
		{"bool literal", "true", func(t *testing.T, e ast.Expr) {
			b, ok := e.(*ast.BoolLit)
			require.True(t, ok)
			assert.True(t, b.Value)
		}},
		{"chained postfix", "x.foo(1).bar", func(t *testing.T, e ast.Expr) {
			f, ok := e.(*ast.FieldAccess)
			require.True(t, ok)
			assert.Equal(t, "bar", f.Field)
			_, ok = f.Target.(*ast.App)
			assert.True(t, ok)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseExpr(tt.src, "test")
			require.NoError(t, err)
			tt.want(t, e)
		})
	}
}

func TestParseExprRejectsUnterminatedCharLiteral(t *testing.T) {
	_, err := ParseExpr("'a", "test")
	assert.Error(t, err)
}
