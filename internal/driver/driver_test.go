package driver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/fixture"
)

// assertTypeString compares a def's rendered inferred type against want,
// reporting a readable diff on mismatch rather than testify's one-liner —
// grounded in the teacher's own `goldenCompare` (internal/parser/testutil.go),
// which uses cmp.Diff for the same "rendered string vs. expected string"
// shape rather than a golden-file round-trip (no golden corpus exists here).
func assertTypeString(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("inferred type mismatch (-want +got):\n%s", diff)
	}
}

func mustType(t *testing.T, src string) ast.TypeExpr {
	t.Helper()
	te, err := fixture.ParseType(src, "test")
	require.NoError(t, err)
	return te
}

func mustExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := fixture.ParseExpr(src, "test")
	require.NoError(t, err)
	return e
}

func span() ast.Span { return ast.Span{File: "test"} }

// Scenario 1 (spec.md §8): a module with no lang classes at all reports
// exactly the three missing lang items, and nothing else blows up.
func TestBoundaryMissingLangItems(t *testing.T) {
	mod := &ast.Module{}
	_, errs := Driver{}.Run(mod)

	count := 0
	for _, e := range errs {
		if e.Kind == errcode.MissingLangItem {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func langClasses() []*ast.ClassDecl {
	return []*ast.ClassDecl{
		{Name: "Neg", Attributes: []ast.Attribute{{Name: "lang", Args: []string{"neg"}}}, Span: span()},
		{Name: "Not", Attributes: []ast.Attribute{{Name: "lang", Args: []string{"not"}}}, Span: span()},
		{Name: "Union", Attributes: []ast.Attribute{{Name: "lang", Args: []string{"union"}}}, Span: span()},
	}
}

// Scenario 2 (spec.md §8): a class with two members that both cover the
// same concrete type is a coherence violation; removing the overlapping
// member (leaving only the blanket one) resolves cleanly.
func TestBoundaryMemberCoherence(t *testing.T) {
	showClass := &ast.ClassDecl{
		Name:   "Show",
		Fields: []ast.ClassField{{Name: "show", Type: mustType(t, "Self -> Nat"), Span: span()}},
		Span:   span(),
	}

	natList := &ast.MemberDecl{
		ClassName: "Show",
		Target:    mustType(t, "[Nat]"),
		Fields:    []ast.MemberField{{Name: "show", Value: mustExpr(t, "\\s. 0"), Span: span()}},
		Span:      span(),
	}
	blanketList := &ast.MemberDecl{
		ClassName: "Show",
		Generics:  []ast.GenericParam{{Name: "a"}},
		Target:    mustType(t, "[a]"),
		Fields:    []ast.MemberField{{Name: "show", Value: mustExpr(t, "\\s. 0"), Span: span()}},
		Span:      span(),
	}

	mod := &ast.Module{
		Classes: append(langClasses(), showClass),
		Members: []*ast.MemberDecl{natList, blanketList},
	}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.CoherenceViolation))

	modFixed := &ast.Module{
		Classes: append(langClasses(), showClass),
		Members: []*ast.MemberDecl{blanketList},
	}
	_, errs2 := Driver{}.Run(modFixed)
	assert.False(t, errs2.HasKind(errcode.CoherenceViolation))
}

// Scenario 3 (spec.md §8): a def declared `Nat -> (Nat | Char)` whose body
// is the identity lambda is accepted — flow widens Nat into the union.
func TestBoundaryFlowWidensIntoUnion(t *testing.T) {
	def := &ast.DefDecl{
		Name: "f",
		Hint: mustType(t, "(Nat) -> (Nat | Char)"),
		Body: mustExpr(t, `\x. x`),
		Span: span(),
	}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.Empty(t, errs)
}

// Scenario 4 (spec.md §8): a def declared `(Nat | Char) -> Nat` whose body
// is the identity lambda is rejected — flow does not narrow a union down
// to one of its members.
func TestBoundaryFlowRejectsUnionNarrowing(t *testing.T) {
	def := &ast.DefDecl{
		Name: "g",
		Hint: mustType(t, "(Nat | Char) -> Nat"),
		Body: mustExpr(t, `\x. x`),
		Span: span(),
	}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.CannotCoerce))
}

// Scenario 5 (spec.md §8): two classes both declare a `foo` field and both
// have a member covering Nat; projecting `1.foo` is ambiguous.
func TestBoundaryAmbiguousClassItem(t *testing.T) {
	classA := &ast.ClassDecl{
		Name:   "A",
		Fields: []ast.ClassField{{Name: "foo", Type: mustType(t, "Self -> Nat"), Span: span()}},
		Span:   span(),
	}
	classB := &ast.ClassDecl{
		Name:   "B",
		Fields: []ast.ClassField{{Name: "foo", Type: mustType(t, "Self -> Nat"), Span: span()}},
		Span:   span(),
	}
	memberA := &ast.MemberDecl{
		ClassName: "A",
		Target:    mustType(t, "Nat"),
		Fields:    []ast.MemberField{{Name: "foo", Value: mustExpr(t, "\\s. 0"), Span: span()}},
		Span:      span(),
	}
	memberB := &ast.MemberDecl{
		ClassName: "B",
		Target:    mustType(t, "Nat"),
		Fields:    []ast.MemberField{{Name: "foo", Value: mustExpr(t, "\\s. 0"), Span: span()}},
		Span:      span(),
	}
	def := &ast.DefDecl{Name: "h", Body: mustExpr(t, "1.foo"), Span: span()}

	mod := &ast.Module{
		Classes: append(langClasses(), classA, classB),
		Members: []*ast.MemberDecl{memberA, memberB},
		Defs:    []*ast.DefDecl{def},
	}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.AmbiguousClassItem))
}

// Scenario 6 (spec.md §8): a class with an associated type and a field
// typed `Self -> Self.Item` resolves the projection through a member's
// concrete binding, reifying to the bound type rather than an opaque
// associated-type node.
func TestBoundaryAssociatedTypeProjection(t *testing.T) {
	iterClass := &ast.ClassDecl{
		Name:       "Iter",
		AssocTypes: []ast.Ident{"Item"},
		Fields:     []ast.ClassField{{Name: "head", Type: mustType(t, "Self -> Self.Item"), Span: span()}},
		Span:       span(),
	}
	member := &ast.MemberDecl{
		ClassName: "Iter",
		Target:    mustType(t, "[Nat]"),
		Assocs:    []ast.MemberAssoc{{Name: "Item", Type: mustType(t, "Nat"), Span: span()}},
		Fields:    []ast.MemberField{{Name: "head", Value: mustExpr(t, "\\lst. 0"), Span: span()}},
		Span:      span(),
	}
	def := &ast.DefDecl{
		Name: "test",
		Hint: mustType(t, "([Nat]) -> Nat"),
		Body: mustExpr(t, `\xs. xs.head(xs)`),
		Span: span(),
	}

	mod := &ast.Module{
		Classes: append(langClasses(), iterClass),
		Members: []*ast.MemberDecl{member},
		Defs:    []*ast.DefDecl{def},
	}
	ctx, errs := Driver{}.Run(mod)
	require.Empty(t, errs)
	assertTypeString(t, "[Nat] -> Nat", ctx.Store.StringOf(ctx.DefTypes["test"]))
}
