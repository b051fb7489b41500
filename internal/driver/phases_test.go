package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
)

func TestDuplicateDefKeepsFirstDeclaration(t *testing.T) {
	first := &ast.DefDecl{Name: "x", Hint: mustType(t, "Nat"), Body: mustExpr(t, "1"), Span: span()}
	second := &ast.DefDecl{Name: "x", Hint: mustType(t, "Char"), Body: mustExpr(t, "'c'"), Span: span()}

	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{first, second}}
	ctx, errs := Driver{}.Run(mod)

	assert.True(t, errs.HasKind(errcode.DuplicateClassName))
	assertTypeString(t, "Nat", ctx.Store.StringOf(ctx.DefTypes["x"]))
}

func TestDuplicateGenericNameIsReported(t *testing.T) {
	def := &ast.DefDecl{
		Name: "f",
		Generics: []ast.GenericParam{
			{Name: "a", Span: span()},
			{Name: "a", Span: span()},
		},
		Body: mustExpr(t, "1"),
		Span: span(),
	}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.DuplicateGenName))
}

func TestFieldAccessThroughSingleVariantData(t *testing.T) {
	point := &ast.DataDecl{
		Name: "Point",
		Variants: []ast.DataVariant{{
			Name:    "MkPoint",
			Payload: mustType(t, "{x: Nat, y: Nat}"),
			Span:    span(),
		}},
		Span: span(),
	}
	def := &ast.DefDecl{
		Name: "getX",
		Hint: mustType(t, "(Point) -> Nat"),
		Body: mustExpr(t, `\p. p.x`),
		Span: span(),
	}

	mod := &ast.Module{Classes: langClasses(), Datas: []*ast.DataDecl{point}, Defs: []*ast.DefDecl{def}}
	ctx, errs := Driver{}.Run(mod)
	require.Empty(t, errs)
	assertTypeString(t, "Data#0 -> Nat", ctx.Store.StringOf(ctx.DefTypes["getX"]))

	// A structural projection never records a class-dispatch witness.
	assert.Empty(t, ctx.MethodDispatch["getX"])
}

func TestBinaryOperatorResults(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nat addition", "1 + 2", "Nat"},
		{"nat subtraction yields int", "1 - 2", "Int"},
		{"division yields real", "1 / 2", "Real"},
		{"comparison yields bool", "1 < 2", "Bool"},
		{"join yields list", "[1] ++ [2]", "[Nat]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &ast.DefDecl{Name: "d", Body: mustExpr(t, tt.body), Span: span()}
			mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
			ctx, errs := Driver{}.Run(mod)
			require.Empty(t, errs)
			assertTypeString(t, tt.want, ctx.Store.StringOf(ctx.DefTypes["d"]))
		})
	}
}

func TestMixedPrimBinaryIsInvalid(t *testing.T) {
	// (1 - 2) is Int; adding a Nat-defaulted literal to it has no table
	// entry.
	def := &ast.DefDecl{Name: "d", Body: mustExpr(t, "(1 - 2) + 3"), Span: span()}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.InvalidBinaryOp))
}

func TestBodyMustMatchDeclaredResult(t *testing.T) {
	def := &ast.DefDecl{
		Name: "d",
		Hint: mustType(t, "(Nat) -> Nat"),
		Body: mustExpr(t, `\x. x / x`),
		Span: span(),
	}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.CannotCoerce), "division yields Real, not the declared Nat")
}

func TestUnaryOperatorRequiresLangMember(t *testing.T) {
	def := &ast.DefDecl{Name: "n", Body: mustExpr(t, "-1"), Span: span()}

	// No member of the neg lang class covers Nat.
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.TypeDoesNotFulfil))

	// Registering one resolves the obligation.
	negNat := &ast.MemberDecl{ClassName: "Neg", Target: mustType(t, "Nat"), Span: span()}
	mod2 := &ast.Module{Classes: langClasses(), Members: []*ast.MemberDecl{negNat}, Defs: []*ast.DefDecl{def}}
	ctx, errs2 := Driver{}.Run(mod2)
	require.Empty(t, errs2)
	assertTypeString(t, "Nat", ctx.Store.StringOf(ctx.DefTypes["n"]))
}

func TestGenericReceiverResolvesMethodThroughObligation(t *testing.T) {
	showClass := &ast.ClassDecl{
		Name:   "Show",
		Fields: []ast.ClassField{{Name: "show", Type: mustType(t, "Self -> Nat"), Span: span()}},
		Span:   span(),
	}
	def := &ast.DefDecl{
		Name:     "render",
		Generics: []ast.GenericParam{{Name: "a", Classes: []string{"Show"}, Span: span()}},
		Hint:     mustType(t, "(a) -> Nat"),
		Body:     mustExpr(t, `\x. x.show(x)`),
		Span:     span(),
	}

	mod := &ast.Module{Classes: append(langClasses(), showClass), Defs: []*ast.DefDecl{def}}
	ctx, errs := Driver{}.Run(mod)
	require.Empty(t, errs)
	assertTypeString(t, "Gen(0,4) -> Nat", ctx.Store.StringOf(ctx.DefTypes["render"]))

	// The projection resolved via class dispatch, so a witness is recorded.
	require.Len(t, ctx.MethodDispatch["render"], 1)
	showId, ok := ctx.Classes.LookupClass("Show")
	require.True(t, ok)
	assert.Equal(t, showId, ctx.MethodDispatch["render"][0].Class)
}

func TestGenericWithoutObligationCannotProject(t *testing.T) {
	showClass := &ast.ClassDecl{
		Name:   "Show",
		Fields: []ast.ClassField{{Name: "show", Type: mustType(t, "Self -> Nat"), Span: span()}},
		Span:   span(),
	}
	def := &ast.DefDecl{
		Name:     "render",
		Generics: []ast.GenericParam{{Name: "a", Span: span()}},
		Hint:     mustType(t, "(a) -> Nat"),
		Body:     mustExpr(t, `\x. x.show(x)`),
		Span:     span(),
	}

	mod := &ast.Module{Classes: append(langClasses(), showClass), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.NoSuchItem))
}

func TestDefMayReferenceAnotherHintedDef(t *testing.T) {
	inc := &ast.DefDecl{
		Name: "inc",
		Hint: mustType(t, "(Nat) -> Nat"),
		Body: mustExpr(t, `\x. x + 1`),
		Span: span(),
	}
	use := &ast.DefDecl{Name: "two", Body: mustExpr(t, "inc(1)"), Span: span()}

	// Declaration order must not matter: the referencing def comes first.
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{use, inc}}
	ctx, errs := Driver{}.Run(mod)
	require.Empty(t, errs)
	assertTypeString(t, "Nat", ctx.Store.StringOf(ctx.DefTypes["two"]))
}

func TestMemberMustFulfilSuperObligations(t *testing.T) {
	eqClass := &ast.ClassDecl{Name: "Eq", Span: span()}
	ordClass := &ast.ClassDecl{Name: "Ord", Supers: []string{"Eq"}, Span: span()}

	ordNat := &ast.MemberDecl{ClassName: "Ord", Target: mustType(t, "Nat"), Span: span()}

	// Ord Nat without Eq Nat violates the super obligation.
	mod := &ast.Module{
		Classes: append(langClasses(), eqClass, ordClass),
		Members: []*ast.MemberDecl{ordNat},
	}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.TypeDoesNotFulfil))

	// Adding Eq Nat satisfies it.
	eqNat := &ast.MemberDecl{ClassName: "Eq", Target: mustType(t, "Nat"), Span: span()}
	mod2 := &ast.Module{
		Classes: append(langClasses(), eqClass, ordClass),
		Members: []*ast.MemberDecl{ordNat, eqNat},
	}
	_, errs2 := Driver{}.Run(mod2)
	assert.Empty(t, errs2)
}

func TestMemberMissingClassItems(t *testing.T) {
	iterClass := &ast.ClassDecl{
		Name:       "Iter",
		AssocTypes: []ast.Ident{"Item"},
		Fields:     []ast.ClassField{{Name: "head", Type: mustType(t, "Self -> Self.Item"), Span: span()}},
		Span:       span(),
	}
	bare := &ast.MemberDecl{ClassName: "Iter", Target: mustType(t, "[Nat]"), Span: span()}

	mod := &ast.Module{Classes: append(langClasses(), iterClass), Members: []*ast.MemberDecl{bare}}
	_, errs := Driver{}.Run(mod)

	count := 0
	for _, e := range errs {
		if e.Kind == errcode.MissingClassItem {
			count++
		}
	}
	assert.Equal(t, 2, count, "one missing associated type, one missing field")
}

func TestAliasUsableInDefHint(t *testing.T) {
	alias := &ast.AliasDecl{
		Name:     "Pair",
		Generics: []ast.GenericParam{{Name: "a", Span: span()}},
		Target:   mustType(t, "(a, a)"),
		Span:     span(),
	}
	def := &ast.DefDecl{
		Name: "origin",
		Hint: mustType(t, "Pair<Nat>"),
		Body: mustExpr(t, "(1, 2)"),
		Span: span(),
	}

	mod := &ast.Module{Classes: langClasses(), Aliases: []*ast.AliasDecl{alias}, Defs: []*ast.DefDecl{def}}
	ctx, errs := Driver{}.Run(mod)
	require.Empty(t, errs)
	assertTypeString(t, "(Nat, Nat)", ctx.Store.StringOf(ctx.DefTypes["origin"]))
}

func TestLetAndIfInference(t *testing.T) {
	def := &ast.DefDecl{
		Name: "pick",
		Body: mustExpr(t, "let n = 1; if true then n else n + 1"),
		Span: span(),
	}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	ctx, errs := Driver{}.Run(mod)
	require.Empty(t, errs)
	assertTypeString(t, "Nat", ctx.Store.StringOf(ctx.DefTypes["pick"]))
}

func TestIfConditionMustBeBool(t *testing.T) {
	def := &ast.DefDecl{
		Name: "bad",
		Body: mustExpr(t, "if 'c' then 1 else 2"),
		Span: span(),
	}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.CannotCoerce))
}

func TestUnboundVariableIsNoSuchItem(t *testing.T) {
	def := &ast.DefDecl{Name: "bad", Body: mustExpr(t, "ghost"), Span: span()}
	mod := &ast.Module{Classes: langClasses(), Defs: []*ast.DefDecl{def}}
	_, errs := Driver{}.Run(mod)
	assert.True(t, errs.HasKind(errcode.NoSuchItem))
}
