package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

func declClass(name string, attrs []ast.Attribute, generics []ast.GenericParam) *ast.ClassDecl {
	return &ast.ClassDecl{Name: name, Attributes: attrs, Generics: generics, Span: ast.Span{File: "test"}}
}

func TestDeclareLangItemViaAttribute(t *testing.T) {
	store := types.NewStore()
	table := NewTable()

	decl := declClass("Negation", []ast.Attribute{{Name: "lang", Args: []string{"neg"}}}, nil)
	errs := table.Declare(store, decl)
	require.Empty(t, errs)

	id, ok := table.Lang("neg")
	require.True(t, ok)
	assert.Equal(t, table.byName["Negation"], id)
}

func TestDeclareIgnoresUnrecognisedLangRole(t *testing.T) {
	store := types.NewStore()
	table := NewTable()

	decl := declClass("Weird", []ast.Attribute{{Name: "lang", Args: []string{"frobnicate"}}}, nil)
	errs := table.Declare(store, decl)
	require.Empty(t, errs)

	_, ok := table.Lang("frobnicate")
	assert.False(t, ok)
}

func TestDeclareRejectsGenericClass(t *testing.T) {
	store := types.NewStore()
	table := NewTable()

	decl := declClass("Show", nil, []ast.GenericParam{{Name: "T"}})
	errs := table.Declare(store, decl)
	require.Len(t, errs, 1)
	assert.Equal(t, errcode.Unsupported, errs[0].Kind)
}

func TestDeclareRejectsDuplicateClassName(t *testing.T) {
	store := types.NewStore()
	table := NewTable()

	require.Empty(t, table.Declare(store, declClass("Show", nil, nil)))
	errs := table.Declare(store, declClass("Show", nil, nil))
	require.Len(t, errs, 1)
	assert.Equal(t, errcode.DuplicateClassName, errs[0].Kind)
}

func TestMissingLangItemsReportsAllThree(t *testing.T) {
	store := types.NewStore()
	table := NewTable()
	_ = store

	errs := table.MissingLangItems(ast.Span{File: "test"})
	require.Len(t, errs, 3)
	kinds := map[string]bool{}
	for _, e := range errs {
		kinds[e.Message] = true
		assert.Equal(t, errcode.MissingLangItem, e.Kind)
	}
}

func TestMissingLangItemsNoneWhenAllDeclared(t *testing.T) {
	store := types.NewStore()
	table := NewTable()

	for _, role := range []string{"neg", "not", "union"} {
		decl := declClass(role+"Class", []ast.Attribute{{Name: "lang", Args: []string{role}}}, nil)
		require.Empty(t, table.Declare(store, decl))
	}
	errs := table.MissingLangItems(ast.Span{File: "test"})
	assert.Empty(t, errs)
}
