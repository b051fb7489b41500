package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

func declareData(t *testing.T, store *types.Store, dt *Table, decl *ast.DataDecl) {
	t.Helper()
	require.Empty(t, dt.DeclareHead(store, decl))
	require.Empty(t, dt.DefineBody(store, decl, dt, nil))
}

func TestResolveFieldThroughSingleVariantRecord(t *testing.T) {
	store := types.NewStore()
	dt := NewTable()

	declareData(t, store, dt, &ast.DataDecl{
		Name:     "Box",
		Generics: []ast.GenericParam{{Name: "a", Span: sp()}},
		Variants: []ast.DataVariant{{
			Name: "MkBox",
			Payload: &ast.TERecord{Fields: []ast.TERecordField{
				{Name: "value", Type: &ast.TEName{Name: "a", Span: sp()}},
			}, Span: sp()},
			Span: sp(),
		}},
		Span: sp(),
	})

	boxId, _, ok := dt.LookupData("Box")
	require.True(t, ok)
	nat := store.Prim(sp(), types.Nat)
	boxNat := store.Insert(sp(), &types.TyData{Data: boxId, Args: []types.TyId{nat}})

	_, fieldTy, indirections, ok := types.ResolveField(store, VariantsView{Table: dt, Store: store}, boxNat, "value")
	require.True(t, ok)
	assert.Equal(t, 1, indirections)
	assert.Equal(t, "Nat", store.StringOf(fieldTy))
}

func TestResolveFieldWalksNestedDataIndirections(t *testing.T) {
	store := types.NewStore()
	dt := NewTable()

	declareData(t, store, dt, &ast.DataDecl{
		Name: "Inner",
		Variants: []ast.DataVariant{{
			Name: "MkInner",
			Payload: &ast.TERecord{Fields: []ast.TERecordField{
				{Name: "x", Type: &ast.TEName{Name: "Nat", Span: sp()}},
			}, Span: sp()},
			Span: sp(),
		}},
		Span: sp(),
	})
	declareData(t, store, dt, &ast.DataDecl{
		Name: "Outer",
		Variants: []ast.DataVariant{{
			Name:    "MkOuter",
			Payload: &ast.TEName{Name: "Inner", Span: sp()},
			Span:    sp(),
		}},
		Span: sp(),
	})

	outerId, _, ok := dt.LookupData("Outer")
	require.True(t, ok)
	outer := store.Insert(sp(), &types.TyData{Data: outerId})

	_, fieldTy, indirections, ok := types.ResolveField(store, VariantsView{Table: dt, Store: store}, outer, "x")
	require.True(t, ok)
	assert.Equal(t, 2, indirections)
	assert.Equal(t, "Nat", store.StringOf(fieldTy))
}

func TestResolveFieldBreaksDataRecursion(t *testing.T) {
	store := types.NewStore()
	dt := NewTable()

	declareData(t, store, dt, &ast.DataDecl{
		Name: "Loop",
		Variants: []ast.DataVariant{{
			Name:    "MkLoop",
			Payload: &ast.TEName{Name: "Loop", Span: sp()},
			Span:    sp(),
		}},
		Span: sp(),
	})

	loopId, _, ok := dt.LookupData("Loop")
	require.True(t, ok)
	loop := store.Insert(sp(), &types.TyData{Data: loopId})

	_, _, _, ok = types.ResolveField(store, VariantsView{Table: dt, Store: store}, loop, "missing")
	assert.False(t, ok, "a recursive data chain must terminate, not spin")
}

func TestResolveFieldRejectsMultiVariantData(t *testing.T) {
	store := types.NewStore()
	dt := NewTable()

	declareData(t, store, dt, &ast.DataDecl{
		Name: "Either",
		Variants: []ast.DataVariant{
			{Name: "L", Payload: &ast.TERecord{Fields: []ast.TERecordField{{Name: "x", Type: &ast.TEName{Name: "Nat", Span: sp()}}}, Span: sp()}, Span: sp()},
			{Name: "R", Span: sp()},
		},
		Span: sp(),
	})

	eitherId, _, ok := dt.LookupData("Either")
	require.True(t, ok)
	either := store.Insert(sp(), &types.TyData{Data: eitherId})

	_, _, _, ok = types.ResolveField(store, VariantsView{Table: dt, Store: store}, either, "x")
	assert.False(t, ok, "field access only projects through single-variant data")
}

func TestDataDuplicateVariantIsReported(t *testing.T) {
	store := types.NewStore()
	dt := NewTable()

	decl := &ast.DataDecl{
		Name: "Twice",
		Variants: []ast.DataVariant{
			{Name: "V", Span: sp()},
			{Name: "V", Span: sp()},
		},
		Span: sp(),
	}
	require.Empty(t, dt.DeclareHead(store, decl))
	errs := dt.DefineBody(store, decl, dt, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, errcode.DuplicateClassItem, errs[0].Kind)
}
