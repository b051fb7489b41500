package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/internal/errcode"
	"github.com/vela-lang/vela/internal/types"
)

func TestBinaryOperatorTable(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		lhs, rhs types.PrimKind
		want     types.PrimKind
		invalid  bool
	}{
		{"nat addition", "+", types.Nat, types.Nat, types.Nat, false},
		{"nat subtraction yields int", "-", types.Nat, types.Nat, types.Int, false},
		{"int subtraction", "-", types.Int, types.Int, types.Int, false},
		{"nat division yields real", "/", types.Nat, types.Nat, types.Real, false},
		{"int division yields real", "/", types.Int, types.Int, types.Real, false},
		{"modulo is nat only", "%", types.Nat, types.Nat, types.Nat, false},
		{"modulo rejects int", "%", types.Int, types.Int, 0, true},
		{"char equality", "==", types.Char, types.Char, types.Bool, false},
		{"real equality is absent", "==", types.Real, types.Real, 0, true},
		{"int comparison", "<", types.Int, types.Int, types.Bool, false},
		{"bool conjunction", "&&", types.Bool, types.Bool, types.Bool, false},
		{"bool xor", "^", types.Bool, types.Bool, types.Bool, false},
		{"mixed nat int is invalid", "+", types.Nat, types.Int, 0, true},
		{"mixed nat real comparison is invalid", "<", types.Nat, types.Real, 0, true},
		{"logic on chars is invalid", "&&", types.Char, types.Char, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			result := e.Fresh(sp())
			c := BinaryC{Op: tt.op, Left: e.prim(tt.lhs), Right: e.prim(tt.rhs), Result: result, Span: sp()}

			resolved, err := c.try(e)
			require.True(t, resolved)
			if tt.invalid {
				require.NotNil(t, err)
				assert.Equal(t, errcode.InvalidBinaryOp, err.Kind)
				return
			}
			require.Nil(t, err)
			info, ok := e.Info(result).(IPrim)
			require.True(t, ok)
			assert.Equal(t, tt.want, info.Kind)
		})
	}
}

func TestBinaryDefersWhileOperandUnknown(t *testing.T) {
	e := newTestEngine()
	c := BinaryC{Op: "+", Left: e.Fresh(sp()), Right: e.prim(types.Nat), Result: e.Fresh(sp()), Span: sp()}
	resolved, err := c.try(e)
	assert.False(t, resolved)
	assert.Nil(t, err)
}

func TestBinaryJoinProducesListOfCommonElement(t *testing.T) {
	e := newTestEngine()
	left := e.Fresh(sp())
	e.Bind(left, IList{Elem: e.prim(types.Nat)})
	right := e.Fresh(sp())
	rightElem := e.Fresh(sp())
	e.Bind(right, IList{Elem: rightElem})
	result := e.Fresh(sp())

	c := BinaryC{Op: "++", Left: left, Right: right, Result: result, Span: sp()}
	resolved, err := c.try(e)
	require.True(t, resolved)
	require.Nil(t, err)

	list, ok := e.Info(result).(IList)
	require.True(t, ok)
	elem, ok := e.Info(list.Elem).(IPrim)
	require.True(t, ok)
	assert.Equal(t, types.Nat, elem.Kind)

	// The right list's element was unknown; join unifies it too.
	re, ok := e.Info(rightElem).(IPrim)
	require.True(t, ok)
	assert.Equal(t, types.Nat, re.Kind)
}

func TestBinaryJoinRequiresLists(t *testing.T) {
	e := newTestEngine()
	left := e.Fresh(sp())
	e.Bind(left, IList{Elem: e.prim(types.Nat)})

	c := BinaryC{Op: "++", Left: left, Right: e.prim(types.Nat), Result: e.Fresh(sp()), Span: sp()}
	resolved, err := c.try(e)
	require.True(t, resolved)
	require.NotNil(t, err)
	assert.Equal(t, errcode.InvalidBinaryOp, err.Kind)
}

func TestBinaryErrorOperandStaysSilent(t *testing.T) {
	e := newTestEngine()
	bad := e.Fresh(sp())
	e.Bind(bad, IError{Reason: "upstream"})
	result := e.Fresh(sp())

	c := BinaryC{Op: "+", Left: bad, Right: e.prim(types.Nat), Result: result, Span: sp()}
	resolved, err := c.try(e)
	require.True(t, resolved)
	assert.Nil(t, err)
	_, ok := e.Info(result).(IError)
	assert.True(t, ok, "an errored operand must taint the result rather than diagnose again")
}
