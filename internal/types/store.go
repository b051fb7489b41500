package types

import (
	"fmt"
	"strings"

	"github.com/vela-lang/vela/internal/ast"
)

type entry struct {
	ty   Ty
	span ast.Span
}

// Store interns types in insertion order. Identity is the TyId; equality is
// structural via IsEq. Deduplication on insert is not required — the
// reifier performs semantic deduplication for unions at the end of
// analysis (spec.md §3's union invariant).
type Store struct {
	entries []entry
	scopes  []*GenScope
}

// NewStore creates an empty type store.
func NewStore() *Store {
	return &Store{}
}

// Insert interns a type at the given origin span and returns its id.
func (s *Store) Insert(span ast.Span, ty Ty) TyId {
	s.entries = append(s.entries, entry{ty: ty, span: span})
	return TyId(len(s.entries) - 1)
}

// Get returns the interned type for id.
func (s *Store) Get(id TyId) Ty {
	return s.entries[id].ty
}

// Span returns the origin span recorded when id was interned.
func (s *Store) Span(id TyId) ast.Span {
	return s.entries[id].span
}

// Prim is a convenience for interning a primitive at a span.
func (s *Store) Prim(span ast.Span, k PrimKind) TyId {
	return s.Insert(span, &TyPrim{Kind: k})
}

// StringOf renders a type by fully following nested TyIds, for
// diagnostics. Unlike Ty.String (which only has the immediate node), this
// walks the whole structure.
func (s *Store) StringOf(id TyId) string {
	return s.stringOf(id, make(map[TyId]bool))
}

func (s *Store) stringOf(id TyId, seen map[TyId]bool) string {
	if seen[id] {
		return "…"
	}
	seen[id] = true
	defer delete(seen, id)
	switch t := s.Get(id).(type) {
	case *TyError:
		return t.String()
	case *TyPrim:
		return t.String()
	case *TySelf:
		return "Self"
	case *TyList:
		return "[" + s.stringOf(t.Elem, seen) + "]"
	case *TyTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = s.stringOf(e, seen)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *TyUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = s.stringOf(m, seen)
		}
		return strings.Join(parts, " | ")
	case *TyRecord:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, s.stringOf(f.Ty, seen))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *TyFunc:
		return s.stringOf(t.In, seen) + " -> " + s.stringOf(t.Out, seen)
	case *TyData:
		if len(t.Args) == 0 {
			return fmt.Sprintf("Data#%d", t.Data)
		}
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = s.stringOf(a, seen)
		}
		return fmt.Sprintf("Data#%d<%s>", t.Data, strings.Join(parts, ", "))
	case *TyGen:
		return t.String()
	case *TyAssoc:
		return fmt.Sprintf("%s.%s", s.stringOf(t.Inner, seen), t.Name)
	default:
		return "?"
	}
}
