package types

// TyId identifies an interned type inside a Store. Identity is the id;
// equality is structural (see IsEq).
type TyId int

// ClassId identifies a declared class. Owned by internal/classes; types
// only needs the bare integer to embed inside TyAssoc/generic obligations
// without importing internal/classes (which itself depends on types).
type ClassId int

// DataId identifies a declared data type head, in scope from the moment the
// head is declared (before its body is resolved), so that recursive and
// forward references type-check.
type DataId int

// GenScopeId identifies a generic scope owned by a Store.
type GenScopeId int
