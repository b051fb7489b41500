package types

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/errcode"
)

// GenParam is one parameter of a generic scope. RawClasses holds the class
// names as written in source; Obligations holds them resolved to ClassIds
// once CheckGenScopes has run. Resolved distinguishes "no obligations" from
// "not checked yet" so the fatal invariant in spec.md §3 can be enforced.
type GenParam struct {
	Name        string
	RawClasses  []string
	Obligations []ClassId
	Resolved    bool
	Span        ast.Span
}

// GenScope is an ordered list of generic parameters.
type GenScope struct {
	Params []GenParam
}

// InsertGenScope registers a new generic scope from the parser's
// declarations and returns its id. Obligations remain unresolved until
// CheckGenScopes runs.
func (s *Store) InsertGenScope(params []ast.GenericParam) GenScopeId {
	gp := make([]GenParam, len(params))
	for i, p := range params {
		gp[i] = GenParam{Name: p.Name, RawClasses: p.Classes, Span: p.Span}
	}
	s.scopes = append(s.scopes, &GenScope{Params: gp})
	return GenScopeId(len(s.scopes) - 1)
}

// GetGenScope returns the scope for id. The returned pointer is shared with
// the store so CheckGenScopes can mutate it in place.
func (s *Store) GetGenScope(id GenScopeId) *GenScope {
	return s.scopes[id]
}

// CheckGenScopes resolves every generic parameter's raw class-obligation
// names to concrete ClassIds via lookup, recording errcode.NoSuchClass for
// any name lookup fails to resolve. After this runs, every parameter across
// every scope has Resolved == true, satisfying the invariant that
// Obligations is always populated from this point on (spec.md §3, §4.1).
func (s *Store) CheckGenScopes(lookup func(name string) (ClassId, bool)) errcode.List {
	var errs errcode.List
	for _, scope := range s.scopes {
		names := make(map[string]bool, len(scope.Params))
		for i := range scope.Params {
			p := &scope.Params[i]
			if names[p.Name] {
				errs = append(errs, errcode.New(errcode.DuplicateGenName, p.Span,
					"generic parameter %q declared twice in the same scope", p.Name))
			}
			names[p.Name] = true
			p.Obligations = p.Obligations[:0]
			for _, name := range p.RawClasses {
				id, ok := lookup(name)
				if !ok {
					errs = append(errs, errcode.New(errcode.NoSuchClass, p.Span,
						"no such class %q required by generic parameter %q", name, p.Name))
					continue
				}
				p.Obligations = append(p.Obligations, id)
			}
			p.Resolved = true
		}
	}
	return errs
}

// MustObligations returns a parameter's resolved obligations, panicking if
// CheckGenScopes has not yet run for it: this is the programmer-error
// invariant breach described in spec.md §5/§7.
func (p *GenParam) MustObligations() []ClassId {
	if !p.Resolved {
		panic("types: generic parameter obligations accessed before CheckGenScopes")
	}
	return p.Obligations
}
