package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vela-lang/vela/internal/ast"
)

// ModuleSpec is the on-disk YAML shape of a test fixture module: every
// type and expression field is the compact surface syntax ParseType/
// ParseExpr understand, kept as plain strings the way the teacher's
// BenchmarkSpec keeps its prompt text as plain strings loaded verbatim
// and interpreted later rather than as a deeply nested schema.
type ModuleSpec struct {
	Classes []ClassSpec  `yaml:"classes"`
	Aliases []AliasSpec  `yaml:"aliases"`
	Datas   []DataSpec   `yaml:"datas"`
	Members []MemberSpec `yaml:"members"`
	Defs    []DefSpec    `yaml:"defs"`
}

type AttributeSpec struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

type ClassFieldSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type ClassSpec struct {
	Name       string           `yaml:"name"`
	Attributes []AttributeSpec  `yaml:"attributes"`
	Supers     []string         `yaml:"supers"`
	AssocTypes []string         `yaml:"assoc_types"`
	Fields     []ClassFieldSpec `yaml:"fields"`
}

type AliasSpec struct {
	Name     string   `yaml:"name"`
	Generics []string `yaml:"generics"`
	Target   string   `yaml:"target"`
}

type DataVariantSpec struct {
	Name    string `yaml:"name"`
	Payload string `yaml:"payload"` // empty for a nullary variant
}

type DataSpec struct {
	Name     string            `yaml:"name"`
	Generics []string          `yaml:"generics"`
	Variants []DataVariantSpec `yaml:"variants"`
}

type MemberAssocSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type MemberFieldSpec struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type MemberSpec struct {
	Class    string            `yaml:"class"`
	Generics []string          `yaml:"generics"`
	Target   string            `yaml:"target"`
	Assocs   []MemberAssocSpec `yaml:"assocs"`
	Fields   []MemberFieldSpec `yaml:"fields"`
}

type DefSpec struct {
	Name     string   `yaml:"name"`
	Generics []string `yaml:"generics"`
	Hint     string   `yaml:"hint"` // empty means no declared hint
	Body     string   `yaml:"body"`
}

// Load reads a YAML fixture file and builds the corresponding ast.Module,
// parsing every surface-syntax string field along the way.
func Load(path string) (*ast.Module, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}
	var spec ModuleSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("fixture: parsing %s: %w", path, err)
	}
	return spec.Build(path)
}

// Build converts a parsed ModuleSpec into an ast.Module, using path as the
// originating file for every span.
func (spec *ModuleSpec) Build(path string) (*ast.Module, error) {
	mod := &ast.Module{}

	for _, c := range spec.Classes {
		decl, err := buildClass(c, path)
		if err != nil {
			return nil, err
		}
		mod.Classes = append(mod.Classes, decl)
	}
	for _, a := range spec.Aliases {
		target, err := ParseType(a.Target, path)
		if err != nil {
			return nil, fmt.Errorf("fixture: alias %q: %w", a.Name, err)
		}
		mod.Aliases = append(mod.Aliases, &ast.AliasDecl{
			Name: a.Name, Generics: parseGenerics(a.Generics, path), Target: target, Span: ast.Span{File: path},
		})
	}
	for _, d := range spec.Datas {
		decl, err := buildData(d, path)
		if err != nil {
			return nil, err
		}
		mod.Datas = append(mod.Datas, decl)
	}
	for _, m := range spec.Members {
		decl, err := buildMember(m, path)
		if err != nil {
			return nil, err
		}
		mod.Members = append(mod.Members, decl)
	}
	for _, d := range spec.Defs {
		decl, err := buildDef(d, path)
		if err != nil {
			return nil, err
		}
		mod.Defs = append(mod.Defs, decl)
	}
	return mod, nil
}

// parseGenerics turns a fixture's compact generics list (`"T"` or
// `"T:Eq,Ord"`) into ast.GenericParam values.
func parseGenerics(raw []string, path string) []ast.GenericParam {
	var out []ast.GenericParam
	for _, g := range raw {
		name := g
		var classes []string
		if idx := indexByte(g, ':'); idx >= 0 {
			name = g[:idx]
			classes = splitComma(g[idx+1:])
		}
		out = append(out, ast.GenericParam{Name: name, Classes: classes, Span: ast.Span{File: path}})
	}
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func buildClass(c ClassSpec, path string) (*ast.ClassDecl, error) {
	decl := &ast.ClassDecl{
		Name:       c.Name,
		Supers:     c.Supers,
		AssocTypes: c.AssocTypes,
		Span:       ast.Span{File: path},
	}
	for _, a := range c.Attributes {
		decl.Attributes = append(decl.Attributes, ast.Attribute{Name: a.Name, Args: a.Args, Span: decl.Span})
	}
	for _, f := range c.Fields {
		ty, err := ParseType(f.Type, path)
		if err != nil {
			return nil, fmt.Errorf("fixture: class %q field %q: %w", c.Name, f.Name, err)
		}
		decl.Fields = append(decl.Fields, ast.ClassField{Name: f.Name, Type: ty, Span: decl.Span})
	}
	return decl, nil
}

func buildData(d DataSpec, path string) (*ast.DataDecl, error) {
	decl := &ast.DataDecl{Name: d.Name, Generics: parseGenerics(d.Generics, path), Span: ast.Span{File: path}}
	for _, v := range d.Variants {
		variant := ast.DataVariant{Name: v.Name, Span: decl.Span}
		if v.Payload != "" {
			ty, err := ParseType(v.Payload, path)
			if err != nil {
				return nil, fmt.Errorf("fixture: data %q variant %q: %w", d.Name, v.Name, err)
			}
			variant.Payload = ty
		}
		decl.Variants = append(decl.Variants, variant)
	}
	return decl, nil
}

func buildMember(m MemberSpec, path string) (*ast.MemberDecl, error) {
	target, err := ParseType(m.Target, path)
	if err != nil {
		return nil, fmt.Errorf("fixture: member of %q: %w", m.Class, err)
	}
	decl := &ast.MemberDecl{
		ClassName: m.Class, Target: target, Generics: parseGenerics(m.Generics, path), Span: ast.Span{File: path},
	}
	for _, a := range m.Assocs {
		ty, err := ParseType(a.Type, path)
		if err != nil {
			return nil, fmt.Errorf("fixture: member of %q assoc %q: %w", m.Class, a.Name, err)
		}
		decl.Assocs = append(decl.Assocs, ast.MemberAssoc{Name: a.Name, Type: ty, Span: decl.Span})
	}
	for _, f := range m.Fields {
		body, err := ParseExpr(f.Value, path)
		if err != nil {
			return nil, fmt.Errorf("fixture: member of %q field %q: %w", m.Class, f.Name, err)
		}
		decl.Fields = append(decl.Fields, ast.MemberField{Name: f.Name, Value: body, Span: decl.Span})
	}
	return decl, nil
}

func buildDef(d DefSpec, path string) (*ast.DefDecl, error) {
	body, err := ParseExpr(d.Body, path)
	if err != nil {
		return nil, fmt.Errorf("fixture: def %q body: %w", d.Name, err)
	}
	decl := &ast.DefDecl{Name: d.Name, Body: body, Generics: parseGenerics(d.Generics, path), Span: ast.Span{File: path}}
	if d.Hint != "" {
		hint, err := ParseType(d.Hint, path)
		if err != nil {
			return nil, fmt.Errorf("fixture: def %q hint: %w", d.Name, err)
		}
		decl.Hint = hint
	}
	return decl, nil
}
