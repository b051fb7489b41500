package fixture

import (
	"fmt"

	"github.com/vela-lang/vela/internal/ast"
)

// parser walks a token stream produced by lex, building ast.TypeExpr or
// ast.Expr values. Every node gets file as its Span.File and 0 for
// line/col: fixtures don't need real source positions, only a stable
// origin string for diagnostics.
type parser struct {
	toks []token
	pos  int
	file string
}

func newParser(src, file string) (*parser, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks, file: file}, nil
}

func (p *parser) span() ast.Span { return ast.Span{File: p.file} }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expectPunct(s string) error {
	t := p.next()
	if t.kind != tokPunct || t.text != s {
		return fmt.Errorf("fixture: expected %q, got %q at %d", s, t.text, t.pos)
	}
	return nil
}

func (p *parser) atPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) atIdent(s string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == s
}

// ---- Type expressions ----

// ParseType parses a fixture type string into an ast.TypeExpr.
//
// Grammar (informal):
//
//	type    := union ARROW?                 // func of one argument if followed by ->
//	union   := atom ('|' atom)*
//	atom    := '[' type ']'                 // list
//	         | '(' typeList ')ARROW?        // tuple, or func if followed by ->
//	         | '{' fields '}'               // record
//	         | 'Self' ('.' NAME)*
//	         | NAME ('<' typeList '>')? ('.' NAME)*
//	ARROW   := '->' type
func ParseType(src, file string) (ast.TypeExpr, error) {
	p, err := newParser(src, file)
	if err != nil {
		return nil, err
	}
	te, err := p.parseUnionType()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("fixture: trailing input at %d", p.peek().pos)
	}
	return te, nil
}

func (p *parser) parseUnionType() (ast.TypeExpr, error) {
	first, err := p.parseAtomType()
	if err != nil {
		return nil, err
	}
	members := []ast.TypeExpr{first}
	for p.atPunct("|") {
		p.next()
		m, err := p.parseAtomType()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	te := first
	if len(members) > 1 {
		te = &ast.TEUnion{Members: members, Span: p.span()}
	}
	if p.atPunct("->") {
		p.next()
		out, err := p.parseUnionType()
		if err != nil {
			return nil, err
		}
		return &ast.TEFunc{In: []ast.TypeExpr{te}, Out: out, Span: p.span()}, nil
	}
	return te, nil
}

func (p *parser) parseAtomType() (ast.TypeExpr, error) {
	t := p.peek()
	switch {
	case t.kind == tokPunct && t.text == "[":
		p.next()
		elem, err := p.parseUnionType()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		return &ast.TEList{Elem: elem, Span: p.span()}, nil

	case t.kind == tokPunct && t.text == "(":
		p.next()
		var elems []ast.TypeExpr
		if !p.atPunct(")") {
			for {
				e, err := p.parseUnionType()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if p.atPunct(",") {
					p.next()
					continue
				}
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		if p.atPunct("->") {
			p.next()
			out, err := p.parseUnionType()
			if err != nil {
				return nil, err
			}
			return &ast.TEFunc{In: elems, Out: out, Span: p.span()}, nil
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return &ast.TETuple{Elements: elems, Span: p.span()}, nil

	case t.kind == tokPunct && t.text == "{":
		p.next()
		var fields []ast.TERecordField
		if !p.atPunct("}") {
			for {
				name := p.next()
				if name.kind != tokIdent {
					return nil, fmt.Errorf("fixture: expected field name at %d", name.pos)
				}
				if err := p.expectPunct(":"); err != nil {
					return nil, err
				}
				fty, err := p.parseUnionType()
				if err != nil {
					return nil, err
				}
				fields = append(fields, ast.TERecordField{Name: name.text, Type: fty})
				if p.atPunct(",") {
					p.next()
					continue
				}
				break
			}
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &ast.TERecord{Fields: fields, Span: p.span()}, nil

	case t.kind == tokIdent && t.text == "Self":
		p.next()
		te := ast.TypeExpr(&ast.TESelf{Span: p.span()})
		for p.atPunct(".") {
			p.next()
			field := p.next()
			if field.kind != tokIdent {
				return nil, fmt.Errorf("fixture: expected associated-type name at %d", field.pos)
			}
			te = &ast.TEAssoc{Inner: te, Name: field.text, Span: p.span()}
		}
		return te, nil

	case t.kind == tokIdent:
		p.next()
		name := t.text
		var args []ast.TypeExpr
		if p.atPunct("<") {
			p.next()
			for {
				a, err := p.parseUnionType()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.atPunct(",") {
					p.next()
					continue
				}
				break
			}
			if err := p.expectPunct(">"); err != nil {
				return nil, err
			}
		}
		te := ast.TypeExpr(&ast.TEName{Name: name, Args: args, Span: p.span()})
		for p.atPunct(".") {
			p.next()
			field := p.next()
			if field.kind != tokIdent {
				return nil, fmt.Errorf("fixture: expected associated-type name at %d", field.pos)
			}
			te = &ast.TEAssoc{Inner: te, Name: field.text, Span: p.span()}
		}
		return te, nil

	default:
		return nil, fmt.Errorf("fixture: unexpected token %q at %d", t.text, t.pos)
	}
}

// ---- Expressions ----

// ParseExpr parses a fixture expression string into an ast.Expr.
//
// Grammar (informal, lowest to highest precedence):
//
//	expr    := let | if | lambda | binary
//	let     := 'let' NAME '=' expr ';' expr
//	if      := 'if' expr 'then' expr 'else' expr
//	lambda  := '\' NAME+ '.' expr
//	binary  := unary (OP unary)*            // left-assoc, single precedence tier
//	unary   := ('-' | '!')? postfix
//	postfix := primary ('.' NAME | '(' args ')')*
//	primary := NAT | REAL | 'true' | 'false' | CHAR | NAME
//	         | '(' expr (',' expr)* ')'     // tuple, or grouping if one elem
//	         | '[' args ']'                 // list
//	         | '{' NAME ':' expr (',' ...) '}' // record
func ParseExpr(src, file string) (ast.Expr, error) {
	p, err := newParser(src, file)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("fixture: trailing input at %d", p.peek().pos)
	}
	return e, nil
}

func (p *parser) parseExpr() (ast.Expr, error) {
	switch {
	case p.atIdent("let"):
		p.next()
		name := p.next()
		if name.kind != tokIdent {
			return nil, fmt.Errorf("fixture: expected binding name at %d", name.pos)
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LetExpr{Name: name.text, Value: value, Body: body, Span: p.span()}, nil

	case p.atIdent("if"):
		p.next()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.atIdent("then") {
			return nil, fmt.Errorf("fixture: expected 'then' at %d", p.peek().pos)
		}
		p.next()
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.atIdent("else") {
			return nil, fmt.Errorf("fixture: expected 'else' at %d", p.peek().pos)
		}
		p.next()
		els, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Cond: cond, Then: then, Else: els, Span: p.span()}, nil

	case p.atPunct("\\"):
		p.next()
		var params []string
		for p.peek().kind == tokIdent {
			params = append(params, p.next().text)
		}
		if err := p.expectPunct("."); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Params: params, Body: body, Span: p.span()}, nil

	default:
		return p.parseBinary()
	}
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "++": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true, "^": true,
}

func (p *parser) parseBinary() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPunct && binaryOps[p.peek().text] {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: p.span()}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.atPunct("-") || p.atPunct("!") {
		op := p.next().text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand, Span: p.span()}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if p.atPunct(".") {
			p.next()
			field := p.next()
			if field.kind != tokIdent {
				return nil, fmt.Errorf("fixture: expected field name at %d", field.pos)
			}
			e = &ast.FieldAccess{Target: e, Field: field.text, Span: p.span()}
			continue
		}
		if p.atPunct("(") {
			p.next()
			var args []ast.Expr
			if !p.atPunct(")") {
				for {
					a, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if p.atPunct(",") {
						p.next()
						continue
					}
					break
				}
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			e = &ast.App{Fn: e, Args: args, Span: p.span()}
			continue
		}
		break
	}
	return e, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	t := p.peek()
	switch {
	case t.kind == tokNat:
		p.next()
		return &ast.NatLit{Raw: t.text, Span: p.span()}, nil

	case t.kind == tokReal:
		p.next()
		return &ast.RealLit{Raw: t.text, Span: p.span()}, nil

	case t.kind == tokChar:
		p.next()
		return &ast.CharLit{Value: []rune(t.text)[0], Span: p.span()}, nil

	case t.kind == tokIdent && t.text == "true":
		p.next()
		return &ast.BoolLit{Value: true, Span: p.span()}, nil

	case t.kind == tokIdent && t.text == "false":
		p.next()
		return &ast.BoolLit{Value: false, Span: p.span()}, nil

	case t.kind == tokIdent:
		p.next()
		return &ast.Var{Name: t.text, Span: p.span()}, nil

	case t.kind == tokPunct && t.text == "(":
		p.next()
		var elems []ast.Expr
		if !p.atPunct(")") {
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if p.atPunct(",") {
					p.next()
					continue
				}
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return &ast.TupleExpr{Elements: elems, Span: p.span()}, nil

	case t.kind == tokPunct && t.text == "[":
		p.next()
		var elems []ast.Expr
		if !p.atPunct("]") {
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if p.atPunct(",") {
					p.next()
					continue
				}
				break
			}
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		return &ast.ListExpr{Elements: elems, Span: p.span()}, nil

	case t.kind == tokPunct && t.text == "{":
		p.next()
		var fields []ast.RecordFieldValue
		if !p.atPunct("}") {
			for {
				name := p.next()
				if name.kind != tokIdent {
					return nil, fmt.Errorf("fixture: expected field name at %d", name.pos)
				}
				if err := p.expectPunct(":"); err != nil {
					return nil, err
				}
				v, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				fields = append(fields, ast.RecordFieldValue{Name: name.text, Value: v})
				if p.atPunct(",") {
					p.next()
					continue
				}
				break
			}
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &ast.RecordExpr{Fields: fields, Span: p.span()}, nil

	default:
		return nil, fmt.Errorf("fixture: unexpected token %q at %d", t.text, t.pos)
	}
}
