// Package fixture loads test modules from YAML: a compact textual surface
// syntax for types and expressions (tokenized and recursive-descent parsed
// right here, since the real parser lives upstream of this engine) lets a
// test fixture read like `def add = \x y. x + y` instead of a deeply
// nested Go struct literal.
package fixture

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 byte order mark some editors prepend to source files.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// normalizeSrc strips a leading BOM and applies Unicode NFC normalization so
// that visually identical fixture source (e.g. an identifier written as a
// precomposed vs. combining-accent sequence) lexes to the same token stream
// regardless of how the YAML file happened to be encoded.
func normalizeSrc(src string) string {
	b := bytes.TrimPrefix([]byte(src), bomUTF8)
	if !norm.NFC.IsNormal(b) {
		b = norm.NFC.Bytes(b)
	}
	return string(b)
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNat
	tokReal
	tokChar
	tokString
	tokPunct
)

type token struct {
	kind tokKind
	text string
	pos  int
}

// lexer tokenizes a fixture surface-syntax string (a type or an
// expression). It has no notion of keywords; the parser interprets
// identifiers like `true`/`if`/`let` contextually.
type lexer struct {
	src  string
	pos  int
	toks []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: normalizeSrc(src)}
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, token{kind: tokEOF, pos: l.pos})
			return l.toks, nil
		}
		start := l.pos
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		switch {
		case unicode.IsLetter(r) || r == '_':
			l.pos += size
			for l.pos < len(l.src) {
				r, size = utf8.DecodeRuneInString(l.src[l.pos:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				l.pos += size
			}
			l.toks = append(l.toks, token{kind: tokIdent, text: l.src[start:l.pos], pos: start})

		case unicode.IsDigit(r):
			isReal := false
			l.pos += size
			for l.pos < len(l.src) {
				r, size = utf8.DecodeRuneInString(l.src[l.pos:])
				if r == '.' && !isReal {
					// Only a digit after the dot makes it a decimal point;
					// `1.foo` is a Nat followed by a projection.
					next, _ := utf8.DecodeRuneInString(l.src[l.pos+size:])
					if !unicode.IsDigit(next) {
						break
					}
					isReal = true
					l.pos += size
					continue
				}
				if !unicode.IsDigit(r) {
					break
				}
				l.pos += size
			}
			kind := tokNat
			if isReal {
				kind = tokReal
			}
			l.toks = append(l.toks, token{kind: kind, text: l.src[start:l.pos], pos: start})

		case r == '\'':
			l.pos += size
			cstart := l.pos
			r2, size2 := utf8.DecodeRuneInString(l.src[l.pos:])
			l.pos += size2
			if l.pos >= len(l.src) || l.src[l.pos] != '\'' {
				return nil, fmt.Errorf("fixture: unterminated char literal at %d", start)
			}
			l.toks = append(l.toks, token{kind: tokChar, text: l.src[cstart : l.pos], pos: start})
			l.pos++
			_ = r2

		case r == '"':
			l.pos += size
			sstart := l.pos
			for l.pos < len(l.src) && l.src[l.pos] != '"' {
				l.pos++
			}
			if l.pos >= len(l.src) {
				return nil, fmt.Errorf("fixture: unterminated string literal at %d", start)
			}
			l.toks = append(l.toks, token{kind: tokString, text: l.src[sstart:l.pos], pos: start})
			l.pos++

		case isPunctRune(r):
			l.pos += size
			// Greedily match two-rune operators.
			if l.pos < len(l.src) {
				two := l.src[start:l.pos] + string(l.src[l.pos])
				switch two {
				case "->", "==", "!=", "<=", ">=", "&&", "||", "++":
					l.pos++
				}
			}
			l.toks = append(l.toks, token{kind: tokPunct, text: l.src[start:l.pos], pos: start})

		default:
			return nil, fmt.Errorf("fixture: unexpected character %q at %d", r, start)
		}
	}
}

func isPunctRune(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', ',', '.', ':', ';', '\\', '|', '+', '-', '*', '/', '%', '<', '>', '=', '!', '&', '^':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}
