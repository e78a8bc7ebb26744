package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/krypticmouse/dsgo/typeir"
)

// ErrTypeExpr indicates a malformed type expression.
var ErrTypeExpr = errors.New("invalid type expression")

// ParseTypeExpr parses a type expression into a Type-IR. The grammar covers
// the surface needed by schema documents:
//
//	int  float  string  bool  null  any
//	T[]  T?  A | B  map<K, V>  (A, B)  Name  "literal"  42  true
//
// Name references are left unresolved; the registry builder validates them.
// Class and enum names are not distinguishable syntactically, so names
// resolve against classes first, then enums, then aliases, at build time.
func ParseTypeExpr(expr string) (*typeir.Type, error) {
	p := &exprParser{src: expr}

	t, err := p.union()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing input at %d in %q", ErrTypeExpr, p.pos, expr)
	}

	return t, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) union() (*typeir.Type, error) {
	first, err := p.postfix()
	if err != nil {
		return nil, err
	}

	members := []*typeir.Type{first}

	for {
		p.skipSpace()

		if !p.eat("|") {
			break
		}

		next, err := p.postfix()
		if err != nil {
			return nil, err
		}

		members = append(members, next)
	}

	if len(members) == 1 {
		return members[0], nil
	}

	return typeir.Union(members...), nil
}

func (p *exprParser) postfix() (*typeir.Type, error) {
	t, err := p.atom()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		switch {
		case p.eat("[]"):
			t = typeir.List(t)
		case p.eat("?"):
			t = typeir.Optional(t)
		default:
			return t, nil
		}
	}
}

func (p *exprParser) atom() (*typeir.Type, error) {
	p.skipSpace()

	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("%w: unexpected end of input in %q", ErrTypeExpr, p.src)
	}

	switch c := p.src[p.pos]; {
	case c == '(':
		return p.tuple()
	case c == '"' || c == '\'':
		return p.stringLiteral(c)
	case c == '-' || unicode.IsDigit(rune(c)):
		return p.intLiteral()
	}

	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("%w: unexpected %q at %d in %q",
			ErrTypeExpr, p.src[p.pos], p.pos, p.src)
	}

	switch name {
	case "int":
		return typeir.Int(), nil
	case "float":
		return typeir.Float(), nil
	case "string":
		return typeir.String(), nil
	case "bool":
		return typeir.Bool(), nil
	case "null":
		return typeir.Null(), nil
	case "any":
		return typeir.Any(), nil
	case "true":
		return typeir.LiteralBoolType(true), nil
	case "false":
		return typeir.LiteralBoolType(false), nil
	case "map":
		return p.mapType()
	}

	// A bare name is a class, enum, or alias reference resolved at build
	// time.
	return &typeir.Type{Kind: typeir.KindClass, Name: name}, nil
}

func (p *exprParser) tuple() (*typeir.Type, error) {
	p.pos++ // consume '('

	var items []*typeir.Type

	for {
		item, err := p.union()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
		p.skipSpace()

		if p.eat(",") {
			continue
		}

		if p.eat(")") {
			break
		}

		return nil, fmt.Errorf("%w: expected ',' or ')' at %d in %q", ErrTypeExpr, p.pos, p.src)
	}

	// Parenthesized single types are grouping, not one-tuples.
	if len(items) == 1 {
		return items[0], nil
	}

	return typeir.Tuple(items...), nil
}

func (p *exprParser) mapType() (*typeir.Type, error) {
	p.skipSpace()

	if !p.eat("<") {
		return nil, fmt.Errorf("%w: expected '<' after map at %d in %q", ErrTypeExpr, p.pos, p.src)
	}

	key, err := p.union()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.eat(",") {
		return nil, fmt.Errorf("%w: expected ',' in map at %d in %q", ErrTypeExpr, p.pos, p.src)
	}

	value, err := p.union()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.eat(">") {
		return nil, fmt.Errorf("%w: expected '>' closing map at %d in %q", ErrTypeExpr, p.pos, p.src)
	}

	return typeir.Map(key, value), nil
}

func (p *exprParser) stringLiteral(quote byte) (*typeir.Type, error) {
	end := strings.IndexByte(p.src[p.pos+1:], quote)
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated string literal in %q", ErrTypeExpr, p.src)
	}

	s := p.src[p.pos+1 : p.pos+1+end]
	p.pos += end + 2

	return typeir.LiteralStringType(s), nil
}

func (p *exprParser) intLiteral() (*typeir.Type, error) {
	start := p.pos

	if p.src[p.pos] == '-' {
		p.pos++
	}

	for p.pos < len(p.src) && unicode.IsDigit(rune(p.src[p.pos])) {
		p.pos++
	}

	n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad integer literal %q", ErrTypeExpr, p.src[start:p.pos])
	}

	return typeir.LiteralIntType(n), nil
}

func (p *exprParser) ident() string {
	start := p.pos

	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}

		p.pos++
	}

	return p.src[start:p.pos]
}

func (p *exprParser) eat(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)

		return true
	}

	return false
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
