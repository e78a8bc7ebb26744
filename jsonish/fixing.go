package jsonish

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// errNothingToFix signals that the repair strategy found nothing better
// than the raw text, so the chain should move on.
var errNothingToFix = errors.New("nothing to fix")

// fixedItem is one top-level value recovered by the repair parser, with
// the markers describing which heuristics fired for it.
type fixedItem struct {
	value Value
	fixes []Fix
}

// parseFixing recovers JSON-like values from malformed input: unquoted
// keys, single-quoted strings, trailing commas, line comments, and
// unterminated strings, arrays, and objects (streaming tails). It returns
// one item per top-level value found.
//
// Text that does not start with something value-like is not repaired; a
// raw-string interpretation is the string-fallback strategy's job.
func parseFixing(text string) ([]fixedItem, error) {
	p := &fixParser{src: text}
	p.skipFiller()

	if p.done() || !p.startsValue() {
		return nil, errNothingToFix
	}

	var items []fixedItem

	for !p.done() {
		if p.startsValue() {
			mark := len(p.fixes)
			v := p.parseValue()
			items = append(items, fixedItem{value: v, fixes: p.fixes[mark:]})

			p.skipFiller()
			p.eatByte(',')
			p.skipFiller()

			continue
		}

		// Trailing prose after the recovered values is kept as a string
		// candidate so nothing is silently dropped. It runs to the end of
		// the input, so it may still grow.
		rest := strings.TrimSpace(p.src[p.pos:])
		if rest != "" {
			items = append(items, fixedItem{value: &String{Value: rest, State: Incomplete}})
		}

		break
	}

	return items, nil
}

type fixParser struct {
	src   string
	pos   int
	fixes []Fix
}

func (p *fixParser) done() bool { return p.pos >= len(p.src) }

func (p *fixParser) peek() byte { return p.src[p.pos] }

func (p *fixParser) eatByte(c byte) bool {
	if !p.done() && p.src[p.pos] == c {
		p.pos++

		return true
	}

	return false
}

func (p *fixParser) addFix(f Fix) {
	p.fixes = append(p.fixes, f)
}

// skipFiller consumes whitespace and line comments.
func (p *fixParser) skipFiller() {
	for !p.done() {
		c := p.peek()

		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++

			continue
		}

		if c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
			for !p.done() && p.peek() != '\n' {
				p.pos++
			}

			p.addFix(FixCommentStripped)

			continue
		}

		return
	}
}

// startsValue reports whether the cursor sits on something that can open a
// JSON-like value.
func (p *fixParser) startsValue() bool {
	if p.done() {
		return false
	}

	switch c := p.peek(); {
	case c == '{' || c == '[' || c == '"' || c == '\'' || c == '-':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == 't' || c == 'f' || c == 'n':
		// Only actual literals count; bare words are prose.
		return p.literalAhead() != ""
	}

	return false
}

// literalAhead returns the JSON literal at the cursor, if any, respecting
// word boundaries.
func (p *fixParser) literalAhead() string {
	for _, lit := range []string{"true", "false", "null"} {
		if !strings.HasPrefix(p.src[p.pos:], lit) {
			continue
		}

		end := p.pos + len(lit)
		if end == len(p.src) || !isWordByte(p.src[end]) {
			return lit
		}
	}

	return ""
}

func isWordByte(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

func (p *fixParser) parseValue() Value {
	p.skipFiller()

	if p.done() {
		return &Null{}
	}

	switch c := p.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"' || c == '\'':
		return p.parseString(c)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		if lit := p.literalAhead(); lit != "" {
			p.pos += len(lit)

			switch lit {
			case "true":
				return &Bool{Value: true}
			case "false":
				return &Bool{Value: false}
			default:
				return &Null{}
			}
		}

		return p.parseBareString()
	}
}

func (p *fixParser) parseObject() Value {
	p.pos++ // consume '{'
	obj := &Object{State: Complete}

	for {
		p.skipFiller()

		if p.done() {
			obj.State = Incomplete
			p.addFix(FixUnclosedContainer)

			return obj
		}

		if p.eatByte('}') {
			return obj
		}

		if p.eatByte(',') {
			p.skipFiller()

			if p.eatByte('}') {
				p.addFix(FixTrailingComma)

				return obj
			}

			continue
		}

		key, ok := p.parseKey()
		if !ok {
			obj.State = Incomplete
			p.addFix(FixUnclosedContainer)

			return obj
		}

		p.skipFiller()

		if !p.eatByte(':') {
			// Streaming tail cut the entry off after its key.
			obj.Entries = append(obj.Entries, Entry{Key: key, Value: &Null{}})
			obj.State = Incomplete
			p.addFix(FixUnclosedContainer)

			return obj
		}

		p.skipFiller()

		if p.done() {
			obj.Entries = append(obj.Entries, Entry{Key: key, Value: &Null{}})
			obj.State = Incomplete
			p.addFix(FixUnclosedContainer)

			return obj
		}

		value := p.parseValue()
		obj.Entries = append(obj.Entries, Entry{Key: key, Value: value})
	}
}

// parseKey reads an object key: quoted, single-quoted, or a bare
// identifier-like run up to the colon.
func (p *fixParser) parseKey() (string, bool) {
	if p.done() {
		return "", false
	}

	if c := p.peek(); c == '"' || c == '\'' {
		s, _ := p.scanString(c)

		return s, true
	}

	start := p.pos

	for !p.done() {
		c := p.peek()
		if c == ':' || c == ',' || c == '}' || c == '\n' {
			break
		}

		p.pos++
	}

	key := strings.TrimSpace(p.src[start:p.pos])
	if key == "" {
		return "", false
	}

	p.addFix(FixUnquotedKey)

	return key, true
}

func (p *fixParser) parseArray() Value {
	p.pos++ // consume '['
	arr := &Array{State: Complete}

	for {
		p.skipFiller()

		if p.done() {
			arr.State = Incomplete
			p.addFix(FixUnclosedContainer)

			return arr
		}

		if p.eatByte(']') {
			return arr
		}

		if p.eatByte(',') {
			p.skipFiller()

			if p.eatByte(']') {
				p.addFix(FixTrailingComma)

				return arr
			}

			continue
		}

		arr.Items = append(arr.Items, p.parseValue())
	}
}

func (p *fixParser) parseString(quote byte) Value {
	s, terminated := p.scanString(quote)

	if quote == '\'' {
		p.addFix(FixSingleQuotes)
	}

	state := Complete

	if !terminated {
		state = Incomplete

		p.addFix(FixUnterminatedString)
	}

	return &String{Value: s, State: state}
}

// scanString reads a quoted string with escapes, reporting whether the
// closing quote was found before the input ended.
func (p *fixParser) scanString(quote byte) (string, bool) {
	p.pos++ // consume the opening quote

	var sb strings.Builder

	for !p.done() {
		c := p.peek()

		if c == '\\' && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			p.pos += 2

			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'u':
				// Leave unicode escapes for the strict decoder; keep the
				// raw form rather than guessing.
				sb.WriteByte('\\')
				sb.WriteByte('u')
			default:
				sb.WriteByte(next)
			}

			continue
		}

		if c == quote {
			p.pos++

			return sb.String(), true
		}

		sb.WriteByte(c)
		p.pos++
	}

	return sb.String(), false
}

func (p *fixParser) parseNumber() Value {
	start := p.pos
	p.eatByte('-')

	for !p.done() {
		c := p.peek()
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			p.pos++

			continue
		}

		break
	}

	text := p.src[start:p.pos]

	var probe any
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		// Not a well-formed number after all; treat the run as prose.
		p.pos = start

		return p.parseBareString()
	}

	state := Complete
	if p.done() {
		// The number runs to the end of the input; more digits may arrive.
		state = Incomplete
	}

	return &Number{Value: json.Number(text), State: state}
}

// parseBareString reads an unquoted string value up to a structural
// delimiter.
func (p *fixParser) parseBareString() Value {
	start := p.pos

	for !p.done() {
		c := p.peek()
		if c == ',' || c == '}' || c == ']' || c == '\n' {
			break
		}

		p.pos++
	}

	s := strings.TrimSpace(p.src[start:p.pos])
	p.addFix(FixUnquotedString)

	// A bare run that reaches the end of the input may still grow.
	state := Complete
	if p.done() {
		state = Incomplete
	}

	return &String{Value: s, State: state}
}
