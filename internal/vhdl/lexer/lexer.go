// Package lexer hand-tokenizes VHDL source into a flat, positioned token
// stream. It is a single forward pass over a []rune buffer: no
// backtracking, no restart. Errors (unterminated literals, bad based-literal
// digits, invalid characters) are reported with their position and the
// lexer resynchronizes at the next whitespace or semicolon so a caller can
// keep draining tokens and observe multiple problems in one pass.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/vhdl/token"
)

// Lexer tokenizes a single source file. It is not safe for concurrent use
// and is exhausted after its source is fully consumed.
type Lexer struct {
	file string
	src  []rune
	pos  int
	line int
	col  int
}

// New returns a Lexer over src, attributing positions to file.
func New(file, src string) *Lexer {
	return &Lexer{file: file, src: []rune(src), line: 1, col: 1}
}

func (l *Lexer) here() token.Position {
	return token.Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	i := l.pos + offset
	if i < 0 || i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) lexErr(start token.Position, detail string) error {
	return orberr.New(orberr.LexError, start.String()).WithDetail(detail)
}

// syncAfterError advances past the current lexeme until the next whitespace
// or semicolon, so the next Next() call starts from a clean boundary.
func (l *Lexer) syncAfterError() {
	for !l.atEnd() {
		c := l.peek()
		if unicode.IsSpace(c) || c == ';' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// Next returns the next token. At end of input it returns a token.EOF token
// with a nil error forever after. On a lex error it returns a zero Token
// and a non-nil error describing the problem; the lexer has already
// resynchronized and a subsequent Next() call continues from there.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		return token.Token{Kind: token.KindEOF, Pos: l.here()}, nil
	}

	start := l.here()
	c := l.peek()

	switch {
	case c == '-' && l.peekAt(1) == '-':
		return l.scanLineComment(start)
	case c == '/' && l.peekAt(1) == '*':
		return l.scanBlockComment(start)
	case c == '\\':
		return l.scanExtendedIdentifier(start)
	case c == '"':
		return l.scanStringLiteral(start)
	case c == '\'':
		return l.scanCharLiteralOrTick(start)
	case isVHDLLetter(c):
		return l.scanIdentifierOrBitString(start)
	case isDigit(c):
		return l.scanNumberOrBitString(start)
	default:
		return l.scanDelimiter(start)
	}
}

func (l *Lexer) scanLineComment(start token.Position) (token.Token, error) {
	var b strings.Builder
	for !l.atEnd() && l.peek() != '\n' {
		b.WriteRune(l.advance())
	}
	return token.Token{Kind: token.KindComment, Text: b.String(), Pos: start}, nil
}

func (l *Lexer) scanBlockComment(start token.Position) (token.Token, error) {
	l.advance() // '/'
	l.advance() // '*'
	var b strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.lexErr(start, "unterminated block comment")
		}
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			return token.Token{Kind: token.KindComment, Text: b.String(), Pos: start}, nil
		}
		b.WriteRune(l.advance())
	}
}

func (l *Lexer) scanExtendedIdentifier(start token.Position) (token.Token, error) {
	l.advance() // opening backslash
	var b strings.Builder
	for {
		if l.atEnd() || l.peek() == '\n' {
			l.syncAfterError()
			return token.Token{}, l.lexErr(start, "unterminated extended identifier")
		}
		c := l.advance()
		if c == '\\' {
			if l.peek() == '\\' {
				l.advance()
				b.WriteRune('\\')
				continue
			}
			id, err := token.NewExtended(b.String())
			if err != nil {
				return token.Token{}, l.lexErr(start, err.Error())
			}
			return token.Token{Kind: token.KindIdentifier, Text: id.String(), Ident: id, Pos: start}, nil
		}
		b.WriteRune(c)
	}
}

func (l *Lexer) scanStringLiteral(start token.Position) (token.Token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		// A string literal cannot span lines: stop at the newline, which is
		// itself a resynchronization point.
		if l.atEnd() || l.peek() == '\n' {
			l.syncAfterError()
			return token.Token{}, l.lexErr(start, "unterminated string literal")
		}
		c := l.advance()
		if c == '"' {
			if l.peek() == '"' {
				l.advance()
				b.WriteRune('"')
				continue
			}
			return token.Token{Kind: token.KindStringLiteral, Text: b.String(), Pos: start}, nil
		}
		b.WriteRune(c)
	}
}

// charLiteral distinguishes a character literal 'c' from a tick delimiter
// used in attribute names ('EVENT, 'RANGE, ...): it is a character literal
// iff exactly one character followed by a closing quote appears next.
func (l *Lexer) scanCharLiteralOrTick(start token.Position) (token.Token, error) {
	if l.peekAt(1) != 0 && l.peekAt(2) == '\'' && l.peekAt(1) != '\'' {
		l.advance() // opening quote
		c := l.advance()
		l.advance() // closing quote
		return token.Token{Kind: token.KindCharLiteral, Text: string(c), Pos: start}, nil
	}
	l.advance()
	return token.Token{Kind: token.KindDelimiter, Text: "'", Pos: start}, nil
}

var bitStringSpecifiers = map[string]bool{
	"b": true, "o": true, "x": true, "d": true,
	"ub": true, "uo": true, "ux": true,
	"sb": true, "so": true, "sx": true,
}

func (l *Lexer) scanIdentifierOrBitString(start token.Position) (token.Token, error) {
	var b strings.Builder
	for !l.atEnd() && (isVHDLLetter(l.peek()) || isDigit(l.peek()) || l.peek() == '_') {
		b.WriteRune(l.advance())
	}
	text := b.String()

	if l.peek() == '"' && bitStringSpecifiers[strings.ToLower(text)] {
		return l.scanBitStringBody(start, text)
	}

	if token.IsKeyword(text) {
		return token.Token{Kind: token.KindKeyword, Text: strings.ToLower(text), Pos: start}, nil
	}
	id, err := token.NewBasic(text)
	if err != nil {
		l.syncAfterError()
		return token.Token{}, l.lexErr(start, err.Error())
	}
	return token.Token{Kind: token.KindIdentifier, Text: text, Ident: id, Pos: start}, nil
}

func (l *Lexer) scanBitStringBody(start token.Position, prefix string) (token.Token, error) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteRune(l.advance()) // opening quote
	for {
		if l.atEnd() || l.peek() == '\n' {
			l.syncAfterError()
			return token.Token{}, l.lexErr(start, "unterminated bit string literal")
		}
		c := l.advance()
		b.WriteRune(c)
		if c == '"' {
			break
		}
	}
	return token.Token{Kind: token.KindBitStringLiteral, Text: b.String(), Pos: start}, nil
}

func (l *Lexer) scanNumberOrBitString(start token.Position) (token.Token, error) {
	var b strings.Builder
	readDigits := func(validator func(rune) bool) {
		for !l.atEnd() {
			c := l.peek()
			if validator(c) || c == '_' {
				b.WriteRune(l.advance())
			} else {
				break
			}
		}
	}
	readDigits(isDigit)
	widthPrefix := b.String()

	// Bit string literal with a decimal width prefix, e.g. 12X"1F".
	if isVHDLLetter(l.peek()) {
		var spec strings.Builder
		save := l.pos
		saveLine, saveCol := l.line, l.col
		for isVHDLLetter(l.peek()) {
			spec.WriteRune(l.advance())
		}
		if l.peek() == '"' && bitStringSpecifiers[strings.ToLower(spec.String())] {
			return l.scanBitStringBody(start, widthPrefix+spec.String())
		}
		// not a bit string after all; rewind
		l.pos, l.line, l.col = save, saveLine, saveCol
	}

	// Fractional part of a decimal literal, e.g. 1.0E14.
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		b.WriteRune(l.advance())
		readDigits(isDigit)
	}

	if l.peek() == '#' {
		b.WriteRune(l.advance())
		baseDigitsStart := b.Len()
		readDigits(isBasedDigit)
		if b.Len() == baseDigitsStart {
			l.syncAfterError()
			return token.Token{}, l.lexErr(start, "invalid based literal: missing digits after base")
		}
		if l.peek() != '#' {
			l.syncAfterError()
			return token.Token{}, l.lexErr(start, "invalid based literal: missing closing '#'")
		}
		b.WriteRune(l.advance())
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.pos
		var exp strings.Builder
		exp.WriteRune(l.advance())
		if l.peek() == '+' || l.peek() == '-' {
			exp.WriteRune(l.advance())
		}
		digitsStart := exp.Len()
		for isDigit(l.peek()) {
			exp.WriteRune(l.advance())
		}
		if exp.Len() == digitsStart {
			// not actually an exponent; rewind (rare: identifier glued to digits)
			l.pos = save
		} else {
			b.WriteString(exp.String())
		}
	}

	return token.Token{Kind: token.KindAbstractLiteral, Text: b.String(), Pos: start}, nil
}

func (l *Lexer) scanDelimiter(start token.Position) (token.Token, error) {
	for _, md := range token.MultiCharDelimiters() {
		if l.matches(md) {
			for range []rune(md) {
				l.advance()
			}
			return token.Token{Kind: token.KindDelimiter, Text: md, Pos: start}, nil
		}
	}
	c := l.peek()
	if token.IsSingleCharDelimiter(c) {
		l.advance()
		return token.Token{Kind: token.KindDelimiter, Text: string(c), Pos: start}, nil
	}
	l.advance()
	l.syncAfterError()
	return token.Token{}, l.lexErr(start, fmt.Sprintf("invalid character %q", c))
}

func (l *Lexer) matches(s string) bool {
	rs := []rune(s)
	for i, r := range rs {
		if l.peekAt(i) != r {
			return false
		}
	}
	return true
}

func isVHDLLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isBasedDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Tokenize drains l fully, returning every non-EOF token plus every lex
// error encountered along the way (comments included, per spec: the
// lexer retains comments and the parser is responsible for skipping them).
func Tokenize(file, src string) ([]token.Token, []error) {
	l := New(file, src)
	var toks []token.Token
	var errs []error
	for {
		tok, err := l.Next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if tok.Kind == token.KindEOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks, errs
}
