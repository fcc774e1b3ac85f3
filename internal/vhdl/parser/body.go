package parser

import (
	"strings"

	"github.com/orbit-hdl/orbit/internal/vhdl/ast"
	"github.com/orbit-hdl/orbit/internal/vhdl/token"
)

// blockOpeners are the keywords that open a nested region closed by a
// matching "end ...;", tracked purely by count so scanBody can find the
// *outer* construct's own terminating end without parsing every nested
// statement kind (processes, blocks, generate regions, loops, subprogram
// bodies, record type declarations all nest this way). "for" is only an
// opener inside a configuration's block-configuration syntax ("for
// <block_spec> ... end for;"), where it has no other closing keyword to
// rely on; inside architecture/entity/package bodies a bare "for" always
// resolves through the "generate" or "loop" keyword that follows it later
// in the same header, so counting it there would double-count. For the same
// reason scanBody counts "generate" only after a for-generate header: an
// if/case generate region is already counted at its "if"/"case".
var blockOpeners = map[string]bool{
	"process": true, "block": true, "generate": true, "loop": true,
	"if": true, "case": true, "record": true,
}

// subprogramKeywords start either a bodyless declaration ("function foo(...)
// return bit;") or a body ("function foo(...) return bit is ... end
// function;"); scanBody disambiguates by watching for the first of "is" or
// ";" at paren depth 0 that follows.
var subprogramKeywords = map[string]bool{"function": true, "procedure": true}

// scanBody consumes tokens up to and including the "end ...;" that matches
// the construct just entered (the caller has already consumed its "is" or
// "begin"), returning every statement found along the way as a flat token
// slice each. Each statement ends at the next ';' at paren depth 0, at a
// "generate"/"loop" keyword that terminates a generate or loop header
// instead, or at a "begin" keyword that ends a declarative part. Depth bookkeeping never needs to identify *which* construct an
// inner "end" closes, only that it closes one still open — a documented
// simplification consistent with the parser's broader statement-only,
// structure-agnostic approach (spec §4.2, §9).
func (p *Parser) scanBody(forOpensNesting bool) [][]token.Token {
	depth := 0
	parenDepth := 0
	awaitingSubprogramKind := false
	var stmts [][]token.Token
	var cur []token.Token

	flush := func() {
		if len(cur) > 0 {
			stmts = append(stmts, cur)
			cur = nil
		}
	}

	for {
		tok := p.stream.Next()
		if tok.Kind == token.KindEOF {
			flush()
			p.errs = append(p.errs, p.parseErr(tok.Pos, "unexpected end of file: unterminated design unit"))
			return stmts
		}

		switch {
		case tok.IsDelimiter("("):
			parenDepth++
		case tok.IsDelimiter(")"):
			parenDepth--
		}

		if parenDepth == 0 && tok.Kind == token.KindKeyword {
			switch {
			case tok.Text == "end":
				// "end" is always followed by a fixed trailer - an optional
				// kind keyword and/or designator, then ';' - with nothing in
				// it that opens a further region. Consume that trailer here
				// so its kind keyword (e.g. the "for" in "end for;", the
				// "process" in "end process;") is never mistaken for a new
				// opener by the cases below.
				cur = append(cur, tok)
				for {
					t2 := p.stream.Next()
					cur = append(cur, t2)
					if t2.IsDelimiter(";") || t2.Kind == token.KindEOF {
						break
					}
				}
				if depth == 0 {
					flush()
					return stmts
				}
				depth--
				flush()
				continue
			case awaitingSubprogramKind && tok.Text == "is":
				depth++
				awaitingSubprogramKind = false
			case subprogramKeywords[tok.Text]:
				awaitingSubprogramKind = true
			case tok.Text == "generate":
				// An if/case generate region was already counted at its
				// "if"/"case"; elsif/else alternatives open nothing. Only a
				// for-generate header (whose "for" is not counted) opens here.
				for _, t := range cur {
					if t.Kind == token.KindKeyword && t.Text == "for" {
						depth++
						break
					}
				}
			case blockOpeners[tok.Text] || (forOpensNesting && tok.Text == "for"):
				depth++
			}
		}

		cur = append(cur, tok)

		if parenDepth == 0 {
			if tok.IsDelimiter(";") {
				awaitingSubprogramKind = false
				flush()
			} else if tok.Kind == token.KindKeyword && (tok.Text == "generate" || tok.Text == "loop" || tok.Text == "begin") {
				flush()
			}
		}
	}
}

// parseInterfaceList parses a generic or port clause: the stream must be
// positioned at the opening '('. Interface items use balanced-paren
// statement composition (spec §4.2): items are split on top-level ';'
// inside the parens, each then split on top-level ',' before its ':' to
// recover the ordered list of names.
func (p *Parser) parseInterfaceList() []ast.InterfaceItem {
	if err := p.expectDelim("("); err != nil {
		p.errs = append(p.errs, err)
		return nil
	}
	depth := 1
	var items []ast.InterfaceItem
	var cur []token.Token

	for depth > 0 {
		tok := p.stream.Next()
		if tok.Kind == token.KindEOF {
			p.errs = append(p.errs, p.parseErr(tok.Pos, "unexpected end of file in interface list"))
			break
		}
		switch {
		case tok.IsDelimiter("("):
			depth++
			cur = append(cur, tok)
		case tok.IsDelimiter(")"):
			depth--
			if depth == 0 {
				if len(cur) > 0 {
					items = append(items, parseInterfaceItems(cur)...)
				}
			} else {
				cur = append(cur, tok)
			}
		case tok.IsDelimiter(";") && depth == 1:
			items = append(items, parseInterfaceItems(cur)...)
			cur = nil
		default:
			cur = append(cur, tok)
		}
	}
	return items
}

func parseInterfaceItems(toks []token.Token) []ast.InterfaceItem {
	colonIdx := -1
	depth := 0
	for i, t := range toks {
		switch {
		case t.IsDelimiter("("):
			depth++
		case t.IsDelimiter(")"):
			depth--
		case depth == 0 && t.IsDelimiter(":"):
			colonIdx = i
		}
		if colonIdx >= 0 {
			break
		}
	}
	if colonIdx < 0 {
		return nil
	}

	var names []token.Identifier
	depth = 0
	var curName []token.Token
	flushName := func() {
		for _, nt := range curName {
			if nt.Kind == token.KindIdentifier {
				names = append(names, nt.Ident)
			}
		}
		curName = nil
	}
	for _, t := range toks[:colonIdx] {
		switch {
		case t.IsDelimiter("("):
			depth++
		case t.IsDelimiter(")"):
			depth--
		case depth == 0 && t.IsDelimiter(","):
			flushName()
			continue
		}
		curName = append(curName, t)
	}
	flushName()

	rest := toks[colonIdx+1:]
	mode := ""
	if len(rest) > 0 && rest[0].Kind == token.KindKeyword {
		switch rest[0].Text {
		case "in", "out", "inout", "buffer", "linkage":
			mode = rest[0].Text
			rest = rest[1:]
		}
	}
	var typeParts []string
	for _, t := range rest {
		if t.IsDelimiter(":=") {
			break
		}
		typeParts = append(typeParts, t.Text)
	}
	typeStr := strings.Join(typeParts, " ")

	items := make([]ast.InterfaceItem, 0, len(names))
	for _, n := range names {
		items = append(items, ast.InterfaceItem{Name: n, Mode: mode, Type: typeStr})
	}
	return items
}
