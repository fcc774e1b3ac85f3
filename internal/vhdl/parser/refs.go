package parser

import (
	"github.com/orbit-hdl/orbit/internal/vhdl/ast"
	"github.com/orbit-hdl/orbit/internal/vhdl/token"
)

// harvestRefs scans stmt for identifier '.' identifier pairs (spec §4.2:
// "whenever an identifier is immediately followed by a '.' and another
// identifier, emit a resource reference"). The scan is a sliding window, so
// a qualified chain a.b.c yields both (a, b) and (b, c); duplicates within a
// statement are preserved rather than deduplicated.
func harvestRefs(stmt []token.Token) []ast.ResourceReference {
	var refs []ast.ResourceReference
	for i := 0; i+2 < len(stmt); i++ {
		a, dot, b := stmt[i], stmt[i+1], stmt[i+2]
		if a.Kind == token.KindIdentifier && dot.IsDelimiter(".") && b.Kind == token.KindIdentifier {
			refs = append(refs, ast.ResourceReference{Prefix: a.Ident, Suffix: b.Ident, Pos: a.Pos})
		}
	}
	return refs
}

// detectInstantiation recognizes the pattern "<label> : [entity|component|
// configuration]? <name>" at the head of a statement. A bare keyword in
// qualifier position (process, block, loop, generate's leading for/if/case)
// means this is some other labeled concurrent statement, not an
// instantiation, and nil is returned.
func detectInstantiation(stmt []token.Token) []token.Identifier {
	if len(stmt) < 3 {
		return nil
	}
	if stmt[0].Kind != token.KindIdentifier || !stmt[1].IsDelimiter(":") {
		return nil
	}
	i := 2
	if stmt[i].Kind == token.KindKeyword {
		switch stmt[i].Text {
		case "entity", "component", "configuration":
			i++
		default:
			return nil
		}
	}
	if i >= len(stmt) || stmt[i].Kind != token.KindIdentifier {
		return nil
	}
	name := stmt[i].Ident
	if i+2 < len(stmt) && stmt[i+1].IsDelimiter(".") && stmt[i+2].Kind == token.KindIdentifier {
		name = stmt[i+2].Ident
	}
	return []token.Identifier{name}
}

// detectConfigSpec recognizes a configuration specification or a
// configuration's block-configuration binding: "... use entity|configuration
// [lib.]name ...". It is applied uniformly to every statement in an
// architecture body or configuration body; most statements simply have no
// "use" keyword and return nil.
func detectConfigSpec(stmt []token.Token) []token.Identifier {
	useIdx := -1
	for i, t := range stmt {
		if t.Kind == token.KindKeyword && t.Text == "use" {
			useIdx = i
			break
		}
	}
	if useIdx < 0 || useIdx+1 >= len(stmt) {
		return nil
	}
	i := useIdx + 1
	if stmt[i].Kind != token.KindKeyword || (stmt[i].Text != "entity" && stmt[i].Text != "configuration") {
		return nil
	}
	i++
	if i >= len(stmt) || stmt[i].Kind != token.KindIdentifier {
		return nil
	}
	name := stmt[i].Ident
	if i+2 < len(stmt) && stmt[i+1].IsDelimiter(".") && stmt[i+2].Kind == token.KindIdentifier {
		name = stmt[i+2].Ident
	}
	return []token.Identifier{name}
}
