// Package parser hand-writes a recursive-descent, statement-granular VHDL
// parser over the token and lexer packages. It extracts exactly what the
// planning engine needs — design-unit identities, their generic/port
// interfaces, their dependency edges, and their resource references — and
// deliberately does not build a full parse tree: a "statement" is whatever
// sequence of tokens separates two structural boundaries, and most
// statement bodies are only ever scanned for identifier '.' identifier
// patterns rather than parsed to a grammar. This mirrors the scoping
// approximation spec.md documents for context clauses: a flat, global
// resource-reference pool is flushed into the next primary unit, rather
// than modeling per-unit declarative regions exactly.
package parser

import (
	"fmt"

	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/vhdl/ast"
	"github.com/orbit-hdl/orbit/internal/vhdl/lexer"
	"github.com/orbit-hdl/orbit/internal/vhdl/token"
)

// FileUnits holds everything a single parsed VHDL source file contributed:
// primary units (graph nodes) and the secondary units (architectures,
// package bodies) that bind to them by name.
type FileUnits struct {
	Primaries     []ast.PrimaryUnit
	Architectures []*ast.Architecture
	Bodies        []*ast.PackageBody
}

// Parser holds the mutable state of one parse pass: the token cursor and
// the errors accumulated along the way. A Parser is single-use; construct
// a fresh one per file via Parse.
type Parser struct {
	stream *stream
	errs   []error
}

// structuralPanic is raised only for violations that make continued
// parsing of the current unit meaningless — an architecture header missing
// "of", a configuration header missing "of" — never for recoverable
// mistakes. Parse recovers it at the top level and records it as a single
// parse error; it does not crash the process.
type structuralPanic struct {
	pos token.Position
	msg string
}

func (p *Parser) panicStructural(pos token.Position, msg string) {
	panic(structuralPanic{pos: pos, msg: msg})
}

func (p *Parser) parseErr(pos token.Position, detail string) error {
	return orberr.New(orberr.ParseError, pos.String()).WithDetail(detail)
}

func (p *Parser) peekIsKeyword(kw string) bool { return p.stream.Peek().IsKeyword(kw) }

func (p *Parser) expectIdentifier() (token.Token, error) {
	t := p.stream.Next()
	if t.Kind != token.KindIdentifier {
		return token.Token{}, p.parseErr(t.Pos, fmt.Sprintf("expected identifier, got %q", t.Text))
	}
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	t := p.stream.Next()
	if !t.IsKeyword(kw) {
		return p.parseErr(t.Pos, fmt.Sprintf("expected %q, got %q", kw, t.Text))
	}
	return nil
}

func (p *Parser) expectDelim(d string) error {
	t := p.stream.Next()
	if !t.IsDelimiter(d) {
		return p.parseErr(t.Pos, fmt.Sprintf("expected %q, got %q", d, t.Text))
	}
	return nil
}

// Parse tokenizes and parses a single VHDL source file. It never returns a
// fatal error for the whole file: lex errors, parse errors, and recovered
// structural panics are all collected and returned alongside whatever
// partial result was still extractable, so one malformed file in a large
// design does not block analysis of the rest (spec §4.1, §4.2 error
// recovery requirements).
func Parse(file, src string) (*FileUnits, []error) {
	toks, lexErrs := lexer.Tokenize(file, src)
	p := &Parser{stream: newStream(filterComments(toks))}
	p.errs = append(p.errs, lexErrs...)

	result := &FileUnits{}
	var pool []ast.ResourceReference

	func() {
		defer func() {
			if r := recover(); r != nil {
				sp, ok := r.(structuralPanic)
				if !ok {
					panic(r)
				}
				p.errs = append(p.errs, p.parseErr(sp.pos, sp.msg))
			}
		}()

		for !p.stream.AtEnd() {
			tok := p.stream.Peek()
			switch {
			case tok.IsKeyword("entity"):
				ent, err := p.parseEntity()
				if err != nil {
					p.errs = append(p.errs, err)
					continue
				}
				ent.AddRefs(pool)
				pool = nil
				result.Primaries = append(result.Primaries, ent)

			case tok.IsKeyword("architecture"):
				arch, err := p.parseArchitecture()
				if err != nil {
					p.errs = append(p.errs, err)
					continue
				}
				result.Architectures = append(result.Architectures, arch)

			case tok.IsKeyword("package"):
				if p.stream.PeekAt(1).IsKeyword("body") {
					pb, err := p.parsePackageBody()
					if err != nil {
						p.errs = append(p.errs, err)
						continue
					}
					result.Bodies = append(result.Bodies, pb)
				} else {
					pkg, err := p.parsePackageDecl()
					if err != nil {
						p.errs = append(p.errs, err)
						continue
					}
					pkg.AddRefs(pool)
					pool = nil
					result.Primaries = append(result.Primaries, pkg)
				}

			case tok.IsKeyword("context"):
				if p.stream.PeekAt(2).IsKeyword("is") {
					ctx, err := p.parseContextDecl()
					if err != nil {
						p.errs = append(p.errs, err)
						continue
					}
					ctx.AddRefs(pool)
					pool = nil
					result.Primaries = append(result.Primaries, ctx)
				} else {
					stmt := p.readFreeStatement()
					pool = append(pool, harvestRefs(stmt)...)
				}

			case tok.IsKeyword("configuration"):
				cfg, err := p.parseConfiguration()
				if err != nil {
					p.errs = append(p.errs, err)
					continue
				}
				cfg.AddRefs(pool)
				pool = nil
				result.Primaries = append(result.Primaries, cfg)

			default:
				stmt := p.readFreeStatement()
				pool = append(pool, harvestRefs(stmt)...)
			}
		}
	}()

	return result, p.errs
}

// readFreeStatement consumes one paren-balanced, semicolon-terminated
// statement at file scope — library clauses, use clauses, loose context
// references — whose only purpose is to contribute resource references to
// the pending pool.
func (p *Parser) readFreeStatement() []token.Token {
	var toks []token.Token
	depth := 0
	for {
		t := p.stream.Next()
		if t.Kind == token.KindEOF {
			return toks
		}
		toks = append(toks, t)
		switch {
		case t.IsDelimiter("("):
			depth++
		case t.IsDelimiter(")"):
			depth--
		case depth == 0 && t.IsDelimiter(";"):
			return toks
		}
	}
}

func (p *Parser) parseEntity() (*ast.Entity, error) {
	p.stream.Next() // 'entity'
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("is"); err != nil {
		return nil, err
	}

	ent := &ast.Entity{Name: nameTok.Ident, Pos: nameTok.Pos}

	if p.peekIsKeyword("generic") {
		p.stream.Next()
		ent.Generics = p.parseInterfaceList()
		if err := p.expectDelim(";"); err != nil {
			p.errs = append(p.errs, err)
		}
	}
	if p.peekIsKeyword("port") {
		p.stream.Next()
		ent.Ports = p.parseInterfaceList()
		if err := p.expectDelim(";"); err != nil {
			p.errs = append(p.errs, err)
		}
	}

	for _, stmt := range p.scanBody(false) {
		ent.Refs = append(ent.Refs, harvestRefs(stmt)...)
	}
	return ent, nil
}

func (p *Parser) parseArchitecture() (*ast.Architecture, error) {
	p.stream.Next() // 'architecture'
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	ofTok := p.stream.Next()
	if !ofTok.IsKeyword("of") {
		p.panicStructural(ofTok.Pos, "architecture header missing 'of'")
	}
	ownerTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("is"); err != nil {
		return nil, err
	}

	arch := &ast.Architecture{Name: nameTok.Ident, OwnerEntity: ownerTok.Ident, Pos: nameTok.Pos}
	for _, stmt := range p.scanBody(false) {
		arch.Refs = append(arch.Refs, harvestRefs(stmt)...)
		arch.Deps = append(arch.Deps, detectConfigSpec(stmt)...)
		arch.Deps = append(arch.Deps, detectInstantiation(stmt)...)
	}
	return arch, nil
}

func (p *Parser) parsePackageDecl() (*ast.Package, error) {
	p.stream.Next() // 'package'
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("is"); err != nil {
		return nil, err
	}
	pkg := &ast.Package{Name: nameTok.Ident, Pos: nameTok.Pos}
	for _, stmt := range p.scanBody(false) {
		pkg.Refs = append(pkg.Refs, harvestRefs(stmt)...)
	}
	return pkg, nil
}

func (p *Parser) parsePackageBody() (*ast.PackageBody, error) {
	p.stream.Next() // 'package'
	p.stream.Next() // 'body'
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("is"); err != nil {
		return nil, err
	}
	pb := &ast.PackageBody{OwnerPackage: nameTok.Ident, Pos: nameTok.Pos}
	for _, stmt := range p.scanBody(false) {
		pb.Refs = append(pb.Refs, harvestRefs(stmt)...)
	}
	return pb, nil
}

func (p *Parser) parseContextDecl() (*ast.Context, error) {
	p.stream.Next() // 'context'
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("is"); err != nil {
		return nil, err
	}
	ctx := &ast.Context{Name: nameTok.Ident, Pos: nameTok.Pos}
	for _, stmt := range p.scanBody(false) {
		ctx.Refs = append(ctx.Refs, harvestRefs(stmt)...)
	}
	return ctx, nil
}

func (p *Parser) parseConfiguration() (*ast.Configuration, error) {
	p.stream.Next() // 'configuration'
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	ofTok := p.stream.Next()
	if !ofTok.IsKeyword("of") {
		p.panicStructural(ofTok.Pos, "configuration header missing 'of'")
	}
	ownerTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("is"); err != nil {
		return nil, err
	}

	cfg := &ast.Configuration{Name: nameTok.Ident, OwnerEntity: ownerTok.Ident, Pos: nameTok.Pos}
	for _, stmt := range p.scanBody(true) {
		cfg.Refs = append(cfg.Refs, harvestRefs(stmt)...)
		cfg.ConfiguredUnits = append(cfg.ConfiguredUnits, detectConfigSpec(stmt)...)
	}
	return cfg, nil
}
