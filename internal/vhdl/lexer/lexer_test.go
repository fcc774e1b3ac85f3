package lexer

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/vhdl/token"
)

func tokenTexts(t *testing.T, src string) []string {
	t.Helper()
	toks, errs := Tokenize("t.vhd", src)
	for _, e := range errs {
		t.Fatalf("unexpected lex error: %v", e)
	}
	var out []string
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out
}

func TestLexesEntityHeader(t *testing.T) {
	src := `entity nor_gate is port(a:in bit; b:in bit; c:out bit); end;`
	toks, errs := Tokenize("t.vhd", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.KindKeyword || toks[0].Text != "entity" {
		t.Fatalf("expected first token to be keyword 'entity', got %v", toks[0])
	}
	if toks[1].Kind != token.KindIdentifier || toks[1].Text != "nor_gate" {
		t.Fatalf("expected identifier 'nor_gate', got %v", toks[1])
	}
}

func TestLexesMultiCharDelimiters(t *testing.T) {
	got := tokenTexts(t, "a <= b; c := d; e => f;")
	want := []string{"a", "<=", "b", ";", "c", ":=", "d", ";", "e", "=>", "f", ";"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLexesComments(t *testing.T) {
	toks, errs := Tokenize("t.vhd", "-- hello\nx /* block */ y")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.KindComment {
		t.Fatalf("expected leading comment, got %v", toks[0])
	}
	if toks[1].Text != "x" || toks[2].Kind != token.KindComment || toks[3].Text != "y" {
		t.Fatalf("unexpected token sequence: %v", toks)
	}
}

func TestLexesAbstractLiterals(t *testing.T) {
	cases := []string{"1_234", "2#1010#", "1.0E14", "16#F#E2"}
	for _, c := range cases {
		toks, errs := Tokenize("t.vhd", c+";")
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected errors: %v", c, errs)
		}
		if toks[0].Kind != token.KindAbstractLiteral || toks[0].Text != c {
			t.Fatalf("%q: got %v", c, toks[0])
		}
	}
}

func TestLexesCharacterLiteralVsTick(t *testing.T) {
	toks, errs := Tokenize("t.vhd", "s'EVENT and c:='1'")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// s ' EVENT and c := '1'
	if toks[1].Kind != token.KindDelimiter || toks[1].Text != "'" {
		t.Fatalf("expected tick delimiter, got %v", toks[1])
	}
	last := toks[len(toks)-1]
	if last.Kind != token.KindCharLiteral || last.Text != "1" {
		t.Fatalf("expected char literal '1', got %v", last)
	}
}

func TestLexesStringLiteralWithEscapedQuote(t *testing.T) {
	toks, errs := Tokenize("t.vhd", `"a""b"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.KindStringLiteral || toks[0].Text != `a"b` {
		t.Fatalf("got %v", toks[0])
	}
}

func TestLexesBitStringLiterals(t *testing.T) {
	cases := []string{`b"1010"`, `x"F"`, `o"17"`, `12x"1F"`}
	for _, c := range cases {
		toks, errs := Tokenize("t.vhd", c+";")
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected errors: %v", c, errs)
		}
		if toks[0].Kind != token.KindBitStringLiteral {
			t.Fatalf("%q: expected bit string literal, got %v", c, toks[0])
		}
	}
}

func TestLexesExtendedIdentifier(t *testing.T) {
	toks, errs := Tokenize("t.vhd", `\my\\reg\ <= '0';`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.KindIdentifier || toks[0].Ident.Kind() != token.Extended {
		t.Fatalf("expected extended identifier, got %v", toks[0])
	}
	if toks[0].Ident.Text() != `my\reg` {
		t.Fatalf("got %q", toks[0].Ident.Text())
	}
}

func TestUnterminatedStringReportsErrorAndResyncs(t *testing.T) {
	toks, errs := Tokenize("t.vhd", `"abc
x := 1;`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	foundX := false
	for _, tok := range toks {
		if tok.Text == "x" {
			foundX = true
		}
	}
	if !foundX {
		t.Fatalf("expected lexer to resync and continue past the error, tokens: %v", toks)
	}
}

func TestUnterminatedBlockCommentErrors(t *testing.T) {
	_, errs := Tokenize("t.vhd", "/* never closes")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestInvalidCharacterReportsAndContinues(t *testing.T) {
	toks, errs := Tokenize("t.vhd", "a := 1; $ b := 2;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	// The source ends "b := 2;", so the trailing tokens are "2" then ";".
	n := len(toks)
	if n < 2 || toks[n-2].Text != "2" || toks[n-1].Text != ";" {
		t.Fatalf("expected lexer to continue to trailing tokens, got %v", toks)
	}
}

func TestPositionsAreTracked(t *testing.T) {
	toks, errs := Tokenize("t.vhd", "entity\nfoo is")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[1].Pos.Line != 2 {
		t.Fatalf("expected identifier on line 2, got %d", toks[1].Pos.Line)
	}
}
