package parser

import "github.com/orbit-hdl/orbit/internal/vhdl/token"

// stream is a peekable cursor over a fixed token slice. PeekAt looks any
// number of tokens ahead; the parser uses up to two tokens of lookahead.
type stream struct {
	toks []token.Token
	i    int
}

func newStream(toks []token.Token) *stream { return &stream{toks: toks} }

func (s *stream) AtEnd() bool { return s.i >= len(s.toks) }

func (s *stream) Peek() token.Token { return s.PeekAt(0) }

func (s *stream) PeekAt(n int) token.Token {
	idx := s.i + n
	if idx < 0 || idx >= len(s.toks) {
		return token.Token{Kind: token.KindEOF}
	}
	return s.toks[idx]
}

func (s *stream) Next() token.Token {
	t := s.PeekAt(0)
	if s.i < len(s.toks) {
		s.i++
	}
	return t
}

func filterComments(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.KindComment {
			continue
		}
		out = append(out, t)
	}
	return out
}
