package lang

//go:generate go tool stringer --linecomment --type TokenKind --output token_string.go

import "log/slog"

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF    TokenKind = iota // eof
	TokenEOL                     // eol
	TokenWord                    // word
	TokenString                  // string
	TokenBegin                   // ?begin
	TokenEnd                     // ?end
)

// Token is a lexical unit. Words and strings reference their text in the
// lexer's arena by index; every other kind has Ref -1.
type Token struct {
	Kind TokenKind
	Ref  int
	Line uint
	Col  uint
}

// IsText reports whether t carries text (a word or a string).
func (t Token) IsText() bool {
	return t.Kind == TokenWord || t.Kind == TokenString
}

func (t Token) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("kind", t.Kind.String()),
		slog.Uint64("line", uint64(t.Line)),
		slog.Uint64("col", uint64(t.Col)),
	}
}
