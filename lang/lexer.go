package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// lexer produces tokens from a source buffer on demand. It never modifies
// the buffer; token text is copied into the arena.
type lexer struct {
	src   string
	arena *arena
	file  string
	pos   int
	line  uint
	col   uint // column of src[pos], 1-based
	bol   bool // at the beginning of a physical line
}

func newLexer(src, file string) *lexer {
	return &lexer{
		src:   src,
		arena: &arena{},
		file:  file,
		line:  1,
		col:   1,
		bol:   true,
	}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}

	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}

	return l.src[l.pos+off]
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
		l.bol = true
	} else {
		l.col++
	}

	l.pos++
}

func (l *lexer) errorf(e *Error, format string, args ...any) *Error {
	return e.At(l.file, l.line).Wrapf(format, args...)
}

func (l *lexer) token(kind TokenKind, ref int, line, col uint) Token {
	return Token{Kind: kind, Ref: ref, Line: line, Col: col}
}

// next returns the next token.
func (l *lexer) next() (Token, error) {
	if l.bol {
		l.bol = false

		if l.peek() == '?' {
			return l.directive()
		}
	}

	for {
		l.skipSpace()

		line, col := l.line, l.col

		switch c := l.peek(); {
		case l.eof():
			return l.token(TokenEOF, -1, line, col), nil

		case c == '\n':
			l.advance()

			return l.token(TokenEOL, -1, line, col), nil

		case c == '#':
			l.skipComment()

		case c == '"' || c == '\'':
			return l.quoted()

		case isIdentByte(c):
			return l.word(), nil

		default:
			return Token{}, l.errorf(ErrUnexpectedChar, "%s", strconv.QuoteRune(rune(c))).
				With(slog.Uint64("col", uint64(col)))
		}
	}
}

// directive reads "?name" at the start of a line.
func (l *lexer) directive() (Token, error) {
	line, col := l.line, l.col
	l.advance() // '?'

	start := l.pos
	for !l.eof() && isAlnum(l.peek()) {
		l.advance()
	}

	switch name := l.src[start:l.pos]; name {
	case "begin":
		return l.token(TokenBegin, -1, line, col), nil

	case "end":
		return l.token(TokenEnd, -1, line, col), nil

	default:
		return Token{}, l.errorf(ErrUnknownDirective, "?%s", name).
			With(slog.String("directive", name))
	}
}

func (l *lexer) skipSpace() {
	for !l.eof() && isSpace(l.peek()) {
		l.advance()
	}
}

// skipComment stops before the newline so it still ends the line.
func (l *lexer) skipComment() {
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *lexer) word() Token {
	line, col := l.line, l.col

	s := span{lo: l.pos}
	for !l.eof() && isIdentByte(l.peek()) {
		l.advance()
	}

	s.hi = l.pos

	return l.token(TokenWord, l.arena.internSpan(l.src, s), line, col)
}

// quoted reads a string opened by either quote and closed by the next
// unescaped quote of either kind, so "a' is the string a.
func (l *lexer) quoted() (Token, error) {
	line, col := l.line, l.col
	l.advance()

	var sb strings.Builder

	for {
		c := l.peek()

		switch {
		case l.eof() || c == '\n':
			return Token{}, l.errorf(ErrUnclosedString, "missing closing quote").
				With(slog.Uint64("col", uint64(col)))

		case c == '"' || c == '\'':
			l.advance()

			return l.token(TokenString, l.arena.intern(sb.String()), line, col), nil

		case c == '\\':
			e := l.peekAt(1)
			if l.pos+1 >= len(l.src) || e == '\n' {
				l.advance()

				continue
			}

			if r, ok := escapes[e]; ok {
				sb.WriteByte(r)
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(e)
			}

			l.advance()
			l.advance()

		default:
			sb.WriteByte(c)
			l.advance()
		}
	}
}

var escapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	'f':  '\f',
	'v':  '\v',
	't':  '\t',
	'a':  '\a',
	'"':  '"',
	'\'': '\'',
	'0':  0,
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\f', '\v', '\r':
		return true
	}

	return false
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isIdentByte reports whether c may appear in a bare word.
func isIdentByte(c byte) bool {
	if c >= 0x80 || isAlnum(c) {
		return true
	}

	return strings.IndexByte(identSymbols, c) >= 0
}

const identSymbols = `!$%^&*()-+_=[]{}|\:;',<>/?~@.`
