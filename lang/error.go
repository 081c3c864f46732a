package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrorCode classifies an [Error]. Codes below [CodeUser] are reserved for
// the parser and engine; extensions raise codes at or above it.
type ErrorCode int

const (
	CodeNone             ErrorCode = 0
	CodeGeneral          ErrorCode = 1
	CodeParseBuffer      ErrorCode = 2
	CodeUnclosedString   ErrorCode = 3
	CodeUnclosedBlock    ErrorCode = 4
	CodeEmptyCommand     ErrorCode = 5
	CodeSemVer           ErrorCode = 6
	CodeUnknownDirective ErrorCode = 7
	CodeLoadLanguage     ErrorCode = 8
	CodeNoLanguage       ErrorCode = 9
	CodeUnknownCommand   ErrorCode = 10
	// CodeAlloc is never raised. Allocation failure panics.
	CodeAlloc ErrorCode = 11
	CodeUser  ErrorCode = 100
)

var codeNames = map[ErrorCode]string{
	CodeNone:             "none",
	CodeGeneral:          "general",
	CodeParseBuffer:      "parse-buffer",
	CodeUnclosedString:   "unclosed-string",
	CodeUnclosedBlock:    "unclosed-block",
	CodeEmptyCommand:     "empty-command",
	CodeSemVer:           "semver",
	CodeUnknownDirective: "unknown-directive",
	CodeLoadLanguage:     "load-language",
	CodeNoLanguage:       "no-language",
	CodeUnknownCommand:   "unknown-command",
	CodeAlloc:            "alloc",
	CodeUser:             "user",
}

func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}

	if c > CodeUser {
		return "user+" + strconv.Itoa(int(c-CodeUser))
	}

	return "code(" + strconv.Itoa(int(c)) + ")"
}

// Predefined errors (sentinel values).
//
// errors.Is matches a sentinel created with [newCodeError] against any error
// carrying the same code, so ErrLoadLanguage also matches ErrModuleNotFound.
// The remaining sentinels match only errors derived from themselves.
var (
	ErrGeneral          = newCodeError(CodeGeneral, "general error")
	ErrParseBuffer      = newCodeError(CodeParseBuffer, "token buffer exhausted")
	ErrUnclosedString   = newCodeError(CodeUnclosedString, "unclosed string literal")
	ErrUnclosedBlock    = newCodeError(CodeUnclosedBlock, "unclosed ?begin block")
	ErrEmptyCommand     = newCodeError(CodeEmptyCommand, "empty command")
	ErrSemVer           = newCodeError(CodeSemVer, "invalid version")
	ErrUnknownDirective = newCodeError(CodeUnknownDirective, "unknown directive")
	ErrLoadLanguage     = newCodeError(CodeLoadLanguage, "cannot load language")
	ErrNoLanguage       = newCodeError(CodeNoLanguage, "no language loaded")
	ErrUnknownCommand   = newCodeError(CodeUnknownCommand, "unknown command")
	ErrAlloc            = newCodeError(CodeAlloc, "allocation failure")
	ErrUser             = newCodeError(CodeUser, "user error")

	ErrUnexpectedChar = NewError(CodeGeneral, "unexpected character")
	ErrJumpTarget     = NewError(CodeGeneral, "jump target out of range")
	ErrModuleNotFound = NewError(CodeLoadLanguage, "extension module not found")
)

// DefaultMessageLimit is the default bound on the length of error text.
const DefaultMessageLimit = 512

// Error is a coded error with source location and optional structured
// logging attributes. It implements both error and slog.LogValuer.
//
// Builder methods never modify the receiver; each returns a new Error that
// still matches the receiver's sentinel with errors.Is.
type Error struct {
	// Extra holds arbitrary data attached by an extension.
	Extra any
	// File names the script the error was raised in.
	File string

	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	base  *Error      // Sentinel this error was derived from
	attrs []slog.Attr // Attributes for structured logging

	// Line is the 1-based script line, or 0 when unknown.
	Line  uint
	Code  ErrorCode
	limit int

	anyOfCode bool
}

// NewError creates a new Error with a code and message.
func NewError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, msg: msg}
}

func newCodeError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, msg: msg, anyOfCode: true}
}

// WrapError converts err into an Error. An error that already is (or wraps)
// an Error is returned unchanged; anything else is wrapped by [ErrUser].
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return ErrUser.Wrap(err)
}

// Error implements the error interface.
//
// The message has the form "<file>:<line>: <msg>: <cause>", omitting any
// part that is not set. Only the "<msg>: <cause>" part is subject to the
// limit set with [Error.Bound].
func (e *Error) Error() string {
	var sb strings.Builder

	if e.Line > 0 {
		if e.File != "" {
			sb.WriteString(e.File)
			sb.WriteByte(':')
		}

		sb.WriteString(strconv.FormatUint(uint64(e.Line), 10))
		sb.WriteString(": ")
	}

	sb.WriteString(bound(e.Reason(), e.limit))

	return sb.String()
}

// Reason returns the message and cause without location.
func (e *Error) Reason() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, or a
// code-wide sentinel with the same code. [ErrUser] matches every code at or
// above [CodeUser].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	if t.base != nil {
		t = t.base
	}

	if e == t || e.base == t {
		return true
	}

	if !t.anyOfCode {
		return false
	}

	if t.Code == CodeUser {
		return e.Code >= CodeUser
	}

	return t.Code == e.Code
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	attrs = append(attrs, slog.Int("code", int(e.Code)))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.File != "" {
		attrs = append(attrs, slog.String("file", e.File))
	}

	if e.Line > 0 {
		attrs = append(attrs, slog.Uint64("line", uint64(e.Line)))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns the structured attributes added with [Error.With].
func (e *Error) Attrs() []slog.Attr { return e.attrs }

func (e *Error) derive() *Error {
	c := *e
	if e.base == nil {
		c.base = e
	}

	c.anyOfCode = false

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// Wrapf creates a new Error wrapping a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// At sets the source location of the error.
func (e *Error) At(file string, line uint) *Error {
	c := e.derive()
	c.File, c.Line = file, line

	return c
}

// WithExtra attaches arbitrary data to the error.
func (e *Error) WithExtra(extra any) *Error {
	c := e.derive()
	c.Extra = extra

	return c
}

// Bound limits the reason text to at most n bytes. n <= 0 removes the limit.
func (e *Error) Bound(n int) *Error {
	c := e.derive()
	c.limit = n

	return c
}

func bound(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}

	// Keep the cut on a rune boundary.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
