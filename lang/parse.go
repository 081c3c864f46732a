package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/pl2/log"
)

// DefaultBufferSize is the default per-line token capacity.
const DefaultBufferSize = 512

// DefaultFileName is reported in errors when no file name is given.
const DefaultFileName = "<unknown-file>"

// ParseReader parses a Program from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrGeneral.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse parses a Program from script text.
//
// Commands are returned in script order. On error no Program is returned
// and the error is an [*Error] located at the offending line.
func Parse(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	p := &parser{
		lex:    newLexer(src, o.file),
		prog:   &Program{File: o.file},
		buf:    make([]Token, 0, min(o.bufferSize, 64)),
		cap:    o.bufferSize,
		logger: o.logger,
	}

	err := p.parse(ctx)
	if err != nil {
		return nil, WrapError(err).Bound(o.messageLimit)
	}

	p.logger.DebugContext(ctx, "parse complete",
		slog.String("file", o.file),
		slog.Int("commands", p.prog.Len()),
		slog.Int("tokens", p.lex.arena.len()))

	return p.prog, nil
}

// parser groups tokens into commands.
type parser struct {
	lex    *lexer
	prog   *Program
	logger log.Logger
	buf    []Token
	cap    int
	block  bool
}

func (p *parser) parse(ctx context.Context) error {
	for {
		tok, err := p.lex.next()
		if err != nil {
			return err
		}

		p.logger.TraceContext(ctx, "token", tok.attrs()...)

		switch tok.Kind {
		case TokenEOF:
			if p.block {
				return ErrUnclosedBlock.At(p.lex.file, tok.Line)
			}

			p.finish()

			return nil

		case TokenEOL:
			if !p.block {
				p.finish()
			}

		case TokenBegin:
			p.block = true

		case TokenEnd:
			p.block = false
			p.finish()

		case TokenWord, TokenString:
			if len(p.buf) >= p.cap {
				return ErrParseBuffer.At(p.lex.file, tok.Line).
					Wrapf("more than %d tokens", p.cap).
					With(slog.Int("capacity", p.cap))
			}

			p.buf = append(p.buf, tok)
		}
	}
}

// finish turns the buffered tokens into a command and clears the buffer.
func (p *parser) finish() {
	if len(p.buf) == 0 {
		return
	}

	name := p.lex.arena.at(p.buf[0].Ref)

	args := make([]string, len(p.buf)-1)
	for i, tok := range p.buf[1:] {
		args[i] = p.lex.arena.at(tok.Ref)
	}

	p.prog.append(name, args, p.buf[0].Line)
	p.buf = p.buf[:0]
}

// Option configures parsing.
type Option func(options) options

type options struct {
	logger       log.Logger
	file         string
	bufferSize   int
	messageLimit int
}

func makeOptions(opts ...Option) options {
	o := options{
		file:         DefaultFileName,
		bufferSize:   DefaultBufferSize,
		messageLimit: DefaultMessageLimit,
	}

	for _, opt := range opts {
		o = opt(o)
	}

	return o
}

// WithBufferSize sets the per-line token capacity. n <= 0 selects
// [DefaultBufferSize].
func WithBufferSize(n int) Option {
	return func(o options) options {
		if n <= 0 {
			n = DefaultBufferSize
		}

		o.bufferSize = n

		return o
	}
}

// WithFileName sets the file name reported in errors.
func WithFileName(name string) Option {
	return func(o options) options {
		if strings.TrimSpace(name) == "" {
			name = DefaultFileName
		}

		o.file = name

		return o
	}
}

// WithLogger sets the logger used for parse tracing.
func WithLogger(logger log.Logger) Option {
	return func(o options) options {
		o.logger = logger

		return o
	}
}

// WithMessageLimit bounds the text of returned errors to n bytes.
// n <= 0 removes the bound.
func WithMessageLimit(n int) Option {
	return func(o options) options {
		o.messageLimit = n

		return o
	}
}
