package repl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/pl2/engine"
	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/ext/std"
	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
)

// FileName is the file name reported in errors for interactive input.
const FileName = "<repl>"

// Result is the outcome of one submitted line.
type Result struct {
	// Output is what the running language wrote.
	Output string
	// Pending is set while a ?begin block is still open.
	Pending bool
	// Stopped is set when the entry ended through abort or halt.
	Stopped bool
}

// Session runs successive entries on one persistent [engine.Runtime], so a
// language loaded by one entry serves the ones after it.
type Session struct {
	rt      *engine.Runtime
	out     *bytes.Buffer
	logger  log.Logger
	parse   []lang.Option
	pending []string
	line    uint
}

// NewSession returns a Session. The built-in std language writes into the
// session output; other modules come from loader.
func NewSession(cfg Config) *Session {
	out := &bytes.Buffer{}

	local := ext.NewRegistry()
	local.Register(std.ID, std.Module(out, std.LineBuffered(true), std.WithLogger(cfg.Logger)))

	loaders := ext.Loaders{local}
	if cfg.Loader != nil {
		loaders = append(loaders, cfg.Loader)
	}

	return &Session{
		rt: engine.New(
			engine.WithLoader(loaders),
			engine.WithLogger(cfg.Logger),
			engine.WithMessageLimit(cfg.MessageLimit),
		),
		out:    out,
		logger: cfg.Logger,
		parse: []lang.Option{
			lang.WithFileName(FileName),
			lang.WithBufferSize(cfg.BufferSize),
			lang.WithLogger(cfg.Logger),
			lang.WithMessageLimit(cfg.MessageLimit),
		},
	}
}

// Names returns the builtin and active command names.
func (s *Session) Names() []string { return s.rt.Names() }

// Language returns the active language, or nil.
func (s *Session) Language() *ext.Language { return s.rt.Language() }

// Pending reports whether a ?begin block is open.
func (s *Session) Pending() bool { return len(s.pending) > 0 }

// Reset discards an open block.
func (s *Session) Reset() { s.pending = nil }

// Submit parses and runs one line of input. A line that leaves a ?begin
// block open is held until the block closes.
func (s *Session) Submit(ctx context.Context, line string) (Result, error) {
	s.pending = append(s.pending, line)
	s.line++

	src := strings.Join(s.pending, "\n")

	prog, err := lang.Parse(ctx, src, s.parse...)
	if errors.Is(err, lang.ErrUnclosedBlock) {
		return Result{Pending: true}, nil
	}

	s.pending = nil

	if err != nil {
		return Result{}, err
	}

	s.logger.TraceContext(ctx, "repl entry",
		slog.Uint64("entry", uint64(s.line)))

	return s.Exec(ctx, prog)
}

// Exec runs a parsed program on the session runtime.
func (s *Session) Exec(ctx context.Context, prog *lang.Program) (Result, error) {
	s.logger.TraceContext(ctx, "repl exec", slog.Int("commands", prog.Len()))

	stopped, err := s.rt.Exec(ctx, prog)

	return Result{Output: s.drain(), Stopped: stopped}, err
}

// Close shuts down the runtime and returns any output flushed on exit.
func (s *Session) Close(ctx context.Context) (string, error) {
	err := s.rt.Close(ctx)

	return s.drain(), err
}

func (s *Session) drain() string {
	out := s.out.String()
	s.out.Reset()

	return out
}
