package std

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
	"github.com/ardnew/pl2/semver"
)

// ID is the module id the language is registered under.
const ID = "std"

// Version is the version of the language this package implements.
var Version = semver.New(1, 1, 0)

// Errors reported by std commands.
var (
	ErrUsage  = lang.NewError(lang.CodeUser, "usage")
	ErrAssert = lang.NewError(lang.CodeUser+1, "assertion failed")
	ErrEval   = lang.NewError(lang.CodeUser+2, "expression")
	ErrLabel  = lang.NewError(lang.CodeUser+3, "label not found")
)

func init() {
	ext.Register(ID, Module(os.Stdout))
}

// Option configures a std module.
type Option func(*config)

type config struct {
	logger       log.Logger
	lineBuffered bool
}

// LineBuffered flushes output after every line instead of at exit.
func LineBuffered(enable bool) Option {
	return func(c *config) { c.lineBuffered = enable }
}

// WithLogger sets the logger used for flush failures.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Module returns a module whose language writes to w. Each load gets its
// own variables and output buffer.
func Module(w io.Writer, opts ...Option) ext.Symbols {
	cfg := config{logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return ext.Symbols{
		ext.LoadSymbol: ext.LoadFunc(func(v semver.Version) (*ext.Language, error) {
			if semver.Compare(v, Version) != semver.Equal && !semver.Compatible(v, Version) {
				return nil, lang.ErrLoadLanguage.Wrapf("std %s cannot serve %s", Version, v)
			}

			return newState(w, cfg).language(), nil
		}),
	}
}

type cacheKey struct {
	cmd *lang.Command
	arg int
}

// state is the user context of one loaded std language.
type state struct {
	out   *bufio.Writer
	vars  map[string]any
	cache map[cacheKey]*vm.Program
	mu    *sync.Mutex
	cfg   config
}

func newState(w io.Writer, cfg config) *state {
	return &state{
		out:   bufio.NewWriter(w),
		vars:  make(map[string]any),
		cache: make(map[cacheKey]*vm.Program),
		mu:    &sync.Mutex{},
		cfg:   cfg,
	}
}

func (s *state) language() *ext.Language {
	return &ext.Language{
		Name: ID,
		Info: "variables, expressions, and control flow",
		Init: func() (any, error) { return s, nil },
		AtExit: func(uc any) {
			if err := uc.(*state).flush(); err != nil {
				s.cfg.logger.Warn("flush output", slog.Any("error", err))
			}
		},
		Simple: []ext.SimpleCmd{
			{Name: "echo", Func: s.echo},
			{Name: "puts", Func: s.echo, Deprecated: true},
			{Name: "beep", Func: func([]string) { s.writeLine("\a") }, Removed: true},
		},
		Calls: []ext.CallCmd{
			{Name: "set", Func: set},
			{Name: "print", Func: emit},
			{Name: "label"},
			{Name: "goto", Func: jump},
			{Name: "if", Func: branch},
			{Name: "assert", Func: assert},
			{Name: "flush", Func: flush},
			{Name: "halt", Func: halt},
			{Name: "step", Router: isStep, Func: step},
		},
		Fallback: assign,
	}
}

func (s *state) writeLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.out.WriteString(line)
	_ = s.out.WriteByte('\n')

	if s.cfg.lineBuffered {
		_ = s.out.Flush()
	}
}

func (s *state) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.out.Flush()
}

func (s *state) echo(args []string) { s.writeLine(strings.Join(args, " ")) }

// eval compiles src once per command argument and runs it against the
// current variables.
func (s *state) eval(cmd *lang.Command, arg int, src string) (any, error) {
	key := cacheKey{cmd: cmd, arg: arg}

	prog, ok := s.cache[key]
	if !ok {
		var err error

		prog, err = expr.Compile(src, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, ErrEval.Wrap(err).With(slog.String("source", src))
		}

		s.cache[key] = prog
	}

	result, err := vm.Run(prog, s.vars)
	if err != nil {
		return nil, ErrEval.Wrap(err).With(slog.String("source", src))
	}

	return result, nil
}

func usage(cmd *lang.Command, form string) error {
	return ErrUsage.Wrapf("%s %s", cmd.Name, form)
}

// set name expr...
func set(_ context.Context, _ *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
	if cmd.Argc() < 2 || !isName(cmd.Arg(0)) {
		return ext.Continue(), usage(cmd, "<name> <expr>...")
	}

	s := uc.(*state)

	v, err := s.eval(cmd, 1, strings.Join(cmd.Args[1:], " "))
	if err != nil {
		return ext.Continue(), err
	}

	s.vars[cmd.Arg(0)] = v

	return ext.Continue(), nil
}

// print expr...
func emit(_ context.Context, _ *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
	s := uc.(*state)

	out := make([]string, len(cmd.Args))

	for i, arg := range cmd.Args {
		v, err := s.eval(cmd, i, arg)
		if err != nil {
			return ext.Continue(), err
		}

		out[i] = fmt.Sprint(v)
	}

	s.writeLine(strings.Join(out, " "))

	return ext.Continue(), nil
}

// goto label
func jump(_ context.Context, prog *lang.Program, _ any, cmd *lang.Command) (ext.Result, error) {
	if cmd.Argc() != 1 {
		return ext.Continue(), usage(cmd, "<label>")
	}

	return labelled(prog, cmd.Arg(0))
}

// if expr label
func branch(_ context.Context, prog *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
	if cmd.Argc() != 2 {
		return ext.Continue(), usage(cmd, "<expr> <label>")
	}

	v, err := uc.(*state).eval(cmd, 0, cmd.Arg(0))
	if err != nil {
		return ext.Continue(), err
	}

	if !truthy(v) {
		return ext.Continue(), nil
	}

	return labelled(prog, cmd.Arg(1))
}

func labelled(prog *lang.Program, name string) (ext.Result, error) {
	target := prog.Find(0, func(c *lang.Command) bool {
		return c.Name == "label" && c.Argc() == 1 && c.Arg(0) == name
	})
	if target == nil {
		return ext.Continue(), ErrLabel.Wrapf("%s", name)
	}

	return ext.JumpTo(target), nil
}

// assert expr [message...]
func assert(_ context.Context, _ *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
	if cmd.Argc() < 1 {
		return ext.Continue(), usage(cmd, "<expr> [message]...")
	}

	v, err := uc.(*state).eval(cmd, 0, cmd.Arg(0))
	if err != nil {
		return ext.Continue(), err
	}

	if truthy(v) {
		return ext.Continue(), nil
	}

	if cmd.Argc() > 1 {
		return ext.Continue(), ErrAssert.Wrapf("%s", strings.Join(cmd.Args[1:], " "))
	}

	return ext.Continue(), ErrAssert.Wrapf("%s", cmd.Arg(0))
}

func flush(_ context.Context, _ *lang.Program, uc any, _ *lang.Command) (ext.Result, error) {
	return ext.Continue(), uc.(*state).flush()
}

func halt(context.Context, *lang.Program, any, *lang.Command) (ext.Result, error) {
	return ext.Terminate(), nil
}

func isStep(name string) bool {
	return len(name) > 2 &&
		(strings.HasPrefix(name, "++") || strings.HasPrefix(name, "--")) &&
		isName(name[2:])
}

// ++name or --name
func step(_ context.Context, _ *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
	if cmd.Argc() != 0 {
		return ext.Continue(), usage(cmd, "")
	}

	s := uc.(*state)
	name := cmd.Name[2:]

	delta := 1
	if cmd.Name[0] == '-' {
		delta = -1
	}

	switch v := s.vars[name].(type) {
	case nil:
		s.vars[name] = delta
	case int:
		s.vars[name] = v + delta
	case float64:
		s.vars[name] = v + float64(delta)
	default:
		return ext.Continue(), ErrEval.Wrapf("%s is %T, not a number", name, v)
	}

	return ext.Continue(), nil
}

// assign handles "name=expr...". Anything else is not a std command.
func assign(_ context.Context, _ *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
	name, rhs, ok := strings.Cut(cmd.Name, "=")
	if !ok || !isName(name) {
		return ext.Terminate(), nil
	}

	src := strings.Join(append([]string{rhs}, cmd.Args...), " ")
	if strings.TrimSpace(src) == "" {
		return ext.Continue(), usage(cmd, "")
	}

	s := uc.(*state)

	v, err := s.eval(cmd, 0, src)
	if err != nil {
		return ext.Continue(), err
	}

	s.vars[name] = v

	return ext.Continue(), nil
}

func isName(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		c := s[i]

		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
