package engine

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
	"github.com/ardnew/pl2/semver"
)

// recorder is the user context of the test language.
type recorder struct {
	calls   []string
	counter int
	exited  bool
}

func (rec *recorder) add(s string) { rec.calls = append(rec.calls, s) }

// closerModule records whether the engine closed it.
type closerModule struct {
	ext.Symbols
	closed bool
}

func (m *closerModule) Close() error {
	m.closed = true

	return nil
}

func testLanguage(rec *recorder) *ext.Language {
	return &ext.Language{
		Name: "test",
		Info: "engine test language",
		Init: func() (any, error) { return rec, nil },
		AtExit: func(uc any) {
			uc.(*recorder).exited = true
		},
		Simple: []ext.SimpleCmd{
			{Name: "say", Func: func(args []string) {
				rec.add("say " + strings.Join(args, ","))
				if len(args) > 0 {
					args[0] = "mutated"
				}
			}},
			{Name: "old", Deprecated: true, Func: func([]string) { rec.add("old") }},
			{Name: "gone", Removed: true, Func: func([]string) { rec.add("gone") }},
			{Name: "noop"},
		},
		Calls: []ext.CallCmd{
			{Name: "count", Func: func(_ context.Context, _ *lang.Program, uc any, _ *lang.Command) (ext.Result, error) {
				uc.(*recorder).counter++

				return ext.Continue(), nil
			}},
			{Name: "loop", Func: func(_ context.Context, prog *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
				if uc.(*recorder).counter >= 3 {
					return ext.Continue(), nil
				}

				target := prog.Find(0, func(c *lang.Command) bool { return c.Name == "count" })

				return ext.JumpTo(target), nil
			}},
			{Name: "stop", Func: func(context.Context, *lang.Program, any, *lang.Command) (ext.Result, error) {
				return ext.Terminate(), nil
			}},
			{Name: "far", Func: func(context.Context, *lang.Program, any, *lang.Command) (ext.Result, error) {
				return ext.Jump(99), nil
			}},
			{Name: "fail", Func: func(_ context.Context, _ *lang.Program, _ any, cmd *lang.Command) (ext.Result, error) {
				return ext.Continue(), errors.New("handler failed: " + cmd.Arg(0))
			}},
			{Name: "raise", Func: func(context.Context, *lang.Program, any, *lang.Command) (ext.Result, error) {
				return ext.Continue(), lang.NewError(lang.CodeUser+2, "raised").At("elsewhere.pl2", 42)
			}},
			{Name: "mark"},
			{Name: "legacy", Deprecated: true},
			{Name: "bang", Router: func(name string) bool { return strings.HasPrefix(name, "!") },
				Func: func(_ context.Context, _ *lang.Program, uc any, cmd *lang.Command) (ext.Result, error) {
					uc.(*recorder).add("bang " + cmd.Name)

					return ext.Continue(), nil
				}},
			{Name: "unused", Removed: true, Func: func(context.Context, *lang.Program, any, *lang.Command) (ext.Result, error) {
				return ext.Terminate(), nil
			}},
		},
	}
}

func testLoader(rec *recorder, mod *closerModule) ext.Loader {
	if mod.Symbols == nil {
		mod.Symbols = ext.Symbols{}
	}

	mod.Symbols[ext.LoadSymbol] = ext.LoadFunc(func(v semver.Version) (*ext.Language, error) {
		if v.Major != 1 {
			return nil, lang.ErrLoadLanguage.Wrapf("unsupported version %s", v)
		}

		return testLanguage(rec), nil
	})

	reg := ext.NewRegistry()
	reg.Register("test", mod)

	return reg
}

func parse(t *testing.T, src string) *lang.Program {
	t.Helper()

	prog, err := lang.Parse(context.Background(), src, lang.WithFileName("test.pl2"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return prog
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
		line   uint
	}{
		{"no language", "say hi", lang.ErrNoLanguage, 1},
		{"second language", "language test 1.0.0\nlanguage test 1.0.0", lang.ErrLoadLanguage, 2},
		{"language argc", "\nlanguage test", lang.ErrLoadLanguage, 2},
		{"language too many args", "language test 1.0.0 extra", lang.ErrLoadLanguage, 1},
		{"language bad version", "\n\nlanguage test 1.x", lang.ErrSemVer, 3},
		{"module not found", "language nope 1.0.0", lang.ErrModuleNotFound, 1},
		{"module refuses version", "language test 2.0.0", lang.ErrLoadLanguage, 1},
		{"unknown command", "language test 1.0.0\n\nfrob", lang.ErrUnknownCommand, 3},
		{"removed simple command", "language test 1.0.0\ngone", lang.ErrUnknownCommand, 2},
		{"removed call command", "language test 1.0.0\nunused", lang.ErrUnknownCommand, 2},
		{"jump out of range", "language test 1.0.0\nfar", lang.ErrJumpTarget, 2},
		{"plain handler error", "language test 1.0.0\nfail why", lang.ErrUser, 2},
		{"extension error keeps location", "language test 1.0.0\nraise", lang.ErrUser, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := Run(context.Background(), parse(t, tt.src),
				WithLoader(testLoader(rec, &closerModule{})), WithLogger(log.Logger{}))

			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}

			var e *lang.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *lang.Error, got %T", err)
			}
			if e.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, e.Line)
			}
		})
	}
}

func TestRun_UnknownCommandMessage(t *testing.T) {
	err := Run(context.Background(), parse(t, "language test 1.0.0\nfrob"),
		WithLoader(testLoader(&recorder{}, &closerModule{})), WithLogger(log.Logger{}))

	if got, want := err.Error(), "test.pl2:2: unknown command: frob"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRun_MessageLimit(t *testing.T) {
	err := Run(context.Background(), parse(t, "language test 1.0.0\nfrob"),
		WithLoader(testLoader(&recorder{}, &closerModule{})),
		WithLogger(log.Logger{}), WithMessageLimit(4))

	if got, want := err.Error(), "test.pl2:2: unkn"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRun_BackwardJump(t *testing.T) {
	rec := &recorder{}
	src := "language test 1.0.0\nmark\ncount\nloop\nsay done"

	err := Run(context.Background(), parse(t, src),
		WithLoader(testLoader(rec, &closerModule{})), WithLogger(log.Logger{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.counter != 3 {
		t.Errorf("expected counter 3, got %d", rec.counter)
	}
	if !slices.Equal(rec.calls, []string{"say done"}) {
		t.Errorf("unexpected calls %v", rec.calls)
	}
}

func TestRuntime_Stops(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		stopped bool
		calls   []string
	}{
		{"abort", "abort\nsay never", true, nil},
		{"abort without language", "abort\nfrob", true, nil},
		{"abort after commands", "language test 1.0.0\nsay a\nabort\nsay b", true, []string{"say a"}},
		{"terminate", "language test 1.0.0\nsay a\nstop\nsay b", true, []string{"say a"}},
		{"run off end", "language test 1.0.0\nsay a b\nnoop\nmark", false, []string{"say a,b"}},
		{"router", "language test 1.0.0\n!x\n!y", false, []string{"bang !x", "bang !y"}},
		{"empty", "", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r := New(WithLoader(testLoader(rec, &closerModule{})), WithLogger(log.Logger{}))

			stopped, err := r.Exec(context.Background(), parse(t, tt.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stopped != tt.stopped {
				t.Errorf("expected stopped=%v, got %v", tt.stopped, stopped)
			}
			if !slices.Equal(rec.calls, tt.calls) {
				t.Errorf("expected calls %v, got %v", tt.calls, rec.calls)
			}

			if err := r.Close(context.Background()); err != nil {
				t.Errorf("close: %v", err)
			}
		})
	}
}

func TestRuntime_SimpleArgsAreCopies(t *testing.T) {
	prog := parse(t, "language test 1.0.0\nsay keep")

	err := Run(context.Background(), prog,
		WithLoader(testLoader(&recorder{}, &closerModule{})), WithLogger(log.Logger{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := prog.At(1).Arg(0); got != "keep" {
		t.Errorf("expected program args untouched, got %q", got)
	}
}

func TestRuntime_DeprecatedWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Make(&buf, log.WithPretty(false), log.WithFormat(log.FormatJSON))

	err := Run(context.Background(), parse(t, "language test 1.0.0\nold\nlegacy"),
		WithLoader(testLoader(&recorder{}, &closerModule{})), WithLogger(logger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "deprecated command"); n != 2 {
		t.Errorf("expected 2 warnings, got %d:\n%s", n, out)
	}
	for _, want := range []string{`"command":"old"`, `"command":"legacy"`, `"line":2`, `"level":"WARN"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in:\n%s", want, out)
		}
	}
}

func TestRuntime_Lifecycle(t *testing.T) {
	rec := &recorder{}
	mod := &closerModule{}
	r := New(WithLoader(testLoader(rec, mod)), WithLogger(log.Logger{}))

	if r.Language() != nil {
		t.Fatal("expected no language before load")
	}

	if _, err := r.Exec(context.Background(), parse(t, "language test 1.0.0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Language() == nil || r.Language().Name != "test" {
		t.Fatalf("expected test language, got %v", r.Language())
	}

	// The language persists across programs.
	if _, err := r.Exec(context.Background(), parse(t, "say again")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := r.Names()
	for _, want := range []string{"abort", "language", "say", "old", "count", "mark"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected %s in %v", want, names)
		}
	}
	if slices.Contains(names, "gone") {
		t.Errorf("removed command listed in %v", names)
	}

	l := r.Language()

	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(l.Simple) == 0 || len(l.Calls) == 0 {
		t.Error("expected module-owned tables untouched")
	}
	if !rec.exited {
		t.Error("expected AtExit to run with the user context")
	}
	if !mod.closed {
		t.Error("expected module closed")
	}
	if r.Language() != nil {
		t.Error("expected no language after Close")
	}
}

func TestRuntime_InitFailure(t *testing.T) {
	initErr := errors.New("cannot init")
	exited := false

	reg := ext.NewRegistry()
	reg.Register("bad", ext.Symbols{
		ext.LoadSymbol: ext.LoadFunc(func(semver.Version) (*ext.Language, error) {
			return &ext.Language{
				Init:   func() (any, error) { return nil, initErr },
				AtExit: func(any) { exited = true },
				Simple: []ext.SimpleCmd{{Name: "x"}},
			}, nil
		}),
	})

	err := Run(context.Background(), parse(t, "\nlanguage bad 1.0.0\nx"),
		WithLoader(reg), WithLogger(log.Logger{}))

	if !errors.Is(err, initErr) {
		t.Fatalf("expected init error, got %v", err)
	}

	var e *lang.Error
	if !errors.As(err, &e) || e.Line != 2 {
		t.Errorf("expected error at line 2, got %v", err)
	}
	if !exited {
		t.Error("expected AtExit after failed init")
	}
}

func TestRuntime_EasyLoadRelease(t *testing.T) {
	var got []string

	reg := ext.NewRegistry()
	reg.Register("ez", ext.Symbols{
		ext.EasyLoadSymbol: ext.EasyLoadFunc(func() []string { return []string{"hello"} }),
		"ELhello":          func(args []string) { got = append(got, args...) },
	})

	r := New(WithLoader(reg), WithLogger(log.Logger{}))

	if _, err := r.Exec(context.Background(), parse(t, "language ez 0.0.1\nhello a b")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}

	l := r.Language()
	if l.Name != ext.EasyName {
		t.Errorf("expected %q, got %q", ext.EasyName, l.Name)
	}

	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if l.Simple != nil {
		t.Error("expected engine-owned descriptor released")
	}
}

func TestRuntime_Fallback(t *testing.T) {
	var seen []string

	reg := ext.NewRegistry()
	reg.Register("fb", ext.Symbols{
		ext.LoadSymbol: ext.LoadFunc(func(semver.Version) (*ext.Language, error) {
			return &ext.Language{
				Fallback: func(_ context.Context, _ *lang.Program, _ any, cmd *lang.Command) (ext.Result, error) {
					seen = append(seen, cmd.Name)
					if strings.Contains(cmd.Name, "=") {
						return ext.Continue(), nil
					}

					return ext.Terminate(), nil
				},
			}, nil
		}),
	})

	err := Run(context.Background(), parse(t, "language fb 1.0.0\na=1\nb=2\nfrob\nc=3"),
		WithLoader(reg), WithLogger(log.Logger{}))

	if !errors.Is(err, lang.ErrUnknownCommand) {
		t.Fatalf("expected fallback Terminate to be unknown command, got %v", err)
	}

	var e *lang.Error
	if errors.As(err, &e) && e.Line != 4 {
		t.Errorf("expected line 4, got %d", e.Line)
	}
	if !slices.Equal(seen, []string{"a=1", "b=2", "frob"}) {
		t.Errorf("unexpected fallback calls %v", seen)
	}
}
