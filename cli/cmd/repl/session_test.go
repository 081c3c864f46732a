package repl

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
)

func newTestSession() *Session {
	return NewSession(Config{Logger: log.Logger{}})
}

func TestSession_PersistsLanguage(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()

	steps := []struct {
		line string
		want string
	}{
		{"language std 1.1.0", ""},
		{"x=20", ""},
		{"++x", ""},
		{"print x", "21\n"},
		{"echo hi there", "hi there\n"},
	}

	for _, step := range steps {
		res, err := s.Submit(ctx, step.line)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", step.line, err)
		}
		if res.Output != step.want {
			t.Errorf("%q: expected output %q, got %q", step.line, step.want, res.Output)
		}
	}

	if l := s.Language(); l == nil || l.Name != "std" {
		t.Errorf("expected std language, got %v", l)
	}

	if _, err := s.Close(ctx); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestSession_Block(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()

	if _, err := s.Submit(ctx, "language std 1.1.0"); err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{"?begin", "echo", "a", "b"} {
		res, err := s.Submit(ctx, line)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", line, err)
		}
		if !res.Pending || !s.Pending() {
			t.Fatalf("%q: expected pending block", line)
		}
	}

	res, err := s.Submit(ctx, "?end")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pending || s.Pending() {
		t.Error("expected block closed")
	}
	if res.Output != "a b\n" {
		t.Errorf("expected %q, got %q", "a b\n", res.Output)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession()

	if _, err := s.Submit(context.Background(), "?begin"); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if s.Pending() {
		t.Error("expected no pending block after Reset")
	}
}

func TestSession_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()

	_, err := s.Submit(ctx, "echo early")
	if !errors.Is(err, lang.ErrNoLanguage) {
		t.Errorf("expected ErrNoLanguage, got %v", err)
	}

	_, err = s.Submit(ctx, `echo "open`)
	if !errors.Is(err, lang.ErrUnclosedString) {
		t.Errorf("expected ErrUnclosedString, got %v", err)
	}
	if s.Pending() {
		t.Error("expected failed entry discarded")
	}

	// The session survives errors.
	if _, err := s.Submit(ctx, "language std 1.1.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.Submit(ctx, "nonsense")
	if !errors.Is(err, lang.ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestSession_Stopped(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()

	steps := []struct {
		line    string
		stopped bool
	}{
		{"language std 1.1.0", false},
		{"echo x", false},
		{"halt", true},
		{"abort", true},
	}

	for _, step := range steps {
		res, err := s.Submit(ctx, step.line)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", step.line, err)
		}
		if res.Stopped != step.stopped {
			t.Errorf("%q: expected stopped=%v, got %v", step.line, step.stopped, res.Stopped)
		}
	}
}

func TestSession_Names(t *testing.T) {
	s := newTestSession()

	names := s.Names()
	if !slices.Contains(names, "language") || !slices.Contains(names, "abort") {
		t.Errorf("expected builtins in %v", names)
	}

	if _, err := s.Submit(context.Background(), "language std 1.1.0"); err != nil {
		t.Fatal(err)
	}

	if names := s.Names(); !slices.Contains(names, "echo") {
		t.Errorf("expected echo in %v", names)
	}
}
