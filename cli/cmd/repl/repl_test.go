package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
)

func TestRun_ScriptMode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		target error
	}{
		{
			name:  "runs input as a script",
			input: "language std 1.1.0\nset n 2\nprint 'n * 21'\n",
			want:  "42\n",
		},
		{
			name:  "block",
			input: "language std 1.1.0\n?begin\necho\n  x\n  y\n?end\n",
			want:  "x y\n",
		},
		{
			name:   "error",
			input:  "language std 1.1.0\necho ok\nfrob\n",
			want:   "ok\n",
			target: lang.ErrUnknownCommand,
		},
		{
			name:   "unclosed block",
			input:  "?begin\necho\n",
			target: lang.ErrUnclosedBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := Run(context.Background(), Config{
				In:     strings.NewReader(tt.input),
				Out:    &out,
				Logger: log.Logger{},
			})

			if tt.target == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if out.String() != tt.want {
				t.Errorf("expected output %q, got %q", tt.want, out.String())
			}
		})
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()

	for _, msg := range msgs {
		next, _ := m.Update(msg)

		var ok bool
		if m, ok = next.(model); !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}

	return m
}

func TestModel_CompleteAndExecute(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession()
	hist := NewHistory("")

	m := newModel(ctx, sess, hist, log.Logger{})

	m = press(t, m, runes("lang"))
	if len(m.matches) != 1 || m.matches[0].Str != "language" {
		t.Fatalf("expected language candidate, got %v", m.matches)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "language" {
		t.Fatalf("expected completed word, got %q", got)
	}

	m = press(t, m, runes(" std 1.1.0"), tea.KeyMsg{Type: tea.KeyEnter})

	if sess.Language() == nil {
		t.Fatal("expected language loaded by entry")
	}
	if m.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.input.Value())
	}
	if hist.Len() != 1 {
		t.Errorf("expected 1 history entry, got %d", hist.Len())
	}
}

func TestModel_History(t *testing.T) {
	hist := NewHistory("")
	for _, e := range []string{"first", "second"} {
		if err := hist.Add(e); err != nil {
			t.Fatal(err)
		}
	}

	m := newModel(context.Background(), newTestSession(), hist, log.Logger{})
	m = press(t, m, runes("draft"))

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	steps := []struct {
		key  tea.KeyMsg
		want string
	}{
		{up, "second"},
		{up, "first"},
		{up, "first"},
		{down, "second"},
		{down, "draft"},
	}

	for i, step := range steps {
		m = press(t, m, step.key)
		if got := m.input.Value(); got != step.want {
			t.Errorf("step %d: expected %q, got %q", i, step.want, got)
		}
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
	}{
		{"ctrl-d", []tea.Msg{tea.KeyMsg{Type: tea.KeyCtrlD}}},
		{"ctrl-c", []tea.Msg{tea.KeyMsg{Type: tea.KeyCtrlC}}},
		{"control word", []tea.Msg{runes(":quit"), tea.KeyMsg{Type: tea.KeyEnter}}},
		{"abort", []tea.Msg{runes("abort"), tea.KeyMsg{Type: tea.KeyEnter}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(context.Background(), newTestSession(), NewHistory(""), log.Logger{})

			m = press(t, m, tt.msgs...)
			if !m.quitting {
				t.Error("expected quitting")
			}
			if m.View() != "" {
				t.Error("expected empty view after quit")
			}
		})
	}
}

func TestModel_PendingBlock(t *testing.T) {
	sess := newTestSession()
	m := newModel(context.Background(), sess, NewHistory(""), log.Logger{})

	m = press(t, m, runes("?begin"), tea.KeyMsg{Type: tea.KeyEnter})
	if !sess.Pending() {
		t.Fatal("expected pending block")
	}
	if !strings.Contains(m.View(), "Block open") {
		t.Errorf("expected block hint in view:\n%s", m.View())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if sess.Pending() {
		t.Error("expected Esc to discard the block")
	}
}
