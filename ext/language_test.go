package ext

import (
	"slices"
	"strings"
	"testing"
)

func TestLanguage_LookupSimple(t *testing.T) {
	l := &Language{
		Simple: []SimpleCmd{
			{Name: "beep", Removed: true},
			{Name: "echo"},
			{Name: "beep"},
			{},
			{Name: "hidden"},
		},
	}

	tests := []struct {
		name  string
		found bool
		index int
	}{
		{"echo", true, 1},
		{"beep", true, 2},
		{"hidden", false, -1},
		{"nope", false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := l.LookupSimple(tt.name)
			if ok != tt.found {
				t.Fatalf("expected found=%v, got %v", tt.found, ok)
			}
			if ok && c != &l.Simple[tt.index] {
				t.Errorf("expected entry %d, got %+v", tt.index, c)
			}
		})
	}
}

func TestLanguage_LookupCall(t *testing.T) {
	plusPlus := func(name string) bool { return strings.HasPrefix(name, "++") }

	l := &Language{
		Calls: []CallCmd{
			{Name: "goto", Removed: true},
			{Name: "incr", Router: plusPlus},
			{Name: "goto"},
			{},
			{Name: "after"},
		},
	}

	tests := []struct {
		name  string
		found bool
		index int
	}{
		{"goto", true, 2},
		{"++x", true, 1},
		{"incr", false, -1},
		{"after", false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := l.LookupCall(tt.name)
			if ok != tt.found {
				t.Fatalf("expected found=%v, got %v", tt.found, ok)
			}
			if ok && c != &l.Calls[tt.index] {
				t.Errorf("expected entry %d, got %+v", tt.index, c)
			}
		})
	}
}

func TestLanguage_Names(t *testing.T) {
	l := &Language{
		Simple: []SimpleCmd{{Name: "echo"}, {Name: "beep", Removed: true}, {Name: "puts"}},
		Calls: []CallCmd{
			{Name: "set"},
			{Name: "incr", Router: func(string) bool { return false }},
			{Name: "echo"},
			{},
			{Name: "late"},
		},
	}

	want := []string{"echo", "puts", "set"}
	if got := l.Names(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLanguage_NilTables(t *testing.T) {
	var l *Language

	if _, ok := l.LookupSimple("x"); ok {
		t.Error("expected no match on nil language")
	}
	if _, ok := l.LookupCall("x"); ok {
		t.Error("expected no match on nil language")
	}
	if len(l.Names()) != 0 {
		t.Error("expected no names on nil language")
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		r      Result
		kind   ResultKind
		target int
		str    string
	}{
		{Result{}, KindContinue, 0, "continue"},
		{Continue(), KindContinue, 0, "continue"},
		{Jump(4), KindJump, 4, "jump(4)"},
		{Terminate(), KindTerminate, 0, "terminate"},
	}

	for _, tt := range tests {
		if tt.r.Kind() != tt.kind || tt.r.Target() != tt.target || tt.r.String() != tt.str {
			t.Errorf("unexpected result %v: kind %v target %d", tt.r, tt.r.Kind(), tt.r.Target())
		}
	}
}

func TestRelease(t *testing.T) {
	engine := &Language{Simple: []SimpleCmd{{Name: "a"}}}
	module := &Language{Simple: []SimpleCmd{{Name: "a"}}}

	Release(EngineOwned{Lang: engine})
	Release(ModuleOwned{Lang: module})

	if engine.Simple != nil {
		t.Error("expected engine-owned tables released")
	}
	if len(module.Simple) != 1 {
		t.Error("expected module-owned tables untouched")
	}
}
