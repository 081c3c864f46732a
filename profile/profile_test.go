package profile

import (
	"slices"
	"testing"
)

func TestProfiler_EmptyMode(t *testing.T) {
	s := Profiler{Path: t.TempDir()}.Start()
	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestProfiler_UnknownMode(t *testing.T) {
	s := Profiler{Mode: "nonsense", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestModes(t *testing.T) {
	modes := slices.Sorted(Modes())

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("expected no modes without the %s tag, got %v", Tag, modes)
		}

		return
	}

	for _, want := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(modes, want) {
			t.Errorf("expected %s in %v", want, modes)
		}
	}
}
