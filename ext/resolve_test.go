package ext

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/semver"
)

func TestResolve_Full(t *testing.T) {
	var requested semver.Version

	want := &Language{Name: "full"}
	mod := Symbols{
		LoadSymbol: LoadFunc(func(v semver.Version) (*Language, error) {
			requested = v

			return want, nil
		}),
		EasyLoadSymbol: EasyLoadFunc(func() []string { return nil }),
	}

	b, err := Resolve(context.Background(), mod, semver.MustParse("^1.2.3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owned, ok := b.(ModuleOwned)
	if !ok {
		t.Fatalf("expected ModuleOwned, got %T", b)
	}
	if owned.Language() != want {
		t.Error("expected the module's descriptor")
	}
	if requested.String() != "^1.2.3" {
		t.Errorf("expected requested version passed through, got %v", requested)
	}
}

func TestResolve_FullPointerSymbol(t *testing.T) {
	fn := LoadFunc(func(semver.Version) (*Language, error) { return &Language{}, nil })
	mod := Symbols{LoadSymbol: &fn}

	if _, err := Resolve(context.Background(), mod, semver.Zero()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolve_FullErrors(t *testing.T) {
	userErr := lang.NewError(lang.CodeUser+1, "needs newer host")
	plain := errors.New("plain failure")

	tests := []struct {
		name   string
		sym    any
		target error
	}{
		{
			name:   "wrong type",
			sym:    func() {},
			target: lang.ErrLoadLanguage,
		},
		{
			name:   "lang error kept",
			sym:    LoadFunc(func(semver.Version) (*Language, error) { return nil, userErr }),
			target: userErr,
		},
		{
			name:   "plain error wrapped",
			sym:    LoadFunc(func(semver.Version) (*Language, error) { return nil, plain }),
			target: plain,
		},
		{
			name:   "nil language",
			sym:    LoadFunc(func(semver.Version) (*Language, error) { return nil, nil }),
			target: lang.ErrLoadLanguage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), Symbols{LoadSymbol: tt.sym}, semver.Zero())
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestResolve_Easy(t *testing.T) {
	var calls []string

	mod := Symbols{
		EasyLoadSymbol: EasyLoadFunc(func() []string { return []string{"hi", "bye"} }),
		"ELhi":         func(args []string) { calls = append(calls, "hi") },
		"ELbye":        func(args []string) { calls = append(calls, "bye") },
	}

	b, err := Resolve(context.Background(), mod, semver.Zero())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owned, ok := b.(EngineOwned)
	if !ok {
		t.Fatalf("expected EngineOwned, got %T", b)
	}

	l := owned.Language()
	if l.Name != EasyName || l.Info != EasyInfo {
		t.Errorf("unexpected descriptor identity %q %q", l.Name, l.Info)
	}
	if l.Init != nil || l.AtExit != nil || l.Fallback != nil || len(l.Calls) != 0 {
		t.Error("expected only a simple table")
	}

	for _, name := range []string{"bye", "hi"} {
		c, ok := l.LookupSimple(name)
		if !ok {
			t.Fatalf("expected handler for %s", name)
		}
		c.Func(nil)
	}

	if !slices.Equal(calls, []string{"bye", "hi"}) {
		t.Errorf("expected handlers bound by prefix, got %v", calls)
	}
}

func TestResolve_EasyEmpty(t *testing.T) {
	mod := Symbols{EasyLoadSymbol: EasyLoadFunc(func() []string { return nil })}

	b, err := Resolve(context.Background(), mod, semver.Zero())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(b.Language().Names()); n != 0 {
		t.Errorf("expected empty table, got %d names", n)
	}
}

func TestResolve_EasyErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  Symbols
	}{
		{
			name: "missing handler",
			mod: Symbols{
				EasyLoadSymbol: EasyLoadFunc(func() []string { return []string{"hi", "gone"} }),
				"ELhi":         func([]string) {},
			},
		},
		{
			name: "handler of wrong type",
			mod: Symbols{
				EasyLoadSymbol: EasyLoadFunc(func() []string { return []string{"hi"} }),
				"ELhi":         func() {},
			},
		},
		{
			name: "empty name",
			mod: Symbols{
				EasyLoadSymbol: EasyLoadFunc(func() []string { return []string{""} }),
			},
		},
		{
			name: "entry point of wrong type",
			mod:  Symbols{EasyLoadSymbol: []string{"hi"}},
		},
		{
			name: "no entry point",
			mod:  Symbols{"other": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), tt.mod, semver.Zero())
			if !errors.Is(err, lang.ErrLoadLanguage) {
				t.Errorf("expected ErrLoadLanguage, got %v", err)
			}
		})
	}
}
