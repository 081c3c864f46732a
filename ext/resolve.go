package ext

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/semver"
)

// Entry point and handler symbol names.
const (
	LoadSymbol     = "LoadLanguageExtension"
	EasyLoadSymbol = "EasyLoadLanguageExtension"
	EasyPrefix     = "EL"
)

// Names given to languages synthesized from the easy entry point.
const (
	EasyName = "unknown"
	EasyInfo = "anonymous language loaded by ezload"
)

// LoadFunc is the type of the full entry point.
type LoadFunc = func(semver.Version) (*Language, error)

// EasyLoadFunc is the type of the easy entry point.
type EasyLoadFunc = func() []string

// Resolve binds the entry point of mod.
//
// The full entry point is preferred and yields a [ModuleOwned] binding.
// Otherwise the easy entry point yields an [EngineOwned] binding whose
// simple table has one entry per listed name. A module with neither entry
// point, an entry point of the wrong type, or an unresolved easy handler is
// an error matching [lang.ErrLoadLanguage].
func Resolve(
	_ context.Context,
	mod Module,
	version semver.Version,
) (Binding, error) {
	if sym, err := mod.Lookup(LoadSymbol); err == nil {
		return resolveFull(sym, version)
	}

	if sym, err := mod.Lookup(EasyLoadSymbol); err == nil {
		return resolveEasy(mod, sym)
	}

	return nil, lang.ErrLoadLanguage.Wrapf("module exports neither %s nor %s",
		LoadSymbol, EasyLoadSymbol)
}

func resolveFull(sym any, version semver.Version) (Binding, error) {
	load, ok := symbolAs[LoadFunc](sym)
	if !ok {
		return nil, lang.ErrLoadLanguage.Wrapf("%s has type %T", LoadSymbol, sym)
	}

	l, err := load(version)
	if err != nil {
		var e *lang.Error
		if errors.As(err, &e) {
			return nil, e
		}

		return nil, lang.ErrLoadLanguage.Wrap(err)
	}

	if l == nil {
		return nil, lang.ErrLoadLanguage.Wrapf("%s returned no language", LoadSymbol)
	}

	return ModuleOwned{Lang: l}, nil
}

func resolveEasy(mod Module, sym any) (Binding, error) {
	list, ok := symbolAs[EasyLoadFunc](sym)
	if !ok {
		return nil, lang.ErrLoadLanguage.Wrapf("%s has type %T", EasyLoadSymbol, sym)
	}

	names := list()

	l := &Language{
		Name:   EasyName,
		Info:   EasyInfo,
		Simple: make([]SimpleCmd, 0, len(names)),
	}

	for _, name := range names {
		if name == "" {
			return nil, lang.ErrLoadLanguage.Wrapf("%s listed an empty name", EasyLoadSymbol)
		}

		s, err := mod.Lookup(EasyPrefix + name)
		if err != nil {
			return nil, lang.ErrLoadLanguage.Wrap(err).
				With(slog.String("symbol", EasyPrefix+name))
		}

		fn, ok := symbolAs[func([]string)](s)
		if !ok {
			return nil, lang.ErrLoadLanguage.Wrapf("%s%s has type %T", EasyPrefix, name, s)
		}

		l.Simple = append(l.Simple, SimpleCmd{Name: name, Func: fn})
	}

	return EngineOwned{Lang: l}, nil
}

// symbolAs converts a looked-up symbol to F. Go plugins export functions as
// values and variables as pointers, so both forms are accepted.
func symbolAs[F any](sym any) (F, bool) {
	switch s := sym.(type) {
	case F:
		return s, true
	case *F:
		if s != nil {
			return *s, true
		}
	}

	var zero F

	return zero, false
}
