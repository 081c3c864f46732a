package ext

import (
	"context"
	"errors"
	"strings"

	"github.com/ardnew/pl2/lang"
)

// Loader locates an extension module by id.
//
// A loader that does not know the id returns an error matching
// [lang.ErrModuleNotFound].
type Loader interface {
	Load(ctx context.Context, id string) (Module, error)
}

// Module resolves exported symbols by name.
//
// A module that also implements io.Closer is closed when the engine shuts
// down.
type Module interface {
	Lookup(symbol string) (any, error)
}

// ErrSymbolNotFound is returned by [Symbols.Lookup] for unknown names.
var ErrSymbolNotFound = lang.NewError(lang.CodeLoadLanguage, "symbol not found")

// Symbols is an in-process [Module] backed by a map.
type Symbols map[string]any

// Lookup implements [Module].
func (s Symbols) Lookup(symbol string) (any, error) {
	if v, ok := s[symbol]; ok && v != nil {
		return v, nil
	}

	return nil, ErrSymbolNotFound.Wrapf("%s", symbol)
}

// Loaders tries each loader in order and returns the first module found.
// Errors other than [lang.ErrModuleNotFound] stop the search.
type Loaders []Loader

// Load implements [Loader].
func (ls Loaders) Load(ctx context.Context, id string) (Module, error) {
	for _, l := range ls {
		if l == nil {
			continue
		}

		m, err := l.Load(ctx, id)
		if err == nil {
			return m, nil
		}

		if !errors.Is(err, lang.ErrModuleNotFound) {
			return nil, err
		}
	}

	return nil, lang.ErrModuleNotFound.Wrapf("%s", id)
}

// ValidID reports whether id can name a module: non-empty and free of path
// separators and NUL bytes.
func ValidID(id string) bool {
	return id != "" && id != "." && id != ".." &&
		!strings.ContainsAny(id, "/\\\x00")
}
