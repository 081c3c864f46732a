package ext

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
	"github.com/ardnew/pl2/pkg"
)

// FileName returns the conventional plugin file name for a module id.
func FileName(id string) string { return "lib" + id + ".so" }

// PluginLoader loads modules built with -buildmode=plugin.
//
// A module with id "x" is the file libx.so in the first directory of the
// search path that contains it. The search path is Dirs followed by the
// directories listed in the PL2_PATH environment variable. With no Dirs,
// the current directory is searched first.
type PluginLoader struct {
	Logger log.Logger
	// Getenv reads PL2_PATH. It defaults to os.Getenv.
	Getenv func(string) string
	// Open opens a plugin file. It defaults to [OpenPlugin].
	Open func(path string) (Module, error)
	Dirs []string
}

// NewPluginLoader returns a loader searching dirs.
func NewPluginLoader(dirs ...string) *PluginLoader {
	return &PluginLoader{Dirs: dirs}
}

// SearchPath returns the list of directories searched, in order, with
// duplicates and empty entries removed.
func (l *PluginLoader) SearchPath() []string {
	dirs := l.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	sep := string(os.PathListSeparator)

	// mung reverses separate prefix items but keeps the order inside one.
	joined := mung.Make(
		mung.WithSubjectItems(getenv(pkg.PathEnv)),
		mung.WithDelim(sep),
		mung.WithPrefixItems(strings.Join(dirs, sep)),
		mung.WithFilter(func(dir string) bool { return dir != "" }),
	).String()

	return filepath.SplitList(joined)
}

// Load implements [Loader].
func (l *PluginLoader) Load(ctx context.Context, id string) (Module, error) {
	if !ValidID(id) {
		return nil, lang.ErrLoadLanguage.Wrapf("invalid module id %q", id)
	}

	open := l.Open
	if open == nil {
		open = OpenPlugin
	}

	name := FileName(id)

	for _, dir := range l.SearchPath() {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				l.Logger.DebugContext(ctx, "skip module path",
					slog.String("path", path), slog.Any("error", err))
			}

			continue
		}

		l.Logger.DebugContext(ctx, "open module",
			slog.String("id", id), slog.String("path", path))

		mod, err := open(path)
		if err != nil {
			return nil, lang.ErrLoadLanguage.Wrap(err).
				With(slog.String("path", path))
		}

		return mod, nil
	}

	return nil, lang.ErrModuleNotFound.Wrapf("%s", name)
}

// pluginModule adapts a Go plugin to [Module].
type pluginModule struct {
	p    *plugin.Plugin
	path string
}

// OpenPlugin opens the Go plugin at path.
func OpenPlugin(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}

	return &pluginModule{p: p, path: path}, nil
}

func (m *pluginModule) Lookup(symbol string) (any, error) {
	sym, err := m.p.Lookup(symbol)
	if err != nil {
		return nil, ErrSymbolNotFound.Wrap(err).With(slog.String("path", m.path))
	}

	return sym, nil
}
