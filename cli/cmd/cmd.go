package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pl2/engine"
	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"

	_ "github.com/ardnew/pl2/ext/std" // registers the std language
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Engine holds the flags shared by every command that parses or runs
// scripts.
type Engine struct {
	ModuleDir    []string `help:"Directory searched for extension modules (repeatable)." placeholder:"DIR"   short:"m" type:"path"`
	BufferSize   int      `default:"512"                                                 help:"Per-line token capacity."`
	MessageLimit int      `default:"512"                                                 help:"Maximum error message length in bytes (0 for no limit)."`
}

// ParseOptions returns the parser options selected by the flags.
func (e *Engine) ParseOptions(file string, logger log.Logger) []lang.Option {
	return []lang.Option{
		lang.WithFileName(file),
		lang.WithBufferSize(e.BufferSize),
		lang.WithMessageLimit(e.MessageLimit),
		lang.WithLogger(logger),
	}
}

// Loader returns the module loader: statically registered modules first,
// then plugins from the module directories and the search path.
func (e *Engine) Loader(logger log.Logger) ext.Loader {
	pl := ext.NewPluginLoader()
	pl.Dirs = e.ModuleDir
	pl.Logger = logger

	return ext.Loaders{ext.DefaultRegistry(), pl}
}

// RuntimeOptions returns the engine options selected by the flags.
func (e *Engine) RuntimeOptions(logger log.Logger) []engine.Option {
	return []engine.Option{
		engine.WithLoader(e.Loader(logger)),
		engine.WithLogger(logger),
		engine.WithMessageLimit(e.MessageLimit),
	}
}

// stdinScript is the script name that reads standard input.
const stdinScript = "-"

// openScript opens the named script, or stdin for "-". The returned name is
// the one reported in errors.
func openScript(path string) (r io.ReadCloser, name string, err error) {
	if path == stdinScript || path == "" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, path, ErrOpenScript.
			With(slog.String("path", path)).
			Wrap(err)
	}

	return f, path, nil
}

// parseScript reads and parses the named script.
func parseScript(
	ctx context.Context,
	path string,
	eng *Engine,
	logger log.Logger,
) (*lang.Program, error) {
	r, name, err := openScript(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return lang.ParseReader(ctx, r, eng.ParseOptions(name, logger)...)
}

// stdout returns w, or os.Stdout if w is nil.
func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
