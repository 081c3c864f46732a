package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
)

// Names of the built-in directives.
const (
	LanguageDirective = "language"
	AbortDirective    = "abort"
)

// Runtime executes programs against at most one loaded language.
type Runtime struct {
	loader  ext.Loader
	binding ext.Binding
	module  ext.Module
	userCtx any
	logger  log.Logger
	limit   int
}

// Option configures a [Runtime].
type Option func(*Runtime)

// WithLoader sets the loader used by the language directive.
func WithLoader(loader ext.Loader) Option {
	return func(r *Runtime) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithLogger sets the logger for dispatch tracing and deprecation warnings.
func WithLogger(logger log.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// WithMessageLimit bounds the text of returned errors to n bytes.
// n <= 0 removes the bound.
func WithMessageLimit(n int) Option {
	return func(r *Runtime) { r.limit = n }
}

// DefaultLoader searches the default registry, then Go plugins in the
// current directory and PL2_PATH.
func DefaultLoader() ext.Loader {
	return ext.Loaders{ext.DefaultRegistry(), ext.NewPluginLoader()}
}

// New returns a Runtime with no language loaded.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		loader: DefaultLoader(),
		logger: log.Default(),
		limit:  lang.DefaultMessageLimit,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes prog on a new Runtime and closes it.
func Run(ctx context.Context, prog *lang.Program, opts ...Option) (err error) {
	r := New(opts...)

	defer func() { err = errors.Join(err, r.Close(ctx)) }()

	_, err = r.Exec(ctx, prog)

	return err
}

// Language returns the loaded language, or nil.
func (r *Runtime) Language() *ext.Language {
	if r.binding == nil {
		return nil
	}

	return r.binding.Language()
}

// Names returns the built-in directives and the names of the loaded
// language's commands, sorted.
func (r *Runtime) Names() []string {
	names := append([]string{AbortDirective, LanguageDirective}, r.Language().Names()...)
	slices.Sort(names)

	return slices.Compact(names)
}

// Close runs the language's exit hook, releases an engine-owned descriptor,
// and closes the module if it implements io.Closer. The Runtime can load a
// new language afterwards.
func (r *Runtime) Close(ctx context.Context) error {
	var err error

	if r.binding != nil {
		if l := r.binding.Language(); l != nil && l.AtExit != nil {
			l.AtExit(r.userCtx)
		}

		switch b := r.binding.(type) {
		case ext.EngineOwned:
			ext.Release(b)
			r.logger.DebugContext(ctx, "released language", slog.String("owner", "engine"))

		case ext.ModuleOwned:
			r.logger.DebugContext(ctx, "released language", slog.String("owner", "module"))
		}
	}

	if c, ok := r.module.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			err = lang.ErrGeneral.Wrap(cerr)
		}
	}

	r.binding, r.module, r.userCtx = nil, nil, nil

	return err
}
