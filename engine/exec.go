package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/semver"
)

// step is the outcome of dispatching one command.
type step struct {
	next int
	stop bool
}

// Exec runs prog from its first command. It reports stopped when the run
// ended through abort or a handler's Terminate rather than by running past
// the last command. A failed run returns an [*lang.Error] located at the
// failing command.
func (r *Runtime) Exec(ctx context.Context, prog *lang.Program) (stopped bool, err error) {
	for i := 0; i < prog.Len(); {
		cmd := prog.At(i)

		r.logger.TraceContext(ctx, "dispatch", slog.Any("command", cmd))

		s, err := r.dispatch(ctx, prog, cmd)
		if err != nil {
			return false, r.locate(prog, cmd, err)
		}

		if s.stop {
			return true, nil
		}

		i = s.next
	}

	return false, nil
}

func (r *Runtime) locate(prog *lang.Program, cmd *lang.Command, err error) error {
	e := lang.WrapError(err)
	if e.Line == 0 {
		e = e.At(prog.File, cmd.Line)
	}

	return e.Bound(r.limit)
}

func (r *Runtime) dispatch(
	ctx context.Context,
	prog *lang.Program,
	cmd *lang.Command,
) (step, error) {
	advance := step{next: cmd.Index + 1}

	switch cmd.Name {
	case LanguageDirective:
		return advance, r.load(ctx, cmd)

	case AbortDirective:
		return step{stop: true}, nil
	}

	l := r.Language()
	if l == nil {
		return step{}, lang.ErrNoLanguage.Wrapf("%s", cmd.Name)
	}

	if c, ok := l.LookupSimple(cmd.Name); ok {
		r.deprecated(ctx, c.Deprecated, cmd)

		if c.Func != nil {
			c.Func(cmd.CopyArgs())
		}

		return advance, nil
	}

	if c, ok := l.LookupCall(cmd.Name); ok {
		r.deprecated(ctx, c.Deprecated, cmd)

		if c.Func == nil {
			return advance, nil
		}

		res, err := c.Func(ctx, prog, r.userCtx, cmd)
		if err != nil {
			return step{}, err
		}

		return r.follow(prog, cmd, res)
	}

	if l.Fallback != nil {
		res, err := l.Fallback(ctx, prog, r.userCtx, cmd)
		if err != nil {
			return step{}, err
		}

		if res.Kind() == ext.KindTerminate {
			return step{}, lang.ErrUnknownCommand.Wrapf("%s", cmd.Name)
		}

		return r.follow(prog, cmd, res)
	}

	return step{}, lang.ErrUnknownCommand.Wrapf("%s", cmd.Name)
}

// follow applies a handler result.
func (r *Runtime) follow(prog *lang.Program, cmd *lang.Command, res ext.Result) (step, error) {
	switch res.Kind() {
	case ext.KindTerminate:
		return step{stop: true}, nil

	case ext.KindJump:
		if prog.At(res.Target()) == nil {
			return step{}, lang.ErrJumpTarget.Wrapf("%d not in [0, %d)", res.Target(), prog.Len()).
				With(slog.String("command", cmd.Name))
		}

		return step{next: res.Target()}, nil

	default:
		return step{next: cmd.Index + 1}, nil
	}
}

func (r *Runtime) deprecated(ctx context.Context, yes bool, cmd *lang.Command) {
	if yes {
		r.logger.WarnContext(ctx, "deprecated command",
			slog.String("command", cmd.Name),
			slog.Uint64("line", uint64(cmd.Line)))
	}
}

// load handles "language <id> <version>".
func (r *Runtime) load(ctx context.Context, cmd *lang.Command) error {
	if r.binding != nil {
		return lang.ErrLoadLanguage.Wrapf("language %s already loaded", r.binding.Language().Name)
	}

	if cmd.Argc() != 2 {
		return lang.ErrLoadLanguage.Wrapf("expected 2 arguments, got %d", cmd.Argc())
	}

	id := cmd.Arg(0)

	version, err := semver.Parse(cmd.Arg(1))
	if err != nil {
		return err
	}

	mod, err := r.loader.Load(ctx, id)
	if err != nil {
		return err
	}

	b, err := ext.Resolve(ctx, mod, version)
	if err != nil {
		if c, ok := mod.(io.Closer); ok {
			_ = c.Close()
		}

		return err
	}

	r.binding, r.module = b, mod

	l := b.Language()

	if l.Init != nil {
		uc, err := l.Init()
		if err != nil {
			return err
		}

		r.userCtx = uc
	}

	r.logger.DebugContext(ctx, "language loaded",
		slog.String("id", id),
		slog.String("name", l.Name),
		slog.String("version", version.String()))

	return nil
}
