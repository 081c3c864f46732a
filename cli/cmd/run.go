package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/pl2/engine"
	"github.com/ardnew/pl2/log"
)

// Run parses a script and executes it.
type Run struct {
	Script string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"script"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default().With(slog.String("command", "run"))

	prog, err := parseScript(ctx, r.Script, eng, logger)
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "script parsed",
		slog.String("file", prog.File),
		slog.Int("commands", prog.Len()))

	return engine.Run(ctx, prog, eng.RuntimeOptions(logger)...)
}
