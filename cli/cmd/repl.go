package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/pl2/cli/cmd/repl"
	"github.com/ardnew/pl2/log"
)

// Repl starts the interactive console. When standard input is not a
// terminal it is run as a script instead.
type Repl struct {
	in  io.Reader
	out io.Writer

	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default().With(slog.String("command", "repl"))

	cfg := repl.Config{
		In:           r.in,
		Out:          r.out,
		Loader:       eng.Loader(logger),
		Logger:       logger,
		BufferSize:   eng.BufferSize,
		MessageLimit: eng.MessageLimit,
	}

	if !r.NoHistory {
		if ktx := kongContextFrom(ctx); ktx != nil {
			if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
				cfg.HistoryPath = filepath.Join(dir, repl.HistoryFile)
			}
		}
	}

	return repl.Run(ctx, cfg)
}
