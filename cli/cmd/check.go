package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
)

// Output formats supported by check.
const (
	FormatNative = "native"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Check parses a script without running it and prints its commands.
type Check struct {
	out io.Writer

	Format string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})." short:"f"`
	Script string `arg:""           default:"-"             help:"Script file or '-' for stdin." name:"script"`
	Indent int    `default:"2"      help:"Indent width (0 for compact output)." short:"i"`
	Quiet  bool   `help:"Only report parse errors."  short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default().With(slog.String("command", "check"))

	prog, err := parseScript(ctx, c.Script, eng, logger)
	if err != nil {
		return err
	}

	if c.Quiet {
		return nil
	}

	return c.write(ctx, prog, stdout(c.out))
}

func (c *Check) write(ctx context.Context, prog *lang.Program, w io.Writer) error {
	var err error

	switch c.Format {
	case FormatNative, "":
		err = prog.Format(ctx, w, c.Indent)
	case FormatJSON:
		err = prog.FormatJSON(ctx, w, c.Indent)
	case FormatYAML:
		err = prog.FormatYAML(ctx, w, c.Indent)
	default:
		return ErrFormat.With(slog.String("format", c.Format))
	}

	if err != nil {
		return ErrWriteOutput.
			With(slog.String("format", c.Format)).
			Wrap(err)
	}

	return nil
}
