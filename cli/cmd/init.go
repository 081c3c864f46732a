package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
	"github.com/ardnew/pl2/profile"
)

// Init generates a native-format configuration file with the current flag
// values. Each flag becomes one command: its name followed by its value.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	prog := i.buildProgram(ctx)

	err = prog.Format(ctx, file, 0)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("flags", prog.Len()))

	return nil
}

// buildProgram constructs the config script from current flag values.
func (i *Init) buildProgram(ctx context.Context) *lang.Program {
	ktx := kongContextFrom(ctx)

	prog := &lang.Program{File: ConfigIdentifier}

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		args := flagArgs(ktx, flag)
		if args == nil {
			continue
		}

		prog.Commands = append(prog.Commands, &lang.Command{
			Name:  flag.Name,
			Args:  args,
			Index: len(prog.Commands),
			Line:  uint(len(prog.Commands) + 1),
		})
	}

	return prog
}

// flagArgs returns the command arguments for a flag's value, or nil if the
// flag is unset.
func flagArgs(ktx *kong.Context, flag *kong.Flag) []string {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool:
		return []string{strconv.FormatBool(v)}

	case string:
		if v == "" {
			return nil
		}

		return []string{v}

	case []string:
		if len(v) == 0 {
			return nil
		}

		return slices.Clone(v)

	default:
		s := fmt.Sprint(v)
		if s == "" {
			return nil
		}

		return []string{s}
	}
}
