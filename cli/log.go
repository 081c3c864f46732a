package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pl2/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so errors reported during parsing already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"json"    enum:"${logFormatEnum}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before Kong parses them, so the
// logger is configured regardless of flag position. Boolean flags do not
// pass through encoding.TextUnmarshaler and are only applied here until
// [logConfig.start] runs.
func (f *logConfig) scan(args []string) {
	toggles := map[string]struct {
		field *bool
		apply func(bool) log.Option
	}{
		"pretty": {&f.Pretty, log.WithPretty},
		"caller": {&f.Caller, log.WithCaller},
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		negated := strings.HasPrefix(arg, "--no-log-")

		name, ok := strings.CutPrefix(arg, "--log-")
		if negated {
			name, ok = strings.CutPrefix(arg, "--no-log-")
		}

		if !ok {
			continue
		}

		name, value, assigned := strings.Cut(name, "=")

		if t, ok := toggles[name]; ok {
			enable := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				enable = v
			}

			if negated {
				enable = !enable
			}

			*t.field = enable

			log.Config(t.apply(enable))

			continue
		}

		if negated {
			continue
		}

		// Valued flags consume the next argument unless assigned inline.
		if !assigned && i+1 < len(args) && args[i+1] != "" && args[i+1][0] != '-' {
			value = args[i+1]
			i++
		}

		switch name {
		case "level":
			_ = f.Level.UnmarshalText([]byte(value))
		case "format":
			_ = f.Format.UnmarshalText([]byte(value))
		}
	}
}
