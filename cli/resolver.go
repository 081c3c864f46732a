package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"

	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
)

// resolveNative returns a [kong.ConfigurationLoader] for configuration files
// written as scripts. Each command sets the flag it names:
//
//	log-level debug
//	module-dir /opt/pl2/modules /usr/local/lib/pl2
//	log-pretty false
//
// A command without arguments sets a boolean flag. A command with several
// arguments sets a repeatable flag. Later commands override earlier ones.
// A file that does not parse is reported and ignored.
func resolveNative(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.ParseReader(ctx, r,
			lang.WithFileName(baseConfig),
			lang.WithLogger(log.Default()))
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config, prog.Len())

		for _, cmd := range prog.All() {
			switch cmd.Argc() {
			case 0:
				cfg[cmd.Name] = "true"
			case 1:
				cfg[cmd.Name] = cmd.Arg(0)
			default:
				list := make([]any, cmd.Argc())
				for i, arg := range cmd.Args {
					list[i] = arg
				}

				cfg[cmd.Name] = list
			}
		}

		return cfg, nil
	}
}

// resolveTOML is a [kong.ConfigurationLoader] for TOML configuration files.
// Tables name flag prefixes, so these are equivalent:
//
//	log-level = "debug"
//
//	[log]
//	level = "debug"
func resolveTOML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	cfg := make(config, len(doc))
	cfg.flatten("", doc)

	return cfg, nil
}

func (c config) flatten(prefix string, table map[string]any) {
	for key, val := range table {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := val.(type) {
		case map[string]any:
			c.flatten(key, v)
		case []any:
			list := make([]any, len(v))
			for i, e := range v {
				list[i] = scalar(e)
			}

			c[key] = list
		default:
			c[key] = scalar(v)
		}
	}
}

// scalar converts a decoded value to the form Kong's mappers accept.
// Numbers are formatted as strings so that any numeric flag type can parse
// them.
func scalar(v any) any {
	switch v := v.(type) {
	case string, bool:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Keys may spell the flag name with
// hyphens or underscores.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
