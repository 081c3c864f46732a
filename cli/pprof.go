package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pl2/log"
	"github.com/ardnew/pl2/profile"
)

// pprofConfig selects a profile to record. Its flags are hidden unless the
// binary was built with the pprof tag.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling" placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}" help:"Profile output directory" type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(slices.Sorted(profile.Modes()), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: profile.Tag, Title: "Profiling (pprof)"}
}

// hide marks the profiling flags hidden when profiling is not compiled in.
func (pprofConfig) hide(k *kong.Kong) error {
	if profile.Enabled {
		return nil
	}

	for _, flag := range k.Model.Flags {
		if flag.Group != nil && flag.Group.Key == profile.Tag {
			flag.Hidden = true
		}
	}

	return nil
}

// start starts profiling if configured.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	if !profile.Enabled {
		log.WarnContext(ctx, "profiling not available in this build",
			slog.String("mode", f.Mode),
			slog.String("tag", profile.Tag))

		return func() {}
	}

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	profiler := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}.Start()

	return func() {
		log.DebugContext(ctx, "pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
		profiler.Stop()
	}
}
