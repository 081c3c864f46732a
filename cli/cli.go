package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pl2/cli/cmd"
	"github.com/ardnew/pl2/pkg"
)

// CLI is the top-level command-line interface for pl2.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Engine cmd.Engine `embed:"" group:"engine"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run a script"`
	Check   cmd.Check   `cmd:""                   help:"Parse a script and print its commands"`
	Repl    cmd.Repl    `cmd:""                   help:"Start the interactive console"`
	Init    cmd.Init    `cmd:""                   help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                   help:"Print version information"`
}

// Run executes the pl2 CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		cmd.ModuleIdentifier: moduleDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that configuration and
	// parse errors are reported in the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{
			cli.Log.group(),
			cli.Pprof.group(),
			{Key: "engine", Title: "Engine options"},
		}),
		kong.PostBuild(cli.Pprof.hide),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.Bind(&cli.Engine),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolveTOML, configFilePath+".toml"),
		kong.Configuration(resolveNative(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Engine.ModuleDir = append(cli.Engine.ModuleDir, moduleDir())

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
