// Package cmd provides the pl2 subcommands: run, check, repl, init, and
// version.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the native-format configuration file written by init.
	ConfigIdentifier = "config"

	// ModuleIdentifier is the kong variable identifier containing the
	// default extension module directory.
	ModuleIdentifier = "modules"
)
