// Package cli contains the command line interface for pl2.
//
// # Usage
//
//	pl2 [flags] [run] <script>
//	pl2 [flags] check [--format=native|json|yaml] <script>
//	pl2 [flags] repl
//	pl2 [flags] init [--force]
//	pl2 version [--modules]
//
// A script named "-" is read from standard input.
//
// # Configuration
//
// Flag defaults are read from three files in the user configuration
// directory (for example ~/.config/pl2), in this order:
//
//   - config.json: a JSON object keyed by flag name with underscores
//   - config.toml: TOML keys or tables, e.g. [log] level = "debug"
//   - config: a script whose commands name a flag and its value
//
// The init command writes the current flag values to config:
//
//	log-level debug
//	module-dir /opt/pl2/modules
//	buffer-size 512
//
// Command-line flags override configuration files.
//
// # Engine Options
//
//   - --module-dir, -m: directory searched for extension modules
//     (repeatable; searched before $PL2_PATH and ~/.config/pl2/modules)
//   - --buffer-size: maximum tokens per command
//   - --message-limit: maximum error message length
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o pl2 .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/pl2/pprof)
package cli
