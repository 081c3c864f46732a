// Package log provides a concurrency-safe structured logger for pl2 built on
// [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("script loaded", slog.String("file", path))
//	logger.Warn("deprecated command", slog.String("command", name))
//
// # Configuration
//
// Loggers are configured with functional options at creation time, and an
// existing logger can be derived with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Default Logger
//
// The package-level functions ([Debug], [Info], [Warn], [Error] and their
// Context variants) write through a default logger that the command line
// reconfigures with [Config] as flags are parsed.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used by the parser and dispatch
// engine for per-token and per-command records.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With pretty printing enabled
// ([WithPretty]) both formats are colorized for terminals.
//
// The zero value of [Logger] discards everything, so components accept a
// Logger option and stay silent unless one is supplied.
package log
