// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is configured once with functional options and then used as a
// value:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"))
//	logger.Info("ready", slog.Int("digits", 34))
//
// Besides the slog levels, there is [LevelTrace] below debug. Messages take
// [slog.Attr] values only, never alternating keys and values.
//
// The zero Logger discards all messages, so types may hold one without
// requiring their users to configure logging.
//
// The package functions log through a process-wide default logger that
// writes pretty text to standard error. [Config] reconfigures it.
package log
