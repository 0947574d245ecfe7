package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/zephyrtronium/decexpr/log"
)

// logFormat configures the package logger's format as a side effect of
// parsing, so that errors during parsing are already formatted as requested.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the package logger's level as a side effect of
// parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"warn"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
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

// scan applies logger flags from args before kong parses them, so the
// logger is configured regardless of flag position. Level and format also
// apply during parsing through UnmarshalText, but boolean flags do not.
func (f *logConfig) scan(args []string) {
	flags := map[string]func(value string, assigned bool){
		"level": func(v string, _ bool) { _ = f.Level.UnmarshalText([]byte(v)) },
		"format": func(v string, _ bool) {
			_ = f.Format.UnmarshalText([]byte(v))
		},
		"time-layout": func(v string, _ bool) {
			f.TimeLayout = v
			log.Config(log.WithTimeLayout(v))
		},
		"pretty": func(v string, assigned bool) {
			if b, ok := boolFlag(v, assigned); ok {
				f.Pretty = b
				log.Config(log.WithPretty(b))
			}
		},
		"caller": func(v string, assigned bool) {
			if b, ok := boolFlag(v, assigned); ok {
				f.Caller = b
				log.Config(log.WithCaller(b))
			}
		},
	}
	boolean := map[string]bool{"pretty": true, "caller": true}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		negated := false
		name, ok := strings.CutPrefix(arg, "--log-")
		if !ok {
			name, ok = strings.CutPrefix(arg, "--no-log-")
			if !ok {
				continue
			}
			negated = true
		}

		name, value, assigned := strings.Cut(name, "=")
		apply := flags[name]
		if apply == nil || (negated && !boolean[name]) {
			continue
		}

		// Non-boolean flags take the next argument as the value unless
		// assigned with =.
		if !boolean[name] && !assigned && i+1 < len(args) &&
			!strings.HasPrefix(args[i+1], "-") {
			i++
			value, assigned = args[i], true
		}

		if negated {
			b, ok := boolFlag(value, assigned)
			if !ok {
				continue
			}
			value, assigned = strconv.FormatBool(!b), true
		}

		apply(value, assigned)
	}
}

// boolFlag interprets a boolean flag's value. A bare flag is true.
func boolFlag(value string, assigned bool) (bool, bool) {
	if !assigned {
		return true, true
	}

	b, err := strconv.ParseBool(value)

	return b, err == nil
}
