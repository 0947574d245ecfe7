package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestZeroLogger(t *testing.T) {
	var l Logger
	// None of these may panic.
	l.Trace("x")
	l.Debug("x", slog.Int("n", 1))
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l = l.With(slog.String("k", "v")).Wrap(WithLevel(LevelTrace))
	l.Info("x")
	if l.Enabled(context.Background(), LevelError) {
		t.Error("zero logger claims to be enabled")
	}
	if l.Level() != DefaultLevel {
		t.Errorf("wrong level: want %v, got %v", DefaultLevel, l.Level())
	}
}

func TestLevels(t *testing.T) {
	cases := []struct {
		level Level
		logs  []string
	}{
		{LevelTrace, []string{"trace", "debug", "info", "warn", "error"}},
		{LevelDebug, []string{"debug", "info", "warn", "error"}},
		{LevelInfo, []string{"info", "warn", "error"}},
		{LevelWarn, []string{"warn", "error"}},
		{LevelError, []string{"error"}},
	}
	for _, c := range cases {
		t.Run(c.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := Make(&buf, WithLevel(c.level), WithTimeLayout("none"))
			l.Trace("trace")
			l.Debug("debug")
			l.Info("info")
			l.Warn("warn")
			l.Error("error")
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(c.logs) {
				t.Fatalf("wrong number of lines: want %d, got %q", len(c.logs), lines)
			}
			for i, msg := range c.logs {
				if !strings.Contains(lines[i], "msg="+msg) {
					t.Errorf("line %d should have message %q, got %q", i, msg, lines[i])
				}
				if !strings.Contains(lines[i], "level="+strings.ToUpper(msg)) {
					t.Errorf("line %d should have level %q, got %q", i, strings.ToUpper(msg), lines[i])
				}
			}
		})
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelTrace))
	l.With(slog.String("component", "engine")).Trace("eval", slog.String("result", "6"))
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, buf.Bytes())
	}
	want := map[string]any{"level": "TRACE", "msg": "eval", "component": "engine", "result": "6"}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("wrong %s: want %v, got %v", k, v, m[k])
		}
	}
	if _, ok := m["time"]; !ok {
		t.Error("no time in output")
	}
}

func TestWrapKeepsReceiver(t *testing.T) {
	var a, b bytes.Buffer
	l := Make(&a, WithLevel(LevelError))
	m := l.Wrap(WithOutput(&b), WithLevel(LevelDebug))
	l.Debug("hidden")
	m.Debug("shown")
	if a.Len() != 0 {
		t.Errorf("original logger wrote %q", a.String())
	}
	if !strings.Contains(b.String(), "shown") {
		t.Errorf("wrapped logger wrote %q", b.String())
	}
	if l.Level() != LevelError || m.Level() != LevelDebug {
		t.Errorf("wrong levels: %v and %v", l.Level(), m.Level())
	}
}

func TestCaller(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithCaller(true), WithFormat(FormatJSON))
	l.Info("here")
	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller not reported as this file: %s", buf.String())
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithPretty(true), WithTimeLayout(""))
	l.With(slog.Int("n", 7)).Warn("careful", slog.Group("g", slog.Bool("ok", true)))
	s := buf.String()
	for _, want := range []string{"WARN", "careful", "n=7", "g.ok=true"} {
		if !strings.Contains(s, want) {
			t.Errorf("output %q should contain %q", s, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"Info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"error+2": LevelError + 2,
		"bogus":   DefaultLevel,
		"":        DefaultLevel,
	}
	for s, want := range cases {
		if got := ParseLevel(s); got != want {
			t.Errorf("ParseLevel(%q): want %v, got %v", s, want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"json":  FormatJSON,
		"JSON ": FormatJSON,
		"text":  FormatText,
		"xml":   DefaultFormat,
	}
	for s, want := range cases {
		if got := ParseFormat(s); got != want {
			t.Errorf("ParseFormat(%q): want %v, got %v", s, want, got)
		}
	}
}

func TestTimeLayout(t *testing.T) {
	cases := map[string]string{
		"RFC3339":       "2006-01-02T15:04:05Z07:00",
		"rfc-3339-nano": "2006-01-02T15:04:05.999999999Z07:00",
		"Kitchen":       "3:04PM",
		"none":          "",
		"  ":            "",
		"15:04":         "15:04",
	}
	for s, want := range cases {
		if got := timeLayout(s); got != want {
			t.Errorf("timeLayout(%q): want %q, got %q", s, want, got)
		}
	}
}
