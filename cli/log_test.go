package cli

import (
	"testing"

	"github.com/zephyrtronium/decexpr/log"
)

func TestLogScan(t *testing.T) {
	defer log.Config(
		log.WithLevel(log.DefaultLevel),
		log.WithFormat(log.DefaultFormat),
		log.WithCaller(false),
		log.WithTimeLayout(log.DefaultTimeLayout),
	)
	var f logConfig
	f.scan([]string{
		"--log-level", "debug",
		"eval",
		"--log-pretty",
		"--log-caller=true",
		"--no-log-caller",
		"--log-time-layout=kitchen",
		"--log-format=json",
		"1+1",
		"--",
		"--log-level=error",
	})
	if f.Level != "debug" {
		t.Errorf("wrong level %q", f.Level)
	}
	if f.Format != "json" {
		t.Errorf("wrong format %q", f.Format)
	}
	if !f.Pretty {
		t.Error("pretty not set")
	}
	if f.Caller {
		t.Error("caller not unset by --no-log-caller")
	}
	if f.TimeLayout != "kitchen" {
		t.Errorf("wrong time layout %q", f.TimeLayout)
	}
	if l := log.Default(); l.Level() != log.LevelDebug || l.Format() != log.FormatJSON {
		t.Errorf("package logger not configured: %v %v", l.Level(), l.Format())
	}
}

func TestLogScanIgnoresOthers(t *testing.T) {
	var f logConfig
	f.scan([]string{"--logo", "--log-", "--no-log-level", "--precision", "5", "-D", "--log-unknown=1"})
	if f != (logConfig{}) {
		t.Errorf("unrelated flags changed config: %+v", f)
	}
}
