package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zephyrtronium/decexpr/cli/cmd"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errw bytes.Buffer
	exit := func(code int) {
		t.Errorf("exited with code %d: %s", code, errw.String())
	}
	err := run(context.Background(), exit, strings.NewReader(stdin), &out, &errw, args)
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEval(t *testing.T) {
	defs := writeFile(t, "defs.yaml", "precision: 10\nvars:\n  rate: \"0.0725\"\n  n: 12\n")
	script := writeFile(t, "script.txt", "x = 3\n\n# squares\nx ^ 2\n")
	cases := []struct {
		name  string
		stdin string
		args  []string
		out   string
	}{
		{"args", "", []string{"eval", "1/4", "x = 2", "x^10"}, "0.25\n2\n1024\n"},
		{"stdin", "1+1\n\n# comment\n  2*3  \n", []string{"eval"}, "2\n6\n"},
		{"dash", "7\n", []string{"eval", "-f", "-"}, "7\n"},
		{"file", "", []string{"eval", "-f", script}, "3\n9\n"},
		{"file-and-args", "", []string{"eval", "-f", script, "1"}, "1\n3\n9\n"},
		{"precision", "", []string{"eval", "--precision", "5", "2/3"}, "0.66667\n"},
		{"rounding", "", []string{"eval", "-p", "3", "-r", "down", "2/3"}, "0.666\n"},
		{"echo", "", []string{"eval", "--echo", "1+2"}, "([1] + [2]) : 3\n"},
		{"raw", "", []string{"eval", "--raw", "2.50 * 2"}, "5.00\n"},
		{"display", "", []string{"eval", "2.50 * 2"}, "5\n"},
		{"define", "", []string{"eval", "-D", "r=max(1, 2)", "-D", "s = r*r", "s*3"}, "12\n"},
		{"defs", "", []string{"eval", "--defs", defs, "rate * n", "1/3"}, "0.87\n0.3333333333\n"},
		{"defs-override", "", []string{"eval", "--defs", defs, "-p", "4", "1/3"}, "0.3333\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := runCLI(t, c.stdin, c.args...)
			if err != nil {
				t.Fatalf("failed: %v", err)
			}
			if out != c.out {
				t.Errorf("wrong output: want %q, got %q", c.out, out)
			}
		})
	}
}

func TestEvalFailures(t *testing.T) {
	cases := []struct {
		name string
		args []string
		err  error
		out  string
	}{
		{"stop", []string{"eval", "1", "1/0", "2"}, cmd.ErrEval, "1\n"},
		{"parse", []string{"eval", "1 +"}, cmd.ErrEval, ""},
		{"keep-going", []string{"eval", "-k", "1/0", "2", "y"}, cmd.ErrFailed, "division by zero in \"/\"\n2\nundefined variable: \"y\"\n"},
		{"define-name", []string{"eval", "-D", "3=4", "1"}, cmd.ErrDefine, ""},
		{"define-syntax", []string{"eval", "-D", "x", "1"}, cmd.ErrDefine, ""},
		{"define-value", []string{"eval", "-D", "x=1/0", "1"}, cmd.ErrDefine, ""},
		{"precision", []string{"eval", "--precision=-3", "1"}, cmd.ErrPrecision, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := runCLI(t, "", c.args...)
			if !errors.Is(err, c.err) {
				t.Errorf("wrong error: want %v, got %v", c.err, err)
			}
			if out != c.out {
				t.Errorf("wrong output: want %q, got %q", c.out, out)
			}
		})
	}
}

func TestEvalBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"eval", "--rounding", "sideways", "1"},
		{"eval", "--defs", filepath.Join(t.TempDir(), "missing.yaml"), "1"},
		{"eval", "--no-such-flag"},
	} {
		if _, err := runCLI(t, "", args...); err == nil {
			t.Errorf("%q succeeded", args)
		}
	}
}

func TestEvalBadDefs(t *testing.T) {
	for _, content := range []string{
		"precision: 10\nunknown: 1\n",
		"vars:\n  x: abc\n",
		"rounding: sideways\n",
		"vars: [1, 2]\n",
	} {
		p := writeFile(t, "defs.yaml", content)
		if _, err := runCLI(t, "", "eval", "--defs", p, "1"); err == nil {
			t.Errorf("%q loaded without error", content)
		}
	}
}
