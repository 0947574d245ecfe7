package cmd

import (
	"bytes"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/zephyrtronium/decexpr"
)

func TestSession(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		out   []string
	}{
		{"eval", []string{"1/4"}, []string{"0.25"}},
		{"assign", []string{"x = 2", "x * 3"}, []string{"2", "6"}},
		{"caret", []string{"1 +"}, []string{"     ^", "4: expected expression at end"}},
		{"caret-lex", []string{"2 $ 3"}, []string{"    ^", `3: invalid token "$"`}},
		{"undefined", []string{"y + 1"}, []string{`undefined variable: "y"`}},
		{"suggest-var", []string{"total = 1", "totl + 1"}, []string{"1", `undefined variable: "totl"`, "did you mean total?"}},
		{"suggest-func", []string{"sqr(4)"}, []string{`undefined function: "sqr"`, "did you mean sqrt?"}},
		{"prec", []string{":prec 10", "1/3", ":prec"}, []string{"10", "0.3333333333", "10"}},
		{"prec-bad", []string{":prec 0", ":prec"}, []string{"precision must be between 1 and 100000 digits, not 0", "34"}},
		{"round", []string{":prec 3", ":round down", "2/3", ":round"}, []string{"3", "down", "0.666", "down"}},
		{"round-bad", []string{":round sideways"}, []string{`unknown rounding mode "sideways"`, "modes: half-up, half-even, half-down, up, down, ceiling, floor, 05up"}},
		{"vars", []string{":prec 5", "x = 1/8", ":vars"}, []string{"5", "0.125", "e = 2.7183", "pi = 3.1416", "x = 0.125"}},
		{"unknown", []string{":qit"}, []string{"unknown command :qit", "did you mean :quit?"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := newSession(decexpr.New(), &buf)
			for _, line := range c.lines {
				if s.handle(line) {
					t.Fatalf("%q ended the session", line)
				}
			}
			got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if !reflect.DeepEqual(got, c.out) {
				t.Errorf("wrong output:\nwant %q\ngot  %q", c.out, got)
			}
		})
	}
}

func TestSessionQuit(t *testing.T) {
	for _, line := range []string{":quit", " :q", ":EXIT"} {
		s := newSession(decexpr.New(), new(bytes.Buffer))
		if !s.handle(line) {
			t.Errorf("%q did not end the session", line)
		}
	}
}

func TestSessionListings(t *testing.T) {
	var buf bytes.Buffer
	s := newSession(decexpr.New(), &buf)
	s.handle(":funcs")
	for _, f := range []string{"abs", "sqrt", "round", "log"} {
		if !strings.Contains(buf.String(), f) {
			t.Errorf(":funcs output %q lacks %s", buf.String(), f)
		}
	}
	buf.Reset()
	s.handle(":help")
	for _, c := range commands {
		if !strings.Contains(buf.String(), ":"+c.name) {
			t.Errorf(":help output lacks %s", c.name)
		}
	}
	buf.Reset()
	s.handle(":")
	if !strings.Contains(buf.String(), ":quit") {
		t.Errorf("bare colon did not print help: %q", buf.String())
	}
}

func TestComplete(t *testing.T) {
	eng := decexpr.New()
	eng.DefineInt("abc", 1)
	eng.DefineInt("total", 1)
	s := newSession(eng, new(bytes.Buffer))
	cases := []struct {
		line  string
		pos   int
		head  string
		comps []string
		tail  string
	}{
		{"ab", 2, "", []string{"abc", "abs("}, ""},
		{"1 + sq", 6, "1 + ", []string{"sqrt("}, ""},
		{"max(to, 1)", 6, "max(", []string{"total"}, ", 1)"},
		{"AB", 2, "", []string{"abc", "abs("}, ""},
		{":pr", 3, "", []string{":prec"}, ""},
		{":", 1, "", []string{":funcs", ":help", ":prec", ":quit", ":round", ":vars"}, ""},
		{"1 + ", 4, "1 + ", nil, ""},
		{"12", 2, "", nil, ""},
		{"ttl", 3, "", []string{"total"}, ""},
		{"π + ab", 6, "π + ", []string{"abc", "abs("}, ""},
	}
	for _, c := range cases {
		head, comps, tail := s.complete(c.line, c.pos)
		if head != c.head || tail != c.tail || !reflect.DeepEqual(comps, c.comps) {
			t.Errorf("complete(%q, %d): want %q %q %q, got %q %q %q", c.line, c.pos, c.head, c.comps, c.tail, head, comps, tail)
		}
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"e", "pi", "rate", "ratio", "rates", "x"}
	cases := []struct {
		name string
		want []string
	}{
		{"rat", []string{"rate", "rates", "ratio"}},
		{"RATE", []string{"rates"}},
		{"zzz", []string{}},
		{"p", []string{"pi"}},
	}
	for _, c := range cases {
		got := suggest(c.name, names)
		// Ranking among equally good matches is up to the matcher.
		slices.Sort(got)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("suggest(%q): want %q, got %q", c.name, c.want, got)
		}
	}
}
