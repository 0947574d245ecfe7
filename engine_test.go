package decexpr_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"

	"github.com/zephyrtronium/decexpr"
	"github.com/zephyrtronium/decexpr/log"
)

func TestEngineConstants(t *testing.T) {
	eng := decexpr.New()
	cases := map[string]string{
		"pi": "3.141592653589793238462643383279503",
		"e":  "2.718281828459045235360287471352662",
		"PI": "3.141592653589793238462643383279503",
	}
	for name, want := range cases {
		if got := eng.EvaluateString(name); got != want {
			t.Errorf("%s at default precision: want %s, got %s", name, want, got)
		}
	}
	if err := eng.SetPrecision(10); err != nil {
		t.Fatal(err)
	}
	if got := eng.EvaluateString("pi"); got != "3.141592654" {
		t.Errorf("pi at 10 digits: want 3.141592654, got %s", got)
	}
	if got := eng.EvaluateString("e"); got != "2.718281828" {
		t.Errorf("e at 10 digits: want 2.718281828, got %s", got)
	}
}

func TestEngineRedefinedConstant(t *testing.T) {
	eng := decexpr.New()
	if got := eng.EvaluateString("pi = 3"); got != "3" {
		t.Fatalf("assigning pi gave %s", got)
	}
	// Assigning a constant to itself does not count as redefining it.
	eng.EvaluateString("e = e")
	if err := eng.SetPrecision(10); err != nil {
		t.Fatal(err)
	}
	if got := eng.EvaluateString("pi"); got != "3" {
		t.Errorf("redefined pi was replaced by %s", got)
	}
	if got := eng.EvaluateString("e"); got != "2.718281828" {
		t.Errorf("e was not refreshed: got %s", got)
	}
}

func TestEngineCache(t *testing.T) {
	eng := decexpr.New()
	a, err := eng.Parse("1 + 2 * x")
	if err != nil {
		t.Fatal(err)
	}
	b, err := eng.Parse("1 + 2 * x")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same text parsed twice was not reused")
	}
	if err := eng.SetPrecision(5); err != nil {
		t.Fatal(err)
	}
	c, err := eng.Parse("1 + 2 * x")
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Error("parse cache survived a precision change")
	}
	eng.SetRounding(decexpr.RoundFloor)
	d, err := eng.Parse("1 + 2 * x")
	if err != nil {
		t.Fatal(err)
	}
	if d == c {
		t.Error("parse cache survived a rounding change")
	}
	// Failed parses are not cached and keep failing.
	for i := 0; i < 2; i++ {
		if _, err := eng.Parse("1 +"); err == nil {
			t.Error("bad text parsed")
		}
	}
}

func TestEngineCacheLiterals(t *testing.T) {
	eng := decexpr.New()
	if got := eng.EvaluateString("1.23456789"); got != "1.23456789" {
		t.Fatalf("wrong value at default precision: %s", got)
	}
	if err := eng.SetPrecision(3); err != nil {
		t.Fatal(err)
	}
	if got := eng.EvaluateString("1.23456789"); got != "1.23" {
		t.Errorf("literal not reparsed after precision change: got %s", got)
	}
}

func TestEngineCacheBound(t *testing.T) {
	eng := decexpr.New()
	for i := 0; i < 3*decexpr.CacheSize; i++ {
		src := fmt.Sprintf("%d + 1", i)
		if got, want := eng.EvaluateString(src), fmt.Sprint(i+1); got != want {
			t.Fatalf("%s: want %s, got %s", src, want, got)
		}
	}
}

func TestEngineSetPrecision(t *testing.T) {
	eng := decexpr.New()
	for _, d := range []int{0, -1, decexpr.MaxDigits + 1} {
		err := eng.SetPrecision(d)
		if _, ok := err.(*decexpr.PrecisionError); !ok {
			t.Errorf("SetPrecision(%d) gave wrong error %v", d, err)
		}
	}
	if p := eng.Precision(); p != decexpr.DefaultPrecision {
		t.Errorf("failed SetPrecision changed precision to %+v", p)
	}
	if err := eng.SetPrecision(5); err != nil {
		t.Fatal(err)
	}
	if got := eng.EvaluateString("2/3"); got != "0.66667" {
		t.Errorf("2/3 at 5 digits: want 0.66667, got %s", got)
	}
	eng.SetRounding(decexpr.RoundDown)
	if got := eng.EvaluateString("2/3"); got != "0.66666" {
		t.Errorf("2/3 at 5 digits rounding down: want 0.66666, got %s", got)
	}
	want := decexpr.Precision{Digits: 5, Rounding: decexpr.RoundDown}
	if p := eng.Precision(); p != want {
		t.Errorf("wrong precision: want %+v, got %+v", want, p)
	}
}

func TestEngineEvaluateString(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"0.1 + 0.2", "0.3"},
		{"0 * -1", "0"},
		{"1e3", "1000"},
		{"2.50 * 2", "5"},
		{"1/4", "0.25"},
		{"-7 % 3", "-1"},
		{"3 > 2 && 2 > 1", "1"},
		{"1/0", `division by zero in "/"`},
		{"nope + 1", `undefined variable: "nope"`},
		{"nope(1)", `undefined function: "nope"`},
		{"1 +", "4: expected expression at end"},
	}
	for _, c := range cases {
		eng := decexpr.New()
		if got := eng.EvaluateString(c.src); got != c.want {
			t.Errorf("%q: want %q, got %q", c.src, c.want, got)
		}
	}
}

func TestEngineDefine(t *testing.T) {
	eng := decexpr.New()
	eng.Define("Rate", dec("0.07"))
	eng.DefineInt("n", 12)
	if err := eng.DefineString("p", "1000.00"); err != nil {
		t.Fatal(err)
	}
	if got := eng.EvaluateString("p * rate / N"); got != "5.833333333333333333333333333333333" {
		t.Errorf("wrong result: %s", got)
	}
	err := eng.DefineString("q", "12abc")
	if _, ok := err.(*decexpr.LexError); !ok {
		t.Errorf("bad literal gave wrong error %v", err)
	}
	if v := eng.Lookup("q"); v != nil {
		t.Errorf("failed definition set q to %v", v)
	}

	v := eng.Lookup("RATE")
	if v == nil || v.String() != "0.07" {
		t.Fatalf("wrong lookup: %v", v)
	}
	v.SetInt64(100)
	if got := eng.Lookup("rate").String(); got != "0.07" {
		t.Errorf("modifying lookup result changed the variable to %s", got)
	}
	if v := eng.Lookup("undefined"); v != nil {
		t.Errorf("undefined variable has value %v", v)
	}

	eng.Define("RATE", nil)
	if v := eng.Lookup("rate"); v != nil {
		t.Errorf("nil definition left rate = %v", v)
	}
	if _, err := eng.Evaluate("rate"); !errors.As(err, new(*decexpr.NameError)) {
		t.Errorf("undefined rate gave wrong error %v", err)
	}
}

func TestEngineRegisterFunction(t *testing.T) {
	eng := decexpr.New()
	twice := decexpr.Monadic("twice", func(_ decexpr.Precision, x *apd.Decimal) (*apd.Decimal, error) {
		var d apd.Decimal
		_, err := apd.BaseContext.WithPrecision(0).Add(&d, x, x)
		return &d, err
	})
	eng.RegisterFunction("Twice", twice)
	if got := eng.EvaluateString("twice(21)"); got != "42" {
		t.Errorf("twice(21): want 42, got %s", got)
	}
	// Registering a builtin name overrides it.
	eng.RegisterFunction("abs", twice)
	if got := eng.EvaluateString("abs(-1)"); got != "-2" {
		t.Errorf("overridden abs(-1): want -2, got %s", got)
	}
	eng.RegisterFunction("twice", nil)
	if got := eng.EvaluateString("twice(1)"); got != `undefined function: "twice"` {
		t.Errorf("removed function still callable: %s", got)
	}
}

func TestEngineLogs(t *testing.T) {
	var buf bytes.Buffer
	l := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithTimeLayout("none"))
	eng := decexpr.New(decexpr.WithLogger(l))
	eng.EvaluateString("1 + 1")
	eng.EvaluateString("1 + 1")
	if err := eng.SetPrecision(9); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{"parse cache miss", "parse cache hit", "set precision", "component=engine", "digits=9"} {
		if !strings.Contains(s, want) {
			t.Errorf("log should contain %q:\n%s", want, s)
		}
	}
}

func ExampleEngine() {
	eng := decexpr.New()
	fmt.Println(eng.EvaluateString("0.1 + 0.2"))
	fmt.Println(eng.EvaluateString("1/3"))
	fmt.Println(eng.EvaluateString("r = 2"))
	fmt.Println(eng.EvaluateString("max(r, 1) ^ 10"))
	fmt.Println(eng.EvaluateString("r / (r - 2)"))

	// Output:
	// 0.3
	// 0.3333333333333333333333333333333333
	// 2
	// 1024
	// division by zero in "/"
}

func ExampleEngine_SetPrecision() {
	eng := decexpr.New()
	if err := eng.SetPrecision(5); err != nil {
		panic(err)
	}
	eng.DefineInt("r", 2)
	fmt.Println(eng.EvaluateString("pi"))
	fmt.Println(eng.EvaluateString("pi * r^2"))
	fmt.Println(eng.SetPrecision(0))

	// Output:
	// 3.1416
	// 12.566
	// precision must be between 1 and 100000 digits, not 0
}
