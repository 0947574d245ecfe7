package decexpr_test

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/zephyrtronium/decexpr"
)

func nargs(ctx *decexpr.Context, args []*apd.Decimal) (*apd.Decimal, error) {
	return apd.New(int64(len(args)), 0), nil
}

func ExampleFunc() {
	eng := decexpr.New()
	eng.RegisterFunction("nargs", decexpr.FuncOf(nargs))

	for _, src := range []string{"nargs()", "nargs(100)", "NArgs(3, 2, 1)"} {
		a, _ := eng.Parse(src)
		fmt.Println(eng.EvaluateString(src), a)
	}

	// Output:
	// 0 (nargs[])
	// 1 (nargs[(100)])
	// 3 (NArgs[(3), (2), (1)])
}

func ExampleMonadic() {
	half := decexpr.Monadic("half", func(p decexpr.Precision, x *apd.Decimal) (*apd.Decimal, error) {
		var d apd.Decimal
		_, err := apd.BaseContext.WithPrecision(p.Digits).Quo(&d, x, apd.New(2, 0))
		return &d, err
	})
	eng := decexpr.New()
	eng.RegisterFunction("half", half)

	fmt.Println(eng.EvaluateString("half(7)"))
	fmt.Println(eng.EvaluateString("half(1, 2)"))

	// Output:
	// 3.5
	// invalid arguments to half: want 1 argument, got 2
}

func ExampleFuncDef() {
	avg := &decexpr.FuncDef{
		Name:    "avg",
		MinArgs: 1,
		MaxArgs: -1,
		Impl: func(ctx *decexpr.Context, args []*apd.Decimal) (*apd.Decimal, error) {
			c := apd.BaseContext.WithPrecision(ctx.Prec().Digits)
			var sum, r apd.Decimal
			for _, x := range args {
				if _, err := c.Add(&sum, &sum, x); err != nil {
					return nil, err
				}
			}
			_, err := c.Quo(&r, &sum, apd.New(int64(len(args)), 0))
			return &r, err
		},
	}
	eng := decexpr.New()
	eng.RegisterFunction(avg.Name, avg)

	fmt.Println(eng.EvaluateString("avg(1, 2, 3, 4)"))
	fmt.Println(eng.EvaluateString("avg()"))

	// Output:
	// 2.5
	// invalid arguments to avg: want at least 1 argument, got 0
}
