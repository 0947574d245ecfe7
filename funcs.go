package decexpr

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Func is a function from lists of decimals to decimals. Functions may but
// generally should not look up variables. A Func checks its own arguments and
// returns an *ArgsError when it cannot accept them. The elements of args must
// not be modified, and the result must not alias memory the function retains.
type Func interface {
	Call(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error)
}

// FuncDef describes a function by its arity limits and implementation. It
// implements Func by checking the number of arguments before calling Impl.
type FuncDef struct {
	// Name is the name used in error messages.
	Name string
	// MinArgs and MaxArgs bound the number of arguments. A negative MaxArgs
	// means no upper bound.
	MinArgs, MaxArgs int
	// Impl computes the function. It is only called with an allowed number
	// of arguments.
	Impl func(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error)
}

// Call checks the number of arguments, then calls f.Impl.
func (f *FuncDef) Call(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	if !f.CanCall(len(args)) {
		return nil, &ArgsError{Func: f.Name, Detail: f.arity() + ", got " + strconv.Itoa(len(args))}
	}
	return f.Impl(ctx, args)
}

// CanCall returns whether the function can be called with n arguments.
func (f *FuncDef) CanCall(n int) bool {
	return n >= f.MinArgs && (f.MaxArgs < 0 || n <= f.MaxArgs)
}

// arity describes the accepted argument counts.
func (f *FuncDef) arity() string {
	plural := func(n int) string {
		if n == 1 {
			return "1 argument"
		}
		return strconv.Itoa(n) + " arguments"
	}
	switch {
	case f.MaxArgs < 0:
		return "want at least " + plural(f.MinArgs)
	case f.MinArgs == f.MaxArgs:
		return "want " + plural(f.MinArgs)
	default:
		return "want " + strconv.Itoa(f.MinArgs) + " to " + plural(f.MaxArgs)
	}
}

type funcOf func(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error)

func (f funcOf) Call(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	return f(ctx, args)
}

// FuncOf adapts an ordinary function to a Func. The function receives every
// call regardless of the number of arguments.
func FuncOf(f func(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error)) Func {
	return funcOf(f)
}

// Monadic wraps a function of one variable into a Func named name. f receives
// the active precision context.
func Monadic(name string, f func(p Precision, x *apd.Decimal) (*apd.Decimal, error)) Func {
	return &FuncDef{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Impl: func(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
			return f(ctx.Prec(), args[0])
		},
	}
}

// Builtins returns the definitions of the functions every new Context has.
// The result is a fresh copy on each call.
func Builtins() []*FuncDef {
	r := make([]*FuncDef, len(builtins))
	for i, f := range builtins {
		c := *f
		r[i] = &c
	}
	return r
}

var builtins = []*FuncDef{
	{Name: "abs", MinArgs: 1, MaxArgs: 1, Impl: fnAbs},
	{Name: "sum", MinArgs: 1, MaxArgs: -1, Impl: fnSum},
	{Name: "floor", MinArgs: 1, MaxArgs: 1, Impl: fnFloor},
	{Name: "ceil", MinArgs: 1, MaxArgs: 1, Impl: fnCeil},
	{Name: "round", MinArgs: 1, MaxArgs: 2, Impl: fnRound},
	{Name: "min", MinArgs: 1, MaxArgs: -1, Impl: fnMin},
	{Name: "max", MinArgs: 1, MaxArgs: -1, Impl: fnMax},
	{Name: "if", MinArgs: 3, MaxArgs: 3, Impl: fnIf},
	{Name: "sqrt", MinArgs: 1, MaxArgs: 1, Impl: fnSqrt},
	{Name: "exp", MinArgs: 1, MaxArgs: 1, Impl: fnExp},
	{Name: "ln", MinArgs: 1, MaxArgs: 1, Impl: fnLn},
	{Name: "log", MinArgs: 1, MaxArgs: 2, Impl: fnLog},
}

func fnAbs(_ *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	return new(apd.Decimal).Abs(args[0]), nil
}

func fnSum(_ *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	r := new(apd.Decimal).Set(args[0])
	for _, x := range args[1:] {
		var err error
		if r, err = add(r, x); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func fnFloor(_ *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	return roundto(args[0], 0, RoundFloor)
}

func fnCeil(_ *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	return roundto(args[0], 0, RoundCeiling)
}

func fnRound(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	places := int64(0)
	if len(args) == 2 {
		var err error
		places, err = integer("round", 2, args[1])
		if err != nil {
			return nil, err
		}
		if places < -MaxDigits || places > MaxDigits {
			return nil, &ArgsError{Func: "round", Detail: "decimal places out of range: " + strconv.FormatInt(places, 10)}
		}
	}
	return roundto(args[0], int32(places), ctx.Prec().Rounding)
}

func fnMin(_ *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	r := args[0]
	for _, x := range args[1:] {
		if x.Cmp(r) < 0 {
			r = x
		}
	}
	return new(apd.Decimal).Set(r), nil
}

func fnMax(_ *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	r := args[0]
	for _, x := range args[1:] {
		if x.Cmp(r) > 0 {
			r = x
		}
	}
	return new(apd.Decimal).Set(r), nil
}

// fnIf selects between its second and third arguments. Arguments to function
// calls are all evaluated before the call, so unlike && and ||, both
// branches always run.
func fnIf(_ *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	if truthy(args[0]) {
		return new(apd.Decimal).Set(args[1]), nil
	}
	return new(apd.Decimal).Set(args[2]), nil
}

func fnSqrt(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	if args[0].Negative && !args[0].IsZero() {
		return nil, DomainError{X: args[0], Arg: 1, Func: "sqrt"}
	}
	var d apd.Decimal
	return &d, trap("sqrt")(ctx.Prec().apd().Sqrt(&d, args[0]))
}

func fnExp(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	var d apd.Decimal
	return &d, trap("exp")(ctx.Prec().apd().Exp(&d, args[0]))
}

func fnLn(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	if args[0].Sign() <= 0 {
		return nil, DomainError{X: args[0], Arg: 1, Func: "ln"}
	}
	var d apd.Decimal
	return &d, trap("ln")(ctx.Prec().apd().Ln(&d, args[0]))
}

// fnLog is the common logarithm of one argument, or the logarithm of the
// first argument to the base of the second.
func fnLog(ctx *Context, args []*apd.Decimal) (*apd.Decimal, error) {
	if args[0].Sign() <= 0 {
		return nil, DomainError{X: args[0], Arg: 1, Func: "log"}
	}
	c := ctx.Prec().apd()
	var d apd.Decimal
	if len(args) == 1 {
		return &d, trap("log")(c.Log10(&d, args[0]))
	}
	if args[1].Sign() <= 0 || args[1].Cmp(decOne) == 0 {
		return nil, DomainError{X: args[1], Arg: 2, Func: "log"}
	}
	// Carry extra digits through the logarithms before the final division.
	w := c.WithPrecision(c.Precision + 5)
	var lb apd.Decimal
	if err := trap("log")(w.Ln(&d, args[0])); err != nil {
		return nil, err
	}
	if err := trap("log")(w.Ln(&lb, args[1])); err != nil {
		return nil, err
	}
	return &d, trap("log")(c.Quo(&d, &d, &lb))
}

// roundto rounds x to the given number of decimal places using r.
func roundto(x *apd.Decimal, places int32, r Rounding) (*apd.Decimal, error) {
	// Move the last kept digit to the units place and round to an integer.
	var y, d apd.Decimal
	y.Set(x)
	y.Exponent += places
	if !y.IsZero() && y.NumDigits()+int64(y.Exponent) < 0 {
		// Every digit lies below the tenths place, so x rounds like 0.1 of
		// the same sign.
		y.Coeff.SetInt64(1)
		y.Exponent = -1
	}
	c := apd.BaseContext.WithPrecision(0)
	c.Rounding = r.rounder()
	if err := trap("round")(c.RoundToIntegralValue(&d, &y)); err != nil {
		return nil, err
	}
	d.Exponent -= places
	if d.IsZero() {
		d.Negative = false
	}
	return &d, nil
}

// integer converts the arg-th argument of fn to an int64, failing if it is not
// an integer.
func integer(fn string, arg int, x *apd.Decimal) (int64, error) {
	var ip, frac apd.Decimal
	x.Modf(&ip, &frac)
	if !frac.IsZero() {
		return 0, &ArgsError{Func: fn, Detail: "argument " + strconv.Itoa(arg) + " must be an integer, not " + x.String()}
	}
	n, err := x.Int64()
	if err != nil {
		return 0, &ArgsError{Func: fn, Detail: "argument " + strconv.Itoa(arg) + " out of range: " + x.String()}
	}
	return n, nil
}
