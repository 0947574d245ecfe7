package decexpr

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/zephyrtronium/bigfloat"
)

// Rounding is a rounding mode used when a result has more digits than the
// active precision allows.
type Rounding int8

const (
	// RoundHalfUp rounds to nearest, with ties away from zero.
	RoundHalfUp Rounding = iota
	// RoundHalfEven rounds to nearest, with ties to the even neighbor.
	RoundHalfEven
	// RoundHalfDown rounds to nearest, with ties toward zero.
	RoundHalfDown
	// RoundUp rounds away from zero.
	RoundUp
	// RoundDown truncates toward zero.
	RoundDown
	// RoundCeiling rounds toward positive infinity.
	RoundCeiling
	// RoundFloor rounds toward negative infinity.
	RoundFloor
	// Round05Up rounds toward zero unless the last kept digit would be 0 or
	// 5, in which case it rounds away from zero.
	Round05Up
)

var roundingNames = [...]string{
	RoundHalfUp:   "half-up",
	RoundHalfEven: "half-even",
	RoundHalfDown: "half-down",
	RoundUp:       "up",
	RoundDown:     "down",
	RoundCeiling:  "ceiling",
	RoundFloor:    "floor",
	Round05Up:     "05up",
}

func (r Rounding) String() string {
	if r < 0 || int(r) >= len(roundingNames) {
		return "Rounding(" + strconv.Itoa(int(r)) + ")"
	}
	return roundingNames[r]
}

// Roundings returns the names of all rounding modes.
func Roundings() []string {
	return append([]string(nil), roundingNames[:]...)
}

// ParseRounding returns the rounding mode with the given name. Names are
// matched case-insensitively, and underscores are equivalent to hyphens.
func ParseRounding(name string) (Rounding, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for r, n := range roundingNames {
		if s == n || s == strings.ReplaceAll(n, "-", "") {
			return Rounding(r), nil
		}
	}
	return 0, &RoundingError{Name: name}
}

func (r Rounding) rounder() apd.Rounder {
	switch r {
	case RoundHalfEven:
		return apd.RoundHalfEven
	case RoundHalfDown:
		return apd.RoundHalfDown
	case RoundUp:
		return apd.RoundUp
	case RoundDown:
		return apd.RoundDown
	case RoundCeiling:
		return apd.RoundCeiling
	case RoundFloor:
		return apd.RoundFloor
	case Round05Up:
		return apd.Round05Up
	default:
		return apd.RoundHalfUp
	}
}

// Precision is the precision context governing lossy arithmetic: division,
// remainder, exponentiation, and parsing of number literals.
type Precision struct {
	// Digits is the number of significant digits kept by lossy operations.
	// It must be positive.
	Digits uint32
	// Rounding is the mode used to discard digits.
	Rounding Rounding
}

// MaxDigits is the largest precision an Engine accepts.
const MaxDigits = 100000

// DefaultPrecision is the precision context used when none is given.
var DefaultPrecision = Precision{Digits: 34, Rounding: RoundHalfUp}

// digits is p.Digits, or the default if p.Digits is zero.
func (p Precision) digits() uint32 {
	if p.Digits == 0 {
		return DefaultPrecision.Digits
	}
	return p.Digits
}

// apd creates an apd context for p.
func (p Precision) apd() *apd.Context {
	c := apd.BaseContext.WithPrecision(p.digits())
	c.Rounding = p.Rounding.rounder()
	return c
}

// bits is the binary precision that holds p.Digits decimal digits with some
// slack for the error of transcendental functions.
func (p Precision) bits() uint {
	return uint(math.Ceil(float64(p.digits())*math.Log2(10))) + 64
}

// exact is the context for operations that are defined to be exact.
var exact = apd.BaseContext.WithPrecision(0)

var decOne = apd.New(1, 0)

// truthy reports whether v counts as true, i.e. whether it is nonzero.
func truthy(v *apd.Decimal) bool {
	return !v.IsZero()
}

// boolean converts b to 1 or 0.
func boolean(b bool) *apd.Decimal {
	if b {
		return apd.New(1, 0)
	}
	return apd.New(0, 0)
}

// trap returns a function that wraps a condition trapped by an apd operation
// for op.
func trap(op string) func(apd.Condition, error) error {
	return func(_ apd.Condition, err error) error {
		if err != nil {
			return &ArithError{Op: op, Err: err}
		}
		return nil
	}
}

func add(x, y *apd.Decimal) (*apd.Decimal, error) {
	var d apd.Decimal
	return &d, trap("+")(exact.Add(&d, x, y))
}

func sub(x, y *apd.Decimal) (*apd.Decimal, error) {
	var d apd.Decimal
	return &d, trap("-")(exact.Sub(&d, x, y))
}

func mul(x, y *apd.Decimal) (*apd.Decimal, error) {
	var d apd.Decimal
	return &d, trap("*")(exact.Mul(&d, x, y))
}

func quo(c *apd.Context, x, y *apd.Decimal) (*apd.Decimal, error) {
	if y.IsZero() {
		return nil, &DivisionError{Op: "/"}
	}
	var d apd.Decimal
	return &d, trap("/")(c.Quo(&d, x, y))
}

func rem(c *apd.Context, x, y *apd.Decimal) (*apd.Decimal, error) {
	if y.IsZero() {
		return nil, &DivisionError{Op: "%"}
	}
	var d apd.Decimal
	return &d, trap("%")(c.Rem(&d, x, y))
}

// pow computes x^y. Integer powers are computed by repeated squaring under
// the context. A fractional part of the exponent is approximated in binary
// floating point as exp(f ln x) and converted back, so the result is not
// exact for non-integer exponents. Negative exponents take the reciprocal of
// the result for |y|.
func pow(p Precision, x, y *apd.Decimal) (*apd.Decimal, error) {
	c := p.apd()
	var ip, fp, ay apd.Decimal
	ay.Abs(y)
	ay.Modf(&ip, &fp)
	n, err := ip.Int64()
	if err != nil {
		if r, ok, err := powhuge(x, y, &ip, &fp); ok {
			return r, err
		}
		return nil, &ArithError{Op: "^", Err: err}
	}
	r, err := powint(c, x, n)
	if err != nil {
		return nil, err
	}
	if !fp.IsZero() {
		f, err := powfrac(p, x, &fp)
		if err != nil {
			return nil, err
		}
		var t apd.Decimal
		if err := trap("^")(c.Mul(&t, r, f)); err != nil {
			return nil, err
		}
		r = &t
	}
	if y.Negative && !y.IsZero() {
		if r.IsZero() {
			return nil, &DivisionError{Op: "^"}
		}
		var t apd.Decimal
		if err := trap("^")(c.Quo(&t, decOne, r)); err != nil {
			return nil, err
		}
		r = &t
	}
	return r, nil
}

// powhuge handles exponents too large for int64 when the base is 0, 1 or -1.
// ip and fp are the integer and fractional parts of |y|. It reports false for
// any other base.
func powhuge(x, y, ip, fp *apd.Decimal) (*apd.Decimal, bool, error) {
	var ax apd.Decimal
	ax.Abs(x)
	switch {
	case x.IsZero():
		if y.Negative {
			return nil, true, &DivisionError{Op: "^"}
		}
		return new(apd.Decimal), true, nil
	case ax.Cmp(decOne) != 0:
		return nil, false, nil
	case !x.Negative:
		return new(apd.Decimal).Set(decOne), true, nil
	case !fp.IsZero():
		return nil, true, DomainError{X: x, Func: "^"}
	}
	r := apd.New(1, 0)
	if ip.Exponent == 0 && ip.Coeff.Bit(0) == 1 {
		r.Negative = true
	}
	return r, true, nil
}

// powint computes x^n for n >= 0.
func powint(c *apd.Context, x *apd.Decimal, n int64) (*apd.Decimal, error) {
	r := new(apd.Decimal).Set(decOne)
	b := new(apd.Decimal).Set(x)
	for n > 0 {
		if n&1 != 0 {
			if err := trap("^")(c.Mul(r, r, b)); err != nil {
				return nil, err
			}
		}
		n >>= 1
		if n > 0 {
			if err := trap("^")(c.Mul(b, b, b)); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// powfrac approximates x^f for 0 < f < 1.
func powfrac(p Precision, x, f *apd.Decimal) (*apd.Decimal, error) {
	switch x.Sign() {
	case 0:
		return new(apd.Decimal), nil
	case -1:
		return nil, DomainError{X: x, Func: "^"}
	}
	prec := p.bits()
	bx, err := tofloat(x, prec)
	if err != nil {
		return nil, err
	}
	bf, err := tofloat(f, prec)
	if err != nil {
		return nil, err
	}
	z := bigfloat.Pow(new(big.Float).SetPrec(prec), bx, bf)
	return fromfloat(p, z)
}

// tofloat converts a decimal to a binary float with the given precision.
func tofloat(x *apd.Decimal, prec uint) (*big.Float, error) {
	f, ok := new(big.Float).SetPrec(prec).SetString(x.String())
	if !ok {
		return nil, DomainError{X: x}
	}
	return f, nil
}

// fromfloat converts a binary float to a decimal rounded under p.
func fromfloat(p Precision, f *big.Float) (*apd.Decimal, error) {
	d, _, err := p.apd().NewFromString(f.Text('e', int(p.digits())+4))
	if err != nil {
		return nil, &ArithError{Op: "convert", Err: err}
	}
	return d, nil
}

// constPi computes pi under p.
func constPi(p Precision) *apd.Decimal {
	z := bigfloat.Pi(new(big.Float).SetPrec(p.bits()))
	d, err := fromfloat(p, z)
	if err != nil {
		panic("decexpr: converting pi: " + err.Error())
	}
	return d
}

// constE computes e under p.
func constE(p Precision) *apd.Decimal {
	one := new(big.Float).SetPrec(p.bits()).SetInt64(1)
	z := bigfloat.Exp(new(big.Float).SetPrec(p.bits()), one)
	d, err := fromfloat(p, z)
	if err != nil {
		panic("decexpr: converting e: " + err.Error())
	}
	return d
}

// Display rounds v under p, removes insignificant trailing zeros, and
// formats it in plain notation.
func Display(p Precision, v *apd.Decimal) string {
	var d apd.Decimal
	if _, err := p.apd().Round(&d, v); err != nil {
		d.Set(v)
	}
	d.Reduce(&d)
	if d.IsZero() {
		return "0"
	}
	return d.Text('f')
}
