package decexpr

import (
	"errors"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the character or malformed number that could not be scanned.
	Text string
	// Col is the position of the start of Text.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "invalid token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating that an expression was
// expected but not found. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token found instead of an expression.
	Col int
	// End is the token found instead of an expression. It is empty at the end
	// of the input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "expected expression at end")
	}
	return errpos(err.Col, "expected expression before "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// BracketError is an error indicating an open parenthesis without a matching
// close parenthesis. It implements InputError.
type BracketError struct {
	// Col is the position of the token found instead of the close bracket.
	Col int
	// Found is that token. It is empty at the end of the input.
	Found string
}

func (err *BracketError) Error() string {
	if err.Found == "" {
		return errpos(err.Col, "expected ) at end")
	}
	return errpos(err.Col, "expected ) before "+strconv.Quote(err.Found))
}

func (err *BracketError) Pos() int {
	return err.Col
}

// TrailingError is an error indicating input left over after a complete
// expression. It implements InputError.
type TrailingError struct {
	// Col is the position of the first unconsumed token.
	Col int
	// Text is that token.
	Text string
}

func (err *TrailingError) Error() string {
	return errpos(err.Col, "expected end of expression at "+strconv.Quote(err.Text))
}

func (err *TrailingError) Pos() int {
	return err.Col
}

// AssignError is an error indicating an assignment to something other than a
// variable. It implements InputError.
type AssignError struct {
	// Col is the position of the = operator.
	Col int
	// Target is the rendered expression on the left of the =.
	Target string
}

func (err *AssignError) Error() string {
	return errpos(err.Col, "cannot assign to "+err.Target)
}

func (err *AssignError) Pos() int {
	return err.Col
}

// DepthError is an error indicating an expression nested more deeply than
// the parser allows. It implements InputError.
type DepthError struct {
	// Col is the position of the token that opened one level too many.
	Col int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested too deeply")
}

func (err *DepthError) Pos() int {
	return err.Col
}

// OperatorError is an error indicating an operator that the evaluator does
// not understand. Operators come from a fixed grammar, so an OperatorError
// means the expression tree is inconsistent.
type OperatorError struct {
	// Operator is the operator that was not understood.
	Operator string
	// Unary is whether the operator was applied as a unary operator.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return "invalid " + s + " operator " + strconv.Quote(err.Operator)
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid syntax implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*TrailingError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*AssignError)(nil)
)

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// FuncError is an error from a call to a function that is missing from the
// evaluation context.
type FuncError struct {
	// Name is the function name that was called.
	Name string
}

func (err *FuncError) Error() string {
	return "undefined function: " + strconv.Quote(err.Name)
}

// ErrDivisionByZero is matched by every DivisionError with errors.Is.
var ErrDivisionByZero = errors.New("division by zero")

// DivisionError is an error indicating a division or remainder by zero.
type DivisionError struct {
	// Op is the operator that divided.
	Op string
}

func (err *DivisionError) Error() string {
	return ErrDivisionByZero.Error() + " in " + strconv.Quote(err.Op)
}

func (err *DivisionError) Is(target error) bool {
	return target == ErrDivisionByZero
}

// ArgsError is an error indicating a function called with arguments it does
// not accept, usually the wrong number of them.
type ArgsError struct {
	// Func is the function name that was called.
	Func string
	// Detail describes the problem.
	Detail string
}

func (err *ArgsError) Error() string {
	return "invalid arguments to " + err.Func + ": " + err.Detail
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X *apd.Decimal
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err DomainError) Error() string {
	r := "argument outside domain"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// ArithError wraps a condition such as overflow raised by decimal
// arithmetic.
type ArithError struct {
	// Op names the operation.
	Op string
	// Err is the condition.
	Err error
}

func (err *ArithError) Error() string {
	return "arithmetic error in " + strconv.Quote(err.Op) + ": " + err.Err.Error()
}

func (err *ArithError) Unwrap() error {
	return err.Err
}

// RoundingError is an error indicating an unknown rounding mode name.
type RoundingError struct {
	Name string
}

func (err *RoundingError) Error() string {
	return "unknown rounding mode " + strconv.Quote(err.Name)
}

// PrecisionError is an error indicating an unusable precision.
type PrecisionError struct {
	Digits int64
}

func (err *PrecisionError) Error() string {
	return "precision must be between 1 and " + strconv.Itoa(MaxDigits) + " digits, not " + strconv.FormatInt(err.Digits, 10)
}
