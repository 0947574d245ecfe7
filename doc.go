// Package decexpr implements an arbitrary-precision decimal calculator.
//
// Expressions use the usual infix arithmetic operators + - * / % and ^, the
// comparisons == != > >= < <=, the short-circuiting logical operators || and
// &&, parentheses, function calls like max(a, b, c), and assignment with =.
// Comparisons and logical operators yield 1 or 0, and any nonzero value is
// true. "-2^2" is "-(2^2)", and "2^3^2" is "2^(3^2)".
//
// Numbers are decimal, not binary: "0.1 + 0.2 == 0.3" is true. Addition,
// subtraction, and multiplication are exact. Division, remainder,
// exponentiation, and functions like sqrt round their results to a Precision,
// which gives a number of significant digits and a Rounding mode.
//
// Expressions are parsed once with Parse and evaluated any number of times
// with a Context, which holds the variables, the functions, and the
// precision. An Engine bundles a Context with the constants pi and e and a
// cache of parsed expressions, for evaluating text directly:
//
//	eng := decexpr.New()
//	eng.EvaluateString("1/3")       // "0.3333333333333333333333333333333333"
//	eng.EvaluateString("x = 2^0.5") // assigns x
//
// Variable and function names are case-insensitive.
package decexpr
