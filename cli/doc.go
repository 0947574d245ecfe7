// Package cli contains the command line interface for decexpr.
//
// # Usage
//
// With no command, decexpr evaluates its arguments, or each line of standard
// input when there are none:
//
//	decexpr '1/3' 'x = 2' 'x ^ 0.5'
//	decexpr --precision 50 --rounding half-even < sums.txt
//
// The repl command starts an interactive session with history and
// completion:
//
//	decexpr repl --defs rates.yaml
//
// Every flag can also be set through an environment variable named with the
// DECEXPR_ prefix, e.g. DECEXPR_PRECISION=20 or DECEXPR_LOG_LEVEL=debug.
package cli
