// Package cmd implements the decexpr commands.
package cmd
