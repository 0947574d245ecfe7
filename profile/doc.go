// Package profile provides optional runtime profiling for decexpr.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag:
//
//	go build -tags pprof ./cmd/decexpr
//	decexpr --pprof-mode cpu 'sqrt(2)'
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
// Profiles are written to the directory given by [WithPath] in files named
// after the mode, e.g. cpu.pprof, for analysis with go tool pprof.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
