// Package profile provides optional runtime profiling for vac.
//
// Profiling is built on [github.com/pkg/profile] and is only compiled in
// with the "pprof" build tag:
//
//	go build -tags pprof .
//	vac --pprof-mode cpu eval '2 ^ 64'
//	go tool pprof -http=: ~/.cache/vac/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and every [Profiler] is a no-op, so
// callers need no build constraints of their own.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
