// Package profile starts optional runtime profiling for complexpr.
//
// Profiling is compiled in only with the build tag "pprof" ([Tag]):
//
//	go build -tags pprof .
//	complexpr --pprof-mode cpu --pprof-dir ./profiles eval 'fold(range(1e6), add)'
//
// Without the tag [Start] always returns a no-op [Stopper] and [Modes] is
// empty. With it, profiles are written by [github.com/pkg/profile] to the
// configured directory (by default the pprof directory under the cache
// directory) and can be inspected with
//
//	go tool pprof -http=: ./profiles/cpu.pprof
package profile
