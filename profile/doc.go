// Package profile provides optional runtime profiling for pl2.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag [Modes] is empty and [Profiler.Start] returns a no-op
// stopper, so callers never need build tags of their own.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/pl2"}
//	defer p.Start().Stop()
package profile
