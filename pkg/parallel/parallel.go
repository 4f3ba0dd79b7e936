// Package parallel provides the bounded worker-pool primitives the linker
// passes use for their internal fan-out. Every pass in pkg/linker is
// sequential with respect to the passes around it; parallelism only ever
// happens inside a single pass, through the helpers here.
package parallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Workers is the size of the bounded pool used by ForEach and For. It
// defaults to GOMAXPROCS, mirroring a work-stealing pool sized to the
// number of available OS threads. Tests that need deterministic
// interleaving can set this to 1.
var Workers = runtime.GOMAXPROCS(0)

// ForEach runs fn(item) for every element of items, fanned out across a
// pool bounded by Workers. It blocks until every task has completed,
// matching the "pass starts only after the prior pass's worker fan-out
// has fully joined" ordering rule. A panic inside fn is not recovered:
// like any goroutine panic it ends the process.
func ForEach[T any](items []T, fn func(T)) {
	if len(items) == 0 {
		return
	}
	if Workers <= 1 || len(items) == 1 {
		for _, it := range items {
			fn(it)
		}
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(Workers)
	for _, it := range items {
		it := it
		g.Go(func() error {
			fn(it)
			return nil
		})
	}
	_ = g.Wait()
}

// For runs fn(i) for i in [0, n), fanned out across a pool bounded by
// Workers.
func For(n int, fn func(int)) {
	if n <= 0 {
		return
	}
	if Workers <= 1 || n == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(Workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// Chunks splits n items into roughly-equal slices, capping the number of
// slices at maxSlices. Passes use this for the two-level scatter
// described in the section-binning and section-sizing components: an
// outer parallel loop over slices, each slice processed with a stable,
// sequential inner loop so that order-within-slice is preserved.
func Chunks(n, maxSlices int) [][2]int {
	if n == 0 {
		return nil
	}
	if maxSlices <= 0 {
		maxSlices = 1
	}
	if maxSlices > n {
		maxSlices = n
	}

	size := (n + maxSlices - 1) / maxSlices
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Feeder is a concurrent worklist: every Add hands its value to the
// callback once. It does no deduplication itself; single admission
// comes from callers calling Add only when an item's liveness flag
// flips from false to true.
type Feeder[T any] struct {
	admitted atomic.Int64
	ctx      context.Context
	g        *errgroup.Group
	visit    func(T, *Feeder[T])
}

// NewFeeder starts a worklist rooted at roots, running visit(item, feeder)
// for each admitted item; visit may call feeder.Add to admit more work.
// Add is not idempotent: callers gate admission themselves (e.g. via an
// atomic swap of the underlying file's liveness flag) and only call Add
// when that swap reports the flag was previously false.
func NewFeeder[T any](workers int, roots []T, visit func(T, *Feeder[T])) *Feeder[T] {
	if workers <= 0 {
		workers = Workers
	}
	g := new(errgroup.Group)
	g.SetLimit(workers)
	f := &Feeder[T]{g: g, visit: visit}
	for _, r := range roots {
		f.Add(r)
	}
	return f
}

// Add schedules item for processing on the pool. When every worker is
// busy, the item is visited inline on the calling goroutine instead, so
// an Add made from inside visit never waits on a slot it is holding.
func (f *Feeder[T]) Add(item T) {
	f.admitted.Add(1)
	if !f.g.TryGo(func() error {
		f.visit(item, f)
		return nil
	}) {
		f.visit(item, f)
	}
}

// Wait blocks until the worklist has drained: every admitted item, and
// every item admitted transitively by their visit calls, has completed.
func (f *Feeder[T]) Wait() {
	_ = f.g.Wait()
}
