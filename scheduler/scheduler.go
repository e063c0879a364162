// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package scheduler is the parallel-for facade the collision core runs its
// per-particle phases through: a block-partitioned worker pool that hands
// each worker its own reusable scratch slot instead of allocating one per
// particle.
package scheduler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool bounds parallel work to a fixed worker count, defaulting to
// runtime.GOMAXPROCS(0).
type Pool struct {
	Workers int
}

// New creates a Pool sized to the current GOMAXPROCS.
func New() *Pool {
	return &Pool{Workers: runtime.GOMAXPROCS(0)}
}

// partition splits [from, to) into up to Workers contiguous blocks.
func (p *Pool) partition(from, to int) [][2]int {
	n := to - from
	if n <= 0 {
		return nil
	}
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	blocks := make([][2]int, 0, workers)
	chunk := n / workers
	rem := n % workers
	start := from
	for w := 0; w < workers; w++ {
		size := chunk
		if w < rem {
			size++
		}
		if size == 0 {
			continue
		}
		blocks = append(blocks, [2]int{start, start + size})
		start += size
	}
	return blocks
}

// ParallelFor runs body(i, slot) for every i in [from, to), partitioning the
// range across p.Workers goroutines. newSlot is called once per worker,
// never once per index, so body may accumulate into *S across its whole
// block (the "thread-local slot" the core's Phase B initial pass writes its
// per-particle event buffer into). An error returned by any body call
// cancels the remaining workers and is returned once all have stopped.
func ParallelFor[S any](ctx context.Context, p *Pool, from, to int, newSlot func() S, body func(ctx context.Context, i int, slot *S) error) ([]S, error) {
	blocks := p.partition(from, to)
	slots := make([]S, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	for w, b := range blocks {
		w, b := w, b
		slots[w] = newSlot()
		g.Go(func() error {
			for i := b[0]; i < b[1]; i++ {
				if err := body(gctx, i, &slots[w]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

// Reduce merges per-worker slots into a single result, single-threaded.
// This is the explicit reduction step run at the Phase B parallel-region
// boundary: per-worker event buffers are folded into one slice before the
// deterministic sort that precedes EventSet insertion.
func Reduce[S any, R any](slots []S, zero R, combine func(R, S) R) R {
	acc := zero
	for _, s := range slots {
		acc = combine(acc, s)
	}
	return acc
}
