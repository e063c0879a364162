// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package gravity

import (
	"context"
	"math"

	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/storage"
)

// softening avoids a singular acceleration when two particles coincide
// exactly, which otherwise only happens right after a merge before the
// merged particle's neighbors are re-queried.
const softening = 1e-9

// Direct is the brute-force O(N^2) Evaluator: every particle sums the
// contribution of every other particle. Used for the small scenarios and
// as the correctness oracle Tree is checked against.
type Direct struct {
	positions []lin.V4
	masses    []float64
}

// NewDirect creates a Direct evaluator.
func NewDirect() *Direct { return &Direct{} }

// Build implements Evaluator.
func (d *Direct) Build(ctx context.Context, pool *scheduler.Pool, s *storage.Storage) error {
	d.positions = s.Positions().Value
	d.masses = s.Masses().Value
	return nil
}

// EvalSelfGravity implements Evaluator.
func (d *Direct) EvalSelfGravity(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, acc []lin.V3) error {
	n := len(d.positions)
	_, err := scheduler.ParallelFor(ctx, pool, 0, n,
		func() struct{} { return struct{}{} },
		func(_ context.Context, i int, _ *struct{}) error {
			pi := d.positions[i].V3()
			var a lin.V3
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				pj := d.positions[j].V3()
				var delta lin.V3
				delta.Sub(pj, pi)
				distSqr := delta.LenSqr() + softening
				invDist := 1 / math.Sqrt(distSqr)
				invDist3 := invDist * invDist * invDist
				scale := G * d.masses[j] * invDist3
				a.AddScaled(&a, &delta, scale)
			}
			acc[i].Add(&acc[i], &a)
			return nil
		})
	return err
}

// EvalAttractors implements Evaluator.
func (d *Direct) EvalAttractors(ctx context.Context, s *storage.Storage, acc []lin.V3) error {
	attractors := s.Attractors()
	for i, p := range d.positions {
		pi := p.V3()
		var a lin.V3
		for _, at := range attractors {
			var delta lin.V3
			delta.Sub(&at.Position, pi)
			distSqr := delta.LenSqr() + softening
			invDist := 1 / math.Sqrt(distSqr)
			invDist3 := invDist * invDist * invDist
			a.AddScaled(&a, &delta, G*at.Mass*invDist3)
		}
		acc[i].Add(&acc[i], &a)
	}
	return nil
}
