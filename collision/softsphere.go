// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import (
	"context"
	"math"

	"github.com/gazed/rubble/gravity"
	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/neighbor"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/stats"
	"github.com/gazed/rubble/storage"
)

// SoftSphereStep is the continuous spring-dashpot alternative to
// HardSphereStep: overlapping neighbors push apart smoothly instead of
// resolving a discrete contact event, at the cost of needing a time step
// small relative to the contact duration it calibrates to.
type SoftSphereStep struct {
	Gravity   gravity.Evaluator
	Neighbors neighbor.Finder

	// SpringConstant (k_s) scales the characteristic contact duration
	// relative to the pair's orbital period; the contact lasts k_s orbital
	// periods, so larger values make contacts softer (longer) and smaller
	// values demand a smaller integration time step.
	SpringConstant float64
	// Restitution (epsilon) is the coefficient of restitution the
	// dashpot damping is calibrated to reproduce.
	Restitution float64
}

// NewSoftSphereStep wires the given collaborators into a SoftSphereStep.
func NewSoftSphereStep(g gravity.Evaluator, nb neighbor.Finder, springConstant, restitution float64) *SoftSphereStep {
	return &SoftSphereStep{Gravity: g, Neighbors: nb, SpringConstant: springConstant, Restitution: restitution}
}

// orbitPeriod returns the Keplerian orbital period of a circular two-body
// orbit of total mass mSum at separation dist, the characteristic
// timescale the spring-dashpot contact duration is calibrated against.
func orbitPeriod(mSum, dist float64) float64 {
	return 2 * math.Pi * math.Sqrt(dist*dist*dist/(gravity.G*mSum))
}

// contactConstants derives the spring stiffness k1 and damping k2 for a
// pair whose effective contact duration is tDur, so that the resulting
// spring-dashpot oscillation completes in tDur with restitution epsilon.
func contactConstants(mEff, tDur, epsilon float64) (k1, k2 float64) {
	k1 = mEff * math.Pi * math.Pi / (tDur * tDur)
	lnEps := math.Log(epsilon)
	k2 = mEff * (2 * math.Pi / math.Sqrt(math.Pi*math.Pi/(lnEps*lnEps)+1)) / tDur
	return k1, k2
}

// Step runs one soft-sphere step: gravity, then a parallel pass adding
// spring-dashpot contact forces from overlapping neighbors, writing only
// into each particle's own acceleration slot.
func (ss *SoftSphereStep) Step(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, sink *stats.Sink) error {
	acc := make([]lin.V3, s.Len())
	for i := range acc {
		acc[i] = *s.Positions().D2t[i].V3()
	}
	if err := ss.Gravity.Build(ctx, pool, s); err != nil {
		return err
	}
	if err := ss.Gravity.EvalSelfGravity(ctx, pool, s, acc); err != nil {
		return err
	}
	if err := ss.Gravity.EvalAttractors(ctx, s, acc); err != nil {
		return err
	}

	positions := s.Positions().Value
	velocities := s.Positions().Dt
	masses := s.Masses().Value

	searchRadius := 0.0
	for _, p := range positions {
		if 2*p.W > searchRadius {
			searchRadius = 2 * p.W
		}
	}
	ss.Neighbors.BuildWithRank(positions, nil)

	n := s.Len()
	_, err := scheduler.ParallelFor(ctx, pool, 0, n,
		func() struct{} { return struct{}{} },
		func(_ context.Context, i int, _ *struct{}) error {
			pi := positions[i]
			vi := *velocities[i].V3()
			mi := masses[i]
			neighbors := ss.Neighbors.FindAll(i, searchRadius, nil)

			var force lin.V3
			for _, j := range neighbors {
				pj := positions[j]
				vj := *velocities[j].V3()
				mj := masses[j]

				var dr lin.V3
				dr.Sub(pi.V3(), pj.V3())
				dist := dr.Len()
				radiusSum := pi.W + pj.W
				alpha := radiusSum - dist
				if alpha <= 0 {
					continue // not overlapping
				}
				n := lin.NewV3().Set(&dr)
				if dist > 0 {
					n.Scale(&dr, 1/dist)
				}

				var dv lin.V3
				dv.Sub(&vi, &vj)
				alphaDot := -dv.Dot(n)

				mEff := mi * mj / (mi + mj)
				tDur := ss.SpringConstant * orbitPeriod(mi+mj, radiusSum)
				k1, k2 := contactConstants(mEff, tDur, ss.Restitution)

				// n points from j toward i, away from the neighbor, so a
				// positive scale here pushes i away from an overlapping j.
				scale := (k1*alpha + k2*alphaDot) / mi
				force.AddScaled(&force, n, scale)
			}
			acc[i].Add(&acc[i], &force)
			return nil
		})
	if err != nil {
		return err
	}

	for i := range s.Positions().D2t {
		s.Positions().D2t[i].SetV3(&acc[i])
		s.Positions().D2t[i].W = 0
	}
	return nil
}
