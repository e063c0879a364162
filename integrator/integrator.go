// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package integrator drives the outer per-step loop: evaluate gravity
// through the collision step, advance every particle by a semi-implicit
// Euler update, then resolve contacts within the step, the same "evaluate
// forces, then Simulate the timestep" shape the engine's own physics loop
// uses.
package integrator

import (
	"context"

	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/stats"
	"github.com/gazed/rubble/storage"
)

// HardSphereStepper is the subset of collision.HardSphereStep the
// integrator drives, named here to avoid an import cycle between
// integrator and collision.
type HardSphereStepper interface {
	Integrate(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, sink *stats.Sink) error
	Collide(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, sink *stats.Sink, dt float64) error
}

// SoftSphereStepper is the subset of collision.SoftSphereStep the
// integrator drives.
type SoftSphereStepper interface {
	Step(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, sink *stats.Sink) error
}

// Integrator advances a Storage through successive timesteps using
// exactly one of HardSphere or SoftSphere, never both.
type Integrator struct {
	HardSphere HardSphereStepper
	SoftSphere SoftSphereStepper
	Pool       *scheduler.Pool
}

// New creates an Integrator driven by a hard-sphere step.
func New(pool *scheduler.Pool, step HardSphereStepper) *Integrator {
	return &Integrator{HardSphere: step, Pool: pool}
}

// NewSoft creates an Integrator driven by a soft-sphere step.
func NewSoft(pool *scheduler.Pool, step SoftSphereStepper) *Integrator {
	return &Integrator{SoftSphere: step, Pool: pool}
}

// Step advances s by one timestep of size dt, accumulating per-step
// counters into sink.
func (it *Integrator) Step(ctx context.Context, s *storage.Storage, sink *stats.Sink, dt float64) error {
	switch {
	case it.HardSphere != nil:
		if err := it.HardSphere.Integrate(ctx, it.Pool, s, sink); err != nil {
			return err
		}
		it.advance(s, dt)
		if err := it.HardSphere.Collide(ctx, it.Pool, s, sink, dt); err != nil {
			return err
		}
	case it.SoftSphere != nil:
		if err := it.SoftSphere.Step(ctx, it.Pool, s, sink); err != nil {
			return err
		}
		it.advance(s, dt)
	}
	return nil
}

// Run advances s by steps successive timesteps of size dt.
func (it *Integrator) Run(ctx context.Context, s *storage.Storage, sink *stats.Sink, dt float64, steps int) error {
	for i := 0; i < steps; i++ {
		if err := it.Step(ctx, s, sink, dt); err != nil {
			return err
		}
	}
	return nil
}

// advance applies a semi-implicit (symplectic) Euler update: velocity
// first absorbs this step's acceleration, then position absorbs the
// updated velocity, and the acceleration accumulator is zeroed for the
// next step's Integrate/Build pass (which panics on a non-zero entry
// value — see collision.HardSphereStep.Integrate).
func (it *Integrator) advance(s *storage.Storage, dt float64) {
	position := s.Positions()
	for i := range position.Value {
		v := &position.Dt[i]
		a := &position.D2t[i]
		v.X += a.X * dt
		v.Y += a.Y * dt
		v.Z += a.Z * dt

		p := &position.Value[i]
		var dp lin.V3
		dp.Scale(v.V3(), dt)
		p.X += dp.X
		p.Y += dp.Y
		p.Z += dp.Z

		*a = lin.V4{}
	}
}
