// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package integrator

import (
	"context"
	"testing"

	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/stats"
	"github.com/gazed/rubble/storage"
)

type constantAccelStep struct {
	accel lin.V3
}

func (c *constantAccelStep) Integrate(_ context.Context, _ *scheduler.Pool, s *storage.Storage, _ *stats.Sink) error {
	for i := range s.Positions().D2t {
		s.Positions().D2t[i].X = c.accel.X
		s.Positions().D2t[i].Y = c.accel.Y
		s.Positions().D2t[i].Z = c.accel.Z
	}
	return nil
}

func (c *constantAccelStep) Collide(_ context.Context, _ *scheduler.Pool, _ *storage.Storage, _ *stats.Sink, _ float64) error {
	return nil
}

func TestIntegratorAdvancesPositionAndVelocity(t *testing.T) {
	s := storage.New(0)
	s.Add()

	step := &constantAccelStep{accel: lin.V3{Y: -10}}
	it := New(scheduler.New(), step)
	sink := &stats.Sink{}

	if err := it.Step(context.Background(), s, sink, 0.1); err != nil {
		t.Fatalf("Step: %v", err)
	}

	v := s.Positions().Dt[0]
	if !lin.Aeq(v.Y, -1.0) {
		t.Errorf("velocity.Y got %f want -1.0 after one step of a=-10, dt=0.1", v.Y)
	}
	p := s.Positions().Value[0]
	if !lin.Aeq(p.Y, -0.1) {
		t.Errorf("position.Y got %f want -0.1 (semi-implicit Euler uses the updated velocity)", p.Y)
	}
	if s.Positions().D2t[0].Y != 0 {
		t.Errorf("acceleration should be zeroed after advance, got %f", s.Positions().D2t[0].Y)
	}
}

func TestIntegratorRunMultipleSteps(t *testing.T) {
	s := storage.New(0)
	s.Add()

	step := &constantAccelStep{accel: lin.V3{X: 1}}
	it := New(scheduler.New(), step)
	sink := &stats.Sink{}

	if err := it.Run(context.Background(), s, sink, 1.0, 5); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// v after step k is k (since a=1, dt=1); position accumulates the
	// running velocity each step: 1+2+3+4+5 = 15.
	if !lin.Aeq(s.Positions().Dt[0].X, 5) {
		t.Errorf("velocity.X got %f want 5", s.Positions().Dt[0].X)
	}
	if !lin.Aeq(s.Positions().Value[0].X, 15) {
		t.Errorf("position.X got %f want 15", s.Positions().Value[0].X)
	}
}
