// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import (
	"context"
	"testing"

	"github.com/gazed/rubble/gravity"
	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/neighbor"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/stats"
	"github.com/gazed/rubble/storage"
)

// noGravity is a no-op Evaluator, used where a test wants the contact
// force isolated from self-gravity's pull.
type noGravity struct{}

func (noGravity) Build(ctx context.Context, pool *scheduler.Pool, s *storage.Storage) error {
	return nil
}
func (noGravity) EvalSelfGravity(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, acc []lin.V3) error {
	return nil
}
func (noGravity) EvalAttractors(ctx context.Context, s *storage.Storage, acc []lin.V3) error {
	return nil
}

func TestSoftSphereStepPushesOverlappingPairApart(t *testing.T) {
	s := storage.New(0)
	s.Add()
	s.Add()
	s.Positions().Value[0] = lin.V4{X: -0.4, W: 1}
	s.Positions().Value[1] = lin.V4{X: 0.4, W: 1}
	s.Masses().Value[0] = 1
	s.Masses().Value[1] = 1

	ss := NewSoftSphereStep(noGravity{}, neighbor.NewGrid(10), 1.0, 0.8)
	pool := scheduler.New()
	sink := &stats.Sink{}
	ctx := context.Background()

	if err := ss.Step(ctx, pool, s, sink); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if s.Positions().D2t[0].X >= 0 {
		t.Errorf("overlapping particle 0 should accelerate away (negative X), got %f", s.Positions().D2t[0].X)
	}
	if s.Positions().D2t[1].X <= 0 {
		t.Errorf("overlapping particle 1 should accelerate away (positive X), got %f", s.Positions().D2t[1].X)
	}
}

func TestSoftSphereStepSeparatedPairNoContactForce(t *testing.T) {
	s := storage.New(0)
	s.Add()
	s.Add()
	s.Positions().Value[0] = lin.V4{X: -5, W: 1}
	s.Positions().Value[1] = lin.V4{X: 5, W: 1}
	s.Masses().Value[0] = 1
	s.Masses().Value[1] = 1

	ss := NewSoftSphereStep(gravity.NewDirect(), neighbor.NewGrid(20), 1.0, 0.8)
	pool := scheduler.New()
	sink := &stats.Sink{}
	ctx := context.Background()

	if err := ss.Step(ctx, pool, s, sink); err != nil {
		t.Fatalf("Step: %v", err)
	}

	// only gravity's mutual pull should act; no spring kick outward.
	if s.Positions().D2t[0].X <= 0 {
		t.Errorf("separated pair should only feel mutual gravity (positive X pull toward particle 1), got %f", s.Positions().D2t[0].X)
	}
}

func TestSoftSphereStepZeroesRadiusDerivative(t *testing.T) {
	s := storage.New(0)
	s.Add()
	s.Positions().Value[0] = lin.V4{W: 1}
	s.Positions().D2t[0].W = 42 // stale value from a previous phase
	s.Masses().Value[0] = 1

	ss := NewSoftSphereStep(gravity.NewDirect(), neighbor.NewGrid(10), 1.0, 0.8)
	pool := scheduler.New()
	sink := &stats.Sink{}
	ctx := context.Background()

	if err := ss.Step(ctx, pool, s, sink); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if s.Positions().D2t[0].W != 0 {
		t.Errorf("radius acceleration component should be zeroed, got %f", s.Positions().D2t[0].W)
	}
}
