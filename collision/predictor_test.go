// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import (
	"testing"

	"github.com/gazed/rubble/math/lin"
)

func TestPredictHeadOnCollision(t *testing.T) {
	p := NewContactPredictor(1e-6)
	r1, v1 := lin.NewV3S(-2, 0, 0), lin.NewV3S(5, 0, 0)
	r2, v2 := lin.NewV3S(2, 0, 0), lin.NewV3S(-5, 0, 0)
	tc, ok := p.Predict(r1, v1, 1, r2, v2, 0.5, 1.0)
	if !ok {
		t.Fatal("expected a predicted collision")
	}
	// centers close at relative speed 10, starting gap 4, touching gap 1.5
	// -> closes 2.5 distance at rate 10 -> t = 0.25
	if !lin.Aeq(tc, 0.25) {
		t.Errorf("got t=%f want 0.25", tc)
	}
}

func TestPredictNoApproachWhenSeparating(t *testing.T) {
	p := NewContactPredictor(1e-6)
	r1, v1 := lin.NewV3S(-2, 0, 0), lin.NewV3S(-5, 0, 0)
	r2, v2 := lin.NewV3S(2, 0, 0), lin.NewV3S(5, 0, 0)
	_, ok := p.Predict(r1, v1, 1, r2, v2, 1, 1.0)
	if ok {
		t.Error("separating spheres should not be predicted to collide")
	}
}

func TestPredictMissesWhenPerpendicularOffsetTooLarge(t *testing.T) {
	p := NewContactPredictor(1e-6)
	r1, v1 := lin.NewV3S(-2, 2.01, 0), lin.NewV3S(5, 0, 0)
	r2, v2 := lin.NewV3S(2, 0, 0), lin.NewV3S(-5, 0, 0)
	_, ok := p.Predict(r1, v1, 1, r2, v2, 1, 1.0)
	if ok {
		t.Error("spheres offset beyond radius sum should not collide")
	}
}

func TestPredictNoRootWithinWindow(t *testing.T) {
	p := NewContactPredictor(1e-6)
	r1, v1 := lin.NewV3S(-100, 0, 0), lin.NewV3S(1, 0, 0)
	r2, v2 := lin.NewV3S(100, 0, 0), lin.NewV3S(-1, 0, 0)
	_, ok := p.Predict(r1, v1, 1, r2, v2, 1, 1.0)
	if ok {
		t.Error("collision far beyond dt should not be reported")
	}
}

func TestPredictExactlyTouchingAtWindowStartReturnsZero(t *testing.T) {
	p := NewContactPredictor(1e-6)
	r1, v1 := lin.NewV3S(-2, 0, 0), lin.NewV3S(1, 0, 0)
	r2, v2 := lin.NewV3S(0, 0, 0), lin.NewV3S(0, 0, 0)
	// distance 2 exactly equals the radius sum: cTerm == 0, the boundary
	// between the "already overlapping" and "still approaching" branches.
	tc, ok := p.Predict(r1, v1, 1, r2, v2, 1, 1.0)
	if !ok {
		t.Fatal("expected a predicted contact at the window start")
	}
	if !lin.Aeq(tc, 0) {
		t.Errorf("got t=%f want 0", tc)
	}
}

func TestOverlapDetection(t *testing.T) {
	p := NewContactPredictor(1e-6)
	r1 := lin.NewV3S(0, 0, 0)
	r2 := lin.NewV3S(1, 0, 0)
	u, ok := p.Overlap(r1, r2, 1, 1) // radius sum 2, distance 1 -> deeply overlapping
	if !ok {
		t.Fatal("expected overlap to be reported")
	}
	want := 1 - 1.0/4.0
	if !lin.Aeq(u, want) {
		t.Errorf("got overlap %f want %f", u, want)
	}
}

func TestOverlapNotReportedWhenJustTouching(t *testing.T) {
	p := NewContactPredictor(0.01)
	r1 := lin.NewV3S(0, 0, 0)
	r2 := lin.NewV3S(2, 0, 0)
	_, ok := p.Overlap(r1, r2, 1, 1) // distance exactly equals radius sum
	if ok {
		t.Error("just-touching pair should not be reported as overlap")
	}
}
