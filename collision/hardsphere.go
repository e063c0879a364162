// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/gazed/rubble/gravity"
	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/neighbor"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/stats"
	"github.com/gazed/rubble/storage"
)

const epsilonAfterContact = 1e-12

// scanResult is a single worker's output from findClosestCollision: the
// events it found, and (during the initial pass only) the worst-case
// travel-sphere radius it recorded per particle index it touched.
type scanResult struct {
	events []PairEvent
	radius map[int]float64
}

// HardSphereStep orchestrates one integration step: gravity, the
// collision sweep, and commit of structural removals.
type HardSphereStep struct {
	Gravity   gravity.Evaluator
	Neighbors neighbor.Finder
	Predictor *ContactPredictor
	Frame     *FrameIntegrator
	Collision Handler // nil disables the collision sweep entirely
	Overlap   Handler // nil disables overlap detection

	RigidBody  bool
	MaxBounces int

	// Verbose gates the step's diagnostic log lines, cheap to check when
	// disabled.
	Verbose bool

	// per-step scratch, reset at the top of Collide
	searchRadius []float64
	bounceCount  []int
	removed      map[int]struct{}
	removedList  []int
}

// NewHardSphereStep wires the given collaborators into a HardSphereStep.
func NewHardSphereStep(g gravity.Evaluator, nb neighbor.Finder, predictor *ContactPredictor, frame *FrameIntegrator, collision, overlap Handler, maxBounces int) *HardSphereStep {
	return &HardSphereStep{
		Gravity:    g,
		Neighbors:  nb,
		Predictor:  predictor,
		Frame:      frame,
		Collision:  collision,
		Overlap:    overlap,
		MaxBounces: maxBounces,
	}
}

func (h *HardSphereStep) logf(format string, args ...interface{}) {
	if h.Verbose {
		log.Printf("collision: "+format, args...)
	}
}

// Integrate runs Phase A: builds gravity, evaluates self- and attractor-
// accelerations, and zeroes the radius component of velocity and
// acceleration for every particle.
func (h *HardSphereStep) Integrate(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, sink *stats.Sink) error {
	acc := s.Positions().D2t
	for i := range acc {
		if acc[i].X != 0 || acc[i].Y != 0 || acc[i].Z != 0 {
			panic(fmt.Sprintf("collision: acceleration not zero on entry at index %d", i))
		}
	}

	if err := h.Gravity.Build(ctx, pool, s); err != nil {
		return err
	}
	accel := make([]lin.V3, len(acc))
	if err := h.Gravity.EvalSelfGravity(ctx, pool, s, accel); err != nil {
		return err
	}
	if err := h.Gravity.EvalAttractors(ctx, s, accel); err != nil {
		return err
	}
	for i := range acc {
		acc[i].SetV3(&accel[i])
	}

	for i := range s.Positions().Dt {
		s.Positions().Dt[i].W = 0
		s.Positions().D2t[i].W = 0
	}
	return nil
}

// rank is the lower-rank pair ordering used by the neighbor finder: a
// particle's rank is its worst-case travel-sphere radius, so the
// lower-rank scan visits every pair whose travel spheres could possibly
// intersect.
func (h *HardSphereStep) rankOf(s *storage.Storage, dt float64) []float64 {
	n := s.Len()
	rank := make([]float64, n)
	for i := 0; i < n; i++ {
		p := s.Positions().Value[i]
		v := s.Positions().Dt[i]
		rank[i] = p.W + v.V3().Len()*dt
	}
	return rank
}

// Collide runs Phases B-D: the collision sweep, serial resolution, and
// commit.
func (h *HardSphereStep) Collide(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, sink *stats.Sink, dt float64) error {
	if h.Collision == nil {
		return nil
	}

	if h.RigidBody {
		for i := 0; i < s.Len(); i++ {
			omega := h.Frame.Advance(&s.Frames().Value[i], &s.AngularMomenta().Value[i], &s.Inertias().Value[i], dt)
			s.AngularFrequencies().Value[i] = *omega
		}
	}

	rank := h.rankOf(s, dt)
	rankLess := func(i, j int) bool {
		if rank[i] != rank[j] {
			return rank[i] < rank[j]
		}
		return i < j
	}
	h.Neighbors.BuildWithRank(s.Positions().Value, rankLess)

	n := s.Len()
	h.searchRadius = make([]float64, n)
	h.bounceCount = make([]int, n)
	h.removed = make(map[int]struct{})
	h.removedList = nil

	events := NewEventSet()

	// Phase B.5-7: initial parallel pass, reduced deterministically.
	slots, err := scheduler.ParallelFor(ctx, pool, 0, n,
		func() scanResult { return scanResult{radius: make(map[int]float64)} },
		func(_ context.Context, i int, slot *scanResult) error {
			h.findClosestCollision(s, i, true, 0, dt, slot)
			return nil
		})
	if err != nil {
		return err
	}
	buffer := scheduler.Reduce(slots, []PairEvent(nil), func(acc []PairEvent, sl scanResult) []PairEvent {
		for k, r := range sl.radius {
			if r > h.searchRadius[k] {
				h.searchRadius[k] = r
			}
		}
		return append(acc, sl.events...)
	})
	// deterministic sort: simultaneous events can only be broken by a
	// fixed tie-break, here the full ordering key plus worker index is
	// already baked into buffer's append order, so a stable sort on the
	// key is sufficient to make the result reproducible across runs.
	sort.SliceStable(buffer, func(a, b int) bool { return less(buffer[a], buffer[b]) })
	for _, e := range buffer {
		events.Insert(e)
	}

	// Phase C: serial resolution loop.
	for events.Len() > 0 {
		e, ok := events.Pop()
		if !ok {
			break
		}
		if e.T < 0 || e.T >= dt {
			panic(fmt.Sprintf("collision: event time %f out of range [0,%f)", e.T, dt))
		}
		if _, gone := h.removed[e.I]; gone {
			continue
		}
		if _, gone := h.removed[e.J]; gone {
			continue
		}

		pi, pj := &s.Positions().Value[e.I], &s.Positions().Value[e.J]
		vi, vj := s.Positions().Dt[e.I], s.Positions().Dt[e.J]
		pi.SetV3(lin.NewV3().AddScaled(pi.V3(), vi.V3(), e.T))
		pj.SetV3(lin.NewV3().AddScaled(pj.V3(), vj.V3(), e.T))

		var outcome Outcome
		var removedNow []int
		if e.IsOverlap() {
			outcome = h.Overlap(s, e.I, e.J, &removedNow)
		} else {
			outcome = h.Collision(s, e.I, e.J, &removedNow)
		}

		pi.SetV3(lin.NewV3().AddScaled(pi.V3(), vi.V3(), -e.T))
		if _, gone := h.removed[e.J]; !gone {
			pj.SetV3(lin.NewV3().AddScaled(pj.V3(), vj.V3(), -e.T))
		}

		switch outcome {
		case None:
			sink.Overlaps += boolToInt(e.IsOverlap())
			continue
		case Merger:
			sink.Mergers++
		case Bounce:
			sink.Bounces++
		}
		sink.Collisions++
		for _, r := range removedNow {
			if _, already := h.removed[r]; !already {
				h.removed[r] = struct{}{}
				h.removedList = append(h.removedList, r)
			}
		}

		invalid := events.RemoveAllWith(e.I)
		for k := range events.RemoveAllWith(e.J) {
			invalid[k] = struct{}{}
		}
		h.bounceCount[e.I]++
		h.bounceCount[e.J]++

		for k := range invalid {
			if _, gone := h.removed[k]; gone {
				continue
			}
			if h.bounceCount[k] > h.MaxBounces {
				continue
			}
			var slot scanResult
			h.findClosestCollision(s, k, false, e.T+epsilonAfterContact, dt, &slot)
			for _, ne := range slot.events {
				if samePair(ne, e) {
					continue
				}
				events.Insert(ne)
			}
		}
	}

	// Phase D: commit.
	if len(h.removedList) > 0 {
		s.Remove(h.removedList, storage.Propagate)
		if err := s.IsValid(); err != nil {
			panic(fmt.Sprintf("collision: storage invalid after commit: %v", err))
		}
	}
	h.logf("step: %d collisions (%d mergers, %d bounces, %d overlaps)", sink.Collisions, sink.Mergers, sink.Bounces, sink.Overlaps)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// findClosestCollision appends every pair event found for particle i to
// slot.events. When useLowerRank is true it uses the FIND_LOWER_RANK
// query (initial pass, each pair visited once); otherwise it uses the
// previously recorded search radius (USE_RADII refinement pass).
func (h *HardSphereStep) findClosestCollision(s *storage.Storage, i int, useLowerRank bool, windowStart, dt float64, slot *scanResult) {
	pi := s.Positions().Value[i]
	vi := s.Positions().Dt[i]
	radius := pi.W + vi.V3().Len()*dt

	var neighbors []int
	if useLowerRank {
		// a lower-ranked neighbor's travel radius is at most radius, so
		// 2*radius reaches every neighbor whose travel sphere can touch i's.
		neighbors = h.Neighbors.FindLowerRank(i, 2*radius, nil)
		if slot.radius != nil {
			if radius > slot.radius[i] {
				slot.radius[i] = radius
			}
		}
	} else {
		r := h.searchRadius[i]
		neighbors = h.Neighbors.FindAll(i, r, nil)
	}

	// advance i to the window start: the refinement pass is re-invoked
	// after the caller has rewound storage back to t=0 (see Collide's
	// rewind at the bottom of its resolution loop), so pi/vi are always
	// raw t=0 values here and must be advanced explicitly rather than
	// assumed to already sit at windowStart.
	pi3 := lin.NewV3().AddScaled(pi.V3(), vi.V3(), windowStart)

	for _, j := range neighbors {
		pj := s.Positions().Value[j]
		vj := s.Positions().Dt[j]
		pj3 := lin.NewV3().AddScaled(pj.V3(), vj.V3(), windowStart)

		if h.Overlap != nil {
			if u, ok := h.Predictor.Overlap(pi3, pj3, pi.W, pj.W); ok {
				slot.events = append(slot.events, PairEvent{I: minI(i, j), J: maxI(i, j), Overlap: u, T: windowStart})
				continue
			}
		}
		remaining := dt - windowStart
		if remaining <= 0 {
			continue
		}
		if t, ok := h.Predictor.Predict(pi3, vi.V3(), pi.W, pj3, vj.V3(), pj.W, remaining); ok {
			slot.events = append(slot.events, PairEvent{I: minI(i, j), J: maxI(i, j), T: windowStart + t})
		}
		if slot.radius != nil {
			if radius > slot.radius[j] {
				slot.radius[j] = radius
			}
		}
	}
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}
