// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package stats is a plain counter sink for per-step collision and timing
// bookkeeping. It has no domain behavior to delegate to a library, so it
// stays on the standard library.
package stats

import "time"

// Sink accumulates counters across one or more integration steps.
type Sink struct {
	Collisions int
	Mergers    int
	Bounces    int
	Overlaps   int

	GravityMillis   int64
	CollisionMillis int64
}

// Add folds other's counters into s.
func (s *Sink) Add(other Sink) {
	s.Collisions += other.Collisions
	s.Mergers += other.Mergers
	s.Bounces += other.Bounces
	s.Overlaps += other.Overlaps
	s.GravityMillis += other.GravityMillis
	s.CollisionMillis += other.CollisionMillis
}

// Reset zeroes every counter so s can be reused for the next step.
func (s *Sink) Reset() {
	*s = Sink{}
}

// Timed records the wall-clock duration of fn into *millis, in
// milliseconds, adding to any duration already recorded there.
func Timed(millis *int64, fn func() error) error {
	start := time.Now()
	err := fn()
	*millis += time.Since(start).Milliseconds()
	return err
}
