// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package stats

import (
	"errors"
	"testing"
	"time"
)

func TestSinkAddFoldsCounters(t *testing.T) {
	s := Sink{Collisions: 1, Mergers: 2, Bounces: 3, Overlaps: 4, GravityMillis: 5, CollisionMillis: 6}
	s.Add(Sink{Collisions: 10, Mergers: 20, Bounces: 30, Overlaps: 40, GravityMillis: 50, CollisionMillis: 60})

	want := Sink{Collisions: 11, Mergers: 22, Bounces: 33, Overlaps: 44, GravityMillis: 55, CollisionMillis: 66}
	if s != want {
		t.Fatalf("got %+v want %+v", s, want)
	}
}

func TestSinkResetZeroesEveryField(t *testing.T) {
	s := Sink{Collisions: 1, Mergers: 2, Bounces: 3, Overlaps: 4, GravityMillis: 5, CollisionMillis: 6}
	s.Reset()
	if s != (Sink{}) {
		t.Fatalf("got %+v want zero value", s)
	}
}

func TestTimedAccumulatesMilliseconds(t *testing.T) {
	var millis int64
	if err := Timed(&millis, func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	}); err != nil {
		t.Fatalf("Timed returned error: %v", err)
	}
	if millis < 0 {
		t.Fatalf("got negative millis %d", millis)
	}

	before := millis
	if err := Timed(&millis, func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	}); err != nil {
		t.Fatalf("Timed returned error: %v", err)
	}
	if millis < before {
		t.Fatalf("Timed should accumulate, got %d after %d", millis, before)
	}
}

func TestTimedPropagatesError(t *testing.T) {
	var millis int64
	boom := errors.New("boom")
	err := Timed(&millis, func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v want %v", err, boom)
	}
}
