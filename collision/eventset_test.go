// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import "testing"

func TestEventSetTopOrdering(t *testing.T) {
	s := NewEventSet()
	s.Insert(PairEvent{I: 0, J: 1, T: 0.5})
	s.Insert(PairEvent{I: 2, J: 3, T: 0.1})
	s.Insert(PairEvent{I: 4, J: 5, T: 0.3})

	top, ok := s.Top()
	if !ok || top.I != 2 || top.J != 3 {
		t.Fatalf("Top got %+v want the t=0.1 event", top)
	}
}

func TestEventSetSimultaneousOrdersDeeperOverlapFirst(t *testing.T) {
	s := NewEventSet()
	s.Insert(PairEvent{I: 0, J: 1, T: 1, Overlap: 0.1})
	s.Insert(PairEvent{I: 2, J: 3, T: 1, Overlap: 0.9})

	top, _ := s.Top()
	if top.Overlap != 0.9 {
		t.Fatalf("Top got overlap %f want 0.9 (deeper first)", top.Overlap)
	}
}

func TestEventSetInsertDeduplicatesOnKey(t *testing.T) {
	s := NewEventSet()
	e := PairEvent{I: 0, J: 1, T: 0.5}
	if !s.Insert(e) {
		t.Fatal("first insert should succeed")
	}
	if s.Insert(e) {
		t.Fatal("duplicate insert should be rejected")
	}
	if s.Len() != 1 {
		t.Fatalf("Len got %d want 1", s.Len())
	}
}

func TestEventSetRemoveAllWithReturnsCompanions(t *testing.T) {
	s := NewEventSet()
	s.Insert(PairEvent{I: 0, J: 1, T: 0.1})
	s.Insert(PairEvent{I: 1, J: 2, T: 0.2})
	s.Insert(PairEvent{I: 3, J: 4, T: 0.3}) // unrelated

	companions := s.RemoveAllWith(1)
	want := map[int]struct{}{0: {}, 1: {}, 2: {}}
	if len(companions) != len(want) {
		t.Fatalf("companions got %v want %v", companions, want)
	}
	for k := range want {
		if _, ok := companions[k]; !ok {
			t.Errorf("companions missing %d: %v", k, companions)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("Len got %d want 1 (only the unrelated pair survives)", s.Len())
	}
	top, _ := s.Top()
	if top.I != 3 || top.J != 4 {
		t.Fatalf("remaining event got %+v want {3 4 ...}", top)
	}
}

func TestEventSetPopDrainsToEmpty(t *testing.T) {
	s := NewEventSet()
	s.Insert(PairEvent{I: 0, J: 1, T: 0.5})
	s.Insert(PairEvent{I: 2, J: 3, T: 0.1})

	first, ok := s.Pop()
	if !ok || first.I != 2 {
		t.Fatalf("first Pop got %+v", first)
	}
	second, ok := s.Pop()
	if !ok || second.I != 0 {
		t.Fatalf("second Pop got %+v", second)
	}
	if _, ok := s.Pop(); ok {
		t.Fatal("set should be empty")
	}
	if !s.consistent() {
		t.Fatal("empty set should be consistent")
	}
}

func TestEventSetConsistencyAfterMutation(t *testing.T) {
	s := NewEventSet()
	s.Insert(PairEvent{I: 0, J: 1, T: 0.1})
	s.Insert(PairEvent{I: 1, J: 2, T: 0.2})
	s.Insert(PairEvent{I: 2, J: 3, T: 0.3})
	s.RemoveAllWith(2)
	if !s.consistent() {
		t.Fatal("EventSet should stay consistent after RemoveAllWith")
	}
}
