// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import "container/heap"

// entry wraps a PairEvent with the liveness flag the lazy-deletion
// priority queue needs: remove_all_with marks companions dead in place
// rather than searching the heap for them, and top/pop skip dead entries
// as they are popped.
type entry struct {
	event PairEvent
	dead  bool
	index int // maintained by heap.Interface's Swap, used by nowhere else
}

// eventHeap is a container/heap.Interface over *entry, ordered by
// PairEvent's (t, -overlap, i, j) key.
type eventHeap []*entry

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return less(h[i].event, h[j].event) }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index, h[j].index = i, j }
func (h *eventHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// EventSet is the indexed priority container spec.md calls for: a
// container/heap-ordered set of PairEvents with lazy deletion, plus a
// per-particle multimap into the live entries touching each index. This
// is the same shape katalvlaran-lvlath's dijkstra package uses for its
// "lazy decrease-key" priority queue (push duplicates, ignore stale pops),
// generalized from single-index invalidation to the two-sided
// remove_all_with(i) companion-set semantics a contact graph needs.
type EventSet struct {
	heap  eventHeap
	byKey map[PairEvent]*entry
	byIdx map[int]map[*entry]struct{}
	live  int
}

// NewEventSet creates an empty EventSet.
func NewEventSet() *EventSet {
	return &EventSet{
		byKey: make(map[PairEvent]*entry),
		byIdx: make(map[int]map[*entry]struct{}),
	}
}

// Len returns the number of live events.
func (s *EventSet) Len() int { return s.live }

// Insert adds e, deduplicating on its ordering key (spec.md's "insertion
// deduplicates on the ordering key"). Returns false if e was already
// present.
func (s *EventSet) Insert(e PairEvent) bool {
	if _, ok := s.byKey[e]; ok {
		return false
	}
	ent := &entry{event: e}
	heap.Push(&s.heap, ent)
	s.byKey[e] = ent
	s.index(ent, e.I)
	s.index(ent, e.J)
	s.live++
	return true
}

func (s *EventSet) index(ent *entry, i int) {
	m := s.byIdx[i]
	if m == nil {
		m = make(map[*entry]struct{})
		s.byIdx[i] = m
	}
	m[ent] = struct{}{}
}

// Top returns the minimum event without removing it. ok is false when the
// set is empty.
func (s *EventSet) Top() (e PairEvent, ok bool) {
	s.compact()
	if s.heap.Len() == 0 {
		return PairEvent{}, false
	}
	return s.heap[0].event, true
}

// Pop removes and returns the minimum event. ok is false when the set is
// empty.
func (s *EventSet) Pop() (e PairEvent, ok bool) {
	s.compact()
	if s.heap.Len() == 0 {
		return PairEvent{}, false
	}
	ent := heap.Pop(&s.heap).(*entry)
	s.remove(ent)
	return ent.event, true
}

// Remove deletes exactly e from the set, if present.
func (s *EventSet) Remove(e PairEvent) {
	if ent, ok := s.byKey[e]; ok {
		ent.dead = true
		s.remove(ent)
	}
}

// RemoveAllWith deletes every live event touching particle i, returning
// the set of companion indices (the other endpoint of each removed
// event), which always includes i itself when i had any live events.
func (s *EventSet) RemoveAllWith(i int) map[int]struct{} {
	companions := make(map[int]struct{})
	for ent := range s.byIdx[i] {
		if ent.dead {
			continue
		}
		ent.dead = true
		companions[ent.event.I] = struct{}{}
		companions[ent.event.J] = struct{}{}
		s.remove(ent)
	}
	return companions
}

// remove finalizes bookkeeping for an entry already marked dead (or just
// popped): detaches it from both index slots and the key map, and
// decrements the live count exactly once.
func (s *EventSet) remove(ent *entry) {
	if ent.dead && s.byKey[ent.event] == nil {
		return // already finalized by an earlier call
	}
	ent.dead = true
	delete(s.byKey, ent.event)
	delete(s.byIdx[ent.event.I], ent)
	delete(s.byIdx[ent.event.J], ent)
	if len(s.byIdx[ent.event.I]) == 0 {
		delete(s.byIdx, ent.event.I)
	}
	if len(s.byIdx[ent.event.J]) == 0 {
		delete(s.byIdx, ent.event.J)
	}
	s.live--
}

// compact drops dead entries from the heap top, same idiom as
// dijkstra.go's "ignore stale entries when popped" comment.
func (s *EventSet) compact() {
	for s.heap.Len() > 0 && s.heap[0].dead {
		heap.Pop(&s.heap)
	}
}

// consistent is a test/assertion helper implementing spec.md invariant 5:
// every live event appears exactly twice in the per-particle index
// (once under I, once under J) and every index entry points to a live
// event.
func (s *EventSet) consistent() bool {
	for i, m := range s.byIdx {
		for ent := range m {
			if ent.dead {
				return false
			}
			if ent.event.I != i && ent.event.J != i {
				return false
			}
		}
	}
	count := 0
	for _, m := range s.byIdx {
		count += len(m)
	}
	return count == 2*s.live
}
