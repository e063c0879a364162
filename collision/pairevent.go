// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package collision implements the hard-sphere and soft-sphere contact
// pipelines: predicting sphere-sphere intersection times, ordering and
// resolving them one at a time, and advancing rigid-body rotation between
// contacts.
package collision

// PairEvent describes a predicted contact, or an already-present overlap,
// between two particle indices at a sub-step time.
type PairEvent struct {
	I, J    int     // particle indices; I<J only by equality convention
	Overlap float64 // 1 - |dr|^2/(r_i+r_j)^2 at T; >0 marks an overlap event
	T       float64 // sub-step time in [0, dt)
}

// IsOverlap reports whether e was generated because the pair is already
// interpenetrating rather than predicted to collide in the future.
func (e PairEvent) IsOverlap() bool { return e.Overlap > 0 }

// less implements the EventSet ordering key: ascending (T, -Overlap, I, J).
// Earlier events sort first; among simultaneous events, deeper overlap
// sorts first; ties break lexicographically on the index pair so the
// ordering is total and insertion order plays no role.
func less(a, b PairEvent) bool {
	if a.T != b.T {
		return a.T < b.T
	}
	if a.Overlap != b.Overlap {
		return a.Overlap > b.Overlap
	}
	if a.I != b.I {
		return a.I < b.I
	}
	return a.J < b.J
}

// sameKey reports whether a and b occupy the same EventSet ordering key.
// EventSet.Insert deduplicates through its own key map, not through this.
func sameKey(a, b PairEvent) bool {
	return a.T == b.T && a.Overlap == b.Overlap && a.I == b.I && a.J == b.J
}

// samePair reports whether a and b reference the same unordered pair,
// regardless of event time or overlap value — the check Phase C's
// rediscovery step uses to reject re-inserting the pair it just resolved.
func samePair(a, b PairEvent) bool {
	return (a.I == b.I && a.J == b.J) || (a.I == b.J && a.J == b.I)
}
