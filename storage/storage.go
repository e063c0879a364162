// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package storage

import (
	"fmt"

	"github.com/gazed/rubble/math/lin"
)

// Order states how many time derivatives a quantity carries.
type Order int

const (
	// Zero order quantities have no derivative arrays (Mass, Inertia, Frame).
	Zero Order = iota
	// First order quantities carry one derivative (unused here, reserved).
	First
	// Second order quantities carry value, 1st and 2nd derivatives
	// (Position: value=position, dt=velocity, d2t=acceleration).
	Second
)

// Holder owns one quantity's value array and, depending on Order, its
// time derivative arrays. All arrays are parallel to the particle index.
// Ported from the value/1st-derivative/2nd-derivative grouping of a
// classic SPH quantity holder.
type Holder[T any] struct {
	Order Order
	Value []T
	Dt    []T // nil unless Order >= First
	D2t   []T // nil unless Order == Second
}

func newHolder[T any](order Order, n int) *Holder[T] {
	h := &Holder[T]{Order: order, Value: make([]T, n)}
	if order >= First {
		h.Dt = make([]T, n)
	}
	if order == Second {
		h.D2t = make([]T, n)
	}
	return h
}

func (h *Holder[T]) size() int { return len(h.Value) }

func (h *Holder[T]) grow(n int) {
	var zero T
	for len(h.Value) < n {
		h.Value = append(h.Value, zero)
	}
	if h.Dt != nil {
		for len(h.Dt) < n {
			h.Dt = append(h.Dt, zero)
		}
	}
	if h.D2t != nil {
		for len(h.D2t) < n {
			h.D2t = append(h.D2t, zero)
		}
	}
}

func (h *Holder[T]) removeAt(idx []int) {
	h.Value = removeIndices(h.Value, idx)
	if h.Dt != nil {
		h.Dt = removeIndices(h.Dt, idx)
	}
	if h.D2t != nil {
		h.D2t = removeIndices(h.D2t, idx)
	}
}

// removeIndices returns s with the (ascending, deduplicated) indices
// removed, preserving the relative order of the remaining elements.
func removeIndices[T any](s []T, idx []int) []T {
	if len(idx) == 0 {
		return s
	}
	out := s[:0:0]
	next := 0
	for i, v := range s {
		if next < len(idx) && idx[next] == i {
			next++
			continue
		}
		out = append(out, v)
	}
	return out
}

// Attractor is an external massive point that exerts gravity on particles
// but never participates in collisions.
type Attractor struct {
	Position lin.V3
	Mass     float64
}

// Storage owns the typed particle columns and the attractor list. Remove
// compacts the columns immediately, so callers that hold indices during a
// step collect removals and call Remove once at the end (see Remove).
type Storage struct {
	n int

	position         *Holder[lin.V4]
	angularMomentum  *Holder[lin.V3]
	angularFrequency *Holder[lin.V3]
	mass             *Holder[float64]
	inertia          *Holder[lin.M3]
	frame            *Holder[lin.M3]

	attractors []Attractor
}

// New creates a Storage sized for n particles. Rigid-body columns
// (AngularMomentum, AngularFrequency, Inertia, Frame) are always allocated;
// callers that don't use rigid-body mode simply leave them at their zero
// value. They are not created lazily; every Storage has one shape.
func New(n int) *Storage {
	return &Storage{
		n:                n,
		position:         newHolder[lin.V4](Second, n),
		angularMomentum:  newHolder[lin.V3](Zero, n),
		angularFrequency: newHolder[lin.V3](Zero, n),
		mass:             newHolder[float64](Zero, n),
		inertia:          newHolder[lin.M3](Zero, n),
		frame:            newHolder[lin.M3](Zero, n),
	}
}

// Len returns the current particle count.
func (s *Storage) Len() int { return s.n }

// Add appends one particle, growing every column, and returns its index.
func (s *Storage) Add() int {
	idx := s.n
	s.n++
	s.position.grow(s.n)
	s.angularMomentum.grow(s.n)
	s.angularFrequency.grow(s.n)
	s.mass.grow(s.n)
	s.inertia.grow(s.n)
	s.frame.grow(s.n)
	s.frame.Value[idx] = *lin.NewM3I()
	return idx
}

// Positions returns the position/velocity/acceleration views: value holds
// position with radius in W, Dt holds velocity (W unused), D2t holds
// acceleration (W unused).
func (s *Storage) Positions() *Holder[lin.V4] { return s.position }

// AngularMomenta returns the angular momentum column (rigid-body mode).
func (s *Storage) AngularMomenta() *Holder[lin.V3] { return s.angularMomentum }

// AngularFrequencies returns the angular frequency column, recomputed
// each step from AngularMomenta and Inertias.
func (s *Storage) AngularFrequencies() *Holder[lin.V3] { return s.angularFrequency }

// Masses returns the mass column.
func (s *Storage) Masses() *Holder[float64] { return s.mass }

// Inertias returns the body-frame moment-of-inertia tensor column.
func (s *Storage) Inertias() *Holder[lin.M3] { return s.inertia }

// Frames returns the orthonormal body-to-world frame column.
func (s *Storage) Frames() *Holder[lin.M3] { return s.frame }

// Attractors returns the external attractor list.
func (s *Storage) Attractors() []Attractor { return s.attractors }

// AddAttractor appends an external gravity source.
func (s *Storage) AddAttractor(position lin.V3, mass float64) {
	s.attractors = append(s.attractors, Attractor{Position: position, Mass: mass})
}

// RemoveFlags controls Remove's expectations about its input and its
// propagation behaviour.
type RemoveFlags int

const (
	// Sorted asserts the index slice passed to Remove is already sorted
	// ascending; with this flag set Remove skips its own sort and trusts
	// the input order.
	Sorted RemoveFlags = 1 << iota
	// Propagate removes the same indices from every dependent column.
	// Storage has no columns independent of particle index, so this is
	// always effectively on; the flag exists to match the facade the
	// collision core expects to call.
	Propagate
)

// Remove deletes the given particle indices from every column. Unless
// Sorted is set, indices need not be sorted; Remove sorts them itself. It
// always deduplicates them. It is
// intended to be called once, at the end of a step, after collision
// resolution has finished consulting the removed set to skip stale
// particles.
func (s *Storage) Remove(indices []int, flags RemoveFlags) {
	if len(indices) == 0 {
		return
	}
	idx := append([]int(nil), indices...)
	if flags&Sorted == 0 {
		sortInts(idx)
	}
	idx = dedupSorted(idx)

	s.position.removeAt(idx)
	s.angularMomentum.removeAt(idx)
	s.angularFrequency.removeAt(idx)
	s.mass.removeAt(idx)
	s.inertia.removeAt(idx)
	s.frame.removeAt(idx)
	s.n -= len(idx)
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

func dedupSorted(a []int) []int {
	if len(a) == 0 {
		return a
	}
	out := a[:1]
	for _, v := range a[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// IsValid runs the post-commit consistency check the collision core calls
// after removing particles: every column must have exactly Len() entries.
func (s *Storage) IsValid() error {
	n := s.n
	check := func(name string, got int) error {
		if got != n {
			return fmt.Errorf("storage: %s has %d entries, want %d", name, got, n)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		got  int
	}{
		{"position", s.position.size()},
		{"angularMomentum", s.angularMomentum.size()},
		{"angularFrequency", s.angularFrequency.size()},
		{"mass", s.mass.size()},
		{"inertia", s.inertia.size()},
		{"frame", s.frame.size()},
	} {
		if err := check(c.name, c.got); err != nil {
			return err
		}
	}
	return nil
}
