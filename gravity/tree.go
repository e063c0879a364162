// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package gravity

import (
	"context"
	"math"

	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/storage"
)

// octnode is one cell of the Barnes-Hut octree: either a leaf holding a
// single particle index, or an internal cell holding the aggregate mass
// and center of mass of everything beneath it plus up to 8 children.
type octnode struct {
	center lin.V3 // geometric center of this cell
	half   float64
	mass   float64
	com    lin.V3 // center of mass of the particles under this node
	leaf   int    // particle index, valid only when isLeaf is set
	isLeaf bool
	kids   [8]*octnode
}

func (n *octnode) octantOf(p *lin.V3) int {
	idx := 0
	if p.X > n.center.X {
		idx |= 1
	}
	if p.Y > n.center.Y {
		idx |= 2
	}
	if p.Z > n.center.Z {
		idx |= 4
	}
	return idx
}

func (n *octnode) childCenter(octant int) lin.V3 {
	c := n.center
	h := n.half / 2
	if octant&1 != 0 {
		c.X += h
	} else {
		c.X -= h
	}
	if octant&2 != 0 {
		c.Y += h
	} else {
		c.Y -= h
	}
	if octant&4 != 0 {
		c.Z += h
	} else {
		c.Z -= h
	}
	return c
}

// insert adds particle i at position p with mass m into the subtree
// rooted at n, splitting leaves as needed.
func insert(n *octnode, i int, p *lin.V3, m float64, positions []lin.V4, masses []float64) *octnode {
	if n == nil {
		return nil
	}
	if n.mass == 0 && n.isLeaf {
		n.isLeaf = true
		n.leaf = i
		n.mass = m
		n.com = *p
		return n
	}
	if n.isLeaf {
		existing := n.leaf
		existingPos := positions[existing].V3()
		n.isLeaf = false
		oct := n.octantOf(existingPos)
		if n.kids[oct] == nil {
			n.kids[oct] = &octnode{center: n.childCenter(oct), half: n.half / 2, isLeaf: true}
		}
		n.kids[oct] = insert(n.kids[oct], existing, existingPos, masses[existing], positions, masses)
	}
	oct := n.octantOf(p)
	if n.kids[oct] == nil {
		n.kids[oct] = &octnode{center: n.childCenter(oct), half: n.half / 2, isLeaf: true}
	}
	n.kids[oct] = insert(n.kids[oct], i, p, m, positions, masses)

	totalMass := 0.0
	var com lin.V3
	for _, k := range n.kids {
		if k == nil {
			continue
		}
		totalMass += k.mass
		com.AddScaled(&com, &k.com, k.mass)
	}
	if totalMass > 0 {
		com.Scale(&com, 1/totalMass)
	}
	n.mass = totalMass
	n.com = com
	return n
}

// Tree is a Barnes-Hut gravity evaluator, grounded on the opening-angle
// multipole walk OpenSPH's BarnesHut.cpp performs: far cells are
// approximated by their aggregate mass and center of mass, near cells are
// descended into. Built as a from-scratch octree rather than the gonum
// k-d tree neighbor.KD wraps, because the aggregate-mass/center-of-mass
// bookkeeping Barnes-Hut needs at every internal node has no natural home
// in gonum's kdtree.Node, which carries a bounding box and a single
// Comparable payload but no slot for node-level accumulators.
type Tree struct {
	// Theta is the Barnes-Hut opening angle; smaller is more accurate and
	// slower. 0 degenerates to brute-force exactness at brute-force cost.
	Theta float64

	root      *octnode
	positions []lin.V4
	masses    []float64
}

// NewTree creates a Tree evaluator with the given opening angle.
func NewTree(theta float64) *Tree {
	return &Tree{Theta: theta}
}

// Build implements Evaluator.
func (t *Tree) Build(ctx context.Context, pool *scheduler.Pool, s *storage.Storage) error {
	t.positions = s.Positions().Value
	t.masses = s.Masses().Value
	n := len(t.positions)
	if n == 0 {
		t.root = nil
		return nil
	}
	lo, hi := *t.positions[0].V3(), *t.positions[0].V3()
	for _, p := range t.positions[1:] {
		v := p.V3()
		lo.X, hi.X = math.Min(lo.X, v.X), math.Max(hi.X, v.X)
		lo.Y, hi.Y = math.Min(lo.Y, v.Y), math.Max(hi.Y, v.Y)
		lo.Z, hi.Z = math.Min(lo.Z, v.Z), math.Max(hi.Z, v.Z)
	}
	var center lin.V3
	center.Add(&lo, &hi)
	center.Scale(&center, 0.5)
	var extent lin.V3
	extent.Sub(&hi, &lo)
	half := math.Max(extent.X, math.Max(extent.Y, extent.Z))/2 + softening

	t.root = &octnode{center: center, half: half, isLeaf: true, mass: 0}
	// Seed the root as empty (mass 0, not a real leaf) so the first
	// insert always takes the "make me a leaf" branch cleanly.
	t.root.leaf = -1
	for i := range t.positions {
		t.root = insert(t.root, i, t.positions[i].V3(), t.masses[i], t.positions, t.masses)
	}
	return nil
}

// EvalSelfGravity implements Evaluator.
func (t *Tree) EvalSelfGravity(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, acc []lin.V3) error {
	n := len(t.positions)
	_, err := scheduler.ParallelFor(ctx, pool, 0, n,
		func() struct{} { return struct{}{} },
		func(_ context.Context, i int, _ *struct{}) error {
			if t.root == nil {
				return nil
			}
			pi := t.positions[i].V3()
			var a lin.V3
			t.walk(t.root, i, pi, &a)
			acc[i].Add(&acc[i], &a)
			return nil
		})
	return err
}

// walk performs the opening-angle test: if a cell's width-over-distance
// ratio is below Theta, its aggregate mass/center-of-mass stands in for
// descending into its children.
func (t *Tree) walk(n *octnode, self int, pi *lin.V3, acc *lin.V3) {
	if n == nil || n.mass == 0 {
		return
	}
	if n.isLeaf {
		if n.leaf == self {
			return
		}
		t.accumulate(pi, &n.com, n.mass, acc)
		return
	}
	var delta lin.V3
	delta.Sub(&n.com, pi)
	dist := delta.Len()
	width := n.half * 2
	if dist > 0 && width/dist < t.Theta {
		t.accumulate(pi, &n.com, n.mass, acc)
		return
	}
	for _, k := range n.kids {
		t.walk(k, self, pi, acc)
	}
}

func (t *Tree) accumulate(pi, other *lin.V3, mass float64, acc *lin.V3) {
	var delta lin.V3
	delta.Sub(other, pi)
	distSqr := delta.LenSqr() + softening
	invDist := 1 / math.Sqrt(distSqr)
	invDist3 := invDist * invDist * invDist
	acc.AddScaled(acc, &delta, G*mass*invDist3)
}

// EvalAttractors implements Evaluator. Attractor counts are always small
// relative to particle counts, so this stays brute force even in Tree.
func (t *Tree) EvalAttractors(ctx context.Context, s *storage.Storage, acc []lin.V3) error {
	attractors := s.Attractors()
	for i, p := range t.positions {
		pi := p.V3()
		for _, at := range attractors {
			t.accumulate(pi, &at.Position, at.Mass, &acc[i])
		}
	}
	return nil
}
