// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package neighbor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/gazed/rubble/math/lin"
)

// indexedPoint is a kdtree.Comparable that remembers which particle index
// it came from, so tree queries can be mapped back onto storage columns.
type indexedPoint struct {
	pos lin.V3
	idx int
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	default:
		return p.pos.Z - q.pos.Z
	}
}

func (p indexedPoint) Dims() int { return 3 }

func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	return p.pos.Dist(&q.pos)
}

// indexedPoints implements kdtree.Interface over a slice of indexedPoint.
type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(sortable{p, d}, medianIndex(len(p)))
}
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

func medianIndex(n int) int { return n / 2 }

// sortable adapts indexedPoints to sort.Interface keyed on one dimension,
// which kdtree.Partition needs to find the median for Pivot.
type sortable struct {
	p indexedPoints
	d kdtree.Dim
}

func (s sortable) Len() int { return len(s.p) }
func (s sortable) Less(i, j int) bool {
	switch s.d {
	case 0:
		return s.p[i].pos.X < s.p[j].pos.X
	case 1:
		return s.p[i].pos.Y < s.p[j].pos.Y
	default:
		return s.p[i].pos.Z < s.p[j].pos.Z
	}
}
func (s sortable) Swap(i, j int) { s.p[i], s.p[j] = s.p[j], s.p[i] }

var _ sort.Interface = sortable{}

// KD is a Finder backed by a gonum k-d tree, rebuilt each step. Preferred
// over Grid once particle counts make a fixed cell size costly to tune.
type KD struct {
	tree      *kdtree.Tree
	positions []lin.V4
	rank      RankLess
}

// NewKD creates an empty KD; call BuildWithRank before querying.
func NewKD() *KD { return &KD{} }

// BuildWithRank implements Finder.
func (k *KD) BuildWithRank(positions []lin.V4, rank RankLess) {
	k.positions = positions
	k.rank = rank
	pts := make(indexedPoints, len(positions))
	for i, p := range positions {
		pts[i] = indexedPoint{pos: *p.V3(), idx: i}
	}
	k.tree = kdtree.New(pts, true)
}

func (k *KD) collectWithin(pos lin.V3, radius float64, out []int, filter func(j int) bool) []int {
	if k.tree == nil {
		return out
	}
	keeper := kdtree.NewDistKeeper(radius)
	k.tree.NearSet(keeper, indexedPoint{pos: pos})
	for _, cd := range *keeper {
		ip := cd.Comparable.(indexedPoint)
		if filter != nil && !filter(ip.idx) {
			continue
		}
		if math.IsNaN(cd.Dist) {
			continue
		}
		out = append(out, ip.idx)
	}
	return out
}

// FindLowerRank implements Finder.
func (k *KD) FindLowerRank(i int, radius float64, out []int) []int {
	pos := *k.positions[i].V3()
	return k.collectWithin(pos, radius, out, func(j int) bool {
		return j != i && k.rank != nil && k.rank(j, i)
	})
}

// FindAll implements Finder.
func (k *KD) FindAll(i int, radius float64, out []int) []int {
	pos := *k.positions[i].V3()
	return k.collectWithin(pos, radius, out, func(j int) bool { return j != i })
}

// FindAllAt implements Finder.
func (k *KD) FindAllAt(pos lin.V3, radius float64, out []int) []int {
	return k.collectWithin(pos, radius, out, nil)
}
