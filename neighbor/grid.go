// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package neighbor

import (
	"math"

	"github.com/gazed/rubble/math/lin"
)

// cell is a 3D grid cell coordinate.
type cell struct{ x, y, z int }

// Grid is a uniform spatial hash, rebuilt from scratch each step. Cheap to
// build, and sufficient whenever the scene's particle radii are roughly
// uniform so a single cell size works well for every query.
type Grid struct {
	size      float64
	buckets   map[cell][]int
	positions []lin.V4
	rank      RankLess
}

// NewGrid creates a Grid using cellSize as the bucket edge length. A query
// scans ceil(radius/cellSize)+1 cells in each direction, so any radius is
// covered; a cellSize near the typical query radius keeps that scan small.
func NewGrid(cellSize float64) *Grid {
	return &Grid{size: cellSize}
}

func (g *Grid) cellOf(p lin.V3) cell {
	return cell{
		x: int(math.Floor(p.X / g.size)),
		y: int(math.Floor(p.Y / g.size)),
		z: int(math.Floor(p.Z / g.size)),
	}
}

// BuildWithRank implements Finder.
func (g *Grid) BuildWithRank(positions []lin.V4, rank RankLess) {
	g.positions = positions
	g.rank = rank
	g.buckets = make(map[cell][]int, len(positions))
	for i, p := range positions {
		c := g.cellOf(*p.V3())
		g.buckets[c] = append(g.buckets[c], i)
	}
}

func (g *Grid) eachNearby(pos lin.V3, radius float64, visit func(j int)) {
	center := g.cellOf(pos)
	span := int(math.Ceil(radius/g.size)) + 1
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				c := cell{center.x + dx, center.y + dy, center.z + dz}
				for _, j := range g.buckets[c] {
					visit(j)
				}
			}
		}
	}
}

// FindLowerRank implements Finder.
func (g *Grid) FindLowerRank(i int, radius float64, out []int) []int {
	pos := *g.positions[i].V3()
	g.eachNearby(pos, radius, func(j int) {
		if j == i {
			return
		}
		if g.rank != nil && !g.rank(j, i) {
			return
		}
		if pos.Dist(g.positions[j].V3()) <= radius {
			out = append(out, j)
		}
	})
	return out
}

// FindAll implements Finder.
func (g *Grid) FindAll(i int, radius float64, out []int) []int {
	pos := *g.positions[i].V3()
	g.eachNearby(pos, radius, func(j int) {
		if j == i {
			return
		}
		if pos.Dist(g.positions[j].V3()) <= radius {
			out = append(out, j)
		}
	})
	return out
}

// FindAllAt implements Finder.
func (g *Grid) FindAllAt(pos lin.V3, radius float64, out []int) []int {
	g.eachNearby(pos, radius, func(j int) {
		if pos.Dist(g.positions[j].V3()) <= radius {
			out = append(out, j)
		}
	})
	return out
}
