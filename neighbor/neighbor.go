// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package neighbor supplies candidate contact pairs to the collision core:
// a uniform grid for small scenes and a k-d tree for larger ones, both
// behind the same Finder interface.
package neighbor

import "github.com/gazed/rubble/math/lin"

// RankLess is a strict-weak ordering over particle indices. BuildWithRank
// uses it so FindLowerRank visits each unordered pair exactly once.
type RankLess func(i, j int) bool

// Finder is the neighbor-search facade the collision core consumes.
type Finder interface {
	// BuildWithRank rebuilds the index from the given positions (X/Y/Z of
	// each V4, radius ignored) using rank as the lower-rank ordering.
	BuildWithRank(positions []lin.V4, rank RankLess)
	// FindLowerRank appends every built index j with rank(j, i) true and
	// within radius of i's position to out, returning the extended slice.
	FindLowerRank(i int, radius float64, out []int) []int
	// FindAll appends every built index within radius of i's position to
	// out (both ranks), returning the extended slice.
	FindAll(i int, radius float64, out []int) []int
	// FindAllAt appends every built index within radius of an arbitrary
	// position to out, returning the extended slice.
	FindAllAt(pos lin.V3, radius float64, out []int) []int
}
