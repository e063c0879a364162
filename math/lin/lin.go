// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin provides the linear math (vectors, 3x3 matrices) needed by
// the collision package: points, directions, and the rotation matrices
// that carry a rigid body's body frame.
//
// Package lin is provided as part of the rubble hard-sphere N-body engine.
package lin

// Design Notes:
//
// 1) Structures are mutated in place through pointer receivers so that
//    hot per-step math (gravity, contact prediction, frame rotation)
//    avoids allocating. Prefer v.Add(a, b) over a = a + b semantics.
// 2) The default scalar size is float64: collision times and overlap
//    ratios need more precision than the single-precision rendering
//    math this package was ported from.

import "math"

// Various linear math constants.
const (
	PI   float64 = math.Pi
	PIx2 float64 = PI * 2

	// Epsilon is used to distinguish when a float is close enough to a number.
	Epsilon float64 = 0.000001
)

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * PIx2 / 360.0 }

// AeqZ (~=) almost-equals returns true if the difference between x and zero
// is so small that it doesn't matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Aeq (~=) almost-equals returns true if the difference between a and b is
// so small that it doesn't matter.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Lerp returns the linear interpolation of a to b by the given ratio.
func Lerp(a, b, ratio float64) float64 { return (b-a)*ratio + a }

// Max3 returns the largest of the 3 numbers.
func Max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

// Min3 returns the smallest of the 3 numbers.
func Min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }

// Clamp returns a scalar value (one of: s, lb, ub) guaranteed to be within
// the range given by lower bound lb and upper bound ub.
func Clamp(s, lb, ub float64) float64 {
	switch {
	case s < lb:
		return lb
	case s > ub:
		return ub
	}
	return s
}
