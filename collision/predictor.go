// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import (
	"math"

	"github.com/gazed/rubble/math/lin"
)

// ContactPredictor computes the earliest sphere-sphere intersection time
// within a window, or reports an overlap if the pair is already
// interpenetrating.
type ContactPredictor struct {
	// AllowedOverlap is the penetration ratio below which a pair is not
	// reported as an overlap event (avoids epsilon noise right after a
	// contact is resolved).
	AllowedOverlap float64
}

// NewContactPredictor creates a ContactPredictor with the given allowed
// overlap ratio.
func NewContactPredictor(allowedOverlap float64) *ContactPredictor {
	return &ContactPredictor{AllowedOverlap: allowedOverlap}
}

// Predict returns the earliest time in [0, dt] at which spheres (r1, v1,
// rad1) and (r2, v2, rad2) touch, or ok=false if they do not touch within
// the window.
func (c *ContactPredictor) Predict(r1, v1 *lin.V3, rad1 float64, r2, v2 *lin.V3, rad2 float64, dt float64) (t float64, ok bool) {
	var dr, dv lin.V3
	dr.Sub(r1, r2)
	dv.Sub(v1, v2)
	radiusSum := rad1 + rad2

	b := dv.Dot(&dr)
	if b >= 0 {
		return 0, false // not approaching
	}

	dvLenSqr := dv.LenSqr()
	if dvLenSqr == 0 {
		return 0, false
	}

	var perp lin.V3
	perp.AddScaled(&dr, &dv, -b/dvLenSqr) // dr_perp = dr - (b/|dv|^2)*dv
	if perp.LenSqr() > radiusSum*radiusSum {
		return 0, false // miss distance exceeds contact
	}

	// |dr + dv*t|^2 = radiusSum^2 expands to a quadratic a*t^2+2*b*t+c=0
	// with a = |dv|^2, b = dv.dr (already computed), c = |dr|^2-radiusSum^2.
	a := dvLenSqr
	cTerm := dr.LenSqr() - radiusSum*radiusSum
	det := b*b - a*cTerm
	if det < 0 {
		det = 0
	}
	sqrtDet := math.Sqrt(det)

	// The branch is chosen by the sign of cTerm (equivalently, whether
	// det/(b*b) exceeds 1): separated spheres take the earlier, entry
	// crossing; already-overlapping spheres take the exit crossing.
	var root float64
	switch {
	case cTerm == 0:
		// spheres are exactly touching at t=0: the contact time is 0.
		root = 0
	case cTerm < 0:
		// already past the entry root at t=0 (it is negative): take the
		// later, exit root, the one using +sqrtDet.
		root = (-b + sqrtDet) / a
	default:
		root = (-b - sqrtDet) / a
	}

	if root < 0 || root > dt {
		return 0, false
	}
	return root, true
}

// Overlap reports whether spheres at r1/r2 with radii rad1/rad2 are
// already interpenetrating beyond AllowedOverlap, returning the overlap
// value u = 1 - |dr|^2/(rad1+rad2)^2 used as the PairEvent's Overlap field.
func (c *ContactPredictor) Overlap(r1, r2 *lin.V3, rad1, rad2 float64) (u float64, ok bool) {
	radiusSum := rad1 + rad2
	if radiusSum <= 0 {
		return 0, false
	}
	distSqr := r1.DistSqr(r2)
	u = 1 - distSqr/(radiusSum*radiusSum)
	if u > c.AllowedOverlap*c.AllowedOverlap {
		return u, true
	}
	return u, false
}
