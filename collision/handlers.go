// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import (
	"math"

	"github.com/gazed/rubble/gravity"
	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/storage"
)

// Outcome is what a handler did to a pair, used both to dispatch the
// EventSet loop's next step and to classify statistics.
type Outcome int

const (
	// None means the event was not real after all: remove only that
	// event, leave the particles' other events untouched.
	None Outcome = iota
	Bounce
	Merger
)

// Handler resolves one pair contact in place, appending any indices it
// removed to removed. It returns the Outcome actually taken, which the
// caller uses for both control flow and statistics (spec's open question
// on overlap-handler classification: callers must read this return value
// rather than assume overlap events are always bounces).
type Handler func(s *storage.Storage, i, j int, removed *[]int) Outcome

// lineOfCenters returns the unit vector from j to i.
func lineOfCenters(s *storage.Storage, i, j int) *lin.V3 {
	pi, pj := s.Positions().Value[i].V3(), s.Positions().Value[j].V3()
	var n lin.V3
	n.Sub(pi, pj)
	return n.Unit()
}

// PerfectMerge replaces i with the mass-weighted merge of i and j (mass,
// position, velocity, volume-additive radius, combined angular momentum
// from spin plus orbital contribution about the new center), marking j
// removed.
func PerfectMerge(s *storage.Storage, i, j int, removed *[]int) Outcome {
	mi, mj := s.Masses().Value[i], s.Masses().Value[j]
	total := mi + mj
	if total <= 0 {
		return None
	}

	pi, pj := &s.Positions().Value[i], &s.Positions().Value[j]
	vi, vj := s.Positions().Dt[i].V3(), s.Positions().Dt[j].V3()

	var centroid lin.V3
	centroid.Scale(pi.V3(), mi/total)
	var pjWeighted lin.V3
	pjWeighted.Scale(pj.V3(), mj/total)
	centroid.Add(&centroid, &pjWeighted)

	var velocity lin.V3
	velocity.Scale(vi, mi/total)
	var vjWeighted lin.V3
	vjWeighted.Scale(vj, mj/total)
	velocity.Add(&velocity, &vjWeighted)

	// volume addition: r^3 is additive for equal-density spheres.
	r3 := pi.W*pi.W*pi.W + pj.W*pj.W*pj.W
	newRadius := math.Cbrt(r3)

	// orbital angular momentum about the new centroid, plus each body's
	// own spin, gives the merged particle's total angular momentum.
	var ri, rj lin.V3
	ri.Sub(pi.V3(), &centroid)
	rj.Sub(pj.V3(), &centroid)
	var pOrbI, pOrbJ lin.V3
	pOrbI.Scale(vi, mi)
	pOrbJ.Scale(vj, mj)
	var Li, Lj lin.V3
	Li.Cross(&ri, &pOrbI)
	Lj.Cross(&rj, &pOrbJ)

	spinI, spinJ := s.AngularMomenta().Value[i], s.AngularMomenta().Value[j]
	var L lin.V3
	L.Add(&Li, &Lj)
	L.Add(&L, &spinI)
	L.Add(&L, &spinJ)

	pi.SetV3(&centroid)
	pi.W = newRadius
	s.Positions().Dt[i].SetV3(&velocity)
	s.Masses().Value[i] = total
	s.AngularMomenta().Value[i] = L
	// a merged body's inertia tensor is approximated as a uniform solid
	// sphere of the new radius; anisotropic inertia from the constituents
	// is not tracked through a merge.
	isphere := 0.4 * total * newRadius * newRadius
	s.Inertias().Value[i] = lin.M3{Xx: isphere, Yy: isphere, Zz: isphere}
	s.Frames().Value[i] = *lin.NewM3I()

	*removed = append(*removed, j)
	return Merger
}

// ElasticBounce reflects the relative velocity of i and j along the line
// of centers with independent normal and tangential restitution
// coefficients. Radii are unchanged and nothing is removed.
func ElasticBounce(normalRestitution, tangentRestitution float64) Handler {
	return func(s *storage.Storage, i, j int, removed *[]int) Outcome {
		mi, mj := s.Masses().Value[i], s.Masses().Value[j]
		if mi <= 0 || mj <= 0 {
			return None
		}
		n := lineOfCenters(s, i, j)
		vi, vj := s.Positions().Dt[i].V3(), s.Positions().Dt[j].V3()

		var relVel lin.V3
		relVel.Sub(vi, vj)
		normalSpeed := relVel.Dot(n)
		if normalSpeed >= 0 {
			return None // already separating
		}

		var normalComp lin.V3
		normalComp.Scale(n, normalSpeed)
		var tangentComp lin.V3
		tangentComp.Sub(&relVel, &normalComp)

		var newRel lin.V3
		newRel.Scale(&normalComp, -normalRestitution)
		var tangentScaled lin.V3
		tangentScaled.Scale(&tangentComp, tangentRestitution)
		newRel.Add(&newRel, &tangentScaled)

		var delta lin.V3
		delta.Sub(&newRel, &relVel)

		// impulse-conserving split of the velocity change by inverse mass,
		// mirroring solver.go's combinedRestitution-scaled impulse formula.
		invMi, invMj := 1/mi, 1/mj
		total := invMi + invMj
		var diMi lin.V3
		diMi.Scale(&delta, invMi/total)
		var diMj lin.V3
		diMj.Scale(&delta, -invMj/total)

		vi.Add(vi, &diMi)
		vj.Add(vj, &diMj)
		s.Positions().Dt[i].SetV3(vi)
		s.Positions().Dt[j].SetV3(vj)
		return Bounce
	}
}

// MergeOrBounce branches between PerfectMerge and an ElasticBounce handler
// depending on whether the relative speed is below mutual escape velocity
// and the post-merge spin would stay below breakup.
func MergeOrBounce(bounceMergeLimit, rotationMergeLimit, normalRestitution, tangentRestitution float64) Handler {
	bounce := ElasticBounce(normalRestitution, tangentRestitution)
	return func(s *storage.Storage, i, j int, removed *[]int) Outcome {
		mi, mj := s.Masses().Value[i], s.Masses().Value[j]
		pi, pj := s.Positions().Value[i], s.Positions().Value[j]
		vi, vj := *s.Positions().Dt[i].V3(), *s.Positions().Dt[j].V3()

		var dr lin.V3
		dr.Sub(pi.V3(), pj.V3())
		var dv lin.V3
		dv.Sub(&vi, &vj)

		dist := dr.Len()
		if dist == 0 {
			return PerfectMerge(s, i, j, removed)
		}
		escapeSpeedSqr := 2 * gravity.G * (mi + mj) / dist
		speedSqr := dv.LenSqr()

		if speedSqr > bounceMergeLimit*bounceMergeLimit*escapeSpeedSqr {
			return bounce(s, i, j, removed)
		}

		// estimate the post-merge spin to test against rotationMergeLimit
		// without committing to the merge.
		total := mi + mj
		var centroid lin.V3
		centroid.Scale(pi.V3(), mi/total)
		var weighted lin.V3
		weighted.Scale(pj.V3(), mj/total)
		centroid.Add(&centroid, &weighted)
		var ri, rj lin.V3
		ri.Sub(pi.V3(), &centroid)
		rj.Sub(pj.V3(), &centroid)
		var pOrbI, pOrbJ lin.V3
		pOrbI.Scale(&vi, mi)
		pOrbJ.Scale(&vj, mj)
		var Li, Lj lin.V3
		Li.Cross(&ri, &pOrbI)
		Lj.Cross(&rj, &pOrbJ)
		var L lin.V3
		L.Add(&Li, &Lj)

		r3 := pi.W*pi.W*pi.W + pj.W*pj.W*pj.W
		newRadius := math.Cbrt(r3)
		isphere := 0.4 * total * newRadius * newRadius
		spinMag := L.Len() / isphere
		// breakup is the spin rate at which surface gravity of the merged
		// sphere can no longer hold material against centrifugal force.
		breakup := math.Sqrt(gravity.G * total / (newRadius * newRadius * newRadius))

		if spinMag > rotationMergeLimit*breakup {
			return bounce(s, i, j, removed)
		}
		return PerfectMerge(s, i, j, removed)
	}
}

// NoOverlap is the overlap handler that leaves an overlapping pair
// untouched and returns None. Overlap events are only suppressed at the
// source when HardSphereStep.Overlap is nil, which is how the CLI wires
// the "none" overlap policy.
func NoOverlap(s *storage.Storage, i, j int, removed *[]int) Outcome { return None }

// ForceMerge is the overlap policy that always merges an overlapping
// pair, regardless of relative velocity.
func ForceMerge(s *storage.Storage, i, j int, removed *[]int) Outcome {
	return PerfectMerge(s, i, j, removed)
}

// Repel pushes an overlapping pair apart along the line of centers until
// just touching, then applies an elastic bounce if they are still
// approaching. It reports Bounce whenever it moved the pair, even if the
// pair was already separating and its velocities are left unchanged.
func Repel(normalRestitution, tangentRestitution float64) Handler {
	bounce := ElasticBounce(normalRestitution, tangentRestitution)
	return func(s *storage.Storage, i, j int, removed *[]int) Outcome {
		pi, pj := &s.Positions().Value[i], &s.Positions().Value[j]
		n := lineOfCenters(s, i, j)
		dist := pi.V3().Dist(pj.V3())
		radiusSum := pi.W + pj.W
		penetration := radiusSum - dist
		moved := false
		if penetration > 0 {
			mi, mj := s.Masses().Value[i], s.Masses().Value[j]
			total := mi + mj
			if total > 0 {
				var pushI, pushJ lin.V3
				pushI.Scale(n, penetration*mj/total)
				pushJ.Scale(n, -penetration*mi/total)
				pi.SetV3(lin.NewV3().Add(pi.V3(), &pushI))
				pj.SetV3(lin.NewV3().Add(pj.V3(), &pushJ))
				moved = true
			}
		}
		if outcome := bounce(s, i, j, removed); outcome != None || !moved {
			return outcome
		}
		return Bounce
	}
}

// InternalBounce lets an overlap persist untouched, only reflecting
// velocities if the pair is still approaching.
func InternalBounce(normalRestitution, tangentRestitution float64) Handler {
	return ElasticBounce(normalRestitution, tangentRestitution)
}

// RepelOrMerge merges an overlapping pair below speedLimit, otherwise
// pushes them apart to just touching and bounces, same as Repel.
func RepelOrMerge(speedLimit, normalRestitution, tangentRestitution float64) Handler {
	repel := Repel(normalRestitution, tangentRestitution)
	return func(s *storage.Storage, i, j int, removed *[]int) Outcome {
		vi, vj := *s.Positions().Dt[i].V3(), *s.Positions().Dt[j].V3()
		var dv lin.V3
		dv.Sub(&vi, &vj)
		if dv.Len() < speedLimit {
			return PerfectMerge(s, i, j, removed)
		}
		return repel(s, i, j, removed)
	}
}

// PassOrMerge lets an overlapping pair pass through each other unless
// their relative speed is below speedLimit, in which case they merge.
func PassOrMerge(speedLimit float64) Handler {
	return func(s *storage.Storage, i, j int, removed *[]int) Outcome {
		vi, vj := *s.Positions().Dt[i].V3(), *s.Positions().Dt[j].V3()
		var dv lin.V3
		dv.Sub(&vi, &vj)
		if dv.Len() < speedLimit {
			return PerfectMerge(s, i, j, removed)
		}
		return None
	}
}
