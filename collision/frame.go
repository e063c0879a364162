// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package collision

import (
	"fmt"
	"math"

	"github.com/gazed/rubble/math/lin"
)

// isotropyTolerance bounds how far a principal moment may sit from the
// trace-mean before the inertia tensor is treated as anisotropic and
// sub-stepped instead of rotated in one shot.
const isotropyTolerance = 1e-6

// orthonormalTolerance is the assertion tolerance FrameIntegrator checks
// every incoming body frame against before advancing it.
const orthonormalTolerance = 1e-6

// FrameIntegrator advances each particle's orthonormal body frame by its
// current angular velocity, preserving angular momentum exactly: omega is
// recomputed from the conserved angular momentum and the transported
// inertia tensor rather than integrated directly, eliminating secular
// drift in |L|.
type FrameIntegrator struct {
	// MaxRotationAngle bounds the rotation applied per sub-step when the
	// inertia tensor is anisotropic.
	MaxRotationAngle float64
}

// NewFrameIntegrator creates a FrameIntegrator with the given per-substep
// angle bound.
func NewFrameIntegrator(maxRotationAngle float64) *FrameIntegrator {
	return &FrameIntegrator{MaxRotationAngle: maxRotationAngle}
}

// isIsotropic reports whether every principal contribution of inertia is
// within isotropyTolerance of the trace-mean, i.e. I is (to within
// tolerance) a multiple of the identity.
func isIsotropic(inertia *lin.M3) bool {
	mean := inertia.Trace() / 3
	return math.Abs(inertia.Xx-mean) < isotropyTolerance &&
		math.Abs(inertia.Yy-mean) < isotropyTolerance &&
		math.Abs(inertia.Zz-mean) < isotropyTolerance &&
		math.Abs(inertia.Xy) < isotropyTolerance &&
		math.Abs(inertia.Xz) < isotropyTolerance &&
		math.Abs(inertia.Yz) < isotropyTolerance
}

// worldInertia computes Ia = E * Ibody * E^T, the body-frame tensor
// transported into world coordinates by the current frame E.
func worldInertia(frame, bodyInertia *lin.M3) *lin.M3 {
	var et lin.M3
	et.Transpose(frame)
	var ie lin.M3
	ie.Mult(bodyInertia, &et)
	return lin.NewM3().Mult(frame, &ie)
}

// omegaFrom solves Ia*omega = L for omega given the transported tensor Ia.
func omegaFrom(ia *lin.M3, angularMomentum *lin.V3) *lin.V3 {
	var inv lin.M3
	inv.Inv(ia)
	return lin.NewV3().MultMv(&inv, angularMomentum)
}

// unitOf returns a's direction as a new, independent V3, leaving a
// unmodified.
func unitOf(a *lin.V3) *lin.V3 {
	return lin.NewV3().Set(a).Unit()
}

// Advance rotates frame by the angular velocity implied by angularMomentum
// and bodyInertia over dt, returning the updated angular frequency
// (world-frame). frame is mutated in place.
func (fi *FrameIntegrator) Advance(frame *lin.M3, angularMomentum *lin.V3, bodyInertia *lin.M3, dt float64) *lin.V3 {
	if angularMomentum.AeqZ() {
		return lin.NewV3()
	}
	if !frame.IsOrthonormal(orthonormalTolerance) {
		panic(fmt.Sprintf("collision: non-orthogonal body frame %+v", frame))
	}

	omega := omegaFrom(worldInertia(frame, bodyInertia), angularMomentum)

	if isIsotropic(bodyInertia) {
		dphi := omega.Len() * dt
		axis := unitOf(omega)
		rot := lin.NewM3().SetAa(axis.X, axis.Y, axis.Z, dphi)
		frame.Mult(rot, frame)
		return omega
	}

	accumulated := 0.0
	dphiTotal := omega.Len() * dt
	for accumulated < dphiTotal {
		step := dphiTotal - accumulated
		if step > fi.MaxRotationAngle {
			step = fi.MaxRotationAngle
		}
		axis := unitOf(omega)
		rot := lin.NewM3().SetAa(axis.X, axis.Y, axis.Z, step)
		frame.Mult(rot, frame)

		omega = omegaFrom(worldInertia(frame, bodyInertia), angularMomentum)
		accumulated += step
	}
	return omega
}
