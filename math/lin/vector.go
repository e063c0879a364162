// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Vector performs 3 or 4 element vector math needed by the collision core.

import (
	"math"
)

// V3 is a 3 element vector. This can also be used as a point, a velocity,
// or an angular momentum/frequency.
type V3 struct {
	X float64
	Y float64
	Z float64
}

// V4 is a 4 element vector. The collision core uses the 4th slot to carry
// a scalar alongside a point: position.W is the particle radius, velocity.W
// is its (unused) radius derivative.
type V4 struct {
	X float64
	Y float64
	Z float64
	W float64
}

// Eq (==) returns true if each element in the vector v has the same value
// as the corresponding element in vector a.
func (v *V3) Eq(a *V3) bool {
	return v.Z == a.Z && v.Y == a.Y && v.X == a.X
}

// Aeq (~=) almost-equals returns true if all the elements in vector v have
// essentially the same value as the corresponding elements in vector a.
func (v *V3) Aeq(a *V3) bool {
	return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z)
}

// AeqZ (~=) almost equals zero returns true if the square length of the
// vector is close enough to zero that it makes no difference.
func (v *V3) AeqZ() bool { return v.Dot(v) < Epsilon }

// GetS returns the float64 values of the vector.
func (v *V3) GetS() (x, y, z float64) { return v.X, v.Y, v.Z }

// SetS (=) sets the vector elements to the given values.
// The updated vector v is returned.
func (v *V3) SetS(x, y, z float64) *V3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

// Set (=, copy, clone) sets the elements of vector v to have the same values
// as the elements of vector a. The updated vector v is returned.
func (v *V3) Set(a *V3) *V3 {
	v.X, v.Y, v.Z = a.X, a.Y, a.Z
	return v
}

// Neg (-) sets vector v to be the negative values of vector a.
func (v *V3) Neg(a *V3) *V3 {
	v.X, v.Y, v.Z = -a.X, -a.Y, -a.Z
	return v
}

// Add (+) adds vectors a and b storing the results of the addition in v.
// Vector v may be used as one or both of the parameters. For example
// (+=) is v.Add(v, b). The updated vector v is returned.
func (v *V3) Add(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Sub (-) subtracts vector b from a storing the results in v.
// Vector v may be used as one or both of the parameters.
func (v *V3) Sub(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return v
}

// Scale (*=) updates the elements in vector v by multiplying the
// corresponding elements in vector a by the given scalar value.
func (v *V3) Scale(a *V3, s float64) *V3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// AddScaled (+=s*) sets v = a + b*s. Vector v may be used as a.
func (v *V3) AddScaled(a, b *V3, s float64) *V3 {
	v.X, v.Y, v.Z = a.X+b.X*s, a.Y+b.Y*s, a.Z+b.Z*s
	return v
}

// Div (/= inverse-scale) divides each element in v by the given scalar
// value. Vector v is unchanged if scalar s is zero.
func (v *V3) Div(s float64) *V3 {
	if s != 0 {
		inv := 1 / s
		v.X, v.Y, v.Z = v.X*inv, v.Y*inv, v.Z*inv
	}
	return v
}

// Dot vector v with input vector a. Both vectors v and a are unchanged.
func (v *V3) Dot(a *V3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Len returns the length of vector v.
func (v *V3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSqr returns the length of vector v squared.
func (v *V3) LenSqr() float64 { return v.Dot(v) }

// Dist returns the distance between vector end-points v and a.
func (v *V3) Dist(a *V3) float64 { return math.Sqrt(v.DistSqr(a)) }

// DistSqr returns the distance squared between vector end-points v and a.
func (v *V3) DistSqr(a *V3) float64 {
	dx, dy, dz := a.X-v.X, a.Y-v.Y, a.Z-v.Z
	return dx*dx + dy*dy + dz*dz
}

// Unit updates vector v such that its length is 1.
// Calling vector v is unchanged if its length is zero.
func (v *V3) Unit() *V3 {
	length := v.Len()
	if length != 0 {
		return v.Div(length)
	}
	return v
}

// Cross updates v to be the cross product of vectors a and b.
// Vector v may be used as either input parameter.
func (v *V3) Cross(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.Y*b.Z-a.Z*b.Y, a.Z*b.X-a.X*b.Z, a.X*b.Y-a.Y*b.X
	return v
}

// vector operations
// ============================================================================
// vector-matrix operations

// MultMv updates vector v to be the multiplication of matrix m and
// column vector cv. Vector v may be used as the input vector cv.
//    [ Xx Xy Xz ]   [ vx ]   [ vx' ]
//    [ Yx Yy Yz ] x [ vy ] = [ vy' ]
//    [ Zx Zy Zz ]   [ vz ]   [ vz' ]
func (v *V3) MultMv(m *M3, cv *V3) *V3 {
	x := m.Xx*cv.X + m.Xy*cv.Y + m.Xz*cv.Z
	y := m.Yx*cv.X + m.Yy*cv.Y + m.Yz*cv.Z
	z := m.Zx*cv.X + m.Zy*cv.Y + m.Zz*cv.Z
	v.X, v.Y, v.Z = x, y, z
	return v
}

// vector-matrix operations
// ============================================================================
// convenience functions for allocating vectors.

// NewV3 creates a new, all zero, 3D vector.
func NewV3() *V3 { return &V3{} }

// NewV3S creates a new 3D vector using the given scalars.
func NewV3S(x, y, z float64) *V3 { return &V3{x, y, z} }

// NewV4 creates a new, all zero, 4D vector.
func NewV4() *V4 { return &V4{} }

// NewV4S creates a new 4D vector using the given scalars.
func NewV4S(x, y, z, w float64) *V4 { return &V4{x, y, z, w} }

// V3 returns the first 3 elements of v as a *V3 (point or direction,
// dropping the radius/derivative carried in W).
func (v *V4) V3() *V3 { return &V3{v.X, v.Y, v.Z} }

// SetV3 sets the first 3 elements of v from a, leaving W untouched.
func (v *V4) SetV3(a *V3) *V4 {
	v.X, v.Y, v.Z = a.X, a.Y, a.Z
	return v
}

// SetS (=) sets the vector elements to the given values.
func (v *V4) SetS(x, y, z, w float64) *V4 {
	v.X, v.Y, v.Z, v.W = x, y, z, w
	return v
}
