// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

func TestV3AddSub(t *testing.T) {
	a, b := NewV3S(1, 2, 3), NewV3S(4, 5, 6)
	got := NewV3().Add(a, b)
	if !got.Aeq(NewV3S(5, 7, 9)) {
		t.Errorf("Add got %+v", got)
	}
	got.Sub(b, a)
	if !got.Aeq(NewV3S(3, 3, 3)) {
		t.Errorf("Sub got %+v", got)
	}
}

func TestV3Scale(t *testing.T) {
	got := NewV3().Scale(NewV3S(1, 2, 3), 2)
	if !got.Aeq(NewV3S(2, 4, 6)) {
		t.Errorf("Scale got %+v", got)
	}
}

func TestV3AddScaled(t *testing.T) {
	a, b := NewV3S(1, 1, 1), NewV3S(2, 2, 2)
	got := NewV3().AddScaled(a, b, 0.5)
	if !got.Aeq(NewV3S(2, 2, 2)) {
		t.Errorf("AddScaled got %+v", got)
	}
}

func TestV3Dot(t *testing.T) {
	a, b := NewV3S(1, 0, 0), NewV3S(0, 1, 0)
	if a.Dot(b) != 0 {
		t.Error("perpendicular vectors should dot to zero")
	}
	if !Aeq(NewV3S(2, 0, 0).Dot(NewV3S(3, 0, 0)), 6) {
		t.Error("Dot")
	}
}

func TestV3Cross(t *testing.T) {
	x, y := NewV3S(1, 0, 0), NewV3S(0, 1, 0)
	got := NewV3().Cross(x, y)
	if !got.Aeq(NewV3S(0, 0, 1)) {
		t.Errorf("Cross got %+v", got)
	}
}

func TestV3Len(t *testing.T) {
	v := NewV3S(3, 4, 0)
	if !Aeq(v.Len(), 5) {
		t.Errorf("Len got %f", v.Len())
	}
	if !Aeq(v.LenSqr(), 25) {
		t.Errorf("LenSqr got %f", v.LenSqr())
	}
}

func TestV3Unit(t *testing.T) {
	v := NewV3S(0, 0, 0).Unit()
	if !v.Aeq(NewV3S(0, 0, 0)) {
		t.Error("Unit of a zero vector should stay zero")
	}
	v = NewV3S(5, 0, 0).Unit()
	if !v.Aeq(NewV3S(1, 0, 0)) {
		t.Errorf("Unit got %+v", v)
	}
}

func TestV3Dist(t *testing.T) {
	a, b := NewV3S(0, 0, 0), NewV3S(3, 4, 0)
	if !Aeq(a.Dist(b), 5) {
		t.Errorf("Dist got %f", a.Dist(b))
	}
}

func TestV3MultMv(t *testing.T) {
	m := NewM3I()
	v := NewV3().MultMv(m, NewV3S(1, 2, 3))
	if !v.Aeq(NewV3S(1, 2, 3)) {
		t.Errorf("identity MultMv should not change the vector, got %+v", v)
	}
}

func TestV4SetV3(t *testing.T) {
	v := NewV4S(0, 0, 0, 1.5).SetV3(NewV3S(1, 2, 3))
	if v.X != 1 || v.Y != 2 || v.Z != 3 || v.W != 1.5 {
		t.Errorf("SetV3 should leave W untouched, got %+v", v)
	}
}
