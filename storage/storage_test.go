// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/gazed/rubble/math/lin"
)

func TestNewSizesAllColumns(t *testing.T) {
	s := New(4)
	if s.Len() != 4 {
		t.Fatalf("Len got %d want 4", s.Len())
	}
	if len(s.Positions().Value) != 4 || len(s.Positions().Dt) != 4 || len(s.Positions().D2t) != 4 {
		t.Errorf("position holder should be second order sized 4")
	}
	if s.Masses().Dt != nil {
		t.Errorf("mass is zero order, should have no derivative array")
	}
	if err := s.IsValid(); err != nil {
		t.Errorf("fresh storage should be valid: %v", err)
	}
}

func TestAddGrowsColumnsAndDefaultsFrame(t *testing.T) {
	s := New(0)
	idx := s.Add()
	if idx != 0 || s.Len() != 1 {
		t.Fatalf("Add got idx %d len %d", idx, s.Len())
	}
	if !s.Frames().Value[0].Eq(NewIdentityForTest()) {
		t.Errorf("new particle should default to an identity frame")
	}
}

func TestRemoveCompactsAllColumns(t *testing.T) {
	s := New(5)
	for i := 0; i < 5; i++ {
		s.Masses().Value[i] = float64(i + 1)
	}
	s.Remove([]int{1, 3}, 0)
	if s.Len() != 3 {
		t.Fatalf("Len got %d want 3", s.Len())
	}
	want := []float64{1, 3, 5}
	for i, w := range want {
		if s.Masses().Value[i] != w {
			t.Errorf("Masses[%d] got %f want %f", i, s.Masses().Value[i], w)
		}
	}
	if err := s.IsValid(); err != nil {
		t.Errorf("storage should stay valid after Remove: %v", err)
	}
}

func TestRemoveDedupsAndSortsUnsortedInput(t *testing.T) {
	s := New(4)
	for i := 0; i < 4; i++ {
		s.Masses().Value[i] = float64(i)
	}
	s.Remove([]int{2, 0, 2}, 0)
	if s.Len() != 2 {
		t.Fatalf("Len got %d want 2", s.Len())
	}
	if s.Masses().Value[0] != 1 || s.Masses().Value[1] != 3 {
		t.Errorf("Masses got %+v", s.Masses().Value)
	}
}

func TestAttractors(t *testing.T) {
	s := New(0)
	s.AddAttractor(*lin.NewV3S(1, 2, 3), 100)
	if len(s.Attractors()) != 1 || s.Attractors()[0].Mass != 100 {
		t.Errorf("AddAttractor got %+v", s.Attractors())
	}
}

// NewIdentityForTest avoids importing lin's M3I package var directly in
// more than one place; kept local to the test for clarity.
func NewIdentityForTest() *lin.M3 { return lin.NewM3I() }
