// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

func TestAeqmately(t *testing.T) {
	var f1 = 0.0
	var f2 = 0.0000001
	var f3 = -0.0001
	if !Aeq(f1, f2) || Aeq(f1, f3) {
		t.Error("Aeq")
	}
}

func TestApproimatelyZero(t *testing.T) {
	var f1 = 0.0000001
	var f2 = -0.0000001
	var f3 = -0.0001
	if !AeqZ(f1) || !AeqZ(f2) || AeqZ(f3) {
		t.Error("Aeqz")
	}
}

func TestLerp(t *testing.T) {
	if !Aeq(Lerp(10, 5, 0.5), 7.5) {
		t.Error("Lerp")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-5, 0, 10) != 0 || Clamp(15, 0, 10) != 10 {
		t.Error("Clamp")
	}
}

func TestMax3Min3(t *testing.T) {
	if Max3(1, 5, 3) != 5 || Min3(1, 5, 3) != 1 {
		t.Error("Max3/Min3")
	}
}
