// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package scheduler

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestParallelForVisitsEveryIndex(t *testing.T) {
	p := &Pool{Workers: 4}
	slots, err := ParallelFor(context.Background(), p, 0, 17,
		func() []int { return nil },
		func(_ context.Context, i int, slot *[]int) error {
			*slot = append(*slot, i)
			return nil
		})
	if err != nil {
		t.Fatalf("ParallelFor returned error: %v", err)
	}
	got := Reduce(slots, []int(nil), func(acc []int, s []int) []int { return append(acc, s...) })
	sort.Ints(got)
	if len(got) != 17 {
		t.Fatalf("got %d indices want 17", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("index %d missing or duplicated, got %v", i, got)
		}
	}
}

func TestParallelForPropagatesError(t *testing.T) {
	p := New()
	boom := errors.New("boom")
	_, err := ParallelFor(context.Background(), p, 0, 10,
		func() struct{} { return struct{}{} },
		func(_ context.Context, i int, _ *struct{}) error {
			if i == 5 {
				return boom
			}
			return nil
		})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v want %v", err, boom)
	}
}

func TestParallelForEmptyRange(t *testing.T) {
	p := New()
	slots, err := ParallelFor(context.Background(), p, 3, 3,
		func() int { return 0 },
		func(_ context.Context, i int, slot *int) error { *slot++; return nil })
	if err != nil || len(slots) != 0 {
		t.Fatalf("empty range should produce no slots, got %v err %v", slots, err)
	}
}
