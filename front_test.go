// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "testing"

func TestFrontReducedUnchangedWhenCountExceedsSize(t *testing.T) {
	objs := twoMinimize()
	h := handlesFrom(
		newFake("a", nil, []float64{1, 5}),
		newFake("b", nil, []float64{3, 3}),
		newFake("c", nil, []float64{5, 1}),
	)
	f := NewFront(h)
	reduced := f.Reduced(10, objs, false)
	if reduced.Size() != f.Size() {
		t.Fatalf("Reduced(count >= size) changed size: got %d, want %d", reduced.Size(), f.Size())
	}
}

func TestFrontReducedKeepsExtremes(t *testing.T) {
	objs := twoMinimize()
	h := handlesFrom(
		newFake("a", nil, []float64{0, 10}),  // extreme on f0
		newFake("b", nil, []float64{3, 6}),   // interior, sparse
		newFake("c", nil, []float64{5, 5}),   // interior, dense neighbor of d
		newFake("d", nil, []float64{5.1, 4.9}),
		newFake("e", nil, []float64{10, 0}),  // extreme on f1
	)
	f := NewFront(h)
	reduced := f.Reduced(3, objs, false)
	if reduced.Size() != 3 {
		t.Fatalf("expected 3 members, got %d", reduced.Size())
	}
	kept := map[string]bool{}
	for _, m := range reduced.Solutions() {
		kept[m.Solution.ID()] = true
	}
	if !kept["a"] || !kept["e"] {
		t.Errorf("crowding-distance reduction should keep both extreme points, kept=%v", kept)
	}
}

func TestFrontContainsAndSize(t *testing.T) {
	h := handlesFrom(newFake("a", nil, []float64{1, 1}))
	f := NewFront(h)
	if f.Size() != 1 {
		t.Fatalf("expected size 1, got %d", f.Size())
	}
	if !f.Contains(h[0]) {
		t.Error("front should contain its own member")
	}
	other := NewHandle(newFake("b", nil, []float64{2, 2}), 99, TagRandom)
	if f.Contains(other) {
		t.Error("front should not contain a foreign handle")
	}
}
