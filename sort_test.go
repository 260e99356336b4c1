// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "testing"

func handlesFrom(sols ...*fakeSolution) []*Handle {
	out := make([]*Handle, len(sols))
	for i, s := range sols {
		out[i] = NewHandle(s, i+1, TagRandom)
	}
	return out
}

func TestDominates(t *testing.T) {
	objs := twoMinimize()
	a := newFake("a", nil, []float64{1, 1})
	b := newFake("b", nil, []float64{2, 2})
	tie := newFake("tie", nil, []float64{1, 1})
	mixed := newFake("mixed", nil, []float64{0, 5})

	if !dominates(objs, a, b) {
		t.Error("a should dominate b")
	}
	if dominates(objs, b, a) {
		t.Error("b should not dominate a")
	}
	if dominates(objs, a, tie) {
		t.Error("equal solutions must not dominate each other")
	}
	if dominates(objs, a, mixed) || dominates(objs, mixed, a) {
		t.Error("non-comparable solutions must not dominate either way")
	}
}

func TestFastNonDominatedSortLayering(t *testing.T) {
	objs := twoMinimize()
	h := handlesFrom(
		newFake("a", nil, []float64{1, 1}), // front 1
		newFake("b", nil, []float64{2, 2}), // front 2 (dominated by a)
		newFake("c", nil, []float64{3, 0}), // front 1 (non-dominated vs a)
		newFake("d", nil, []float64{4, 4}), // front 3 (dominated by b)
	)
	fronts := fastNonDominatedSort(objs, h, -1)

	var total int
	for _, f := range fronts {
		total += len(f)
	}
	if total != len(h) {
		t.Fatalf("expected all %d handles placed, got %d", len(h), total)
	}

	for i, front := range fronts {
		for _, member := range front {
			for j := i + 1; j < len(fronts); j++ {
				for _, later := range fronts[j] {
					if dominates(objs, later.Solution, member.Solution) {
						t.Errorf("later front %d member dominates earlier front %d member", j, i)
					}
				}
			}
		}
	}
}

func TestFastNonDominatedSortCapStopsEarly(t *testing.T) {
	objs := twoMinimize()
	h := handlesFrom(
		newFake("a", nil, []float64{1, 1}),
		newFake("b", nil, []float64{2, 2}),
		newFake("c", nil, []float64{3, 3}),
		newFake("d", nil, []float64{4, 4}),
	)
	fronts := fastNonDominatedSort(objs, h, 0)
	var total int
	for _, f := range fronts {
		total += len(f)
	}
	if total < 1 {
		t.Fatal("cap=0 must still return at least one front")
	}

	full := fastNonDominatedSort(objs, h, -1)
	var fullTotal int
	for _, f := range full {
		fullTotal += len(f)
	}
	if fullTotal != len(h) {
		t.Fatalf("cap=-1 must sort the entire input, got %d of %d", fullTotal, len(h))
	}
}

func TestFastNonDominatedSortNoMutualDominationWithinFront(t *testing.T) {
	objs := twoMinimize()
	h := handlesFrom(
		newFake("a", nil, []float64{1, 5}),
		newFake("b", nil, []float64{3, 3}),
		newFake("c", nil, []float64{5, 1}),
	)
	fronts := fastNonDominatedSort(objs, h, -1)
	if len(fronts) != 1 {
		t.Fatalf("expected a single mutually non-dominated front, got %d fronts", len(fronts))
	}
	front := fronts[0]
	for i := range front {
		for j := range front {
			if i == j {
				continue
			}
			if dominates(objs, front[i].Solution, front[j].Solution) {
				t.Errorf("front member %d dominates front member %d", i, j)
			}
		}
	}
}
