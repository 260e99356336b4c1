// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "testing"

func newTestPopulation(capacity int, allowEqual bool) *Population {
	cfg := PopulationConfig{}
	cfg.Default()
	cfg.Capacity = capacity
	cfg.AllowEqualPerformers = allowEqual
	return NewPopulation(twoMinimize(), cfg)
}

// TestOfferDuplicateValueRejected covers the scenario where the same
// decision vector offered 100 times into an empty population yields a
// population size of 1.
func TestOfferDuplicateValueRejected(t *testing.T) {
	pop := newTestPopulation(20, true)
	accepted := 0
	for i := 0; i < 100; i++ {
		_, ok := pop.Offer(newFake("dup", []float64{1, 2}, []float64{1, 1}), TagRandom)
		if ok {
			accepted++
		}
	}
	pop.ForceUpdate()
	if accepted != 1 {
		t.Fatalf("expected exactly 1 accepted offer, got %d", accepted)
	}
	if pop.Size() != 1 {
		t.Fatalf("expected population size 1, got %d", pop.Size())
	}
}

// TestOfferEqualPerformerRejected covers the equal-performance
// duplicate-rejection path.
func TestOfferEqualPerformerRejected(t *testing.T) {
	pop := newTestPopulation(20, false)

	_, first := pop.Offer(newFake("a", []float64{0, 0}, []float64{1, 1}), TagRandom)
	if !first {
		t.Fatal("first offer should be accepted")
	}
	_, second := pop.Offer(newFake("a-dup", []float64{0, 0}, []float64{1, 1}), TagRandom)
	if second {
		t.Fatal("identical decision vector must be rejected as a duplicate value")
	}
	_, third := pop.Offer(newFake("b", []float64{1e-20, 1e-20}, []float64{1, 1}), TagRandom)
	if third {
		t.Fatal("a different decision vector with identical fitness must be rejected as a duplicate performance")
	}
}

func TestSelectZeroCountReturnsEmpty(t *testing.T) {
	pop := newTestPopulation(20, true)
	pop.Offer(newFake("a", []float64{0, 0}, []float64{1, 1}), TagRandom)
	pop.ForceUpdate()
	if got := pop.Select(0); got != nil {
		t.Fatalf("Select(0) should return empty, got %d handles", len(got))
	}
}

// TestSelectGreedExtremeDrawsOnlyFromOneFront covers the selection
// boundary: greed = +1 draws only from the first front when more than
// one front exists.
func TestSelectGreedExtremeDrawsOnlyFromOneFront(t *testing.T) {
	pop := newTestPopulation(4, true)
	// two non-dominated points (front 1) and one dominated point (front 2)
	pop.Offer(newFake("a", []float64{0, 0}, []float64{1, 5}), TagRandom)
	pop.Offer(newFake("b", []float64{1, 1}, []float64{5, 1}), TagRandom)
	pop.Offer(newFake("c", []float64{2, 2}, []float64{9, 9}), TagRandom)
	pop.ForceUpdate()

	fronts := pop.Fronts()
	if len(fronts) < 2 {
		t.Fatalf("expected at least 2 fronts to exercise this boundary, got %d", len(fronts))
	}

	drawn := pop.SelectGreedy(500, 1)
	for _, h := range drawn {
		if !fronts[0].Contains(h) {
			t.Fatalf("greed=+1 drew handle %s outside front 1", h.Solution.ID())
		}
	}
}

// TestGreedyVsUniformSelection covers a scenario with two non-empty
// fronts of equal size.
func TestGreedyVsUniformSelection(t *testing.T) {
	pop := newTestPopulation(4, true)
	pop.Offer(newFake("a", []float64{0, 0}, []float64{1, 9}), TagRandom)  // front 1
	pop.Offer(newFake("b", []float64{1, 1}, []float64{9, 1}), TagRandom)  // front 1
	pop.Offer(newFake("c", []float64{2, 2}, []float64{5, 10}), TagRandom) // front 2 (dominated by a)
	pop.Offer(newFake("d", []float64{3, 3}, []float64{10, 5}), TagRandom) // front 2 (dominated by b)
	pop.ForceUpdate()
	fronts := pop.Fronts()
	if len(fronts) != 2 || fronts[0].Size() != 2 || fronts[1].Size() != 2 {
		t.Fatalf("expected two equal-size fronts of 2, got %d fronts", len(fronts))
	}

	const draws = 10000
	greedy := pop.SelectGreedy(draws, 1)
	uniform := pop.SelectGreedy(draws, 0)

	countFront1 := func(hs []*Handle) int {
		n := 0
		for _, h := range hs {
			if fronts[0].Contains(h) {
				n++
			}
		}
		return n
	}

	if g := countFront1(greedy); g < int(0.95*draws) {
		t.Errorf("greed=+1 expected >=95%% from front 1, got %d/%d", g, draws)
	}
	u := countFront1(uniform)
	if u < int(0.40*draws) || u > int(0.60*draws) {
		t.Errorf("greed=0 expected 40-60%% from front 1 (single-front case draws 100%%), got %d/%d", u, draws)
	}
}

func TestPopulationSizeNeverExceedsCapacity(t *testing.T) {
	pop := newTestPopulation(5, true)
	for i := 0; i < 50; i++ {
		x := float64(i)
		pop.Offer(newFake("s", []float64{x}, []float64{x, -x}), TagRandom)
	}
	pop.ForceUpdate()
	if pop.Size() > 5 {
		t.Fatalf("population size %d exceeds capacity 5", pop.Size())
	}
}
