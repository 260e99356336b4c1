// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "testing"

func ga2DVariables() []Variable {
	return []Variable{
		NewContinuous("x", 0, 5),
		NewContinuous("y", 0, 3),
	}
}

func seededPopulation() *Population {
	cfg := PopulationConfig{}
	cfg.Default()
	cfg.Capacity = 10
	pop := NewPopulation(twoMinimize(), cfg)
	for i := 0; i < 6; i++ {
		x, y := float64(i)*0.7, float64(5-i)*0.4
		f1 := 4*x*x + 4*y*y
		f2 := (x-5)*(x-5) + (y-5)*(y-5)
		pop.Offer(newFake("seed", []float64{x, y}, []float64{f1, f2}), TagRandom)
	}
	pop.ForceUpdate()
	return pop
}

func TestGAGeneratorProducesWithinBounds(t *testing.T) {
	pop := seededPopulation()
	vars := ga2DVariables()
	cfg := GAConfig{}
	cfg.Default()
	gen := NewGAGenerator("ga", cfg)

	roots := gen.Generate(pop, vars, 50)
	if len(roots) != 50 {
		t.Fatalf("expected 50 roots, got %d", len(roots))
	}
	for _, r := range roots {
		if len(r.ContValues) != 2 {
			t.Fatalf("expected 2 continuous values, got %d", len(r.ContValues))
		}
		x, y := r.ContValues[0], r.ContValues[1]
		if x < 0 || x > 5 {
			t.Errorf("x out of bounds: %g", x)
		}
		if y < 0 || y > 3 {
			t.Errorf("y out of bounds: %g", y)
		}
		if r.GeneratorTag != "ga" {
			t.Errorf("expected generator tag 'ga', got %q", r.GeneratorTag)
		}
	}
}

func TestGAGeneratorPanicsOnEmptyPopulation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when generating against an empty population")
		}
	}()
	cfg := PopulationConfig{}
	cfg.Default()
	pop := NewPopulation(twoMinimize(), cfg)
	gaCfg := GAConfig{}
	gaCfg.Default()
	gen := NewGAGenerator("ga", gaCfg)

	gen.Generate(pop, ga2DVariables(), 5)
}

func TestPartitionsCoverWholeRange(t *testing.T) {
	spans := partitions(10, 3)
	if len(spans) == 0 {
		t.Fatal("expected at least one partition")
	}
	covered := 0
	for i, s := range spans {
		if s.start != covered {
			t.Fatalf("partition %d does not start where the previous ended: start=%d, want %d", i, s.start, covered)
		}
		covered = s.end
	}
	if covered != 10 {
		t.Fatalf("partitions did not cover the full range: covered up to %d, want 10", covered)
	}
}

func TestPartitionsSingleVariable(t *testing.T) {
	spans := partitions(1, 3)
	if len(spans) != 1 || spans[0].start != 0 || spans[0].end != 1 {
		t.Fatalf("expected a single [0,1) span for n=1, got %+v", spans)
	}
}

func TestMutateDiscreteBoundaryStaysInRange(t *testing.T) {
	v := NewDiscrete("k", 0, 5, true, nil)
	cfg := GAConfig{}
	cfg.Default()
	cfg.DiscreteMutationWeights = [3]float64{0, 0, 1} // force boundary
	gen := NewGAGenerator("ga", cfg)
	for i := 0; i < 50; i++ {
		x := gen.mutateDiscrete(2, v)
		if x != v.Min && x != v.Min+v.Count-1 {
			t.Fatalf("boundary mutation produced non-boundary value %d", x)
		}
	}
}
