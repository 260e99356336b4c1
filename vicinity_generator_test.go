// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "testing"

func TestVicinityGeneratorProducesWithinBounds(t *testing.T) {
	pop := seededPopulation()
	vars := ga2DVariables()
	cfg := VicinityConfig{}
	cfg.Default()
	gen := NewVicinityGenerator("vicinity", cfg)

	roots := gen.Generate(pop, vars, 20)
	for _, r := range roots {
		x, y := r.ContValues[0], r.ContValues[1]
		if x < 0 || x > 5 {
			t.Errorf("x out of bounds: %g", x)
		}
		if y < 0 || y > 3 {
			t.Errorf("y out of bounds: %g", y)
		}
		if r.GeneratorTag != "vicinity" {
			t.Errorf("expected generator tag 'vicinity', got %q", r.GeneratorTag)
		}
	}
}

func TestVicinityGeneratorSingularBasisReturnsEmpty(t *testing.T) {
	cfg := PopulationConfig{}
	cfg.Default()
	pop := NewPopulation(twoMinimize(), cfg)
	// a single point cannot build a 2-dimensional delta basis.
	pop.Offer(newFake("only", []float64{1, 1}, []float64{1, 1}), TagRandom)
	pop.ForceUpdate()

	vicCfg := VicinityConfig{}
	vicCfg.Default()
	gen := NewVicinityGenerator("vicinity", vicCfg)
	roots := gen.Generate(pop, ga2DVariables(), 10)
	if len(roots) != 0 {
		t.Fatalf("expected an empty batch for a rank-deficient basis, got %d roots", len(roots))
	}
}

func TestVicinityGeneratorPanicsOnEmptyPopulation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when generating against an empty population")
		}
	}()
	cfg := PopulationConfig{}
	cfg.Default()
	pop := NewPopulation(twoMinimize(), cfg)
	vicCfg := VicinityConfig{}
	vicCfg.Default()
	gen := NewVicinityGenerator("vicinity", vicCfg)

	gen.Generate(pop, ga2DVariables(), 5)
}

func TestCollinearDetectsParallelVectors(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{2, 4}
	if !collinear(a, b) {
		t.Error("parallel vectors should be reported collinear")
	}
	c := []float64{2, -1}
	if collinear(a, c) {
		t.Error("orthogonal vectors should not be reported collinear")
	}
}

func TestContinuousIndices(t *testing.T) {
	vars := []Variable{
		NewDiscrete("k", 0, 3, false, nil),
		NewContinuous("x", 0, 1),
		NewDiscrete("j", 0, 2, false, nil),
		NewContinuous("y", 0, 1),
	}
	idx, cont := continuousIndices(vars)
	if len(idx) != 2 || len(cont) != 2 {
		t.Fatalf("expected 2 continuous variables, got idx=%v cont=%v", idx, cont)
	}
	if idx[0] != 1 || idx[1] != 3 {
		t.Fatalf("expected continuous indices [1,3], got %v", idx)
	}
}
