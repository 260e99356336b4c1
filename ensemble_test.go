// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "testing"

type constGenerator struct {
	id    string
	roots []SolutionRoot
}

func (g *constGenerator) ID() string { return g.id }
func (g *constGenerator) Generate(pop *Population, variables []Variable, count int) []SolutionRoot {
	out := make([]SolutionRoot, 0, count)
	for i := 0; i < count && i < len(g.roots); i++ {
		out = append(out, g.roots[i])
	}
	return out
}

func TestEnsembleAllocatesNonzeroToEveryGenerator(t *testing.T) {
	pop := seededPopulation()
	roots := make([]SolutionRoot, 100)
	for i := range roots {
		roots[i] = SolutionRoot{ContValues: []float64{0, 0}}
	}
	a := &constGenerator{id: "a", roots: roots}
	b := &constGenerator{id: "b", roots: roots}

	cfg := EnsembleConfig{}
	cfg.Default()
	ens := NewEnsemble([]Generator{a, b}, cfg)

	produced := ens.Generate(pop, ga2DVariables())
	if len(produced) == 0 {
		t.Fatal("expected a nonzero batch from the ensemble")
	}

	history := ens.History()
	if len(history) != 2 {
		t.Fatalf("expected one history row per generator, got %d", len(history))
	}
	for _, row := range history {
		if row.SolutionsGenerated <= 0 {
			t.Errorf("generator %s got a zero allocation; bias should guarantee monotone exploration", row.GeneratorID)
		}
	}
}

func TestEnsembleResolvePanicsOnBadConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for gen_ratio <= 0")
		}
	}()
	cfg := EnsembleConfig{}
	cfg.Default()
	cfg.GenRatio = 0
	NewEnsemble(nil, cfg)
}
