// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"math"
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// EnsembleConfig tunes the per-cycle generation budget allocation
// across registered generators.
type EnsembleConfig struct {
	GenRatio     float64 // target fraction of capacity generated per cycle
	GenMin       float64 // per-generator floor as a fraction of capacity
	AbsGenMin    int     // absolute floor on the cycle budget
	WeightPop    float64 // how strongly total population membership weighs a generator's share
	WeightFront1 float64 // how strongly front-1 membership weighs a generator's share
	Bias         float64 // nonzero baseline guaranteeing monotone exploration
}

// Default fills in a reasonable Ensemble configuration.
func (c *EnsembleConfig) Default() {
	c.GenRatio = 0.5
	c.GenMin = 0.05
	c.AbsGenMin = 1
	c.WeightPop = 1.0
	c.WeightFront1 = 2.0
	c.Bias = 0.1
}

func (c *EnsembleConfig) resolve() {
	if c.GenRatio <= 0 {
		chk.Panic("maestro: ensemble gen_ratio must be > 0, got %g", c.GenRatio)
	}
	if c.AbsGenMin < 0 {
		chk.Panic("maestro: ensemble abs_gen_min must be >= 0, got %d", c.AbsGenMin)
	}
}

// GenerationRecord is one generation-history row: a
// generator's contribution to a single refill cycle.
type GenerationRecord struct {
	GeneratorID         string
	SolutionsGenerated  int
	TotalWallTimeMs     float64
	WallTimePerSolution float64
}

// Ensemble schedules the per-cycle generation budget across a fixed set
// of Generators, weighted by their current population and front-1
// membership, wrapping the caller-registered Generators in a struct
// with Default()/resolve() tunables.
type Ensemble struct {
	config     EnsembleConfig
	generators []Generator

	mu      sync.Mutex
	history []GenerationRecord
}

// NewEnsemble constructs an Ensemble over the given generators, in
// registration order. config.resolve() panics on invalid input.
func NewEnsemble(generators []Generator, config EnsembleConfig) *Ensemble {
	config.resolve()
	return &Ensemble{generators: generators, config: config}
}

// History returns a snapshot of every generation-history row recorded
// so far.
func (e *Ensemble) History() []GenerationRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]GenerationRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Generate runs one refill cycle: allocates the cycle budget across
// e.generators weighted by their current front/front-1 membership in
// pop, asks each generator for its share, and returns every produced
// root. Each generator's call is timed and recorded into the
// generation history.
func (e *Ensemble) Generate(pop *Population, variables []Variable) []SolutionRoot {
	shares := e.allocate(pop)

	var roots []SolutionRoot
	var rows []GenerationRecord
	for i, gen := range e.generators {
		count := shares[i]
		if count <= 0 {
			continue
		}
		start := time.Now()
		produced := gen.Generate(pop, variables, count)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		roots = append(roots, produced...)

		perSol := 0.0
		if len(produced) > 0 {
			perSol = elapsed / float64(len(produced))
		}
		rows = append(rows, GenerationRecord{
			GeneratorID:         gen.ID(),
			SolutionsGenerated:  len(produced),
			TotalWallTimeMs:     elapsed,
			WallTimePerSolution: perSol,
		})
	}

	e.mu.Lock()
	e.history = append(e.history, rows...)
	e.mu.Unlock()

	return roots
}

// allocate computes each generator's share-weight and the resulting
// per-generator budget split.
func (e *Ensemble) allocate(pop *Population) []int {
	n := len(e.generators)
	if n == 0 {
		return nil
	}

	fronts := pop.Fronts()
	capacity := pop.config.Capacity

	popCount := make([]int, n)
	f1Count := make([]int, n)
	tagIndex := make(map[string]int, n)
	for i, gen := range e.generators {
		tagIndex[gen.ID()] = i
	}

	for fi, f := range fronts {
		for _, h := range f.Solutions() {
			idx, ok := tagIndex[h.GeneratorTag]
			if !ok {
				continue
			}
			popCount[idx]++
			if fi == 0 {
				f1Count[idx]++
			}
		}
	}

	weights := make([]float64, n)
	total := 0.0
	for i := range weights {
		w := e.config.WeightPop*float64(popCount[i]) + e.config.WeightFront1*float64(f1Count[i]) + e.config.Bias
		weights[i] = w
		total += w
	}
	if total <= 0 {
		total = float64(n)
		for i := range weights {
			weights[i] = 1
		}
	}

	// math.Ceil/Round have no gosl/utl equivalent (utl's Max/Imax cover
	// the clamping below, but not rounding); utl.Max picks the floating
	// budget floor the same way Island.Run tracks mindem/maxdem.
	budget := utl.Max(float64(e.config.AbsGenMin), math.Ceil(e.config.GenRatio*float64(capacity)))
	floor := int(math.Ceil(e.config.GenMin * float64(capacity)))

	shares := make([]int, n)
	for i, w := range weights {
		share := int(math.Round(w / total * budget))
		shares[i] = utl.Imax(share, floor)
	}
	return shares
}
