// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"math"
	"sort"
	"sync"

	"github.com/cpmech/gosl/la"

	"github.com/felherc/maestro-mo/internal/stats"
)

// GAConfig tunes the genetic-algorithm generator.
// Grounded on operators.go's IntCrossover/FltCrossover/GenerateCxEnds
// point-crossover machinery, generalized from fixed two-parent slices
// drawn from a sorted array into parents drawn via Population.Select.
type GAConfig struct {
	Greed float64 // greed passed to Population.SelectGreedy when choosing parents

	Points       int     // number of crossover split fractions
	PointUniform float64 // probability a partition uses point-mode (vs uniform-mode) crossover
	PUniform     float64 // in uniform-mode, probability a variable inherits from parent1

	// ContUniformWeights weights the three continuous uniform-mode
	// sub-methods: [either-or, extended-range, normal].
	ContUniformWeights [3]float64
	UnifDistParam      float64 // epsilon/stddev scale for the extended-range and normal sub-methods

	MutationProb float64

	// DiscreteMutationWeights weights the three scalar (Ordinal)
	// discrete mutation operators: [random, adjacent, boundary].
	// Non-scalar discrete variables always use random resampling.
	DiscreteMutationWeights [3]float64

	// GaussianMutation is the stddev fraction of a continuous
	// variable's range to mutate around its current value. NaN means
	// mutate uniformly across the variable's full range instead.
	GaussianMutation float64
}

// Default fills in a reasonable GA configuration.
func (c *GAConfig) Default() {
	c.Greed = 0.5
	c.Points = 2
	c.PointUniform = 0.5
	c.PUniform = 0.5
	c.ContUniformWeights = [3]float64{1, 1, 1}
	c.UnifDistParam = 0.5
	c.MutationProb = 0.05
	c.DiscreteMutationWeights = [3]float64{1, 1, 1}
	c.GaussianMutation = math.NaN()
}

// GAGenerator is the genetic-algorithm Generator: crossover + mutation
// of two parents drawn from the population.
type GAGenerator struct {
	id     string
	config GAConfig
	mu     sync.Mutex // serializes this generator's own scratch state
}

// NewGAGenerator constructs a GA generator with tag id.
func NewGAGenerator(id string, config GAConfig) *GAGenerator {
	return &GAGenerator{id: id, config: config}
}

// ID implements Generator.
func (g *GAGenerator) ID() string { return g.id }

// Generate implements Generator.
func (g *GAGenerator) Generate(pop *Population, variables []Variable, count int) []SolutionRoot {
	pop.RequireNonEmpty(g.id)

	g.mu.Lock()
	defer g.mu.Unlock()

	roots := make([]SolutionRoot, 0, count)
	for i := 0; i < count; i++ {
		parents := pop.SelectGreedy(2, g.config.Greed)
		if len(parents) < 2 {
			break
		}
		a, b := parents[0], parents[1]
		disc, cont := g.crossover(a.Solution, b.Solution, variables)
		g.mutate(disc, cont, variables)
		roots = append(roots, SolutionRoot{DiscValues: disc, ContValues: cont, GeneratorTag: g.id})
	}
	return roots
}

// crossover builds one child's discrete and continuous vectors
// independently, partitioning each by a split-fraction scheme.
func (g *GAGenerator) crossover(a, b Solution, variables []Variable) ([]int, []float64) {
	ad, bd := a.DiscValues(), b.DiscValues()
	ac, bc := a.ContValues(), b.ContValues()

	disc := make([]int, len(ad))
	for _, part := range partitions(len(ad), g.config.Points) {
		g.crossoverDiscretePartition(disc, ad, bd, part, variables)
	}

	cont := make([]float64, len(ac))
	for _, part := range partitions(len(ac), g.config.Points) {
		g.crossoverContinuousPartition(cont, ac, bc, part, variables)
	}
	return disc, cont
}

type span struct{ start, end, index int }

// partitions splits [0, n) into contiguous ranges at randomly sampled
// fraction points, returning them in order with an
// index used for the point-mode parent-alternation rule.
func partitions(n, points int) []span {
	if n == 0 {
		return nil
	}
	if n < 2 || points < 1 {
		return []span{{0, n, 0}}
	}
	fracs := stats.SortedFractions(points)
	seen := map[int]bool{}
	var ends []int
	for _, f := range fracs {
		idx := int(f * float64(n))
		if idx < 1 {
			idx = 1
		}
		if idx > n-1 {
			idx = n - 1
		}
		if !seen[idx] {
			seen[idx] = true
			ends = append(ends, idx)
		}
	}
	sort.Ints(ends)
	ends = append(ends, n)

	spans := make([]span, len(ends))
	start := 0
	for i, end := range ends {
		spans[i] = span{start, end, i}
		start = end
	}
	return spans
}

func (g *GAGenerator) crossoverDiscretePartition(child, a, b []int, part span, variables []Variable) {
	if stats.FlipCoin(g.config.PointUniform) {
		// point mode: even-index partition -> parent1 (a)
		from := a
		if part.index%2 != 0 {
			from = b
		}
		copy(child[part.start:part.end], from[part.start:part.end])
		return
	}
	// uniform mode: per-variable parent choice
	for i := part.start; i < part.end; i++ {
		if stats.FlipCoin(g.config.PUniform) {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
}

const contEitherOr, contExtendedRange, contNormal = 0, 1, 2

func (g *GAGenerator) crossoverContinuousPartition(child, a, b []float64, part span, variables []Variable) {
	if stats.FlipCoin(g.config.PointUniform) {
		from := a
		if part.index%2 != 0 {
			from = b
		}
		copy(child[part.start:part.end], from[part.start:part.end])
		return
	}
	for i := part.start; i < part.end; i++ {
		v := variables[i]
		switch stats.WeightedIndex(g.config.ContUniformWeights[:]) {
		case contEitherOr:
			if stats.FlipCoin(g.config.PUniform) {
				child[i] = a[i]
			} else {
				child[i] = b[i]
			}
		case contExtendedRange:
			lo, hi := la.VecMinMax([]float64{a[i], b[i]})
			eps := g.config.UnifDistParam * (hi - lo) / 2
			child[i] = stats.UniformClamped(lo-eps, hi+eps, v.FltMin, v.FltMax)
		case contNormal:
			wa := stats.Uniform(0, 1)
			mean := la.VecAccum([]float64{wa * a[i], (1 - wa) * b[i]})
			stddev := g.config.UnifDistParam * math.Abs(b[i]-a[i])
			child[i] = stats.NormalClamped(mean, stddev, v.FltMin, v.FltMax)
		}
	}
}

const discRandom, discAdjacent, discBoundary = 0, 1, 2

// mutate applies per-position mutation in place.
func (g *GAGenerator) mutate(disc []int, cont []float64, variables []Variable) {
	di, ci := 0, 0
	for _, v := range variables {
		switch v.Kind {
		case Discrete:
			if stats.FlipCoin(g.config.MutationProb) {
				disc[di] = g.mutateDiscrete(disc[di], v)
			}
			di++
		case Continuous:
			if stats.FlipCoin(g.config.MutationProb) {
				cont[ci] = g.mutateContinuous(cont[ci], v)
			}
			ci++
		}
	}
}

func (g *GAGenerator) mutateDiscrete(x int, v Variable) int {
	if !v.Ordinal {
		return v.SampleDiscrete()
	}
	max := v.Min + v.Count - 1
	switch stats.WeightedIndex(g.config.DiscreteMutationWeights[:]) {
	case discAdjacent:
		if stats.FlipCoin(0.5) {
			return v.ValidateDiscrete(x + 1)
		}
		return v.ValidateDiscrete(x - 1)
	case discBoundary:
		if stats.FlipCoin(0.5) {
			return v.Min
		}
		return max
	default:
		return v.SampleDiscrete()
	}
}

func (g *GAGenerator) mutateContinuous(x float64, v Variable) float64 {
	if math.IsNaN(g.config.GaussianMutation) {
		return v.SampleContinuous()
	}
	stddev := g.config.GaussianMutation * (v.FltMax - v.FltMin)
	return stats.NormalClamped(x, stddev, v.FltMin, v.FltMax)
}
