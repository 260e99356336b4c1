// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"math"
	"sync"

	"github.com/felherc/maestro-mo/internal/linalg"
	"github.com/felherc/maestro-mo/internal/stats"
)

// VicinityConfig tunes the gradient-descent kernel.
type VicinityConfig struct {
	StepSize  float64 // scales the offset from the base along the combined gradient direction
	Amplitude float64 // NaN or <= 0 disables the Gaussian spread around the offset point
}

// Default fills in a reasonable Vicinity configuration.
func (c *VicinityConfig) Default() {
	c.StepSize = 0.1
	c.Amplitude = 0.05
}

// VicinityGenerator is the gradient-descent kernel: it maintains a
// base solution and up to n continuous-variable neighbors forming a
// full-rank delta basis, solves for a per-objective gradient via LU
// decomposition, and samples offspring along a random convex
// combination of the gradients. No goga analogue exists for this
// generator (see DESIGN.md); the numerical kernel's dense storage and
// dot-product reductions live in internal/linalg, which wraps
// gosl/la's MatAlloc/VecDot.
type VicinityGenerator struct {
	id     string
	config VicinityConfig
	mu     sync.Mutex
}

// NewVicinityGenerator constructs a Vicinity generator with tag id.
func NewVicinityGenerator(id string, config VicinityConfig) *VicinityGenerator {
	return &VicinityGenerator{id: id, config: config}
}

// ID implements Generator.
func (v *VicinityGenerator) ID() string { return v.id }

// collinear reports whether two delta vectors are near-collinear
// (|cosine| within eps of 1). The squared cosine is compared instead,
// so no square roots round exactly parallel vectors away from 1;
// |cos^2 - 1| is about twice ||cos| - 1| near 1, hence the 2*eps.
func collinear(a, b []float64) bool {
	const eps = 1e-16
	aa, bb := dot(a, a), dot(b, b)
	if aa == 0 || bb == 0 {
		return true
	}
	ab := dot(a, b)
	return math.Abs(ab*ab/(aa*bb)-1) <= 2*eps
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 { return math.Sqrt(dot(a, a)) }

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Generate implements Generator. It returns an empty batch (never an
// error) when the continuous-variable basis cannot reach full rank,
// matching ErrSolverSingular's policy: the ensemble compensates on the
// next cycle.
func (v *VicinityGenerator) Generate(pop *Population, variables []Variable, count int) []SolutionRoot {
	pop.RequireNonEmpty(v.id)

	v.mu.Lock()
	defer v.mu.Unlock()

	contIdx, contVars := continuousIndices(variables)
	n := len(contVars)
	if n == 0 {
		return nil
	}

	baseSel := pop.SelectGreedy(1, 1)
	if len(baseSel) == 0 {
		return nil
	}
	base := baseSel[0]
	baseCont := extract(base.Solution.ContValues(), contIdx)

	neighbors := v.buildBasis(pop, base, baseCont, contIdx, n)
	if len(neighbors) < n {
		return nil // rank-deficient basis: ErrSolverSingular policy
	}

	deltaMatrix := make([][]float64, n)
	for i, nb := range neighbors {
		deltaMatrix[i] = nb.delta
	}

	objectives := pop.objectives
	rhs := make([][]float64, len(objectives))
	for oi, obj := range objectives {
		col := make([]float64, n)
		for i, nb := range neighbors {
			col[i] = nb.handle.Solution.Fitness(obj.Index) - base.Solution.Fitness(obj.Index)
		}
		rhs[oi] = col
		_ = obj
	}

	gradients, err := linalg.SolveColumns(deltaMatrix, rhs)
	if err != nil {
		return nil
	}

	ranges := make([]float64, n)
	for i, cv := range contVars {
		ranges[i] = cv.FltMax - cv.FltMin
	}

	roots := make([]SolutionRoot, 0, count)
	for i := 0; i < count; i++ {
		dir := combineGradients(gradients, objectives)
		offset := make([]float64, n)
		for d := 0; d < n; d++ {
			offset[d] = -v.config.StepSize * dir[d] * ranges[d]
			if v.config.Amplitude > 0 {
				offset[d] += stats.Normal(0, v.config.Amplitude*ranges[d])
			}
		}
		cont := append([]float64(nil), base.Solution.ContValues()...)
		for d, idx := range contIdx {
			cont[idx] = contVars[d].ValidateContinuous(baseCont[d] + offset[d])
		}
		disc := append([]int(nil), base.Solution.DiscValues()...)
		roots = append(roots, SolutionRoot{DiscValues: disc, ContValues: cont, GeneratorTag: v.id})
	}
	return roots
}

type basisMember struct {
	handle *Handle
	delta  []float64
}

// buildBasis draws candidate neighbors from the population and keeps
// those whose delta from the base (and from the differences between
// already-kept neighbors) is not near-collinear with the existing
// basis, up to n members.
func (v *VicinityGenerator) buildBasis(pop *Population, base *Handle, baseCont []float64, contIdx []int, n int) []basisMember {
	fronts := pop.Fronts()
	var pool []*Handle
	for _, f := range fronts {
		pool = append(pool, f.Solutions()...)
	}

	var kept []basisMember
	for _, h := range pool {
		if len(kept) >= n {
			break
		}
		if h.Index == base.Index {
			continue
		}
		cand := extract(h.Solution.ContValues(), contIdx)
		delta := sub(cand, baseCont)
		if norm(delta) == 0 {
			continue
		}
		if acceptsBasisMember(kept, delta) {
			kept = append(kept, basisMember{handle: h, delta: delta})
		}
	}
	return kept
}

func acceptsBasisMember(kept []basisMember, delta []float64) bool {
	for _, m := range kept {
		if collinear(delta, m.delta) {
			return false
		}
	}
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			diff := sub(kept[i].delta, kept[j].delta)
			if collinear(delta, diff) {
				return false
			}
		}
	}
	return true
}

// combineGradients draws a random sum-normalized convex combination of
// the per-objective gradients, flipping the sign on any Maximize
// objective so every term points in its own descent direction.
func combineGradients(gradients [][]float64, objectives []Objective) []float64 {
	m := len(gradients)
	if m == 0 {
		return nil
	}
	weights := make([]float64, m)
	var total float64
	for i := range weights {
		weights[i] = stats.Uniform(0, 1)
		total += weights[i]
	}
	if total == 0 {
		total = 1
	}

	n := len(gradients[0])
	dir := make([]float64, n)
	for i, g := range gradients {
		sign := 1.0
		if objectives[i].Kind == Maximize {
			sign = -1.0
		}
		w := weights[i] / total
		for d := 0; d < n; d++ {
			dir[d] += sign * w * g[d]
		}
	}
	return dir
}

func continuousIndices(variables []Variable) ([]int, []Variable) {
	var idx []int
	var vars []Variable
	for i, v := range variables {
		if v.Kind == Continuous {
			idx = append(idx, i)
			vars = append(vars, v)
		}
	}
	return idx, vars
}

func extract(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
