// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stats wraps gosl/rnd's sampling primitives into the handful
// of PDF/CDF-shaped helpers the generators and the front reducer need:
// uniform and normal draws, weighted-bucket selection, and a coin-flip
// tie-break. It exists so callers never reach for math/rand directly —
// gosl/rnd is the one random source in this module.
package stats

import (
	"math"

	"github.com/cpmech/gosl/rnd"
)

// Seed initializes the shared random source.
func Seed(seed int) { rnd.Init(seed) }

// Uniform draws one value uniformly from [lo, hi].
func Uniform(lo, hi float64) float64 { return rnd.Float64(lo, hi) }

// UniformClamped draws uniformly from [lo, hi] then clamps the result
// back into [clampLo, clampHi]; used when an extended sampling range
// must still respect a variable's hard bounds.
func UniformClamped(lo, hi, clampLo, clampHi float64) float64 {
	return Clamp(rnd.Float64(lo, hi), clampLo, clampHi)
}

// Normal draws a sample from N(mean, stddev) via the Box-Muller
// transform over two uniform draws from gosl/rnd.
func Normal(mean, stddev float64) float64 {
	if stddev <= 0 {
		return mean
	}
	u1 := rnd.Float64(1e-300, 1) // avoid log(0)
	u2 := rnd.Float64(0, 1)
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}

// NormalClamped draws from N(mean, stddev) and clamps into [lo, hi].
func NormalClamped(mean, stddev, lo, hi float64) float64 {
	return Clamp(Normal(mean, stddev), lo, hi)
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// FlipCoin returns true with probability p.
func FlipCoin(p float64) bool { return rnd.FlipCoin(p) }

// WeightedIndex picks an index in [0, len(weights)) with probability
// proportional to weights[i]. weights must sum to a positive value.
func WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rnd.Int(0, len(weights)-1)
	}
	target := rnd.Float64(0, total)
	var cum float64
	for i, w := range weights {
		cum += w
		if target <= cum {
			return i
		}
	}
	return len(weights) - 1
}

// IntRange draws a uniform integer in [lo, hi].
func IntRange(lo, hi int) int { return rnd.Int(lo, hi) }

// SortedFractions draws n fractions uniformly in [0, 1) and returns
// them sorted ascending — used by the GA crossover's partition points.
func SortedFractions(n int) []float64 {
	vals := make([]float64, n)
	rnd.Float64s(vals, 0, 1)
	// insertion sort: n is always small (crossover point counts)
	for i := 1; i < len(vals); i++ {
		v := vals[i]
		j := i - 1
		for j >= 0 && vals[j] > v {
			vals[j+1] = vals[j]
			j--
		}
		vals[j+1] = v
	}
	return vals
}
