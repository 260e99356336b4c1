// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"strconv"

	"github.com/cpmech/gosl/chk"

	"github.com/felherc/maestro-mo/internal/stats"
)

// Kind distinguishes a Variable's domain.
type Kind int

const (
	// Discrete variables take integer values in [Min, Min+Count).
	Discrete Kind = iota
	// Continuous variables take real values in [Min, Max].
	Continuous
)

// Variable describes one dimension of the decision vector. Discrete
// variables are integer ranges [Min, Min+Count) with an Ordinal flag
// (false means the integer is a category index, not a magnitude) and
// optional per-value text labels; continuous variables are closed
// intervals [Min, Max].
//
// Mirrors the FltMin/FltMax/IntMin/IntMax/DelFlt/DelInt range
// bookkeeping, generalized from parallel slices into one struct per
// dimension.
type Variable struct {
	Name string
	Kind Kind

	// Discrete fields.
	Min     int // inclusive lower bound
	Count   int // number of representable values; upper bound is Min+Count-1
	Ordinal bool
	Labels  []string // optional, len(Labels) == Count when set

	// Continuous fields.
	FltMin float64
	FltMax float64
}

// NewDiscrete constructs an integer-ranged variable [min, min+count).
func NewDiscrete(name string, min, count int, ordinal bool, labels []string) Variable {
	if count < 1 {
		chk.Panic("maestro: discrete variable %q must have count >= 1, got %d", name, count)
	}
	if labels != nil && len(labels) != count {
		chk.Panic("maestro: discrete variable %q has %d labels but count=%d", name, len(labels), count)
	}
	return Variable{Name: name, Kind: Discrete, Min: min, Count: count, Ordinal: ordinal, Labels: labels}
}

// NewContinuous constructs a real-valued variable over [min, max].
func NewContinuous(name string, min, max float64) Variable {
	if max < min {
		chk.Panic("maestro: continuous variable %q has max < min (%g < %g)", name, max, min)
	}
	return Variable{Name: name, Kind: Continuous, FltMin: min, FltMax: max}
}

// SampleDiscrete draws a uniformly random integer in [Min, Min+Count).
func (v Variable) SampleDiscrete() int {
	return stats.IntRange(v.Min, v.Min+v.Count-1)
}

// SampleContinuous draws a uniformly random float in [FltMin, FltMax].
func (v Variable) SampleContinuous() float64 {
	return stats.Uniform(v.FltMin, v.FltMax)
}

// ValidateDiscrete clamps x into [Min, Min+Count). Idempotent.
func (v Variable) ValidateDiscrete(x int) int {
	max := v.Min + v.Count - 1
	if x < v.Min {
		return v.Min
	}
	if x > max {
		return max
	}
	return x
}

// ValidateContinuous clamps x into [FltMin, FltMax]. Idempotent:
// ValidateContinuous(ValidateContinuous(x)) == ValidateContinuous(x).
func (v Variable) ValidateContinuous(x float64) float64 {
	return stats.Clamp(x, v.FltMin, v.FltMax)
}

// Label returns the text label for a discrete value, or the decimal
// representation if no labels were configured.
func (v Variable) Label(x int) string {
	if v.Labels != nil {
		idx := x - v.Min
		if idx >= 0 && idx < len(v.Labels) {
			return v.Labels[idx]
		}
	}
	return strconv.Itoa(x)
}
