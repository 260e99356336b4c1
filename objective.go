// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "math"

// ObjKind selects how an Objective compares two solutions.
type ObjKind int

const (
	// Minimize: smaller fitness() is better.
	Minimize ObjKind = iota
	// Maximize: larger fitness() is better.
	Maximize
	// Custom defers comparison to the Solution's own CompareTo.
	Custom
)

// Objective is the triple (Index, ID, Kind) describing one dimension
// of a multi-objective fitness vector.
type Objective struct {
	Index int
	ID    string
	Kind  ObjKind
}

// NewObjective constructs an Objective. index is the position this
// objective occupies in a solution's fitness vector.
func NewObjective(index int, id string, kind ObjKind) Objective {
	return Objective{Index: index, ID: id, Kind: kind}
}

// better reports whether a is strictly better than b on this objective.
// NaN fitness compares as worse-than-any: a NaN value
// never wins, and loses to any non-NaN value; two NaNs tie.
func (o Objective) better(a, b Solution) bool {
	switch o.Kind {
	case Custom:
		return a.CompareTo(o.Index, b) < 0
	case Maximize:
		fa, fb := a.Fitness(o.Index), b.Fitness(o.Index)
		if math.IsNaN(fa) {
			return false
		}
		if math.IsNaN(fb) {
			return true
		}
		return fa > fb
	default: // Minimize
		fa, fb := a.Fitness(o.Index), b.Fitness(o.Index)
		if math.IsNaN(fa) {
			return false
		}
		if math.IsNaN(fb) {
			return true
		}
		return fa < fb
	}
}

// equal reports whether a and b tie on this objective.
func (o Objective) equal(a, b Solution) bool {
	if o.Kind == Custom {
		return a.CompareTo(o.Index, b) == 0
	}
	fa, fb := a.Fitness(o.Index), b.Fitness(o.Index)
	if math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return false
	}
	return fa == fb
}

// scalar returns a numeric value for custom-objective-free sort/distance
// computations (crowding distance needs a real axis). For Custom
// objectives there is no scalar axis; callers fall back to the 0/1
// CompareTo-derived temporary distance (see objectiveGap in front.go).
func (o Objective) scalar(s Solution) float64 {
	return s.Fitness(o.Index)
}
