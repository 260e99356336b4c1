// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"math"

	"github.com/cpmech/gosl/utl"
)

// dominates reports whether a dominates b across objectives: no worse
// on every objective and strictly better on at least one. When every
// objective is Minimize/Maximize (no Custom) and neither side carries
// a NaN fitness, the pairwise check is delegated to utl.DblsParetoMin
// over a minimize-oriented vector (Maximize values negated), the same
// routine goga.Solution.Compare uses over its Ova/Oor vectors. Custom
// objectives or NaN fitness fall back to the per-objective loop, since
// DblsParetoMin has no notion of either.
func dominates(objectives []Objective, a, b Solution) bool {
	if av, bv, ok := minimizeVectors(objectives, a, b); ok {
		aDominates, _ := utl.DblsParetoMin(av, bv)
		return aDominates
	}
	strictlyBetter := false
	for _, o := range objectives {
		if o.better(b, a) {
			return false // b wins this axis => a cannot dominate
		}
		if o.better(a, b) {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// minimizeVectors builds a and b's fitness vectors oriented so that
// smaller is always better (Maximize objectives negated), for the
// utl.DblsParetoMin fast path. ok is false if any objective is Custom
// or either solution carries a NaN fitness value.
func minimizeVectors(objectives []Objective, a, b Solution) (av, bv []float64, ok bool) {
	av = make([]float64, len(objectives))
	bv = make([]float64, len(objectives))
	for i, o := range objectives {
		if o.Kind == Custom {
			return nil, nil, false
		}
		fa, fb := a.Fitness(o.Index), b.Fitness(o.Index)
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return nil, nil, false
		}
		if o.Kind == Maximize {
			fa, fb = -fa, -fb
		}
		av[i], bv[i] = fa, fb
	}
	return av, bv, true
}

// fastNonDominatedSort implements an O(n²·m) pairwise
// domination count, then iterative front peeling. cap <= 0 means sort
// the entire input; cap > 0 stops once accumulated front sizes reach
// cap, leaving trailing handles with partially decremented DomCount
// values and no front (callers that stop early never read rank on
// those).
//
// Grounded on goga's Island.NomDomSortAndCalcDistances flow (front
// bookkeeping + children/counter fields read by update_crowding), here
// restated as its own pass over the generic Objective/Solution pair
// instead of a fixed Ova/Oor vector.
func fastNonDominatedSort(objectives []Objective, handles []*Handle, cap int) [][]*Handle {
	n := len(handles)
	for _, h := range handles {
		h.Children = h.Children[:0]
		h.DomCount = 0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := handles[i], handles[j]
			if dominates(objectives, a.Solution, b.Solution) {
				a.Children = append(a.Children, b)
				b.DomCount++
			} else if dominates(objectives, b.Solution, a.Solution) {
				b.Children = append(b.Children, a)
				a.DomCount++
			}
		}
	}

	var fronts [][]*Handle
	var current []*Handle
	for _, h := range handles {
		if h.DomCount == 0 {
			current = append(current, h)
		}
	}
	total := 0
	for len(current) > 0 {
		fronts = append(fronts, current)
		total += len(current)
		if cap > 0 && total >= cap {
			break
		}
		var next []*Handle
		for _, h := range current {
			for _, child := range h.Children {
				child.DomCount--
				if child.DomCount == 0 {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return fronts
}
