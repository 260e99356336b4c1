// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

// Generator produces candidate decision vectors from the current
// population. Implementations may be called concurrently
// from multiple workers and must serialize their own internal mutable
// state; they must not mutate population state beyond calling Select.
type Generator interface {
	// ID is this generator's tag, recorded on every SolutionRoot it
	// produces and used by the Ensemble to track per-generator share.
	ID() string

	// Generate asks the generator for up to count new roots given the
	// current population. A generator that fails internally (e.g. a
	// singular gradient basis) returns a shorter-than-requested or
	// empty slice instead of panicking. The one panic is EmptyPopulation:
	// GAGenerator and VicinityGenerator call Population.RequireNonEmpty,
	// which panics when pop holds nothing in fronts or buffer.
	Generate(pop *Population, variables []Variable, count int) []SolutionRoot
}
