// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package maestro implements the core of MAESTRO-MO, a multi-objective
// global optimizer. It maintains a non-dominated population, schedules
// an ensemble of candidate generators, and pipelines evaluation across
// a worker pool, searching for the Pareto-optimal set of a user-supplied
// decision problem.
package maestro

// Reserved generator tags. User-predefined roots and initial random
// sampling are not produced by a registered Generator, but still need a
// tag so Ensemble bookkeeping and invariant checks can tell
// them apart from genuine generator output.
const (
	TagRandom         = "random"
	TagUserPredefined = "user_predefined"
)
