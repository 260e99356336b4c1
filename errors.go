// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "errors"

// Sentinel errors for the recoverable error kinds callers need to
// distinguish. ConfigurationError and EmptyPopulation are programmer
// errors and are raised via chk.Panic instead: ConfigurationError in
// variable.go, population.go, ensemble.go, and optimizer.go at
// construction time; EmptyPopulation in Population.RequireNonEmpty
// (population.go), called by GAGenerator.Generate and
// VicinityGenerator.Generate before they draw parents or basis members
// from an archive that holds nothing yet.
var (
	// ErrEvaluationFailure names the evaluator-error kind. The worker
	// does not return or wrap it: when the user's evaluator returns an
	// error, the worker logs that error (when Config.Verbose is set),
	// discards the solution and continues.
	ErrEvaluationFailure = errors.New("maestro: evaluation failure")

	// ErrEvaluationTimeout names the evaluation-timeout kind. Nothing
	// returns it: a worker whose evaluation exceeds
	// Config.EvaluationTimeLimit is replaced by checkLiveness and its
	// result is discarded.
	ErrEvaluationTimeout = errors.New("maestro: evaluation timeout")

	// ErrReportIO is returned by WriteReport when the target file
	// cannot be written, and by ReadReport when the file cannot be read
	// or holds a malformed row.
	ErrReportIO = errors.New("maestro: report I/O error")

	// ErrSolverSingular names the singular-basis kind. The Vicinity
	// generator does not return it: when its basis is rank-deficient
	// or has no usable pivot, Generate returns an empty batch and the
	// ensemble compensates on the next cycle.
	ErrSolverSingular = errors.New("maestro: gradient basis is singular")
)
