// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

// Monitor is the external collaborator interface: the
// embedding program's hook into the optimizer's lifecycle. Callers
// needing no hook may use NoopMonitor.
type Monitor interface {
	// Terminate fires exactly once, when the optimizer's worker pool has
	// fully stopped and the final population update has been forced.
	// reason is a human-readable description of which trigger fired.
	Terminate(reason string)

	// Reset is called before a new optimization run reuses this Monitor.
	Reset()
}

// NoopMonitor implements Monitor with no side effects.
type NoopMonitor struct{}

// Terminate implements Monitor.
func (NoopMonitor) Terminate(string) {}

// Reset implements Monitor.
func (NoopMonitor) Reset() {}
