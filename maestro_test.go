// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import "fmt"

// fakeSolution is a minimal Solution used across this package's tests:
// a two-objective point with no discrete dimensions.
type fakeSolution struct {
	id   string
	cont []float64
	fit  []float64
	conv bool
}

func newFake(id string, cont []float64, fit []float64) *fakeSolution {
	return &fakeSolution{id: id, cont: cont, fit: fit}
}

func (s *fakeSolution) ID() string             { return s.id }
func (s *fakeSolution) DiscValues() []int      { return nil }
func (s *fakeSolution) ContValues() []float64  { return s.cont }
func (s *fakeSolution) Valid() bool            { return true }
func (s *fakeSolution) Converged() bool        { return s.conv }
func (s *fakeSolution) ReportHeader() []string { return []string{"f0", "f1"} }
func (s *fakeSolution) Report() []string {
	out := make([]string, len(s.fit))
	for i, f := range s.fit {
		out[i] = fmt.Sprintf("%g", f)
	}
	return out
}
func (s *fakeSolution) Fitness(objIndex int) float64 { return s.fit[objIndex] }
func (s *fakeSolution) CompareTo(objIndex int, other Solution) int {
	o := other.(*fakeSolution)
	switch {
	case s.fit[objIndex] < o.fit[objIndex]:
		return -1
	case s.fit[objIndex] > o.fit[objIndex]:
		return 1
	default:
		return 0
	}
}

func twoMinimize() []Objective {
	return []Objective{
		NewObjective(0, "f0", Minimize),
		NewObjective(1, "f1", Minimize),
	}
}
