// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"strconv"
	"strings"
)

// Solution is the user-supplied contract: a decision
// vector the embedding program knows how to evaluate, report, and
// compare. There is no inheritance here — Solution is a trait
// implemented by the caller's own type, same as goga.Solution's role
// but reshaped into an interface with no field hierarchy.
type Solution interface {
	// ID returns a non-empty string unique among all solutions ever
	// produced in this run.
	ID() string

	// DiscValues and ContValues return this solution's definition.
	DiscValues() []int
	ContValues() []float64

	// Valid reports whether the user evaluator considers this solution
	// usable. Invalid solutions are discarded and never counted toward
	// the solution_limit termination trigger.
	Valid() bool

	// ReportHeader and Report return tab-separated fields for the text
	// report writer; ReportHeader is read from one solution per report
	// table and for the hall-of-fame log header, so it may be called
	// more than once.
	ReportHeader() []string
	Report() []string

	// Fitness returns this solution's value along objective obj_index.
	// May be NaN to mean "worst".
	Fitness(objIndex int) float64

	// CompareTo implements a custom objective's ordering: negative if
	// this solution is better than other, zero if tied, positive if
	// worse. Only called for Custom objectives.
	CompareTo(objIndex int, other Solution) int

	// Converged requests early termination when true.
	Converged() bool
}

// SolutionRoot is an unevaluated candidate produced by a Generator or
// injected by the user before the run starts.
type SolutionRoot struct {
	DiscValues   []int
	ContValues   []float64
	GeneratorTag string
	Label        string
	Extra        interface{}
}

// Handle wraps an evaluated Solution with the engine's mutable state:
// rank history, crowding distance, and the non-dominated sort's
// children list and domination counter, as named fields rather than an
// untyped attribute bag.
type Handle struct {
	Solution Solution

	// Index is assigned once, on first offer, and never changes (I6).
	Index int

	GeneratorTag string

	// RankHistory is append-only: the rank this handle held after each
	// completed population update. -1 means evicted.
	RankHistory []int

	// CrowdDistance is the handle's accumulated NSGA-II crowding
	// distance, recomputed on every Front.Reduced call that includes it.
	CrowdDistance float64

	// Children and DomCount are fast-non-dominated-sort scratch state,
	// recomputed on every merge; see sort.go.
	Children []*Handle
	DomCount int

	// tempDist is scratch state for Front.Reduced. selectionWeight is
	// not read or written anywhere in this package; Population.Select
	// and SelectGreedy do not use it.
	selectionWeight float64
	tempDist        float64

	// everRankOne latches true the first time this handle enters the
	// hall of fame, so Population.mergeLocked only fires OnRankOne once.
	everRankOne bool
}

// NewHandle wraps sol with fresh engine state. index is assigned by the
// caller (Population.Offer) under the population mutex, per I6.
func NewHandle(sol Solution, index int, generatorTag string) *Handle {
	return &Handle{
		Solution:     sol,
		Index:        index,
		GeneratorTag: generatorTag,
	}
}

// Rank returns the handle's current front rank, or 0 if it has never
// been through a completed update.
func (h *Handle) Rank() int {
	if len(h.RankHistory) == 0 {
		return 0
	}
	return h.RankHistory[len(h.RankHistory)-1]
}

// recordRank appends one rank-history entry for this update cycle.
func (h *Handle) recordRank(rank int) {
	h.RankHistory = append(h.RankHistory, rank)
}

// ReachedRankOne reports whether this handle was ever first-front.
func (h *Handle) ReachedRankOne() bool {
	for _, r := range h.RankHistory {
		if r == 1 {
			return true
		}
	}
	return false
}

// RankHistoryRLE run-length-encodes the rank history for the text
// report, e.g. "1x3, 2, -1x5".
func RankHistoryRLE(history []int) string {
	if len(history) == 0 {
		return ""
	}
	var parts []string
	cur := history[0]
	count := 1
	flush := func() {
		if count == 1 {
			parts = append(parts, strconv.Itoa(cur))
		} else {
			parts = append(parts, strconv.Itoa(cur)+"x"+strconv.Itoa(count))
		}
	}
	for _, r := range history[1:] {
		if r == cur {
			count++
			continue
		}
		flush()
		cur, count = r, 1
	}
	flush()
	return strings.Join(parts, ", ")
}

// valueFingerprint returns a string uniquely identifying the decision
// vector this handle wraps, used by the Population's value registry.
func valueFingerprint(disc []int, cont []float64) string {
	var b strings.Builder
	for i, d := range disc {
		if i > 0 || len(cont) > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(d))
	}
	for i, c := range cont {
		if i > 0 {
			b.WriteByte('|')
		} else if len(disc) > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(c, 'g', 17, 64))
	}
	return b.String()
}

// performanceFingerprint returns a string uniquely identifying the
// fitness vector of sol across all given objectives.
func performanceFingerprint(sol Solution, objectives []Objective) string {
	var b strings.Builder
	for i, o := range objectives {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(sol.Fitness(o.Index), 'g', 17, 64))
	}
	return b.String()
}
