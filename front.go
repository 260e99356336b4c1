// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/utl"

	"github.com/felherc/maestro-mo/internal/stats"
)

// Front is a set of mutually non-dominated handles, plus a scalar
// Weight slot. Population.SelectGreedy computes its rank weights in a
// separate slice and does not read or set Weight. Grounded
// on goga.Solution.Fight's crowd-distance tie-break
// and Island.CalcDemeritsCdistAndSort's per-objective accumulation.
type Front struct {
	handles []*Handle
	Weight  float64
}

// NewFront wraps handles (not copied) into a Front.
func NewFront(handles []*Handle) *Front {
	return &Front{handles: handles}
}

// Add appends h to the front.
func (f *Front) Add(h *Handle) { f.handles = append(f.handles, h) }

// AddAll appends every handle in hs to the front.
func (f *Front) AddAll(hs []*Handle) { f.handles = append(f.handles, hs...) }

// Contains reports whether h is a member of this front (by index
// identity, since a handle's Index never changes after first offer).
func (f *Front) Contains(h *Handle) bool {
	for _, m := range f.handles {
		if m.Index == h.Index {
			return true
		}
	}
	return false
}

// Size returns the number of members.
func (f *Front) Size() int { return len(f.handles) }

// Solutions returns the front's members. The returned slice aliases the
// front's internal storage; callers must not mutate its length.
func (f *Front) Solutions() []*Handle { return f.handles }

// Reduced returns a new Front holding the count members of f with the
// largest NSGA-II crowding distance. If count >= f.Size()
// the front is returned unchanged (by value, same members).
func (f *Front) Reduced(count int, objectives []Objective, randomTieBreak bool) *Front {
	if count >= len(f.handles) {
		return NewFront(append([]*Handle(nil), f.handles...))
	}
	if count <= 0 {
		return NewFront(nil)
	}

	members := append([]*Handle(nil), f.handles...)
	for _, h := range members {
		h.CrowdDistance = 0
	}

	for _, obj := range objectives {
		sortByObjective(members, obj)
		n := len(members)
		members[0].tempDist = math.Inf(1)
		members[n-1].tempDist = math.Inf(1)

		maxGap := 0.0
		for i := 1; i < n-1; i++ {
			gap := objectiveGap(obj, members[i-1], members[i+1])
			members[i].tempDist = gap
			maxGap = utl.Max(maxGap, gap)
		}
		if maxGap <= 0 {
			maxGap = 1
		}
		for i := 1; i < n-1; i++ {
			if math.IsInf(members[i].tempDist, 1) {
				members[i].CrowdDistance = math.Inf(1)
				continue
			}
			members[i].CrowdDistance += members[i].tempDist / maxGap
		}
		if math.IsInf(members[0].tempDist, 1) {
			members[0].CrowdDistance = math.Inf(1)
		}
		if math.IsInf(members[n-1].tempDist, 1) {
			members[n-1].CrowdDistance = math.Inf(1)
		}
	}

	sortByCrowdDistanceDesc(members, randomTieBreak)
	return NewFront(members[:count])
}

// sortByObjective orders members ascending by a single objective's
// scalar value; Custom objectives fall back to CompareTo ordering.
func sortByObjective(members []*Handle, obj Objective) {
	sort.SliceStable(members, func(i, j int) bool {
		if obj.Kind == Custom {
			return members[i].Solution.CompareTo(obj.Index, members[j].Solution) < 0
		}
		return obj.scalar(members[i].Solution) < obj.scalar(members[j].Solution)
	})
}

// objectiveGap computes the crowding-distance gap between the
// neighbours of an interior member along one objective: the absolute
// fitness difference for numeric objectives, or a 0/1
// indicator for Custom objectives.
func objectiveGap(obj Objective, prev, next *Handle) float64 {
	if obj.Kind == Custom {
		if prev.Solution.CompareTo(obj.Index, next.Solution) != 0 {
			return 1.0
		}
		return 0.0
	}
	return math.Abs(obj.scalar(next.Solution) - obj.scalar(prev.Solution))
}

// sortByCrowdDistanceDesc orders members by descending crowding
// distance. Ties are broken by stable handle-index order unless
// randomTieBreak requests the historical coin-flip behavior, kept
// only for parity testing against it.
func sortByCrowdDistanceDesc(members []*Handle, randomTieBreak bool) {
	if randomTieBreak {
		sort.Slice(members, func(i, j int) bool {
			if members[i].CrowdDistance == members[j].CrowdDistance {
				return stats.FlipCoin(0.5)
			}
			return members[i].CrowdDistance > members[j].CrowdDistance
		})
		return
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].CrowdDistance == members[j].CrowdDistance {
			return members[i].Index < members[j].Index
		}
		return members[i].CrowdDistance > members[j].CrowdDistance
	})
}
