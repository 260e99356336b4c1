// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/felherc/maestro-mo/internal/stats"
)

// PopulationConfig holds Population's tunables. Default follows a
// struct-literal method shape rather than a constructor with a long
// argument list.
type PopulationConfig struct {
	Capacity             int
	AllowEqualPerformers bool
	UpdateTrigger        float64 // merge when |buffer| >= UpdateTrigger*Capacity
	ConcurrentUpdate     bool
	QMin, QMax           float64
	GreedToQPower        float64
	RandomTieBreak       bool
}

// Default fills in a reasonable default configuration.
func (c *PopulationConfig) Default() {
	c.Capacity = 20
	c.AllowEqualPerformers = true
	c.UpdateTrigger = 1.0
	c.ConcurrentUpdate = false
	c.QMin = 0.1
	c.QMax = 10.0
	c.GreedToQPower = 5.0
	c.RandomTieBreak = false
}

// resolve validates and fills derived state, mirroring
// Parameters.CalcDerived's panic-on-bad-input idiom.
func (c *PopulationConfig) resolve() {
	if c.Capacity < 1 {
		chk.Panic("maestro: population capacity must be >= 1, got %d", c.Capacity)
	}
	if c.UpdateTrigger <= 0 {
		c.UpdateTrigger = 1.0
	}
	if c.QMin <= 0 || c.QMax <= 0 || c.QMin > c.QMax {
		chk.Panic("maestro: invalid q_min/q_max range [%g, %g]", c.QMin, c.QMax)
	}
}

func (c PopulationConfig) triggerSize() int {
	size := int(math.Ceil(c.UpdateTrigger * float64(c.Capacity)))
	if size < 1 {
		size = 1
	}
	return size
}

// Population is the group-merging elitist archive: fronts in
// domination order, a buffer of not-yet-merged offers, and the
// value/performance duplicate registries. Grounded on goga's
// Population/Island buffer-merge-prune cycle, generalized from a fixed
// per-generation GA loop into a continuously offered async archive.
type Population struct {
	objectives []Objective
	config     PopulationConfig

	mu            sync.Mutex
	fronts        []*Front
	buffer        []*Handle
	valueRegistry map[string]struct{}
	perfRegistry  map[string]struct{}
	nextIndex     int

	// OnRankOne is invoked from inside the merge, with the population
	// mutex held, the first time a handle reaches rank 1, letting the
	// Optimizer maintain its hall of fame. It must not call back into
	// the Population.
	OnRankOne func(*Handle)
}

// NewPopulation constructs an empty Population for the given objective
// set. config.resolve() panics (ConfigurationError) on invalid input.
func NewPopulation(objectives []Objective, config PopulationConfig) *Population {
	config.resolve()
	return &Population{
		objectives:    objectives,
		config:        config,
		valueRegistry: make(map[string]struct{}),
		perfRegistry:  make(map[string]struct{}),
	}
}

// Size returns the total number of handles currently held in fronts
// (not counting the buffer).
func (p *Population) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sizeLocked()
}

func (p *Population) sizeLocked() int {
	n := 0
	for _, f := range p.fronts {
		n += f.Size()
	}
	return n
}

// TotalSize returns the number of handles currently held across both
// the merged fronts and the not-yet-merged buffer.
func (p *Population) TotalSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sizeLocked() + len(p.buffer)
}

// RequireNonEmpty panics (EmptyPopulation) when the population holds
// no handles at all in either fronts or buffer. Generators call this
// before drawing parents or basis members from the archive: a refill
// requested against a genuinely empty population indicates the caller
// bypassed the optimizer's random seeding, not a condition a generator
// should quietly tolerate.
func (p *Population) RequireNonEmpty(caller string) {
	if p.TotalSize() == 0 {
		chk.Panic("maestro: %s requested a refill from an empty population", caller)
	}
}

// Fronts returns a snapshot of the current fronts. Safe to call
// concurrently with Offer/merge.
func (p *Population) Fronts() []*Front {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Front, len(p.fronts))
	copy(out, p.fronts)
	return out
}

// Offer implements the offer protocol: fingerprint the
// solution, reject exact-value or (when enabled) exact-performance
// duplicates, otherwise buffer it and assign its permanent index. The
// returned bool is false when the offer was rejected as a duplicate.
func (p *Population) Offer(sol Solution, generatorTag string) (*Handle, bool) {
	valFp := valueFingerprint(sol.DiscValues(), sol.ContValues())

	p.mu.Lock()
	if _, dup := p.valueRegistry[valFp]; dup {
		p.mu.Unlock()
		return nil, false
	}
	var perfFp string
	if !p.config.AllowEqualPerformers {
		perfFp = performanceFingerprint(sol, p.objectives)
		if _, dup := p.perfRegistry[perfFp]; dup {
			p.mu.Unlock()
			return nil, false
		}
	}

	p.nextIndex++
	h := NewHandle(sol, p.nextIndex, generatorTag)
	p.buffer = append(p.buffer, h)
	p.valueRegistry[valFp] = struct{}{}
	if !p.config.AllowEqualPerformers {
		p.perfRegistry[perfFp] = struct{}{}
	}

	trigger := len(p.buffer) >= p.config.triggerSize()
	if !trigger {
		p.mu.Unlock()
		return h, true
	}

	if p.config.ConcurrentUpdate {
		p.mu.Unlock()
		go func() {
			p.mu.Lock()
			p.mergeLocked()
			p.mu.Unlock()
		}()
		return h, true
	}

	p.mergeLocked()
	p.mu.Unlock()
	return h, true
}

// ForceUpdate merges the buffer immediately regardless of the trigger
// threshold; used by Optimizer at shutdown to flush the
// final batch into the fronts before reporting.
func (p *Population) ForceUpdate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buffer) == 0 {
		return
	}
	p.mergeLocked()
}

// mergeLocked implements the update protocol: drain the buffer into
// the archive, re-sort, and prune back to capacity. Caller must hold
// p.mu.
func (p *Population) mergeLocked() {
	if len(p.buffer) == 0 && p.sizeLocked() <= p.config.Capacity {
		return
	}

	working := make([]*Handle, 0, len(p.buffer)+p.sizeLocked())
	for _, f := range p.fronts {
		working = append(working, f.Solutions()...)
	}
	working = append(working, p.buffer...)
	p.buffer = p.buffer[:0]

	ranked := fastNonDominatedSort(p.objectives, working, p.config.Capacity)

	placed := make(map[int]bool, len(working))
	survivors := make([]*Front, 0, len(ranked))
	cum := 0
	for i, members := range ranked {
		for _, h := range members {
			placed[h.Index] = true
		}
		rank := i + 1
		if cum+len(members) <= p.config.Capacity {
			for _, h := range members {
				h.recordRank(rank)
			}
			survivors = append(survivors, NewFront(append([]*Handle(nil), members...)))
			cum += len(members)
			continue
		}
		remain := p.config.Capacity - cum
		reduced := NewFront(append([]*Handle(nil), members...)).Reduced(remain, p.objectives, p.config.RandomTieBreak)
		kept := make(map[int]bool, reduced.Size())
		for _, h := range reduced.Solutions() {
			kept[h.Index] = true
			h.recordRank(rank)
		}
		for _, h := range members {
			if !kept[h.Index] {
				h.recordRank(-1)
			}
		}
		survivors = append(survivors, reduced)
		cum += reduced.Size()
		break
	}
	for _, h := range working {
		if !placed[h.Index] {
			h.recordRank(-1)
		}
	}

	p.fronts = survivors
	p.rebuildRegistriesLocked()

	if len(p.fronts) > 0 && p.OnRankOne != nil {
		for _, h := range p.fronts[0].Solutions() {
			if !h.everRankOne {
				h.everRankOne = true
				p.OnRankOne(h)
			}
		}
	}
}

func (p *Population) rebuildRegistriesLocked() {
	p.valueRegistry = make(map[string]struct{})
	p.perfRegistry = make(map[string]struct{})
	for _, f := range p.fronts {
		for _, h := range f.Solutions() {
			p.valueRegistry[valueFingerprint(h.Solution.DiscValues(), h.Solution.ContValues())] = struct{}{}
			if !p.config.AllowEqualPerformers {
				p.perfRegistry[performanceFingerprint(h.Solution, p.objectives)] = struct{}{}
			}
		}
	}
	for _, h := range p.buffer {
		p.valueRegistry[valueFingerprint(h.Solution.DiscValues(), h.Solution.ContValues())] = struct{}{}
		if !p.config.AllowEqualPerformers {
			p.perfRegistry[performanceFingerprint(h.Solution, p.objectives)] = struct{}{}
		}
	}
}

// Select draws count handles uniformly with replacement across the
// whole population.
func (p *Population) Select(count int) []*Handle {
	p.mu.Lock()
	var all []*Handle
	for _, f := range p.fronts {
		all = append(all, f.Solutions()...)
	}
	p.mu.Unlock()

	var out []*Handle
	for i := 0; i < count && len(all) > 0; i++ {
		out = append(out, all[stats.IntRange(0, len(all)-1)])
	}
	return out
}

// SelectGreedy draws count handles with replacement, front-weighted by
// greed in [-1, 1]: positive biases toward early (better) fronts,
// negative toward late (worse) fronts, 0 is near-uniform. Greed is
// clamped into [-1, 1].
func (p *Population) SelectGreedy(count int, greed float64) []*Handle {
	if count <= 0 {
		return nil
	}
	greed = stats.Clamp(greed, -1, 1)

	p.mu.Lock()
	fronts := make([]*Front, len(p.fronts))
	copy(fronts, p.fronts)
	size := p.sizeLocked()
	p.mu.Unlock()

	if len(fronts) == 0 || size == 0 {
		return nil
	}

	q := p.config.QMin + (p.config.QMax-p.config.QMin)*math.Pow(1-math.Abs(greed), p.config.GreedToQPower)
	sigma := q * float64(size)
	weights := frontWeights(fronts, sigma, greed)

	out := make([]*Handle, count)
	for i := 0; i < count; i++ {
		fi := stats.WeightedIndex(weights)
		members := fronts[fi].Solutions()
		out[i] = members[stats.IntRange(0, len(members)-1)]
	}
	return out
}

// frontWeights computes each front's rank-weighted selection weight:
// a normal kernel centered at rank 1 (or the last front, for negative
// greed) with stddev sigma, summed over each front's rank span (an
// "early fronts dominate" / "last fronts dominate" walk).
func frontWeights(fronts []*Front, sigma float64, greed float64) []float64 {
	n := len(fronts)
	weights := make([]float64, n)
	if sigma <= 0 {
		sigma = 1e-9
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if greed < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	rankStart := 1.0
	for _, fi := range order {
		size := float64(fronts[fi].Size())
		if size == 0 {
			continue
		}
		sum := 0.0
		for r := rankStart; r < rankStart+size; r++ {
			sum += normalPDF(r, 1, sigma)
		}
		weights[fi] = sum
		rankStart += size
	}
	return weights
}

func normalPDF(x, mean, sigma float64) float64 {
	z := (x - mean) / sigma
	return math.Exp(-0.5*z*z) / (sigma * math.Sqrt(2*math.Pi))
}
