// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// MaxTimeout is the default Config.EvaluationTimeLimit. It does not
// bound how long Start waits for workers to exit once termination is
// signalled: Start waits, with no time limit, for every worker
// goroutine to return, including one that checkLiveness replaced.
const MaxTimeout = 5 * time.Second

// Evaluator constructs and scores a Solution from a SolutionRoot. It is
// the user's embedding of create_new + the evaluation itself; process
// is the worker index that owns this call, for evaluators
// that need per-worker scratch resources.
type Evaluator func(root SolutionRoot, process int) (Solution, error)

// Config holds the Optimizer's tunables, as a struct with a
// Default()/resolve() pair rather than a long constructor argument list.
type Config struct {
	ThreadCount         int
	Capacity            int
	RandomSolutionRatio float64 // fraction of Capacity sampled uniformly at random at startup
	TimeLimit           time.Duration
	SolutionLimit       int // <= 0 disables this trigger
	EvaluationTimeLimit time.Duration
	RetainAllSolutions  bool
	HallOfFameLogPath   string // empty disables the persistent hall-of-fame log
	Verbose             bool
}

// Default fills in a reasonable default configuration.
func (c *Config) Default() {
	c.ThreadCount = 4
	c.Capacity = 20
	c.RandomSolutionRatio = 1.0
	c.TimeLimit = 0
	c.SolutionLimit = 0
	c.EvaluationTimeLimit = MaxTimeout
	c.RetainAllSolutions = false
	c.Verbose = true
}

// resolve panics (ConfigurationError) on invalid input.
func (c *Config) resolve(numVariables, numObjectives int) {
	if numVariables < 1 {
		chk.Panic("maestro: optimizer needs at least one variable")
	}
	if numObjectives < 1 {
		chk.Panic("maestro: optimizer needs at least one objective")
	}
	if c.ThreadCount < 1 {
		chk.Panic("maestro: thread_count must be >= 1, got %d", c.ThreadCount)
	}
	if c.Capacity < 1 {
		chk.Panic("maestro: capacity must be >= 1, got %d", c.Capacity)
	}
	if c.EvaluationTimeLimit <= 0 {
		c.EvaluationTimeLimit = MaxTimeout
	}
}

// Optimizer is the worker-pool orchestrator: it owns the
// generation buffer, drives the Ensemble and Population, evaluates
// candidates across Config.ThreadCount goroutines, and maintains the
// hall of fame. Grounded on Island.Run's generation loop, restructured
// from a single-threaded generation cycle into a goroutine worker pool.
type Optimizer struct {
	config     Config
	variables  []Variable
	objectives []Objective
	evaluate   Evaluator
	monitor    Monitor

	population *Population
	ensemble   *Ensemble

	bufMu sync.Mutex
	buf   []SolutionRoot

	evalCount    int64
	terminating  int32
	terminateMsg string
	deadline     time.Time // zero means no Config.TimeLimit; set once in Start before workers launch

	workerStarts []atomic.Int64 // unix-nano of each worker's current analysis_start, 0 when idle
	workerEpoch  []atomic.Int64 // current generation token per worker slot, bumped by checkLiveness

	allSolutionsMu sync.Mutex
	allSolutions   []*Handle

	hofMu    sync.Mutex
	hof      map[int]*Handle
	hofOrder []*Handle // hof's handles in insertion order

	wg sync.WaitGroup
}

// NewOptimizer constructs an Optimizer. config.resolve panics
// (ConfigurationError) if variables or objectives are empty.
func NewOptimizer(variables []Variable, objectives []Objective, config Config, ensemble *Ensemble, evaluate Evaluator, monitor Monitor) *Optimizer {
	config.resolve(len(variables), len(objectives))
	if monitor == nil {
		monitor = NoopMonitor{}
	}

	popConfig := PopulationConfig{}
	popConfig.Default()
	popConfig.Capacity = config.Capacity
	pop := NewPopulation(objectives, popConfig)

	o := &Optimizer{
		config:       config,
		variables:    variables,
		objectives:   objectives,
		evaluate:     evaluate,
		monitor:      monitor,
		population:   pop,
		ensemble:     ensemble,
		hof:          make(map[int]*Handle),
		workerStarts: make([]atomic.Int64, config.ThreadCount),
		workerEpoch:  make([]atomic.Int64, config.ThreadCount),
	}
	pop.OnRankOne = o.onRankOne
	return o
}

// Population exposes the optimizer's archive for inspection and
// reporting once a run has finished or is in progress.
func (o *Optimizer) Population() *Population { return o.population }

// HallOfFame returns a snapshot of every handle ever inserted into the
// hall of fame, in insertion order.
func (o *Optimizer) HallOfFame() []*Handle {
	o.hofMu.Lock()
	defer o.hofMu.Unlock()
	out := make([]*Handle, len(o.hofOrder))
	copy(out, o.hofOrder)
	return out
}

// AllSolutions returns every retained solution, in offer order. Empty
// unless Config.RetainAllSolutions is set.
func (o *Optimizer) AllSolutions() []*Handle {
	o.allSolutionsMu.Lock()
	defer o.allSolutionsMu.Unlock()
	out := make([]*Handle, len(o.allSolutions))
	copy(out, o.allSolutions)
	return out
}

// EvalCount returns the number of solutions evaluated so far.
func (o *Optimizer) EvalCount() int { return int(atomic.LoadInt64(&o.evalCount)) }

// Seed injects user-predefined roots before Start, e.g. known-good
// starting points. Must be called before Start.
func (o *Optimizer) Seed(roots []SolutionRoot) {
	o.bufMu.Lock()
	defer o.bufMu.Unlock()
	o.buf = append(o.buf, roots...)
}

// Start runs the optimization to completion: builds the initial random
// buffer, launches Config.ThreadCount workers, blocks until one of the
// three termination triggers fires and every worker goroutine has
// returned (an evaluation that never returns keeps Start blocked),
// forces a final population update, and invokes Monitor.Terminate
// exactly once.
func (o *Optimizer) Start() {
	o.monitor.Reset()
	o.fillRandom()

	if o.config.TimeLimit > 0 {
		o.deadline = time.Now().Add(o.config.TimeLimit)
	}

	for i := 0; i < o.config.ThreadCount; i++ {
		o.wg.Add(1)
		go o.worker(i, o.workerEpoch[i].Load())
	}
	o.wg.Wait()

	o.population.ForceUpdate()
	o.monitor.Terminate(o.terminateMsg)
}

// fillRandom builds the initial generation buffer up to
// max(capacity - predefined_roots, random_solution_ratio * capacity)
// uniformly random roots.
func (o *Optimizer) fillRandom() {
	o.bufMu.Lock()
	predefined := len(o.buf)
	target := o.config.Capacity - predefined
	if min := int(o.config.RandomSolutionRatio * float64(o.config.Capacity)); min > target {
		target = min
	}
	for i := 0; i < target; i++ {
		o.buf = append(o.buf, o.randomRoot())
	}
	o.bufMu.Unlock()
}

func (o *Optimizer) randomRoot() SolutionRoot {
	disc := make([]int, 0)
	cont := make([]float64, 0)
	for _, v := range o.variables {
		switch v.Kind {
		case Discrete:
			disc = append(disc, v.SampleDiscrete())
		case Continuous:
			cont = append(cont, v.SampleContinuous())
		}
	}
	return SolutionRoot{DiscValues: disc, ContValues: cont, GeneratorTag: TagRandom}
}

// worker runs one thread's pull-evaluate-offer loop. epoch is the
// generation token this invocation owns in workerEpoch[id]; if
// checkLiveness bumps it while this worker is blocked inside evaluate,
// the stale invocation discards its result instead of offering it, so
// an interrupted worker's in-flight evaluation is always abandoned.
func (o *Optimizer) worker(id int, epoch int64) {
	defer o.wg.Done()
	for {
		if atomic.LoadInt32(&o.terminating) != 0 {
			return
		}
		if o.workerEpoch[id].Load() != epoch {
			return // superseded by checkLiveness; the replacement owns slot id now
		}
		if !o.deadline.IsZero() && time.Now().After(o.deadline) {
			o.triggerTermination(fmt.Sprintf("time_limit reached (%s)", o.config.TimeLimit))
			return
		}

		root, ok := o.pullRoot()
		if !ok {
			continue
		}

		o.workerStarts[id].Store(time.Now().UnixNano())
		sol, err := o.evaluate(root, id)

		if o.workerEpoch[id].Load() != epoch {
			// Replaced while blocked in evaluate: abandon the result and
			// leave workerStarts[id] alone, since the replacement worker
			// now owns it.
			return
		}
		o.workerStarts[id].Store(0)

		if err != nil {
			if o.config.Verbose {
				io.Pf("maestro: evaluation failure: %v\n", err)
			}
			continue
		}
		if !sol.Valid() {
			continue
		}

		handle, accepted := o.population.Offer(sol, root.GeneratorTag)

		if accepted && o.config.RetainAllSolutions {
			o.allSolutionsMu.Lock()
			o.allSolutions = append(o.allSolutions, handle)
			o.allSolutionsMu.Unlock()
		}

		n := atomic.AddInt64(&o.evalCount, 1)

		if o.config.SolutionLimit > 0 && int(n) >= o.config.SolutionLimit {
			o.triggerTermination(fmt.Sprintf("solution_limit reached (%d)", o.config.SolutionLimit))
			return
		}
		if sol.Converged() {
			o.triggerTermination("solution reported converged")
			return
		}
		if int(n)%o.config.Capacity == 0 {
			o.checkLiveness()
		}
	}
}

// pullRoot pops a root from the generation buffer, refilling it from
// the ensemble under the buffer mutex when it runs dry.
func (o *Optimizer) pullRoot() (SolutionRoot, bool) {
	o.bufMu.Lock()
	defer o.bufMu.Unlock()
	if len(o.buf) == 0 {
		if o.ensemble == nil {
			return SolutionRoot{}, false
		}
		fresh := o.ensemble.Generate(o.population, o.variables)
		o.buf = append(o.buf, fresh...)
		if len(o.buf) == 0 {
			return SolutionRoot{}, false
		}
	}
	root := o.buf[0]
	o.buf = o.buf[1:]
	return root, true
}

// checkLiveness interrupts and replaces any worker whose in-flight
// evaluation has exceeded Config.EvaluationTimeLimit. The interrupted
// worker's goroutine is left to finish or block forever on its stuck
// call; bumping its slot's workerEpoch means that when it eventually
// returns from evaluate, it finds itself superseded and discards its
// result instead of offering it, so the abandoned evaluation's
// in-flight solution is never offered to the population.
func (o *Optimizer) checkLiveness() {
	now := time.Now()
	for i := range o.workerStarts {
		start := o.workerStarts[i].Load()
		if start == 0 {
			continue
		}
		if now.Sub(time.Unix(0, start)) > o.config.EvaluationTimeLimit {
			if o.config.Verbose {
				io.Pf("maestro: worker %d exceeded evaluation_time_limit, replacing\n", i)
			}
			newEpoch := o.workerEpoch[i].Add(1)
			o.workerStarts[i].Store(0)
			o.wg.Add(1)
			go o.worker(i, newEpoch)
		}
	}
}

// triggerTermination sets the termination flag exactly once and
// records the human-readable reason the Monitor receives at shutdown.
func (o *Optimizer) triggerTermination(reason string) {
	if atomic.CompareAndSwapInt32(&o.terminating, 0, 1) {
		o.terminateMsg = reason
		if o.config.Verbose {
			io.Pf("maestro: terminating: %s\n", reason)
		}
	}
}

// onRankOne is Population's rank-change hook: insert
// into the in-memory hall of fame and append to the persistent log.
func (o *Optimizer) onRankOne(h *Handle) {
	o.hofMu.Lock()
	if _, exists := o.hof[h.Index]; exists {
		o.hofMu.Unlock()
		return
	}
	o.hof[h.Index] = h
	o.hofOrder = append(o.hofOrder, h)
	o.hofMu.Unlock()

	if o.config.HallOfFameLogPath != "" {
		o.appendHallOfFameLine(h)
	}
}

// appendHallOfFameLine appends one row to the persistent hall-of-fame
// log, writing the header on first use. gosl/io has no
// append primitive, so this reads back whatever is already on disk and
// rewrites the whole file, the same way Island.Run's periodic
// io.WriteFileD call rewrites its report on every checkpoint.
func (o *Optimizer) appendHallOfFameLine(h *Handle) {
	var buf bytes.Buffer
	existing, err := io.ReadFile(o.config.HallOfFameLogPath)
	if err != nil {
		io.Ff(&buf, "%s\n", hallOfFameHeader(h.Solution, o.variables))
	} else {
		buf.Write(existing)
	}
	io.Ff(&buf, "%s\n", hallOfFameRow(h))
	io.WriteFileD(".", o.config.HallOfFameLogPath, &buf)
}

func hallOfFameHeader(sol Solution, variables []Variable) string {
	fields := []string{"solution_id", "generator_short_id"}
	fields = append(fields, sol.ReportHeader()...)
	for _, v := range variables {
		if v.Kind == Discrete {
			fields = append(fields, v.Name)
		}
	}
	for _, v := range variables {
		if v.Kind == Continuous {
			fields = append(fields, v.Name)
		}
	}
	return strings.Join(fields, "\t")
}

func hallOfFameRow(h *Handle) string {
	fields := []string{h.Solution.ID(), h.GeneratorTag}
	fields = append(fields, h.Solution.Report()...)
	for _, d := range h.Solution.DiscValues() {
		fields = append(fields, strconv.Itoa(d))
	}
	for _, c := range h.Solution.ContValues() {
		fields = append(fields, strconv.FormatFloat(c, 'g', -1, 64))
	}
	return strings.Join(fields, "\t")
}
