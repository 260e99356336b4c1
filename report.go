// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maestro

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// WriteReport writes a full tab-delimited text report to dir/filename:
// bracketed sections for the configuration, the generators and their
// per-cycle use, the final population (or Pareto front), the hall of
// fame, and — when Config.RetainAllSolutions was set — every retained
// solution. Grounded on Island.WritePopToReport/SaveReport's
// buffer-then-WriteFileD idiom; any panic raised by the underlying
// gosl/io write (e.g. an unwritable directory) is recovered and
// surfaced as ErrReportIO.
func (o *Optimizer) WriteReport(dir, filename string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrReportIO
		}
	}()

	var buf bytes.Buffer
	o.writeParametersSection(&buf)
	o.writeGeneratorsSection(&buf)
	o.writePopulationSection(&buf)
	o.writeHallOfFameSection(&buf)
	if o.config.RetainAllSolutions {
		o.writeAllSolutionsSection(&buf)
	}

	io.WriteFileD(dir, filename, &buf)
	return nil
}

func (o *Optimizer) writeParametersSection(buf *bytes.Buffer) {
	io.Ff(buf, "[MAESTRO parameters]\n")
	io.Ff(buf, "thread_count\t%d\n", o.config.ThreadCount)
	io.Ff(buf, "capacity\t%d\n", o.config.Capacity)
	io.Ff(buf, "random_solution_ratio\t%g\n", o.config.RandomSolutionRatio)
	io.Ff(buf, "time_limit\t%s\n", o.config.TimeLimit)
	io.Ff(buf, "solution_limit\t%d\n", o.config.SolutionLimit)
	io.Ff(buf, "evaluation_time_limit\t%s\n", o.config.EvaluationTimeLimit)
	io.Ff(buf, "eval_count\t%d\n", o.EvalCount())
	io.Ff(buf, "\n")
}

func (o *Optimizer) writeGeneratorsSection(buf *bytes.Buffer) {
	io.Ff(buf, "[Generator methods]\n")
	if o.ensemble != nil {
		for _, gen := range o.ensemble.generators {
			io.Ff(buf, "%s\n", gen.ID())
		}
	}
	io.Ff(buf, "\n[Generator method use]\n")
	io.Ff(buf, "generator_id\tsolutions_generated\ttotal_wall_time_ms\twall_time_per_solution_ms\n")
	if o.ensemble != nil {
		for _, row := range o.ensemble.History() {
			io.Ff(buf, "%s\t%d\t%g\t%g\n", row.GeneratorID, row.SolutionsGenerated, row.TotalWallTimeMs, row.WallTimePerSolution)
		}
	}
	io.Ff(buf, "\n")
}

func (o *Optimizer) writePopulationSection(buf *bytes.Buffer) {
	fronts := o.population.Fronts()
	if len(fronts) == 0 {
		io.Ff(buf, "[Final population]\n")
		return
	}
	if len(fronts) == 1 {
		io.Ff(buf, "[Pareto front]\n")
	} else {
		io.Ff(buf, "[Final population]\n")
	}
	io.Ff(buf, solutionRowHeader(firstSolution(fronts))+"\n")
	for _, f := range fronts {
		for _, h := range f.Solutions() {
			io.Ff(buf, solutionRow(h, o.variables)+"\n")
		}
	}
	io.Ff(buf, "\n")
}

func (o *Optimizer) writeHallOfFameSection(buf *bytes.Buffer) {
	io.Ff(buf, "[Hall of fame]\n")
	hof := o.HallOfFame()
	if len(hof) > 0 {
		io.Ff(buf, solutionRowHeader(hof[0].Solution)+"\n")
		for _, h := range hof {
			io.Ff(buf, solutionRow(h, o.variables)+"\n")
		}
	}
	io.Ff(buf, "\n")
}

func (o *Optimizer) writeAllSolutionsSection(buf *bytes.Buffer) {
	io.Ff(buf, "[All solutions]\n")
	all := o.AllSolutions()
	if len(all) > 0 {
		io.Ff(buf, solutionRowHeader(all[0].Solution)+"\n")
		for _, h := range all {
			io.Ff(buf, solutionRow(h, o.variables)+"\n")
		}
	}
}

func firstSolution(fronts []*Front) Solution {
	for _, f := range fronts {
		if f.Size() > 0 {
			return f.Solutions()[0].Solution
		}
	}
	return nil
}

// solutionRow implements the per-row format: id, generator_short_id,
// rank_history, <user_report>, <disc_values_as_labels>, <cont_values>.
// solutionRowHeader names only the first four column groups; the
// discrete and continuous value columns have no header fields.
func solutionRowHeader(sol Solution) string {
	fields := []string{"id", "generator_short_id", "rank_history"}
	if sol != nil {
		fields = append(fields, sol.ReportHeader()...)
	}
	return strings.Join(fields, "\t")
}

// ReportRow is one parsed row from a report's solution table: the
// three fixed columns every section shares, plus whatever extra
// fields follow in header order (the Solution's ReportHeader/Report
// fields, then discrete labels, then continuous values).
type ReportRow struct {
	ID           string
	GeneratorTag string
	Rank         int // the handle's most recent rank_history entry
	Extra        []string
}

// ReportSection holds one parsed bracketed solution table.
type ReportSection struct {
	Header []string
	Rows   []ReportRow
}

// Report is the structured result of parsing a file WriteReport wrote.
type Report struct {
	Parameters   map[string]string
	Generators   []string
	GeneratorUse []GenerationRecord
	Population   *ReportSection
	ParetoFront  bool // true when Population came from "[Pareto front]" rather than "[Final population]"
	HallOfFame   *ReportSection
	AllSolutions *ReportSection
}

// ReadReport parses a report file written by WriteReport back into its
// sections, satisfying the round-trip property that a report produced
// from a run and reloaded yields identical solution ids, fitness
// vectors (via each row's Extra fields, in ReportHeader order), and
// ranks. Any malformed row is surfaced as ErrReportIO.
func ReadReport(dir, filename string) (rep *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = nil
			err = ErrReportIO
		}
	}()

	data, readErr := io.ReadFile(filepath.Join(dir, filename))
	if readErr != nil {
		return nil, ErrReportIO
	}

	rep = &Report{Parameters: map[string]string{}}
	for _, sec := range splitReportSections(string(data)) {
		switch sec.title {
		case "MAESTRO parameters":
			for _, line := range sec.lines {
				parseParameterLine(rep.Parameters, line)
			}
		case "Generator methods":
			rep.Generators = append(rep.Generators, sec.lines...)
		case "Generator method use":
			rep.GeneratorUse = parseGeneratorUse(sec.lines)
		case "Final population":
			rep.Population = parseSolutionSection(sec.lines)
		case "Pareto front":
			rep.Population = parseSolutionSection(sec.lines)
			rep.ParetoFront = true
		case "Hall of fame":
			rep.HallOfFame = parseSolutionSection(sec.lines)
		case "All solutions":
			rep.AllSolutions = parseSolutionSection(sec.lines)
		}
	}
	return rep, nil
}

type reportSectionBlock struct {
	title string
	lines []string
}

// splitReportSections splits a report's raw text into its bracketed
// sections, e.g. "[Hall of fame]" followed by its body lines up to the
// next bracketed header or end of file. Blank lines are separators,
// never data.
func splitReportSections(text string) []reportSectionBlock {
	var blocks []reportSectionBlock
	var cur *reportSectionBlock
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			blocks = append(blocks, reportSectionBlock{title: line[1 : len(line)-1]})
			cur = &blocks[len(blocks)-1]
			continue
		}
		if cur == nil || line == "" {
			continue
		}
		cur.lines = append(cur.lines, line)
	}
	return blocks
}

func parseParameterLine(params map[string]string, line string) {
	if fields := strings.SplitN(line, "\t", 2); len(fields) == 2 {
		params[fields[0]] = fields[1]
	}
}

func parseGeneratorUse(lines []string) []GenerationRecord {
	if len(lines) < 2 {
		return nil
	}
	out := make([]GenerationRecord, 0, len(lines)-1)
	for _, line := range lines[1:] { // lines[0] is the header row
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			chk.Panic("maestro: malformed generator method use row: %q", line)
		}
		solutions, errA := strconv.Atoi(fields[1])
		total, errB := strconv.ParseFloat(fields[2], 64)
		perSol, errC := strconv.ParseFloat(fields[3], 64)
		if errA != nil || errB != nil || errC != nil {
			chk.Panic("maestro: malformed generator method use row: %q", line)
		}
		out = append(out, GenerationRecord{
			GeneratorID:         fields[0],
			SolutionsGenerated:  solutions,
			TotalWallTimeMs:     total,
			WallTimePerSolution: perSol,
		})
	}
	return out
}

func parseSolutionSection(lines []string) *ReportSection {
	if len(lines) == 0 {
		return &ReportSection{}
	}
	sec := &ReportSection{Header: strings.Split(lines[0], "\t")}
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			chk.Panic("maestro: malformed solution row: %q", line)
		}
		rank, err := rankHistoryRLELast(fields[2])
		if err != nil {
			chk.Panic("maestro: malformed rank_history %q: %v", fields[2], err)
		}
		sec.Rows = append(sec.Rows, ReportRow{
			ID:           fields[0],
			GeneratorTag: fields[1],
			Rank:         rank,
			Extra:        append([]string(nil), fields[3:]...),
		})
	}
	return sec
}

// rankHistoryRLELast decodes RankHistoryRLE's last token (e.g. the
// "-1x5" in "1x3, 2, -1x5"), the most recent rank a round-tripped
// report row compares against.
func rankHistoryRLELast(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	parts := strings.Split(s, ", ")
	last := parts[len(parts)-1]
	if idx := strings.IndexByte(last, 'x'); idx >= 0 {
		last = last[:idx]
	}
	return strconv.Atoi(last)
}

func solutionRow(h *Handle, variables []Variable) string {
	fields := []string{h.Solution.ID(), h.GeneratorTag, RankHistoryRLE(h.RankHistory)}
	fields = append(fields, h.Solution.Report()...)

	disc := h.Solution.DiscValues()
	di := 0
	for _, v := range variables {
		if v.Kind != Discrete {
			continue
		}
		fields = append(fields, v.Label(disc[di]))
		di++
	}

	cont := h.Solution.ContValues()
	ci := 0
	for _, v := range variables {
		if v.Kind != Continuous {
			continue
		}
		fields = append(fields, strconv.FormatFloat(cont[ci], 'g', -1, 64))
		ci++
	}
	return strings.Join(fields, "\t")
}
