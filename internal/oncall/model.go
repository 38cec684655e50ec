// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oncall

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// slackUpperBound bounds the non-negative slack variables used to linearize
// max(0, ...) penalty terms. No single term in this model can legitimately
// exceed the number of days in a month.
const slackUpperBound = 31

// Model wraps the built CP-SAT proto together with the variable references
// the solver driver needs to read a solution back out. It is built once per
// solve and never mutated after SolveCpModelWithParameters runs (spec.md
// §4.3's one-way state machine).
type Model struct {
	cp      *cpmodel.Builder
	req     *Request
	cal     *Calendar
	weights ObjectiveWeights

	// night[d][t] and day[d][t] are indexed by doctor 0..N-1 and day
	// 1..NumDays (index 0 unused). day[d][t] is only populated for
	// sun-or-holiday days; use dayVar to read it uniformly.
	night [][]cpmodel.BoolVar
	day   [][]cpmodel.BoolVar
	work  [][]cpmodel.BoolVar
	score []cpmodel.IntVar

	falseVar cpmodel.BoolVar
}

// BuildModel declares every decision variable, posts every hard constraint,
// and assembles the weighted objective described by spec.md §4.2. It
// assumes already-validated input (spec.md §7/§9): out-of-range month
// numbers, negative weights, and similar caller errors are undefined
// behavior at this layer.
func BuildModel(req *Request) (*Model, error) {
	cal := NewCalendar(req.Year, req.Month, req.Holidays)
	n := req.NumDoctors

	cp := cpmodel.NewCpModelBuilder()
	m := &Model{
		cp:       cp,
		req:      req,
		cal:      cal,
		weights:  req.ObjectiveWeights.Resolve(),
		night:    make([][]cpmodel.BoolVar, n),
		day:      make([][]cpmodel.BoolVar, n),
		work:     make([][]cpmodel.BoolVar, n),
		score:    make([]cpmodel.IntVar, n),
		falseVar: cp.FalseVar(),
	}

	m.declareVariables()
	m.postSlotFillingAndLinking()
	m.postUnavailability()
	m.postSpacing()
	m.postSaturdayAndSunholCaps()
	m.postScores()

	objective := cpmodel.NewLinearExpr()
	m.addFairnessPenalties(objective)
	m.addGapPenalties(objective)
	m.addPreClinicPenalty(objective)
	m.addSatConsecPenalty(objective)
	m.addTargetPenalty(objective)
	m.addSunhol3rdPenalty(objective)
	cp.Minimize(objective)

	if _, err := cp.Model(); err != nil {
		return nil, fmt.Errorf("building on-call model: %w", err)
	}
	return m, nil
}

func (m *Model) declareVariables() {
	numDays := m.cal.NumDays
	for d := 0; d < m.req.NumDoctors; d++ {
		m.night[d] = make([]cpmodel.BoolVar, numDays+1)
		m.day[d] = make([]cpmodel.BoolVar, numDays+1)
		m.work[d] = make([]cpmodel.BoolVar, numDays+1)
		for t := 1; t <= numDays; t++ {
			m.night[d][t] = m.cp.NewBoolVar().WithName(fmt.Sprintf("night_d%d_t%d", d, t))
			m.work[d][t] = m.cp.NewBoolVar().WithName(fmt.Sprintf("work_d%d_t%d", d, t))
			if m.cal.Is(t, SunOrHoliday) {
				m.day[d][t] = m.cp.NewBoolVar().WithName(fmt.Sprintf("day_d%d_t%d", d, t))
			}
		}
		m.score[d] = m.cp.NewIntVar(0, scoreUpperBound).WithName(fmt.Sprintf("score_d%d", d))
	}
}

// dayVar returns the day-shift BoolVar for (d,t), or a constant false for
// days that are not sun-or-holiday (spec.md §4.2 hard constraint 1).
func (m *Model) dayVar(d, t int) cpmodel.BoolVar {
	if !m.cal.Is(t, SunOrHoliday) {
		return m.falseVar
	}
	return m.day[d][t]
}

// postSlotFillingAndLinking posts hard constraints 1 and 2: exactly one
// night per day, exactly one day-shift on sun-or-holiday days, no same-day
// double duty, and the work = night + day linkage.
func (m *Model) postSlotFillingAndLinking() {
	n := m.req.NumDoctors
	for t := 1; t <= m.cal.NumDays; t++ {
		nightAtT := make([]cpmodel.BoolVar, n)
		for d := 0; d < n; d++ {
			nightAtT[d] = m.night[d][t]
		}
		m.cp.AddExactlyOne(nightAtT...)

		if m.cal.Is(t, SunOrHoliday) {
			dayAtT := make([]cpmodel.BoolVar, n)
			for d := 0; d < n; d++ {
				dayAtT[d] = m.day[d][t]
			}
			m.cp.AddExactlyOne(dayAtT...)
		}

		for d := 0; d < n; d++ {
			dv := m.dayVar(d, t)
			m.cp.AddLessOrEqual(cpmodel.NewLinearExpr().Add(m.night[d][t]).Add(dv), cpmodel.NewConstant(1))
			m.cp.AddEquality(m.work[d][t], cpmodel.NewLinearExpr().Add(m.night[d][t]).Add(dv))
		}
	}
}

// postUnavailability posts hard constraints 3 and 4: per-day unavailability,
// fixed weekly unavailability, and the eve-of-fixed-unavailability rule
// (which does not wrap across months).
func (m *Model) postUnavailability() {
	zero := cpmodel.NewConstant(0)
	for d, days := range m.req.Unavailable {
		if d < 0 || d >= m.req.NumDoctors {
			continue
		}
		for _, t := range days {
			if t < 1 || t > m.cal.NumDays {
				continue
			}
			m.cp.AddEquality(m.work[d][t], zero)
		}
	}

	for d, weekdays := range m.req.FixedUnavailableWeekdays {
		if d < 0 || d >= m.req.NumDoctors {
			continue
		}
		blocked := make(map[int]bool, len(weekdays))
		for _, wd := range weekdays {
			blocked[wd] = true
		}
		for t := 1; t <= m.cal.NumDays; t++ {
			if !blocked[m.cal.WeekdayOf(t)] {
				continue
			}
			m.cp.AddEquality(m.work[d][t], zero)
			if t > 1 {
				m.cp.AddEquality(m.work[d][t-1], zero)
			}
		}
	}
}

// postSpacing posts hard constraints 5 and 6: the intra-month minimum
// 4-day spacing rule and cross-month spacing carried over from the
// previous month's last worked days.
func (m *Model) postSpacing() {
	for d := 0; d < m.req.NumDoctors; d++ {
		for t := 1; t <= m.cal.NumDays; t++ {
			for k := 1; k <= 4; k++ {
				if t+k > m.cal.NumDays {
					break
				}
				m.cp.AddLessOrEqual(cpmodel.NewLinearExpr().Add(m.work[d][t]).Add(m.work[d][t+k]), cpmodel.NewConstant(1))
			}
		}
	}

	if m.req.PrevMonthLastDay == nil {
		return
	}
	prevLast := *m.req.PrevMonthLastDay
	zero := cpmodel.NewConstant(0)
	for d, prevDays := range m.req.PrevMonthWorkedDays {
		if d < 0 || d >= m.req.NumDoctors {
			continue
		}
		for _, prevDay := range prevDays {
			dist := prevLast - prevDay + 1
			if dist < 1 || dist > 4 {
				continue
			}
			last := 5 - dist
			if last > m.cal.NumDays {
				last = m.cal.NumDays
			}
			for t := 1; t <= last; t++ {
				m.cp.AddEquality(m.work[d][t], zero)
			}
		}
	}
}

// postSaturdayAndSunholCaps posts hard constraints 7 and 8.
func (m *Model) postSaturdayAndSunholCaps() {
	saturdays := m.cal.Saturdays()
	sunHols := m.cal.SunOrHolidays()

	for d := 0; d < m.req.NumDoctors; d++ {
		satNights := cpmodel.NewLinearExpr()
		for _, s := range saturdays {
			satNights.Add(m.night[d][s])
		}
		m.cp.AddLessOrEqual(satNights, cpmodel.NewConstant(1))

		dayCount := cpmodel.NewLinearExpr()
		total := cpmodel.NewLinearExpr()
		for _, t := range sunHols {
			dayCount.Add(m.day[d][t])
			total.Add(m.day[d][t]).Add(m.night[d][t])
		}
		m.cp.AddLessOrEqual(dayCount, cpmodel.NewConstant(2))
		m.cp.AddLessOrEqual(total, cpmodel.NewConstant(3))
	}
}

// postScores defines S(d) (spec.md §4.2 score definition) and posts hard
// constraint 9, the per-doctor monthly score bounds.
func (m *Model) postScores() {
	globalMin := toScaledInt(m.req.ScoreMin)
	globalMax := toScaledInt(m.req.ScoreMax)

	for d := 0; d < m.req.NumDoctors; d++ {
		expr := cpmodel.NewLinearExpr()
		for t := 1; t <= m.cal.NumDays; t++ {
			switch {
			case m.cal.Is(t, SunOrHoliday):
				expr.AddTerm(m.day[d][t], 5).AddTerm(m.night[d][t], 10)
			case m.cal.Is(t, Saturday):
				expr.AddTerm(m.night[d][t], 15)
			default:
				expr.AddTerm(m.night[d][t], 10)
			}
		}
		m.cp.AddEquality(m.score[d], expr)

		lo, hi := globalMin, globalMax
		if v, ok := m.req.MinScoreByDoctor[d]; ok {
			lo = toScaledInt(v)
		}
		if v, ok := m.req.MaxScoreByDoctor[d]; ok {
			hi = toScaledInt(v)
		}
		m.cp.AddLinearConstraint(m.score[d], lo, hi)
	}
}

// maxMinusMin returns an IntVar equal to max(vars) - min(vars) using the
// Builder's native AddMaxEquality/AddMinEquality, the same idiom the
// original optimizer used for its single month_fairness term (max_score -
// min_score), generalized here to every gap penalty that needs a
// team-spread term.
func (m *Model) maxMinusMin(namePrefix string, vars []cpmodel.IntVar) cpmodel.IntVar {
	args := make([]cpmodel.LinearArgument, len(vars))
	for i, v := range vars {
		args[i] = v
	}
	maxV := m.cp.NewIntVar(0, scoreUpperBound).WithName(namePrefix + "_max")
	minV := m.cp.NewIntVar(0, scoreUpperBound).WithName(namePrefix + "_min")
	m.cp.AddMaxEquality(maxV, args...)
	m.cp.AddMinEquality(minV, args...)

	diff := m.cp.NewIntVar(0, scoreUpperBound).WithName(namePrefix)
	m.cp.AddEquality(diff, cpmodel.NewLinearExpr().Add(maxV).AddTerm(minV, -1))
	return diff
}

// addFairnessPenalties adds month_fairness, past_sat_gap, and
// past_sunhol_gap to the objective.
func (m *Model) addFairnessPenalties(objective *cpmodel.LinearExpr) {
	w := m.weights
	n := m.req.NumDoctors

	if w.MonthFairness != 0 {
		fairness := m.maxMinusMin("month_fairness", m.score)
		objective.AddTerm(fairness, int64(w.MonthFairness))
	}

	saturdays := m.cal.Saturdays()
	sunHols := m.cal.SunOrHolidays()

	if w.PastSatGap != 0 {
		combined := make([]cpmodel.IntVar, n)
		for d := 0; d < n; d++ {
			satCount := cpmodel.NewLinearExpr()
			for _, s := range saturdays {
				satCount.Add(m.night[d][s])
			}
			v := m.cp.NewIntVar(0, scoreUpperBound).WithName(fmt.Sprintf("past_sat_combined_d%d", d))
			satCount.AddConstant(countWithDefault(m.req.PastSatCounts, d))
			m.cp.AddEquality(v, satCount)
			combined[d] = v
		}
		gap := m.maxMinusMin("past_sat_gap", combined)
		objective.AddTerm(gap, int64(w.PastSatGap))
	}

	if w.PastSunholGap != 0 {
		combined := make([]cpmodel.IntVar, n)
		for d := 0; d < n; d++ {
			count := cpmodel.NewLinearExpr()
			for _, t := range sunHols {
				count.Add(m.day[d][t]).Add(m.night[d][t])
			}
			v := m.cp.NewIntVar(0, scoreUpperBound).WithName(fmt.Sprintf("past_sunhol_combined_d%d", d))
			count.AddConstant(countWithDefault(m.req.PastSunholCounts, d))
			m.cp.AddEquality(v, count)
			combined[d] = v
		}
		gap := m.maxMinusMin("past_sunhol_gap", combined)
		objective.AddTerm(gap, int64(w.PastSunholGap))
	}
}

// addGapPenalties adds gap5 and gap6: max(0, work[d,t]+work[d,t+k]-1) for
// k in {5,6}, using a non-negative slack variable bounded below by the
// linear expression rather than a boolean equality (spec.md §9 DESIGN
// NOTES), so the solver is free to minimize it to zero whenever possible.
func (m *Model) addGapPenalties(objective *cpmodel.LinearExpr) {
	w := m.weights
	m.addGapPenalty(objective, 5, w.Gap5)
	m.addGapPenalty(objective, 6, w.Gap6)
}

func (m *Model) addGapPenalty(objective *cpmodel.LinearExpr, offset, weight int) {
	if weight == 0 {
		return
	}
	for d := 0; d < m.req.NumDoctors; d++ {
		for t := 1; t+offset <= m.cal.NumDays; t++ {
			slack := m.cp.NewIntVar(0, 1).WithName(fmt.Sprintf("gap%d_slack_d%d_t%d", offset, d, t))
			expr := cpmodel.NewLinearExpr().Add(m.work[d][t]).Add(m.work[d][t+offset]).AddConstant(-1)
			m.cp.AddGreaterOrEqual(slack, expr)
			objective.AddTerm(slack, int64(weight))
		}
	}
}

// addPreClinicPenalty adds pre_clinic: a night shift worked on the eve of a
// doctor's outpatient clinic weekday.
func (m *Model) addPreClinicPenalty(objective *cpmodel.LinearExpr) {
	w := m.weights.PreClinic
	if w == 0 {
		return
	}
	for d, weekdays := range m.req.ClinicWeekdays {
		if d < 0 || d >= m.req.NumDoctors {
			continue
		}
		clinic := make(map[int]bool, len(weekdays))
		for _, wd := range weekdays {
			clinic[wd] = true
		}
		for t := 2; t <= m.cal.NumDays; t++ {
			if clinic[m.cal.WeekdayOf(t)] {
				objective.AddTerm(m.night[d][t-1], int64(w))
			}
		}
	}
}

// addSatConsecPenalty adds sat_consec: 1 iff a doctor who worked a Saturday
// night last month also works any Saturday night this month.
func (m *Model) addSatConsecPenalty(objective *cpmodel.LinearExpr) {
	w := m.weights.SatConsec
	if w == 0 {
		return
	}
	saturdays := m.cal.Saturdays()
	for d, flagged := range m.req.SatPrev {
		if !flagged || d < 0 || d >= m.req.NumDoctors {
			continue
		}
		if len(saturdays) == 0 {
			continue
		}
		args := make([]cpmodel.LinearArgument, len(saturdays))
		for i, s := range saturdays {
			args[i] = m.night[d][s]
		}
		flag := m.cp.NewBoolVar().WithName(fmt.Sprintf("sat_consec_d%d", d))
		m.cp.AddMaxEquality(flag, args...)
		objective.AddTerm(flag, int64(w))
	}
}

// addTargetPenalty adds target: |S(d) - target(d)| for every doctor with a
// configured target score, via the Builder's native absolute-value
// linearization (spec.md §9 DESIGN NOTES).
func (m *Model) addTargetPenalty(objective *cpmodel.LinearExpr) {
	w := m.weights.Target
	if w == 0 {
		return
	}
	for d, target := range m.req.TargetScoreByDoctor {
		if d < 0 || d >= m.req.NumDoctors {
			continue
		}
		targetScaled := toScaledInt(target)
		diff := cpmodel.NewLinearExpr().Add(m.score[d]).AddConstant(-targetScaled)
		absVar := m.cp.NewIntVar(0, scoreUpperBound).WithName(fmt.Sprintf("target_abs_d%d", d))
		m.cp.AddAbsEquality(absVar, diff)
		objective.AddTerm(absVar, int64(w))
	}
}

// addSunhol3rdPenalty adds sunhol_3rd: max(0, sun_hol_assignments(d) - 2).
func (m *Model) addSunhol3rdPenalty(objective *cpmodel.LinearExpr) {
	w := m.weights.Sunhol3rd
	if w == 0 {
		return
	}
	sunHols := m.cal.SunOrHolidays()
	if len(sunHols) == 0 {
		return
	}
	for d := 0; d < m.req.NumDoctors; d++ {
		assignments := cpmodel.NewLinearExpr()
		for _, t := range sunHols {
			assignments.Add(m.day[d][t]).Add(m.night[d][t])
		}
		assignments.AddConstant(-2)
		slack := m.cp.NewIntVar(0, slackUpperBound).WithName(fmt.Sprintf("sunhol_3rd_slack_d%d", d))
		m.cp.AddGreaterOrEqual(slack, assignments)
		objective.AddTerm(slack, int64(w))
	}
}
