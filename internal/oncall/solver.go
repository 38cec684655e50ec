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
	"google.golang.org/protobuf/proto"

	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
)

// defaultTimeLimitSeconds is the wall-clock bound used when a request does
// not specify one (spec.md §4.3).
const defaultTimeLimitSeconds = 10.0

// infeasibleMessage is the fixed, human-readable reason returned whenever
// the solver cannot certify a feasible schedule, whether the model is truly
// infeasible or the time limit elapsed first — the two are indistinguishable
// from the caller's point of view (spec.md §4.3, §7). The core never
// returns a Go error for this case; it is reported only through
// Response.Success=false, matching spec.md §7's propagation policy.
const infeasibleMessage = "no feasible schedule exists for the given constraints; the requested availability, spacing, or score bounds are too tight"

// solveState names the one-way transitions of spec.md §4.3's state machine.
type solveState int

const (
	stateConstructed solveState = iota
	stateModelBuilt
	stateSolved
	stateInfeasible
)

// Scheduler drives one solve from a frozen Request to a Response. Each
// Scheduler owns its own Model exclusively; solving concurrent requests
// means constructing independent Schedulers (spec.md §5).
type Scheduler struct {
	req   *Request
	model *Model
	state solveState
}

// NewScheduler constructs a Scheduler for req. It does not build the model
// yet; call Solve to run the full Constructed -> ModelBuilt -> Solved pipeline.
func NewScheduler(req *Request) *Scheduler {
	return &Scheduler{req: req, state: stateConstructed}
}

// Solve runs the full calendar-classify, model-build, and CP-SAT-solve
// pipeline for req and returns a structured Response. It never returns a
// non-nil error for a business-logic infeasibility — that case is reported
// through Response.Success=false, matching spec.md §7's propagation policy.
// A non-nil error here means model construction or the solver binding
// itself failed unexpectedly (e.g. a malformed model proto).
func Solve(req *Request) (*Response, error) {
	return NewScheduler(req).Solve()
}

// Solve executes the Scheduler's pipeline exactly once.
func (s *Scheduler) Solve() (*Response, error) {
	model, err := BuildModel(s.req)
	if err != nil {
		return nil, fmt.Errorf("on-call scheduler: %w", err)
	}
	s.model = model
	s.state = stateModelBuilt

	modelProto, err := model.cp.Model()
	if err != nil {
		return nil, fmt.Errorf("on-call scheduler: instantiating model proto: %w", err)
	}

	limit := s.req.TimeLimitSeconds
	if limit <= 0 {
		limit = defaultTimeLimitSeconds
	}
	params := &sppb.SatParameters{MaxTimeInSeconds: proto.Float64(limit)}

	response, err := cpmodel.SolveCpModelWithParameters(modelProto, params)
	if err != nil {
		return nil, fmt.Errorf("on-call scheduler: solving model: %w", err)
	}

	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
		s.state = stateSolved
		return s.extractSuccess(response), nil
	default:
		s.state = stateInfeasible
		return &Response{Success: false, Message: infeasibleMessage}, nil
	}
}

// extractSuccess converts a feasible CP-SAT response into the public
// Response shape: one night/day doctor per day, and each doctor's decimal
// month score.
func (s *Scheduler) extractSuccess(response *cmpb.CpSolverResponse) *Response {
	m := s.model
	status := "FEASIBLE"
	if response.GetStatus() == cmpb.CpSolverStatus_OPTIMAL {
		status = "OPTIMAL"
	}

	schedule := make([]ScheduleEntry, 0, m.cal.NumDays)
	for t := 1; t <= m.cal.NumDays; t++ {
		entry := ScheduleEntry{Day: t, IsSunOrHoliday: m.cal.Is(t, SunOrHoliday)}
		for d := 0; d < s.req.NumDoctors; d++ {
			if cpmodel.SolutionBooleanValue(response, m.night[d][t]) {
				entry.NightShiftDoctor = d
			}
		}
		if entry.IsSunOrHoliday {
			for d := 0; d < s.req.NumDoctors; d++ {
				if cpmodel.SolutionBooleanValue(response, m.day[d][t]) {
					doc := d
					entry.DayShiftDoctor = &doc
				}
			}
		}
		schedule = append(schedule, entry)
	}

	scores := make(map[int]float64, s.req.NumDoctors)
	for d := 0; d < s.req.NumDoctors; d++ {
		scores[d] = fromScaledInt(cpmodel.SolutionIntegerValue(response, m.score[d]))
	}

	return &Response{Success: true, Status: status, Schedule: schedule, Scores: scores}
}
