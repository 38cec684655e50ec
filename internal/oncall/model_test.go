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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

func TestBuildModel_DayVarsOnlyOnSunOrHoliday(t *testing.T) {
	req := baseRequest(4)
	req.Holidays = []int{29}

	m, err := BuildModel(req)
	if err != nil {
		t.Fatalf("BuildModel returned error: %v", err)
	}

	cal := NewCalendar(req.Year, req.Month, req.Holidays)
	for t2 := 1; t2 <= cal.NumDays; t2++ {
		dv := m.dayVar(0, t2)
		isFalseConst := dv == m.falseVar
		if cal.Is(t2, SunOrHoliday) && isFalseConst {
			t.Errorf("day %d is sun-or-holiday but dayVar fell back to the false constant", t2)
		}
		if !cal.Is(t2, SunOrHoliday) && !isFalseConst {
			t.Errorf("day %d is not sun-or-holiday but dayVar did not fall back to the false constant", t2)
		}
	}
}

func TestBuildModel_ExplicitZeroWeightsOmitPenaltyTerms(t *testing.T) {
	zero := 0
	req := baseRequest(4)
	req.ObjectiveWeights = ObjectiveWeightsInput{
		MonthFairness: &zero, PastSatGap: &zero, PastSunholGap: &zero,
		Gap5: &zero, Gap6: &zero, PreClinic: &zero, SatConsec: &zero,
		ScoreBalance: &zero, Target: &zero, Sunhol3rd: &zero,
	}

	m, err := BuildModel(req)
	if err != nil {
		t.Fatalf("BuildModel returned error: %v", err)
	}
	proto, err := m.cp.Model()
	if err != nil {
		t.Fatalf("Model() returned error: %v", err)
	}
	if got := proto.GetObjective(); got != nil && len(got.GetVars()) != 0 {
		t.Errorf("objective should have no terms when every weight is explicitly zero, got %d vars", len(got.GetVars()))
	}
}

func TestBuildModel_OmittedWeightsUseDocumentedDefaults(t *testing.T) {
	req := baseRequest(4)
	req.ObjectiveWeights = ObjectiveWeightsInput{} // every key omitted

	m, err := BuildModel(req)
	if err != nil {
		t.Fatalf("BuildModel returned error: %v", err)
	}
	if diff := cmp.Diff(DefaultObjectiveWeights(), m.weights); diff != "" {
		t.Errorf("resolved weights differ from documented defaults (-want +got):\n%s", diff)
	}

	proto, err := m.cp.Model()
	if err != nil {
		t.Fatalf("Model() returned error: %v", err)
	}
	if got := proto.GetObjective(); got == nil || len(got.GetVars()) == 0 {
		t.Errorf("objective should have terms when weights are omitted and default to nonzero")
	}
}

func TestBuildModel_UnknownDoctorIndicesIgnored(t *testing.T) {
	req := baseRequest(2)
	req.Unavailable = map[int][]int{5: {1, 2}, -1: {3}}
	req.FixedUnavailableWeekdays = map[int][]int{5: {0}}

	if _, err := BuildModel(req); err != nil {
		t.Fatalf("BuildModel returned error for out-of-range doctor indices: %v", err)
	}
}

func TestBuildModel_OutOfRangeUnavailableDaysIgnored(t *testing.T) {
	req := baseRequest(4)
	req.Unavailable = map[int][]int{0: {0, -3, 1000}}

	if _, err := BuildModel(req); err != nil {
		t.Fatalf("BuildModel returned error for out-of-range unavailable days: %v", err)
	}
}

func TestMaxMinusMin_ConstantVars(t *testing.T) {
	cp := cpmodel.NewCpModelBuilder()
	m := &Model{cp: cp}

	a := cp.NewConstant(5)
	b := cp.NewConstant(2)
	c := cp.NewConstant(9)

	diff := m.maxMinusMin("spread", []cpmodel.IntVar{a, b, c})
	if diff.Name() != "spread" {
		t.Errorf("diff.Name() = %q, want %q", diff.Name(), "spread")
	}
}
