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

// ObjectiveWeights holds the resolved, non-negative integer weight for each
// soft penalty term in the objective, after ObjectiveWeightsInput.Resolve
// has merged a request's explicit overrides against
// DefaultObjectiveWeights(). A zero value for any field here is always an
// explicit, effective weight of zero.
type ObjectiveWeights struct {
	MonthFairness int
	PastSatGap    int
	PastSunholGap int
	Gap5          int
	Gap6          int
	PreClinic     int
	SatConsec     int
	ScoreBalance  int
	Target        int
	Sunhol3rd     int
}

// DefaultObjectiveWeights returns the documented default weight vector
// (spec.md §4.2).
func DefaultObjectiveWeights() ObjectiveWeights {
	return ObjectiveWeights{
		MonthFairness: 100,
		PastSatGap:    10,
		PastSunholGap: 5,
		Gap5:          100,
		Gap6:          50,
		PreClinic:     100,
		SatConsec:     80,
		ScoreBalance:  30,
		Target:        10,
		Sunhol3rd:     80,
	}
}

// ObjectiveWeightsInput is the JSON wire shape of a request's objective
// weight overrides. Fields are pointers so an omitted key (nil) can be told
// apart from an explicit weight of zero (spec.md §6: "unspecified keys take
// defaults"); encoding/json leaves an absent key's pointer nil rather than
// allocating a zero int.
type ObjectiveWeightsInput struct {
	MonthFairness *int `json:"month_fairness"`
	PastSatGap    *int `json:"past_sat_gap"`
	PastSunholGap *int `json:"past_sunhol_gap"`
	Gap5          *int `json:"gap5"`
	Gap6          *int `json:"gap6"`
	PreClinic     *int `json:"pre_clinic"`
	SatConsec     *int `json:"sat_consec"`
	ScoreBalance  *int `json:"score_balance"`
	Target        *int `json:"target"`
	Sunhol3rd     *int `json:"sunhol_3rd"`
}

// Resolve merges w against DefaultObjectiveWeights() field by field: a nil
// field takes the documented default, any explicit value (including 0) is
// used as given.
func (w ObjectiveWeightsInput) Resolve() ObjectiveWeights {
	d := DefaultObjectiveWeights()
	return ObjectiveWeights{
		MonthFairness: orDefault(w.MonthFairness, d.MonthFairness),
		PastSatGap:    orDefault(w.PastSatGap, d.PastSatGap),
		PastSunholGap: orDefault(w.PastSunholGap, d.PastSunholGap),
		Gap5:          orDefault(w.Gap5, d.Gap5),
		Gap6:          orDefault(w.Gap6, d.Gap6),
		PreClinic:     orDefault(w.PreClinic, d.PreClinic),
		SatConsec:     orDefault(w.SatConsec, d.SatConsec),
		ScoreBalance:  orDefault(w.ScoreBalance, d.ScoreBalance),
		Target:        orDefault(w.Target, d.Target),
		Sunhol3rd:     orDefault(w.Sunhol3rd, d.Sunhol3rd),
	}
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Request is the frozen input to one solve. All fields are read-only for
// the duration of model construction and solving.
type Request struct {
	Year       int `json:"year"`
	Month      int `json:"month"` // 1..12
	NumDoctors int `json:"num_doctors"`

	Holidays []int `json:"holidays"`

	// Unavailable maps doctor index to day-of-month integers the doctor is
	// unavailable on. Day numbers outside [1, NumDays] are ignored.
	Unavailable map[int][]int `json:"unavailable"`

	// FixedUnavailableWeekdays maps doctor index to recurring weekly
	// unavailability (Mon=0..Sun=6).
	FixedUnavailableWeekdays map[int][]int `json:"fixed_unavailable_weekdays"`

	// PrevMonthWorkedDays maps doctor index to day-of-month integers (in
	// the previous month) the doctor worked, used for cross-month spacing.
	PrevMonthWorkedDays map[int][]int `json:"prev_month_worked_days"`

	// PrevMonthLastDay is the last day number of the previous month. If
	// nil, cross-month spacing is skipped entirely even when
	// PrevMonthWorkedDays is non-empty (spec.md §4.2 edge case).
	PrevMonthLastDay *int `json:"prev_month_last_day"`

	ScoreMin float64 `json:"score_min"`
	ScoreMax float64 `json:"score_max"`

	// PastSatCounts and PastSunholCounts are ordered per-doctor counts;
	// indices beyond the slice length, or a shorter slice than NumDoctors,
	// default to zero.
	PastSatCounts    []int `json:"past_sat_counts"`
	PastSunholCounts []int `json:"past_sunhol_counts"`

	// MinScoreByDoctor and MaxScoreByDoctor override ScoreMin/ScoreMax for
	// the doctors they key; a doctor with no entry uses the global bound.
	MinScoreByDoctor map[int]float64 `json:"min_score_by_doctor"`
	MaxScoreByDoctor map[int]float64 `json:"max_score_by_doctor"`

	// TargetScoreByDoctor adds a soft penalty (weighted by
	// ObjectiveWeights.Target) proportional to the distance between a
	// doctor's final score and their target, for the doctors it keys.
	TargetScoreByDoctor map[int]float64 `json:"target_score_by_doctor"`

	// PastTotalScores carries each doctor's cumulative score from prior
	// months; it is accepted on the request but is not copied into the
	// Response and does not feed a penalty term (spec.md §4.2
	// leaves score_balance, the weight it would drive, reserved for
	// future use).
	PastTotalScores map[int]float64 `json:"past_total_scores"`

	// ClinicWeekdays maps doctor index to the set of weekdays (Mon=0..Sun=6)
	// that are that doctor's outpatient clinic days; a night shift worked
	// on the eve of a clinic day incurs the pre_clinic penalty.
	ClinicWeekdays map[int][]int `json:"clinic_weekdays"`

	// SatPrev flags, per doctor, whether the doctor worked a Saturday night
	// in the previous month (drives the sat_consec penalty).
	SatPrev map[int]bool `json:"sat_prev"`

	// ObjectiveWeights carries only the caller's explicit overrides; a nil
	// field (an omitted JSON key) takes the documented default when the
	// model is built (see ObjectiveWeightsInput.Resolve).
	ObjectiveWeights ObjectiveWeightsInput `json:"objective_weights"`

	// TimeLimitSeconds bounds the solver's wall-clock budget. Zero means
	// "use the documented default" (10s, spec.md §4.3).
	TimeLimitSeconds float64 `json:"-"`
}

// ScheduleEntry is one day of the produced schedule.
type ScheduleEntry struct {
	Day            int  `json:"day"`
	IsSunOrHoliday bool `json:"is_sun_or_holiday"`
	// NightShiftDoctor is always present on success.
	NightShiftDoctor int `json:"night_shift_doctor"`
	// DayShiftDoctor is present (non-nil) iff IsSunOrHoliday.
	DayShiftDoctor *int `json:"day_shift_doctor,omitempty"`
}

// Response is the structured outcome of a solve. Exactly one of the success
// fields (Schedule/Scores) or the failure field (Message) is populated,
// mirroring spec.md §6.
type Response struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"` // "OPTIMAL" | "FEASIBLE"
	Message string `json:"message,omitempty"`

	Schedule []ScheduleEntry `json:"schedule,omitempty"`
	// Scores maps doctor index to its decimal month score (one digit of
	// precision). Keyed by int: key-type coercion to/from a JSON string
	// key is the boundary collaborator's job, per spec.md §9.
	Scores map[int]float64 `json:"scores,omitempty"`
}
