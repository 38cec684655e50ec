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

import "math"

// scoreUpperBound is the domain ceiling for a doctor's scaled monthly score
// variable. A doctor working a weekday night every day of a 31-day month
// scores 310; per-doctor overrides and multi-month cumulative targets can
// push a "score" concept higher without overflowing this bound, so it is
// kept generous rather than tight (spec.md allowed [0, 2000] directly).
const scoreUpperBound = 2000

// toScaledInt converts a decimal value to its integer ×10 representation,
// rounding half away from zero (spec.md §9).
func toScaledInt(v float64) int64 {
	scaled := v * 10
	if scaled >= 0 {
		return int64(math.Floor(scaled + 0.5))
	}
	return int64(math.Ceil(scaled - 0.5))
}

// fromScaledInt converts an integer ×10 representation back to its decimal
// value.
func fromScaledInt(v int64) float64 {
	return float64(v) / 10.0
}

// countWithDefault returns counts[i] if i is within range, else 0. Used for
// past-count slices shorter than NumDoctors (spec.md §4.2 edge case).
func countWithDefault(counts []int, i int) int64 {
	if i < 0 || i >= len(counts) {
		return 0
	}
	return int64(counts[i])
}
