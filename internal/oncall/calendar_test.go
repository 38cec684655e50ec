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

import "testing"

func TestNewCalendar_April2024(t *testing.T) {
	// April 2024: 30 days, starts on a Monday, April 7 is the first Sunday.
	cal := NewCalendar(2024, 4, nil)

	if got, want := cal.NumDays, 30; got != want {
		t.Fatalf("NumDays = %v, want %v", got, want)
	}
	if got, want := cal.WeekdayOf(1), 0; got != want {
		t.Errorf("WeekdayOf(1) = %v, want %v (Monday)", got, want)
	}
	if !cal.Is(7, SunOrHoliday) {
		t.Errorf("day 7 should be classified sun-or-holiday (Sunday)")
	}
}

func TestNewCalendar_ClassesApril2024(t *testing.T) {
	cal := NewCalendar(2024, 4, []int{29})

	cases := []struct {
		day   int
		class DayClass
	}{
		{1, Weekday},  // Monday
		{6, Saturday}, // first Saturday
		{7, SunOrHoliday},
		{29, SunOrHoliday}, // Monday but a holiday
	}
	for _, c := range cases {
		if got := cal.Days[c.day].Class; got != c.class {
			t.Errorf("day %d class = %v, want %v", c.day, got, c.class)
		}
	}
}

func TestNewCalendar_HolidayDominatesSaturday(t *testing.T) {
	// April 2024: April 13 is a Saturday. Mark it a holiday and confirm it
	// becomes sun-or-holiday, not saturday (spec.md §4.1).
	cal := NewCalendar(2024, 4, []int{13})

	if cal.Days[13].Weekday != 5 {
		t.Fatalf("test assumption broken: day 13 of April 2024 is not a Saturday")
	}
	if got := cal.Days[13].Class; got != SunOrHoliday {
		t.Errorf("Saturday holiday class = %v, want %v", got, SunOrHoliday)
	}
	for _, s := range cal.Saturdays() {
		if s == 13 {
			t.Errorf("Saturdays() should not include day 13 once it is a holiday")
		}
	}
}

func TestNewCalendar_HolidaysOutOfRangeIgnored(t *testing.T) {
	cal := NewCalendar(2024, 4, []int{0, 31, 45, -5})
	for d := 1; d <= cal.NumDays; d++ {
		if cal.Holidays[d] {
			t.Errorf("day %d unexpectedly marked a holiday", d)
		}
	}
}

func TestCalendar_SaturdaysAndSunOrHolidays(t *testing.T) {
	cal := NewCalendar(2024, 4, []int{29})

	wantSaturdays := []int{6, 13, 20, 27}
	gotSaturdays := cal.Saturdays()
	if len(gotSaturdays) != len(wantSaturdays) {
		t.Fatalf("Saturdays() = %v, want %v", gotSaturdays, wantSaturdays)
	}
	for i := range wantSaturdays {
		if gotSaturdays[i] != wantSaturdays[i] {
			t.Errorf("Saturdays()[%d] = %v, want %v", i, gotSaturdays[i], wantSaturdays[i])
		}
	}

	sunHols := cal.SunOrHolidays()
	foundHoliday := false
	for _, d := range sunHols {
		if d == 29 {
			foundHoliday = true
		}
	}
	if !foundHoliday {
		t.Errorf("SunOrHolidays() = %v, want it to include day 29 (holiday)", sunHols)
	}
}

func TestCalendar_IsOutOfRange(t *testing.T) {
	cal := NewCalendar(2024, 4, nil)
	if cal.Is(0, Weekday) || cal.Is(31, Weekday) {
		t.Errorf("Is() should report false for out-of-range days")
	}
	if cal.WeekdayOf(0) != -1 || cal.WeekdayOf(31) != -1 {
		t.Errorf("WeekdayOf() should report -1 for out-of-range days")
	}
}
