// timetable.go
//
// classnote: a class timetable, homework and items tracker for students
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of classnote.
// classnote is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// classnote is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with classnote.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package models

import (
	"strings"
	"time"
)

// Weekday is the timetable key for one school day.
type Weekday string

const (
	Monday    Weekday = "月"
	Tuesday   Weekday = "火"
	Wednesday Weekday = "水"
	Thursday  Weekday = "木"
	Friday    Weekday = "金"
)

// Weekdays lists the school days in order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// dayNames is indexed by time.Weekday
var dayNames = [7]string{"日", "月", "火", "水", "木", "金", "土"}

var weekdayAliases = map[string]Weekday{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
}

// DayName returns the single kanji name of any day of the week.
func DayName(d time.Weekday) string {
	return dayNames[d]
}

// WeekdayOf returns the school day token for t, false on weekends.
func WeekdayOf(t time.Time) (Weekday, bool) {
	w := Weekday(dayNames[t.Weekday()])
	return w, w.Valid()
}

// ParseWeekday accepts a token or an English day name.
func ParseWeekday(s string) (Weekday, bool) {
	if w := Weekday(s); w.Valid() {
		return w, true
	}
	w, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	return w, ok
}

// Valid reports whether w is one of the five school days.
func (w Weekday) Valid() bool {
	for _, d := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// DayEntry is the stored value of one weekday. Index i of Periods is period i+1.
type DayEntry struct {
	Periods   []string   `json:"periods"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Timetable maps each weekday to its periods.
type Timetable map[Weekday]DayEntry

// EmptyTimetable has an entry with no periods for every weekday.
func EmptyTimetable() Timetable {
	t := make(Timetable, len(Weekdays))
	for _, d := range Weekdays {
		t[d] = DayEntry{Periods: []string{}}
	}
	return t
}

// Periods returns the periods of day, empty when the key is missing.
func (t Timetable) Periods(day Weekday) []string {
	if entry, ok := t[day]; ok && entry.Periods != nil {
		return entry.Periods
	}
	return []string{}
}

// Clone deep copies the timetable so drafts never alias stored slices.
func (t Timetable) Clone() Timetable {
	out := make(Timetable, len(t))
	for day, entry := range t {
		periods := make([]string, len(entry.Periods))
		copy(periods, entry.Periods)
		entry.Periods = periods
		out[day] = entry
	}
	return out
}
