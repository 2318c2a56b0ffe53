// projection.go
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

package services

import (
	"fmt"
	"time"

	"github.com/localnerve/classnote/internal/models"
)

// Period is one numbered lesson of a day view.
type Period struct {
	Number  int    `json:"number"`
	Subject string `json:"subject"`
}

// DayView is the projection of a single calendar day.
// Weekday is empty on weekends, which never have periods.
type DayView struct {
	Date    string         `json:"date"`
	Weekday models.Weekday `json:"weekday,omitempty"`
	Label   string         `json:"label"`
	Periods []Period       `json:"periods"`
}

// WeeklyView is what Home shows: today, tomorrow and the remaining school days.
type WeeklyView struct {
	Today      DayView   `json:"today"`
	Tomorrow   DayView   `json:"tomorrow"`
	RestOfWeek []DayView `json:"restOfWeek"`
}

// Project derives the weekly view of tt as seen at now. It keeps no state, so
// calling it again after midnight yields the new day.
func Project(tt models.Timetable, now time.Time) WeeklyView {
	tomorrow := now.AddDate(0, 0, 1)
	view := WeeklyView{
		Today:      dayView(tt, now),
		Tomorrow:   dayView(tt, tomorrow),
		RestOfWeek: make([]DayView, 0, len(models.Weekdays)),
	}

	for _, day := range models.Weekdays {
		if day == view.Today.Weekday || day == view.Tomorrow.Weekday {
			continue
		}
		view.RestOfWeek = append(view.RestOfWeek, DayView{
			Weekday: day,
			Label:   string(day),
			Periods: periods(tt.Periods(day)),
		})
	}
	return view
}

func dayView(tt models.Timetable, t time.Time) DayView {
	v := DayView{
		Date:    t.Format("2006-01-02"),
		Label:   DateLabel(t),
		Periods: []Period{},
	}
	if day, ok := models.WeekdayOf(t); ok {
		v.Weekday = day
		v.Periods = periods(tt.Periods(day))
	}
	return v
}

func periods(subjects []string) []Period {
	out := make([]Period, len(subjects))
	for i, s := range subjects {
		out[i] = Period{Number: i + 1, Subject: s}
	}
	return out
}

// DateLabel formats t as M月D日(曜).
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%d月%d日(%s)", int(t.Month()), t.Day(), models.DayName(t.Weekday()))
}
