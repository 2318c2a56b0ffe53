// schedule_repository.go
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
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const sectionTimetable = "timetable"

// ScheduleRepository holds the timetable draft of one class.
// AddPeriod and RemovePeriod only touch the draft; Save persists a single weekday.
type ScheduleRepository struct {
	store   DocumentStore
	classID string
	now     func() time.Time
	log     *zap.Logger

	mu    sync.Mutex
	draft models.Timetable
}

// NewScheduleRepository creates a repository bound to classID.
func NewScheduleRepository(store DocumentStore, classID string, now func() time.Time, log *zap.Logger) *ScheduleRepository {
	if now == nil {
		now = time.Now
	}
	return &ScheduleRepository{
		store:   store,
		classID: classID,
		now:     now,
		log:     log.Named("schedule").With(zap.String("classId", classID)),
		draft:   models.EmptyTimetable(),
	}
}

// ClassID returns the class this repository is bound to.
func (r *ScheduleRepository) ClassID() string {
	return r.classID
}

// Get reads the timetable and replaces the draft with it.
// A missing document or weekday reads as a day with no periods.
func (r *ScheduleRepository) Get(ctx context.Context) (models.Timetable, error) {
	timetable := models.EmptyTimetable()

	doc, err := r.store.Get(ctx, CollectionClasses, r.classID)
	switch {
	case errors.Is(err, types.ErrNotFound):
	case err != nil:
		return nil, types.NewReadError("timetable", err)
	default:
		timetable, err = decodeTimetable(doc.Section(sectionTimetable))
		if err != nil {
			return nil, types.NewReadError("timetable", err)
		}
	}

	r.mu.Lock()
	r.draft = timetable.Clone()
	r.mu.Unlock()

	return timetable, nil
}

// decodeTimetable fills the known weekdays from the stored section, ignoring unknown keys
func decodeTimetable(section map[string]json.RawMessage) (models.Timetable, error) {
	timetable := models.EmptyTimetable()
	for _, day := range models.Weekdays {
		raw, ok := section[string(day)]
		if !ok {
			continue
		}
		var entry models.DayEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, errors.Wrapf(err, "decode %s", day)
		}
		if entry.Periods == nil {
			entry.Periods = []string{}
		}
		timetable[day] = entry
	}
	return timetable, nil
}

// Draft returns a copy of the local timetable including unsaved edits.
func (r *ScheduleRepository) Draft() models.Timetable {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft.Clone()
}

// AddPeriod appends subject as the last period of day.
func (r *ScheduleRepository) AddPeriod(day models.Weekday, subject string) error {
	subject = strings.TrimSpace(subject)
	if !day.Valid() {
		return invalidDay(day)
	}
	if subject == "" {
		return types.NewValidationError("subject is required", types.FieldError{Field: "subject", Error: "this field is required"})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry := r.draft[day]
	entry.Periods = append(entry.Periods, subject)
	r.draft[day] = entry
	return nil
}

// RemovePeriod removes the period at index; later periods move up by one.
// Anything keyed by period index is stale afterwards.
func (r *ScheduleRepository) RemovePeriod(day models.Weekday, index int) error {
	if !day.Valid() {
		return invalidDay(day)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry := r.draft[day]
	if index < 0 || index >= len(entry.Periods) {
		return types.NewValidationError("period index out of range",
			types.FieldError{Field: "index", Error: fmt.Sprintf("must be between 0 and %d", len(entry.Periods)-1)})
	}

	periods := make([]string, 0, len(entry.Periods)-1)
	periods = append(periods, entry.Periods[:index]...)
	periods = append(periods, entry.Periods[index+1:]...)
	entry.Periods = periods
	r.draft[day] = entry
	return nil
}

// Save merge-writes only the given weekday, stamped with the editor and the server time.
// Two members saving the same weekday race; the last write wins for the whole entry.
// The draft is kept as-is when the write fails.
func (r *ScheduleRepository) Save(ctx context.Context, day models.Weekday, by models.Identity) error {
	if !day.Valid() {
		return invalidDay(day)
	}

	now := r.now().UTC()
	r.mu.Lock()
	periods := append([]string{}, r.draft.Periods(day)...)
	r.mu.Unlock()

	entry := models.DayEntry{Periods: periods, UpdatedBy: by.DisplayName, UpdatedAt: &now}
	version, err := r.store.MergeWrite(ctx, CollectionClasses, r.classID, nil, []SectionInput{
		{Section: sectionTimetable, Properties: map[string]interface{}{string(day): entry}},
	})
	if err != nil {
		return types.NewWriteError("timetable", err)
	}

	r.mu.Lock()
	r.draft[day] = models.DayEntry{Periods: periods, UpdatedBy: entry.UpdatedBy, UpdatedAt: entry.UpdatedAt}
	r.mu.Unlock()

	r.log.Info("timetable saved",
		zap.String("day", string(day)),
		zap.Int("periods", len(periods)),
		zap.Uint64("version", version))
	return nil
}

func invalidDay(day models.Weekday) error {
	return types.NewValidationError(fmt.Sprintf("unknown weekday %q", day),
		types.FieldError{Field: "day", Error: "must be one of 月 火 水 木 金"})
}
