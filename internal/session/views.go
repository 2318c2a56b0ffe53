// views.go
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

package session

import (
	"context"
	"time"

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/navigation"
	"github.com/localnerve/classnote/internal/services"
)

// TaskView is a task as listed on Home with its overlay checkmark.
type TaskView struct {
	models.Task
	Checked bool `json:"checked"`
}

// HomeView is everything the Home screen shows.
type HomeView struct {
	ClassID  string              `json:"classId"`
	Profile  *models.UserProfile `json:"profile,omitempty"`
	Week     services.WeeklyView `json:"week"`
	Homework []TaskView          `json:"homework"`
	Items    []TaskView          `json:"items"`
	Progress services.Progress   `json:"progress"`
}

// EditView is everything the Edit screen shows.
type EditView struct {
	ClassID   string             `json:"classId"`
	Timetable models.Timetable   `json:"timetable"`
	Homework  []models.Task      `json:"homework"`
	Items     []models.Task      `json:"items"`
	WriteMode services.WriteMode `json:"writeMode"`
}

func (s *Session) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// Home loads the class document and projects it for today.
func (s *Session) Home(ctx context.Context) (HomeView, error) {
	sc, err := s.enter(navigation.Home)
	if err != nil {
		return HomeView{}, err
	}

	var tt models.Timetable
	err = s.load(ctx, sc, func(ctx context.Context) error {
		var err error
		if tt, err = sc.schedule.Get(ctx); err != nil {
			return err
		}
		return sc.tasks.Load(ctx)
	})
	if err != nil {
		return HomeView{}, err
	}

	return s.homeView(sc, tt), nil
}

func (s *Session) homeView(sc screenScope, tt models.Timetable) HomeView {
	homework := sc.tasks.Unfinished(models.KindHomework)
	items := sc.tasks.Unfinished(models.KindItems)

	s.mu.Lock()
	overlay := s.overlay
	s.mu.Unlock()

	visible := append(append([]models.Task{}, homework...), items...)
	return HomeView{
		ClassID:  sc.classID,
		Profile:  s.nav.State().Profile,
		Week:     services.Project(tt, s.now()),
		Homework: checked(overlay, homework),
		Items:    checked(overlay, items),
		Progress: overlay.Progress(visible),
	}
}

func checked(overlay *services.CompletionOverlay, tasks []models.Task) []TaskView {
	out := make([]TaskView, len(tasks))
	for i, task := range tasks {
		out[i] = TaskView{Task: task, Checked: overlay.Has(task.Key())}
	}
	return out
}

// Edit loads the class document and starts a fresh timetable draft.
func (s *Session) Edit(ctx context.Context) (EditView, error) {
	sc, err := s.enter(navigation.Edit)
	if err != nil {
		return EditView{}, err
	}

	err = s.load(ctx, sc, func(ctx context.Context) error {
		if _, err := sc.schedule.Get(ctx); err != nil {
			return err
		}
		return sc.tasks.Load(ctx)
	})
	if err != nil {
		return EditView{}, err
	}

	return editView(sc), nil
}

func editView(sc screenScope) EditView {
	return EditView{
		ClassID:   sc.classID,
		Timetable: sc.schedule.Draft(),
		Homework:  sc.tasks.All(models.KindHomework),
		Items:     sc.tasks.All(models.KindItems),
		WriteMode: sc.tasks.Mode(),
	}
}

// Toggle flips the Home checkmark of a listed task and returns the new state
// with the recomputed progress.
func (s *Session) Toggle(key models.TaskKey) (bool, services.Progress, error) {
	sc, err := s.enter(navigation.Home)
	if err != nil {
		return false, services.Progress{}, err
	}

	visible := append(sc.tasks.Unfinished(models.KindHomework), sc.tasks.Unfinished(models.KindItems)...)
	listed := false
	for _, task := range visible {
		if task.Key() == key {
			listed = true
			break
		}
	}
	if !listed {
		return false, services.Progress{}, notListed(key)
	}

	s.mu.Lock()
	overlay := s.overlay
	s.mu.Unlock()

	on := overlay.Toggle(key)
	return on, overlay.Progress(visible), nil
}

// AddPeriod appends a subject to the draft of day.
func (s *Session) AddPeriod(day models.Weekday, subject string) (models.Timetable, error) {
	sc, err := s.enter(navigation.Edit)
	if err != nil {
		return nil, err
	}
	if err := sc.schedule.AddPeriod(day, subject); err != nil {
		return nil, err
	}
	return sc.schedule.Draft(), nil
}

// RemovePeriod drops a period from the draft of day.
func (s *Session) RemovePeriod(day models.Weekday, index int) (models.Timetable, error) {
	sc, err := s.enter(navigation.Edit)
	if err != nil {
		return nil, err
	}
	if err := sc.schedule.RemovePeriod(day, index); err != nil {
		return nil, err
	}
	return sc.schedule.Draft(), nil
}

// SaveDay persists the draft of day.
func (s *Session) SaveDay(ctx context.Context, day models.Weekday) (models.Timetable, error) {
	sc, err := s.enter(navigation.Edit)
	if err != nil {
		return nil, err
	}
	if err := sc.schedule.Save(ctx, day, s.identity()); err != nil {
		return nil, err
	}
	return sc.schedule.Draft(), nil
}

// AddTask adds a homework or items entry.
func (s *Session) AddTask(ctx context.Context, kind models.TaskKind, input models.TaskInput) (models.Task, error) {
	sc, err := s.enter(navigation.Edit)
	if err != nil {
		return models.Task{}, err
	}
	return sc.tasks.Add(ctx, kind, input, s.identity())
}

// SetDone writes the persisted done flag of an entry.
func (s *Session) SetDone(ctx context.Context, key models.TaskKey, done bool) (models.Task, error) {
	sc, err := s.enter(navigation.Edit)
	if err != nil {
		return models.Task{}, err
	}
	return sc.tasks.SetDone(ctx, key.Kind, key.ID, done)
}

// RemoveTask deletes an entry.
func (s *Session) RemoveTask(ctx context.Context, key models.TaskKey) error {
	sc, err := s.enter(navigation.Edit)
	if err != nil {
		return err
	}
	return sc.tasks.Remove(ctx, key.Kind, key.ID)
}
