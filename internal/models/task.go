// task.go
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
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TaskKind names a task map of the class document.
type TaskKind string

const (
	KindHomework TaskKind = "homework"
	KindItems    TaskKind = "items"
)

// TaskKinds lists the task maps in display order.
var TaskKinds = []TaskKind{KindHomework, KindItems}

// ParseTaskKind accepts "homework", "items" or "item".
func ParseTaskKind(s string) (TaskKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "homework":
		return KindHomework, true
	case "items", "item":
		return KindItems, true
	}
	return "", false
}

// Task is the kind-independent view of a homework or item entry.
type Task struct {
	ID        string    `json:"id"`
	Kind      TaskKind  `json:"kind"`
	Title     string    `json:"title"`
	Due       string    `json:"due,omitempty"`
	Done      bool      `json:"done"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskKey identifies a task independently of where it is displayed.
type TaskKey struct {
	Kind TaskKind `json:"kind"`
	ID   string   `json:"id"`
}

func (k TaskKey) String() string {
	return string(k.Kind) + "/" + k.ID
}

// Key returns the stable identity of the task.
func (t Task) Key() TaskKey {
	return TaskKey{Kind: t.Kind, ID: t.ID}
}

// HomeworkEntry is the stored shape of a homework map value.
type HomeworkEntry struct {
	Title     string    `json:"title"`
	DueDate   string    `json:"dueDate"`
	Done      bool      `json:"done"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemEntry is the stored shape of an items map value.
type ItemEntry struct {
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Done      bool      `json:"done"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record returns the value written to the class document for this task.
func (t Task) Record() interface{} {
	if t.Kind == KindItems {
		return ItemEntry{Name: t.Title, Date: t.Due, Done: t.Done, CreatedBy: t.CreatedBy, CreatedAt: t.CreatedAt}
	}
	return HomeworkEntry{Title: t.Title, DueDate: t.Due, Done: t.Done, CreatedBy: t.CreatedBy, CreatedAt: t.CreatedAt}
}

// DecodeTask reads a stored map value of the given kind.
func DecodeTask(kind TaskKind, id string, raw json.RawMessage) (Task, error) {
	switch kind {
	case KindHomework:
		var e HomeworkEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return Task{}, err
		}
		return Task{ID: id, Kind: kind, Title: e.Title, Due: e.DueDate, Done: e.Done, CreatedBy: e.CreatedBy, CreatedAt: e.CreatedAt}, nil
	case KindItems:
		var e ItemEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return Task{}, err
		}
		return Task{ID: id, Kind: kind, Title: e.Name, Due: e.Date, Done: e.Done, CreatedBy: e.CreatedBy, CreatedAt: e.CreatedAt}, nil
	}
	return Task{}, fmt.Errorf("unknown task kind %q", kind)
}

// HomeworkInput is the Edit screen form for a new homework entry.
type HomeworkInput struct {
	Title   string `json:"title" validate:"required,max=200"`
	DueDate string `json:"dueDate" validate:"max=64"`
}

// ItemInput is the Edit screen form for a new belongings entry.
type ItemInput struct {
	Name string `json:"name" validate:"required,max=200"`
	Date string `json:"date" validate:"max=64"`
}

// TaskInput is what TaskListRepository.Add accepts for either kind.
type TaskInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Due   string `json:"due" validate:"max=64"`
}

// Task converts the homework form.
func (in HomeworkInput) Task() TaskInput {
	return TaskInput{Title: strings.TrimSpace(in.Title), Due: strings.TrimSpace(in.DueDate)}
}

// Task converts the items form.
func (in ItemInput) Task() TaskInput {
	return TaskInput{Title: strings.TrimSpace(in.Name), Due: strings.TrimSpace(in.Date)}
}
