// overlay.go
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
	"math"
	"sync"

	"github.com/localnerve/classnote/internal/models"
)

// CompletionOverlay is the set of tasks checked off on Home during one view session.
// It is never persisted and has no effect on a task's stored done flag.
type CompletionOverlay struct {
	mu   sync.Mutex
	keys map[models.TaskKey]struct{}
}

// NewCompletionOverlay returns an empty overlay.
func NewCompletionOverlay() *CompletionOverlay {
	return &CompletionOverlay{keys: make(map[models.TaskKey]struct{})}
}

// Toggle flips membership of key and returns whether it is now checked.
func (o *CompletionOverlay) Toggle(key models.TaskKey) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.keys[key]; ok {
		delete(o.keys, key)
		return false
	}
	o.keys[key] = struct{}{}
	return true
}

// Has reports whether key is checked.
func (o *CompletionOverlay) Has(key models.TaskKey) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.keys[key]
	return ok
}

// Len is the number of checked keys, including ones no longer displayed.
func (o *CompletionOverlay) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.keys)
}

// Reset empties the overlay.
func (o *CompletionOverlay) Reset() {
	o.mu.Lock()
	o.keys = make(map[models.TaskKey]struct{})
	o.mu.Unlock()
}

// Progress counts the checked tasks among visible.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// Progress derives the completion ratio over the tasks currently shown.
func (o *CompletionOverlay) Progress(visible []models.Task) Progress {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := Progress{Total: len(visible)}
	for _, task := range visible {
		if _, ok := o.keys[task.Key()]; ok {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) * 100 / float64(p.Total)))
	}
	return p
}
