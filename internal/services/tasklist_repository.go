// tasklist_repository.go
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
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/types"
	"github.com/localnerve/classnote/internal/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// WriteMode selects how TaskListRepository persists a change to a task map.
type WriteMode string

const (
	// WriteModeMerge writes only the changed entry. Concurrent adds never clobber each other.
	WriteModeMerge WriteMode = "merge"
	// WriteModeOverwrite writes the whole map as it was last read plus the change.
	// A concurrent writer working from the same read loses its change (last write wins).
	WriteModeOverwrite WriteMode = "overwrite"
	// WriteModeVersioned is WriteModeOverwrite guarded by the section revision of the last read.
	// A stale writer gets a conflict WriteError instead of clobbering.
	WriteModeVersioned WriteMode = "versioned"
)

// TaskListOptions configures a TaskListRepository. Zero values select the defaults.
type TaskListOptions struct {
	Mode  WriteMode
	NewID func() string
	Now   func() time.Time
}

// TaskListRepository keeps the homework and items maps of one class in memory
// and writes changes back according to its WriteMode.
type TaskListRepository struct {
	store   DocumentStore
	classID string
	mode    WriteMode
	newID   func() string
	now     func() time.Time
	log     *zap.Logger

	mu        sync.Mutex
	loaded    bool
	revisions map[models.TaskKind]uint64
	snapshot  map[models.TaskKind]map[string]models.Task
}

// NewTaskListRepository creates a repository bound to classID.
func NewTaskListRepository(store DocumentStore, classID string, opts TaskListOptions, log *zap.Logger) *TaskListRepository {
	if opts.Mode == "" {
		opts.Mode = WriteModeMerge
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TaskListRepository{
		store:    store,
		classID:  classID,
		mode:     opts.Mode,
		newID:    opts.NewID,
		now:      opts.Now,
		log:       log.Named("tasklist").With(zap.String("classId", classID)),
		revisions: map[models.TaskKind]uint64{},
		snapshot:  emptySnapshot(),
	}
}

func emptySnapshot() map[models.TaskKind]map[string]models.Task {
	return map[models.TaskKind]map[string]models.Task{
		models.KindHomework: {},
		models.KindItems:    {},
	}
}

// Mode returns the configured write mode.
func (r *TaskListRepository) Mode() WriteMode {
	return r.mode
}

// Get reads the class document, refreshes the in-memory maps and returns the map of kind.
func (r *TaskListRepository) Get(ctx context.Context, kind models.TaskKind) (map[string]models.Task, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	if err := r.Load(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return copyTasks(r.snapshot[kind]), nil
}

// Load refreshes both task maps from the store.
func (r *TaskListRepository) Load(ctx context.Context) error {
	snapshot := emptySnapshot()
	revisions := map[models.TaskKind]uint64{}

	doc, err := r.store.Get(ctx, CollectionClasses, r.classID)
	switch {
	case errors.Is(err, types.ErrNotFound):
	case err != nil:
		return types.NewReadError("tasks", err)
	default:
		for _, kind := range models.TaskKinds {
			revisions[kind] = doc.Revision(string(kind))
			for id, raw := range doc.Section(string(kind)) {
				task, err := models.DecodeTask(kind, id, raw)
				if err != nil {
					return types.NewReadError("tasks", errors.Wrapf(err, "decode %s/%s", kind, id))
				}
				snapshot[kind][id] = task
			}
		}
	}

	r.mu.Lock()
	r.snapshot = snapshot
	r.revisions = revisions
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Unfinished returns the entries whose persisted done flag is false, oldest first.
func (r *TaskListRepository) Unfinished(kind models.TaskKind) []models.Task {
	return r.list(kind, func(t models.Task) bool { return !t.Done })
}

// All returns every entry of kind including finished ones, oldest first.
func (r *TaskListRepository) All(kind models.TaskKind) []models.Task {
	return r.list(kind, func(models.Task) bool { return true })
}

func (r *TaskListRepository) list(kind models.TaskKind, keep func(models.Task) bool) []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Task, 0, len(r.snapshot[kind]))
	for _, task := range r.snapshot[kind] {
		if keep(task) {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Add validates input, assigns a fresh id and writes the new entry with done=false.
// The in-memory map only changes after the store confirmed the write.
func (r *TaskListRepository) Add(ctx context.Context, kind models.TaskKind, input models.TaskInput, by models.Identity) (models.Task, error) {
	if err := validKind(kind); err != nil {
		return models.Task{}, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Due = strings.TrimSpace(input.Due)
	if err := utils.ValidateStruct(input); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:        r.newID(),
		Kind:      kind,
		Title:     input.Title,
		Due:       input.Due,
		CreatedBy: by.DisplayName,
		CreatedAt: r.now().UTC(),
	}

	if err := r.apply(ctx, kind, &task, ""); err != nil {
		return models.Task{}, err
	}

	r.log.Info("task added", zap.String("kind", string(kind)), zap.String("id", task.ID))
	return task, nil
}

// SetDone persists the done flag of an entry. This is the stored completion state and is
// unrelated to the CompletionOverlay checkmarks shown on Home.
func (r *TaskListRepository) SetDone(ctx context.Context, kind models.TaskKind, id string, done bool) (models.Task, error) {
	if err := validKind(kind); err != nil {
		return models.Task{}, err
	}

	r.mu.Lock()
	task, ok := r.snapshot[kind][id]
	r.mu.Unlock()
	if !ok {
		return models.Task{}, errors.Wrapf(types.ErrNotFound, "%s/%s", kind, id)
	}

	task.Done = done
	if err := r.apply(ctx, kind, &task, ""); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			r.forget(kind, id)
		}
		return models.Task{}, err
	}
	return task, nil
}

// Remove deletes an entry.
func (r *TaskListRepository) Remove(ctx context.Context, kind models.TaskKind, id string) error {
	if err := validKind(kind); err != nil {
		return err
	}

	r.mu.Lock()
	_, ok := r.snapshot[kind][id]
	r.mu.Unlock()
	if !ok {
		return errors.Wrapf(types.ErrNotFound, "%s/%s", kind, id)
	}

	return r.apply(ctx, kind, nil, id)
}

// forget drops an entry the store no longer has
func (r *TaskListRepository) forget(kind models.TaskKind, id string) {
	r.mu.Lock()
	delete(r.snapshot[kind], id)
	r.mu.Unlock()
}

// apply persists one upsert or one removal of kind and then updates the in-memory map.
// Versioned writes are checked against the revision of the kind's section, so writes to
// other sections of the class document (the timetable) never conflict with them.
func (r *TaskListRepository) apply(ctx context.Context, kind models.TaskKind, upsert *models.Task, removeID string) error {
	if r.mode != WriteModeMerge {
		r.mu.Lock()
		loaded := r.loaded
		r.mu.Unlock()
		if !loaded {
			if err := r.Load(ctx); err != nil {
				return err
			}
		}
	}

	r.mu.Lock()
	base := copyTasks(r.snapshot[kind])
	revision := r.revisions[kind]
	r.mu.Unlock()

	if r.mode != WriteModeMerge && unchanged(base, upsert, removeID) {
		return nil
	}

	next := copyTasks(base)
	if upsert != nil {
		next[upsert.ID] = *upsert
	}
	if removeID != "" {
		delete(next, removeID)
	}

	var err error
	switch r.mode {
	case WriteModeOverwrite, WriteModeVersioned:
		props := make(map[string]interface{}, len(next))
		for id, task := range next {
			props[id] = task.Record()
		}
		input := SectionInput{Section: string(kind), Properties: props}
		if r.mode == WriteModeVersioned {
			input.ExpectRevision = &revision
		}
		_, err = r.store.FullWrite(ctx, CollectionClasses, r.classID, nil, []SectionInput{input})

	default:
		if upsert != nil {
			// Updating an entry that another member removed must not bring it back
			_, existed := base[upsert.ID]
			_, err = r.store.MergeWrite(ctx, CollectionClasses, r.classID, nil, []SectionInput{{
				Section:      string(kind),
				Properties:   map[string]interface{}{upsert.ID: upsert.Record()},
				ExistingOnly: existed,
			}})
		} else {
			_, err = r.store.DeleteProperties(ctx, CollectionClasses, r.classID, nil, []DeleteSectionInput{
				{Section: string(kind), Properties: []string{removeID}},
			})
		}
	}
	if err != nil {
		if types.IsConflict(err) {
			r.log.Warn("stale task list write rejected", zap.String("kind", string(kind)), zap.Uint64("revision", revision))
		}
		return types.NewWriteError(string(kind), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == WriteModeMerge {
		// Only our change is known; other writers show up on the next Load.
		if upsert != nil {
			r.snapshot[kind][upsert.ID] = *upsert
		} else {
			delete(r.snapshot[kind], removeID)
		}
	} else {
		r.snapshot[kind] = next
	}
	if r.mode == WriteModeVersioned {
		// next differs from base, so the write bumped the section exactly once
		r.revisions[kind] = revision + 1
	}
	return nil
}

// unchanged reports whether applying the upsert or removal to base is a no-op
func unchanged(base map[string]models.Task, upsert *models.Task, removeID string) bool {
	if upsert != nil {
		current, ok := base[upsert.ID]
		return ok && current.Title == upsert.Title && current.Due == upsert.Due &&
			current.Done == upsert.Done && current.CreatedBy == upsert.CreatedBy &&
			current.CreatedAt.Equal(upsert.CreatedAt)
	}
	_, ok := base[removeID]
	return !ok
}

func copyTasks(in map[string]models.Task) map[string]models.Task {
	out := make(map[string]models.Task, len(in))
	for id, task := range in {
		out[id] = task
	}
	return out
}

func validKind(kind models.TaskKind) error {
	if kind == models.KindHomework || kind == models.KindItems {
		return nil
	}
	return types.NewValidationError(fmt.Sprintf("unknown task kind %q", kind),
		types.FieldError{Field: "kind", Error: "must be homework or items"})
}
