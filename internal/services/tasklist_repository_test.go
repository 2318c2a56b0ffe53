// tasklist_repository_test.go
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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTasks(store DocumentStore, mode WriteMode) *TaskListRepository {
	return NewTaskListRepository(store, "3", TaskListOptions{Mode: mode, Now: clock}, zap.NewNop())
}

func titles(tasks map[string]models.Task) []string {
	out := []string{}
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

var bob = models.Identity{UID: "u2", DisplayName: "Bob"}

func TestTaskListAddAndGet(t *testing.T) {
	ctx := context.Background()
	r := newTasks(newTestStore(t), WriteModeMerge)

	task, err := r.Add(ctx, models.KindHomework, models.TaskInput{Title: " 漢字ドリル ", Due: "9/30"}, bob)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "漢字ドリル", task.Title)
	assert.False(t, task.Done)
	assert.Equal(t, "Bob", task.CreatedBy)

	got, err := newTasks(r.store, WriteModeMerge).Get(ctx, models.KindHomework)
	require.NoError(t, err)
	require.Contains(t, got, task.ID)
	assert.Equal(t, "9/30", got[task.ID].Due)

	items, err := r.Get(ctx, models.KindItems)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTaskListAddValidation(t *testing.T) {
	r := newTasks(failingStore{err: errors.New("must not be called")}, WriteModeMerge)

	_, err := r.Add(context.Background(), models.KindItems, models.TaskInput{Title: "  "}, bob)
	assert.True(t, types.IsValidation(err))

	_, err = r.Add(context.Background(), models.TaskKind("notes"), models.TaskInput{Title: "x"}, bob)
	assert.True(t, types.IsValidation(err))
}

func TestTaskListUniqueIDs(t *testing.T) {
	ctx := context.Background()
	r := newTasks(newTestStore(t), WriteModeMerge)

	for i := 0; i < 20; i++ {
		_, err := r.Add(ctx, models.KindItems, models.TaskInput{Title: fmt.Sprintf("item %d", i)}, bob)
		require.NoError(t, err)
	}
	got, err := r.Get(ctx, models.KindItems)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

// Two writers add from the same read. In overwrite mode the first addition is lost.
func TestTaskListOverwriteLosesConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a := newTasks(store, WriteModeOverwrite)
	b := newTasks(store, WriteModeOverwrite)

	_, err := a.Get(ctx, models.KindHomework)
	require.NoError(t, err)
	_, err = b.Get(ctx, models.KindHomework)
	require.NoError(t, err)

	_, err = a.Add(ctx, models.KindHomework, models.TaskInput{Title: "first"}, bob)
	require.NoError(t, err)
	_, err = b.Add(ctx, models.KindHomework, models.TaskInput{Title: "second"}, bob)
	require.NoError(t, err)

	got, err := newTasks(store, WriteModeOverwrite).Get(ctx, models.KindHomework)
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, titles(got))
}

func TestTaskListMergeKeepsConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a := newTasks(store, WriteModeMerge)
	b := newTasks(store, WriteModeMerge)

	_, err := a.Get(ctx, models.KindHomework)
	require.NoError(t, err)
	_, err = b.Get(ctx, models.KindHomework)
	require.NoError(t, err)

	_, err = a.Add(ctx, models.KindHomework, models.TaskInput{Title: "first"}, bob)
	require.NoError(t, err)
	_, err = b.Add(ctx, models.KindHomework, models.TaskInput{Title: "second"}, bob)
	require.NoError(t, err)

	got, err := newTasks(store, WriteModeMerge).Get(ctx, models.KindHomework)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first", "second"}, titles(got))
}

func TestTaskListVersionedDetectsConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a := newTasks(store, WriteModeVersioned)
	b := newTasks(store, WriteModeVersioned)

	_, err := a.Get(ctx, models.KindHomework)
	require.NoError(t, err)
	_, err = b.Get(ctx, models.KindHomework)
	require.NoError(t, err)

	_, err = a.Add(ctx, models.KindHomework, models.TaskInput{Title: "first"}, bob)
	require.NoError(t, err)

	_, err = b.Add(ctx, models.KindHomework, models.TaskInput{Title: "second"}, bob)
	var we *types.WriteError
	require.ErrorAs(t, err, &we)
	assert.True(t, we.Conflict)
	assert.Empty(t, b.All(models.KindHomework), "snapshot unchanged after a failed write")

	// After a refresh the retry succeeds and keeps both entries
	_, err = b.Get(ctx, models.KindHomework)
	require.NoError(t, err)
	_, err = b.Add(ctx, models.KindHomework, models.TaskInput{Title: "second"}, bob)
	require.NoError(t, err)

	got, err := a.Get(ctx, models.KindHomework)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first", "second"}, titles(got))
}

func TestTaskListVersionedIgnoresTimetableSaves(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	sched := NewScheduleRepository(store, "3", clock, zap.NewNop())
	tasks := newTasks(store, WriteModeVersioned)

	first, err := tasks.Add(ctx, models.KindHomework, models.TaskInput{Title: "first"}, bob)
	require.NoError(t, err)

	require.NoError(t, sched.AddPeriod(models.Monday, "国語"))
	require.NoError(t, sched.Save(ctx, models.Monday, bob))

	second, err := tasks.Add(ctx, models.KindHomework, models.TaskInput{Title: "second"}, bob)
	require.NoError(t, err)

	require.NoError(t, sched.Save(ctx, models.Monday, bob))
	_, err = tasks.SetDone(ctx, models.KindHomework, first.ID, true)
	require.NoError(t, err)

	require.NoError(t, sched.AddPeriod(models.Tuesday, "算数"))
	require.NoError(t, sched.Save(ctx, models.Tuesday, bob))
	require.NoError(t, tasks.Remove(ctx, models.KindHomework, second.ID))

	got, err := newTasks(store, WriteModeVersioned).Get(ctx, models.KindHomework)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[first.ID].Done)

	tt, err := sched.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"国語"}, tt.Periods(models.Monday))
}

func TestTaskListVersionedUnchangedSkipsWrite(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	r := newTasks(store, WriteModeVersioned)

	task, err := r.Add(ctx, models.KindItems, models.TaskInput{Title: "絵の具"}, bob)
	require.NoError(t, err)
	before, err := store.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)

	_, err = r.SetDone(ctx, models.KindItems, task.ID, false)
	require.NoError(t, err)

	after, err := store.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)

	// The predicted revision still matches the store
	_, err = r.SetDone(ctx, models.KindItems, task.ID, true)
	require.NoError(t, err)
}

func TestTaskListSetDoneAfterConcurrentRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a := newTasks(store, WriteModeMerge)
	b := newTasks(store, WriteModeMerge)

	task, err := a.Add(ctx, models.KindHomework, models.TaskInput{Title: "漢字"}, bob)
	require.NoError(t, err)
	_, err = b.Get(ctx, models.KindHomework)
	require.NoError(t, err)

	require.NoError(t, a.Remove(ctx, models.KindHomework, task.ID))

	_, err = b.SetDone(ctx, models.KindHomework, task.ID, true)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.False(t, types.IsConflict(err))
	assert.Empty(t, b.All(models.KindHomework), "stale entry dropped from the snapshot")

	got, err := newTasks(store, WriteModeMerge).Get(ctx, models.KindHomework)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTaskListUnfinishedAndSetDone(t *testing.T) {
	ctx := context.Background()
	n := 0
	r := NewTaskListRepository(newTestStore(t), "3", TaskListOptions{
		Now: func() time.Time {
			n++
			return fixedNow.Add(time.Duration(n) * time.Minute)
		},
	}, zap.NewNop())

	first, err := r.Add(ctx, models.KindHomework, models.TaskInput{Title: "first"}, bob)
	require.NoError(t, err)
	second, err := r.Add(ctx, models.KindHomework, models.TaskInput{Title: "second"}, bob)
	require.NoError(t, err)

	unfinished := r.Unfinished(models.KindHomework)
	require.Len(t, unfinished, 2)
	assert.Equal(t, first.ID, unfinished[0].ID)
	assert.Equal(t, second.ID, unfinished[1].ID)

	done, err := r.SetDone(ctx, models.KindHomework, first.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Done)

	require.NoError(t, r.Load(ctx))
	unfinished = r.Unfinished(models.KindHomework)
	require.Len(t, unfinished, 1)
	assert.Equal(t, second.ID, unfinished[0].ID)
	assert.Len(t, r.All(models.KindHomework), 2)

	_, err = r.SetDone(ctx, models.KindHomework, "missing", true)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestTaskListRemove(t *testing.T) {
	for _, mode := range []WriteMode{WriteModeMerge, WriteModeOverwrite, WriteModeVersioned} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			r := newTasks(newTestStore(t), mode)

			keep, err := r.Add(ctx, models.KindItems, models.TaskInput{Title: "絵の具"}, bob)
			require.NoError(t, err)
			drop, err := r.Add(ctx, models.KindItems, models.TaskInput{Title: "体操服"}, bob)
			require.NoError(t, err)

			require.NoError(t, r.Remove(ctx, models.KindItems, drop.ID))

			got, err := newTasks(r.store, mode).Get(ctx, models.KindItems)
			require.NoError(t, err)
			assert.Len(t, got, 1)
			assert.Contains(t, got, keep.ID)

			assert.ErrorIs(t, r.Remove(ctx, models.KindItems, drop.ID), types.ErrNotFound)
		})
	}
}

func TestTaskListReadError(t *testing.T) {
	r := newTasks(failingStore{err: errors.New("offline")}, WriteModeMerge)
	_, err := r.Get(context.Background(), models.KindHomework)
	var re *types.ReadError
	assert.ErrorAs(t, err, &re)
}
