// store_test.go
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
	"errors"
	"testing"

	"github.com/localnerve/classnote/internal/testutil"
	"github.com/localnerve/classnote/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	return NewGormStore(testutil.NewDB(t), zap.NewNop())
}

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (f failingStore) Get(context.Context, string, string) (*DocumentResult, error) {
	return nil, f.err
}

func (f failingStore) MergeWrite(context.Context, string, string, *uint64, []SectionInput) (uint64, error) {
	return 0, f.err
}

func (f failingStore) FullWrite(context.Context, string, string, *uint64, []SectionInput) (uint64, error) {
	return 0, f.err
}

func (f failingStore) DeleteProperties(context.Context, string, string, *uint64, []DeleteSectionInput) (uint64, error) {
	return 0, f.err
}

func props(t *testing.T, doc *DocumentResult, section string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for name, raw := range doc.Section(section) {
		var v string
		require.NoError(t, json.Unmarshal(raw, &v))
		out[name] = v
	}
	return out
}

func TestStoreGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), CollectionClasses, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStoreMergeWrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	v, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "profile", Properties: map[string]interface{}{"a": "1", "b": "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "profile", Properties: map[string]interface{}{"b": "3"}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	doc, err := s.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), doc.Version)
	assert.Equal(t, map[string]string{"a": "1", "b": "3"}, props(t, doc, "profile"))
}

func TestStoreUnchangedWriteKeepsVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	input := []SectionInput{{Section: "x", Properties: map[string]interface{}{"a": "1"}}}
	_, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, input)
	require.NoError(t, err)

	v, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, input)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestStoreFullWriteReplacesListedSections(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"a": "1", "b": "2"}},
		{Section: "items", Properties: map[string]interface{}{"c": "3"}},
	})
	require.NoError(t, err)

	_, err = s.FullWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"b": "20"}},
	})
	require.NoError(t, err)

	doc, err := s.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "20"}, props(t, doc, "homework"))
	assert.Equal(t, map[string]string{"c": "3"}, props(t, doc, "items"))
}

func TestStoreExpectVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	zero := uint64(0)

	v, err := s.MergeWrite(ctx, CollectionClasses, "3", &zero, []SectionInput{
		{Section: "x", Properties: map[string]interface{}{"a": "1"}},
	})
	require.NoError(t, err)

	_, err = s.FullWrite(ctx, CollectionClasses, "3", &zero, []SectionInput{
		{Section: "x", Properties: map[string]interface{}{"a": "2"}},
	})
	assert.ErrorIs(t, err, types.ErrVersion)

	v, err = s.FullWrite(ctx, CollectionClasses, "3", &v, []SectionInput{
		{Section: "x", Properties: map[string]interface{}{"a": "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
}

func TestStoreDeleteProperties(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.DeleteProperties(ctx, CollectionClasses, "3", nil, []DeleteSectionInput{{Section: "x"}})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "x", Properties: map[string]interface{}{"a": "1", "b": "2"}},
		{Section: "y", Properties: map[string]interface{}{"c": "3"}},
	})
	require.NoError(t, err)

	v, err := s.DeleteProperties(ctx, CollectionClasses, "3", nil, []DeleteSectionInput{
		{Section: "x", Properties: []string{"a", "nope"}},
		{Section: "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	doc, err := s.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, props(t, doc, "x"))
	assert.Empty(t, doc.Section("y"))
	assert.NotContains(t, doc.Sections, "y")

	v, err = s.DeleteProperties(ctx, CollectionClasses, "3", nil, []DeleteSectionInput{
		{Section: "x", Properties: []string{"nope"}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v, "nothing deleted, version unchanged")
}

func TestStoreSectionRevision(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"a": "1"}},
	})
	require.NoError(t, err)
	_, err = s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "timetable", Properties: map[string]interface{}{"月": "x"}},
	})
	require.NoError(t, err)

	doc, err := s.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), doc.Version)
	assert.Equal(t, uint64(1), doc.Revision("homework"), "other sections do not move the revision")
	assert.Equal(t, uint64(0), doc.Revision("items"))

	stale := uint64(0)
	_, err = s.FullWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"b": "2"}, ExpectRevision: &stale},
	})
	assert.ErrorIs(t, err, types.ErrVersion)

	current := doc.Revision("homework")
	_, err = s.FullWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"b": "2"}, ExpectRevision: &current},
	})
	require.NoError(t, err)

	_, err = s.DeleteProperties(ctx, CollectionClasses, "3", nil, []DeleteSectionInput{
		{Section: "homework", Properties: []string{"b"}},
	})
	require.NoError(t, err)

	doc, err = s.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), doc.Revision("homework"))
	assert.Empty(t, doc.Section("homework"))
}

func TestStoreMergeExistingOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"a": "1"}, ExistingOnly: true},
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	v, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"a": "1"}},
	})
	require.NoError(t, err)

	_, err = s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"b": "2"}, ExistingOnly: true},
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	got, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "homework", Properties: map[string]interface{}{"a": "10"}, ExistingOnly: true},
	})
	require.NoError(t, err)
	assert.Equal(t, v+1, got)

	doc, err := s.Get(ctx, CollectionClasses, "3")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "10"}, props(t, doc, "homework"))
}

func TestStoreWrapsDriverErrors(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.MergeWrite(ctx, CollectionClasses, "3", nil, []SectionInput{
		{Section: "x", Properties: map[string]interface{}{"a": "1"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
