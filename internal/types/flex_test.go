// flex_test.go
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

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexList(t *testing.T) {
	var body struct {
		Subject FlexList[string] `json:"subject"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"subject":"国語"}`), &body))
	assert.Equal(t, []string{"国語"}, body.Subject.Slice())

	body.Subject = nil
	require.NoError(t, json.Unmarshal([]byte(`{"subject":["国語"," 算数 ",""]}`), &body))
	assert.Equal(t, []string{"国語", "算数"}, Compact(body.Subject))

	body.Subject = nil
	require.NoError(t, json.Unmarshal([]byte(`{"subject":null}`), &body))
	assert.Empty(t, Compact(body.Subject))

	assert.Error(t, json.Unmarshal([]byte(`{"subject":{"a":1}}`), &body))
}

func TestFlexString(t *testing.T) {
	var body struct {
		ClassID FlexString `json:"classId"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"classId":3}`), &body))
	assert.Equal(t, "3", body.ClassID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"classId":"4"}`), &body))
	assert.Equal(t, "4", body.ClassID.String())
}

func TestErrorClassification(t *testing.T) {
	v := NewValidationError("bad", FieldError{Field: "title", Error: "required"})
	assert.True(t, IsValidation(v))
	assert.False(t, IsConflict(v))

	w := NewWriteError("save", v)
	assert.Contains(t, w.Error(), "save")
}

func TestConflictClassification(t *testing.T) {
	assert.True(t, IsConflict(NewWriteError("save", ErrVersion)))
	assert.False(t, IsConflict(NewWriteError("save", ErrNotFound)))
	assert.False(t, IsValidation(NewReadError("load", ErrNotFound)))
}
