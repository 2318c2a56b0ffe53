// embed_test.go
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

package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClassOptions(t *testing.T) {
	opts, err := LoadClassOptions()
	require.NoError(t, err)

	assert.Len(t, opts.Classes, 6)
	assert.Len(t, opts.Departments, 7)

	assert.True(t, opts.HasClass("1"))
	assert.True(t, opts.HasClass("6"))
	assert.False(t, opts.HasClass("7"))

	assert.True(t, opts.HasDepartment("E"))
	assert.False(t, opts.HasDepartment("X"))
	assert.Equal(t, "デザイン工学科", opts.Departments[6].Label)
}
