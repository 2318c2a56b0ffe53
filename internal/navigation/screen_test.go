// screen_test.go
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

package navigation

import (
	"testing"

	"github.com/localnerve/classnote/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Screen
		event   Event
		want    Screen
		wantErr bool
	}{
		{"complete profile from login", Login, ProfileResolved{Complete: true}, Home, false},
		{"incomplete profile from login", Login, ProfileResolved{Complete: false}, ClassSelect, false},
		{"complete profile from class select stays", ClassSelect, ProfileResolved{Complete: true}, ClassSelect, false},
		{"profile resolved on home is rejected", Home, ProfileResolved{Complete: true}, Home, true},
		{"fetch failure from login", Login, ProfileFetchFailed{}, ClassSelect, false},
		{"fetch failure on edit is rejected", Edit, ProfileFetchFailed{}, Edit, true},
		{"class saved", ClassSelect, ClassSaved{}, Home, false},
		{"class saved from login is rejected", Login, ClassSaved{}, Login, true},
		{"home to edit", Home, Navigated{To: Edit}, Edit, false},
		{"edit to home", Edit, Navigated{To: Home}, Home, false},
		{"home to home is rejected", Home, Navigated{To: Home}, Home, true},
		{"class select to edit is rejected", ClassSelect, Navigated{To: Edit}, ClassSelect, true},
		{"login to home is rejected", Login, Navigated{To: Home}, Login, true},
		{"identity on edit keeps edit", Edit, IdentityAcquired{}, Edit, false},
		{"sign out from edit", Edit, SignedOut{}, Login, false},
		{"sign out from login", Login, SignedOut{}, Login, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerives(t *testing.T) {
	assert.True(t, Derives(Login))
	assert.True(t, Derives(ClassSelect))
	assert.False(t, Derives(Home))
	assert.False(t, Derives(Edit))
}

func TestTarget(t *testing.T) {
	assert.Equal(t, ClassSelect, Target(nil))
	assert.Equal(t, ClassSelect, Target(&models.UserProfile{ClassID: "3"}))
	assert.Equal(t, ClassSelect, Target(&models.UserProfile{Subject: "E"}))
	assert.Equal(t, Home, Target(&models.UserProfile{ClassID: "3", Subject: "E"}))
}

func TestScreenText(t *testing.T) {
	for _, s := range []Screen{Login, ClassSelect, Home, Edit} {
		b, err := s.MarshalText()
		require.NoError(t, err)

		var parsed Screen
		require.NoError(t, parsed.UnmarshalText(b))
		assert.Equal(t, s, parsed)
	}

	s, ok := ParseScreen("ClassSelect")
	assert.True(t, ok)
	assert.Equal(t, ClassSelect, s)

	_, ok = ParseScreen("settings")
	assert.False(t, ok)
}
