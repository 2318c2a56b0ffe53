// screen.go
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
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/classnote/internal/models"
)

// Screen is the top-level view a session is on.
type Screen int

const (
	Login Screen = iota
	ClassSelect
	Home
	Edit
)

var screenNames = [...]string{"login", "class", "home", "edit"}

func (s Screen) String() string {
	if s < Login || s > Edit {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

// MarshalText encodes the screen by name.
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by String.
func (s *Screen) UnmarshalText(b []byte) error {
	parsed, ok := ParseScreen(string(b))
	if !ok {
		return fmt.Errorf("unknown screen %q", string(b))
	}
	*s = parsed
	return nil
}

// ParseScreen accepts a screen name, case-insensitively. "classselect" is an alias of "class".
func ParseScreen(name string) (Screen, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "classselect" {
		return ClassSelect, true
	}
	for i, n := range screenNames {
		if n == name {
			return Screen(i), true
		}
	}
	return Login, false
}

// Event is an input of the navigation state machine.
type Event interface {
	event()
}

// IdentityAcquired reports a signed-in identity.
type IdentityAcquired struct{}

// ProfileResolved carries the outcome of a profile fetch.
type ProfileResolved struct {
	Complete bool
}

// ProfileFetchFailed reports a failed profile fetch.
type ProfileFetchFailed struct{}

// ClassSaved reports a confirmed profile write with both class and department.
type ClassSaved struct{}

// Navigated is an explicit request to move to another screen.
type Navigated struct {
	To Screen
}

// SignedOut reports the end of the identity session.
type SignedOut struct{}

func (IdentityAcquired) event()   {}
func (ProfileResolved) event()    {}
func (ProfileFetchFailed) event() {}
func (ClassSaved) event()         {}
func (Navigated) event()          {}
func (SignedOut) event()          {}

// ErrInvalidTransition is returned for an event the current screen does not accept.
var ErrInvalidTransition = errors.New("invalid transition")

func invalid(from Screen, ev Event) error {
	return fmt.Errorf("%w: %T on %s", ErrInvalidTransition, ev, from)
}

// Transition returns the screen that follows from on ev.
func Transition(from Screen, ev Event) (Screen, error) {
	switch e := ev.(type) {
	case SignedOut:
		return Login, nil

	case IdentityAcquired:
		return from, nil

	case ProfileResolved:
		switch from {
		case Login:
			if e.Complete {
				return Home, nil
			}
			return ClassSelect, nil
		case ClassSelect:
			return ClassSelect, nil
		}

	case ProfileFetchFailed:
		if from == Login || from == ClassSelect {
			return ClassSelect, nil
		}

	case ClassSaved:
		if from == ClassSelect {
			return Home, nil
		}

	case Navigated:
		if (from == Home && e.To == Edit) || (from == Edit && e.To == Home) {
			return e.To, nil
		}
	}
	return from, invalid(from, ev)
}

// Derives reports whether an identity-acquired event on s starts a profile derivation.
// Home and Edit keep the user's screen.
func Derives(s Screen) bool {
	return s == Login || s == ClassSelect
}

// Target is the screen a profile leads to after sign-in.
func Target(profile *models.UserProfile) Screen {
	if profile.Complete() {
		return Home
	}
	return ClassSelect
}
