// profile.go
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

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// UserProfile maps an identity to its class assignment.
// It lives in the "users" collection, keyed by uid.
type UserProfile struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	ClassID     string `json:"classId,omitempty"`
	Subject     string `json:"subject,omitempty"`
}

// Complete reports whether both the class and the department are set.
func (p *UserProfile) Complete() bool {
	return p != nil && p.ClassID != "" && p.Subject != ""
}

// ProfilePatch is a field-merge update: nil fields are left untouched in the store.
type ProfilePatch struct {
	UID         string
	DisplayName *string
	Email       *string
	ClassID     *string
	Subject     *string
}

// Apply merges the patch into p, mirroring what the store does.
func (pp ProfilePatch) Apply(p UserProfile) UserProfile {
	p.UID = pp.UID
	if pp.DisplayName != nil {
		p.DisplayName = *pp.DisplayName
	}
	if pp.Email != nil {
		p.Email = *pp.Email
	}
	if pp.ClassID != nil {
		p.ClassID = *pp.ClassID
	}
	if pp.Subject != nil {
		p.Subject = *pp.Subject
	}
	return p
}

// ClassSelection is the input of the class selection screen.
type ClassSelection struct {
	ClassID string `json:"classId" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}
