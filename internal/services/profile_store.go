// profile_store.go
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

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const sectionProfile = "profile"

// ProfileStore reads and merge-writes user profiles in the "users" collection.
type ProfileStore struct {
	store DocumentStore
	log   *zap.Logger
}

// NewProfileStore creates a ProfileStore.
func NewProfileStore(store DocumentStore, log *zap.Logger) *ProfileStore {
	return &ProfileStore{store: store, log: log.Named("profiles")}
}

// Get returns the profile for uid, or nil when the user has never saved one.
// Transport failures are returned as a ReadError and are not retried.
func (p *ProfileStore) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	doc, err := p.store.Get(ctx, CollectionUsers, uid)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewReadError("profile", err)
	}

	section := doc.Section(sectionProfile)
	if len(section) == 0 {
		return nil, nil
	}

	profile := &models.UserProfile{UID: uid}
	fields := map[string]*string{
		"displayName": &profile.DisplayName,
		"email":       &profile.Email,
		"classId":     &profile.ClassID,
		"subject":     &profile.Subject,
	}
	for name, dst := range fields {
		raw, ok := section[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, types.NewReadError("profile", errors.Wrapf(err, "decode %s", name))
		}
	}

	return profile, nil
}

// Save merge-writes the fields present in patch; absent fields keep their stored value.
func (p *ProfileStore) Save(ctx context.Context, patch models.ProfilePatch) error {
	if patch.UID == "" {
		return types.NewValidationError("uid is required", types.FieldError{Field: "uid", Error: "this field is required"})
	}

	props := map[string]interface{}{"uid": patch.UID}
	set := func(name string, v *string) {
		if v != nil {
			props[name] = *v
		}
	}
	set("displayName", patch.DisplayName)
	set("email", patch.Email)
	set("classId", patch.ClassID)
	set("subject", patch.Subject)

	version, err := p.store.MergeWrite(ctx, CollectionUsers, patch.UID, nil, []SectionInput{
		{Section: sectionProfile, Properties: props},
	})
	if err != nil {
		return types.NewWriteError("profile", err)
	}

	p.log.Debug("profile saved", zap.String("uid", patch.UID), zap.Uint64("version", version))
	return nil
}
