// data_delete.go
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

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/types"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DeleteProperties deletes properties, or whole sections, from a document
func (s *GormStore) DeleteProperties(ctx context.Context, collection, id string, expectVersion *uint64, deletes []DeleteSectionInput) (uint64, error) {
	var newVersion uint64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock and check version
		doc, found, err := lockDocument(tx, collection, id)
		if err != nil {
			return err
		}
		if !found {
			return types.ErrNotFound
		}
		if err := checkVersion(doc, expectVersion); err != nil {
			return err
		}

		documentUpdated := false
		for _, del := range deletes {
			section, err := findSection(tx, doc.DocumentID, del.Section)
			if err != nil {
				return err
			}
			if section == nil {
				continue
			}

			if len(del.Properties) == 0 {
				// Remove the section and everything in it
				if err := tx.Where("section_id = ?", section.SectionID).Delete(&models.Property{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(section).Error; err != nil {
					return err
				}
				documentUpdated = true
				continue
			}

			result := tx.Where("section_id = ? AND property_name IN ?", section.SectionID, del.Properties).
				Delete(&models.Property{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				if err := bumpRevision(tx, section); err != nil {
					return err
				}
				documentUpdated = true
			}
		}

		newVersion = doc.DocumentVersion
		if documentUpdated {
			newVersion, err = bumpVersion(tx, doc)
		}
		return err
	})

	if err != nil {
		if errors.Is(err, types.ErrVersion) || errors.Is(err, types.ErrNotFound) {
			return 0, err
		}
		return 0, errors.Wrapf(err, "delete from %s/%s", collection, id)
	}

	return newVersion, nil
}
