// data_service.go
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
	"time"

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// Logical collections of the document store
const (
	CollectionUsers   = "users"
	CollectionClasses = "classes"
)

// DocumentResult is a document as read from the store.
// Sections maps a section name to its property values.
type DocumentResult struct {
	Collection string                                `json:"collection"`
	ID         string                                `json:"id"`
	Version    uint64                                `json:"version"`
	UpdatedAt  time.Time                             `json:"updatedAt"`
	Sections   map[string]map[string]json.RawMessage `json:"sections"`
	Revisions  map[string]uint64                     `json:"revisions"`
}

// Section returns the properties of one section, empty when absent.
func (d *DocumentResult) Section(name string) map[string]json.RawMessage {
	if d == nil || d.Sections[name] == nil {
		return map[string]json.RawMessage{}
	}
	return d.Sections[name]
}

// Revision returns the revision of one section, 0 when absent.
func (d *DocumentResult) Revision(name string) uint64 {
	if d == nil {
		return 0
	}
	return d.Revisions[name]
}

// SectionInput represents input for write operations.
// ExpectRevision fails the write with ErrVersion when the section revision differs (absent section = 0).
// ExistingOnly fails a merge with ErrNotFound when a listed property is not stored yet.
type SectionInput struct {
	Section        string                 `json:"section"`
	Properties     map[string]interface{} `json:"properties,omitempty"`
	ExpectRevision *uint64                `json:"-"`
	ExistingOnly   bool                   `json:"-"`
}

// DeleteSectionInput represents input for delete operations.
// An empty Properties list removes the whole section.
type DeleteSectionInput struct {
	Section    string   `json:"section"`
	Properties []string `json:"properties,omitempty"`
}

// DocumentStore is the remote document store the repositories are written against.
// A nil expectVersion skips the optimistic version check.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*DocumentResult, error)
	MergeWrite(ctx context.Context, collection, id string, expectVersion *uint64, sections []SectionInput) (uint64, error)
	FullWrite(ctx context.Context, collection, id string, expectVersion *uint64, sections []SectionInput) (uint64, error)
	DeleteProperties(ctx context.Context, collection, id string, expectVersion *uint64, deletes []DeleteSectionInput) (uint64, error)
}

// GormStore implements DocumentStore on a relational database.
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormStore creates a store on an already migrated database.
func NewGormStore(db *gorm.DB, log *zap.Logger) *GormStore {
	return &GormStore{db: db, log: log.Named("docstore")}
}

// quiet suppresses gorm's record-not-found logging for expected misses
func quiet(tx *gorm.DB) *gorm.DB {
	return tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})
}

// Get retrieves a document with all of its sections and properties
func (s *GormStore) Get(ctx context.Context, collection, id string) (*DocumentResult, error) {
	var doc models.Document
	err := quiet(s.db.WithContext(ctx)).
		Clauses(hints.Comment("select", "docstore:get")).
		Preload("Sections.Properties").
		Where("collection = ? AND document_name = ?", collection, id).
		First(&doc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %s/%s", collection, id)
	}

	return reduceDocument(doc), nil
}

// reduceDocument converts the models to the read format
func reduceDocument(doc models.Document) *DocumentResult {
	result := &DocumentResult{
		Collection: doc.Collection,
		ID:         doc.DocumentName,
		Version:    doc.DocumentVersion,
		UpdatedAt:  doc.UpdatedAt,
		Sections:   make(map[string]map[string]json.RawMessage, len(doc.Sections)),
		Revisions:  make(map[string]uint64, len(doc.Sections)),
	}

	for _, section := range doc.Sections {
		props := make(map[string]json.RawMessage, len(section.Properties))
		for _, prop := range section.Properties {
			props[prop.PropertyName] = prop.PropertyValue.Raw()
		}
		result.Sections[section.SectionName] = props
		result.Revisions[section.SectionName] = section.Revision
	}

	return result
}

// MergeWrite upserts the listed properties and leaves everything else untouched
func (s *GormStore) MergeWrite(ctx context.Context, collection, id string, expectVersion *uint64, sections []SectionInput) (uint64, error) {
	return s.write(ctx, collection, id, expectVersion, sections, false)
}

// FullWrite replaces every listed section wholesale. Unlisted sections are untouched.
func (s *GormStore) FullWrite(ctx context.Context, collection, id string, expectVersion *uint64, sections []SectionInput) (uint64, error) {
	return s.write(ctx, collection, id, expectVersion, sections, true)
}

func (s *GormStore) write(ctx context.Context, collection, id string, expectVersion *uint64, sections []SectionInput, replace bool) (uint64, error) {
	var newVersion uint64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock and check version
		doc, found, err := lockDocument(tx, collection, id)
		if err != nil {
			return err
		}
		if err := checkVersion(doc, expectVersion); err != nil {
			return err
		}

		documentUpdated := false
		if !found {
			doc = models.Document{Collection: collection, DocumentName: id}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
			documentUpdated = true
		}

		for _, input := range sections {
			changed, err := writeSection(tx, doc.DocumentID, input, replace)
			if err != nil {
				return err
			}
			documentUpdated = documentUpdated || changed
		}

		newVersion = doc.DocumentVersion
		if documentUpdated {
			newVersion, err = bumpVersion(tx, doc)
		}
		return err
	})

	if err != nil {
		if errors.Is(err, types.ErrVersion) {
			s.log.Debug("version conflict", zap.String("collection", collection), zap.String("id", id))
			return 0, err
		}
		return 0, errors.Wrapf(err, "write %s/%s", collection, id)
	}

	return newVersion, nil
}

// lockDocument reads the document row for update, found is false when it does not exist yet
func lockDocument(tx *gorm.DB, collection, id string) (models.Document, bool, error) {
	var doc models.Document
	err := quiet(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("collection = ? AND document_name = ?", collection, id).
		First(&doc).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Document{}, false, nil
	}
	return doc, err == nil, err
}

// checkVersion compares against the stored version, an absent document is version 0
func checkVersion(doc models.Document, expectVersion *uint64) error {
	if expectVersion != nil && doc.DocumentVersion != *expectVersion {
		return types.ErrVersion
	}
	return nil
}

// bumpVersion increments the document version guarded by the version that was read
func bumpVersion(tx *gorm.DB, doc models.Document) (uint64, error) {
	next := doc.DocumentVersion + 1
	result := tx.Model(&models.Document{}).
		Where("document_id = ? AND document_version = ?", doc.DocumentID, doc.DocumentVersion).
		Update("document_version", next)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, errors.Wrap(types.ErrVersion, "concurrent modification")
	}
	return next, nil
}

// findSection returns the named section of a document, nil when absent
func findSection(tx *gorm.DB, documentID uint64, name string) (*models.Section, error) {
	var section models.Section
	err := quiet(tx).
		Where("document_id = ? AND section_name = ?", documentID, name).
		First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// writeSection upserts the section properties, deleting unlisted ones when replace is set
func writeSection(tx *gorm.DB, documentID uint64, input SectionInput, replace bool) (bool, error) {
	changed := false

	section, err := findSection(tx, documentID, input.Section)
	if err != nil {
		return false, err
	}
	if err := checkRevision(section, input.ExpectRevision); err != nil {
		return false, err
	}
	if input.ExistingOnly && section == nil {
		return false, errors.Wrapf(types.ErrNotFound, "section %s", input.Section)
	}
	if section == nil {
		section = &models.Section{DocumentID: documentID, SectionName: input.Section}
		if err := tx.Create(section).Error; err != nil {
			return false, err
		}
		changed = true
	}

	var existing []models.Property
	if err := tx.Where("section_id = ?", section.SectionID).Find(&existing).Error; err != nil {
		return false, err
	}
	byName := make(map[string]models.Property, len(existing))
	for _, prop := range existing {
		byName[prop.PropertyName] = prop
	}

	if input.ExistingOnly {
		for propName := range input.Properties {
			if _, ok := byName[propName]; !ok {
				return false, errors.Wrapf(types.ErrNotFound, "%s.%s", input.Section, propName)
			}
		}
	}

	for propName, propValue := range input.Properties {
		value, err := models.NewJSON(propValue)
		if err != nil {
			return false, errors.Wrapf(err, "encode %s.%s", input.Section, propName)
		}

		prop, ok := byName[propName]
		if !ok {
			prop = models.Property{
				SectionID:     section.SectionID,
				PropertyName:  propName,
				PropertyValue: value,
			}
			if err := tx.Create(&prop).Error; err != nil {
				return false, err
			}
			changed = true
			continue
		}

		if !prop.PropertyValue.Equal(value) {
			if err := tx.Model(&models.Property{}).
				Where("property_id = ?", prop.PropertyID).
				Update("property_value", value).Error; err != nil {
				return false, err
			}
			changed = true
		}
	}

	if replace {
		var stale []uint64
		for name, prop := range byName {
			if _, keep := input.Properties[name]; !keep {
				stale = append(stale, prop.PropertyID)
			}
		}
		if len(stale) > 0 {
			if err := tx.Where("property_id IN ?", stale).Delete(&models.Property{}).Error; err != nil {
				return false, err
			}
			changed = true
		}
	}

	if changed {
		if err := bumpRevision(tx, section); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// checkRevision compares against the stored section revision, an absent section is revision 0
func checkRevision(section *models.Section, expectRevision *uint64) error {
	if expectRevision == nil {
		return nil
	}
	var current uint64
	if section != nil {
		current = section.Revision
	}
	if current != *expectRevision {
		return types.ErrVersion
	}
	return nil
}

// bumpRevision increments a section revision; callers hold the document row lock
func bumpRevision(tx *gorm.DB, section *models.Section) error {
	section.Revision++
	return tx.Model(&models.Section{}).
		Where("section_id = ?", section.SectionID).
		Update("revision", section.Revision).Error
}
