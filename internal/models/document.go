// document.go
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

import (
	"time"
)

// Document is one addressable document in a collection such as "users" or "classes".
type Document struct {
	DocumentID      uint64 `gorm:"primaryKey;autoIncrement"`
	Collection      string `gorm:"size:64;not null;uniqueIndex:idx_document_key"`
	DocumentName    string `gorm:"size:255;not null;uniqueIndex:idx_document_key"`
	DocumentVersion uint64 `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Sections        []Section `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// Section is a named map of properties inside a document (timetable, homework, items, profile)
type Section struct {
	SectionID   uint64 `gorm:"primaryKey;autoIncrement"`
	DocumentID  uint64 `gorm:"not null;uniqueIndex:idx_section_key"`
	SectionName string `gorm:"size:255;not null;uniqueIndex:idx_section_key"`
	// Revision counts changes to this section only; DocumentVersion counts changes to any section.
	Revision   uint64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Properties []Property `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

// Property represents a single map entry with a JSON value
type Property struct {
	PropertyID    uint64 `gorm:"primaryKey;autoIncrement"`
	SectionID     uint64 `gorm:"not null;uniqueIndex:idx_property_key"`
	PropertyName  string `gorm:"size:255;not null;uniqueIndex:idx_property_key"`
	PropertyValue JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the table name for Document
func (Document) TableName() string {
	return "documents"
}

// TableName overrides the table name for Section
func (Section) TableName() string {
	return "document_sections"
}

// TableName overrides the table name for Property
func (Property) TableName() string {
	return "section_properties"
}

// All lists every model for migrations and schema tooling.
func All() []interface{} {
	return []interface{}{
		&Document{},
		&Section{},
		&Property{},
	}
}
