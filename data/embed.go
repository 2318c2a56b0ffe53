// embed.go
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
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed class_options.json
var classOptionsJSON []byte

// Option is one selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ClassOptions are the classes and departments offered on class selection.
type ClassOptions struct {
	Classes     []Option `json:"classes"`
	Departments []Option `json:"departments"`
}

// LoadClassOptions decodes the embedded class options.
func LoadClassOptions() (*ClassOptions, error) {
	var opts ClassOptions
	if err := json.Unmarshal(classOptionsJSON, &opts); err != nil {
		return nil, fmt.Errorf("decode class options: %w", err)
	}
	return &opts, nil
}

// HasClass reports whether value is an offered class.
func (o *ClassOptions) HasClass(value string) bool {
	return hasOption(o.Classes, value)
}

// HasDepartment reports whether value is an offered department code.
func (o *ClassOptions) HasDepartment(value string) bool {
	return hasOption(o.Departments, value)
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
