// error.go
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
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by the document store for a missing document.
	ErrNotFound = errors.New("not found")
	// ErrVersion is returned when an expected document version does not match the stored one.
	ErrVersion = errors.New("E_VERSION")
)

// CustomError carries an HTTP status for errors raised by middleware.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// ReadError is a failed fetch of a profile or class document.
type ReadError struct {
	Op  string
	Err error
}

func NewReadError(op string, err error) error {
	return &ReadError{Op: op, Err: err}
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: read failed: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is a failed save. Conflict is set when the store rejected a stale version.
type WriteError struct {
	Op       string
	Err      error
	Conflict bool
}

func NewWriteError(op string, err error) error {
	return &WriteError{Op: op, Err: err, Conflict: errors.Is(err, ErrVersion)}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: write failed: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError rejects an intent before any store call is made.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(msg string, fields ...FieldError) error {
	return &ValidationError{Err: errors.New(msg), Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a version conflict.
func IsConflict(err error) bool {
	var we *WriteError
	if errors.As(err, &we) && we.Conflict {
		return true
	}
	return errors.Is(err, ErrVersion)
}
