// common.go
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

package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/classnote/internal/middleware"
	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/navigation"
	"github.com/localnerve/classnote/internal/session"
	"github.com/localnerve/classnote/internal/types"
	"github.com/localnerve/classnote/internal/utils"
	"go.uber.org/zap"
)

// currentSession returns the live session of the authenticated user
func currentSession(c *fiber.Ctx, m *session.Manager) (*session.Session, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return nil, &types.CustomError{Code: fiber.StatusForbidden, Message: "Not authenticated", Type: "data.authorization.user"}
	}
	s, ok := m.Get(id.UID)
	if !ok {
		return nil, &types.CustomError{Code: fiber.StatusUnauthorized, Message: "No session, sign in first", Type: "session.missing"}
	}
	return s, nil
}

// respondError maps the error taxonomy onto HTTP responses
func respondError(c *fiber.Ctx, err error, op string) error {
	var (
		ce *types.CustomError
		ve *types.ValidationError
		re *types.ReadError
	)

	switch {
	case errors.As(err, &ce):
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	case errors.As(err, &ve):
		return utils.ValidationErrorResponse(c, ve, op+".validation")
	case types.IsConflict(err):
		return utils.VersionErrorResponse(c)
	case errors.Is(err, types.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, session.ErrStaleScreen):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "screen.stale")
	case errors.Is(err, session.ErrWrongScreen), errors.Is(err, navigation.ErrInvalidTransition):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "screen.state")
	case errors.Is(err, session.ErrNoClass):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "class.missing")
	case errors.As(err, &re):
		middleware.Logger(c).Warn("read failed", zap.String("op", op), zap.Error(err))
		return utils.ErrorResponse(c, err.Error(), fiber.StatusServiceUnavailable, op+".read")
	}

	middleware.Logger(c).Error("request failed", zap.String("op", op), zap.Error(err))
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}

// parseDay reads the :day path parameter as a weekday token or English day name
func parseDay(c *fiber.Ctx) (models.Weekday, error) {
	raw := c.Params("day")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	day, ok := models.ParseWeekday(raw)
	if !ok {
		return "", types.NewValidationError("unknown weekday", types.FieldError{Field: "day", Error: "must be one of 月 火 水 木 金"})
	}
	return day, nil
}

// parseTaskKey reads the :kind and :id path parameters
func parseTaskKey(c *fiber.Ctx) (models.TaskKey, error) {
	kind, ok := models.ParseTaskKind(c.Params("kind"))
	if !ok {
		return models.TaskKey{}, types.NewValidationError("unknown task kind", types.FieldError{Field: "kind", Error: "must be homework or items"})
	}
	id := c.Params("id")
	if id == "" {
		return models.TaskKey{}, types.NewValidationError("missing task id", types.FieldError{Field: "id", Error: "this field is required"})
	}
	return models.TaskKey{Kind: kind, ID: id}, nil
}

// parseIndex reads the :index path parameter
func parseIndex(c *fiber.Ctx) (int, error) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return 0, types.NewValidationError("invalid period index", types.FieldError{Field: "index", Error: "must be a number"})
	}
	return index, nil
}

func invalidInput() error {
	return types.NewValidationError("Invalid input")
}
