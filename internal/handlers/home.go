// home.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/classnote/internal/services"
	"github.com/localnerve/classnote/internal/session"
	"github.com/localnerve/classnote/internal/utils"
)

// HomeHandler handles the Home screen routes
type HomeHandler struct {
	Manager *session.Manager
}

// Home handles GET /api/home
// @Summary Home screen
// @Description Today's and tomorrow's periods, the rest of the week and the unfinished tasks
// @Tags Home
// @Produce json
// @Security CookieAuth
// @Success 200 {object} session.HomeView
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /home [get]
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "home")
	}

	view, err := s.Home(c.UserContext())
	if err != nil {
		return respondError(c, err, "home")
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// Toggle handles POST /api/tasks/:kind/:id/toggle
// @Summary Check or uncheck a task on Home
// @Description Flips the local checkmark. Nothing is written to the class document.
// @Tags Home
// @Produce json
// @Security CookieAuth
// @Param kind path string true "homework or items"
// @Param id path string true "Task ID"
// @Success 200 {object} handlers.toggleResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /tasks/{kind}/{id}/toggle [post]
func (h *HomeHandler) Toggle(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "toggle")
	}
	key, err := parseTaskKey(c)
	if err != nil {
		return respondError(c, err, "toggle")
	}

	checked, progress, err := s.Toggle(key)
	if err != nil {
		return respondError(c, err, "toggle")
	}
	return utils.SuccessResponse(c, toggleResult{Kind: string(key.Kind), ID: key.ID, Checked: checked, Progress: progress}, fiber.StatusOK)
}

type toggleResult struct {
	Kind     string            `json:"kind"`
	ID       string            `json:"id"`
	Checked  bool              `json:"checked"`
	Progress services.Progress `json:"progress"`
}
