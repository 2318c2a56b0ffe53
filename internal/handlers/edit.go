// edit.go
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
	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/session"
	"github.com/localnerve/classnote/internal/types"
	"github.com/localnerve/classnote/internal/utils"
)

// EditHandler handles the Edit screen routes
type EditHandler struct {
	Manager *session.Manager
}

// Edit handles GET /api/edit
// @Summary Edit screen
// @Description Loads the class document and starts a fresh timetable draft
// @Tags Edit
// @Produce json
// @Security CookieAuth
// @Success 200 {object} session.EditView
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /edit [get]
func (h *EditHandler) Edit(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "edit")
	}

	view, err := s.Edit(c.UserContext())
	if err != nil {
		return respondError(c, err, "edit")
	}
	return utils.SuccessResponse(c, view, fiber.StatusOK)
}

// AddPeriod handles POST /api/timetable/:day/periods
// @Summary Append periods to the draft
// @Tags Edit
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param day path string true "月 火 水 木 金 or an English day name"
// @Param body body handlers.periodBody true "Subject"
// @Success 200 {object} models.Timetable
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /timetable/{day}/periods [post]
func (h *EditHandler) AddPeriod(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "timetable")
	}
	day, err := parseDay(c)
	if err != nil {
		return respondError(c, err, "timetable")
	}

	var body periodBody
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, invalidInput(), "timetable")
	}

	subjects := types.Compact(body.Subject)
	if len(subjects) == 0 {
		return respondError(c, types.NewValidationError("subject is required",
			types.FieldError{Field: "subject", Error: "this field is required"}), "timetable")
	}

	var draft models.Timetable
	for _, subject := range subjects {
		if draft, err = s.AddPeriod(day, subject); err != nil {
			return respondError(c, err, "timetable")
		}
	}
	return utils.SuccessResponse(c, draft, fiber.StatusOK)
}

// periodBody accepts one subject or a list appended in order
type periodBody struct {
	Subject types.FlexList[string] `json:"subject"`
}

// RemovePeriod handles DELETE /api/timetable/:day/periods/:index
// @Summary Remove a period from the draft
// @Tags Edit
// @Produce json
// @Security CookieAuth
// @Param day path string true "Weekday"
// @Param index path int true "Zero based period index"
// @Success 200 {object} models.Timetable
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /timetable/{day}/periods/{index} [delete]
func (h *EditHandler) RemovePeriod(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "timetable")
	}
	day, err := parseDay(c)
	if err != nil {
		return respondError(c, err, "timetable")
	}
	index, err := parseIndex(c)
	if err != nil {
		return respondError(c, err, "timetable")
	}

	draft, err := s.RemovePeriod(day, index)
	if err != nil {
		return respondError(c, err, "timetable")
	}
	return utils.SuccessResponse(c, draft, fiber.StatusOK)
}

// SaveDay handles PUT /api/timetable/:day
// @Summary Save one weekday of the draft
// @Description Merge-writes only this weekday, stamped with the editor and server time
// @Tags Edit
// @Produce json
// @Security CookieAuth
// @Param day path string true "Weekday"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /timetable/{day} [put]
func (h *EditHandler) SaveDay(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "timetable")
	}
	day, err := parseDay(c)
	if err != nil {
		return respondError(c, err, "timetable")
	}

	draft, err := s.SaveDay(c.UserContext(), day)
	if err != nil {
		return respondError(c, err, "timetable")
	}
	return utils.MutationSuccessResponse(c, draft)
}

// AddHomework handles POST /api/homework
// @Summary Add homework
// @Tags Edit
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body models.HomeworkInput true "Homework"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /homework [post]
func (h *EditHandler) AddHomework(c *fiber.Ctx) error {
	var body models.HomeworkInput
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, invalidInput(), "homework")
	}
	return h.addTask(c, models.KindHomework, body.Task())
}

// AddItem handles POST /api/items
// @Summary Add an item to bring
// @Tags Edit
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body models.ItemInput true "Item"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /items [post]
func (h *EditHandler) AddItem(c *fiber.Ctx) error {
	var body models.ItemInput
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, invalidInput(), "items")
	}
	return h.addTask(c, models.KindItems, body.Task())
}

func (h *EditHandler) addTask(c *fiber.Ctx, kind models.TaskKind, input models.TaskInput) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, string(kind))
	}

	task, err := s.AddTask(c.UserContext(), kind, input)
	if err != nil {
		return respondError(c, err, string(kind))
	}
	return utils.MutationSuccessResponse(c, task)
}

// SetDone handles PATCH /api/tasks/:kind/:id
// @Summary Set the stored done flag of a task
// @Description Unrelated to the Home checkmarks
// @Tags Edit
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param kind path string true "homework or items"
// @Param id path string true "Task ID"
// @Param body body handlers.doneBody true "Done flag"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /tasks/{kind}/{id} [patch]
func (h *EditHandler) SetDone(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "tasks")
	}
	key, err := parseTaskKey(c)
	if err != nil {
		return respondError(c, err, "tasks")
	}

	var body doneBody
	if err := c.BodyParser(&body); err != nil || body.Done == nil {
		return respondError(c, invalidInput(), "tasks")
	}

	task, err := s.SetDone(c.UserContext(), key, *body.Done)
	if err != nil {
		return respondError(c, err, "tasks")
	}
	return utils.MutationSuccessResponse(c, task)
}

type doneBody struct {
	Done *bool `json:"done"`
}

// RemoveTask handles DELETE /api/tasks/:kind/:id
// @Summary Delete a task
// @Tags Edit
// @Produce json
// @Security CookieAuth
// @Param kind path string true "homework or items"
// @Param id path string true "Task ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /tasks/{kind}/{id} [delete]
func (h *EditHandler) RemoveTask(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "tasks")
	}
	key, err := parseTaskKey(c)
	if err != nil {
		return respondError(c, err, "tasks")
	}

	if err := s.RemoveTask(c.UserContext(), key); err != nil {
		return respondError(c, err, "tasks")
	}
	return utils.MutationSuccessResponse(c, key)
}
