// session.go
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
	"github.com/localnerve/classnote/data"
	"github.com/localnerve/classnote/internal/middleware"
	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/navigation"
	"github.com/localnerve/classnote/internal/session"
	"github.com/localnerve/classnote/internal/types"
	"github.com/localnerve/classnote/internal/utils"
)

// SessionHandler handles sign-in, class selection and navigation routes
type SessionHandler struct {
	Manager *session.Manager
	Options *data.ClassOptions
}

// Login handles POST /api/session/login
// @Summary Sign in
// @Description Opens the session for the cookie's user and derives the first screen from the stored profile
// @Tags Session
// @Produce json
// @Security CookieAuth
// @Success 200 {object} navigation.State
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	cookie := c.Cookies(middleware.SessionCookie)
	if cookie == "" {
		return respondError(c, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    "data.authorization.user",
		}, "login")
	}

	s, err := h.Manager.SignIn(c.UserContext(), cookie)
	if err != nil {
		return respondError(c, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Invalid session: " + err.Error(),
			Type:    "data.authorization.user",
		}, "login")
	}

	// The response carries the derived screen
	s.Wait()
	return utils.SuccessResponse(c, s.State(), fiber.StatusOK)
}

// Logout handles POST /api/session/logout
// @Summary Sign out
// @Tags Session
// @Produce json
// @Security CookieAuth
// @Success 200 {object} navigation.State
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	id, _ := middleware.Identity(c)
	if err := h.Manager.SignOut(c.UserContext(), id.UID, middleware.Credential(c)); err != nil {
		return respondError(c, err, "logout")
	}
	return utils.SuccessResponse(c, navigation.State{Screen: navigation.Login}, fiber.StatusOK)
}

// State handles GET /api/session
// @Summary Current navigation state
// @Tags Session
// @Produce json
// @Security CookieAuth
// @Success 200 {object} navigation.State
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /session [get]
func (h *SessionHandler) State(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "session")
	}
	return utils.SuccessResponse(c, s.State(), fiber.StatusOK)
}

// SelectClass handles POST /api/session/class
// @Summary Select class and department
// @Description Merges classId and subject into the profile and moves to Home
// @Tags Session
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body handlers.classBody true "Class selection"
// @Success 200 {object} navigation.State
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /session/class [post]
func (h *SessionHandler) SelectClass(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "class")
	}

	var body classBody
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, invalidInput(), "class")
	}

	sel := models.ClassSelection{ClassID: body.ClassID.String(), Subject: body.Subject}
	if err := s.SelectClass(c.UserContext(), sel); err != nil {
		return respondError(c, err, "class")
	}
	return utils.SuccessResponse(c, s.State(), fiber.StatusOK)
}

type classBody struct {
	ClassID types.FlexString `json:"classId"`
	Subject string           `json:"subject"`
}

// Navigate handles POST /api/session/navigate
// @Summary Move between Home and Edit
// @Tags Session
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body handlers.navigateBody true "Target screen"
// @Success 200 {object} navigation.State
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /session/navigate [post]
func (h *SessionHandler) Navigate(c *fiber.Ctx) error {
	s, err := currentSession(c, h.Manager)
	if err != nil {
		return respondError(c, err, "navigate")
	}

	var body navigateBody
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, invalidInput(), "navigate")
	}
	to, ok := navigation.ParseScreen(body.Screen)
	if !ok {
		return respondError(c, types.NewValidationError("unknown screen",
			types.FieldError{Field: "screen", Error: "must be home or edit"}), "navigate")
	}

	if err := s.Navigate(to); err != nil {
		return respondError(c, err, "navigate")
	}
	return utils.SuccessResponse(c, s.State(), fiber.StatusOK)
}

type navigateBody struct {
	Screen string `json:"screen"`
}

// ClassOptions handles GET /api/options
// @Summary Class selection options
// @Tags Session
// @Produce json
// @Success 200 {object} data.ClassOptions
// @Router /options [get]
func (h *SessionHandler) ClassOptions(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, h.Options, fiber.StatusOK)
}
