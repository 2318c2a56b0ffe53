// routes.go
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
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/classnote/data"
	"github.com/localnerve/classnote/internal/middleware"
	"github.com/localnerve/classnote/internal/services"
	"github.com/localnerve/classnote/internal/session"
	"github.com/localnerve/classnote/internal/types"
	"go.uber.org/zap"
)

// Routes registers the /api routes on app
func Routes(app *fiber.App, manager *session.Manager, identity services.IdentityProvider, options *data.ClassOptions, log *zap.Logger) {
	api := app.Group("/api")
	api.Use(middleware.RequestScope(log))

	sessionHandler := &SessionHandler{Manager: manager, Options: options}
	homeHandler := &HomeHandler{Manager: manager}
	editHandler := &EditHandler{Manager: manager}
	auth := middleware.AuthUser(identity)

	// Public
	api.Get("/options", sessionHandler.ClassOptions)
	api.Post("/session/login", sessionHandler.Login)

	// Session and navigation
	api.Get("/session", auth, sessionHandler.State)
	api.Post("/session/logout", auth, sessionHandler.Logout)
	api.Post("/session/class", auth, sessionHandler.SelectClass)
	api.Post("/session/navigate", auth, sessionHandler.Navigate)

	// Home
	api.Get("/home", auth, homeHandler.Home)
	api.Post("/tasks/:kind/:id/toggle", auth, homeHandler.Toggle)

	// Edit
	api.Get("/edit", auth, editHandler.Edit)
	api.Post("/timetable/:day/periods", auth, editHandler.AddPeriod)
	api.Delete("/timetable/:day/periods/:index", auth, editHandler.RemovePeriod)
	api.Put("/timetable/:day", auth, editHandler.SaveDay)
	api.Post("/homework", auth, editHandler.AddHomework)
	api.Post("/items", auth, editHandler.AddItem)
	api.Patch("/tasks/:kind/:id", auth, editHandler.SetDone)
	api.Delete("/tasks/:kind/:id", auth, editHandler.RemoveTask)
}

// NotFound is the terminal 404 handler
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   "[404] Resource Not Found",
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// ErrorHandler handles errors returned by middleware and handlers globally
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fe *fiber.Error
	var ce *types.CustomError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	}

	versionError := false
	if code == fiber.StatusConflict || types.IsConflict(err) {
		versionError = true
		errorType = "version"
		code = fiber.StatusConflict
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       code,
		"message":      message,
		"ok":           false,
		"versionError": versionError,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"url":          c.OriginalURL(),
		"type":         errorType,
	})
}
