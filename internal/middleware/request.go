// request.go
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

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Locals keys set by RequestScope
const (
	LocalAPIVersion = "apiVersion"
	LocalRequestID  = "requestId"
	LocalLogger     = "log"
)

// RequestScope parses the X-Api-Version header, assigns a request id and stores
// a logger tagged with it in the request context
func RequestScope(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Support version aliases
		if version == "1.0" {
			version = "1.0.0"
		}

		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)

		c.Locals(LocalAPIVersion, version)
		c.Locals(LocalRequestID, requestID)
		c.Locals(LocalLogger, log.With(zap.String("requestId", requestID), zap.String("path", c.Path())))

		return c.Next()
	}
}

// Logger returns the request logger, or a no-op logger outside RequestScope.
func Logger(c *fiber.Ctx) *zap.Logger {
	if log, ok := c.Locals(LocalLogger).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}
