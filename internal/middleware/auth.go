// auth.go
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
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/services"
	"github.com/localnerve/classnote/internal/types"
)

// SessionCookie is the Authorizer session cookie.
const SessionCookie = "cookie_session"

// Locals keys set by AuthUser
const (
	LocalIdentity   = "identity"
	LocalCredential = "credential"
)

// AuthUser validates the session cookie and stores the identity in the request context
func AuthUser(identity services.IdentityProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, identity, "data.authorization.user")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, identity services.IdentityProvider, errorType string) error {
	cookie := c.Cookies(SessionCookie)
	if cookie == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Authorizer cookie %q not found", SessionCookie),
			Type:    errorType,
		}
	}

	id, err := identity.SignIn(c.UserContext(), cookie)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	c.Locals(LocalIdentity, id)
	c.Locals(LocalCredential, cookie)
	return c.Next()
}

// Identity returns the identity stored by AuthUser.
func Identity(c *fiber.Ctx) (models.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(models.Identity)
	return id, ok
}

// Credential returns the session cookie accepted by AuthUser.
func Credential(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCredential).(string)
	return s
}
