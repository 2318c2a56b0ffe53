// auth_service_test.go
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

package services

import (
	"context"
	"testing"

	"github.com/localnerve/classnote/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdentityFromUser(t *testing.T) {
	nick := "Ali"
	given := "Alice"
	family := "Smith"
	picture := "https://example.com/a.png"

	id, err := identityFromUser(map[string]interface{}{
		"id":          "u1",
		"email":       "alice@example.com",
		"given_name":  given,
		"family_name": family,
		"nickname":    nick,
		"picture":     picture,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "Ali", id.DisplayName)
	assert.Equal(t, picture, id.PhotoURL)

	id, err = identityFromUser(authorizerUser{ID: "u2", Email: "bob@example.com", GivenName: &given, FamilyName: &family})
	require.NoError(t, err)
	assert.Equal(t, "Smith Alice", id.DisplayName)

	id, err = identityFromUser(authorizerUser{ID: "u3", Email: "carol@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", id.DisplayName)

	_, err = identityFromUser(authorizerUser{Email: "nobody@example.com"})
	assert.Error(t, err)
}

func TestAuthorizerIdentityUnreachable(t *testing.T) {
	cfg := &config.Config{AuthzURL: "http://127.0.0.1:1", AuthzClientID: "test"}
	a := NewAuthorizerIdentity(cfg, zap.NewNop())

	_, err := a.SignIn(context.Background(), "cookie")
	assert.ErrorContains(t, err, "authorizer ping failed")
	assert.False(t, a.IsInitialized())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.SignOut(ctx, "cookie"), context.Canceled)
}
