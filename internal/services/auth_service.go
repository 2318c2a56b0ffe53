// auth_service.go
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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/localnerve/classnote/internal/config"
	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/utils"
	"go.uber.org/zap"
)

// IdentityProvider resolves a session credential into an Identity.
type IdentityProvider interface {
	SignIn(ctx context.Context, credential string) (models.Identity, error)
	SignOut(ctx context.Context, credential string) error
}

// AuthorizerIdentity is the IdentityProvider backed by an Authorizer service.
// The client is created on first use.
type AuthorizerIdentity struct {
	cfg   *config.Config
	log   *zap.Logger
	roles []string

	once    sync.Once
	client  *authorizer.AuthorizerClient
	initErr error
}

// NewAuthorizerIdentity creates the provider. Sessions must carry the "user" role.
func NewAuthorizerIdentity(cfg *config.Config, log *zap.Logger) *AuthorizerIdentity {
	return &AuthorizerIdentity{cfg: cfg, log: log.Named("authorizer"), roles: []string{"user"}}
}

// IsInitialized returns true if the Authorizer client was created.
func (a *AuthorizerIdentity) IsInitialized() bool {
	return a.client != nil
}

func (a *AuthorizerIdentity) init(ctx context.Context) error {
	a.once.Do(func() {
		if err := utils.PingAuthorizer(ctx, a.cfg.AuthzURL); err != nil {
			a.initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		a.log.Info("initializing authorizer",
			zap.String("url", a.cfg.AuthzURL),
			zap.String("clientId", a.cfg.AuthzClientID),
			zap.String("redirectUrl", a.cfg.AuthzRedirectURL))

		client, err := authorizer.NewAuthorizerClient(a.cfg.AuthzClientID, a.cfg.AuthzURL, a.cfg.AuthzRedirectURL, nil)
		if err != nil {
			a.initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
		a.client = client
	})
	return a.initErr
}

// SignIn validates the session cookie and returns the identity of its user.
func (a *AuthorizerIdentity) SignIn(ctx context.Context, credential string) (models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return models.Identity{}, err
	}
	if err := a.init(ctx); err != nil {
		return models.Identity{}, err
	}

	roles := make([]*string, len(a.roles))
	for i := range a.roles {
		roles[i] = &a.roles[i]
	}

	res, err := a.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: credential,
		Roles:  roles,
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return models.Identity{}, fmt.Errorf("session is not valid")
	}

	return identityFromUser(res.User)
}

// SignOut ends the local view of the session. The Authorizer session itself is
// ended by the client through the Authorizer logout endpoint.
func (a *AuthorizerIdentity) SignOut(ctx context.Context, credential string) error {
	return ctx.Err()
}

type authorizerUser struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	GivenName         *string `json:"given_name"`
	FamilyName        *string `json:"family_name"`
	Nickname          *string `json:"nickname"`
	PreferredUsername *string `json:"preferred_username"`
	Picture           *string `json:"picture"`
}

// identityFromUser maps the Authorizer user through its JSON form, which is
// stable across SDK releases.
func identityFromUser(user interface{}) (models.Identity, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return models.Identity{}, fmt.Errorf("encode authorizer user: %w", err)
	}
	var u authorizerUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.Identity{}, fmt.Errorf("decode authorizer user: %w", err)
	}
	if u.ID == "" {
		return models.Identity{}, fmt.Errorf("authorizer user has no id")
	}

	id := models.Identity{UID: u.ID, Email: u.Email, PhotoURL: deref(u.Picture)}
	switch {
	case deref(u.Nickname) != "":
		id.DisplayName = deref(u.Nickname)
	case deref(u.GivenName) != "":
		id.DisplayName = deref(u.GivenName)
		if family := deref(u.FamilyName); family != "" {
			id.DisplayName = family + " " + id.DisplayName
		}
	case deref(u.PreferredUsername) != "":
		id.DisplayName = deref(u.PreferredUsername)
	default:
		id.DisplayName = u.Email
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
