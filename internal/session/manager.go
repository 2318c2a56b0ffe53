// manager.go
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

package session

import (
	"context"
	"sync"
	"time"

	"github.com/localnerve/classnote/data"
	"github.com/localnerve/classnote/internal/services"
	"go.uber.org/zap"
)

// Options configures the sessions created by a Manager.
type Options struct {
	WriteMode services.WriteMode
	Location  *time.Location
	Now       func() time.Time
	NewID     func() string
	Classes   *data.ClassOptions
}

// Manager owns the live sessions, one per signed-in uid.
type Manager struct {
	identity services.IdentityProvider
	store    services.DocumentStore
	profiles *services.ProfileStore
	opts     Options
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager over the identity and document store collaborators.
func NewManager(identity services.IdentityProvider, store services.DocumentStore, opts Options, log *zap.Logger) *Manager {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WriteMode == "" {
		opts.WriteMode = services.WriteModeMerge
	}
	return &Manager{
		identity: identity,
		store:    store,
		profiles: services.NewProfileStore(store, log),
		opts:     opts,
		log:      log.Named("session"),
		sessions: make(map[string]*Session),
	}
}

// SignIn resolves credential into an identity, opens or reuses the session of
// that uid and hands it the identity.
func (m *Manager) SignIn(ctx context.Context, credential string) (*Session, error) {
	id, err := m.identity.SignIn(ctx, credential)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	s, ok := m.sessions[id.UID]
	if !ok {
		s = newSession(id.UID, m.store, m.profiles, m.opts, m.log)
		m.sessions[id.UID] = s
		m.log.Info("session opened", zap.String("uid", id.UID))
	}
	m.mu.Unlock()

	s.nav.IdentityAcquired(ctx, id)
	return s, nil
}

// Get returns the live session of uid.
func (m *Manager) Get(uid string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[uid]
	return s, ok
}

// SignOut ends the session of uid. The session is dropped even when the
// identity provider fails.
func (m *Manager) SignOut(ctx context.Context, uid, credential string) error {
	m.mu.Lock()
	s, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()

	if ok {
		s.close()
		m.log.Info("session closed", zap.String("uid", uid))
	}
	return m.identity.SignOut(ctx, credential)
}

// Close signs every session out locally and waits for pending derivations.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
