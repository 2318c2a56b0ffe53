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

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/navigation"
	"github.com/localnerve/classnote/internal/services"
	"github.com/localnerve/classnote/internal/types"
	"go.uber.org/zap"
)

var (
	// ErrStaleScreen is returned for a load whose screen was left before it finished.
	ErrStaleScreen = errors.New("screen is no longer active")
	// ErrWrongScreen is returned for an operation the current screen does not offer.
	ErrWrongScreen = errors.New("operation not available on this screen")
	// ErrNoClass is returned when the profile has no class yet.
	ErrNoClass = errors.New("no class selected")
)

// Session is the state of one signed-in user: the navigation controller, the
// repositories of the selected class and the Home completion overlay.
type Session struct {
	uid      string
	nav      *navigation.Controller
	store    services.DocumentStore
	profiles *services.ProfileStore
	opts     Options
	log      *zap.Logger

	mu       sync.Mutex
	classID  string
	schedule *services.ScheduleRepository
	tasks    *services.TaskListRepository
	overlay  *services.CompletionOverlay
	screen   navigation.Screen
	scope    uint64
	scopeCtx context.Context
	leave    context.CancelFunc
}

func newSession(uid string, store services.DocumentStore, profiles *services.ProfileStore, opts Options, log *zap.Logger) *Session {
	s := &Session{
		uid:      uid,
		nav:      navigation.NewController(profiles, log),
		store:    store,
		profiles: profiles,
		opts:     opts,
		log:      log.With(zap.String("uid", uid)),
		overlay:  services.NewCompletionOverlay(),
		screen:   navigation.Login,
	}
	s.scopeCtx, s.leave = context.WithCancel(context.Background())
	s.nav.OnScreenChange(s.screenChanged)
	return s
}

// UID returns the owner of the session.
func (s *Session) UID() string {
	return s.uid
}

// State returns the navigation state.
func (s *Session) State() navigation.State {
	return s.nav.State()
}

// Wait blocks until a pending profile derivation has finished.
func (s *Session) Wait() {
	s.nav.Wait()
}

// screenChanged ends the scope of the screen being left and binds the class
// repositories to the profile's class.
func (s *Session) screenChanged(_, _ navigation.Screen) {
	st := s.nav.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.leave()
	s.scope++
	s.scopeCtx, s.leave = context.WithCancel(context.Background())
	s.screen = st.Screen

	classID := ""
	if st.Profile != nil {
		classID = st.Profile.ClassID
	}
	if classID != s.classID {
		s.bindClass(classID)
	}
	if st.Screen == navigation.Home {
		s.overlay.Reset()
	}
}

// bindClass rebuilds the class repositories. Callers hold mu.
func (s *Session) bindClass(classID string) {
	s.classID = classID
	s.overlay.Reset()
	if classID == "" {
		s.schedule, s.tasks = nil, nil
		return
	}
	s.schedule = services.NewScheduleRepository(s.store, classID, s.opts.Now, s.log)
	s.tasks = services.NewTaskListRepository(s.store, classID, services.TaskListOptions{
		Mode:  s.opts.WriteMode,
		NewID: s.opts.NewID,
		Now:   s.opts.Now,
	}, s.log)
	s.log.Info("class bound", zap.String("classId", classID))
}

func (s *Session) close() {
	s.nav.SignOut()
	s.nav.Wait()
	s.mu.Lock()
	s.leave()
	s.mu.Unlock()
}

// SelectClass checks the selection against the offered options and stores it.
func (s *Session) SelectClass(ctx context.Context, sel models.ClassSelection) error {
	sel.ClassID = strings.TrimSpace(sel.ClassID)
	sel.Subject = strings.TrimSpace(sel.Subject)

	if opts := s.opts.Classes; opts != nil {
		var fields []types.FieldError
		if sel.ClassID != "" && !opts.HasClass(sel.ClassID) {
			fields = append(fields, types.FieldError{Field: "classId", Error: "is not an offered class"})
		}
		if sel.Subject != "" && !opts.HasDepartment(sel.Subject) {
			fields = append(fields, types.FieldError{Field: "subject", Error: "is not an offered department"})
		}
		if len(fields) > 0 {
			return types.NewValidationError("invalid class selection", fields...)
		}
	}
	return s.nav.SelectClass(ctx, sel)
}

// Navigate moves between Home and Edit.
func (s *Session) Navigate(to navigation.Screen) error {
	return s.nav.Navigate(to)
}

// screenScope describes the screen an operation runs on.
type screenScope struct {
	id       uint64
	ctx      context.Context
	classID  string
	schedule *services.ScheduleRepository
	tasks    *services.TaskListRepository
}

func (s *Session) enter(want navigation.Screen) (screenScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != want {
		return screenScope{}, fmt.Errorf("%w: %s needs %s", ErrWrongScreen, s.screen, want)
	}
	if s.schedule == nil || s.tasks == nil {
		return screenScope{}, ErrNoClass
	}
	return screenScope{
		id:       s.scope,
		ctx:      s.scopeCtx,
		classID:  s.classID,
		schedule: s.schedule,
		tasks:    s.tasks,
	}, nil
}

func (s *Session) current(sc screenScope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope == sc.id
}

// load runs fn under a context that also ends when the screen of sc is left.
// A result arriving after that is discarded.
func (s *Session) load(ctx context.Context, sc screenScope, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sc.ctx, cancel)
	defer stop()

	err := fn(ctx)
	if !s.current(sc) {
		s.log.Debug("discarding stale screen load", zap.Uint64("scope", sc.id))
		return ErrStaleScreen
	}
	return err
}

// identity returns the signed-in identity used to stamp writes.
func (s *Session) identity() models.Identity {
	if id := s.nav.State().Identity; id != nil {
		return *id
	}
	return models.Identity{UID: s.uid}
}

func notListed(key models.TaskKey) error {
	return fmt.Errorf("%w: %s is not listed", types.ErrNotFound, key)
}
