// controller.go
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

package navigation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/utils"
	"go.uber.org/zap"
)

// Profiles is the profile collaborator of the controller.
type Profiles interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	Save(ctx context.Context, patch models.ProfilePatch) error
}

// State is a snapshot of the controller.
type State struct {
	Screen   Screen              `json:"screen"`
	Loading  bool                `json:"loading"`
	Error    string              `json:"error,omitempty"`
	Identity *models.Identity    `json:"identity,omitempty"`
	Profile  *models.UserProfile `json:"profile,omitempty"`
}

// ScreenChangeFunc observes screen changes. It runs outside the controller lock.
type ScreenChangeFunc func(from, to Screen)

// Controller drives the screen of one signed-in session.
type Controller struct {
	profiles Profiles
	log      *zap.Logger

	mu         sync.Mutex
	screen     Screen
	loading    bool
	err        error
	identity   *models.Identity
	profile    *models.UserProfile
	generation uint64
	cancel     context.CancelFunc
	observers  []ScreenChangeFunc

	wg sync.WaitGroup
}

// NewController starts on Login.
func NewController(profiles Profiles, log *zap.Logger) *Controller {
	return &Controller{profiles: profiles, log: log.Named("navigation"), screen: Login}
}

// OnScreenChange registers fn to be called after every screen change.
func (c *Controller) OnScreenChange(fn ScreenChangeFunc) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{Screen: c.screen, Loading: c.loading}
	if c.err != nil {
		st.Error = c.err.Error()
	}
	if c.identity != nil {
		id := *c.identity
		st.Identity = &id
	}
	if c.profile != nil {
		p := *c.profile
		st.Profile = &p
	}
	return st
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// IdentityAcquired records id and, from Login or ClassSelect, starts deriving the
// screen from the stored profile. A derivation still in flight is cancelled and its
// result discarded.
func (c *Controller) IdentityAcquired(ctx context.Context, id models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.identity != nil && c.identity.UID != id.UID {
		c.profile = nil
	}
	c.identity = &id

	if !Derives(c.screen) {
		c.log.Debug("identity refreshed, keeping screen", zap.Stringer("screen", c.screen))
		return
	}

	c.stopDerivation()
	dctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.loading = true
	c.err = nil
	gen := c.generation

	c.wg.Add(1)
	go c.derive(dctx, gen, id.UID)
}

// stopDerivation invalidates any pending derivation. Callers hold mu.
func (c *Controller) stopDerivation() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
}

func (c *Controller) derive(ctx context.Context, gen uint64, uid string) {
	defer c.wg.Done()

	profile, err := c.profiles.Get(ctx, uid)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.log.Debug("discarding superseded derivation", zap.Uint64("generation", gen))
		return
	}
	c.cancel()
	c.cancel = nil
	c.loading = false

	var ev Event
	if err != nil {
		c.err = err
		ev = ProfileFetchFailed{}
		c.log.Warn("profile fetch failed", zap.String("uid", uid), zap.Error(err))
	} else {
		c.profile = profile
		ev = ProfileResolved{Complete: profile.Complete()}
	}
	from, to, ok := c.apply(ev)
	observers := c.observers
	c.mu.Unlock()

	if ok {
		notify(observers, from, to)
	}
}

// apply runs the transition for ev. Callers hold mu.
func (c *Controller) apply(ev Event) (from, to Screen, changed bool) {
	from = c.screen
	to, err := Transition(from, ev)
	if err != nil {
		c.log.Debug("event ignored", zap.Error(err))
		return from, from, false
	}
	c.screen = to
	if from != to {
		c.log.Info("screen changed", zap.Stringer("from", from), zap.Stringer("to", to))
	}
	return from, to, from != to
}

func notify(observers []ScreenChangeFunc, from, to Screen) {
	for _, fn := range observers {
		fn(from, to)
	}
}

// SelectClass stores the class and department of the signed-in user and moves to Home.
// Empty values are rejected with a ValidationError before anything is written.
func (c *Controller) SelectClass(ctx context.Context, sel models.ClassSelection) error {
	c.mu.Lock()
	if c.screen != ClassSelect {
		err := invalid(c.screen, ClassSaved{})
		c.mu.Unlock()
		return err
	}
	if c.identity == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no identity", ErrInvalidTransition)
	}
	id := *c.identity
	c.mu.Unlock()

	sel.ClassID = strings.TrimSpace(sel.ClassID)
	sel.Subject = strings.TrimSpace(sel.Subject)
	if err := utils.ValidateStruct(sel); err != nil {
		return err
	}

	patch := models.ProfilePatch{
		UID:         id.UID,
		DisplayName: &id.DisplayName,
		Email:       &id.Email,
		ClassID:     &sel.ClassID,
		Subject:     &sel.Subject,
	}
	if err := c.profiles.Save(ctx, patch); err != nil {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.identity == nil || c.identity.UID != id.UID {
		c.mu.Unlock()
		return fmt.Errorf("%w: signed out during class selection", ErrInvalidTransition)
	}
	c.stopDerivation()
	base := models.UserProfile{}
	if c.profile != nil {
		base = *c.profile
	}
	profile := patch.Apply(base)
	c.profile = &profile
	c.err = nil
	from, to, ok := c.apply(ClassSaved{})
	observers := c.observers
	c.mu.Unlock()

	if ok {
		notify(observers, from, to)
	}
	return nil
}

// Navigate moves between Home and Edit.
func (c *Controller) Navigate(to Screen) error {
	c.mu.Lock()
	from := c.screen
	next, err := Transition(from, Navigated{To: to})
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.screen = next
	observers := c.observers
	c.mu.Unlock()

	c.log.Info("screen changed", zap.Stringer("from", from), zap.Stringer("to", next))
	notify(observers, from, next)
	return nil
}

// SignOut returns to Login and forgets the identity and profile.
func (c *Controller) SignOut() {
	c.mu.Lock()
	c.stopDerivation()
	c.identity = nil
	c.profile = nil
	c.err = nil
	from, to, ok := c.apply(SignedOut{})
	observers := c.observers
	c.mu.Unlock()

	if ok {
		notify(observers, from, to)
	}
}

// Wait blocks until no derivation goroutine is running.
func (c *Controller) Wait() {
	c.wg.Wait()
}
