// Package session holds the authenticated principal and bearer credential
// for the remote store. The session is an explicit context object built
// once at startup and passed by reference to every component that issues
// authenticated requests; there is no process-wide singleton. Identity
// survives restarts through the durable "user" and "token" slots.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/database/settings"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/outcome"
)

// Session is the client-side identity store. Safe for concurrent use: gin
// handlers and background refresh workers read it simultaneously.
type Session struct {
	mu        sync.RWMutex
	principal *entities.Principal
	token     string
	store     *settings.Repository
}

// New restores the session from the durable slots. A missing or corrupt
// slot pair yields an unauthenticated session, never an error that would
// block startup; corrupt slots are purged the way the source console wiped
// unparseable localStorage entries.
func New(store *settings.Repository) *Session {
	s := &Session{store: store}

	token, err := store.Get(entities.SettingKeyToken)
	if err != nil {
		return s
	}
	var principal entities.Principal
	if err := store.GetJSON(entities.SettingKeyUser, &principal); err != nil || !principal.Role.Valid() {
		log.Printf("session: discarding unusable stored principal: %v", err)
		_ = store.Delete(entities.SettingKeyUser)
		_ = store.Delete(entities.SettingKeyToken)
		return s
	}

	s.principal = &principal
	s.token = token
	return s
}

// Token implements api.TokenSource. Empty when unauthenticated, which makes
// the API client short-circuit authenticated calls before any request.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentPrincipal returns the authenticated principal, or nil.
func (s *Session) CurrentPrincipal() *entities.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

// Authenticated reports whether a principal is logged in.
func (s *Session) Authenticated() bool {
	return s.CurrentPrincipal() != nil
}

// Login exchanges credentials with the remote store and, on success,
// persists the principal and token in the durable slots. An invalid
// credential persists nothing.
func (s *Session) Login(ctx context.Context, client *api.Client, creds api.Credentials) (*entities.Principal, error) {
	const op = "session.login"
	if creds.Username == "" || creds.Password == "" {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "username and password are required")
	}

	resp, err := client.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrConflict) {
			return nil, outcome.Wrap(outcome.ReasonUnauthenticated, op, err)
		}
		return nil, outcome.Wrap(outcome.ReasonTransport, op, err)
	}
	if !resp.User.Role.Valid() {
		return nil, outcome.Errorf(outcome.ReasonRemote, op, "remote store returned unknown role %q", resp.User.Role)
	}

	if err := s.store.SetJSON(entities.SettingKeyUser, resp.User); err != nil {
		return nil, outcome.Wrap(outcome.ReasonTransport, op, err)
	}
	if err := s.store.Set(entities.SettingKeyToken, resp.Token); err != nil {
		return nil, outcome.Wrap(outcome.ReasonTransport, op, err)
	}

	s.mu.Lock()
	s.principal = &resp.User
	s.token = resp.Token
	s.mu.Unlock()

	return &resp.User, nil
}

// Logout purges both durable slots and clears the in-memory identity.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.principal = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Delete(entities.SettingKeyUser); err != nil {
		return err
	}
	return s.store.Delete(entities.SettingKeyToken)
}

// RequireAdmin is the client-side guard for the admin-only views (members,
// staff, genres, reports). A librarian principal is denied locally without
// a network call. This is a UX convenience: the remote store remains the
// real enforcement boundary and re-checks every request.
func (s *Session) RequireAdmin(op string) error {
	p := s.CurrentPrincipal()
	if p == nil {
		return outcome.Errorf(outcome.ReasonUnauthenticated, op, "not logged in")
	}
	if !p.IsAdmin() {
		return outcome.Errorf(outcome.ReasonDenied, op, "role %q may not use this view", p.Role)
	}
	return nil
}
