package client

import "sync"

// LoginRoute is where a front-end should navigate when the session is
// evicted after a 401.
const LoginRoute = "/sistema/login"

// AuthState holds the bearer token and broadcasts logout. It replaces
// ambient token storage: the API client reads it explicitly, and a 401
// anywhere evicts the token and notifies subscribers exactly once per
// session, so every screen reacts to the same forced logout.
type AuthState struct {
	mu       sync.Mutex
	token    string
	notified bool
	subs     []func()
}

func NewAuthState(token string) *AuthState {
	return &AuthState{token: token}
}

// Token returns the current bearer token, empty when logged out.
func (s *AuthState) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken installs a fresh token and re-arms the logout broadcast.
func (s *AuthState) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.notified = false
}

// OnLogout registers a callback fired when the session ends, either by
// an explicit Logout or by a 401 eviction.
func (s *AuthState) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Logout clears the token and notifies subscribers.
func (s *AuthState) Logout() {
	s.evict()
}

// evict clears the token and fires the logout callbacks once. Repeated
// 401s from in-flight requests do not re-notify.
func (s *AuthState) evict() {
	s.mu.Lock()
	if s.notified {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.notified = true
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
