package client

import (
	"context"
	"net/http"
	"sync"
)

// Session owns the auth state: the bearer token and the logged-in user.
// All mutation goes through Login, Register and Logout.
type Session struct {
	mu    sync.RWMutex
	c     *Client
	token string
	user  *User
}

func NewSession(c *Client) *Session {
	return &Session{c: c}
}

type authPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s *Session) Register(ctx context.Context, username, email, password string) error {
	var out authPayload
	err := s.c.do(ctx, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}
	s.set(out)
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	var out authPayload
	err := s.c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}
	s.set(out)
	return nil
}

// Logout discards the token client-side; the server keeps no session state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

func (s *Session) set(a authPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = a.Token
	u := a.User
	s.user = &u
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}
