package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/notify"
	"github.com/sadopc/taskdeck/internal/state"
)

// The backend only accepts accounts under this mail domain; registration
// input is normalized to it.
const emailDomain = "@squareteam.com"

type authAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Register(ctx context.Context, payload api.RegisterPayload) (*api.AuthResult, error)
	VerifyToken(ctx context.Context, token string) error
}

// Session holds the current identity and credential. The in-memory copy is
// authoritative; the state store is a shadow read once at startup and kept
// in sync on every mutation. It is either fully authenticated (user and
// token both set) or empty; there is no partial state.
type Session struct {
	mu    sync.Mutex
	user  *api.User
	token string

	client authAPI
	shadow *state.Store
	notify notify.Notifier
}

func New(client authAPI, shadow *state.Store, n notify.Notifier) *Session {
	return &Session{client: client, shadow: shadow, notify: n}
}

// Login authenticates against the backend. On success the session becomes
// authenticated and both identity and credential are persisted; on failure
// the session is left untouched and the error is returned to the caller.
// The remember flag is accepted for the form's sake; the backend issues the
// same token either way.
func (s *Session) Login(ctx context.Context, email, password string, remember bool) error {
	if err := ValidateLogin(email, password); err != nil {
		return err
	}

	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			s.notify.Error("Login failed")
		}
		return err
	}
	if res.Token == "" {
		return errors.New("login: empty token in response")
	}

	s.establish(res)
	s.notify.Success("Login successful!")
	return nil
}

// Register creates an account and signs in with the returned token. The
// full name is assembled from the trimmed name fields and the email is
// forced onto the accepted domain before the payload leaves the client.
func (s *Session) Register(ctx context.Context, d RegisterData) error {
	if err := ValidateRegister(d); err != nil {
		return err
	}

	fullName := strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
	email := strings.TrimSuffix(d.Email, emailDomain) + emailDomain

	payload := api.RegisterPayload{
		Email:    email,
		FullName: fullName,
		Password: d.Password,
	}

	res, err := s.client.Register(ctx, payload)
	if err != nil {
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			s.notify.Error("Registration failed")
		}
		return err
	}
	if res.Token == "" {
		return errors.New("register: empty token in response")
	}

	s.establish(res)
	s.notify.Success("Registration successful!")
	return nil
}

// Logout unconditionally clears the session and its shadow. Never fails.
func (s *Session) Logout() {
	s.Forget()
	s.notify.Success("Logged out successfully!")
}

// Forget clears the session and shadow without a notification. This is the
// teardown path used on 401.
func (s *Session) Forget() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	s.shadow.Delete(state.KeyToken)
	s.shadow.Delete(state.KeyUser)
}

// Restore reconstructs the session from the shadow at startup. A missing or
// unreadable shadow means no session; partial state is cleared. Never
// returns an error to the caller.
func (s *Session) Restore() {
	token, okTok, err := s.shadow.Get(state.KeyToken)
	if err != nil {
		return
	}
	raw, okUser, err := s.shadow.Get(state.KeyUser)
	if err != nil {
		return
	}
	if !okTok || !okUser {
		s.shadow.Delete(state.KeyToken)
		s.shadow.Delete(state.KeyUser)
		return
	}

	var u api.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.shadow.Delete(state.KeyToken)
		s.shadow.Delete(state.KeyUser)
		return
	}

	s.mu.Lock()
	s.user = &u
	s.token = token
	s.mu.Unlock()
}

// Verify checks the stored token against the backend. A 401 flows through
// the API client's unauthorized hook.
func (s *Session) Verify(ctx context.Context) error {
	tok := s.Token()
	if tok == "" {
		return nil
	}
	return s.client.VerifyToken(ctx, tok)
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != ""
}

// User returns a copy of the current identity, or nil when signed out.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current credential, or "" when signed out. Suitable as
// the API client's token source.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) establish(res *api.AuthResult) {
	s.mu.Lock()
	u := res.User
	s.user = &u
	s.token = res.Token
	s.mu.Unlock()

	s.shadow.Set(state.KeyToken, res.Token)
	if raw, err := json.Marshal(res.User); err == nil {
		s.shadow.Set(state.KeyUser, string(raw))
	}
}
