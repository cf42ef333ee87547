package dashboard

import (
	"context"
	"sync"

	"github.com/rajithaprasad/hardwareProject/internal/client"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
)

// AuthAPI is the login surface of the API client.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
	Logout()
}

// Session holds the signed-in identity and its capabilities.
type Session struct {
	mu   sync.RWMutex
	user *entity.SessionUser
	caps entity.Capabilities
}

// Login fills the session from a successful login.
func (s *Session) Login(ctx context.Context, api AuthAPI, username, password string) error {
	resp, err := api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	user := resp.User

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.caps = entity.CapabilitiesFor(user.Role)
	return nil
}

func (s *Session) Logout(api AuthAPI) {
	api.Logout()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.caps = entity.Capabilities{}
}

// User returns the signed-in user, or false when nobody is.
func (s *Session) User() (entity.SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entity.SessionUser{}, false
	}
	return *s.user, true
}

func (s *Session) Capabilities() entity.Capabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caps
}

// Can checks one capability by name.
func (s *Session) Can(capability string) bool {
	return s.Capabilities().Allows(capability)
}

// DisplayName is the name recorded on local transaction rows.
func (s *Session) DisplayName() string {
	user, ok := s.User()
	if !ok {
		return ""
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}
