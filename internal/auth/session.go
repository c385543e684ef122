package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sepri/internal/domain"
)

// SessionKey is the storage key of the current session.
const SessionKey = "sepri_session"

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

type Session struct {
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	LoggedInAt time.Time   `json:"loggedInAt"`
}

func (s *Session) CanManage() bool {
	return s != nil && s.Role.CanManage()
}

// Require fails with ErrForbidden unless the session holds one of roles.
func (s *Session) Require(roles ...domain.Role) error {
	if s == nil {
		return ErrNoSession
	}
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s", ErrForbidden, s.Role)
}

// SessionStore persists the single logged-in session. Login and Logout are
// the only ways to change it.
type SessionStore struct {
	kv    SessionKV
	users *Store
	now   func() time.Time
}

type SessionKV interface {
	KV
	Delete(ctx context.Context, key string) error
}

func NewSessionStore(kv SessionKV, users *Store) *SessionStore {
	return &SessionStore{kv: kv, users: users, now: time.Now}
}

func (s *SessionStore) Login(ctx context.Context, email, password string) (*Session, error) {
	role, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session := &Session{Email: NormalizeEmail(email), Role: role, LoggedInAt: s.now().UTC()}
	if err := s.kv.Write(ctx, SessionKey, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the logged-in session or ErrNoSession.
func (s *SessionStore) Current(ctx context.Context) (*Session, error) {
	var session Session
	found, err := s.kv.Lookup(ctx, SessionKey, &session)
	if err != nil || !found || !session.Role.Valid() {
		return nil, ErrNoSession
	}
	return &session, nil
}
