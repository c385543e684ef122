// Package auth holds the two privileged accounts, verifies their
// credentials and tracks who is logged in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"sepri/internal/domain"
)

// UsersKey is the storage key of the account collection.
const UsersKey = "sepri_users"

var (
	// ErrInvalidCredentials does not say whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when the session role may not perform an action.
	ErrForbidden = errors.New("forbidden")
)

// KV is the JSON key/value store accounts are kept in. Lookup reports
// found=false with a nil error only when the key is absent.
type KV interface {
	Lookup(ctx context.Context, key string, dst any) (bool, error)
	Write(ctx context.Context, key string, value any) error
}

// Seed describes one account created on first use.
type Seed struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type Store struct {
	kv     KV
	hasher Hasher
	seeds  []Seed
	logger *slog.Logger
	mu     sync.Mutex
}

func NewStore(kv KV, hasher Hasher, seeds []Seed, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		hasher: hasher,
		seeds:  seeds,
		logger: logger.With("component", "auth"),
	}
}

// DefaultSeeds builds the admin and creator accounts.
func DefaultSeeds(admin, creator Seed) []Seed {
	admin.ID, admin.Role = "user-admin", domain.RoleAdmin
	creator.ID, creator.Role = "user-creator", domain.RoleCreator
	return []Seed{admin, creator}
}

// Seed creates the seed accounts when no account collection exists yet. An
// existing collection that cannot be read is an error, never a reason to
// seed again.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load(ctx)
	return err
}

func (s *Store) load(ctx context.Context) ([]domain.UserAccount, error) {
	var users []domain.UserAccount
	found, err := s.kv.Lookup(ctx, UsersKey, &users)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if found {
		return users, nil
	}

	users = make([]domain.UserAccount, 0, len(s.seeds))
	for _, seed := range s.seeds {
		if seed.Email == "" || seed.Password == "" {
			return nil, fmt.Errorf("seed account %s: email and password must be configured", seed.ID)
		}
		hash, err := s.hasher.Hash(seed.Password)
		if err != nil {
			return nil, fmt.Errorf("seed account %s: %w", seed.ID, err)
		}
		users = append(users, domain.UserAccount{
			ID:           seed.ID,
			Name:         seed.Name,
			Email:        seed.Email,
			PasswordHash: hash,
			Role:         seed.Role,
		})
	}

	if err := s.kv.Write(ctx, UsersKey, users); err != nil {
		return nil, fmt.Errorf("store seed accounts: %w", err)
	}
	s.logger.Info("seeded accounts", "count", len(users))
	return users, nil
}

// Users returns the accounts without their password hashes.
func (s *Store) Users(ctx context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Authenticate returns the role of the account matching email and password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	for i, u := range users {
		if !strings.EqualFold(u.Email, NormalizeEmail(email)) {
			continue
		}
		if !s.hasher.Verify(password, u.PasswordHash) {
			break
		}
		if NeedsRehash(s.hasher, u.PasswordHash) {
			s.upgrade(ctx, users, i, password)
		}
		return u.Role, nil
	}

	s.logger.Info("authentication failed")
	return "", ErrInvalidCredentials
}

func (s *Store) upgrade(ctx context.Context, users []domain.UserAccount, i int, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("rehash failed", "user_id", users[i].ID, "error", err)
		return
	}
	users[i].PasswordHash = hash
	if err := s.kv.Write(ctx, UsersKey, users); err != nil {
		s.logger.Warn("storing upgraded hash failed", "user_id", users[i].ID, "error", err)
		return
	}
	s.logger.Info("upgraded legacy password hash", "user_id", users[i].ID)
}

// ResetPassword replaces the password of userID with a generated one and
// returns it. The plaintext is not kept anywhere.
func (s *Store) ResetPassword(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	for i := range users {
		if users[i].ID != userID {
			continue
		}

		password, err := GeneratePassword()
		if err != nil {
			return "", err
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return "", err
		}
		users[i].PasswordHash = hash

		if err := s.kv.Write(ctx, UsersKey, users); err != nil {
			return "", fmt.Errorf("store accounts: %w", err)
		}

		s.logger.Info("password reset", "user_id", userID)
		return password, nil
	}

	return "", domain.NotFound("user", userID)
}

// NormalizeEmail is the form emails are compared and reported in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
