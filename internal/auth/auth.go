// Package auth implements the storefront identity provider: password
// registration and login over bcrypt hashes, and signed session tokens
// resolved back into request principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/karinashop/storefront/internal/storage"
	"github.com/karinashop/storefront/internal/storefront"
)

var (
	// ErrInvalidCredentials indicates a failed login. It is deliberately
	// identical for unknown accounts and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation indicates malformed registration input.
	ErrValidation = errors.New("invalid registration input")
	// ErrEmailTaken indicates the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")
)

const defaultSessionTTL = 24 * time.Hour

// Service issues and resolves storefront identities.
type Service struct {
	users  storage.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option adjusts Service construction.
type Option func(*Service)

// WithSessionTTL overrides the session token lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an identity service over the given user store. The
// secret signs session tokens and must be non-empty.
func NewService(users storage.UserStore, secret []byte, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("session secret is required")
	}
	s := &Service{
		users:  users,
		secret: secret,
		ttl:    defaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register validates the form input, hashes the password and creates the
// account with the default role.
func (s *Service) Register(ctx context.Context, email, password, passwordConfirm string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return 0, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if password != passwordConfirm {
		return 0, fmt.Errorf("%w: password confirmation does not match", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, storage.User{
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{storage.RoleUser},
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// Login checks the credentials and mints a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.mintToken(user)
	if err != nil {
		return "", fmt.Errorf("mint session token: %w", err)
	}
	return token, nil
}

// ResolvePrincipal verifies a session token and loads the current user
// record, including a fresh role set.
func (s *Service) ResolvePrincipal(ctx context.Context, token string) (storefront.Principal, error) {
	userID, err := s.verifyToken(token)
	if err != nil {
		return storefront.Principal{}, err
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storefront.Principal{}, ErrInvalidCredentials
		}
		return storefront.Principal{}, fmt.Errorf("load user: %w", err)
	}
	return storefront.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
	}, nil
}
