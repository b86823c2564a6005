// Package auth implements credential verification, session token issuance
// and login recording.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adithecoder/SocialM-sub001/internal/models"
	"github.com/Adithecoder/SocialM-sub001/internal/store"
)

// ErrInvalidCredentials covers both an unknown username and a password
// mismatch. Callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the subset of store operations the login flow needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	RecordLogin(ctx context.Context, userID int64, username string, at time.Time) error
}

// Service composes the credential verifier, token issuer and activity
// recorder into the login flow.
type Service struct {
	store  UserStore
	tokens *TokenManager
}

// NewService creates an auth service over the given store and token manager.
func NewService(s UserStore, tm *TokenManager) *Service {
	return &Service{store: s, tokens: tm}
}

// Verify checks a username/password pair against the store. Failure paths
// touch nothing: no row is mutated and no activity entry is written.
func (s *Service) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if !user.ComparePassword(password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies credentials, issues a signed token and records the login.
// The last-login update and activity entry are transactional; if recording
// fails the token is discarded and the error returned, so clients never
// receive a token whose login is missing from the audit trail.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.Verify(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("signing token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.store.RecordLogin(ctx, user.ID, user.Username, now); err != nil {
		return nil, "", fmt.Errorf("recording login: %w", err)
	}
	user.LastLogin = &now

	return user, token, nil
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	user, err := models.NewUser(username, password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return s.store.CreateUser(ctx, user.Username, user.PasswordHash)
}

// Tokens exposes the token manager for the bearer middleware.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// UserByID loads a user record for an authenticated identity.
func (s *Service) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
