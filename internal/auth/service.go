// ABOUTME: Credential and token service: register, login, issue, resolve, revoke
// ABOUTME: Backed by the store; login failures are indistinguishable by cause

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskhub/taskhub/internal/store"
)

// ErrInvalidCredentials is returned for every login failure. Unknown email
// and wrong password produce this same error so no oracle distinguishes them.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenType is the token_type value returned alongside issued tokens.
const TokenType = "Bearer"

// tokenName labels tokens issued through the login/register flow.
const tokenName = "api_token"

// Store is the persistence surface the auth service needs.
type Store interface {
	CreateUser(ctx context.Context, user *store.User) error
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateAPIToken(ctx context.Context, token *store.APIToken) error
	GetAPIToken(ctx context.Context, id string) (*store.APIToken, error)
	TouchAPIToken(ctx context.Context, id string) error
	DeleteAPIToken(ctx context.Context, id string) error
}

// Service implements registration, authentication, and token lifecycle.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates an auth service backed by the given store.
func NewService(s Store) *Service {
	return &Service{
		store:  s,
		logger: slog.Default().With("component", "auth"),
	}
}

// Register creates a user with a bcrypt-hashed password. Input shape
// (email format, password length, confirmation match) is validated by the
// HTTP layer; uniqueness is enforced here via store.ErrDuplicateEmail.
// The raw password is never stored or logged.
func (s *Service) Register(ctx context.Context, name, email, password string) (*store.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and returns the user. Every failure path costs
// one bcrypt comparison and returns ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			burnComparison(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken mints a new opaque token bound to the user and persists its
// binding record. The returned plaintext is handed out exactly once.
func (s *Service) IssueToken(ctx context.Context, userID string) (string, error) {
	id, secretHash, plaintext, err := GenerateToken()
	if err != nil {
		return "", err
	}

	token := &store.APIToken{
		ID:         id,
		UserID:     userID,
		Name:       tokenName,
		SecretHash: secretHash,
	}
	if err := s.store.CreateAPIToken(ctx, token); err != nil {
		return "", fmt.Errorf("persisting token: %w", err)
	}

	s.logger.Info("token issued", "token_id", id, "user_id", userID)
	return plaintext, nil
}

// ResolveToken maps a plaintext bearer token back to its user and the token
// binding. Returns ErrInvalidToken when the binding is absent (never issued
// or revoked) or the secret doesn't match.
func (s *Service) ResolveToken(ctx context.Context, plaintext string) (*store.User, *store.APIToken, error) {
	id, secret, err := SplitToken(plaintext)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.store.GetAPIToken(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("looking up token: %w", err)
	}

	if !VerifyTokenSecret(token.SecretHash, secret) {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.store.GetUser(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("looking up token user: %w", err)
	}

	// Best-effort usage stamp; failures don't block the request
	_ = s.store.TouchAPIToken(ctx, token.ID)

	return user, token, nil
}

// RevokeToken invalidates a token by deleting its binding record. Tokens
// have no expiry; revocation is the only way they die.
func (s *Service) RevokeToken(ctx context.Context, tokenID string) error {
	if err := s.store.DeleteAPIToken(ctx, tokenID); err != nil {
		return err
	}
	s.logger.Info("token revoked", "token_id", tokenID)
	return nil
}
