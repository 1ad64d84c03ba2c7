package auth

import (
	"context"
	"errors"
	"fmt"

	"todo-auth-api/api"
	"todo-auth-api/store"
)

// Error kinds the handlers map to status codes. Anything else coming out of
// Register or Login is an internal failure.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUsernameTaken   = errors.New("username already taken")
)

// UserStore is the slice of the credential store the service needs.
type UserStore interface {
	InsertUser(ctx context.Context, username, passwordHash string) (int, error)
	FindUserByUsername(ctx context.Context, username string) (*api.User, error)
}

// Service implements registration and login on top of a credential store,
// a password hasher and a token manager.
type Service struct {
	users  UserStore
	hasher Hasher
	tokens *TokenManager
}

func NewService(users UserStore, hasher Hasher, tokens *TokenManager) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register hashes the password, creates the user and returns a token for the
// new user id. A duplicate username comes back as ErrUsernameTaken; the
// store's unique constraint is the only arbiter of that race.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	userID, err := s.users.InsertUser(ctx, username, passwordHash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return "", ErrUsernameTaken
		}
		return "", fmt.Errorf("inserting user: %w", err)
	}

	return s.tokens.Issue(userID)
}

// Login verifies the credentials and returns a token for the user id.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNoUser) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidPassword
	}

	return s.tokens.Issue(user.ID)
}
