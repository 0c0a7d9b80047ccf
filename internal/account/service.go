package account

import (
	"context"
	"errors"

	"docmanager-backend/internal/shared/auth"
	"docmanager-backend/internal/users"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string, role auth.Role) (string, error)
}

// Service implements signup, login and profile lookups on top of the user store.
type Service struct {
	Users  *users.Service
	Tokens TokenIssuer
}

func NewService(usersSvc *users.Service, tokens TokenIssuer) *Service {
	return &Service{Users: usersSvc, Tokens: tokens}
}

// Signup registers a new account.
func (s *Service) Signup(ctx context.Context, in users.CreateInput) (users.User, error) {
	if s == nil || s.Users == nil {
		return users.User{}, errors.New("account service not configured")
	}
	return s.Users.Create(ctx, in)
}

// Login verifies credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if s == nil || s.Users == nil || s.Tokens == nil {
		return "", errors.New("account service not configured")
	}
	user, err := s.Users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.Tokens.Issue(user.ID, user.Role)
}

// Profile returns the user behind an authenticated request.
func (s *Service) Profile(ctx context.Context, userID string) (users.User, error) {
	if s == nil || s.Users == nil {
		return users.User{}, errors.New("account service not configured")
	}
	return s.Users.GetByID(ctx, userID)
}
