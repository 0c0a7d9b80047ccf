package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"docmanager-backend/internal/shared/auth"
)

var validate = validator.New()

// Service owns user records and credential checks.
type Service struct {
	Repo   Repo
	Hasher auth.PasswordHasher
	now    func() time.Time
}

// CreateInput carries the fields accepted by signup and admin create.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

func NewService(repo Repo, hasher auth.PasswordHasher) *Service {
	return &Service{Repo: repo, Hasher: hasher, now: time.Now}
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	return nil
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// Create registers a new user. Role defaults to viewer when empty.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return User{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if err := validateEmail(email); err != nil {
		return User{}, err
	}
	role, err := roleOrDefault(in.Role)
	if err != nil {
		return User{}, err
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock()
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := s.Hasher.Check(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(id) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Update applies a partial update. An email change is rejected when another
// user already holds the address.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validateEmail(email); err != nil {
			return User{}, err
		}
		if email != user.Email {
			existing, err := s.Repo.GetByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return User{}, ErrConflict
			case err != nil && !errors.Is(err, ErrNotFound):
				return User{}, err
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		if *in.Password == "" {
			return User{}, fmt.Errorf("%w: password must not be empty", ErrInvalidInput)
		}
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if in.Role != nil {
		role, ok := auth.ParseRole(*in.Role)
		if !ok {
			return User{}, fmt.Errorf("%w: role must be one of admin, editor, viewer", ErrInvalidInput)
		}
		user.Role = role
	}

	user.UpdatedAt = s.clock()
	if err := s.Repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	return nil
}

func roleOrDefault(raw string) (auth.Role, error) {
	if strings.TrimSpace(raw) == "" {
		return auth.DefaultRole, nil
	}
	role, ok := auth.ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("%w: role must be one of admin, editor, viewer", ErrInvalidInput)
	}
	return role, nil
}
