package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/ids"
	"jhs/backend/internal/models"
	"jhs/backend/internal/repository"
	"jhs/backend/internal/security"
)

var ErrInvalidUser = errors.New("invalid user")

type UserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// UserService manages admin accounts.
type UserService struct {
	users        UserStore
	cfg          *config.AppConfig
	log          zerolog.Logger
	hashPassword func(string) ([]byte, error)
}

func NewUserService(users UserStore, cfg *config.AppConfig, log zerolog.Logger) *UserService {
	return &UserService{
		users:        users,
		cfg:          cfg,
		log:          log,
		hashPassword: security.HashPassword,
	}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return models.User{}, fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	if err := s.checkPassword(in.Password); err != nil {
		return models.User{}, err
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return models.User{}, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         strings.TrimSpace(in.Name),
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user created")
	return created, nil
}

// Update rewrites email, role and name. The password is rehashed only when a
// new plaintext is supplied.
func (s *UserService) Update(ctx context.Context, id string, in UserInput) (models.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if email := normalizeEmail(in.Email); email != "" {
		current.Email = email
	}
	if in.Role != "" {
		role, err := parseRole(in.Role)
		if err != nil {
			return models.User{}, err
		}
		current.Role = role
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		current.Name = name
	}

	current.PasswordHash = nil
	if in.Password != "" {
		if err := s.checkPassword(in.Password); err != nil {
			return models.User{}, err
		}
		if current.PasswordHash, err = s.hashPassword(in.Password); err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
	}

	return s.users.Update(ctx, current)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// EnsureAdmin creates an admin account for email unless one already exists.
// It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return false, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	_, err = s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Name:         "Administrator",
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) checkPassword(password string) error {
	if utf8.RuneCountInString(password) < s.cfg.Security.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, s.cfg.Security.MinPasswordLength)
	}
	return nil
}

func parseRole(raw string) (models.UserRole, error) {
	if raw == "" {
		return models.UserRoleEditor, nil
	}
	role := models.UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidUser, raw)
	}
	return role, nil
}
