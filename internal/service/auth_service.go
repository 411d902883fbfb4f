package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/ids"
	"jhs/backend/internal/models"
	"jhs/backend/internal/repository"
	"jhs/backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
	DeviceID     string
}

type LoginInput struct {
	Email      string
	Password   string
	DeviceID   string
	DeviceName string
	IPAddress  string
	UserAgent  string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	deviceID := input.DeviceID
	if deviceID == "" {
		deviceID = ids.New()
	}
	deviceName := input.DeviceName
	if deviceName == "" {
		deviceName = "Unknown Device"
	}

	session := models.Session{
		ID:         ids.New(),
		UserID:     user.ID,
		DeviceID:   deviceID,
		DeviceName: deviceName,
		IPAddress:  input.IPAddress,
		UserAgent:  input.UserAgent,
	}
	result, err := s.issue(ctx, user, session)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.enforceSessionLimit(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("enforce session limit failed")
	}
	return result, nil
}

// issue rotates the refresh token of session, persists it and signs a
// matching access token.
func (s *AuthService) issue(ctx context.Context, user models.User, session models.Session) (AuthResult, error) {
	refreshToken, refreshHash, err := security.NewRefreshToken()
	if err != nil {
		return AuthResult{}, err
	}
	session.RefreshTokenHash = refreshHash
	session.ExpiresAt = s.now().Add(s.cfg.Security.JWTRefreshTTL)

	if err := s.sessions.Upsert(ctx, session); err != nil {
		return AuthResult{}, fmt.Errorf("store session: %w", err)
	}

	accessToken, err := security.GenerateAccessToken(s.cfg.Security.JWTAccessSecret, security.AccessSubject{
		UserID:    user.ID,
		SessionID: session.ID,
		DeviceID:  session.DeviceID,
		Role:      string(user.Role),
	}, s.cfg.Security.JWTAccessTTL)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		DeviceID:     session.DeviceID,
	}, nil
}

func (s *AuthService) enforceSessionLimit(ctx context.Context, userID string) error {
	limit := s.cfg.Security.MaxSessions
	if limit <= 0 {
		return nil
	}
	count, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= limit {
		return nil
	}
	return s.sessions.DeleteOldestSessions(ctx, userID, limit)
}

type RefreshInput struct {
	RefreshToken string
	DeviceID     string
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (AuthResult, error) {
	if input.RefreshToken == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	session, err := s.sessions.FindByRefreshHash(ctx, security.TokenDigest(input.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if input.DeviceID != "" && session.DeviceID != input.DeviceID {
		return AuthResult{}, ErrInvalidCredentials
	}
	if session.ExpiresAt.Before(s.now()) {
		_ = s.sessions.DeleteByID(ctx, session.ID)
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	return s.issue(ctx, user, session)
}

func (s *AuthService) Logout(ctx context.Context, userID string, deviceID string) error {
	return s.sessions.DeleteByDevice(ctx, userID, deviceID)
}

// Authorize resolves the user behind validated access token claims. The
// session must still exist so that logout and password resets take effect
// before the access token expires.
func (s *AuthService) Authorize(ctx context.Context, claims *security.AccessClaims) (models.User, error) {
	if _, err := s.sessions.GetByID(ctx, claims.SessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	return user, nil
}

// Touch records activity on a session. Failures are only logged.
func (s *AuthService) Touch(ctx context.Context, sessionID, ip, userAgent string) {
	if err := s.sessions.Touch(ctx, sessionID, ip, userAgent); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("touch session failed")
	}
}

// PurgeExpiredSessions removes sessions whose refresh token has expired.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}
