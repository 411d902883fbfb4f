package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/ids"
	"jhs/backend/internal/mail"
	"jhs/backend/internal/models"
	"jhs/backend/internal/repository"
	"jhs/backend/internal/security"
)

var (
	ErrEmailRequired         = errors.New("email required")
	ErrInvalidResetRequest   = errors.New("invalid request")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrResetMailFailed       = errors.New("reset mail failed")
)

type PasswordResetService struct {
	users  UserStore
	tokens ResetTokenStore
	mailer mail.Sender
	cfg    *config.AppConfig
	log    zerolog.Logger

	now          func() time.Time
	hashPassword func(string) ([]byte, error)
}

func NewPasswordResetService(users UserStore, tokens ResetTokenStore, mailer mail.Sender, cfg *config.AppConfig, log zerolog.Logger) *PasswordResetService {
	return &PasswordResetService{
		users:        users,
		tokens:       tokens,
		mailer:       mailer,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
		hashPassword: security.HashPassword,
	}
}

// RequestReset issues a reset token for email and mails the link. An unknown
// address is not an error and produces neither a token nor a mail.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, hash, err := security.NewResetToken()
	if err != nil {
		return err
	}

	record := models.ResetToken{
		ID:        ids.New(),
		UserID:    user.ID,
		TokenHash: hash,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tokens.Replace(ctx, record); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg, err := mail.PasswordReset(user.Email, s.resetLink(token), formatExpiry(s.cfg.Security.ResetTokenTTL))
	if err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("send reset mail failed")
		return fmt.Errorf("%w: %v", ErrResetMailFailed, err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset link sent")
	return nil
}

// ResetPassword redeems token and stores newPassword for its owner.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" || utf8.RuneCountInString(newPassword) < s.cfg.Security.MinPasswordLength {
		return ErrInvalidResetRequest
	}

	passwordHash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	notBefore := s.now().UTC().Add(-s.cfg.Security.ResetTokenTTL)
	userID, err := s.tokens.Consume(ctx, security.TokenDigest(token), notBefore, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) || errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password reset")
	return nil
}

// PurgeExpired deletes tokens that can no longer be redeemed.
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteCreatedBefore(ctx, s.now().UTC().Add(-s.cfg.Security.ResetTokenTTL))
}

func (s *PasswordResetService) resetLink(token string) string {
	base := strings.TrimSuffix(s.cfg.ClientURL, "/")
	return base + "/reset-password.html?token=" + url.QueryEscape(token)
}

func formatExpiry(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d%time.Minute == 0 && d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
