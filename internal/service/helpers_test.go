package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/config"
	"jhs/backend/internal/mail"
	"jhs/backend/internal/security"
)

var fastArgon = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func fastHash(password string) ([]byte, error) {
	return security.HashPasswordWithParams(password, fastArgon)
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		ClientURL:   "https://jhs.example",
		Mail: config.MailConfig{
			Username:    "smtp-user@jhs.example",
			NotifyEmail: "owner@jhs.example",
		},
		Uploads: config.UploadsConfig{MaxBytes: 5 << 20},
		Security: config.SecurityConfig{
			JWTAccessSecret:   "test-secret",
			JWTAccessTTL:      15 * time.Minute,
			JWTRefreshTTL:     24 * time.Hour,
			MaxSessions:       2,
			ResetTokenTTL:     time.Hour,
			MinPasswordLength: 8,
		},
	}
}

// recordingSender captures messages and optionally fails every send.
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

var errSMTPDown = errors.New("smtp down")

var tokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

func tokenFromMessage(t *testing.T, msg mail.Message) string {
	t.Helper()
	match := tokenPattern.FindStringSubmatch(msg.HTML)
	require.Len(t, match, 2, "reset link not found in %q", msg.HTML)
	return match[1]
}

var nopLog = zerolog.Nop()
