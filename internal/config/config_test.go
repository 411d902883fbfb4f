package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JHS_POSTGRES_DSN", "postgres://jhs@localhost/jhs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://jebessafrontend.vercel.app"}, cfg.HTTP.CORSOrigins)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
	assert.Equal(t, StorageDriverDisk, cfg.Storage.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Uploads.MaxBytes)
	assert.Equal(t, time.Hour, cfg.Security.ResetTokenTTL)
	assert.Equal(t, 10, cfg.RateLimit.ContactLimit)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.ContactWindow)
	assert.True(t, cfg.Jobs.InProcess)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("JHS_POSTGRES_DSN", "postgres://jhs@localhost/jhs")
	t.Setenv("JHS_HTTP_CORSORIGINS", "https://a.example,https://b.example")
	t.Setenv("JHS_SECURITY_RESETTOKENTTL", "30m")
	t.Setenv("JHS_MAIL_NOTIFYEMAIL", "owner@jhs.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Security.ResetTokenTTL)
	assert.Equal(t, "owner@jhs.example", cfg.Mail.NotifyAddress())
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("JHS_POSTGRES_DSN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "postgres.dsn")
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			Postgres:  PostgresConfig{DSN: "postgres://x"},
			Storage:   StorageConfig{Driver: StorageDriverMinio},
			Security:  SecurityConfig{MinPasswordLength: 8},
			RateLimit: RateLimitConfig{ContactLimit: 10, ContactWindow: time.Minute},
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Storage.Driver = "s3"
	assert.ErrorContains(t, cfg.Validate(), "storage.driver")

	cfg = valid()
	cfg.Security.MinPasswordLength = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RateLimit.ContactWindow = 0
	assert.Error(t, cfg.Validate())
}

func TestNotifyAddressFallsBackToUsername(t *testing.T) {
	assert.Equal(t, "smtp@jhs.example", MailConfig{Username: "smtp@jhs.example"}.NotifyAddress())
	assert.Equal(t, "owner@jhs.example", MailConfig{Username: "smtp@jhs.example", NotifyEmail: "owner@jhs.example"}.NotifyAddress())
}
