package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/models"
	"jhs/backend/internal/repository/memrepo"
	"jhs/backend/internal/security"
)

func newAuthFixture(t *testing.T) (*AuthService, *memrepo.DB, models.User) {
	t.Helper()
	db := memrepo.New()
	hash, err := fastHash("s3cret-pass")
	require.NoError(t, err)
	user, err := db.Users().Create(context.Background(), models.User{
		ID: "user-1", Email: "editor@jhs.example", PasswordHash: hash, Role: models.UserRoleEditor, Name: "Editor",
	})
	require.NoError(t, err)
	return NewAuthService(db.Users(), db.Sessions(), testConfig(), nopLog), db, user
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, user := newAuthFixture(t)

	result, err := svc.Login(context.Background(), LoginInput{Email: " EDITOR@jhs.example", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEmpty(t, result.DeviceID)

	claims, err := security.ParseAccessToken(result.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "editor", claims.Role)

	authorized, err := svc.Authorize(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authorized.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginInput{Email: "editor@jhs.example", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@jhs.example", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginEnforcesSessionLimit(t *testing.T) {
	svc, db, user := newAuthFixture(t)
	ctx := context.Background()

	for _, device := range []string{"a", "b", "c"} {
		_, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "s3cret-pass", DeviceID: device})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	count, err := db.Sessions().CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, user := newAuthFixture(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "s3cret-pass", DeviceID: "laptop"})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, RefreshInput{RefreshToken: first.RefreshToken, DeviceID: "laptop"})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: first.RefreshToken, DeviceID: "laptop"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: second.RefreshToken, DeviceID: "phone"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	svc, _, user := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: result.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesAccessToken(t *testing.T) {
	svc, _, user := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "s3cret-pass", DeviceID: "laptop"})
	require.NoError(t, err)
	claims, err := security.ParseAccessToken(result.AccessToken, "test-secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID, "laptop"))
	_, err = svc.Authorize(ctx, claims)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPurgeExpiredSessions(t *testing.T) {
	svc, db, user := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, db.Sessions().Upsert(ctx, models.Session{ID: "old", UserID: user.ID, DeviceID: "x", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, db.Sessions().Upsert(ctx, models.Session{ID: "live", UserID: user.ID, DeviceID: "y", ExpiresAt: time.Now().Add(time.Hour)}))

	removed, err := svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}
