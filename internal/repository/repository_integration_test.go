//go:build integration

package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/config"
	"jhs/backend/internal/database"
	"jhs/backend/internal/ids"
	"jhs/backend/internal/models"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("JHS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("JHS_TEST_POSTGRES_DSN not set")
	}
	require.NoError(t, database.MigrateUp(dsn))

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, config.PostgresConfig{DSN: dsn, MaxOpen: 10, MaxIdle: 1, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE users, admin_sessions, password_reset_tokens, inquiries, services, projects, site_config CASCADE`)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, users *UserRepository, email string) models.User {
	t.Helper()
	user, err := users.Create(context.Background(), models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: []byte("old-hash"),
		Role:         models.UserRoleAdmin,
	})
	require.NoError(t, err)
	return user
}

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	createUser(t, users, "owner@jhs.example")

	_, err := users.Create(context.Background(), models.User{
		ID:           ids.New(),
		Email:        "owner@jhs.example",
		PasswordHash: []byte("x"),
		Role:         models.UserRoleEditor,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestResetTokenConsumeIsSingleUse(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	tokens := NewResetTokenRepository(pool)
	sessions := NewSessionRepository(pool)
	user := createUser(t, users, "owner@jhs.example")

	require.NoError(t, sessions.Upsert(ctx, models.Session{
		ID:               ids.New(),
		UserID:           user.ID,
		DeviceID:         "laptop",
		RefreshTokenHash: []byte("refresh"),
		ExpiresAt:        time.Now().Add(time.Hour),
	}))

	hash := []byte("token-hash")
	require.NoError(t, tokens.Replace(ctx, models.ResetToken{ID: ids.New(), UserID: user.ID, TokenHash: hash, CreatedAt: time.Now()}))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tokens.Consume(ctx, hash, time.Now().Add(-time.Hour), []byte("new-hash"))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrResetTokenNotFound)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-hash"), stored.PasswordHash)

	count, err := sessions.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestResetTokenConsumeRejectsExpired(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	tokens := NewResetTokenRepository(pool)
	user := createUser(t, users, "owner@jhs.example")

	issued := time.Now().Add(-2 * time.Hour)
	require.NoError(t, tokens.Replace(ctx, models.ResetToken{ID: ids.New(), UserID: user.ID, TokenHash: []byte("old"), CreatedAt: issued}))

	_, err := tokens.Consume(ctx, []byte("old"), time.Now().Add(-time.Hour), []byte("new-hash"))
	assert.ErrorIs(t, err, ErrResetTokenNotFound)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("old-hash"), stored.PasswordHash)

	purged, err := tokens.DeleteCreatedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestResetTokenReplaceSupersedesOlderTokens(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	tokens := NewResetTokenRepository(pool)
	user := createUser(t, users, "owner@jhs.example")

	require.NoError(t, tokens.Replace(ctx, models.ResetToken{ID: ids.New(), UserID: user.ID, TokenHash: []byte("first"), CreatedAt: time.Now()}))
	require.NoError(t, tokens.Replace(ctx, models.ResetToken{ID: ids.New(), UserID: user.ID, TokenHash: []byte("second"), CreatedAt: time.Now()}))

	count, err := tokens.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = tokens.Consume(ctx, []byte("first"), time.Now().Add(-time.Hour), []byte("x"))
	assert.ErrorIs(t, err, ErrResetTokenNotFound)
}

func TestProjectRepositoryOrdering(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	projects := NewProjectRepository(pool)

	year := func(y int) *int { return &y }
	for _, p := range []struct {
		title string
		year  *int
	}{
		{"A", year(2022)},
		{"B", nil},
		{"C", year(2024)},
		{"D", year(2022)},
		{"E", nil},
	} {
		_, err := projects.Create(ctx, models.Project{ID: ids.New(), Title: p.title, Year: p.year, Description: "d"})
		require.NoError(t, err)
	}

	list, err := projects.List(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, p := range list {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"C", "A", "D", "B", "E"}, titles)
}

func TestInquiryRepositoryNewestFirst(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	inquiries := NewInquiryRepository(pool)

	for _, name := range []string{"first", "second", "third"} {
		_, err := inquiries.Create(ctx, models.Inquiry{ID: ids.New(), Name: name, Email: name + "@example.com", Message: "hi"})
		require.NoError(t, err)
	}

	list, err := inquiries.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, "second", list[1].Name)

	total, err := inquiries.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	require.NoError(t, inquiries.Delete(ctx, list[0].ID))
	assert.ErrorIs(t, inquiries.Delete(ctx, list[0].ID), ErrInquiryNotFound)
}

func TestSiteConfigCreateIfMissingKeepsEdits(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewSiteConfigRepository(pool)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrSiteConfigNotFound)

	created, err := repo.CreateIfMissing(ctx, models.SiteConfig{CompanyName: "Default"})
	require.NoError(t, err)
	assert.True(t, created)

	_, err = repo.Upsert(ctx, models.SiteConfig{CompanyName: "Edited"})
	require.NoError(t, err)

	created, err = repo.CreateIfMissing(ctx, models.SiteConfig{CompanyName: "Default"})
	require.NoError(t, err)
	assert.False(t, created)

	cfg, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Edited", cfg.CompanyName)
}
