package service

import (
	"context"
	"time"

	"jhs/backend/internal/models"
)

// The interfaces below are satisfied by the Postgres repositories in
// internal/repository and by the in-memory ones in internal/repository/memrepo.

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type ResetTokenStore interface {
	Replace(ctx context.Context, token models.ResetToken) error
	Consume(ctx context.Context, tokenHash []byte, notBefore time.Time, passwordHash []byte) (string, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SessionStore interface {
	Upsert(ctx context.Context, session models.Session) error
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteOldestSessions(ctx context.Context, userID string, keepLatest int) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	FindByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByDevice(ctx context.Context, userID string, deviceID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Touch(ctx context.Context, sessionID string, ip string, userAgent string) error
}

type InquiryStore interface {
	Create(ctx context.Context, inquiry models.Inquiry) (models.Inquiry, error)
	List(ctx context.Context, limit, offset int) ([]models.Inquiry, error)
	GetByID(ctx context.Context, id string) (models.Inquiry, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ServiceStore interface {
	List(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id string) (models.Service, error)
	Create(ctx context.Context, service models.Service) (models.Service, error)
	Update(ctx context.Context, service models.Service) (models.Service, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ProjectStore interface {
	List(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (models.Project, error)
	Create(ctx context.Context, project models.Project) (models.Project, error)
	Update(ctx context.Context, project models.Project) (models.Project, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type SiteConfigStore interface {
	Get(ctx context.Context) (models.SiteConfig, error)
	Upsert(ctx context.Context, cfg models.SiteConfig) (models.SiteConfig, error)
	CreateIfMissing(ctx context.Context, cfg models.SiteConfig) (bool, error)
}

// ContentCache is a read-through cache for public content.
type ContentCache interface {
	Get(ctx context.Context, name string, dst any) (bool, error)
	Set(ctx context.Context, name string, value any) error
	Invalidate(ctx context.Context, names ...string) error
}
