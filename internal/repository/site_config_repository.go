package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jhs/backend/internal/models"
)

var ErrSiteConfigNotFound = errors.New("site config not found")

const siteConfigColumns = `company_name, hero_tagline, hero_subtitle, hero_button, about_intro, vision_text,
	mission_text, contact_address, contact_phone, contact_email, footer_text, created_at, updated_at`

type SiteConfigRepository struct {
	pool *pgxpool.Pool
}

func NewSiteConfigRepository(pool *pgxpool.Pool) *SiteConfigRepository {
	return &SiteConfigRepository{pool: pool}
}

func (r *SiteConfigRepository) Get(ctx context.Context) (models.SiteConfig, error) {
	query := `SELECT ` + siteConfigColumns + ` FROM site_config WHERE singleton`
	return scanSiteConfig(r.pool.QueryRow(ctx, query))
}

// Upsert writes the singleton row, creating it when absent.
func (r *SiteConfigRepository) Upsert(ctx context.Context, cfg models.SiteConfig) (models.SiteConfig, error) {
	query := `
		INSERT INTO site_config (
			singleton, company_name, hero_tagline, hero_subtitle, hero_button, about_intro, vision_text,
			mission_text, contact_address, contact_phone, contact_email, footer_text, created_at, updated_at
		) VALUES (
			TRUE, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
		ON CONFLICT (singleton) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			hero_tagline = EXCLUDED.hero_tagline,
			hero_subtitle = EXCLUDED.hero_subtitle,
			hero_button = EXCLUDED.hero_button,
			about_intro = EXCLUDED.about_intro,
			vision_text = EXCLUDED.vision_text,
			mission_text = EXCLUDED.mission_text,
			contact_address = EXCLUDED.contact_address,
			contact_phone = EXCLUDED.contact_phone,
			contact_email = EXCLUDED.contact_email,
			footer_text = EXCLUDED.footer_text,
			updated_at = NOW()
		RETURNING ` + siteConfigColumns
	return scanSiteConfig(r.pool.QueryRow(ctx, query, siteConfigArgs(cfg)...))
}

// CreateIfMissing inserts cfg only when no row exists and reports whether it did.
func (r *SiteConfigRepository) CreateIfMissing(ctx context.Context, cfg models.SiteConfig) (bool, error) {
	const query = `
		INSERT INTO site_config (
			singleton, company_name, hero_tagline, hero_subtitle, hero_button, about_intro, vision_text,
			mission_text, contact_address, contact_phone, contact_email, footer_text, created_at, updated_at
		) VALUES (
			TRUE, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
		ON CONFLICT (singleton) DO NOTHING
	`
	cmd, err := r.pool.Exec(ctx, query, siteConfigArgs(cfg)...)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func siteConfigArgs(cfg models.SiteConfig) []any {
	return []any{
		cfg.CompanyName,
		cfg.HeroTagline,
		cfg.HeroSubtitle,
		cfg.HeroButton,
		cfg.AboutIntro,
		cfg.VisionText,
		cfg.MissionText,
		cfg.ContactAddress,
		cfg.ContactPhone,
		cfg.ContactEmail,
		cfg.FooterText,
	}
}

func scanSiteConfig(row pgx.Row) (models.SiteConfig, error) {
	var cfg models.SiteConfig
	if err := row.Scan(
		&cfg.CompanyName,
		&cfg.HeroTagline,
		&cfg.HeroSubtitle,
		&cfg.HeroButton,
		&cfg.AboutIntro,
		&cfg.VisionText,
		&cfg.MissionText,
		&cfg.ContactAddress,
		&cfg.ContactPhone,
		&cfg.ContactEmail,
		&cfg.FooterText,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SiteConfig{}, ErrSiteConfigNotFound
		}
		return models.SiteConfig{}, err
	}
	return cfg, nil
}
