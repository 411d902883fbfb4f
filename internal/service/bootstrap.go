package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/models"
)

// DefaultSiteConfig is written on first start when no config exists.
func DefaultSiteConfig() models.SiteConfig {
	return models.SiteConfig{
		CompanyName:    "JHS Engineering and Trade",
		HeroTagline:    "Building Ethiopia's Future, One Project at a Time",
		HeroSubtitle:   "Premier construction company delivering excellence in commercial, residential, and infrastructure projects across Ethiopia with over 15 years of trusted expertise.",
		HeroButton:     "Get Started",
		AboutIntro:     "Leading construction and engineering company owned by Jebessa Shegu Jetu, delivering excellence across Ethiopia.",
		VisionText:     "To be the leading construction company in Ethiopia, recognized for transforming the nation's landscape through innovative, sustainable, and world-class infrastructure projects.",
		MissionText:    "To deliver exceptional construction projects that exceed client expectations through skilled craftsmanship, cutting-edge technology, and uncompromising safety standards.",
		ContactAddress: "Akaki Kality Sub-City<br>Addis Ababa, Ethiopia",
		ContactPhone:   "+251 94 972 7279",
		ContactEmail:   "info@jhsengineering.com",
		FooterText:     "© 2026 JHS Engineering and Trade. All rights reserved. | Owned by Jebessa Shegu Jetu",
	}
}

// Bootstrap seeds the default admin account and site config.
func Bootstrap(ctx context.Context, users *UserService, siteConfig SiteConfigStore, cfg *config.AppConfig, log zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Info().Msg("admin credentials not configured, skipping default admin")
	} else {
		created, err := users.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		if created {
			log.Info().Str("email", normalizeEmail(cfg.Admin.Email)).Msg("default admin created")
		}
	}

	created, err := siteConfig.CreateIfMissing(ctx, DefaultSiteConfig())
	if err != nil {
		return fmt.Errorf("ensure site config: %w", err)
	}
	if created {
		log.Info().Msg("default site config created")
	}
	return nil
}
