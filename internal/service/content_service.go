package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"jhs/backend/internal/ids"
	"jhs/backend/internal/models"
	"jhs/backend/internal/repository"
)

var ErrInvalidContent = errors.New("invalid content")

const (
	cacheServices   = "services"
	cacheProjects   = "projects"
	cacheSiteConfig = "config"
)

// ContentService serves the public site content and applies admin edits to it.
type ContentService struct {
	services ServiceStore
	projects ProjectStore
	config   SiteConfigStore
	cache    ContentCache
	log      zerolog.Logger
}

func NewContentService(services ServiceStore, projects ProjectStore, config SiteConfigStore, cache ContentCache, log zerolog.Logger) *ContentService {
	return &ContentService{
		services: services,
		projects: projects,
		config:   config,
		cache:    cache,
		log:      log,
	}
}

func (s *ContentService) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if s.cached(ctx, cacheServices, &services) {
		return services, nil
	}

	services, err := s.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	s.store(ctx, cacheServices, services)
	return services, nil
}

func (s *ContentService) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if s.cached(ctx, cacheProjects, &projects) {
		return projects, nil
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	s.store(ctx, cacheProjects, projects)
	return projects, nil
}

// SiteConfig returns the singleton config. found is false when it was never created.
func (s *ContentService) SiteConfig(ctx context.Context) (cfg models.SiteConfig, found bool, err error) {
	if s.cached(ctx, cacheSiteConfig, &cfg) {
		return cfg, true, nil
	}

	cfg, err = s.config.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSiteConfigNotFound) {
			return models.SiteConfig{}, false, nil
		}
		return models.SiteConfig{}, false, fmt.Errorf("get config: %w", err)
	}
	s.store(ctx, cacheSiteConfig, cfg)
	return cfg, true, nil
}

func (s *ContentService) UpdateSiteConfig(ctx context.Context, cfg models.SiteConfig) (models.SiteConfig, error) {
	updated, err := s.config.Upsert(ctx, cfg)
	if err != nil {
		return models.SiteConfig{}, fmt.Errorf("update config: %w", err)
	}
	s.invalidate(ctx, cacheSiteConfig)
	return updated, nil
}

type ServiceInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

func (in ServiceInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: title and description are required", ErrInvalidContent)
	}
	return nil
}

func (s *ContentService) GetService(ctx context.Context, id string) (models.Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *ContentService) CreateService(ctx context.Context, in ServiceInput) (models.Service, error) {
	if err := in.validate(); err != nil {
		return models.Service{}, err
	}
	created, err := s.services.Create(ctx, models.Service{
		ID:          ids.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       optionalPtr(in.Image),
	})
	if err != nil {
		return models.Service{}, fmt.Errorf("create service: %w", err)
	}
	s.invalidate(ctx, cacheServices)
	return created, nil
}

func (s *ContentService) UpdateService(ctx context.Context, id string, in ServiceInput) (models.Service, error) {
	if err := in.validate(); err != nil {
		return models.Service{}, err
	}
	updated, err := s.services.Update(ctx, models.Service{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       optionalPtr(in.Image),
	})
	if err != nil {
		return models.Service{}, err
	}
	s.invalidate(ctx, cacheServices)
	return updated, nil
}

func (s *ContentService) DeleteService(ctx context.Context, id string) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cacheServices)
	return nil
}

type ProjectInput struct {
	Title       string  `json:"title"`
	Location    *string `json:"location"`
	Year        *int    `json:"year"`
	Type        *string `json:"type"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	Badge       *string `json:"badge"`
}

func (in ProjectInput) project(id string) (models.Project, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return models.Project{}, fmt.Errorf("%w: title and description are required", ErrInvalidContent)
	}

	project := models.Project{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Location:    optionalPtr(in.Location),
		Year:        in.Year,
		Description: in.Description,
		Image:       optionalPtr(in.Image),
		Badge:       optionalPtr(in.Badge),
	}
	if t := optionalPtr(in.Type); t != nil {
		pt := models.ProjectType(*t)
		if !pt.Valid() {
			return models.Project{}, fmt.Errorf("%w: unknown project type %q", ErrInvalidContent, *t)
		}
		project.Type = &pt
	}
	return project, nil
}

func (s *ContentService) GetProject(ctx context.Context, id string) (models.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *ContentService) CreateProject(ctx context.Context, in ProjectInput) (models.Project, error) {
	project, err := in.project(ids.New())
	if err != nil {
		return models.Project{}, err
	}
	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	s.invalidate(ctx, cacheProjects)
	return created, nil
}

func (s *ContentService) UpdateProject(ctx context.Context, id string, in ProjectInput) (models.Project, error) {
	project, err := in.project(id)
	if err != nil {
		return models.Project{}, err
	}
	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return models.Project{}, err
	}
	s.invalidate(ctx, cacheProjects)
	return updated, nil
}

func (s *ContentService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cacheProjects)
	return nil
}

func (s *ContentService) cached(ctx context.Context, name string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, name, dst)
	if err != nil {
		s.log.Warn().Err(err).Str("cache", name).Msg("content cache read failed")
		return false
	}
	return ok
}

func (s *ContentService) store(ctx context.Context, name string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, name, value); err != nil {
		s.log.Warn().Err(err).Str("cache", name).Msg("content cache write failed")
	}
}

func (s *ContentService) invalidate(ctx context.Context, names ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, names...); err != nil {
		s.log.Warn().Err(err).Strs("cache", names).Msg("content cache invalidation failed")
	}
}

func optionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optionalString(*s)
}

// Stats are the record counts shown on the admin dashboard.
type Stats struct {
	Inquiries int64 `json:"inquiries"`
	Projects  int64 `json:"projects"`
	Services  int64 `json:"services"`
}

type DashboardService struct {
	inquiries InquiryStore
	projects  ProjectStore
	services  ServiceStore
}

func NewDashboardService(inquiries InquiryStore, projects ProjectStore, services ServiceStore) *DashboardService {
	return &DashboardService{inquiries: inquiries, projects: projects, services: services}
}

func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.Inquiries, err = s.inquiries.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count inquiries: %w", err)
	}
	if stats.Projects, err = s.projects.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count projects: %w", err)
	}
	if stats.Services, err = s.services.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count services: %w", err)
	}
	return stats, nil
}

