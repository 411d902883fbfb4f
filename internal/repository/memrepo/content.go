package memrepo

import (
	"context"
	"sort"

	"jhs/backend/internal/models"
	"jhs/backend/internal/repository"
)

type Inquiries struct{ db *DB }

func (db *DB) Inquiries() *Inquiries { return &Inquiries{db: db} }

func (r *Inquiries) Create(_ context.Context, inquiry models.Inquiry) (models.Inquiry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inquiry.CreatedAt = r.db.Now()
	r.db.inquiries[inquiry.ID] = seqInquiry{seq: r.db.next(), Inquiry: inquiry}
	return inquiry, nil
}

func (r *Inquiries) List(_ context.Context, limit, offset int) ([]models.Inquiry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := make([]seqInquiry, 0, len(r.db.inquiries))
	for _, row := range r.db.inquiries {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	inquiries := make([]models.Inquiry, 0, len(rows))
	for i := offset; i < len(rows) && (limit <= 0 || len(inquiries) < limit); i++ {
		inquiries = append(inquiries, rows[i].Inquiry)
	}
	return inquiries, nil
}

func (r *Inquiries) GetByID(_ context.Context, id string) (models.Inquiry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.inquiries[id]
	if !ok {
		return models.Inquiry{}, repository.ErrInquiryNotFound
	}
	return row.Inquiry, nil
}

func (r *Inquiries) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.inquiries[id]; !ok {
		return repository.ErrInquiryNotFound
	}
	delete(r.db.inquiries, id)
	return nil
}

func (r *Inquiries) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.inquiries)), nil
}

type Services struct{ db *DB }

func (db *DB) Services() *Services { return &Services{db: db} }

func (r *Services) List(context.Context) ([]models.Service, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := make([]seqService, 0, len(r.db.services))
	for _, row := range r.db.services {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	services := make([]models.Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, row.Service)
	}
	return services, nil
}

func (r *Services) GetByID(_ context.Context, id string) (models.Service, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.services[id]
	if !ok {
		return models.Service{}, repository.ErrServiceNotFound
	}
	return row.Service, nil
}

func (r *Services) Create(_ context.Context, service models.Service) (models.Service, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := r.db.Now()
	service.CreatedAt, service.UpdatedAt = now, now
	r.db.services[service.ID] = seqService{seq: r.db.next(), Service: service}
	return service, nil
}

func (r *Services) Update(_ context.Context, service models.Service) (models.Service, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.services[service.ID]
	if !ok {
		return models.Service{}, repository.ErrServiceNotFound
	}
	service.CreatedAt = row.CreatedAt
	service.UpdatedAt = r.db.Now()
	row.Service = service
	r.db.services[service.ID] = row
	return service, nil
}

func (r *Services) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.services[id]; !ok {
		return repository.ErrServiceNotFound
	}
	delete(r.db.services, id)
	return nil
}

func (r *Services) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.services)), nil
}

type Projects struct{ db *DB }

func (db *DB) Projects() *Projects { return &Projects{db: db} }

// List mirrors ORDER BY year DESC NULLS LAST, seq ASC.
func (r *Projects) List(context.Context) ([]models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := make([]seqProject, 0, len(r.db.projects))
	for _, row := range r.db.projects {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Year != nil && b.Year != nil && *a.Year != *b.Year:
			return *a.Year > *b.Year
		case a.Year != nil && b.Year == nil:
			return true
		case a.Year == nil && b.Year != nil:
			return false
		}
		return a.seq < b.seq
	})
	projects := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.Project)
	}
	return projects, nil
}

func (r *Projects) GetByID(_ context.Context, id string) (models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.projects[id]
	if !ok {
		return models.Project{}, repository.ErrProjectNotFound
	}
	return row.Project, nil
}

func (r *Projects) Create(_ context.Context, project models.Project) (models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := r.db.Now()
	project.CreatedAt, project.UpdatedAt = now, now
	r.db.projects[project.ID] = seqProject{seq: r.db.next(), Project: project}
	return project, nil
}

func (r *Projects) Update(_ context.Context, project models.Project) (models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.projects[project.ID]
	if !ok {
		return models.Project{}, repository.ErrProjectNotFound
	}
	project.CreatedAt = row.CreatedAt
	project.UpdatedAt = r.db.Now()
	row.Project = project
	r.db.projects[project.ID] = row
	return project, nil
}

func (r *Projects) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(r.db.projects, id)
	return nil
}

func (r *Projects) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.projects)), nil
}

type SiteConfig struct{ db *DB }

func (db *DB) SiteConfig() *SiteConfig { return &SiteConfig{db: db} }

func (r *SiteConfig) Get(context.Context) (models.SiteConfig, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.config == nil {
		return models.SiteConfig{}, repository.ErrSiteConfigNotFound
	}
	return *r.db.config, nil
}

func (r *SiteConfig) Upsert(_ context.Context, cfg models.SiteConfig) (models.SiteConfig, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := r.db.Now()
	cfg.CreatedAt = now
	if r.db.config != nil {
		cfg.CreatedAt = r.db.config.CreatedAt
	}
	cfg.UpdatedAt = now
	r.db.config = &cfg
	return cfg, nil
}

func (r *SiteConfig) CreateIfMissing(_ context.Context, cfg models.SiteConfig) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.config != nil {
		return false, nil
	}
	now := r.db.Now()
	cfg.CreatedAt, cfg.UpdatedAt = now, now
	r.db.config = &cfg
	return true, nil
}
