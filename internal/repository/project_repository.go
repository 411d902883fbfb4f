package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jhs/backend/internal/models"
)

var ErrProjectNotFound = errors.New("project not found")

const projectColumns = `id, title, location, year, type, description, image, badge, created_at, updated_at`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// List returns projects by year, most recent first. Projects without a year
// come last and equal years keep insertion order.
func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY year DESC NULLS LAST, seq ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *ProjectRepository) Create(ctx context.Context, project models.Project) (models.Project, error) {
	query := `
		INSERT INTO projects (id, title, location, year, type, description, image, badge, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query,
		project.ID,
		project.Title,
		project.Location,
		project.Year,
		project.Type,
		project.Description,
		project.Image,
		project.Badge,
	))
}

func (r *ProjectRepository) Update(ctx context.Context, project models.Project) (models.Project, error) {
	query := `
		UPDATE projects
		SET title = $2,
		    location = $3,
		    year = $4,
		    type = $5,
		    description = $6,
		    image = $7,
		    badge = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query,
		project.ID,
		project.Title,
		project.Location,
		project.Year,
		project.Type,
		project.Description,
		project.Image,
		project.Badge,
	))
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}

func scanProject(row pgx.Row) (models.Project, error) {
	var project models.Project
	if err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Location,
		&project.Year,
		&project.Type,
		&project.Description,
		&project.Image,
		&project.Badge,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}
	return project, nil
}
