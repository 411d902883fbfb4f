package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jhs/backend/internal/models"
)

var ErrServiceNotFound = errors.New("service not found")

const serviceColumns = `id, title, description, image, created_at, updated_at`

type ServiceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

// List returns every service, newest first.
func (r *ServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY created_at DESC, seq DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]models.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	return scanService(r.pool.QueryRow(ctx, query, id))
}

func (r *ServiceRepository) Create(ctx context.Context, service models.Service) (models.Service, error) {
	query := `
		INSERT INTO services (id, title, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + serviceColumns
	return scanService(r.pool.QueryRow(ctx, query, service.ID, service.Title, service.Description, service.Image))
}

func (r *ServiceRepository) Update(ctx context.Context, service models.Service) (models.Service, error) {
	query := `
		UPDATE services
		SET title = $2, description = $3, image = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + serviceColumns
	return scanService(r.pool.QueryRow(ctx, query, service.ID, service.Title, service.Description, service.Image))
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&count)
	return count, err
}

func scanService(row pgx.Row) (models.Service, error) {
	var service models.Service
	if err := row.Scan(
		&service.ID,
		&service.Title,
		&service.Description,
		&service.Image,
		&service.CreatedAt,
		&service.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Service{}, ErrServiceNotFound
		}
		return models.Service{}, err
	}
	return service, nil
}
