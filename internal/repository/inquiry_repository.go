package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jhs/backend/internal/models"
)

var ErrInquiryNotFound = errors.New("inquiry not found")

const inquiryColumns = `id, name, email, phone, project_type, message, created_at`

type InquiryRepository struct {
	pool *pgxpool.Pool
}

func NewInquiryRepository(pool *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{pool: pool}
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry models.Inquiry) (models.Inquiry, error) {
	query := `
		INSERT INTO inquiries (id, name, email, phone, project_type, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + inquiryColumns
	return scanInquiry(r.pool.QueryRow(ctx, query,
		inquiry.ID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.ProjectType,
		inquiry.Message,
	))
}

func (r *InquiryRepository) List(ctx context.Context, limit, offset int) ([]models.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inquiries := make([]models.Inquiry, 0)
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, rows.Err()
}

func (r *InquiryRepository) GetByID(ctx context.Context, id string) (models.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`
	return scanInquiry(r.pool.QueryRow(ctx, query, id))
}

func (r *InquiryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

func (r *InquiryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&count)
	return count, err
}

func scanInquiry(row pgx.Row) (models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := row.Scan(
		&inquiry.ID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.ProjectType,
		&inquiry.Message,
		&inquiry.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Inquiry{}, ErrInquiryNotFound
		}
		return models.Inquiry{}, err
	}
	return inquiry, nil
}
