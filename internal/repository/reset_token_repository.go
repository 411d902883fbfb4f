package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jhs/backend/internal/database"
	"jhs/backend/internal/models"
)

var ErrResetTokenNotFound = errors.New("reset token not found")

type ResetTokenRepository struct {
	pool *pgxpool.Pool
}

func NewResetTokenRepository(pool *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{pool: pool}
}

// Replace stores token and drops every other outstanding token of the same user.
func (r *ResetTokenRepository) Replace(ctx context.Context, token models.ResetToken) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, token.UserID); err != nil {
			return fmt.Errorf("delete previous tokens: %w", err)
		}

		const insert = `
			INSERT INTO password_reset_tokens (id, user_id, token_hash, created_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, insert, token.ID, token.UserID, token.TokenHash, token.CreatedAt); err != nil {
			return fmt.Errorf("insert token: %w", err)
		}
		return nil
	})
}

// Consume deletes the token matching tokenHash if it was created after
// notBefore, then stores passwordHash on its owner and revokes the owner's
// admin sessions. The delete and the password write share one transaction;
// concurrent callers with the same token serialize on the row lock and only
// one of them observes the deleted row.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenHash []byte, notBefore time.Time, passwordHash []byte) (string, error) {
	var (
		userID      string
		missingUser bool
	)

	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const claim = `
			DELETE FROM password_reset_tokens
			WHERE token_hash = $1 AND created_at > $2
			RETURNING user_id
		`
		if err := tx.QueryRow(ctx, claim, tokenHash, notBefore).Scan(&userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrResetTokenNotFound
			}
			return fmt.Errorf("claim token: %w", err)
		}

		cmd, err := tx.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, userID, passwordHash)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			// keep the token deletion, there is nothing left to reset
			missingUser = true
			return nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM admin_sessions WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if missingUser {
		return "", ErrUserNotFound
	}
	return userID, nil
}

// DeleteCreatedBefore purges tokens created before cutoff.
func (r *ResetTokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE created_at <= $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ResetTokenRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM password_reset_tokens WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
