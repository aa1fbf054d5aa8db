package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trashtdl/todosync-server/internal/model"
)

var _ model.SignupStore = (*SignupRepository)(nil)

type SignupRepository struct {
	db *Connection
}

func NewSignupRepository(db *Connection) *SignupRepository {
	return &SignupRepository{
		db: db,
	}
}

func (r *SignupRepository) Create(ctx context.Context, pending model.PendingRegistration) error {
	query := `INSERT INTO pending_registrations (id, email, username, password_hash, verification_code, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		pending.ID, pending.Email, pending.Username, pending.PasswordHash,
		pending.VerificationCode, pending.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pending registration: %w", err)
	}

	return nil
}

func (r *SignupRepository) GetByCode(ctx context.Context, code string) (model.PendingRegistration, error) {
	var pending model.PendingRegistration
	query := `SELECT id, email, username, password_hash, verification_code, created_at
			  FROM pending_registrations WHERE verification_code = $1`

	err := r.db.QueryRow(ctx, query, code).Scan(
		&pending.ID, &pending.Email, &pending.Username, &pending.PasswordHash,
		&pending.VerificationCode, &pending.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PendingRegistration{}, model.ErrNotFound
		}
		return model.PendingRegistration{}, fmt.Errorf("failed to get pending registration by code: %w", err)
	}

	return pending, nil
}

func (r *SignupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM pending_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pending registration: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SignupRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pending_registrations WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending email: %w", err)
	}
	return exists, nil
}

func (r *SignupRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pending_registrations WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending username: %w", err)
	}
	return exists, nil
}
