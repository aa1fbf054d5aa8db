package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trashtdl/todosync-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (r *AccountRepository) GetBySubject(ctx context.Context, subject string) (model.Account, error) {
	var account model.Account
	query := `SELECT id, email, username, password_hash, status, created_at, deleted_at
			  FROM accounts WHERE email = $1 OR username = $1`

	err := r.db.QueryRow(ctx, query, subject).Scan(
		&account.ID, &account.Email, &account.Username, &account.PasswordHash,
		&account.Status, &account.CreatedAt, &account.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by subject: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	var account model.Account
	query := `SELECT id, email, username, password_hash, status, created_at, deleted_at
			  FROM accounts WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&account.ID, &account.Email, &account.Username, &account.PasswordHash,
		&account.Status, &account.CreatedAt, &account.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (id, email, username, password_hash, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, email, username, password_hash, status, created_at, deleted_at`

	var saved model.Account
	err := r.db.QueryRow(ctx, query,
		account.ID, account.Email, account.Username, account.PasswordHash,
		account.Status, account.CreatedAt,
	).Scan(
		&saved.ID, &saved.Email, &saved.Username, &saved.PasswordHash,
		&saved.Status, &saved.CreatedAt, &saved.DeletedAt,
	)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}
