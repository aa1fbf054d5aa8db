package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	GetBySubject(ctx context.Context, subject string) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
}

// AccountStatus marks whether an account may authenticate.
type AccountStatus string

const (
	// AccountActive is a verified account in good standing.
	AccountActive AccountStatus = "active"
	// AccountDisabled is a soft-deleted account; credentials for it no longer validate.
	AccountDisabled AccountStatus = "disabled"
)

// Account represents a verified user account.
type Account struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// Identity is the authenticated view of an account handed to request handlers.
type Identity struct {
	AccountID uuid.UUID
	Email     string
	Username  string
}
