package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VerificationCodeTTL is how long a pending registration stays redeemable.
const VerificationCodeTTL = 15 * time.Minute

// SignupStore persists registrations awaiting email verification.
type SignupStore interface {
	Create(ctx context.Context, pending PendingRegistration) error
	GetByCode(ctx context.Context, code string) (PendingRegistration, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// PendingRegistration describes a registration that has not been verified yet.
// It is consumed on successful verification or discarded once the code expires.
type PendingRegistration struct {
	ID               uuid.UUID
	Email            string
	Username         string
	PasswordHash     string
	VerificationCode string
	CreatedAt        time.Time
}
