package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/trashtdl/todosync-server/internal/model"
)

// TokenManager is a testify mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Issue(subjectID uuid.UUID, subjectLabel string, now time.Time) (string, error) {
	args := m.Called(subjectID, subjectLabel, now)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Decode(token string, now time.Time) (model.TokenClaims, error) {
	args := m.Called(token, now)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}

// Mailer is a testify mock of model.Mailer.
type Mailer struct {
	mock.Mock
}

func (m *Mailer) SendVerification(ctx context.Context, to, code string) error {
	args := m.Called(ctx, to, code)
	return args.Error(0)
}

// PasswordHasher is a testify mock of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// Clock is a fixed-instant model.Clock for deterministic tests.
type Clock struct {
	Instant time.Time
}

func (c *Clock) Now() time.Time {
	return c.Instant
}
