package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager signs and decodes session credentials.
type TokenManager interface {
	Issue(subjectID uuid.UUID, subjectLabel string, now time.Time) (string, error)
	Decode(token string, now time.Time) (TokenClaims, error)
}

// TokenClaims is the verified content of a session credential.
type TokenClaims struct {
	SubjectID    uuid.UUID
	SubjectLabel string
	ExpiresAt    time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	AccountID uuid.UUID
}
