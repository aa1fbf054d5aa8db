package model

import (
	"context"
	"time"
)

// PasswordHasher is the injected one-way hash used for account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Mailer delivers outbound verification email.
type Mailer interface {
	SendVerification(ctx context.Context, to, code string) error
}

// Clock supplies the current instant. Injected so expiry and ordering logic
// stay deterministic under test.
type Clock interface {
	Now() time.Time
}
