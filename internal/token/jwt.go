package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/trashtdl/todosync-server/internal/model"
)

// Claims represents JWT claims carrying the account ID alongside the subject
// label (email or username) in the registered subject field.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
}

// JWT implements model.TokenManager backed by symmetric HMAC. The signing key
// is immutable for the process lifetime; rotating it invalidates every
// outstanding credential, which stands in for a revocation list.
type JWT struct {
	secretKey string
	lifetime  time.Duration
}

// NewJWT creates a token manager with the provided secret key and credential
// lifetime.
func NewJWT(secretKey string, lifetime time.Duration) model.TokenManager {
	return &JWT{secretKey: secretKey, lifetime: lifetime}
}

// Issue creates a signed credential expiring at now + lifetime.
func (j *JWT) Issue(subjectID uuid.UUID, subjectLabel string, now time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectLabel,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.lifetime)),
		},
		AccountID: subjectID,
	})

	tokenString, err := tok.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Decode validates a credential against the provided instant and returns its
// claims. It fails closed: any structural or signature failure yields an error
// and never a partial identity.
func (j *JWT) Decode(tokenString string, now time.Time) (model.TokenClaims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return model.TokenClaims{}, mapParseError(err)
	}
	if !tok.Valid {
		return model.TokenClaims{}, model.ErrTokenMalformed
	}
	if claims.ExpiresAt == nil {
		return model.TokenClaims{}, model.ErrTokenMalformed
	}

	return model.TokenClaims{
		SubjectID:    claims.AccountID,
		SubjectLabel: claims.Subject,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return model.ErrTokenSignature
	default:
		return fmt.Errorf("%w: %s", model.ErrTokenMalformed, err)
	}
}
