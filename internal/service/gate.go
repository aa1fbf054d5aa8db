package service

import (
	"context"
	"strings"
	"time"

	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/model"
)

const bearerScheme = "Bearer "

// Gate validates bearer credentials against current account state and exposes
// the authenticated identity to callers. It never mutates anything.
type Gate struct {
	accountStore model.AccountStore
	tokenManager model.TokenManager
	logger       *logger.Logger
}

// NewGate creates a new authentication gate.
func NewGate(accountStore model.AccountStore, tokenManager model.TokenManager, logger *logger.Logger) *Gate {
	return &Gate{
		accountStore: accountStore,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Authenticate resolves an Authorization header value to an identity.
//
// An absent header or a non-Bearer scheme yields ErrMissingCredential so that
// anonymous-capable paths can continue. Everything else that goes wrong maps
// to ErrInvalidCredential; unknown and disabled accounts are deliberately
// indistinguishable to the caller.
func (g *Gate) Authenticate(ctx context.Context, rawHeaderValue string, now time.Time) (model.Identity, error) {
	tokenString, ok := strings.CutPrefix(rawHeaderValue, bearerScheme)
	if !ok || tokenString == "" {
		return model.Identity{}, model.ErrMissingCredential
	}

	claims, err := g.tokenManager.Decode(tokenString, now)
	if err != nil {
		g.logger.Debug("Gate: credential decode failed", "error", err.Error())
		return model.Identity{}, model.ErrInvalidCredential
	}

	account, err := g.accountStore.GetBySubject(ctx, claims.SubjectLabel)
	if err != nil {
		g.logger.Debug("Gate: subject resolution failed",
			"subject", claims.SubjectLabel,
			"error", err.Error())
		return model.Identity{}, model.ErrInvalidCredential
	}

	if account.Status != model.AccountActive {
		g.logger.Info("Gate: credential presented for disabled account",
			"account_id", account.ID)
		return model.Identity{}, model.ErrInvalidCredential
	}

	return model.Identity{
		AccountID: account.ID,
		Email:     account.Email,
		Username:  account.Username,
	}, nil
}
