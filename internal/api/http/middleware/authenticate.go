package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/model"
)

// Gate resolves a bearer credential to an authenticated identity.
type Gate interface {
	Authenticate(ctx context.Context, rawHeaderValue string, now time.Time) (model.Identity, error)
}

// Authenticate guards routes that require a valid bearer credential and
// injects the resolved identity into the request context.
type Authenticate struct {
	gate           Gate
	contextManager model.ContextManager
	clock          model.Clock
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(gate Gate, contextManager model.ContextManager, clock model.Clock, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		gate:           gate,
		contextManager: contextManager,
		clock:          clock,
		logger:         logger,
	}
}

// Wrap rejects unauthenticated requests with 401 and passes authenticated
// ones on with the identity in context.
func (m *Authenticate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.gate.Authenticate(r.Context(), r.Header.Get("Authorization"), m.clock.Now())
		if err != nil {
			m.logger.Info("Authenticate middleware: rejected request",
				"path", r.URL.Path,
				"error", err.Error())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetIdentity(r.Context(), identity)))
	})
}
