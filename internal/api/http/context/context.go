package context

import (
	"context"

	"github.com/trashtdl/todosync-server/internal/model"
)

type contextKey string

// identityKey is the context key holding the authenticated identity.
const identityKey contextKey = "identity"

// Manager stores and retrieves the authenticated identity on request contexts.
type Manager struct{}

// NewManager creates a new request context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentity returns a context carrying the identity.
func (m *Manager) SetIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the identity from the context. The boolean reports
// whether an identity was present.
func (m *Manager) GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}
