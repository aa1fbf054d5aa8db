package model

import "context"

// ContextManager stores and retrieves the authenticated identity on a request
// context.
type ContextManager interface {
	SetIdentity(ctx context.Context, identity Identity) context.Context
	GetIdentity(ctx context.Context) (Identity, bool)
}
