// Package identity carries the caller resolved by the platform layer.
package identity

import (
	"context"
	"strings"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Anonymous is the username of a caller who is not logged in.
const Anonymous = "anonymous"

// Identity is the scope and user every operation runs as.
type Identity struct {
	Scope    string
	Username string
}

// New trims both values and maps an empty username to Anonymous.
func New(scope, username string) Identity {
	username = strings.TrimSpace(username)
	if username == "" {
		username = Anonymous
	}
	return Identity{Scope: strings.TrimSpace(scope), Username: username}
}

// IsAnonymous reports whether the caller is not logged in.
func (i Identity) IsAnonymous() bool {
	return i.Username == "" || i.Username == Anonymous
}

// RequireUser fails with domain.ErrUnauthorized for anonymous callers.
func (i Identity) RequireUser() error {
	if i.IsAnonymous() {
		return domain.ErrUnauthorized
	}
	return nil
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
