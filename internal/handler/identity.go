package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/RiftRunner_Go/internal/identity"
)

// IdentityMiddleware resolves the caller from the X-Scope-ID and X-Username
// headers. A missing scope is rejected; a missing username is anonymous.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := strings.TrimSpace(r.Header.Get(HeaderScopeID))
		if scope == "" {
			respondError(w, http.StatusBadRequest, ErrMsgMissingScope)
			return
		}
		id := identity.New(scope, r.Header.Get(HeaderUsername))
		next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
	})
}
