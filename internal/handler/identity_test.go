package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/identity"
)

func TestIdentityMiddleware(t *testing.T) {
	var got identity.Identity
	var seen bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, seen = identity.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := IdentityMiddleware(next)

	t.Run("missing scope", func(t *testing.T) {
		seen = false
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgMissingScope)
		assert.False(t, seen)
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderScopeID, "post-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.True(t, seen)
		assert.Equal(t, identity.Identity{Scope: "post-1", Username: identity.Anonymous}, got)
	})

	t.Run("user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderScopeID, " post-1 ")
		req.Header.Set(HeaderUsername, "alice")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.True(t, seen)
		assert.Equal(t, identity.Identity{Scope: "post-1", Username: "alice"}, got)
	})
}
