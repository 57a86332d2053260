package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

func TestNew(t *testing.T) {
	id := New(" post1 ", "  ")
	assert.Equal(t, "post1", id.Scope)
	assert.Equal(t, Anonymous, id.Username)
	assert.True(t, id.IsAnonymous())
	assert.ErrorIs(t, id.RequireUser(), domain.ErrUnauthorized)

	id = New("post1", "alice")
	assert.False(t, id.IsAnonymous())
	assert.NoError(t, id.RequireUser())
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), New("p", "bob"))
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "bob", id.Username)
}
