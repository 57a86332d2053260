package progression

import (
	"context"
	"errors"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/logger"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

// LogMsgCorruptProgression is logged when a stored document cannot be read
const LogMsgCorruptProgression = "Stored progression unreadable, starting from defaults"

// Load returns the stored progression and true, or a fresh profile and false
// when the player has none. An unreadable document is replaced by defaults
// and reported as not stored; store failures are returned.
func Load(ctx context.Context, repo repository.Progression, scope, username string, now time.Time) (*domain.PlayerProgression, bool, error) {
	p, err := repo.GetProgression(ctx, scope, username)
	switch {
	case err == nil:
		return p, true, nil
	case errors.Is(err, domain.ErrNotFound):
		return NewProfile(username, now), false, nil
	case errors.Is(err, domain.ErrInvalidInput):
		logger.FromContext(ctx).Warn(LogMsgCorruptProgression, "scope", scope, "username", username, "error", err)
		return NewProfile(username, now), false, nil
	default:
		return nil, false, err
	}
}

// LoadOrCreate is Load without the stored flag.
func LoadOrCreate(ctx context.Context, repo repository.Progression, scope, username string, now time.Time) (*domain.PlayerProgression, error) {
	p, _, err := Load(ctx, repo, scope, username, now)
	return p, err
}
