// Package state serves the free-form legacy save slot that sits next to the
// meta profile.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/identity"
	"github.com/osse101/RiftRunner_Go/internal/logger"
	"github.com/osse101/RiftRunner_Go/internal/repository"
	"github.com/osse101/RiftRunner_Go/internal/validation"
)

var dataSchema = validation.NewSchemaValidator()

// Update is a partial write. Nil fields keep their previous value.
type Update struct {
	Level *float64
	Data  json.RawMessage
}

// Service reads and writes the legacy save slot.
type Service interface {
	GetState(ctx context.Context, id identity.Identity) (*domain.StoredState, error)
	PutState(ctx context.Context, id identity.Identity, update Update) (*domain.StoredState, error)
	// RecordBestScore rewrites the slot with a new best score, keeping level and data.
	RecordBestScore(ctx context.Context, id identity.Identity, best int64) error
}

type service struct {
	repo         repository.State
	clock        cycle.Clock
	storeTimeout time.Duration
}

// NewService creates the state service.
func NewService(repo repository.State, clock cycle.Clock, storeTimeout time.Duration) Service {
	return &service{repo: repo, clock: clock, storeTimeout: storeTimeout}
}

func (s *service) GetState(ctx context.Context, id identity.Identity) (*domain.StoredState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.GetState(ctx, id.Scope, id.Username)
}

func (s *service) PutState(ctx context.Context, id identity.Identity, update Update) (*domain.StoredState, error) {
	if err := id.RequireUser(); err != nil {
		return nil, err
	}
	if update.Level == nil && update.Data == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgLevelOrDataRequired)
	}
	if update.Level != nil && (math.IsNaN(*update.Level) || math.IsInf(*update.Level, 0)) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgLevelNotFinite)
	}
	if update.Data != nil {
		if !isJSONObject(update.Data) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgDataNotObject)
		}
		if err := dataSchema.ValidateBytes(update.Data, validation.SchemaStateData); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, ErrMsgDataRejected, err.Error())
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	next, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Level != nil {
		level := int(math.Trunc(*update.Level))
		next.Level = &level
	}
	if update.Data != nil {
		next.Data = update.Data
	}
	next.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveState(ctx, id.Scope, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *service) RecordBestScore(ctx context.Context, id identity.Identity, best int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	next, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	next.BestScore = &best
	next.UpdatedAt = s.clock.Now()
	return s.repo.SaveState(ctx, id.Scope, next)
}

// load returns the previous slot, or an empty one when none was saved.
func (s *service) load(ctx context.Context, id identity.Identity) (*domain.StoredState, error) {
	prev, err := s.repo.GetState(ctx, id.Scope, id.Username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &domain.StoredState{Username: id.Username}, nil
	case err != nil:
		return nil, err
	}
	prev.Username = id.Username
	if prev.Data != nil && !isJSONObject(prev.Data) {
		logger.FromContext(ctx).Warn(LogMsgDroppedStoredData, "scope", id.Scope, "username", id.Username)
		prev.Data = nil
	}
	return prev, nil
}

func isJSONObject(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}
