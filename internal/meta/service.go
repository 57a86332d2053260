// Package meta serves the player's meta view and perk loadout.
package meta

import (
	"context"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/challenge"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/identity"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
	"github.com/osse101/RiftRunner_Go/internal/logger"
	"github.com/osse101/RiftRunner_Go/internal/progression"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

// EquipResult is the loadout after a toggle.
type EquipResult struct {
	Profile       domain.ProfileView    `json:"profile"`
	EquippedPerks []domain.EquippedPerk `json:"equippedPerks"`
}

// Service defines the meta read and loadout operations.
type Service interface {
	GetMeta(ctx context.Context, id identity.Identity, limit int) (*domain.MetaSnapshot, error)
	EquipPerk(ctx context.Context, id identity.Identity, perkID string) (*EquipResult, error)
}

type service struct {
	repo         repository.Progression
	boards       leaderboard.Service
	challenges   *challenge.Deriver
	clock        cycle.Clock
	storeTimeout time.Duration
}

// NewService creates the meta service.
func NewService(repo repository.Progression, boards leaderboard.Service, challenges *challenge.Deriver, clock cycle.Clock, storeTimeout time.Duration) Service {
	return &service{
		repo:         repo,
		boards:       boards,
		challenges:   challenges,
		clock:        clock,
		storeTimeout: storeTimeout,
	}
}

func (s *service) GetMeta(ctx context.Context, id identity.Identity, limit int) (*domain.MetaSnapshot, error) {
	now := s.clock.Now()

	var p *domain.PlayerProgression
	quests := []domain.PlayerQuest{}
	if id.IsAnonymous() {
		p = progression.NewProfile(id.Username, now)
	} else {
		storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		var err error
		p, err = progression.LoadOrCreate(storeCtx, s.repo, id.Scope, id.Username, now)
		if err != nil {
			return nil, err
		}
		progression.Normalize(p)
		progression.RolloverQuests(p, now)
		p.UpdatedAt = now
		if err := s.repo.SaveProgression(storeCtx, id.Scope, p); err != nil {
			return nil, err
		}
		quests = progression.QuestSnapshot(p, now)
	}

	active, err := s.challenges.Active(now, p.ChallengeClaims)
	if err != nil {
		return nil, err
	}

	board, err := s.boards.Snapshot(ctx, domain.GlobalBoard(id.Scope), id.Username, limit)
	if err != nil {
		return nil, err
	}

	return &domain.MetaSnapshot{
		Profile:          progression.View(p),
		Quests:           quests,
		ActiveChallenges: active,
		Catalog:          catalog.Public(),
		Leaderboard:      *board,
		GeneratedAt:      now,
	}, nil
}

func (s *service) EquipPerk(ctx context.Context, id identity.Identity, perkID string) (*EquipResult, error) {
	if err := id.RequireUser(); err != nil {
		return nil, err
	}
	if _, ok := catalog.Perk(perkID); !ok {
		return nil, domain.ErrUnknownPerk
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	now := s.clock.Now()
	p, err := progression.LoadOrCreate(ctx, s.repo, id.Scope, id.Username, now)
	if err != nil {
		return nil, err
	}
	progression.Normalize(p)
	if err := progression.TogglePerk(p, perkID); err != nil {
		return nil, err
	}
	p.UpdatedAt = now
	if err := s.repo.SaveProgression(ctx, id.Scope, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgPerkToggled, "scope", id.Scope, "username", id.Username, "perk_id", perkID, "equipped", p.EquippedPerkIDs())

	view := progression.View(p)
	return &EquipResult{
		Profile:       view,
		EquippedPerks: view.EquippedPerks,
	}, nil
}
