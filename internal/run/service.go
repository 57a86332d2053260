// Package run mints run sessions and converts completed runs into rewards.
package run

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/challenge"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/event"
	"github.com/osse101/RiftRunner_Go/internal/identity"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
	"github.com/osse101/RiftRunner_Go/internal/logger"
	"github.com/osse101/RiftRunner_Go/internal/progression"
	"github.com/osse101/RiftRunner_Go/internal/repository"
	"github.com/osse101/RiftRunner_Go/internal/reward"
	"github.com/osse101/RiftRunner_Go/internal/rng"
	"github.com/osse101/RiftRunner_Go/internal/state"
)

// Publisher delivers domain events without failing the caller.
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// StartRequest selects the mode and perks of a new run.
type StartRequest struct {
	Mode domain.Mode
	// PerkIDs nil means the equipped loadout.
	PerkIDs []string
}

// Service is the run lifecycle.
type Service interface {
	StartRun(ctx context.Context, id identity.Identity, req StartRequest) (*domain.RunStart, error)
	CompleteRun(ctx context.Context, id identity.Identity, req domain.RunCompletion) (*domain.RunResult, error)
}

// Store is the subset of repository.Store the run lifecycle touches.
type Store interface {
	repository.Progression
	repository.Session
	repository.Leaderboard
}

type service struct {
	store        Store
	states       state.Service
	boards       leaderboard.Service
	challenges   *challenge.Deriver
	publisher    Publisher
	clock        cycle.Clock
	storeTimeout time.Duration
	newTicket    func() string
}

// NewService creates the run service.
func NewService(
	store Store,
	states state.Service,
	boards leaderboard.Service,
	challenges *challenge.Deriver,
	publisher Publisher,
	clock cycle.Clock,
	storeTimeout time.Duration,
) Service {
	return &service{
		store:        store,
		states:       states,
		boards:       boards,
		challenges:   challenges,
		publisher:    publisher,
		clock:        clock,
		storeTimeout: storeTimeout,
		newTicket:    uuid.NewString,
	}
}

// withStore runs fn under the per-call store timeout.
func (s *service) withStore(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return fn(ctx)
}

func (s *service) loadProfile(ctx context.Context, id identity.Identity, now time.Time) (*domain.PlayerProgression, bool, error) {
	var p *domain.PlayerProgression
	var stored bool
	err := s.withStore(ctx, func(ctx context.Context) error {
		var err error
		p, stored, err = progression.Load(ctx, s.store, id.Scope, id.Username, now)
		return err
	})
	return p, stored, err
}

// Seed derives the run seed from everything that identifies the run.
func Seed(scope, username string, mode domain.Mode, challengeKey string, now time.Time) uint32 {
	if challengeKey == "" {
		challengeKey = domain.NoChallengeSeedLabel
	}
	return rng.Hash(fmt.Sprintf("%s:%s:%s:%s:%d", scope, username, mode, challengeKey, now.UnixMilli()))
}

func (s *service) StartRun(ctx context.Context, id identity.Identity, req StartRequest) (*domain.RunStart, error) {
	if err := id.RequireUser(); err != nil {
		return nil, err
	}
	mode, err := domain.ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p, stored, err := s.loadProfile(ctx, id, now)
	if err != nil {
		return nil, err
	}
	// A stored profile is written back only when unlocks changed, so a start
	// never replaces rewards a concurrent completion just saved.
	persist := progression.SyncUnlocks(p) || !stored
	selected := progression.SelectPerks(p, req.PerkIDs)

	var snap *domain.ChallengeSnapshot
	var cycleKey, claimKey string
	if mode.HasChallenge() {
		current, err := s.challenges.Current(mode, now)
		if err != nil {
			return nil, err
		}
		current.Completed = p.ChallengeClaims[current.ClaimKey()]
		snap = &current
		cycleKey = current.Key
		claimKey = current.ClaimKey()
	}

	seed := Seed(id.Scope, id.Username, mode, claimKey, now)
	offered := rng.PickUnique(seed, domain.OfferedMutatorCount, catalog.MutatorIDs())
	defaults := append([]string{}, offered[:min(domain.DefaultMutatorCount, len(offered))]...)

	session := &domain.RunSession{
		Ticket:            s.newTicket(),
		Scope:             id.Scope,
		Username:          id.Username,
		Mode:              mode,
		Seed:              seed,
		OfferedMutatorIDs: offered,
		DefaultMutatorIDs: defaults,
		SelectedPerkIDs:   selected,
		ChallengeCycleKey: cycleKey,
		StartedAt:         now,
		ExpiresAt:         now.Add(domain.RunTTL),
	}

	err = s.withStore(ctx, func(ctx context.Context) error {
		if err := s.store.CreateSession(ctx, session); err != nil {
			return err
		}
		if !persist {
			return nil
		}
		p.UpdatedAt = now
		return s.store.SaveProgression(ctx, id.Scope, p)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRunStarted, "scope", id.Scope, "username", id.Username, "mode", mode, "seed", seed)
	s.publisher.PublishWithRetry(ctx, event.NewRunStartedEvent(session))

	return &domain.RunStart{
		Ticket:            session.Ticket,
		Mode:              mode,
		Seed:              seed,
		OfferedMutatorIDs: append([]string{}, offered...),
		DefaultMutatorIDs: append([]string{}, defaults...),
		Challenge:         snap,
		StartedAt:         now,
		ExpiresAt:         session.ExpiresAt,
		Profile:           progression.View(p),
	}, nil
}

// validateCompletion rejects malformed input before any store access.
func validateCompletion(req *domain.RunCompletion) error {
	req.Ticket = strings.TrimSpace(req.Ticket)
	if req.Ticket == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgTicketRequired)
	}
	if math.IsNaN(req.Score) || math.IsInf(req.Score, 0) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgScoreNotFinite)
	}
	if ss := req.SurvivedSeconds; ss != nil && (math.IsNaN(*ss) || math.IsInf(*ss, 0) || *ss < 0) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgSurvivedSecondsInvalid)
	}
	return nil
}

func (s *service) CompleteRun(ctx context.Context, id identity.Identity, req domain.RunCompletion) (*domain.RunResult, error) {
	if err := id.RequireUser(); err != nil {
		return nil, err
	}
	if err := validateCompletion(&req); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	now := s.clock.Now()

	var session *domain.RunSession
	err := s.withStore(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.store.ClaimSession(ctx, id.Scope, id.Username, req.Ticket, now)
		return err
	})
	if errors.Is(err, domain.ErrRunNotFound) {
		s.reject(ctx, id, RejectReasonNotFound, now)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(now) {
		s.deleteSession(ctx, id, req.Ticket)
		s.reject(ctx, id, RejectReasonExpired, now)
		return nil, domain.ErrRunExpired
	}

	// From here on the ticket is consumed; a failure leaves it claimed so
	// a retry cannot earn the reward twice.
	result, p, outcome, err := s.settle(ctx, id, session, req, now)
	if err != nil {
		log.Error(LogMsgRunSettleFailed, "scope", id.Scope, "username", id.Username, "ticket", req.Ticket, "error", err)
		return nil, err
	}

	s.deleteSession(ctx, id, req.Ticket)

	// Rewards are already persisted; a failed read degrades to an empty board.
	snap, err := s.boards.Snapshot(ctx, domain.GlobalBoard(id.Scope), id.Username, domain.DefaultLeaderboardLimit)
	if err != nil {
		log.Warn(LogMsgLeaderboardSnapshotFailed, "scope", id.Scope, "error", err)
		snap = &domain.LeaderboardSnapshot{Top: []domain.LeaderboardEntry{}, GeneratedAt: now}
	}
	result.Leaderboard = *snap
	result.Profile = progression.View(p)
	result.Quests = progression.QuestSnapshot(p, now)

	log.Info(LogMsgRunCompleted,
		"scope", id.Scope,
		"username", id.Username,
		"mode", session.Mode,
		"score", result.Score,
		"xp", result.Reward.XPGained,
		"currency", result.Reward.CurrencyGained,
		"level_ups", result.Reward.LevelUps)
	s.publishCompletion(ctx, session, result, outcome, now)

	return result, nil
}

// outcome carries what the completion events need beyond the result.
type outcome struct {
	oldLevel        int
	newLevel        int
	questIDs        []string
	challengeClaims []domain.ChallengeSnapshot
}

// settle applies the run to the player's progression and persists every
// aggregate it touches. The session is not deleted here.
func (s *service) settle(ctx context.Context, id identity.Identity, session *domain.RunSession, req domain.RunCompletion, now time.Time) (*domain.RunResult, *domain.PlayerProgression, outcome, error) {
	var out outcome

	mutatorIDs := reward.MergeMutators(session.OfferedMutatorIDs, session.DefaultMutatorIDs, req.MutatorIDs)
	mutators := reward.ResolveMutators(mutatorIDs)

	p, _, err := s.loadProfile(ctx, id, now)
	if err != nil {
		return nil, nil, out, err
	}
	progression.RolloverQuests(p, now)
	progression.ApplyStreak(p, now)

	res := reward.Compute(reward.Input{
		RawScore:        req.Score,
		Mode:            session.Mode,
		Mutators:        mutators,
		PerkIDs:         session.SelectedPerkIDs,
		Streak:          p.Streak,
		SurvivedSeconds: req.SurvivedSeconds,
	})

	completed := []string{}
	challengeBonus := 0
	if session.Mode.HasChallenge() {
		key := session.ChallengeCycleKey
		if key == "" {
			if key, err = challenge.CycleKey(session.Mode, session.StartedAt); err != nil {
				return nil, nil, out, err
			}
		}
		snap, err := s.challenges.Derive(session.Mode, key)
		if err != nil {
			return nil, nil, out, err
		}
		if !p.ChallengeClaims[snap.ClaimKey()] && res.AdjustedScore >= snap.TargetScore {
			p.ChallengeClaims[snap.ClaimKey()] = true
			challengeBonus = snap.RewardBonus
			completed = append(completed, snap.ClaimKey())
			out.challengeClaims = append(out.challengeClaims, snap)
		}
		err = s.withStore(ctx, func(ctx context.Context) error {
			_, err := s.store.SubmitBest(ctx, domain.ChallengeBoard(id.Scope, session.Mode, key), id.Username, res.AdjustedScore)
			return err
		})
		if err != nil {
			return nil, nil, out, err
		}
	}

	out.oldLevel = p.Level
	levelUps := progression.GrantXP(p, res.XPGained)
	out.newLevel = p.Level

	p.LifetimeRuns++
	p.LifetimeBestScore = max(p.LifetimeBestScore, res.AdjustedScore)

	questBonus, questIDs := progression.ApplyRunToQuests(p, now, res.AdjustedScore)
	out.questIDs = questIDs
	completed = append(completed, questIDs...)

	currencyGained := res.CurrencyGained + challengeBonus + questBonus
	p.Currency += currencyGained
	p.UpdatedAt = now

	var best int64
	err = s.withStore(ctx, func(ctx context.Context) error {
		var err error
		best, err = s.store.SubmitBest(ctx, domain.GlobalBoard(id.Scope), id.Username, res.AdjustedScore)
		return err
	})
	if err != nil {
		return nil, nil, out, err
	}
	if err := s.states.RecordBestScore(ctx, id, best); err != nil {
		return nil, nil, out, err
	}
	if err := s.withStore(ctx, func(ctx context.Context) error {
		return s.store.SaveProgression(ctx, id.Scope, p)
	}); err != nil {
		return nil, nil, out, err
	}

	return &domain.RunResult{
		Mode:      session.Mode,
		Score:     res.AdjustedScore,
		BestScore: best,
		Reward: domain.RewardBreakdown{
			XPGained:        res.XPGained,
			CurrencyGained:  currencyGained,
			ScoreMultiplier: res.ScoreMultiplier(),
			StreakBonus:     res.StreakBonus,
			ChallengeBonus:  challengeBonus,
			PerkBonus:       res.PerkBonus,
			LevelUps:        levelUps,
		},
		RunSummary: domain.RunSummary{
			MutatorIDs:          mutatorIDs,
			CompletedChallenges: completed,
		},
		CompletedAt: now,
	}, p, out, nil
}

// deleteSession is best effort: a claimed session can no longer be completed.
func (s *service) deleteSession(ctx context.Context, id identity.Identity, ticket string) {
	err := s.withStore(ctx, func(ctx context.Context) error {
		return s.store.DeleteSession(ctx, id.Scope, id.Username, ticket)
	})
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgSessionDeleteFailed, "scope", id.Scope, "username", id.Username, "error", err)
	}
}

func (s *service) reject(ctx context.Context, id identity.Identity, reason string, now time.Time) {
	logger.FromContext(ctx).Info(LogMsgRunRejected, "scope", id.Scope, "username", id.Username, "reason", reason)
	s.publisher.PublishWithRetry(ctx, event.NewRunRejectedEvent(id.Scope, id.Username, reason, now))
}

func (s *service) publishCompletion(ctx context.Context, session *domain.RunSession, result *domain.RunResult, out outcome, now time.Time) {
	s.publisher.PublishWithRetry(ctx, event.NewRunCompletedEvent(session, result))
	if out.newLevel > out.oldLevel {
		s.publisher.PublishWithRetry(ctx, event.NewLevelUpEvent(session.Scope, session.Username, out.oldLevel, out.newLevel, now))
	}
	for _, questID := range out.questIDs {
		s.publisher.PublishWithRetry(ctx, event.NewQuestCompletedEvent(session.Scope, session.Username, questID, now))
	}
	for _, snap := range out.challengeClaims {
		s.publisher.PublishWithRetry(ctx, event.NewChallengeCompletedEvent(session.Scope, session.Username, snap, now))
	}
}
