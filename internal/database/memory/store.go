// Package memory is an in-process store used by tests and single-node development.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/progression"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

var (
	_ repository.Store         = (*Store)(nil)
	_ repository.SessionPurger = (*Store)(nil)
)

// Store keeps every collection behind a single mutex.
// Progression documents are stored encoded so reads never alias writes.
type Store struct {
	mu           sync.Mutex
	progressions map[string][]byte
	sessions     map[string]*domain.RunSession
	boards       map[domain.BoardKey]map[string]int64
	states       map[string]*domain.StoredState
}

// New creates an empty store.
func New() *Store {
	return &Store{
		progressions: make(map[string][]byte),
		sessions:     make(map[string]*domain.RunSession),
		boards:       make(map[domain.BoardKey]map[string]int64),
		states:       make(map[string]*domain.StoredState),
	}
}

func playerKey(scope, username string) string {
	return scope + ":" + username
}

func sessionKey(scope, username, ticket string) string {
	return scope + ":" + username + ":" + ticket
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

func (s *Store) GetProgression(_ context.Context, scope, username string) (*domain.PlayerProgression, error) {
	s.mu.Lock()
	raw, ok := s.progressions[playerKey(scope, username)]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return progression.Decode(raw, username, time.Now().UTC())
}

func (s *Store) SaveProgression(_ context.Context, scope string, p *domain.PlayerProgression) error {
	raw, err := progression.Encode(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.progressions[playerKey(scope, p.Username)] = raw
	s.mu.Unlock()
	return nil
}

// PutRawProgression stores a document verbatim. Used to seed legacy documents.
func (s *Store) PutRawProgression(scope, username string, raw []byte) {
	s.mu.Lock()
	s.progressions[playerKey(scope, username)] = slices.Clone(raw)
	s.mu.Unlock()
}

func (s *Store) CreateSession(_ context.Context, session *domain.RunSession) error {
	key := sessionKey(session.Scope, session.Username, session.Ticket)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[key]; exists {
		return fmt.Errorf("%w: ticket already issued", domain.ErrInvalidInput)
	}
	s.sessions[key] = cloneSession(session)
	return nil
}

func (s *Store) ClaimSession(_ context.Context, scope, username, ticket string, now time.Time) (*domain.RunSession, error) {
	key := sessionKey(scope, username, ticket)
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[key]
	if !ok || session.ClaimedAt != nil {
		return nil, domain.ErrRunNotFound
	}
	claimedAt := now
	session.ClaimedAt = &claimedAt
	return cloneSession(session), nil
}

func (s *Store) DeleteSession(_ context.Context, scope, username, ticket string) error {
	s.mu.Lock()
	delete(s.sessions, sessionKey(scope, username, ticket))
	s.mu.Unlock()
	return nil
}

func (s *Store) PurgeExpiredSessions(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for key, session := range s.sessions {
		if session.ExpiresAt.Before(cutoff) {
			delete(s.sessions, key)
			purged++
		}
	}
	return purged, nil
}

func (s *Store) SubmitBest(_ context.Context, board domain.BoardKey, username string, score int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.boards[board]
	if !ok {
		members = make(map[string]int64)
		s.boards[board] = members
	}
	if prev, ok := members[username]; ok && prev >= score {
		return prev, nil
	}
	members[username] = score
	return score, nil
}

func (s *Store) Top(_ context.Context, board domain.BoardKey, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	ranked := s.rankedLocked(board)
	s.mu.Unlock()
	if limit < len(ranked) {
		ranked = ranked[:max(0, limit)]
	}
	return ranked, nil
}

func (s *Store) Standing(_ context.Context, board domain.BoardKey, username string) (*domain.LeaderboardStanding, error) {
	s.mu.Lock()
	ranked := s.rankedLocked(board)
	s.mu.Unlock()
	for _, entry := range ranked {
		if entry.Username == username {
			return &domain.LeaderboardStanding{Rank: entry.Rank, Score: entry.Score}, nil
		}
	}
	return nil, nil
}

func (s *Store) Count(_ context.Context, board domain.BoardKey) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.boards[board])), nil
}

// rankedLocked orders by score descending, ties by username descending,
// which is the order a sorted set reports in reverse range.
func (s *Store) rankedLocked(board domain.BoardKey) []domain.LeaderboardEntry {
	members := s.boards[board]
	ranked := make([]domain.LeaderboardEntry, 0, len(members))
	for username, score := range members {
		ranked = append(ranked, domain.LeaderboardEntry{Username: username, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Username > ranked[j].Username
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func (s *Store) GetState(_ context.Context, scope, username string) (*domain.StoredState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[playerKey(scope, username)]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return cloneState(state), nil
}

func (s *Store) SaveState(_ context.Context, scope string, state *domain.StoredState) error {
	s.mu.Lock()
	s.states[playerKey(scope, state.Username)] = cloneState(state)
	s.mu.Unlock()
	return nil
}

func cloneSession(s *domain.RunSession) *domain.RunSession {
	c := *s
	c.OfferedMutatorIDs = slices.Clone(s.OfferedMutatorIDs)
	c.DefaultMutatorIDs = slices.Clone(s.DefaultMutatorIDs)
	c.SelectedPerkIDs = slices.Clone(s.SelectedPerkIDs)
	if s.ClaimedAt != nil {
		t := *s.ClaimedAt
		c.ClaimedAt = &t
	}
	return &c
}

func cloneState(s *domain.StoredState) *domain.StoredState {
	c := *s
	c.Data = slices.Clone(s.Data)
	if s.Level != nil {
		v := *s.Level
		c.Level = &v
	}
	if s.BestScore != nil {
		v := *s.BestScore
		c.BestScore = &v
	}
	return &c
}
