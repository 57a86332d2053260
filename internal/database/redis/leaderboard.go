package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// SubmitBest relies on ZADD GT so the merge happens inside Redis.
func (s *Store) SubmitBest(ctx context.Context, board domain.BoardKey, username string, score int64) (int64, error) {
	var bestCmd *goredis.FloatCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAddArgs(ctx, string(board), goredis.ZAddArgs{
			GT:      true,
			Members: []goredis.Z{{Score: float64(score), Member: username}},
		})
		bestCmd = pipe.ZScore(ctx, string(board), username)
		return nil
	})
	if err != nil {
		return 0, database.StoreError(opSubmitBest, err)
	}
	return int64(bestCmd.Val()), nil
}

// Top reads in reverse score order; equal scores come back in reverse
// lexicographic member order.
func (s *Store) Top(ctx context.Context, board domain.BoardKey, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	members, err := s.rdb.ZRevRangeWithScores(ctx, string(board), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, database.StoreError(opTop, err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for i, z := range members {
		username, _ := z.Member.(string)
		entries = append(entries, domain.LeaderboardEntry{
			Rank:     i + 1,
			Username: username,
			Score:    int64(z.Score),
		})
	}
	return entries, nil
}

func (s *Store) Standing(ctx context.Context, board domain.BoardKey, username string) (*domain.LeaderboardStanding, error) {
	var rankCmd *goredis.IntCmd
	var scoreCmd *goredis.FloatCmd
	_, err := s.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		rankCmd = pipe.ZRevRank(ctx, string(board), username)
		scoreCmd = pipe.ZScore(ctx, string(board), username)
		return nil
	})
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, database.StoreError(opStanding, err)
	}
	return &domain.LeaderboardStanding{
		Rank:  int(rankCmd.Val()) + 1,
		Score: int64(scoreCmd.Val()),
	}, nil
}

func (s *Store) Count(ctx context.Context, board domain.BoardKey) (int64, error) {
	total, err := s.rdb.ZCard(ctx, string(board)).Result()
	if err != nil {
		return 0, database.StoreError(opCount, err)
	}
	return total, nil
}
