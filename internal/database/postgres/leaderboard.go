package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Ties are broken by username in byte order, descending, so every backend
// ranks equal scores the same way.
const (
	submitBestSQL = `
INSERT INTO leaderboard_scores (board, username, score)
VALUES ($1, $2, $3)
ON CONFLICT (board, username)
DO UPDATE SET
    score = GREATEST(leaderboard_scores.score, EXCLUDED.score),
    updated_at = CASE WHEN EXCLUDED.score > leaderboard_scores.score THEN NOW() ELSE leaderboard_scores.updated_at END
RETURNING score`

	topSQL = `
SELECT username, score FROM leaderboard_scores
WHERE board = $1
ORDER BY score DESC, username COLLATE "C" DESC
LIMIT $2`

	standingSQL = `
SELECT s.score, 1 + (
    SELECT COUNT(*) FROM leaderboard_scores o
    WHERE o.board = s.board
      AND (o.score > s.score OR (o.score = s.score AND o.username COLLATE "C" > s.username COLLATE "C"))
)
FROM leaderboard_scores s
WHERE s.board = $1 AND s.username = $2`

	countSQL = `SELECT COUNT(*) FROM leaderboard_scores WHERE board = $1`
)

func (s *Store) SubmitBest(ctx context.Context, board domain.BoardKey, username string, score int64) (int64, error) {
	var best int64
	if err := s.db.QueryRow(ctx, submitBestSQL, string(board), username, score).Scan(&best); err != nil {
		return 0, database.StoreError(opSubmitBest, err)
	}
	return best, nil
}

func (s *Store) Top(ctx context.Context, board domain.BoardKey, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	rows, err := s.db.Query(ctx, topSQL, string(board), limit)
	if err != nil {
		return nil, database.StoreError(opTop, err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.Score); err != nil {
			return nil, database.StoreError(opTop, err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, database.StoreError(opTop, err)
	}
	return entries, nil
}

func (s *Store) Standing(ctx context.Context, board domain.BoardKey, username string) (*domain.LeaderboardStanding, error) {
	var standing domain.LeaderboardStanding
	var rank int64
	err := s.db.QueryRow(ctx, standingSQL, string(board), username).Scan(&standing.Score, &rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, database.StoreError(opStanding, err)
	}
	standing.Rank = int(rank)
	return &standing, nil
}

func (s *Store) Count(ctx context.Context, board domain.BoardKey) (int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, countSQL, string(board)).Scan(&total); err != nil {
		return 0, database.StoreError(opCount, err)
	}
	return total, nil
}
