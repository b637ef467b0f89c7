package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ResultRow records one player's completed run.
type ResultRow struct {
	GameID        uuid.UUID
	PlayerName    string
	Score         int
	QuestionCount int
	FinishedAt    time.Time
}

// SnapshotRow is a periodic JSON dump of the Redis leaderboard, used as a
// fallback read path when the cache is cold.
type SnapshotRow struct {
	Entries     []byte
	SourceHash  string
	GeneratedAt time.Time
}

// ResultRepository persists finished games and leaderboard snapshots.
type ResultRepository struct {
	db DB
}

// NewResultRepository wraps a pgx connection pool.
func NewResultRepository(db DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// InsertResult stores a finished player's final score.
func (r *ResultRepository) InsertResult(ctx context.Context, row ResultRow) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO game_results (game_id, player_name, score, question_count, finished_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		row.GameID, row.PlayerName, row.Score, row.QuestionCount, row.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// InsertSnapshot stores a leaderboard snapshot.
func (r *ResultRepository) InsertSnapshot(ctx context.Context, row SnapshotRow) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO leaderboard_snapshots (entries, source_hash, generated_at)
		 VALUES ($1, $2, $3)`,
		row.Entries, row.SourceHash, row.GeneratedAt)
	if err != nil {
		return fmt.Errorf("insert leaderboard snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot payload, or nil when none
// has been taken yet.
func (r *ResultRepository) LatestSnapshot(ctx context.Context) ([]byte, error) {
	var entries []byte
	err := r.db.QueryRow(ctx,
		`SELECT entries FROM leaderboard_snapshots
		  ORDER BY generated_at DESC
		  LIMIT 1`).Scan(&entries)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch latest snapshot: %w", err)
	}
	return entries, nil
}
