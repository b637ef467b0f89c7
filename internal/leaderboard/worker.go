package leaderboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizplanet/quiz-planet/internal/db/repository"
)

// SnapshotStore persists leaderboard snapshots durably.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, row repository.SnapshotRow) error
}

// SnapshotWorker periodically persists the Redis leaderboard into Postgres,
// giving reads a fallback when the cache is cold.
type SnapshotWorker struct {
	svc      *Service
	store    SnapshotStore
	logger   zerolog.Logger
	interval time.Duration
}

func NewSnapshotWorker(svc *Service, store SnapshotStore, interval time.Duration, logger zerolog.Logger) *SnapshotWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SnapshotWorker{
		svc:      svc,
		store:    store,
		logger:   logger.With().Str("component", "leaderboard_snapshot_worker").Logger(),
		interval: interval,
	}
}

// Run blocks until context cancellation.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	if w.svc == nil || w.store == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *SnapshotWorker) tick(ctx context.Context) {
	if err := w.snapshot(ctx); err != nil {
		w.logger.Warn().Err(err).Msg("snapshot failed")
	}
}

func (w *SnapshotWorker) snapshot(ctx context.Context) error {
	entries, err := w.svc.SnapshotTop(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	sourceHash := sha256.Sum256(data)
	now := time.Now().UTC()

	err = w.store.InsertSnapshot(ctx, repository.SnapshotRow{
		Entries:     data,
		SourceHash:  hex.EncodeToString(sourceHash[:]),
		GeneratedAt: now,
	})
	if err != nil {
		return err
	}

	w.logger.Info().
		Int("entries", len(entries)).
		Time("generated_at", now).
		Msg("leaderboard snapshot persisted")

	return nil
}
