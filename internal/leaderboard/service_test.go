package leaderboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizplanet/quiz-planet/internal/db/repository"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewService(client, zerolog.Nop(), ServiceOptions{TopN: 10})
}

func TestRecordKeepsBestScore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", 12))
	require.NoError(t, svc.Record(ctx, "alice", 8))

	entries, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Name)
	assert.Equal(t, 12, entries[0].Score, "a lower later score must not displace the best")
	assert.Equal(t, 2, entries[0].Games)
}

func TestRecordImprovesBestScore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", 8))
	require.NoError(t, svc.Record(ctx, "alice", 15))

	entries, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 15, entries[0].Score)
}

func TestTopOrdersByScoreDescending(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", 10))
	require.NoError(t, svc.Record(ctx, "bob", 18))
	require.NoError(t, svc.Record(ctx, "carol", 14))

	entries, err := svc.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].Name)
	assert.Equal(t, "carol", entries[1].Name)
}

func TestTopEmptyBoard(t *testing.T) {
	svc := newTestService(t)

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type stubSnapshotStore struct {
	rows []repository.SnapshotRow
}

func (s *stubSnapshotStore) InsertSnapshot(_ context.Context, row repository.SnapshotRow) error {
	s.rows = append(s.rows, row)
	return nil
}

func TestSnapshotWorkerPersistsBoard(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", 10))

	store := &stubSnapshotStore{}
	worker := NewSnapshotWorker(svc, store, time.Minute, zerolog.Nop())
	require.NoError(t, worker.snapshot(ctx))

	require.Len(t, store.rows, 1)
	assert.NotEmpty(t, store.rows[0].SourceHash)
	assert.Contains(t, string(store.rows[0].Entries), "alice")
}

func TestSnapshotWorkerSkipsEmptyBoard(t *testing.T) {
	svc := newTestService(t)

	store := &stubSnapshotStore{}
	worker := NewSnapshotWorker(svc, store, time.Minute, zerolog.Nop())
	require.NoError(t, worker.snapshot(context.Background()))

	assert.Empty(t, store.rows)
}
