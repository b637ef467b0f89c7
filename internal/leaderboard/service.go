package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/quizplanet/quiz-planet/pkg/http/ws"
)

// Entry represents a leaderboard record sent to clients.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Games int    `json:"games"`
}

// ServiceOptions configures leaderboard service behavior.
type ServiceOptions struct {
	TopN             int
	PubSubChannel    string
	RedisKeyPrefix   string
	SnapshotTopLimit int
}

// Service manages leaderboard state in Redis and emits updates over Pub/Sub.
// The board keeps one entry per display name holding that name's best score.
type Service struct {
	redis          *redis.Client
	logger         zerolog.Logger
	topN           int
	pubsubChannel  string
	prefix         string
	snapshotTopLim int
}

// NewService constructs a leaderboard service instance.
func NewService(redis *redis.Client, logger zerolog.Logger, opts ServiceOptions) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = 10
	}
	channel := opts.PubSubChannel
	if channel == "" {
		channel = "lb:updates"
	}
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = "lb"
	}
	snapTop := opts.SnapshotTopLimit
	if snapTop <= 0 {
		snapTop = 50
	}

	return &Service{
		redis:          redis,
		logger:         logger.With().Str("component", "leaderboard").Logger(),
		topN:           topN,
		pubsubChannel:  channel,
		prefix:         prefix,
		snapshotTopLim: snapTop,
	}
}

// Record updates the board with a finished score. ZADD GT keeps the best
// score a name has ever posted; the games counter always advances.
func (s *Service) Record(ctx context.Context, name string, score int) error {
	pipe := s.redis.TxPipeline()
	pipe.ZAddGT(ctx, s.boardKey(), redis.Z{Score: float64(score), Member: name})
	pipe.HIncrBy(ctx, s.metaKey(name), "games", 1)
	pipe.HSet(ctx, s.metaKey(name), "last_played", time.Now().UTC().Format(time.RFC3339))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record score: %w", err)
	}

	// Publish aggregate update for WebSocket consumers.
	go s.publishUpdate(context.Background())
	return nil
}

// Top retrieves the top N entries.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.snapshotTopLim {
		limit = s.topN
	}

	results, err := s.redis.ZRevRangeWithScores(ctx, s.boardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		name := z.Member.(string)
		entry := Entry{Name: name, Score: int(z.Score)}
		meta, err := s.redis.HGetAll(ctx, s.metaKey(name)).Result()
		if err != nil {
			s.logger.Warn().Err(err).Str("name", name).Msg("failed to read leaderboard metadata")
		} else {
			entry.Games = parseInt(meta["games"])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SnapshotTop returns the configured snapshot size for persistence jobs.
func (s *Service) SnapshotTop(ctx context.Context) ([]Entry, error) {
	return s.Top(ctx, s.snapshotTopLim)
}

func (s *Service) publishUpdate(ctx context.Context) {
	entries, err := s.Top(ctx, s.topN)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to collect leaderboard update")
		return
	}
	if len(entries) == 0 {
		return
	}

	payload := ws.LeaderboardUpdatePayload{Top: toWSEntries(entries)}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal leaderboard update")
		return
	}
	if err := s.redis.Publish(ctx, s.pubsubChannel, data).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish leaderboard update")
	}
}

func (s *Service) boardKey() string {
	return fmt.Sprintf("%s:best", s.prefix)
}

func (s *Service) metaKey(name string) string {
	return fmt.Sprintf("%s:meta:%s", s.prefix, name)
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
