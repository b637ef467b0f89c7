package game

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// StateManager handles ephemeral game state in Redis with atomic locks.
type StateManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStateManager creates a state manager backed by Redis. Game state and
// name reservations expire after ttl.
func NewStateManager(redis *redis.Client, ttl time.Duration, logger zerolog.Logger) *StateManager {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &StateManager{
		redis:  redis,
		ttl:    ttl,
		logger: logger,
	}
}

func nameKey(name string) string {
	return fmt.Sprintf("game:name:%s", strings.ToLower(name))
}

func playerKey(name string) string {
	return fmt.Sprintf("game:player:%s", strings.ToLower(name))
}

// ReserveName atomically claims a display name for a new run. Returns
// ErrUsernameTaken if another run holds it.
func (s *StateManager) ReserveName(ctx context.Context, name string, gameID uuid.UUID) error {
	acquired, err := s.redis.SetNX(ctx, nameKey(name), gameID.String(), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("reserve name: %w", err)
	}
	if !acquired {
		return ErrUsernameTaken
	}
	return nil
}

// ReleaseName frees a reservation, used when setup fails after the claim.
func (s *StateManager) ReleaseName(ctx context.Context, name string) error {
	return s.redis.Del(ctx, nameKey(name)).Err()
}

// NameAvailable reports whether a display name is currently unclaimed.
func (s *StateManager) NameAvailable(ctx context.Context, name string) (bool, error) {
	n, err := s.redis.Exists(ctx, nameKey(name)).Result()
	if err != nil {
		return false, fmt.Errorf("check name: %w", err)
	}
	return n == 0, nil
}

// LockPlayer acquires a short-lived distributed lock for answer processing.
// Returns the unlock function. Lock expires after 30s in case the holder dies.
func (s *StateManager) LockPlayer(ctx context.Context, name string) (func() error, error) {
	key := fmt.Sprintf("game:lock:%s", strings.ToLower(name))
	lockValue := uuid.New().String()

	acquired, err := s.redis.SetNX(ctx, key, lockValue, 30*time.Second).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("lock already held")
	}

	unlock := func() error {
		// Lua script ensures we only delete our own lock
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		return s.redis.Eval(ctx, script, []string{key}, lockValue).Err()
	}

	return unlock, nil
}

// StoreGame saves a player's full run state.
func (s *StateManager) StoreGame(ctx context.Context, game *PlayerGame) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	return s.redis.Set(ctx, playerKey(game.Name), data, s.ttl).Err()
}

// DeleteGame removes a player's run state. Idempotent.
func (s *StateManager) DeleteGame(ctx context.Context, name string) error {
	return s.redis.Del(ctx, playerKey(name)).Err()
}

// GetGame retrieves a player's run state. Returns nil, nil when absent.
func (s *StateManager) GetGame(ctx context.Context, name string) (*PlayerGame, error) {
	data, err := s.redis.Get(ctx, playerKey(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	var game PlayerGame
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("unmarshal game: %w", err)
	}
	return &game, nil
}
