package leaderboard

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/quizplanet/quiz-planet/pkg/http/ws"
)

// UpdateSink receives validated leaderboard updates. Satisfied by *ws.Hub.
type UpdateSink interface {
	BroadcastAll(msg ws.Message) error
}

// Broadcaster bridges the Redis update channel to connected WebSocket
// clients. The API instance that recorded the score and every peer instance
// subscribed to the same channel deliver the identical frame.
type Broadcaster struct {
	redis   *redis.Client
	sink    UpdateSink
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered leaderboard broadcaster.
func NewBroadcaster(redis *redis.Client, sink UpdateSink, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = "lb:updates"
	}
	return &Broadcaster{
		redis:   redis,
		sink:    sink,
		channel: channel,
		logger:  logger.With().Str("component", "leaderboard_broadcaster").Logger(),
	}
}

// Run subscribes to the update channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.sink == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward([]byte(msg.Payload))
		}
	}
}

// forward validates the published payload and hands the original bytes to
// the sink. Empty snapshots are dropped, they carry nothing to render.
func (b *Broadcaster) forward(payload []byte) {
	var evt ws.LeaderboardUpdatePayload
	if err := json.Unmarshal(payload, &evt); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode leaderboard update payload")
		return
	}
	if len(evt.Top) == 0 {
		return
	}

	msg := ws.Message{
		Type:    ws.TypeLeaderboardUpdate,
		Payload: payload,
	}
	if err := b.sink.BroadcastAll(msg); err != nil {
		b.logger.Warn().Err(err).Msg("failed to broadcast leaderboard update")
	}
}
