package leaderboard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/quizplanet/quiz-planet/pkg/http/ws"
)

type sinkRecorder struct {
	msgs chan ws.Message
}

func newSinkRecorder() *sinkRecorder {
	return &sinkRecorder{msgs: make(chan ws.Message, 8)}
}

func (s *sinkRecorder) BroadcastAll(msg ws.Message) error {
	s.msgs <- msg
	return nil
}

func TestBroadcasterForwardsPublishedUpdates(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sink := newSinkRecorder()
	b := NewBroadcaster(client, sink, "lb:updates", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	payload, err := json.Marshal(ws.LeaderboardUpdatePayload{
		Top: []ws.LeaderboardEntry{{Rank: 1, Name: "alice", Score: 18, Games: 3}},
	})
	require.NoError(t, err)

	// Publish until the subscription is live and the frame comes through.
	var got ws.Message
	deadline := time.After(2 * time.Second)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
receive:
	for {
		select {
		case got = <-sink.msgs:
			break receive
		case <-ticker.C:
			require.NoError(t, client.Publish(ctx, "lb:updates", payload).Err())
		case <-deadline:
			t.Fatal("no leaderboard update reached the sink")
		}
	}

	assert.Equal(t, ws.TypeLeaderboardUpdate, got.Type)
	var evt ws.LeaderboardUpdatePayload
	require.NoError(t, json.Unmarshal(got.Payload, &evt))
	require.Len(t, evt.Top, 1)
	assert.Equal(t, "alice", evt.Top[0].Name)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestBroadcasterDropsUnusableFrames(t *testing.T) {
	sink := newSinkRecorder()
	b := NewBroadcaster(nil, sink, "", zerolog.Nop())

	b.forward([]byte("{not json"))
	b.forward([]byte(`{"top":[]}`))

	select {
	case msg := <-sink.msgs:
		t.Fatalf("unexpected broadcast: %+v", msg)
	default:
	}
}
