package gateway_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizplanet/quiz-planet/internal/game"
	"github.com/quizplanet/quiz-planet/internal/gateway"
	"github.com/quizplanet/quiz-planet/internal/leaderboard"
	"github.com/quizplanet/quiz-planet/internal/question"
	"github.com/quizplanet/quiz-planet/internal/session"
)

const packSize = 2

type fixedPackSource struct{}

func (fixedPackSource) BuildPack(_ context.Context, req question.PackRequest) (question.PackResponse, error) {
	questions := make([]question.Question, req.Count)
	for i := range questions {
		questions[i] = question.Question{
			ID:           "q",
			Text:         "prompt",
			Category:     "Science",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
			Source:       "curated",
		}
	}
	return question.PackResponse{Questions: questions, Seed: req.Seed}, nil
}

func (fixedPackSource) Categories(_ context.Context) ([]string, error) {
	return []string{"Science"}, nil
}

func newLocalGateway(t *testing.T) *gateway.Local {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	lb := leaderboard.NewService(client, zerolog.Nop(), leaderboard.ServiceOptions{})
	state := game.NewStateManager(client, time.Hour, zerolog.Nop())
	games := game.NewService(state, fixedPackSource{}, lb, nil, packSize, zerolog.Nop())
	return gateway.NewLocal(games, lb)
}

func TestLocalGatewayUsernameTaken(t *testing.T) {
	gw := newLocalGateway(t)
	ctx := context.Background()

	require.NoError(t, gw.StartNewGame(ctx, "alice"))
	err := gw.StartNewGame(ctx, "alice")
	assert.ErrorIs(t, err, gateway.ErrUsernameTaken)
}

func TestLocalGatewayRoundTrip(t *testing.T) {
	gw := newLocalGateway(t)
	ctx := context.Background()

	require.NoError(t, gw.StartNewGame(ctx, "alice"))

	available, err := gw.CheckUsernameAvailable(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, available)

	q, err := gw.GetQuestion(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, q.Options, 4)

	correct, err := gw.AnswerQuestion(ctx, "alice", q.CorrectIndex)
	require.NoError(t, err)
	assert.True(t, correct)

	score, err := gw.GetPlayerScore(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	finished, err := gw.IsGameFinished(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, finished)
}

// Drives a full two-player session through the orchestrator against the
// in-process backend.
func TestSessionOverLocalGateway(t *testing.T) {
	gw := newLocalGateway(t)
	ctx := context.Background()

	orch := session.New(gw, zerolog.Nop())
	require.NoError(t, orch.Start(ctx, "alice", "bob"))

	for round := 0; round < packSize; round++ {
		for seat := 0; seat < 2; seat++ {
			require.NoError(t, orch.LoadQuestion(ctx))

			view := orch.CurrentView()
			require.NotNil(t, view.Question)
			assert.Equal(t, -1, view.Question.CorrectIndex)

			// The backend's correct option cycles with the cursor.
			require.NoError(t, orch.SubmitAnswer(ctx, round%4))

			view = orch.CurrentView()
			require.NotNil(t, view.Attempt)
			assert.True(t, view.Attempt.Correct)

			require.NoError(t, orch.Advance(ctx))
		}
	}

	select {
	case <-orch.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not complete")
	}

	view := orch.CurrentView()
	assert.Equal(t, session.PhaseComplete, view.Phase)

	summary := orch.Summary()
	assert.Equal(t, 2*packSize, summary.TeamScore)

	scores, err := gw.HighScores(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, packSize, scores[0].Score)
}
