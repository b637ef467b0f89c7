package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestStartNewGameSuccess(t *testing.T) {
	var gotName string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/games", r.URL.Path)
		var body struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotName = body.Name
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"name": body.Name})
	}))

	err := client.StartNewGame(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", gotName)
}

func TestStartNewGameConflictMapsToUsernameTaken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "username_taken",
			"message": "Username already exists",
		})
	}))

	err := client.StartNewGame(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAbandonGame(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{"name": "alice", "abandoned": true})
	}))

	require.NoError(t, client.AbandonGame(context.Background(), "alice"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/v1/players/alice", gotPath)
}

func TestGetQuestion(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/players/alice/question", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"text":          "What orbits the Earth?",
			"category":      "Science",
			"options":       []string{"Mars", "The Moon", "Venus", "The Sun"},
			"correct_index": 1,
		})
	}))

	q, err := client.GetQuestion(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "What orbits the Earth?", q.Text)
	assert.Equal(t, []string{"Mars", "The Moon", "Venus", "The Sun"}, q.Options)
	assert.Equal(t, 1, q.CorrectIndex)
}

func TestAnswerQuestion(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/players/alice/answers", r.URL.Path)
		var body struct {
			OptionIndex int `json:"option_index"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"correct": body.OptionIndex == 2,
			"score":   1,
		})
	}))

	correct, err := client.AnswerQuestion(context.Background(), "alice", 2)
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = client.AnswerQuestion(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestScoreAndFinished(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/players/alice/score":
			json.NewEncoder(w).Encode(map[string]interface{}{"score": 7})
		case "/v1/players/alice/finished":
			json.NewEncoder(w).Encode(map[string]interface{}{"finished": true})
		default:
			http.NotFound(w, r)
		}
	}))

	score, err := client.GetPlayerScore(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 7, score)

	finished, err := client.IsGameFinished(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, finished)
}

func TestHighScores(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/leaderboard", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"top": []map[string]interface{}{
				{"name": "bob", "score": 19},
				{"name": "alice", "score": 15},
			},
		})
	}))

	scores, err := client.HighScores(context.Background())
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, HighScore{Name: "bob", Score: 19}, scores[0])
}

func TestErrorResponseSurfacesCode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "game_not_found",
			"message": "No active game for player",
		})
	}))

	_, err := client.GetPlayerScore(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game_not_found")
}
