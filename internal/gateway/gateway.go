package gateway

import (
	"context"
	"errors"
)

// ErrUsernameTaken is reported by the backend when a player name is already
// active. Start is authoritative; the availability check is advisory only.
var ErrUsernameTaken = errors.New("username already exists")

// Question is the wire shape of the active player's current question. The
// correct index travels with it; concealment until the player has answered
// is the presentation layer's job.
type Question struct {
	Text         string   `json:"text"`
	Category     string   `json:"category"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// HighScore is one leaderboard row, highest first.
type HighScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Gateway is the asynchronous scoring authority consumed by the session
// core. Every call may suspend and may fail; the caller recovers at the
// state-machine boundary.
type Gateway interface {
	// StartNewGame registers a player and deals their question sequence.
	// Returns ErrUsernameTaken if the name is already active.
	StartNewGame(ctx context.Context, playerName string) error
	// CheckUsernameAvailable is advisory; StartNewGame is authoritative.
	CheckUsernameAvailable(ctx context.Context, username string) (bool, error)
	// GetQuestion returns the player's current question. Idempotent re-read
	// while the question is unanswered.
	GetQuestion(ctx context.Context, playerName string) (Question, error)
	// AnswerQuestion submits an option index and returns the correctness
	// verdict. The backend accepts exactly one submission per question per
	// player.
	AnswerQuestion(ctx context.Context, playerName string, optionIndex int) (bool, error)
	// GetPlayerScore returns the authoritative, monotonic score.
	GetPlayerScore(ctx context.Context, playerName string) (int, error)
	// IsGameFinished reports whether the player exhausted their sequence.
	IsGameFinished(ctx context.Context, playerName string) (bool, error)
	// AbandonGame releases a player's run and name reservation. Best-effort
	// cleanup when a session fails to assemble; unknown names are not an
	// error.
	AbandonGame(ctx context.Context, playerName string) error
	// HighScores returns the global leaderboard, best-effort freshness.
	HighScores(ctx context.Context) ([]HighScore, error)
	// Categories lists known question category labels. Informational only.
	Categories(ctx context.Context) ([]string, error)
}
