package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizplanet/quiz-planet/internal/game"
	"github.com/quizplanet/quiz-planet/internal/leaderboard"
)

// Local adapts the in-process game and leaderboard services to the Gateway
// interface, for deployments where the session layer and scoring backend run
// in the same binary.
type Local struct {
	games       *game.Service
	leaderboard *leaderboard.Service
}

// NewLocal wires the gateway over in-process services.
func NewLocal(games *game.Service, lb *leaderboard.Service) *Local {
	return &Local{games: games, leaderboard: lb}
}

func (l *Local) StartNewGame(ctx context.Context, playerName string) error {
	_, err := l.games.StartNewGame(ctx, playerName)
	if errors.Is(err, game.ErrUsernameTaken) {
		return fmt.Errorf("%s: %w", playerName, ErrUsernameTaken)
	}
	return err
}

func (l *Local) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	return l.games.CheckUsernameAvailable(ctx, username)
}

func (l *Local) GetQuestion(ctx context.Context, playerName string) (Question, error) {
	q, err := l.games.CurrentQuestion(ctx, playerName)
	if err != nil {
		return Question{}, err
	}
	return Question{
		Text:         q.Text,
		Category:     q.Category,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
	}, nil
}

func (l *Local) AnswerQuestion(ctx context.Context, playerName string, optionIndex int) (bool, error) {
	result, err := l.games.AnswerQuestion(ctx, playerName, optionIndex)
	if err != nil {
		return false, err
	}
	return result.Correct, nil
}

func (l *Local) GetPlayerScore(ctx context.Context, playerName string) (int, error) {
	return l.games.Score(ctx, playerName)
}

func (l *Local) IsGameFinished(ctx context.Context, playerName string) (bool, error) {
	return l.games.Finished(ctx, playerName)
}

func (l *Local) AbandonGame(ctx context.Context, playerName string) error {
	return l.games.AbandonGame(ctx, playerName)
}

func (l *Local) HighScores(ctx context.Context) ([]HighScore, error) {
	if l.leaderboard == nil {
		return nil, nil
	}
	entries, err := l.leaderboard.Top(ctx, 0)
	if err != nil {
		return nil, err
	}
	scores := make([]HighScore, len(entries))
	for i, e := range entries {
		scores[i] = HighScore{Name: e.Name, Score: e.Score}
	}
	return scores, nil
}

func (l *Local) Categories(ctx context.Context) ([]string, error) {
	return l.games.Categories(ctx)
}
