package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizplanet/quiz-planet/internal/db/repository"
	"github.com/quizplanet/quiz-planet/internal/question"
)

// PackSource builds the question pack for a new run.
type PackSource interface {
	BuildPack(ctx context.Context, req question.PackRequest) (question.PackResponse, error)
	Categories(ctx context.Context) ([]string, error)
}

// Leaderboard records finished scores.
type Leaderboard interface {
	Record(ctx context.Context, name string, score int) error
}

// ResultStore persists finished runs durably.
type ResultStore interface {
	InsertResult(ctx context.Context, row repository.ResultRow) error
}

// Service runs individual player games: one pack of questions per display
// name, answered strictly in order.
type Service struct {
	state       *StateManager
	packs       PackSource
	leaderboard Leaderboard
	results     ResultStore
	packSize    int
	logger      zerolog.Logger
}

// NewService creates the game service.
func NewService(state *StateManager, packs PackSource, leaderboard Leaderboard, results ResultStore, packSize int, logger zerolog.Logger) *Service {
	if packSize <= 0 {
		packSize = 20
	}
	return &Service{
		state:       state,
		packs:       packs,
		leaderboard: leaderboard,
		results:     results,
		packSize:    packSize,
		logger:      logger.With().Str("component", "game").Logger(),
	}
}

// StartNewGame claims the display name and deals a fresh pack. A name held by
// an active run is rejected with ErrUsernameTaken.
func (s *Service) StartNewGame(ctx context.Context, name string) (*PlayerGame, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty player name")
	}

	gameID := uuid.New()
	if err := s.state.ReserveName(ctx, name, gameID); err != nil {
		return nil, err
	}

	seed := fmt.Sprintf("%s-%d", strings.ToLower(name), time.Now().UnixNano())
	pack, err := s.packs.BuildPack(ctx, question.PackRequest{Count: s.packSize, Seed: seed})
	if err != nil {
		if relErr := s.state.ReleaseName(ctx, name); relErr != nil {
			s.logger.Warn().Err(relErr).Str("name", name).Msg("failed to release name after pack error")
		}
		return nil, fmt.Errorf("build pack: %w", err)
	}

	game := &PlayerGame{
		GameID:    gameID,
		Name:      name,
		Questions: pack.Questions,
		StartedAt: time.Now().UTC(),
	}
	if err := s.state.StoreGame(ctx, game); err != nil {
		if relErr := s.state.ReleaseName(ctx, name); relErr != nil {
			s.logger.Warn().Err(relErr).Str("name", name).Msg("failed to release name after store error")
		}
		return nil, fmt.Errorf("store game: %w", err)
	}

	s.logger.Info().Str("name", name).Str("game_id", gameID.String()).Int("questions", len(game.Questions)).Msg("game started")
	return game, nil
}

// CheckUsernameAvailable reports whether a display name is free.
func (s *Service) CheckUsernameAvailable(ctx context.Context, name string) (bool, error) {
	return s.state.NameAvailable(ctx, strings.TrimSpace(name))
}

// CurrentQuestion returns the question under the player's cursor.
func (s *Service) CurrentQuestion(ctx context.Context, name string) (*question.Question, error) {
	game, err := s.state.GetGame(ctx, name)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	q := game.CurrentQuestion()
	if q == nil {
		return nil, ErrGameFinished
	}
	return q, nil
}

// AnswerQuestion scores the submitted option against the question under the
// cursor and advances it. The per-player lock serializes concurrent submits;
// because the cursor moves on accept, a duplicate submit lands on the next
// question rather than re-scoring the previous one.
func (s *Service) AnswerQuestion(ctx context.Context, name string, optionIndex int) (*AnswerResult, error) {
	unlock, err := s.state.LockPlayer(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lock player: %w", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn().Err(err).Str("name", name).Msg("failed to release player lock")
		}
	}()

	game, err := s.state.GetGame(ctx, name)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	q := game.CurrentQuestion()
	if q == nil {
		return nil, ErrGameFinished
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, ErrInvalidOption
	}

	correct := optionIndex == q.CorrectIndex
	if correct {
		game.Score++
	}
	game.Cursor++
	if game.Cursor >= len(game.Questions) {
		game.Finished = true
		now := time.Now().UTC()
		game.FinishedAt = &now
	}

	if err := s.state.StoreGame(ctx, game); err != nil {
		return nil, fmt.Errorf("store game: %w", err)
	}

	if game.Finished {
		s.onFinished(ctx, game)
	}

	return &AnswerResult{
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		Score:        game.Score,
		Finished:     game.Finished,
	}, nil
}

// Score returns the player's authoritative score so far.
func (s *Service) Score(ctx context.Context, name string) (int, error) {
	game, err := s.state.GetGame(ctx, name)
	if err != nil {
		return 0, err
	}
	if game == nil {
		return 0, ErrGameNotFound
	}
	return game.Score, nil
}

// Finished reports whether the player has answered their whole pack.
func (s *Service) Finished(ctx context.Context, name string) (bool, error) {
	game, err := s.state.GetGame(ctx, name)
	if err != nil {
		return false, err
	}
	if game == nil {
		return false, ErrGameNotFound
	}
	return game.Finished, nil
}

// AbandonGame drops the player's run state and releases their name. Used
// when a caller set up only part of a multi-player session; abandoning an
// unknown name is a no-op.
func (s *Service) AbandonGame(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty player name")
	}
	if err := s.state.DeleteGame(ctx, name); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if err := s.state.ReleaseName(ctx, name); err != nil {
		return fmt.Errorf("release name: %w", err)
	}
	s.logger.Info().Str("name", name).Msg("game abandoned")
	return nil
}

// Categories lists the question categories available for packs.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.packs.Categories(ctx)
}

// onFinished records the completed run on the leaderboard and in Postgres.
// Neither failure invalidates the finished game, so both are logged and
// swallowed.
func (s *Service) onFinished(ctx context.Context, game *PlayerGame) {
	if s.leaderboard != nil {
		if err := s.leaderboard.Record(ctx, game.Name, game.Score); err != nil {
			s.logger.Warn().Err(err).Str("name", game.Name).Msg("failed to record leaderboard entry")
		}
	}
	if s.results != nil {
		err := s.results.InsertResult(ctx, repository.ResultRow{
			GameID:        game.GameID,
			PlayerName:    game.Name,
			Score:         game.Score,
			QuestionCount: len(game.Questions),
			FinishedAt:    *game.FinishedAt,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("name", game.Name).Msg("failed to persist game result")
		}
	}
	s.logger.Info().Str("name", game.Name).Int("score", game.Score).Msg("game finished")
}
