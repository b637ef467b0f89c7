package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/quizplanet/quiz-planet/internal/question"
)

// PlayerGame is the full server-side state of one player's run. The cursor
// points at the next unanswered question; answering always advances it, so a
// question can never be scored twice.
type PlayerGame struct {
	GameID     uuid.UUID           `json:"game_id"`
	Name       string              `json:"name"`
	Questions  []question.Question `json:"questions"`
	Cursor     int                 `json:"cursor"`
	Score      int                 `json:"score"`
	Finished   bool                `json:"finished"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}

// CurrentQuestion returns the question under the cursor, or nil once the run
// is finished.
func (g *PlayerGame) CurrentQuestion() *question.Question {
	if g.Finished || g.Cursor >= len(g.Questions) {
		return nil
	}
	return &g.Questions[g.Cursor]
}

// AnswerResult is returned after an answer is accepted.
type AnswerResult struct {
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correct_index"`
	Score        int  `json:"score"`
	Finished     bool `json:"finished"`
}
