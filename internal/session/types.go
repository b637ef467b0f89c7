package session

// Every player answers the same fixed-length question sequence; the backend
// flips its finished flag once the cursor passes the last question.
const (
	QuestionsPerPlayer = 20
	OptionsPerQuestion = 4
	MaxTeamScore       = 2 * QuestionsPerPlayer
)

// Slot identifies one of the two seats in a session.
type Slot int

// Seat constants.
const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// Other returns the opposing seat.
func (s Slot) Other() Slot {
	if s == Slot1 {
		return Slot2
	}
	return Slot1
}

// Turn state machine phases.
const (
	PhaseAwaitingQuestion = "awaiting_question"
	PhaseAwaitingAnswer   = "awaiting_answer"
	PhaseAnswered         = "answered"
	PhaseComplete         = "complete"
)

// Question is the active player's current question as delivered by the
// scoring backend. Immutable once received; replaced, never mutated.
type Question struct {
	Text         string
	Category     string
	Options      []string
	CorrectIndex int
}

// AnswerAttempt records the single accepted submission for the active
// question, carrying the backend's verdict.
type AnswerAttempt struct {
	Slot         Slot
	OptionIndex  int
	Correct      bool
	CorrectIndex int
}

// PlayerView is the per-seat slice of the projection.
type PlayerView struct {
	Name     string
	Score    int
	Finished bool
}

// QuestionView is the question as safe to display. CorrectIndex is -1 until
// the active player has answered.
type QuestionView struct {
	Text         string
	Category     string
	Options      []string
	CorrectIndex int
}

// View is a pure projection of session state for the presentation layer.
type View struct {
	Phase       string
	ActiveSlot  Slot
	ActiveName  string
	Round       int
	TotalRounds int
	Player1     PlayerView
	Player2     PlayerView
	Question    *QuestionView
	Attempt     *AnswerAttempt
}
