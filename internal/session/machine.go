package session

// Machine is the per-session turn state machine. Turn order is strictly
// seat 1 then seat 2 per round; the round counter moves only when the turn
// wraps back to seat 1. All guards return false instead of panicking so
// duplicate event delivery degrades to a no-op.
type Machine struct {
	phase    string
	active   Slot
	round    int
	question *Question
	attempt  *AnswerAttempt
}

// NewMachine starts a machine at round 0 awaiting seat 1's first question.
func NewMachine() *Machine {
	return &Machine{
		phase:  PhaseAwaitingQuestion,
		active: Slot1,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() string { return m.phase }

// Active returns the seat whose turn it is.
func (m *Machine) Active() Slot { return m.active }

// Round returns the shared question-pair counter, 0-based.
func (m *Machine) Round() int { return m.round }

// Question returns the loaded question, or nil.
func (m *Machine) Question() *Question { return m.question }

// Attempt returns the recorded attempt for the active question, or nil.
func (m *Machine) Attempt() *AnswerAttempt { return m.attempt }

// Completed reports whether the session reached its terminal phase.
func (m *Machine) Completed() bool { return m.phase == PhaseComplete }

// BeginQuestion installs the fetched question for the active seat.
func (m *Machine) BeginQuestion(q Question) bool {
	if m.phase != PhaseAwaitingQuestion {
		return false
	}
	m.question = &q
	m.phase = PhaseAwaitingAnswer
	return true
}

// CanSubmit reports whether submitting option idx is legal right now: a
// question must be loaded, no attempt may exist yet, and idx must address
// one of its options.
func (m *Machine) CanSubmit(idx int) bool {
	return m.phase == PhaseAwaitingAnswer &&
		m.attempt == nil &&
		m.question != nil &&
		idx >= 0 && idx < len(m.question.Options)
}

// RecordAttempt stores the backend's verdict for a legal submission and
// moves to the answered phase, where the correct option is safe to reveal.
func (m *Machine) RecordAttempt(idx int, correct bool) bool {
	if !m.CanSubmit(idx) {
		return false
	}
	m.attempt = &AnswerAttempt{
		Slot:         m.active,
		OptionIndex:  idx,
		Correct:      correct,
		CorrectIndex: m.question.CorrectIndex,
	}
	m.phase = PhaseAnswered
	return true
}

// Advance clears the feedback and hands the turn to the other seat. A round
// is complete only after both seats have answered, so the counter increments
// on the seat 2 to seat 1 flip.
func (m *Machine) Advance() bool {
	if m.phase != PhaseAnswered {
		return false
	}
	m.question = nil
	m.attempt = nil
	if m.active == Slot2 {
		m.round++
	}
	m.active = m.active.Other()
	m.phase = PhaseAwaitingQuestion
	return true
}

// Complete moves to the terminal phase. No further question or answer
// actions are accepted afterwards.
func (m *Machine) Complete() {
	m.phase = PhaseComplete
	m.question = nil
	m.attempt = nil
}
