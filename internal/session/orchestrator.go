package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/quizplanet/quiz-planet/internal/gateway"
)

type playerState struct {
	name     string
	tracker  *Tracker
	finished bool
}

// Orchestrator composes the turn machine, the per-player score trackers and
// the completion watcher behind the asynchronous gateway boundary. All state
// transitions are serialized through one mutex; gateway calls happen outside
// it, and their results are discarded if the session moved on or was torn
// down while they were in flight.
type Orchestrator struct {
	gw     gateway.Gateway
	logger zerolog.Logger

	mu         sync.Mutex
	machine    *Machine
	players    [2]*playerState
	watcher    *Watcher
	started    bool
	closed     bool
	submitting bool

	done chan struct{}
}

// New creates an orchestrator over the given gateway.
func New(gw gateway.Gateway, logger zerolog.Logger) *Orchestrator {
	o := &Orchestrator{
		gw:     gw,
		logger: logger.With().Str("component", "session").Logger(),
		done:   make(chan struct{}),
	}
	o.watcher = NewWatcher(o.onBothFinished)
	return o
}

// Done is closed once when both players' finished flags have been observed
// true. The presentation layer uses it to navigate to the results view.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// Start validates the two names and requests game-start for each from the
// backend. Equal names are rejected before any backend call. On success the
// session sits at round 0 awaiting player 1's first question.
func (o *Orchestrator) Start(ctx context.Context, name1, name2 string) error {
	name1 = strings.TrimSpace(name1)
	name2 = strings.TrimSpace(name2)
	if name1 == "" || name2 == "" {
		return fmt.Errorf("%w: both player names are required", ErrStartFailed)
	}
	if name1 == name2 {
		return ErrDuplicateName
	}

	o.mu.Lock()
	if o.started || o.closed {
		o.mu.Unlock()
		return fmt.Errorf("%w: session already started", ErrStartFailed)
	}
	o.mu.Unlock()

	if err := o.gw.StartNewGame(ctx, name1); err != nil {
		return o.startError(name1, err)
	}
	if err := o.gw.StartNewGame(ctx, name2); err != nil {
		// Player 1's run is already registered; release it so the name does
		// not stay claimed by a session that never existed.
		if relErr := o.gw.AbandonGame(ctx, name1); relErr != nil {
			o.logger.Warn().Err(relErr).Str("player", name1).Msg("failed to release first player after start failure")
		}
		return o.startError(name2, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.machine = NewMachine()
	o.players[0] = &playerState{name: name1, tracker: NewTracker()}
	o.players[1] = &playerState{name: name2, tracker: NewTracker()}
	o.started = true
	o.logger.Info().Str("player1", name1).Str("player2", name2).Msg("session started")
	return nil
}

// LoadQuestion performs the awaiting_question entry action: it fetches the
// active player's current question. On failure the session stays in
// awaiting_question with nothing committed, so the fetch can be retried.
func (o *Orchestrator) LoadQuestion(ctx context.Context) error {
	o.mu.Lock()
	if !o.started || o.closed || o.machine.Phase() != PhaseAwaitingQuestion {
		o.mu.Unlock()
		return nil
	}
	active := o.machine.Active()
	name := o.player(active).name
	o.mu.Unlock()

	q, err := o.gw.GetQuestion(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQuestionFetchFailed, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.machine.Completed() || o.machine.Active() != active {
		o.logger.Debug().Str("player", name).Msg("discarding stale question response")
		return nil
	}
	o.machine.BeginQuestion(Question{
		Text:         q.Text,
		Category:     q.Category,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
	})
	return nil
}

// SubmitAnswer submits option idx for the currently active player. Outside
// awaiting_answer, with an attempt already recorded, or while a submission
// is still in flight it is a no-op: the guard, not a lock, is what prevents
// duplicate submissions under double-click or repeated event delivery.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, idx int) error {
	o.mu.Lock()
	if !o.started || o.closed || o.submitting || !o.machine.CanSubmit(idx) {
		o.mu.Unlock()
		return nil
	}
	o.submitting = true
	active := o.machine.Active()
	name := o.player(active).name
	q := o.machine.Question()
	o.mu.Unlock()

	correct, err := o.gw.AnswerQuestion(ctx, name, idx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitting = false
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if o.closed || o.machine.Completed() || o.machine.Question() != q {
		o.logger.Debug().Str("player", name).Msg("discarding stale answer verdict")
		return nil
	}
	if !o.machine.RecordAttempt(idx, correct) {
		return nil
	}
	if correct {
		o.player(active).tracker.ApplyOptimisticIncrement()
	}
	return nil
}

// Advance leaves the answered phase: it clears the attempt, flips the active
// seat, re-arms both players' score and finished polling, and either loads
// the next question or, if the watcher has signaled both players finished,
// settles into the terminal phase. Outside answered it is a no-op.
func (o *Orchestrator) Advance(ctx context.Context) error {
	o.mu.Lock()
	if !o.started || o.closed || !o.machine.Advance() {
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	if err := o.RefreshScores(ctx); err != nil {
		o.logger.Debug().Err(err).Msg("score refresh failed, keeping optimistic values")
	}
	if err := o.PollCompletion(ctx); err != nil {
		o.logger.Debug().Err(err).Msg("completion poll failed, will retry next advance")
	}

	o.mu.Lock()
	if o.machine.Completed() || o.watcher.Fired() {
		o.machine.Complete()
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	return o.LoadQuestion(ctx)
}

// RefreshScores polls both players' authoritative scores concurrently.
// Either poll may complete first or fail independently.
func (o *Orchestrator) RefreshScores(ctx context.Context) error {
	names, ok := o.playerNames()
	if !ok {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		slot := Slot(i + 1)
		name := name
		g.Go(func() error {
			score, err := o.gw.GetPlayerScore(ctx, name)
			if err != nil {
				return fmt.Errorf("score for %s: %w", name, err)
			}
			o.applyScore(slot, score)
			return nil
		})
	}
	return g.Wait()
}

// PollCompletion polls both players' finished flags concurrently and feeds
// the watcher. Order does not matter; the watcher fires once on both true.
func (o *Orchestrator) PollCompletion(ctx context.Context) error {
	names, ok := o.playerNames()
	if !ok {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		slot := Slot(i + 1)
		name := name
		g.Go(func() error {
			finished, err := o.gw.IsGameFinished(ctx, name)
			if err != nil {
				return fmt.Errorf("finished flag for %s: %w", name, err)
			}
			o.applyFinished(slot, finished)
			return nil
		})
	}
	return g.Wait()
}

// CurrentView is a pure projection of session state with no side effects.
// The correct option index is concealed until the answered phase.
func (o *Orchestrator) CurrentView() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started {
		return View{TotalRounds: QuestionsPerPlayer}
	}

	v := View{
		Phase:       o.machine.Phase(),
		ActiveSlot:  o.machine.Active(),
		ActiveName:  o.player(o.machine.Active()).name,
		Round:       o.machine.Round(),
		TotalRounds: QuestionsPerPlayer,
		Player1:     o.playerView(Slot1),
		Player2:     o.playerView(Slot2),
	}
	if q := o.machine.Question(); q != nil {
		qv := QuestionView{
			Text:         q.Text,
			Category:     q.Category,
			Options:      q.Options,
			CorrectIndex: -1,
		}
		if o.machine.Phase() == PhaseAnswered {
			qv.CorrectIndex = q.CorrectIndex
		}
		v.Question = &qv
	}
	if a := o.machine.Attempt(); a != nil {
		attempt := *a
		v.Attempt = &attempt
	}
	return v
}

// Summary builds the end-of-session results from both confirmed scores.
func (o *Orchestrator) Summary() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return NewSummary("", 0, "", 0)
	}
	return NewSummary(
		o.players[0].name, o.players[0].tracker.Confirmed(),
		o.players[1].name, o.players[1].tracker.Confirmed(),
	)
}

// Close tears the session down. In-flight responses arriving afterwards are
// discarded, never applied.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}

func (o *Orchestrator) onBothFinished() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.machine.Complete()
	o.mu.Unlock()

	o.logger.Info().Msg("both players finished, session complete")
	close(o.done)
}

func (o *Orchestrator) applyScore(slot Slot, score int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.player(slot).tracker.Observe(score)
}

func (o *Orchestrator) applyFinished(slot Slot, finished bool) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.player(slot).finished = o.player(slot).finished || finished
	o.mu.Unlock()

	// The watcher serializes its own merge point and drives the terminal
	// transition through onBothFinished.
	o.watcher.Observe(slot, finished)
}

func (o *Orchestrator) playerNames() ([2]string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started || o.closed {
		return [2]string{}, false
	}
	return [2]string{o.players[0].name, o.players[1].name}, true
}

func (o *Orchestrator) player(slot Slot) *playerState {
	return o.players[slot-1]
}

func (o *Orchestrator) playerView(slot Slot) PlayerView {
	p := o.player(slot)
	return PlayerView{
		Name:     p.name,
		Score:    p.tracker.Displayed(),
		Finished: p.finished,
	}
}

func (o *Orchestrator) startError(name string, err error) error {
	if errorsIsTaken(err) {
		return fmt.Errorf("%w: %s", ErrUsernameTaken, name)
	}
	return fmt.Errorf("%w: %v", ErrStartFailed, err)
}

// The original backend surfaces name collisions as a bare "Username already
// exists" message, so match on text as well as the sentinel.
func errorsIsTaken(err error) bool {
	return errors.Is(err, gateway.ErrUsernameTaken) ||
		strings.Contains(err.Error(), "Username already exists")
}
