package session

// Tracker reconciles the locally optimistic score display with the
// authoritative value polled from the scoring backend. The optimistic delta
// is exactly 0 or 1 and is dropped, never compounded, once the backend
// catches up.
type Tracker struct {
	confirmed int
	pending   int
}

// NewTracker returns a tracker starting at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe records the backend's latest confirmed score. A read that has
// caught up with the optimistic delta collapses the display back to exactly
// the confirmed value; a read that raced the in-flight submission keeps the
// delta so the display never walks backwards.
func (t *Tracker) Observe(confirmed int) {
	switch {
	case confirmed >= t.confirmed+t.pending:
		t.confirmed = confirmed
		t.pending = 0
	case confirmed >= t.confirmed:
		t.confirmed = confirmed
	}
}

// ApplyOptimisticIncrement provisionally counts a correct verdict before the
// next authoritative read lands. Setting rather than adding keeps the delta
// at most 1 per question.
func (t *Tracker) ApplyOptimisticIncrement() {
	t.pending = 1
}

// Displayed is the score shown to the user.
func (t *Tracker) Displayed() int {
	return t.confirmed + t.pending
}

// Confirmed is the last authoritative value observed.
func (t *Tracker) Confirmed() int {
	return t.confirmed
}
