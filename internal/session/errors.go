package session

import "errors"

var (
	// ErrDuplicateName is returned when both seats chose the same name.
	// Rejected before any backend call is issued.
	ErrDuplicateName = errors.New("players must have different names")
	// ErrUsernameTaken is returned when the backend reports a name in use.
	ErrUsernameTaken = errors.New("player name already in use")
	// ErrStartFailed covers any other failure while starting the session.
	ErrStartFailed = errors.New("failed to start game")
	// ErrQuestionFetchFailed is transient; the session stays in
	// awaiting_question and the fetch may be retried.
	ErrQuestionFetchFailed = errors.New("failed to load question")
	// ErrSubmissionFailed is transient; no attempt is recorded and the
	// player may resubmit.
	ErrSubmissionFailed = errors.New("failed to submit answer")
)
