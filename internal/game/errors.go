package game

import "errors"

var (
	// ErrUsernameTaken means another player currently holds the display name.
	ErrUsernameTaken = errors.New("Username already exists")

	// ErrGameNotFound means no active run exists for the given name.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameFinished means the run has no questions left to answer.
	ErrGameFinished = errors.New("game already finished")

	// ErrInvalidOption means the submitted option index is out of range.
	ErrInvalidOption = errors.New("invalid option index")
)
