package engine

import "errors"

var (
	// ErrSessionNotFound reports an unknown or already-ended session id.
	ErrSessionNotFound = errors.New("game session not found")

	// ErrSessionEnded reports a message sent to a session that has already
	// been won or lost.
	ErrSessionEnded = errors.New("game session already ended")
)
