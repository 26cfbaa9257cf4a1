package session

import "errors"

// Session-state conditions reported to callers. ErrSessionNotFound is
// recoverable: the caller may re-begin with the same token to reconstitute
// state. ErrSessionEnded is terminal.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionEnded    = errors.New("session has ended")
	ErrSessionExists   = errors.New("session already exists")
)
