package models

import "errors"

// ErrorKind classifies a command failure so the HTTP layer can map it to a
// status code without string matching.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindInvalidPhase    ErrorKind = "invalid_phase"
	KindValidation      ErrorKind = "validation"
	KindConflict        ErrorKind = "conflict"
	KindUpstreamTimeout ErrorKind = "upstream_timeout"
)

// GameError is returned by every rejected room command. The room itself is
// always left untouched when one of these comes back.
type GameError struct {
	Kind    ErrorKind
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func NotFound(msg string) *GameError {
	return &GameError{Kind: KindNotFound, Message: msg}
}

func InvalidPhase(msg string) *GameError {
	return &GameError{Kind: KindInvalidPhase, Message: msg}
}

func Validation(msg string) *GameError {
	return &GameError{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *GameError {
	return &GameError{Kind: KindConflict, Message: msg}
}

func UpstreamTimeout(msg string) *GameError {
	return &GameError{Kind: KindUpstreamTimeout, Message: msg}
}

// KindOf returns the classification of err, or an empty kind for errors that
// did not come from a room command.
func KindOf(err error) ErrorKind {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
