package game

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveRound = errors.New("start a round first")
	ErrNoGuess       = errors.New("mark your location first")
)

// PreconditionError reports an operation attempted in a state that does not allow it.
// It is always recoverable and meant to be shown to the player as a warning.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return e.Err.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// Detail includes the operation name, for logs.
func (e *PreconditionError) Detail() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// IsPrecondition reports whether err is, or wraps, a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func precondition(op string, err error) error {
	return &PreconditionError{Op: op, Err: err}
}
