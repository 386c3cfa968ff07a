package anki

import "fmt"

// Error reports a failed AnkiConnect action.
type Error struct {
	Action string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("AnkiConnect %s failed: %v", e.Action, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
