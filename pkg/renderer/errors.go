package renderer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState = errors.New("renderer: operation not valid in current session state")
	ErrStopped      = errors.New("renderer: session stopped")
)

// InvalidConfigError reports a missing or unusable render configuration key
type InvalidConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *InvalidConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("renderer: invalid config %s: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("renderer: invalid config %s: %s", e.Key, e.Reason)
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Err
}

func stateError(op string, state State) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, state)
}
