package hookfsm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTargetState is returned when a transition is requested without a target
	ErrNoTargetState = errors.New("no target state specified")
	// ErrUnknownState is returned for a state the table does not declare
	ErrUnknownState = errors.New("unknown state")
	// ErrUnknownTransition is returned when no named transition matches the current state
	ErrUnknownTransition = errors.New("unknown transition")
	// ErrMachineBusy matches *BusyError
	ErrMachineBusy = errors.New("state machine busy")
	// ErrAlreadyReturned matches *AlreadyReturnedError
	ErrAlreadyReturned = errors.New("result already returned")
)

// BusyError reports a transition attempted while another one is still in
// its before phase. Changing state from a before hook is not supported.
type BusyError struct {
	InFlightFrom StateID
	InFlightTo   StateID
	AttemptFrom  StateID
	AttemptTo    StateID
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("state machine is already changing state (%s -> %s); "+
		"transitioning (%s -> %s) from a before hook is not supported",
		e.InFlightFrom, e.InFlightTo, e.AttemptFrom, e.AttemptTo)
}

func (e *BusyError) Is(target error) bool {
	return target == ErrMachineBusy
}

// AlreadyReturnedError reports that more than one listener produced a result
// for a single fire.
type AlreadyReturnedError struct {
	First  any
	Second any
}

func (e *AlreadyReturnedError) Error() string {
	return fmt.Sprintf("data is already returned: %v, got %v as well", e.First, e.Second)
}

func (e *AlreadyReturnedError) Is(target error) bool {
	return target == ErrAlreadyReturned
}
