package hookfsm

import "log/slog"

// StateID is a unique identifier for a state
type StateID string

// WildcardState subscribes a hook or data handler to every state
const WildcardState StateID = "*"

// HookKind identifies one of the four lifecycle points of a transition
type HookKind int

const (
	// BeforeLeave fires on the previous state before the change; cancelable
	BeforeLeave HookKind = iota
	// BeforeEnter fires on the target state before the change; cancelable
	BeforeEnter
	// AfterLeave fires on the previous state once the change is done
	AfterLeave
	// AfterEnter fires on the new state once the change is done
	AfterEnter
)

func (k HookKind) String() string {
	switch k {
	case BeforeLeave:
		return "before-leave"
	case BeforeEnter:
		return "before-enter"
	case AfterLeave:
		return "after-leave"
	case AfterEnter:
		return "after-enter"
	default:
		return "unknown"
	}
}

// Logger is the default logger used when none is provided
var Logger = slog.Default()
