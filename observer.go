package hookfsm

// Observer receives the outcomes that the machine otherwise only logs:
// rejected and cancelled transitions and isolated listener failures.
type Observer interface {
	TransitionCompleted(from, to StateID)
	TransitionRejected(from, to StateID)
	TransitionCancelled(from, to StateID)
	ListenerFailed(kind string, state StateID, err error)
}

// NopObserver ignores everything
type NopObserver struct{}

func (NopObserver) TransitionCompleted(from, to StateID)                 {}
func (NopObserver) TransitionRejected(from, to StateID)                  {}
func (NopObserver) TransitionCancelled(from, to StateID)                 {}
func (NopObserver) ListenerFailed(kind string, state StateID, err error) {}

type multiObserver []Observer

// Observers fans every notification out to all of obs in order
func Observers(obs ...Observer) Observer {
	return multiObserver(obs)
}

func (m multiObserver) TransitionCompleted(from, to StateID) {
	for _, o := range m {
		o.TransitionCompleted(from, to)
	}
}

func (m multiObserver) TransitionRejected(from, to StateID) {
	for _, o := range m {
		o.TransitionRejected(from, to)
	}
}

func (m multiObserver) TransitionCancelled(from, to StateID) {
	for _, o := range m {
		o.TransitionCancelled(from, to)
	}
}

func (m multiObserver) ListenerFailed(kind string, state StateID, err error) {
	for _, o := range m {
		o.ListenerFailed(kind, state, err)
	}
}
