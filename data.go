package hookfsm

// DataFunc handles a payload routed to a state. Returning a non-empty state
// asks the machine to transition there once the fan-out is done; handlers
// that forward the payload themselves return "".
type DataFunc func(ev *DataEvent) (StateID, error)

type dataKey struct {
	state StateID
	topic string
}

// OnData registers fn for every payload sent while the machine is in state.
// Use WildcardState to receive payloads in any state.
func (m *Machine) OnData(state StateID, fn DataFunc) *Registration {
	return m.OnTopic(state, "", fn)
}

// OnTopic registers fn for payloads sent with the given topic while the
// machine is in state. An empty topic behaves like OnData.
func (m *Machine) OnTopic(state StateID, topic string, fn DataFunc) *Registration {
	m.checkListenerState(state)
	return m.data.AddListener(dataKey{state: state, topic: topic}, Handler[*DataEvent, StateID](fn))
}

// SendData routes data to the handlers of the current state
func (m *Machine) SendData(data any) (StateID, error) {
	return m.SendTopic("", data)
}

// SendTopic routes data to the handlers of the current state registered for
// topic, then to its untyped handlers
func (m *Machine) SendTopic(topic string, data any) (StateID, error) {
	if err := m.ensureStarted(); err != nil {
		return m.current, err
	}
	return m.dispatch(topic, data)
}

// SendDataTo changes the state to state and then routes data to the handlers
// of whatever state the machine ends up in
func (m *Machine) SendDataTo(state StateID, data any) (StateID, error) {
	return m.SendTopicTo(state, "", data)
}

// SendTopicTo is SendDataTo for a typed payload
func (m *Machine) SendTopicTo(state StateID, topic string, data any) (StateID, error) {
	if err := m.ensureStarted(); err != nil {
		return m.current, err
	}
	if _, err := m.changeState(state, data); err != nil {
		return m.current, err
	}
	return m.dispatch(topic, data)
}

// ForwardData is SendDataTo without the resulting state. It reads well as
// the last statement of a handler passing its payload on:
//
//	return "", ev.Machine().ForwardData(Running, next)
func (m *Machine) ForwardData(state StateID, data any) error {
	_, err := m.SendDataTo(state, data)
	return err
}

func (m *Machine) dispatch(topic string, data any) (StateID, error) {
	ev := &DataEvent{
		Data:    data,
		Topic:   topic,
		machine: m,
		state:   m.current,
	}

	m.logger.Debug("dispatching data", "state", ev.state, "topic", topic)

	var res Result[StateID]
	for _, key := range dataKeys(ev.state, topic) {
		res = res.Merge(m.data.Fire(key, ev))
		if res.Err != nil {
			return m.current, res.Err
		}
		if ev.consumed {
			break
		}
	}

	if !res.Defined {
		return m.current, nil
	}

	return m.changeState(res.Value, data)
}

// dataKeys lists the buckets a payload visits, most specific first
func dataKeys(state StateID, topic string) []dataKey {
	if topic == "" {
		return []dataKey{
			{state: state},
			{state: WildcardState},
		}
	}
	return []dataKey{
		{state: state, topic: topic},
		{state: state},
		{state: WildcardState, topic: topic},
		{state: WildcardState},
	}
}
