package premo

// State is the visibility state of a presentation model.
type State int

const (
	Created      State = iota // Alive but not visible
	InForeground              // Currently active/visible
	Destroyed                 // Terminal
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case InForeground:
		return "IN_FOREGROUND"
	case Destroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// Observer receives every state a Lifecycle moves through.
type Observer func(state State)

type observerEntry struct {
	fn      Observer
	removed bool
}

// Lifecycle is the three-state machine owned by exactly one presentation model.
// It is not safe for concurrent use.
type Lifecycle struct {
	state     State
	observers []*observerEntry
}

// NewLifecycle creates a lifecycle in the CREATED state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: Created}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}

// AddObserver registers an observer and immediately replays the current state to it.
// The returned function unregisters the observer. Once the lifecycle is destroyed
// the observer still receives the DESTROYED replay but is never retained.
func (l *Lifecycle) AddObserver(fn Observer) (remove func()) {
	entry := &observerEntry{fn: fn}
	if l.state != Destroyed {
		l.observers = append(l.observers, entry)
	}
	fn(l.state)
	return func() { l.removeObserver(entry) }
}

func (l *Lifecycle) removeObserver(entry *observerEntry) {
	entry.removed = true
	for i, o := range l.observers {
		if o == entry {
			l.observers = append(l.observers[:i:i], l.observers[i+1:]...)
			return
		}
	}
}

// MoveTo drives the state machine towards target. Moving to the current state,
// or moving out of DESTROYED, is a no-op. IN_FOREGROUND -> DESTROYED passes
// through CREATED.
func (l *Lifecycle) MoveTo(target State) {
	if target == l.state {
		return
	}

	switch target {
	case Created:
		if l.state == InForeground {
			l.notify(Created)
		}
	case InForeground:
		if l.state == Created {
			l.notify(InForeground)
		}
	case Destroyed:
		switch l.state {
		case Created:
			l.notify(Destroyed)
		case InForeground:
			l.notify(Created)
			l.notify(Destroyed)
		}
	}
}

func (l *Lifecycle) notify(state State) {
	l.state = state

	snapshot := make([]*observerEntry, len(l.observers))
	copy(snapshot, l.observers)
	for _, o := range snapshot {
		// Removal by an earlier observer applies to this round too.
		if !o.removed {
			o.fn(state)
		}
	}

	if state == Destroyed {
		l.observers = nil
	}
}
