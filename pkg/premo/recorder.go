package premo

// Recorder observes lifecycle transitions and navigation operations.
// Implementations must be cheap; they run on the owner's goroutine.
type Recorder interface {
	// ObserveTransition is called for every state a presentation model of the
	// given kind moves into.
	ObserveTransition(kind string, to State)

	// ObserveNavigation is called for every navigator operation.
	ObserveNavigation(navigator, op string, changed bool)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveTransition(string, State)        {}
func (NoopRecorder) ObserveNavigation(string, string, bool) {}
