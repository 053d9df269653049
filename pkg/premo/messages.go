package premo

// Message is anything a presentation model sends up the tree.
type Message any

type messageEntry struct {
	fn func(msg Message) bool
}

// MessageHandler dispatches messages to local handlers and bubbles unhandled
// ones to the parent's handler.
type MessageHandler struct {
	parent   *MessageHandler
	handlers []*messageEntry
}

// NewMessageHandler creates a handler chained to parent, which may be nil.
func NewMessageHandler(parent *MessageHandler) *MessageHandler {
	return &MessageHandler{parent: parent}
}

// Handle registers fn. fn returns true when it consumed the message. Newer
// handlers are asked first.
func (h *MessageHandler) Handle(fn func(msg Message) bool) (remove func()) {
	entry := &messageEntry{fn: fn}
	h.handlers = append(h.handlers, entry)
	return func() {
		for i, e := range h.handlers {
			if e == entry {
				h.handlers = append(h.handlers[:i:i], h.handlers[i+1:]...)
				return
			}
		}
	}
}

// Dispatch offers msg to the local handlers, then to the parent chain.
// It returns false if nobody consumed it.
func (h *MessageHandler) Dispatch(msg Message) bool {
	for i := len(h.handlers) - 1; i >= 0; i-- {
		if h.handlers[i].fn(msg) {
			return true
		}
	}
	if h.parent != nil {
		return h.parent.Dispatch(msg)
	}
	return false
}

func (h *MessageHandler) detach() {
	h.parent = nil
	h.handlers = nil
}

// HandleMessage registers a handler for messages of type T.
func HandleMessage[T any](h *MessageHandler, fn func(msg T)) (remove func()) {
	return h.Handle(func(msg Message) bool {
		m, ok := msg.(T)
		if !ok {
			return false
		}
		fn(m)
		return true
	})
}
