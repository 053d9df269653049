package navigation

import (
	"slices"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/internal"
)

// BackMessage asks an ancestor to navigate back.
type BackMessage struct{}

// Back sends a BackMessage from node to its parent chain. It reports whether
// any navigator consumed it.
func Back(node premo.Node) bool {
	return node.PM().SendToParent(BackMessage{})
}

// HandleBackMessages consumes BackMessages reaching host by calling handle.
// A false result lets the message continue to host's ancestors.
func HandleBackMessages(host premo.Node, handle func() bool) (remove func()) {
	return host.PM().Messages().Handle(func(msg premo.Message) bool {
		if _, ok := msg.(BackMessage); !ok {
			return false
		}
		return handle()
	})
}

type listener[T any] struct {
	fn func(T)
}

type listeners[T any] struct {
	entries []*listener[T]
}

func (l *listeners[T]) add(fn func(T)) (remove func()) {
	entry := &listener[T]{fn: fn}
	l.entries = append(l.entries, entry)
	return func() {
		for i, e := range l.entries {
			if e == entry {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) notify(v T) {
	for _, e := range slices.Clone(l.entries) {
		e.fn(v)
	}
}

func same(a, b premo.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.PM() == b.PM()
}

func contains(nodes []premo.Node, n premo.Node) bool {
	return slices.ContainsFunc(nodes, func(o premo.Node) bool { return same(o, n) })
}

// requireChild fails before any entry moves when node belongs elsewhere.
func requireChild(host *premo.PresentationModel, op string, node premo.Node) {
	if node.PM().Parent() != host {
		panic(premo.NewPreconditionError(op, node.PM().Tag(), premo.ErrNotAChild))
	}
}

// requireUnique fails when node already is one of entries.
func requireUnique(op string, entries []premo.Node, node premo.Node) {
	if contains(entries, node) {
		panic(premo.NewPreconditionError(op, node.PM().Tag(), premo.ErrDuplicateEntry))
	}
}

// restoreChildren creates a child of host for every saved description. When
// one cannot be built the children created so far are destroyed.
func restoreChildren(host *premo.PresentationModel, descriptions []premo.Description) ([]premo.Node, error) {
	nodes := make([]premo.Node, 0, len(descriptions))
	for _, d := range descriptions {
		node, err := premo.TryChildAs[premo.Node](host, d)
		if err != nil {
			for _, n := range nodes {
				host.DetachChild(n)
			}
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func record(host *premo.PresentationModel, navigator, op string, changed bool) {
	host.Recorder().ObserveNavigation(navigator, op, changed)
	host.Logger().Debug("navigation", internal.Op(navigator+"."+op))
}

// onHostDestroyed runs fn once the host reaches DESTROYED.
func onHostDestroyed(host *premo.PresentationModel, fn func()) {
	host.Lifecycle().AddObserver(func(s premo.State) {
		if s == premo.Destroyed {
			fn()
		}
	})
}
