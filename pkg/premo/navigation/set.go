package navigation

import (
	"fmt"
	"slices"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/constants"
)

// SetOptions configures a SetNavigator.
type SetOptions struct {
	Key string // State key in the host's scope; defaults to constants.SetNavigatorKey

	// OnSelect handles a selection request from the view layer. The default
	// switches to the requested index.
	OnSelect func(index int, n *SetNavigator)
}

// SetNavigator keeps a fixed list of sibling children alive and selects one
// of them as the foreground entry, the way a tab bar does.
type SetNavigator struct {
	host      *premo.PresentationModel
	key       string
	values    []premo.Node
	current   int
	onSelect  func(int, *SetNavigator)
	listeners listeners[premo.Node]
}

// NewSetNavigator selects the first of values, or the index saved under
// opts.Key when it is still in range. Every value must be a child of host.
func NewSetNavigator(host premo.Node, values []premo.Node, opts SetOptions) *SetNavigator {
	pm := host.PM()
	key := opts.Key
	if key == "" {
		key = constants.SetNavigatorKey
	}

	n := &SetNavigator{host: pm, key: key, current: -1, onSelect: opts.OnSelect}
	if n.onSelect == nil {
		n.onSelect = func(index int, n *SetNavigator) { n.ChangeCurrent(index) }
	}

	for i, v := range values {
		requireChild(pm, "set.new", v)
		requireUnique("set.new", values[:i], v)
	}
	n.values = slices.Clone(values)
	if len(n.values) > 0 {
		index := 0
		if saved, ok := premo.Saved[int](pm.StateHandler(), key); ok && saved >= 0 && saved < len(n.values) {
			index = saved
		}
		n.selectIndex(index)
	}

	pm.StateHandler().SetSaver(key, func() any {
		if n.current < 0 {
			return nil
		}
		return n.current
	})

	pm.OnBack(func() bool {
		if cur := n.Current(); cur != nil {
			return cur.PM().HandleBack()
		}
		return false
	})

	onHostDestroyed(pm, func() {
		n.values = nil
		n.current = -1
	})
	return n
}

// NewSetNavigatorOf creates one child of host per description and builds a
// SetNavigator over them.
func NewSetNavigatorOf(host premo.Node, descriptions []premo.Description, opts SetOptions) *SetNavigator {
	pm := host.PM()
	values := make([]premo.Node, 0, len(descriptions))
	for _, d := range descriptions {
		values = append(values, pm.Child(d))
	}
	return NewSetNavigator(host, values, opts)
}

// Values returns every entry in order.
func (n *SetNavigator) Values() []premo.Node {
	return slices.Clone(n.values)
}

// Current returns the foreground entry, or nil when the set is empty.
func (n *SetNavigator) Current() premo.Node {
	if n.current < 0 {
		return nil
	}
	return n.values[n.current]
}

// CurrentIndex returns the index of the foreground entry, or -1.
func (n *SetNavigator) CurrentIndex() int {
	return n.current
}

// OnChange registers fn to be called with the new current entry.
func (n *SetNavigator) OnChange(fn func(premo.Node)) (remove func()) {
	return n.listeners.add(fn)
}

// Select forwards a selection request to the configured handler.
func (n *SetNavigator) Select(index int) {
	n.onSelect(index, n)
}

// ChangeCurrent demotes the current entry and promotes values[index]. An
// index outside the list is a precondition violation.
func (n *SetNavigator) ChangeCurrent(index int) {
	if index < 0 || index >= len(n.values) {
		panic(premo.NewPreconditionError("set.change_current", n.host.Tag(),
			fmt.Errorf("%w: %d not in [0, %d)", premo.ErrIndexOutOfRange, index, len(n.values))))
	}
	if index == n.current {
		record(n.host, "set", "change_current", false)
		return
	}
	n.selectIndex(index)
	record(n.host, "set", "change_current", true)
	n.listeners.notify(n.Current())
}

// ChangeValues replaces the list. Entries missing from values are destroyed
// and the first entry becomes current.
func (n *SetNavigator) ChangeValues(values []premo.Node) {
	for i, v := range values {
		requireChild(n.host, "set.change_values", v)
		requireUnique("set.change_values", values[:i], v)
	}
	for _, old := range n.values {
		if !contains(values, old) {
			n.host.DetachChild(old)
		}
	}

	n.values = slices.Clone(values)
	n.current = -1
	if len(n.values) > 0 {
		n.selectIndex(0)
	}
	record(n.host, "set", "change_values", true)
	n.listeners.notify(n.Current())
}

func (n *SetNavigator) selectIndex(index int) {
	for i, v := range n.values {
		if i != index {
			n.host.UnbindChild(v)
		}
	}
	n.current = index
	n.host.AttachChild(n.values[index])
}
