package navigation

import (
	"slices"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/constants"
)

// ChangeKind identifies what a stack operation did.
type ChangeKind int

const (
	ChangeNothing ChangeKind = iota // Operation had no effect
	ChangePush                      // A new entry covered the previous top
	ChangePop                       // Entries were removed from the top
	ChangeSet                       // The stack was replaced as a whole
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePush:
		return "push"
	case ChangePop:
		return "pop"
	case ChangeSet:
		return "set"
	default:
		return "nothing"
	}
}

// Change describes the last stack operation. For ChangeSet only Enter is
// meaningful; Removed lists every entry the operation destroyed.
type Change struct {
	Kind    ChangeKind
	Exit    premo.Node
	Enter   premo.Node
	Removed []premo.Node
}

// StackOptions configures a StackNavigator.
type StackOptions struct {
	Key         string                     // State key in the host's scope; defaults to constants.StackNavigatorKey
	Initial     []premo.Description        // Entries created when nothing was restored
	BackHandler func(*StackNavigator) bool // Replaces the default pop-if-possible rule
}

// StackNavigator keeps a back stack of the host's children. The last entry is
// attached to the host; the others are unbound and CREATED.
type StackNavigator struct {
	host      *premo.PresentationModel
	key       string
	backStack []premo.Node
	last      Change
	listeners listeners[Change]
}

// NewStackNavigator creates a stack over host's children. A back stack saved
// under opts.Key wins over opts.Initial. A saved stack that can no longer be
// built is discarded.
func NewStackNavigator(host premo.Node, opts StackOptions) *StackNavigator {
	pm := host.PM()
	key := opts.Key
	if key == "" {
		key = constants.StackNavigatorKey
	}

	n := &StackNavigator{host: pm, key: key}

	if saved, ok := premo.Saved[[]premo.Description](pm.StateHandler(), key); ok && len(saved) > 0 {
		if nodes, err := restoreChildren(pm, saved); err != nil {
			pm.StateHandler().Discard(key, err)
		} else {
			n.ChangeBackStack(nodes)
		}
	}
	if n.Len() == 0 && len(opts.Initial) > 0 {
		nodes := make([]premo.Node, 0, len(opts.Initial))
		for _, d := range opts.Initial {
			nodes = append(nodes, pm.Child(d))
		}
		n.ChangeBackStack(nodes)
	}

	pm.StateHandler().SetSaver(key, func() any { return n.Descriptions() })

	back := opts.BackHandler
	if back == nil {
		back = (*StackNavigator).HandleBack
	}
	pm.OnBack(func() bool {
		if top := n.CurrentTop(); top != nil && top.PM().HandleBack() {
			return true
		}
		return back(n)
	})

	onHostDestroyed(pm, func() { n.backStack = nil })
	return n
}

// BackStack returns the entries, bottom first.
func (n *StackNavigator) BackStack() []premo.Node {
	return slices.Clone(n.backStack)
}

// Descriptions returns the descriptions of the entries, bottom first.
func (n *StackNavigator) Descriptions() []premo.Description {
	out := make([]premo.Description, 0, len(n.backStack))
	for _, e := range n.backStack {
		out = append(out, e.PM().Description())
	}
	return out
}

// CurrentTop returns the foreground entry, or nil when the stack is empty.
func (n *StackNavigator) CurrentTop() premo.Node {
	if len(n.backStack) == 0 {
		return nil
	}
	return n.backStack[len(n.backStack)-1]
}

// Len returns the number of entries.
func (n *StackNavigator) Len() int {
	return len(n.backStack)
}

// LastChange describes the most recent operation.
func (n *StackNavigator) LastChange() Change {
	return n.last
}

// OnChange registers fn to be called after every operation.
func (n *StackNavigator) OnChange(fn func(Change)) (remove func()) {
	return n.listeners.add(fn)
}

// Push demotes the current top and makes node the new top. node must not be
// on the stack already.
func (n *StackNavigator) Push(node premo.Node) {
	requireChild(n.host, "stack.push", node)
	requireUnique("stack.push", n.backStack, node)
	old := n.CurrentTop()
	if old != nil {
		n.host.UnbindChild(old)
	}
	n.backStack = append(n.backStack, node)
	n.host.AttachChild(node)
	n.commit("push", Change{Kind: ChangePush, Exit: old, Enter: node})
}

// Pop destroys the top and promotes the entry below it. It returns false when
// the stack is empty.
func (n *StackNavigator) Pop() bool {
	old := n.CurrentTop()
	if old == nil {
		n.commit("pop", Change{Kind: ChangeNothing})
		return false
	}
	n.dropTop()
	top := n.promoteTop()
	n.commit("pop", Change{Kind: ChangePop, Exit: old, Enter: top, Removed: []premo.Node{old}})
	return true
}

// PopToRoot destroys every entry above the bottom one. It returns false when
// there is nothing above the bottom.
func (n *StackNavigator) PopToRoot() bool {
	if len(n.backStack) <= 1 {
		n.commit("pop_to_root", Change{Kind: ChangeNothing})
		return false
	}
	old := n.CurrentTop()
	var removed []premo.Node
	for len(n.backStack) > 1 {
		removed = append(removed, n.dropTop())
	}
	top := n.promoteTop()
	n.commit("pop_to_root", Change{Kind: ChangePop, Exit: old, Enter: top, Removed: removed})
	return true
}

// PopUntil destroys entries from the top until one satisfies match, which
// becomes the new top. It reports whether a match was found; without one the
// stack ends up empty.
func (n *StackNavigator) PopUntil(match func(premo.Node) bool) bool {
	old := n.CurrentTop()
	var removed []premo.Node
	for top := n.CurrentTop(); top != nil && !match(top); top = n.CurrentTop() {
		removed = append(removed, n.dropTop())
	}

	top := n.CurrentTop()
	if len(removed) == 0 {
		n.commit("pop_until", Change{Kind: ChangeNothing})
		return top != nil
	}
	n.promoteTop()
	n.commit("pop_until", Change{Kind: ChangePop, Exit: old, Enter: top, Removed: removed})
	return top != nil
}

// ReplaceTop destroys the current top, if any, and pushes node. node must not
// be on the stack already.
func (n *StackNavigator) ReplaceTop(node premo.Node) {
	requireChild(n.host, "stack.replace_top", node)
	requireUnique("stack.replace_top", n.backStack, node)
	old := n.CurrentTop()
	var removed []premo.Node
	if old != nil {
		removed = append(removed, n.dropTop())
	}
	n.backStack = append(n.backStack, node)
	n.host.AttachChild(node)
	n.commit("replace_top", Change{Kind: ChangePush, Exit: old, Enter: node, Removed: removed})
}

// ReplaceAll destroys every other entry and leaves node as the only one. An
// entry passed as node survives.
func (n *StackNavigator) ReplaceAll(node premo.Node) {
	requireChild(n.host, "stack.replace_all", node)
	var removed []premo.Node
	for len(n.backStack) > 0 {
		if top := n.CurrentTop(); same(top, node) {
			n.backStack = n.backStack[:len(n.backStack)-1]
			continue
		}
		removed = append(removed, n.dropTop())
	}
	n.backStack = []premo.Node{node}
	n.host.AttachChild(node)
	n.commit("replace_all", Change{Kind: ChangeSet, Enter: node, Removed: removed})
}

// ChangeBackStack replaces the stack with backStack, which must not list a
// node twice. Entries missing from the
// new list are destroyed, surviving entries keep their identity, the new top
// is attached and every other entry is forced to CREATED.
func (n *StackNavigator) ChangeBackStack(backStack []premo.Node) {
	for i, e := range backStack {
		requireChild(n.host, "stack.change_back_stack", e)
		requireUnique("stack.change_back_stack", backStack[:i], e)
	}
	var removed []premo.Node
	for i := len(n.backStack) - 1; i >= 0; i-- {
		if e := n.backStack[i]; !contains(backStack, e) {
			n.host.DetachChild(e)
			removed = append(removed, e)
		}
	}

	n.backStack = slices.Clone(backStack)
	top := n.CurrentTop()
	for _, e := range n.backStack {
		if !same(e, top) {
			n.host.UnbindChild(e)
		}
	}
	if top != nil {
		n.host.AttachChild(top)
	}
	n.commit("change_back_stack", Change{Kind: ChangeSet, Enter: top, Removed: removed})
}

// HandleBack pops when more than one entry is on the stack.
func (n *StackNavigator) HandleBack() bool {
	if len(n.backStack) > 1 {
		return n.Pop()
	}
	return false
}

// dropTop removes and destroys the top entry.
func (n *StackNavigator) dropTop() premo.Node {
	top := n.backStack[len(n.backStack)-1]
	n.backStack = n.backStack[:len(n.backStack)-1]
	n.host.DetachChild(top)
	return top
}

func (n *StackNavigator) promoteTop() premo.Node {
	top := n.CurrentTop()
	if top != nil {
		n.host.AttachChild(top)
	}
	return top
}

func (n *StackNavigator) commit(op string, c Change) {
	n.last = c
	record(n.host, "stack", op, c.Kind != ChangeNothing)
	n.listeners.notify(c)
}
