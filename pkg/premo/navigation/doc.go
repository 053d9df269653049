// Package navigation provides navigators that decide which children of a
// presentation model are alive and which one is in the foreground.
//
// A navigator never owns nodes. Every node it manages is a child of the host
// presentation model; the navigator only attaches the selected child to the
// host's lifecycle and keeps the others unbound in the CREATED state.
//
// # Stack
//
//	nav := navigation.NewStackNavigator(host, navigation.StackOptions{
//	    Initial: []premo.Description{premo.Describe("list")},
//	})
//	nav.Push(host.PM().Child(premo.Describe("detail", "42")))
//	nav.Pop()
//
// The top of the stack is IN_FOREGROUND while the host is; every other entry
// is CREATED. LastChange describes the most recent operation so a view layer
// can pick enter/exit effects and release resources held for removed nodes.
//
// # Persistence
//
// Each navigator registers a saver on the host's state handler. The stack
// saves the descriptions of its entries, the set navigator its current index,
// the master/detail and dialog navigators the description of the shown node.
// On construction a navigator restores from those values before it is
// returned, so a tree rebuilt from a saved snapshot has the same shape.
//
// # Back
//
// Navigators register back handlers on the host. A handler first offers the
// intent to the foreground child, then applies its own rule. An unhandled
// back bubbles up to the host's earlier handlers and finally to the caller of
// the root's HandleBack.
package navigation
