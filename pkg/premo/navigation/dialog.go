package navigation

import (
	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/constants"
)

// DialogResult carries a dialog's answer to the navigator that shows it.
// A dialog child sends it with SendToParent.
type DialogResult[R any] struct {
	Value R
}

// DialogOptions configures a DialogNavigator.
type DialogOptions struct {
	Key string // State key in the host's scope; defaults to constants.DialogNavigatorKey
}

// DialogNavigator shows at most one dialog child over the host and delivers
// its result to the caller of Show.
//
// A dialog restored from saved state comes back without a result callback;
// callbacks do not survive a saved snapshot.
type DialogNavigator[D premo.Node, R any] struct {
	host     *premo.PresentationModel
	key      string
	dialog   D
	shown    bool
	onResult func(R)
}

// NewDialogNavigator restores a dialog saved under opts.Key, if any.
func NewDialogNavigator[D premo.Node, R any](host premo.Node, opts DialogOptions) *DialogNavigator[D, R] {
	pm := host.PM()
	key := opts.Key
	if key == "" {
		key = constants.DialogNavigatorKey
	}

	n := &DialogNavigator[D, R]{host: pm, key: key}
	if d, ok := premo.Saved[premo.Description](pm.StateHandler(), key); ok && !d.IsZero() {
		if dialog, err := premo.TryChildAs[D](pm, d); err != nil {
			pm.StateHandler().Discard(key, err)
		} else {
			n.Show(dialog, nil)
		}
	}

	pm.StateHandler().SetSaver(key, func() any {
		if !n.shown {
			return nil
		}
		return n.dialog.PM().Description()
	})

	pm.OnBack(func() bool {
		if n.shown && n.dialog.PM().HandleBack() {
			return true
		}
		return n.HandleBack()
	})

	premo.HandleMessage(pm.Messages(), func(msg DialogResult[R]) {
		n.SendResult(msg.Value)
	})

	onHostDestroyed(pm, func() { n.clear() })
	return n
}

// Dialog returns the shown dialog.
func (n *DialogNavigator[D, R]) Dialog() (D, bool) {
	return n.dialog, n.shown
}

// Show dismisses a shown dialog without a result and attaches dialog.
func (n *DialogNavigator[D, R]) Show(dialog D, onResult func(R)) {
	requireChild(n.host, "dialog.show", dialog)
	if n.shown {
		n.host.DetachChild(n.dialog)
	}
	n.dialog = dialog
	n.shown = true
	n.onResult = onResult
	n.host.AttachChild(dialog)
	record(n.host, "dialog", "show", true)
}

// SendResult dismisses the dialog and passes result to its callback.
func (n *DialogNavigator[D, R]) SendResult(result R) {
	if !n.shown {
		record(n.host, "dialog", "send_result", false)
		return
	}
	onResult := n.onResult
	n.host.DetachChild(n.dialog)
	n.clear()
	record(n.host, "dialog", "send_result", true)
	if onResult != nil {
		onResult(result)
	}
}

// Dismiss destroys the dialog without a result.
func (n *DialogNavigator[D, R]) Dismiss() {
	if !n.shown {
		record(n.host, "dialog", "dismiss", false)
		return
	}
	n.host.DetachChild(n.dialog)
	n.clear()
	record(n.host, "dialog", "dismiss", true)
}

// HandleBack dismisses a shown dialog.
func (n *DialogNavigator[D, R]) HandleBack() bool {
	if !n.shown {
		return false
	}
	n.Dismiss()
	return true
}

func (n *DialogNavigator[D, R]) clear() {
	var zero D
	n.dialog = zero
	n.shown = false
	n.onResult = nil
}
