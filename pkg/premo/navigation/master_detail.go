package navigation

import (
	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/constants"
)

// MasterDetailOptions configures a MasterDetailNavigator.
type MasterDetailOptions[M, D premo.Node] struct {
	Key         string                                    // State key in the host's scope; defaults to constants.MasterDetailNavigatorKey
	BackHandler func(n *MasterDetailNavigator[M, D]) bool // Replaces the default clear-detail rule
}

// MasterDetailNavigator keeps a master child attached for the host's whole
// life and at most one detail child next to it.
type MasterDetailNavigator[M, D premo.Node] struct {
	host      *premo.PresentationModel
	key       string
	master    M
	detail    D
	hasDetail bool
	listeners listeners[premo.Node]
}

// NewMasterDetailNavigator creates and attaches the master. A detail whose
// description was saved under opts.Key is recreated and attached too, unless
// it can no longer be built.
func NewMasterDetailNavigator[M, D premo.Node](host premo.Node, master premo.Description, opts MasterDetailOptions[M, D]) *MasterDetailNavigator[M, D] {
	pm := host.PM()
	key := opts.Key
	if key == "" {
		key = constants.MasterDetailNavigatorKey
	}

	n := &MasterDetailNavigator[M, D]{host: pm, key: key}
	n.master = premo.AttachedChildAs[M](pm, master)

	if d, ok := premo.Saved[premo.Description](pm.StateHandler(), key); ok && !d.IsZero() {
		if detail, err := premo.TryChildAs[D](pm, d); err != nil {
			pm.StateHandler().Discard(key, err)
		} else {
			n.ChangeDetail(detail)
		}
	}

	pm.StateHandler().SetSaver(key, func() any {
		if !n.hasDetail {
			return nil
		}
		return n.detail.PM().Description()
	})

	back := opts.BackHandler
	if back == nil {
		back = (*MasterDetailNavigator[M, D]).HandleBack
	}
	pm.OnBack(func() bool {
		if n.hasDetail && n.detail.PM().HandleBack() {
			return true
		}
		if back(n) {
			return true
		}
		return n.master.PM().HandleBack()
	})

	onHostDestroyed(pm, func() { n.clear() })
	return n
}

// Master returns the master child.
func (n *MasterDetailNavigator[M, D]) Master() M {
	return n.master
}

// Detail returns the detail child, if one is shown.
func (n *MasterDetailNavigator[M, D]) Detail() (D, bool) {
	return n.detail, n.hasDetail
}

// OnChange registers fn to be called with the new detail, or nil after the
// detail was cleared.
func (n *MasterDetailNavigator[M, D]) OnChange(fn func(premo.Node)) (remove func()) {
	return n.listeners.add(fn)
}

// ChangeDetail destroys the previous detail and attaches detail.
func (n *MasterDetailNavigator[M, D]) ChangeDetail(detail D) {
	requireChild(n.host, "master_detail.change_detail", detail)
	if n.hasDetail && same(n.detail, detail) {
		record(n.host, "master_detail", "change_detail", false)
		return
	}
	if n.hasDetail {
		n.host.DetachChild(n.detail)
	}
	n.detail = detail
	n.hasDetail = true
	n.host.AttachChild(detail)
	record(n.host, "master_detail", "change_detail", true)
	n.listeners.notify(detail)
}

// ClearDetail destroys the detail, if any.
func (n *MasterDetailNavigator[M, D]) ClearDetail() {
	if !n.hasDetail {
		record(n.host, "master_detail", "clear_detail", false)
		return
	}
	n.host.DetachChild(n.detail)
	n.clear()
	record(n.host, "master_detail", "clear_detail", true)
	n.listeners.notify(nil)
}

// HandleBack clears a shown detail.
func (n *MasterDetailNavigator[M, D]) HandleBack() bool {
	if !n.hasDetail {
		return false
	}
	n.ClearDetail()
	return true
}

func (n *MasterDetailNavigator[M, D]) clear() {
	var zero D
	n.detail = zero
	n.hasDetail = false
}
