package postsync

import (
	"github.com/synclab/postsync/pkg/reconcile"
	"github.com/synclab/postsync/pkg/routes"
)

// Hooks bundles event callbacks fired after a merge produces a
// changeset, before the document is persisted. Nil fields are skipped.
type Hooks struct {

	// OnAdded is called for each route inserted into the document
	OnAdded func(rt routes.Route)

	// OnUpdated is called for each route whose entry was refreshed
	OnUpdated func(rt routes.Route)

	// OnDeprecated is called with the entry identity for each entry
	// newly marked deprecated
	OnDeprecated func(id string)

	// OnRemoved is called with the entry identity for each expired
	// entry dropped from the document
	OnRemoved func(id string)
}

// hooks fans a changeset out to every registered Hooks set. The list is
// fixed at construction, so firing needs no locking.
type hooks struct {
	list []Hooks
}

// newHooks creates a new hooks instance.
func newHooks(list ...Hooks) *hooks {
	return &hooks{list: list}
}

// fire walks the changeset and invokes the matching callbacks in
// registration order.
func (h *hooks) fire(cs *reconcile.Changeset) {
	if cs == nil {
		return
	}
	for _, hk := range h.list {
		if hk.OnAdded != nil {
			for _, rt := range cs.Added {
				hk.OnAdded(rt)
			}
		}
		if hk.OnUpdated != nil {
			for _, rt := range cs.Updated {
				hk.OnUpdated(rt)
			}
		}
		if hk.OnDeprecated != nil {
			for _, id := range cs.Deprecated {
				hk.OnDeprecated(id)
			}
		}
		if hk.OnRemoved != nil {
			for _, id := range cs.Removed {
				hk.OnRemoved(id)
			}
		}
	}
}
