package reconcile

import (
	"encoding/json"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/logging"
	"github.com/synclab/postsync/pkg/routes"
	"github.com/synclab/postsync/pkg/scripts"
)

// DefaultRetention is how long deprecated entries are kept before the
// expiry pass removes them.
const DefaultRetention = 30 * 24 * time.Hour

// ScriptSource supplies the generated hook scripts attached to entries.
type ScriptSource interface {
	TestScript(routes.Route) []string
	AuthScript() []string
}

// Merger folds route sets into collection documents.
type Merger struct {
	retention time.Duration
	now       func() utc.Time
	log       *zerolog.Logger
	scripts   ScriptSource
}

// Option configures a Merger.
type Option func(*Merger)

// WithRetention sets the deprecation retention window.
func WithRetention(d time.Duration) Option {
	return func(m *Merger) {
		if d > 0 {
			m.retention = d
		}
	}
}

// WithClock injects the time source. Tests use this to pin the clock.
func WithClock(now func() utc.Time) Option {
	return func(m *Merger) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the merge logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(m *Merger) {
		if log != nil {
			m.log = log
		}
	}
}

// WithScripts replaces the default hook script generator.
func WithScripts(s ScriptSource) Option {
	return func(m *Merger) {
		if s != nil {
			m.scripts = s
		}
	}
}

// New creates a Merger with the default retention window, clock, logger,
// and script generator.
func New(opts ...Option) *Merger {
	m := &Merger{
		retention: DefaultRetention,
		now:       utc.Now,
		log:       logging.Default(),
		scripts:   scripts.Generator{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge folds routes into doc and reports what changed. The document is
// mutated in place; on error it must be discarded, not persisted. All
// passes share a single clock reading, so every marker written by one
// merge carries the same timestamp.
func (m *Merger) Merge(doc *collection.Document, rts []routes.Route) (cs *Changeset, err error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	stage := "index"
	defer func() {
		if r := recover(); r != nil {
			cs = nil
			err = errors.NewMergeError(stage, "", errors.Errorf("%v", r))
		}
	}()

	now := m.now()
	cs = &Changeset{SyncedAt: now}

	idx := collection.NewIndex(doc, collection.WithLogger(m.log))
	m.log.Debug().Int("count", idx.Len()).Msg("Indexed existing requests")

	routeIDs := make(map[string]bool, len(rts))
	for _, r := range rts {
		routeIDs[r.UniqueID()] = true
	}

	stage = "apply"

	// Groups are created only for routes about to be inserted; updated
	// entries stay wherever the user moved them.
	for _, r := range rts {
		if idx.Has(r.UniqueID()) {
			continue
		}
		name := routes.GroupName(r)
		if doc.Group(name) == nil {
			doc.EnsureGroup(name)
			m.log.Debug().Str("group", name).Msg("Created group")
		}
	}

	// Entries inserted this run are matchable by later duplicates in the
	// same route list, which then take the update path.
	inserted := map[string]*collection.Entry{}
	for _, r := range rts {
		id := r.UniqueID()
		entry, ok := m.find(idx, inserted, id)
		if ok {
			if m.update(entry, r, now) {
				cs.Updated = append(cs.Updated, r)
				m.log.Debug().Str("unique_id", id).Msg("Updated request")
			} else {
				m.log.Debug().Str("unique_id", id).Msg("Request already current")
			}
			continue
		}
		inserted[id] = m.insert(doc, r, now)
		cs.Added = append(cs.Added, r)
		m.log.Debug().Str("unique_id", id).Msg("Added new request")
	}

	stage = "deprecate"
	for _, id := range idx.IDs() {
		if routeIDs[id] {
			continue
		}
		ref, _ := idx.Get(id)
		req := ref.Entry.Request
		if IsDeprecated(req.Description) {
			continue
		}
		req.SetDescription(DeprecationMarker(now) + req.Description)
		cs.Deprecated = append(cs.Deprecated, id)
		m.log.Debug().Str("unique_id", id).Msg("Marked as deprecated")
	}

	stage = "expire"
	doc.Items = m.expire(doc.Items, now, cs)

	m.log.Info().
		Int("added", len(cs.Added)).
		Int("updated", len(cs.Updated)).
		Int("deprecated", len(cs.Deprecated)).
		Int("removed", len(cs.Removed)).
		Int("errors", len(cs.Errors)).
		Msg("Merge complete")
	return cs, nil
}

func (m *Merger) find(idx *collection.Index, inserted map[string]*collection.Entry, id string) (*collection.Entry, bool) {
	if ref, ok := idx.Get(id); ok {
		return ref.Entry, true
	}
	e, ok := inserted[id]
	return e, ok
}

// update rewrites the synchronized parts of an entry: method, URL, and the
// sync marker. User text ahead of the old marker survives verbatim; the
// route's own description is only a fallback for empty text. The display
// name is never touched. An entry that already matches the route is left
// alone, marker timestamp included, so re-running a merge is a no-op; the
// return reports whether anything was rewritten.
func (m *Merger) update(e *collection.Entry, r routes.Route, now utc.Time) bool {
	req := e.Request
	base := StripSyncMarker(req.Description)
	if base == "" && r.Description != "" {
		base = r.Description
	}

	if m.current(e, r, base) {
		return false
	}

	req.SetDescription(base + SyncMarker(now))
	req.URL = collection.BuildURL(r.FullPath)
	req.Method = string(r.Method)

	if r.IsProtected() {
		m.ensureAuthHook(e)
	}
	return true
}

// current reports whether an entry already reflects its route: same
// method, same built URL, the same text under a sync marker, and the auth
// hook in place when the route needs one.
func (m *Merger) current(e *collection.Entry, r routes.Route, base string) bool {
	req := e.Request
	if req.Method != string(r.Method) {
		return false
	}
	if !req.URL.Equal(collection.BuildURL(r.FullPath)) {
		return false
	}
	if !HasSyncMarker(req.Description) || StripSyncMarker(req.Description) != base {
		return false
	}
	if r.IsProtected() && !e.HasEvent(collection.ListenPrerequest) {
		return false
	}
	return true
}

// insert creates a new entry for a route under its display group.
func (m *Merger) insert(doc *collection.Document, r routes.Route, now utc.Time) *collection.Entry {
	group := doc.EnsureGroup(routes.GroupName(r))

	base := r.Description
	if base == "" {
		base = string(r.Method) + " " + r.FullPath
	}

	entry := &collection.Entry{
		Name:   routes.EntryName(r),
		Events: []*collection.Event{},
		Request: &collection.Request{
			Method:      string(r.Method),
			Headers:     []json.RawMessage{},
			URL:         collection.BuildURL(r.FullPath),
			Description: base + SyncMarker(now),
		},
		Responses: []json.RawMessage{},
	}

	if lines := m.scripts.TestScript(r); len(lines) > 0 {
		entry.AddEvent(collection.NewScriptEvent(collection.ListenTest, lines))
	}
	if r.IsProtected() {
		m.ensureAuthHook(entry)
	}

	group.AddEntry(entry)
	return entry
}

// ensureAuthHook attaches the auth-injection prerequest script unless the
// entry already has a prerequest hook of any kind.
func (m *Merger) ensureAuthHook(e *collection.Entry) {
	if e.HasEvent(collection.ListenPrerequest) {
		return
	}
	e.AddEvent(collection.NewScriptEvent(collection.ListenPrerequest, m.scripts.AuthScript()))
}

// expire rebuilds the node sequence, dropping entries whose deprecation
// timestamp fell out of the retention window. Groups are recursed into and
// kept even when emptied.
func (m *Merger) expire(items []*collection.Node, now utc.Time, cs *Changeset) []*collection.Node {
	kept := make([]*collection.Node, 0, len(items))
	for _, n := range items {
		switch {
		case n.IsGroup():
			n.Group.Items = m.expire(n.Group.Items, now, cs)
			kept = append(kept, n)
		case n.IsEntry():
			if m.expired(n.Entry, now, cs) {
				continue
			}
			kept = append(kept, n)
		default:
			kept = append(kept, n)
		}
	}
	return kept
}

// expired decides whether a single entry is past retention. Unparsable
// timestamps fail open: the entry is reported and kept.
func (m *Merger) expired(e *collection.Entry, now utc.Time, cs *Changeset) bool {
	req := e.Request
	if req == nil || !IsDeprecated(req.Description) {
		return false
	}

	at, raw, err := DeprecatedAt(req.Description)
	if err != nil {
		label := entryLabel(e)
		m.log.Warn().
			Str("entry", label).
			Str("value", raw).
			Err(err).
			Msg("Unparsable deprecation timestamp, keeping entry")
		cs.Errors = append(cs.Errors, errors.NewTimestampError(label, raw, err).Error())
		return false
	}

	if now.Sub(at) > m.retention {
		label := entryLabel(e)
		cs.Removed = append(cs.Removed, label)
		m.log.Debug().Str("unique_id", label).Msg("Removed old deprecated")
		return true
	}
	return false
}

func entryLabel(e *collection.Entry) string {
	if id, ok := collection.EntryIdentity(e); ok {
		return id
	}
	return e.Name
}
