// Package collection models the persisted API-request collection document:
// a tree of Group and Entry nodes under a Document root, the JSON codec that
// round-trips it losslessly, and the identity index used by the
// reconciliation engine.
//
// Nodes are a tagged variant: a Node holds exactly one of Group or Entry.
// The "does this object carry an item key" test exists only at the JSON
// boundary; in-memory code always works with typed nodes. Keys the engine
// does not own (responses, headers, auth blocks, collection variables) are
// preserved byte-for-byte through Extra maps.
package collection

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/synclab/postsync/pkg/errors"
)

// SchemaURL is the Postman collection format identifier written into the
// info block of documents this tool creates.
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Event trigger names and the script type used for generated hooks.
const (
	ListenTest       = "test"
	ListenPrerequest = "prerequest"

	ScriptTypeJavaScript = "text/javascript"
)

// Info is the document header block.
type Info struct {
	PostmanID   string
	Name        string
	Description string
	Schema      string

	// Extra preserves info keys the engine does not own.
	Extra map[string]json.RawMessage
}

// Document is the root of a collection tree.
type Document struct {
	Info  Info
	Items []*Node

	// Extra preserves top-level keys the engine does not own
	// (auth, event, variable, ...).
	Extra map[string]json.RawMessage

	// Presence flags recorded at decode time so Validate can distinguish
	// a missing key from an empty value.
	decoded  bool
	hasInfo  bool
	hasItems bool
	badItems bool
}

// New creates an empty document with the given display name.
func New(name, description string) *Document {
	return &Document{
		Info: Info{
			Name:        name,
			Description: description,
			Schema:      SchemaURL,
		},
		Items: []*Node{},
	}
}

// Validate checks the structural contract a document must satisfy before it
// can be merged: an info block with a name, and an item sequence.
func (d *Document) Validate() error {
	if d == nil {
		return errors.NewDocumentError("", "", "document is nil")
	}
	if d.decoded && !d.hasInfo {
		return errors.NewDocumentError("", "info", "missing 'info' key")
	}
	if d.Info.Name == "" {
		return errors.NewDocumentError("", "info.name", "missing 'name' in info")
	}
	if d.decoded && !d.hasItems {
		return errors.NewDocumentError("", "item", "missing 'item' array")
	}
	if d.badItems {
		return errors.NewDocumentError("", "item", "'item' must be an array")
	}
	return nil
}

// Group returns the top-level group with the given name, or nil. The
// grouping policy only ever places entries one level deep, so lookup does
// not descend into nested groups.
func (d *Document) Group(name string) *Group {
	for _, n := range d.Items {
		if n.IsGroup() && n.Group.Name == name {
			return n.Group
		}
	}
	return nil
}

// EnsureGroup returns the top-level group with the given name, creating and
// appending it when absent.
func (d *Document) EnsureGroup(name string) *Group {
	if g := d.Group(name); g != nil {
		return g
	}
	g := &Group{Name: name, Items: []*Node{}}
	d.Items = append(d.Items, GroupNode(g))
	return g
}

// NodeKind discriminates the two node variants.
type NodeKind int

// Node kinds.
const (
	KindGroup NodeKind = iota + 1
	KindEntry
)

// Node is a tagged variant: exactly one of Group or Entry is set.
type Node struct {
	Group *Group
	Entry *Entry
}

// GroupNode wraps a group as a tree node.
func GroupNode(g *Group) *Node {
	return &Node{Group: g}
}

// EntryNode wraps an entry as a tree node.
func EntryNode(e *Entry) *Node {
	return &Node{Entry: e}
}

// Kind returns the node's variant, or 0 for an empty node.
func (n *Node) Kind() NodeKind {
	switch {
	case n == nil:
		return 0
	case n.Group != nil:
		return KindGroup
	case n.Entry != nil:
		return KindEntry
	}
	return 0
}

// IsGroup reports whether the node holds a group.
func (n *Node) IsGroup() bool {
	return n != nil && n.Group != nil
}

// IsEntry reports whether the node holds an entry.
func (n *Node) IsEntry() bool {
	return n != nil && n.Entry != nil
}

// Group is a named container of nodes.
type Group struct {
	Name  string
	Items []*Node

	Extra map[string]json.RawMessage
}

// AddEntry appends an entry to the group.
func (g *Group) AddEntry(e *Entry) {
	g.Items = append(g.Items, EntryNode(e))
}

// Entry is one synchronized API request.
type Entry struct {
	Name      string
	Request   *Request
	Events    []*Event
	Responses []json.RawMessage // opaque saved examples, never touched

	Extra map[string]json.RawMessage
}

// Event returns the first event with the given trigger, or nil.
func (e *Entry) Event(listen string) *Event {
	for _, ev := range e.Events {
		if ev != nil && ev.Listen == listen {
			return ev
		}
	}
	return nil
}

// HasEvent reports whether any event with the given trigger exists.
func (e *Entry) HasEvent(listen string) bool {
	return e.Event(listen) != nil
}

// AddEvent appends an event to the entry.
func (e *Entry) AddEvent(ev *Event) {
	e.Events = append(e.Events, ev)
}

// Request is the request portion of an entry.
type Request struct {
	Method      string
	URL         *URL
	Description string
	Headers     []json.RawMessage // opaque, never touched

	Extra map[string]json.RawMessage

	// descRaw holds a non-string description exactly as decoded. It is
	// written back untouched unless SetDescription replaces it.
	descRaw json.RawMessage
}

// SetDescription replaces the request description with plain text,
// discarding any preserved non-string form.
func (r *Request) SetDescription(s string) {
	r.Description = s
	r.descRaw = nil
}

// URL is a request URL in either of its two wire forms: a plain string, or
// a structured object with raw/host/path fields.
type URL struct {
	Raw  string
	Host []string
	Path []string

	Extra map[string]json.RawMessage

	// isString records that the URL was decoded from the plain string
	// form, so it is written back in the same shape.
	isString bool
}

// StringURL creates a URL in the plain string wire form.
func StringURL(raw string) *URL {
	return &URL{Raw: raw, isString: true}
}

// BuildURL creates the structured URL for a canonical route path, templated
// on the {{baseUrl}} collection variable.
func BuildURL(fullPath string) *URL {
	var segments []string
	for _, p := range strings.Split(fullPath, "/") {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return &URL{
		Raw:  "{{baseUrl}}" + fullPath,
		Host: []string{"{{baseUrl}}"},
		Path: segments,
	}
}

// IsString reports whether the URL came from the plain string wire form.
func (u *URL) IsString() bool {
	return u != nil && u.isString
}

// Equal reports whether two URLs agree on wire form, raw template, host
// and path segments. Preserved unknown keys are ignored.
func (u *URL) Equal(o *URL) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.isString == o.isString &&
		u.Raw == o.Raw &&
		slices.Equal(u.Host, o.Host) &&
		slices.Equal(u.Path, o.Path)
}

// PathString returns the path identity of the URL: the raw string as-is for
// the string form, "/" + joined segments for the structured form.
func (u *URL) PathString() string {
	if u == nil {
		return ""
	}
	if u.isString {
		return u.Raw
	}
	return "/" + strings.Join(u.Path, "/")
}

// Event is a scripted hook attached to an entry, keyed by trigger name.
type Event struct {
	Listen string
	Script *Script

	Extra map[string]json.RawMessage
}

// Script is the body of an event hook.
type Script struct {
	Exec []string
	Type string

	Extra map[string]json.RawMessage
}

// NewScriptEvent creates a javascript event for the given trigger.
func NewScriptEvent(listen string, exec []string) *Event {
	return &Event{
		Listen: listen,
		Script: &Script{Exec: exec, Type: ScriptTypeJavaScript},
	}
}
