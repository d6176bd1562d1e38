package collection

import (
	"github.com/rs/zerolog"

	"github.com/synclab/postsync/pkg/logging"
)

// EntryRef locates an indexed entry inside the tree: the entry itself and
// the group holding it, nil for entries at the top level.
type EntryRef struct {
	Entry *Entry
	Group *Group
}

// Index maps identity keys to entries, preserving discovery order.
type Index struct {
	refs  map[string]*EntryRef
	order []string
}

// IndexOption configures index construction.
type IndexOption func(*indexer)

// WithLogger sets the logger that reports skipped duplicate entries.
func WithLogger(log *zerolog.Logger) IndexOption {
	return func(ix *indexer) {
		if log != nil {
			ix.log = log
		}
	}
}

type indexer struct {
	idx *Index
	log *zerolog.Logger
}

// NewIndex walks the document depth-first and indexes every entry with a
// derivable identity. The first occurrence of an identity wins; later
// duplicates are skipped with a debug log and stay in the tree untouched.
func NewIndex(doc *Document, opts ...IndexOption) *Index {
	ix := &indexer{
		idx: &Index{refs: map[string]*EntryRef{}},
		log: logging.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if doc != nil {
		ix.walk(doc.Items, nil)
	}
	return ix.idx
}

func (ix *indexer) walk(items []*Node, parent *Group) {
	for _, n := range items {
		switch {
		case n.IsGroup():
			ix.walk(n.Group.Items, n.Group)
		case n.IsEntry():
			ix.add(n.Entry, parent)
		}
	}
}

func (ix *indexer) add(e *Entry, parent *Group) {
	id, ok := EntryIdentity(e)
	if !ok {
		return
	}
	if _, dup := ix.idx.refs[id]; dup {
		ix.log.Debug().Str("unique_id", id).Msg("Skipping duplicate request identity")
		return
	}
	ix.idx.refs[id] = &EntryRef{Entry: e, Group: parent}
	ix.idx.order = append(ix.idx.order, id)
}

// EntryIdentity derives the identity key "METHOD:/path" for an entry. The
// second return is false when the entry has no method or no URL to derive
// a path from.
func EntryIdentity(e *Entry) (string, bool) {
	if e == nil || e.Request == nil || e.Request.URL == nil {
		return "", false
	}
	method := e.Request.Method
	path := e.Request.URL.PathString()
	if method == "" || path == "" {
		return "", false
	}
	return method + ":" + path, true
}

// Get returns the entry indexed under id.
func (ix *Index) Get(id string) (*EntryRef, bool) {
	ref, ok := ix.refs[id]
	return ref, ok
}

// Has reports whether id is indexed.
func (ix *Index) Has(id string) bool {
	_, ok := ix.refs[id]
	return ok
}

// IDs returns the identity keys in discovery order.
func (ix *Index) IDs() []string {
	return append([]string(nil), ix.order...)
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	return len(ix.refs)
}
