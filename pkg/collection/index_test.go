package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/logging"
)

func makeEntry(method, path string) *collection.Entry {
	return &collection.Entry{
		Name: method + " " + path,
		Request: &collection.Request{
			Method: method,
			URL:    collection.BuildURL(path),
		},
	}
}

func TestIndexDiscoveryOrder(t *testing.T) {
	doc := collection.New("X", "")
	users := doc.EnsureGroup("Users")
	list := makeEntry("GET", "/api/users")
	create := makeEntry("POST", "/api/users")
	users.AddEntry(list)
	users.AddEntry(create)

	health := makeEntry("GET", "/api/health")
	doc.Items = append(doc.Items, collection.EntryNode(health))

	idx := collection.NewIndex(doc)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t,
		[]string{"GET:/api/users", "POST:/api/users", "GET:/api/health"},
		idx.IDs(), "depth-first discovery order is preserved")

	ref, ok := idx.Get("GET:/api/users")
	require.True(t, ok)
	assert.Same(t, list, ref.Entry)
	require.NotNil(t, ref.Group)
	assert.Equal(t, "Users", ref.Group.Name)

	top, ok := idx.Get("GET:/api/health")
	require.True(t, ok)
	assert.Same(t, health, top.Entry)
	assert.Nil(t, top.Group, "top-level entries carry no parent group")
}

func TestIndexFirstOccurrenceWins(t *testing.T) {
	tl := logging.NewTestLogger(t)

	doc := collection.New("X", "")
	first := makeEntry("GET", "/api/users")
	second := makeEntry("GET", "/api/users")
	doc.Items = append(doc.Items,
		collection.EntryNode(first),
		collection.EntryNode(second))

	idx := collection.NewIndex(doc, collection.WithLogger(tl.Logger))
	assert.Equal(t, 1, idx.Len())

	ref, ok := idx.Get("GET:/api/users")
	require.True(t, ok)
	assert.Same(t, first, ref.Entry, "the first occurrence stays indexed")
	tl.AssertContains(t, "Skipping duplicate")
}

func TestIndexSkipsEntriesWithoutIdentity(t *testing.T) {
	doc := collection.New("X", "")
	doc.Items = append(doc.Items,
		collection.EntryNode(&collection.Entry{Name: "no request"}),
		collection.EntryNode(&collection.Entry{
			Name:    "no url",
			Request: &collection.Request{Method: "GET"},
		}),
		collection.EntryNode(&collection.Entry{
			Name:    "no method",
			Request: &collection.Request{URL: collection.BuildURL("/api/x")},
		}),
	)

	idx := collection.NewIndex(doc)
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Has("GET:/api/x"))
}

func TestEntryIdentity(t *testing.T) {
	id, ok := collection.EntryIdentity(makeEntry("GET", "/api/users"))
	require.True(t, ok)
	assert.Equal(t, "GET:/api/users", id)

	// String URLs contribute their full raw text, so hand-written entries
	// only match a route when the string is the canonical path itself.
	stringEntry := &collection.Entry{
		Request: &collection.Request{
			Method: "GET",
			URL:    collection.StringURL("{{baseUrl}}/api/ping"),
		},
	}
	id, ok = collection.EntryIdentity(stringEntry)
	require.True(t, ok)
	assert.Equal(t, "GET:{{baseUrl}}/api/ping", id)

	_, ok = collection.EntryIdentity(nil)
	assert.False(t, ok)
	_, ok = collection.EntryIdentity(&collection.Entry{})
	assert.False(t, ok)
}
