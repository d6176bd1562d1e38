package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/errors"
)

func TestNew(t *testing.T) {
	doc := collection.New("Billing API", "Synced requests")
	require.NoError(t, doc.Validate())
	assert.Equal(t, "Billing API", doc.Info.Name)
	assert.Equal(t, "Synced requests", doc.Info.Description)
	assert.Equal(t, collection.SchemaURL, doc.Info.Schema)
	assert.NotNil(t, doc.Items)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantField string
	}{
		{"missing info", `{"item":[]}`, "info"},
		{"missing name in info", `{"info":{},"item":[]}`, "info.name"},
		{"missing item array", `{"info":{"name":"X"}}`, "item"},
		{"item is not an array", `{"info":{"name":"X"},"item":{}}`, "item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := collection.Decode([]byte(tt.payload))
			require.NoError(t, err)

			err = doc.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsMalformedDocument(err))

			var docErr *errors.DocumentError
			require.True(t, errors.As(err, &docErr))
			assert.Equal(t, tt.wantField, docErr.Field)
		})
	}

	t.Run("valid document", func(t *testing.T) {
		doc, err := collection.Decode([]byte(`{"info":{"name":"X"},"item":[]}`))
		require.NoError(t, err)
		assert.NoError(t, doc.Validate())
	})

	t.Run("nil document", func(t *testing.T) {
		var doc *collection.Document
		assert.Error(t, doc.Validate())
	})

	t.Run("built document needs a name", func(t *testing.T) {
		assert.Error(t, collection.New("", "").Validate())
	})
}

func TestGroupLookup(t *testing.T) {
	doc := collection.New("X", "")
	inner := &collection.Group{Name: "Auth", Items: []*collection.Node{}}
	outer := &collection.Group{Name: "V1", Items: []*collection.Node{collection.GroupNode(inner)}}
	doc.Items = append(doc.Items, collection.GroupNode(outer))

	assert.NotNil(t, doc.Group("V1"))
	assert.Nil(t, doc.Group("Auth"), "lookup does not descend into nested groups")
	assert.Nil(t, doc.Group("Users"))
}

func TestEnsureGroup(t *testing.T) {
	doc := collection.New("X", "")

	g := doc.EnsureGroup("Users")
	require.NotNil(t, g)
	assert.Equal(t, "Users", g.Name)
	require.Len(t, doc.Items, 1)
	assert.Same(t, g, doc.Items[0].Group)

	assert.Same(t, g, doc.EnsureGroup("Users"), "existing group is reused")
	assert.Len(t, doc.Items, 1)

	other := doc.EnsureGroup("Auth")
	assert.NotSame(t, g, other)
	assert.Len(t, doc.Items, 2)
}

func TestEntryEvents(t *testing.T) {
	e := &collection.Entry{Name: "X"}
	assert.False(t, e.HasEvent(collection.ListenTest))
	assert.Nil(t, e.Event(collection.ListenTest))

	ev := collection.NewScriptEvent(collection.ListenTest, []string{"pm.test('ok');"})
	e.AddEvent(ev)

	assert.Same(t, ev, e.Event(collection.ListenTest))
	assert.True(t, e.HasEvent(collection.ListenTest))
	assert.False(t, e.HasEvent(collection.ListenPrerequest))
	assert.Equal(t, collection.ScriptTypeJavaScript, ev.Script.Type)
}

func TestGroupAddEntry(t *testing.T) {
	g := &collection.Group{Name: "Users"}
	e := &collection.Entry{Name: "Get Users"}
	g.AddEntry(e)

	require.Len(t, g.Items, 1)
	require.True(t, g.Items[0].IsEntry())
	assert.Same(t, e, g.Items[0].Entry)
}

func TestURLEqual(t *testing.T) {
	built := collection.BuildURL("/api/users")

	assert.True(t, built.Equal(collection.BuildURL("/api/users")))
	assert.False(t, built.Equal(collection.BuildURL("/api/users/:id")))
	assert.False(t, built.Equal(collection.StringURL("{{baseUrl}}/api/users")),
		"wire forms must match")
	assert.False(t, built.Equal(nil))
	assert.True(t, (*collection.URL)(nil).Equal(nil))
}
