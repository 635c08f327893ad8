package prefixtree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/keboola/go-orchestrator/internal/pkg/prefixtree"
)

type value struct {
	field string
}

func TestPrefixTree(t *testing.T) {
	t.Parallel()
	tree := New[value]()

	// Get - not found
	_, found := tree.Get("key/1")
	assert.False(t, found)

	// AllFromPrefix - no value
	assert.Len(t, tree.AllFromPrefix("key"), 0)

	// -----
	tree.Insert("key/1", value{field: "value1"})
	tree.Insert("key/2", value{field: "value2"})

	// Get - found
	v, found := tree.Get("key/1")
	assert.True(t, found)
	assert.Equal(t, value{field: "value1"}, v)

	// AllFromPrefix - 2 items
	assert.Len(t, tree.AllFromPrefix("key"), 2)
	assert.Equal(t, 2, tree.Len())

	// -----
	assert.True(t, tree.Delete("key/2"))
	assert.False(t, tree.Delete("key/2"))
	_, found = tree.Get("key/2")
	assert.False(t, found)
}

func TestPrefixTree_LongestPrefix(t *testing.T) {
	t.Parallel()
	tree := New[value]()
	tree.Insert("", value{field: "global"})
	tree.Insert("db.", value{field: "db"})
	tree.Insert("db.users.", value{field: "users"})

	prefix, v, found := tree.LongestPrefix("db.users.load")
	assert.True(t, found)
	assert.Equal(t, "db.users.", prefix)
	assert.Equal(t, value{field: "users"}, v)

	prefix, v, found = tree.LongestPrefix("db.orders.load")
	assert.True(t, found)
	assert.Equal(t, "db.", prefix)
	assert.Equal(t, value{field: "db"}, v)

	_, v, found = tree.LongestPrefix("http.fetch")
	assert.True(t, found)
	assert.Equal(t, value{field: "global"}, v)
}
