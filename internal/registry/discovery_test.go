package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscoveryRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()

	entries := []struct {
		name       string
		moduleType string
		tags       []string
	}{
		{"pg_store", "store", []string{"sql", "persistent"}},
		{"redis_store", "store", []string{"cache", "fast"}},
		{"mem_store", "store", []string{"cache", "fast", "ephemeral"}},
		{"http_probe", "probe", []string{"network"}},
		{"tcp_probe", "probe", []string{"network", "fast"}},
	}
	for _, e := range entries {
		meta := NewMetadata(e.name, e.moduleType, "factory", "", "")
		meta.Tags = e.tags
		require.NoError(t, r.RegisterWithMetadata(e.name, e.moduleType, widgetFactory, meta))
	}
	return r
}

func TestFind_EmptyQueryReturnsAllSorted(t *testing.T) {
	r := newDiscoveryRegistry(t)

	names, err := r.Find(Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"http_probe", "mem_store", "pg_store", "redis_store", "tcp_probe"}, names)
}

func TestFind_NameContains(t *testing.T) {
	r := newDiscoveryRegistry(t)

	names, err := r.Find(Query{NameContains: "probe"})
	require.NoError(t, err)
	assert.Equal(t, []string{"http_probe", "tcp_probe"}, names)
}

func TestFind_NamePattern(t *testing.T) {
	r := newDiscoveryRegistry(t)

	names, err := r.Find(Query{NamePattern: "*_store"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mem_store", "pg_store", "redis_store"}, names)

	_, err = r.Find(Query{NamePattern: "[bad"})
	require.Error(t, err)
}

func TestFind_ModuleType(t *testing.T) {
	r := newDiscoveryRegistry(t)

	names, err := r.Find(Query{ModuleType: "probe"})
	require.NoError(t, err)
	assert.Equal(t, []string{"http_probe", "tcp_probe"}, names)

	names, err = r.Find(Query{ModuleType: "unknown"})
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFind_RequiredTagsAreSupersetFilter(t *testing.T) {
	r := newDiscoveryRegistry(t)

	// Only records declaring BOTH tags match, unrelated tags don't matter.
	names, err := r.Find(Query{RequiredTags: []string{"cache", "fast"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"mem_store", "redis_store"}, names)

	names, err = r.Find(Query{RequiredTags: []string{"cache", "sql"}})
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFind_OptionalTagsRankButNeverExclude(t *testing.T) {
	r := newDiscoveryRegistry(t)

	// All stores match; mem_store declares both optional tags, redis_store
	// one, pg_store none. Ties would fall back to lexical order.
	names, err := r.Find(Query{
		ModuleType:   "store",
		OptionalTags: []string{"fast", "ephemeral"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mem_store", "redis_store", "pg_store"}, names)
}

func TestFind_Deterministic(t *testing.T) {
	r := newDiscoveryRegistry(t)

	q := Query{OptionalTags: []string{"fast"}}
	first, err := r.Find(q)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Find(q)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFindByTypeAndTags(t *testing.T) {
	r := newDiscoveryRegistry(t)

	assert.Equal(t, []string{"http_probe", "tcp_probe"}, r.FindByType("probe"))
	assert.Equal(t, []string{"mem_store", "redis_store", "tcp_probe"}, r.FindByTags("fast"))
}
