package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetFactory() (any, error) {
	return struct{}{}, nil
}

func TestNew(t *testing.T) {
	r := New()
	require.NotNil(t, r)
	assert.Empty(t, r.List())
	assert.Equal(t, 0, r.Count())
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	err := r.Register("cache", "provider", widgetFactory)
	require.NoError(t, err)

	assert.True(t, r.Has("cache"))
	assert.Equal(t, 1, r.Count())

	meta, ok := r.Lookup("cache")
	require.True(t, ok)
	assert.Equal(t, "cache", meta.Name)
	assert.Equal(t, "provider", meta.ModuleType)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.False(t, r.Has("missing"))
}

func TestRegister_DuplicateRejected(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("cache", "provider", widgetFactory))

	err := r.Register("cache", "provider", widgetFactory)
	require.Error(t, err)

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "cache", dup.Name)

	// The original record survives.
	assert.Equal(t, 1, r.Count())
}

func TestRegister_Validation(t *testing.T) {
	r := New()

	require.Error(t, r.Register("", "provider", widgetFactory))
	require.Error(t, r.Register("cache", "provider", nil))
	require.Error(t, r.Register(strings.Repeat("x", MaxNameLength+1), "provider", widgetFactory))
	require.Error(t, r.Register("cache", strings.Repeat("x", MaxModuleTypeLength+1), widgetFactory))

	assert.Equal(t, 0, r.Count())
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	r := New()
	r.MustRegister("cache", "provider", widgetFactory)

	require.Panics(t, func() {
		r.MustRegister("cache", "provider", widgetFactory)
	})
}

func TestUnregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("cache", "provider", widgetFactory))

	assert.True(t, r.Unregister("cache"))
	assert.False(t, r.Has("cache"))

	// Removing a missing record is a reported no-op.
	assert.False(t, r.Unregister("cache"))
}

func TestList_SortedAndStable(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(name, "provider", widgetFactory))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.List())
	assert.Equal(t, r.List(), r.List())
}

func TestClear(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("a", "provider", widgetFactory))
	require.NoError(t, r.Register("b", "provider", widgetFactory))

	r.Clear()

	assert.Empty(t, r.List())
	assert.False(t, r.Has("a"))
	assert.False(t, r.Has("b"))
}

func TestCreate_NotFound(t *testing.T) {
	r := New()

	inst, err := r.Create("missing")
	require.Error(t, err)
	assert.Nil(t, inst)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
}

func TestCreate_FreshInstancePerCall(t *testing.T) {
	r := New()
	calls := 0
	require.NoError(t, r.Register("counter", "provider", func() (any, error) {
		calls++
		return &struct{ n int }{n: calls}, nil
	}))

	first, err := r.Create("counter")
	require.NoError(t, err)
	second, err := r.Create("counter")
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "each create must invoke the factory once")
	assert.NotSame(t, first.Value(), second.Value())
}

func TestCreate_FactoryFailure(t *testing.T) {
	r := New()
	cause := errors.New("backend unreachable")
	require.NoError(t, r.Register("flaky", "provider", func() (any, error) {
		return nil, cause
	}))

	_, err := r.Create("flaky")
	require.Error(t, err)

	var factoryErr *FactoryError
	require.ErrorAs(t, err, &factoryErr)
	assert.Equal(t, "flaky", factoryErr.Name)
	assert.ErrorIs(t, err, cause)
}

// A factory that calls back into the registry must not deadlock, because
// Create never holds the lock across the factory call.
func TestCreate_ReentrantFactory(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("inner", "provider", widgetFactory))
	require.NoError(t, r.Register("outer", "provider", func() (any, error) {
		return r.Create("inner")
	}))

	inst, err := r.Create("outer")
	require.NoError(t, err)
	require.NotNil(t, inst)
}

func TestUpdateMetadata(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("cache", "provider", widgetFactory))

	err := r.UpdateMetadata("cache", func(meta *Metadata) {
		meta.Tags = append(meta.Tags, "fast")
		// Identity fields must not be updatable.
		meta.Name = "hijacked"
		meta.ModuleType = "hijacked"
	})
	require.NoError(t, err)

	meta, ok := r.Lookup("cache")
	require.True(t, ok)
	assert.Equal(t, "cache", meta.Name)
	assert.Equal(t, "provider", meta.ModuleType)
	assert.True(t, meta.HasTag("fast"))

	require.Error(t, r.UpdateMetadata("missing", func(meta *Metadata) {}))
}

func TestLookup_ReturnsIsolatedCopy(t *testing.T) {
	r := New()
	meta := NewMetadata("cache", "provider", "factory", "internal/cache", "Cache")
	meta.Tags = []string{"fast"}
	require.NoError(t, r.RegisterWithMetadata("cache", "provider", widgetFactory, meta))

	got, ok := r.Lookup("cache")
	require.True(t, ok)
	got.Tags[0] = "mutated"
	got.Security.Permissions.SystemAccess = true

	again, ok := r.Lookup("cache")
	require.True(t, ok)
	assert.Equal(t, "fast", again.Tags[0])
	assert.False(t, again.Security.Permissions.SystemAccess)
}

// TestRegistry_ConcurrentRegister verifies that parallel registrations of
// distinct names all land, each independently lookup-able.
func TestRegistry_ConcurrentRegister(t *testing.T) {
	r := New()
	const goroutines = 10
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				name := fmt.Sprintf("module-%d-%d", g, i)
				if err := r.Register(name, "provider", widgetFactory); err != nil {
					t.Errorf("register %s: %v", name, err)
				}
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, goroutines*perGoroutine, r.Count())
	require.Len(t, r.List(), goroutines*perGoroutine)
	for g := 0; g < goroutines; g++ {
		for i := 0; i < perGoroutine; i++ {
			name := fmt.Sprintf("module-%d-%d", g, i)
			if !r.Has(name) {
				t.Fatalf("missing record for %s", name)
			}
		}
	}
}

// TestRegistry_ConcurrentCreate verifies that parallel creates on a shared
// registry each return a valid, independent instance.
func TestRegistry_ConcurrentCreate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("shared", "provider", func() (any, error) {
		return &struct{ payload [8]byte }{}, nil
	}))

	const goroutines = 50
	instances := make([]any, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			inst, err := r.Create("shared")
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			instances[g] = inst.Value()
		}(g)
	}
	wg.Wait()

	seen := make(map[any]bool)
	for _, v := range instances {
		require.NotNil(t, v)
		require.False(t, seen[v], "two creates returned the same instance")
		seen[v] = true
	}
}

// Mixed readers and writers must never corrupt the map.
func TestRegistry_ConcurrentMixed(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("stable", "provider", widgetFactory))

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				name := fmt.Sprintf("churn-%d-%d", g, i)
				_ = r.Register(name, "provider", widgetFactory)
				r.Has("stable")
				r.List()
				_, _ = r.Create("stable")
				r.Unregister(name)
			}
		}(g)
	}
	wg.Wait()

	assert.True(t, r.Has("stable"))
	assert.Equal(t, 1, r.Count())
}
