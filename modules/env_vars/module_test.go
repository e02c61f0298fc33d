package env_vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/modregistry/internal/registry"
)

func TestRegisterAndCreate(t *testing.T) {
	r := registry.New()
	require.NoError(t, (&Module{}).Register(r))

	meta, ok := r.Lookup("env_vars")
	require.True(t, ok)
	assert.Equal(t, "provider", meta.ModuleType)
	assert.True(t, meta.HasTag("environment"))
	assert.True(t, meta.Security.Permissions.EnvAccess)

	t.Setenv("MODREGISTRY_TEST_VAR", "42")

	provider, err := registry.CreateAs[*Provider](r, "env_vars")
	require.NoError(t, err)

	got, ok := provider.Get("MODREGISTRY_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "42", got)
	assert.Equal(t, "env_vars", provider.Name())
}

func TestSnapshotIsIsolated(t *testing.T) {
	r := registry.New()
	require.NoError(t, (&Module{}).Register(r))

	t.Setenv("MODREGISTRY_SNAPSHOT_VAR", "before")
	first, err := registry.CreateAs[*Provider](r, "env_vars")
	require.NoError(t, err)

	t.Setenv("MODREGISTRY_SNAPSHOT_VAR", "after")
	second, err := registry.CreateAs[*Provider](r, "env_vars")
	require.NoError(t, err)

	v1, _ := first.Get("MODREGISTRY_SNAPSHOT_VAR")
	v2, _ := second.Get("MODREGISTRY_SNAPSHOT_VAR")
	assert.Equal(t, "before", v1)
	assert.Equal(t, "after", v2)

	// Mutating the returned copy never touches the snapshot.
	all := first.All()
	all["MODREGISTRY_SNAPSHOT_VAR"] = "mutated"
	v1, _ = first.Get("MODREGISTRY_SNAPSHOT_VAR")
	assert.Equal(t, "before", v1)
}
