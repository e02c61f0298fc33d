package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/modregistry/internal/app"
)

func TestParse_ListCommand(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"list"}, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, cfg)
	assert.Equal(t, app.CommandList, cfg.Command)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_CreateWithFlags(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{
		"-secure",
		"-manifest", "policies/",
		"-log-format", "json",
		"-log-level", "debug",
		"create", "s3",
	}
	cfg, shouldExit, err := Parse(args, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, app.CommandCreate, cfg.Command)
	assert.Equal(t, "s3", cfg.ModuleName)
	assert.True(t, cfg.Secure)
	assert.Equal(t, "policies/", cfg.ManifestPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_DiscoveryFlags(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{
		"-type", "provider",
		"-pattern", "*_store",
		"-tags", "cache, fast",
		"-optional-tags", "ephemeral",
		"list",
	}
	cfg, _, err := Parse(args, out)

	require.NoError(t, err)
	assert.Equal(t, "provider", cfg.TypeFilter)
	assert.Equal(t, "*_store", cfg.NamePattern)
	assert.Equal(t, []string{"cache", "fast"}, cfg.RequiredTags)
	assert.Equal(t, []string{"ephemeral"}, cfg.OptionalTags)
}

func TestParse_NoCommandPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpFlag(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus", "list"}},
		{"bad log format", []string{"-log-format", "xml", "list"}},
		{"bad log level", []string{"-log-level", "loud", "list"}},
		{"unknown command", []string{"transmogrify"}},
		{"describe without name", []string{"describe"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
