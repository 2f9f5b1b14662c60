package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/ledease/stream"
)

func TestRunMissingConfig(t *testing.T) {
	dir := t.TempDir()
	buf := &bytes.Buffer{}

	// A missing .env file is not an error; the missing config is.
	cmd := NewRunCommand(&RootOptions{EnvFile: filepath.Join(dir, ".env")})
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "config.yaml")})

	err := cmd.Execute()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mqtt:\n  url: tcp://localhost:1883\nframeRate: -1\n"), 0o644))

	cmd := NewRunCommand(&RootOptions{EnvFile: filepath.Join(dir, ".env")})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "frameRate")
}

func TestNewAnimations(t *testing.T) {
	config := stream.DefaultConfig()
	config.Pixels = 40

	animations := newAnimations(config)
	require.Len(t, animations, 2)
	for _, a := range animations {
		assert.Equal(t, 40, a.CalculateFrame(0).Len(), a.Name())
	}
}
