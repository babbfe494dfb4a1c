package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 128, cfg.Target.NativeIntWidth)
	assert.Equal(t, "_", cfg.Target.HookPrefix)
	assert.False(t, cfg.StrictNarrowing())
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[target]
native_int_width = 64
modular_libraries = ["Oracle"]

[diagnostics]
narrowing = "error"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 64, cfg.Target.NativeIntWidth)
	assert.Equal(t, 4, cfg.Target.MaxEventTopics)
	assert.Equal(t, "_reserved", cfg.Target.ReservedField)
	assert.True(t, cfg.StrictNarrowing())
	assert.True(t, cfg.IsModular("Oracle"))
	assert.False(t, cfg.IsModular("SafeMath"))
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`[target`))
	assert.Error(t, err)

	cfg, err := Parse([]byte("[target]\nnative_int_width = 100\n"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg, err = Parse([]byte("[diagnostics]\nnarrowing = \"ignore\"\n"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	cfg := Default()
	cfg.Layout.LockFile = "layout.db"
	cfg.Pipeline.Workers = 3
	require.NoError(t, cfg.WriteToFile(path))

	read, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "layout.db", read.Layout.LockFile)
	assert.Equal(t, 3, read.WorkerCount())
	assert.Equal(t, cfg.Target, read.Target)
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
