package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "engine.yaml")

	var want Config
	want.Segment.MaxStoreBytes = 2048
	want.Segment.MaxIndexBytes = 4096
	want.Segment.InitialOffset = 10

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/engine.yaml")
	require.Error(t, err)
}
