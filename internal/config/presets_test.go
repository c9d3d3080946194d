package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadStagePresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	data := `
- name: illustration
  stages:
    - name: sketch
      days: 5
    - name: color
      days: 7
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	require.NoError(t, LoadStagePresets(path))
	require.Len(t, StagePresets, 1)
	require.Equal(t, "illustration", StagePresets[0].Name)
	require.Len(t, StagePresets[0].Stages, 2)
	require.Equal(t, 7, StagePresets[0].Stages[1].Days)
}

func TestLoadStagePresetsMissingFile(t *testing.T) {
	require.NoError(t, LoadStagePresets(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Empty(t, StagePresets)
}

func TestLoadStagePresetsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	require.Error(t, LoadStagePresets(path))
}
