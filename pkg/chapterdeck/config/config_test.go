package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, "./inputs/Template.pptx", s.TemplatePath)
	assert.Equal(t, 13.0, s.TMDThreshold)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapterdeck.yaml"), []byte(`
chapter_leader: Anthony Jaesson Rojas
data_root: /srv/reportes
month: "2025 04"
tmd_threshold: 10
history_db: ""
`), 0644))
	t.Setenv("CHAPTERDECK_OUTPUT_DIR", "/tmp/decks")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Anthony Jaesson Rojas", s.ChapterLeader)
	assert.Equal(t, 10.0, s.TMDThreshold)
	assert.Empty(t, s.HistoryDB)
	assert.Equal(t, "/tmp/decks", s.OutputDir)
	assert.Equal(t, "./inputs/Template.pptx", s.TemplatePath)

	opts := s.Options()
	assert.Equal(t, filepath.Join("/srv/reportes", "2025 04"), opts.DataDir)
	assert.Equal(t, "Anthony Jaesson Rojas", opts.Leader)
	assert.Equal(t, 10.0, opts.Threshold)
	assert.Equal(t, filepath.Join("/srv/reportes", "2025 04", "outputs"), s.PublishDir())
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolveDataDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "2025 03"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "2025 05"), 0755))

	s := Settings{DataRoot: root}
	assert.Equal(t, filepath.Join(root, "2025 05"), s.ResolveDataDir())

	s.DataDir = "/data/explicit"
	assert.Equal(t, "/data/explicit", s.ResolveDataDir())
}
