package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stamper.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project":"p.json","quality":85,"format":"png"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "p.json", cfg.Project)
	assert.Equal(t, 85, cfg.Quality)
	assert.Equal(t, "png", cfg.Format)
	assert.Zero(t, cfg.Workers)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{Project: filepath.Join("work", "project.json")}
	cfg.Resolve(Flags{})

	assert.Equal(t, "jpg", cfg.Format)
	assert.Equal(t, 70, cfg.Quality)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 0, cfg.YieldMS)
	assert.Equal(t, "composites.zip", cfg.ArchiveName)
	assert.Equal(t, "work", cfg.OutputDir)
	assert.Equal(t, filepath.Join("work", "composites.zip"), cfg.ArchivePath())
}

func TestResolveFlagsWin(t *testing.T) {
	cfg := Config{Project: "a.json", Quality: 50, Format: "png", OutputDir: "out"}
	cfg.Resolve(Flags{Project: filepath.Join("b", "b.json"), Quality: 95, Workers: 3, Format: "webp"})

	assert.Equal(t, filepath.Join("b", "b.json"), cfg.Project)
	assert.Equal(t, 95, cfg.Quality)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "webp", cfg.Format)
	assert.Equal(t, filepath.Join("b", "out"), cfg.OutputDir)
}

func TestEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("STAMPER_QUALITY=88\nSTAMPER_FORMAT=png\n"), 0644))

	t.Setenv("STAMPER_QUALITY", "")
	t.Setenv("STAMPER_FORMAT", "")
	t.Setenv("STAMPER_WORKERS", "4")
	os.Unsetenv("STAMPER_QUALITY")
	os.Unsetenv("STAMPER_FORMAT")

	require.NoError(t, LoadEnv(env))
	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env")))

	var cfg Config
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 88, cfg.Quality)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, 4, cfg.Workers)

	t.Setenv("STAMPER_WORKERS", "many")
	assert.Error(t, cfg.ApplyEnv())
}
