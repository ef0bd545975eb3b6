package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcapzh/ana/internal/logger"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.HasOutputPath())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ana", "config.toml")

	cfg := DefaultConfig()
	cfg.Company.Name = "测试公司"
	cfg.Paths.OutputPath = "/tmp/out"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "测试公司", loaded.Company.Name)
	assert.Equal(t, "/tmp/out", loaded.Paths.OutputPath)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[paths]\noutput_path = \"\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.HasOutputPath())
	assert.Equal(t, "raw-data", cfg.Paths.RawDataPath)
	assert.Equal(t, 20262, cfg.Server.Port)
}

func TestLoad_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[paths\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ANA_OUTPUT_PATH", "/srv/statements")
	t.Setenv("ANA_PORT", "18080")
	t.Setenv("ANA_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, "/srv/statements", cfg.Paths.OutputPath)
	assert.Equal(t, 18080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "raw-data", cfg.Paths.RawDataPath)
}

func TestManager_UpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	m := NewManager(path, logger.Nop())

	cfg := m.Get()
	cfg.Paths.RawDataPath = "/data/raw"
	require.NoError(t, m.Update(cfg))
	assert.Equal(t, "/data/raw", m.Get().Paths.RawDataPath)

	reloaded := NewManager(path, logger.Nop())
	assert.Equal(t, "/data/raw", reloaded.Get().Paths.RawDataPath)

	cfg.Server.Port = -1
	assert.Error(t, m.Update(cfg))
	assert.Equal(t, "/data/raw", m.Get().Paths.RawDataPath)
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()

	got, err := EnsureDataDir(cfg, filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
