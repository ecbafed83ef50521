package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipelineConfig struct {
	Database struct {
		DSN string `yaml:"dsn" env:"TEST_POSTGRES_DSN"`
	} `yaml:"database"`
	Pipeline struct {
		Gap        Duration `yaml:"gap"`
		DriveSpeed float64  `yaml:"driveSpeed"`
		Workers    int      `yaml:"workers"`
	} `yaml:"pipeline"`
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("TEST_POSTGRES_DSN", "postgres://env")
	t.Setenv("PIPELINE_GAP", "45m")
	t.Setenv("PIPELINE_DRIVESPEED", "2.5")
	t.Setenv("PIPELINE_WORKERS", "8")

	cfg := &pipelineConfig{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, 45*time.Minute, cfg.Pipeline.Gap.Std())
	assert.Equal(t, 2.5, cfg.Pipeline.DriveSpeed)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
}

func TestLoadReadsYamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("database:\n  dsn: postgres://file\npipeline:\n  gap: 30m\n  workers: 2\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg := &pipelineConfig{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, "postgres://file", cfg.Database.DSN)
	assert.Equal(t, 30*time.Minute, cfg.Pipeline.Gap.Std())
	assert.Equal(t, 2, cfg.Pipeline.Workers)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  dsn: postgres://file\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_POSTGRES_DSN", "postgres://env")

	cfg := &pipelineConfig{}
	require.NoError(t, Load(cfg))
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
}

func TestLoadRejectsNonStructTarget(t *testing.T) {
	var n int
	assert.Error(t, Load(&n))
	assert.Error(t, Load(nil))
}
