package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
model = "fox.glb"
frames = 120
instances = 8

[animation]
walk = "Walk"
blend_duration = 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fox.glb", cfg.Model)
	assert.Equal(t, 120, cfg.Frames)
	assert.Equal(t, 8, cfg.Instances)
	assert.Equal(t, "Walk", cfg.Animation.Walk)
	assert.Equal(t, float32(0.5), cfg.Animation.BlendDuration)
	assert.Empty(t, cfg.Animation.Idle)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "frames = \"many\""))
	assert.Error(t, err)
}

func TestResolveLayering(t *testing.T) {
	file := Config{Model: "file.glb", Frames: 100, Instances: 4, Animation: Animation{Walk: "Run"}}

	cfg := file.Resolve(Flags{Frames: 10, LogLevel: "debug"})
	assert.Equal(t, "file.glb", cfg.Model, "file value kept when flag unset")
	assert.Equal(t, 10, cfg.Frames, "flag overrides file")
	assert.Equal(t, 4, cfg.Instances)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Run", cfg.Animation.Walk)
	assert.Equal(t, Default().Animation.Idle, cfg.Animation.Idle, "default fills unset")
	assert.Equal(t, Default().TickRate, cfg.TickRate)
	require.NoError(t, cfg.Validate())
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{}.Resolve(Flags{})
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := Config{}.Resolve(Flags{})
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.LogLevel = "loud"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = cfg
	bad.Frames = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = cfg
	bad.Instances = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

func TestLevel(t *testing.T) {
	level, err := Config{LogLevel: "warn"}.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
