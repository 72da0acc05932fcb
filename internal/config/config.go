// Package config loads the demo's TOML settings and layers command-line flags over them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("config: invalid")

// Config holds every demo setting. Zero values mean "use the default".
type Config struct {
	// Model is a .gltf/.glb path. Empty uses the built-in arm rig.
	Model string `toml:"model"`
	Skin  int    `toml:"skin"`

	TickRate  float64 `toml:"tick_rate"`
	Frames    int     `toml:"frames"`
	Window    bool    `toml:"window"`
	Profile   bool    `toml:"profile"`
	LogLevel  string  `toml:"log_level"`
	Instances int     `toml:"instances"`
	Workers   int     `toml:"workers"`

	Animation Animation `toml:"animation"`
}

// Animation names the clips the character plays and tunes its locomotion.
type Animation struct {
	Idle          string  `toml:"idle"`
	Walk          string  `toml:"walk"`
	BlendDuration float32 `toml:"blend_duration"`
	Speed         float32 `toml:"speed"`
	MoveSpeed     float32 `toml:"move_speed"`
	TurnDuration  float32 `toml:"turn_duration"`
	JumpHeight    float32 `toml:"jump_height"`
	JumpDuration  float32 `toml:"jump_duration"`
}

// Flags holds CLI flag values that override config file settings when non-zero.
type Flags struct {
	Model     string
	Frames    int
	Window    bool
	Profile   bool
	LogLevel  string
	Instances int
}

// Default returns the settings used when neither file nor flags set a value.
func Default() Config {
	return Config{
		TickRate:  60,
		LogLevel:  "info",
		Instances: 1,
		Workers:   4,
		Animation: Animation{
			Idle:          "idle",
			Walk:          "wave",
			BlendDuration: 0.25,
			Speed:         1,
			MoveSpeed:     2,
			TurnDuration:  0.15,
			JumpHeight:    2,
			JumpDuration:  0.4,
		},
	}
}

// Load reads a TOML config file. Fields not set in the file keep their zero values;
// an empty path returns a zero Config.
//
// Parameters:
//   - path: the file to read, or ""
//
// Returns:
//   - Config: the file's settings
//   - error: error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve layers flags over c and fills anything still unset from Default.
//
// Parameters:
//   - flags: CLI overrides
//
// Returns:
//   - Config: the effective settings
func (c Config) Resolve(flags Flags) Config {
	d := Default()

	out := c
	out.Model = common.Coalesce(flags.Model, c.Model)
	out.Frames = common.Coalesce(flags.Frames, c.Frames)
	out.Window = common.Coalesce(flags.Window, c.Window)
	out.Profile = common.Coalesce(flags.Profile, c.Profile)
	out.LogLevel = common.Coalesce(flags.LogLevel, c.LogLevel, d.LogLevel)
	out.Instances = common.Coalesce(flags.Instances, c.Instances, d.Instances)

	out.TickRate = common.Coalesce(c.TickRate, d.TickRate)
	out.Workers = common.Coalesce(c.Workers, d.Workers)

	a, da := c.Animation, d.Animation
	out.Animation = Animation{
		Idle:          common.Coalesce(a.Idle, da.Idle),
		Walk:          common.Coalesce(a.Walk, da.Walk),
		BlendDuration: common.Coalesce(a.BlendDuration, da.BlendDuration),
		Speed:         common.Coalesce(a.Speed, da.Speed),
		MoveSpeed:     common.Coalesce(a.MoveSpeed, da.MoveSpeed),
		TurnDuration:  common.Coalesce(a.TurnDuration, da.TurnDuration),
		JumpHeight:    common.Coalesce(a.JumpHeight, da.JumpHeight),
		JumpDuration:  common.Coalesce(a.JumpDuration, da.JumpDuration),
	}
	return out
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %v must be positive", ErrInvalidConfig, c.TickRate)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames %d must not be negative", ErrInvalidConfig, c.Frames)
	case c.Instances < 1:
		return fmt.Errorf("%w: instances %d must be at least 1", ErrInvalidConfig, c.Instances)
	case c.Skin < 0:
		return fmt.Errorf("%w: skin %d must not be negative", ErrInvalidConfig, c.Skin)
	case c.Animation.BlendDuration <= 0:
		return fmt.Errorf("%w: blend_duration %v must be positive", ErrInvalidConfig, c.Animation.BlendDuration)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
