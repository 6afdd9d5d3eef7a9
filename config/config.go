package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "ARBOR_CONFIG"

// Config is the process configuration, decoded from TOML.
type Config struct {
	World   WorldConfig   `toml:"world"`
	Logging LoggingConfig `toml:"logging"`
	Viewer  ViewerConfig  `toml:"viewer"`
	Script  ScriptConfig  `toml:"script"`
	Spawn   []SpawnConfig `toml:"spawn"`
}

// WorldConfig sizes the unit world.
type WorldConfig struct {
	MaxUnits int  `toml:"max_units"` // slot table capacity; max_units-1 units can be live
	Debug    bool `toml:"debug"`     // re-validate graphs and log stats every tick
}

// LoggingConfig selects the zap logger built by internal/logging.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// ViewerConfig controls the arborview window and camera.
type ViewerConfig struct {
	Title  string  `toml:"title"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"` // pixels per world unit
	TPS    int     `toml:"tps"`
}

// ScriptConfig points at the Lua script run by the viewer.
type ScriptConfig struct {
	Path string `toml:"path"` // Lua file run at startup; empty disables scripting
}

// SpawnConfig places one compiled unit in the world at startup.
type SpawnConfig struct {
	Unit     string     `toml:"unit"` // YAML unit description
	Position [3]float32 `toml:"position"`
	Spin     float32    `toml:"spin"` // radians per second around Z, driven by a tween
}

// Path returns the config path from ARBOR_CONFIG, or def when unset.
func Path(def string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return def
}

// Load reads the TOML file at path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			MaxUnits: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Viewer: ViewerConfig{
			Title:  "arbor",
			Width:  960,
			Height: 640,
			Scale:  48,
			TPS:    60,
		},
	}
}

func (c *Config) validate() error {
	if c.World.MaxUnits < 2 || c.World.MaxUnits > 65535 {
		return fmt.Errorf("world.max_units %d out of range [2, 65535]", c.World.MaxUnits)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size %dx%d must be positive", c.Viewer.Width, c.Viewer.Height)
	}
	if c.Viewer.Scale <= 0 {
		return fmt.Errorf("viewer.scale %g must be positive", c.Viewer.Scale)
	}
	if c.Viewer.TPS <= 0 {
		return fmt.Errorf("viewer.tps %d must be positive", c.Viewer.TPS)
	}
	for i, s := range c.Spawn {
		if s.Unit == "" {
			return fmt.Errorf("spawn[%d]: unit path is empty", i)
		}
	}
	return nil
}
