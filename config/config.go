// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Scene      string           `yaml:"scene"` // "flowfield" or "starfield"
	Screen     ScreenConfig     `yaml:"screen"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Agent      AgentConfig      `yaml:"agent"`
	Field      FieldConfig      `yaml:"field"`
	Fade       FadeConfig       `yaml:"fade"`
	Background BackgroundConfig `yaml:"background"`
	Noise      NoiseConfig      `yaml:"noise"`
	Palette    PaletteConfig    `yaml:"palette"`
	Starfield  StarfieldConfig  `yaml:"starfield"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Audio      AudioConfig      `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Range is an inclusive-exclusive [Min, Max) pair drawn uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Container string `yaml:"container"` // Surface container id, informational
}

// ParticlesConfig controls the size of the agent pool.
type ParticlesConfig struct {
	Density float64 `yaml:"density"` // Agents per pixel before clamping
	Min     int     `yaml:"min"`
	Max     int     `yaml:"max"`
}

// AgentConfig holds per-agent spawn ranges and stroke styling.
type AgentConfig struct {
	MaxSpeed        Range   `yaml:"max_speed"`
	Weight          Range   `yaml:"weight"`
	InitialSpeed    Range   `yaml:"initial_speed"`
	Lifespan        Range   `yaml:"lifespan"`
	RespawnLifespan Range   `yaml:"respawn_lifespan"`
	Restitution     float64 `yaml:"restitution"` // Velocity factor applied on each edge crossing
	CoreAlpha       float64 `yaml:"core_alpha"`
	GlowAlpha       float64 `yaml:"glow_alpha"`
	GlowWeight      float64 `yaml:"glow_weight"` // Glow stroke weight multiplier
	HueDrift        float64 `yaml:"hue_drift"`
	SatDrift        float64 `yaml:"sat_drift"`
	MinSaturation   float64 `yaml:"min_saturation"`
}

// FieldConfig holds the randomization ranges for the vector field.
type FieldConfig struct {
	CellSizes     []float64 `yaml:"cell_sizes"`
	Increment     Range     `yaml:"increment"`      // Spatial noise step per cell
	TimeIncrement Range     `yaml:"time_increment"` // Noise z step per tick
	TimeOffset    Range     `yaml:"time_offset"`
	Curl          float64   `yaml:"curl"` // Full rotations swept as noise spans [0,1]
}

// FadeConfig holds trail persistence settings.
type FadeConfig struct {
	Enabled bool    `yaml:"enabled"`
	Alpha   float64 `yaml:"alpha"`
}

// BackgroundConfig holds background color choices.
type BackgroundConfig struct {
	Hues       []float64 `yaml:"hues"`
	Saturation float64   `yaml:"saturation"`
	Brightness Range     `yaml:"brightness"`
}

// NoiseConfig selects and tunes the coherent noise backend.
type NoiseConfig struct {
	Backend string  `yaml:"backend"` // "perlin" or "simplex"
	Alpha   float64 `yaml:"alpha"`   // Perlin amplitude falloff per octave
	Beta    float64 `yaml:"beta"`    // Perlin frequency gain per octave
	Octaves int     `yaml:"octaves"`
}

// PaletteConfig pins the palette mode. Empty picks one at random on every reset.
type PaletteConfig struct {
	Mode string `yaml:"mode"`
}

// StarfieldConfig holds parameters for the starfield scene.
type StarfieldConfig struct {
	Stars         int      `yaml:"stars"`
	Planets       int      `yaml:"planets"`
	Speed         Range    `yaml:"speed"`        // Mapped from pointer X
	PlanetSpeed   float64  `yaml:"planet_speed"` // Fraction of star speed
	NebulaBlobs   int      `yaml:"nebula_blobs"`
	NebulaAlpha   float64  `yaml:"nebula_alpha"` // Noise-to-alpha multiplier, clamped to the channel
	NebulaSize    float64  `yaml:"nebula_size"`
	DriftX        float64  `yaml:"drift_x"`
	DriftY        float64  `yaml:"drift_y"`
	RingChance    float64  `yaml:"ring_chance"`
	MoonChance    float64  `yaml:"moon_chance"`
	Story         []string `yaml:"story"`
	StorySeconds  float64  `yaml:"story_seconds"`
	SurfaceDots   int      `yaml:"surface_dots"`
	BackgroundRGB [3]uint8 `yaml:"background_rgb"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
	LogInterval int `yaml:"log_interval"` // Ticks between perf/agent log records (0 = off)
}

// AudioConfig holds ambient audio settings.
type AudioConfig struct {
	Enabled      bool        `yaml:"enabled"`
	SampleRate   int         `yaml:"sample_rate"`
	Volume       float64     `yaml:"volume"` // beep effects.Volume exponent, base 2
	Chords       [][]float64 `yaml:"chords"` // Frequencies in Hz
	ChordSeconds float64     `yaml:"chord_seconds"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StoryPeriod time.Duration // Starfield.StorySeconds as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the simulation cannot clamp its way out of.
func (c *Config) validate() error {
	if c.Particles.Min < 0 || c.Particles.Max < c.Particles.Min {
		return fmt.Errorf("particles: invalid bounds min=%d max=%d", c.Particles.Min, c.Particles.Max)
	}
	if len(c.Field.CellSizes) == 0 {
		return fmt.Errorf("field: cell_sizes must not be empty")
	}
	for _, s := range c.Field.CellSizes {
		if s <= 0 {
			return fmt.Errorf("field: cell size %v must be positive", s)
		}
	}
	if len(c.Background.Hues) == 0 {
		return fmt.Errorf("background: hues must not be empty")
	}
	switch c.Noise.Backend {
	case "perlin", "simplex":
	default:
		return fmt.Errorf("noise: unknown backend %q", c.Noise.Backend)
	}
	switch c.Scene {
	case "flowfield", "starfield":
	default:
		return fmt.Errorf("scene: unknown scene %q", c.Scene)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StoryPeriod = time.Duration(c.Starfield.StorySeconds * float64(time.Second))
	if c.Derived.StoryPeriod < time.Millisecond {
		c.Derived.StoryPeriod = time.Second
	}

	if c.Noise.Octaves < 1 {
		c.Noise.Octaves = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
