// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Player      PlayerConfig      `yaml:"player"`
	Motion      MotionConfig      `yaml:"motion"`
	Fuel        FuelConfig        `yaml:"fuel"`
	Hazard      HazardConfig      `yaml:"hazard"`
	Collectible CollectibleConfig `yaml:"collectible"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Collision   CollisionConfig   `yaml:"collision"`
	Bomb        BombConfig        `yaml:"bomb"`
	Effects     EffectsConfig     `yaml:"effects"`
	Ornament    OrnamentConfig    `yaml:"ornament"`
	Camera      CameraConfig      `yaml:"camera"`
	Progression ProgressionConfig `yaml:"progression"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Server      ServerConfig      `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds playfield dimensions. The galaxy center is the origin.
// Depth 0 gives the flat variant; any positive depth enables the pseudo-3D volume.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

// PlayerConfig holds ship kinematics.
type PlayerConfig struct {
	Size           float64 `yaml:"size"`
	Acceleration   float64 `yaml:"acceleration"`
	Friction       float64 `yaml:"friction"` // Velocity multiplier per tick, in (0,1)
	MaxSpeed       float64 `yaml:"max_speed"`
	HeadingEpsilon float64 `yaml:"heading_epsilon"` // Heading only follows velocity above this speed
	TrailLength    int     `yaml:"trail_length"`
	MaxOrnaments   int     `yaml:"max_ornaments"`
}

// MotionConfig holds the galactic center attraction.
type MotionConfig struct {
	AttractionK       float64 `yaml:"attraction_k"` // 0 disables attraction
	Deadzone          float64 `yaml:"deadzone"`
	ReferenceDistance float64 `yaml:"reference_distance"`
}

// FuelConfig holds fuel economics.
type FuelConfig struct {
	Max              float64 `yaml:"max"`
	DrainPerTick     float64 `yaml:"drain_per_tick"`
	DrainPerThrust   float64 `yaml:"drain_per_thrust"` // Extra drain at full thrust
	RefillPerCollect float64 `yaml:"refill_per_collect"`
	CollisionPenalty float64 `yaml:"collision_penalty"`
}

// HazardConfig holds hazard spawning and movement.
type HazardConfig struct {
	Size           float64 `yaml:"size"`
	Cap            int     `yaml:"cap"`
	SpawnInterval  int     `yaml:"spawn_interval"`  // Ticks between spawns at level 1
	IntervalShrink int     `yaml:"interval_shrink"` // Ticks removed per level
	IntervalFloor  int     `yaml:"interval_floor"`
	BaseSpeed      float64 `yaml:"base_speed"`
	SpeedPerLevel  float64 `yaml:"speed_per_level"`
	MaxSpeed       float64 `yaml:"max_speed"`
	TargetJitter   float64 `yaml:"target_jitter"`
	ArrivalEpsilon float64 `yaml:"arrival_epsilon"`
	BoundsMargin   float64 `yaml:"bounds_margin"`
}

// CollectibleConfig holds collectible spawning, layout and hit thresholds.
type CollectibleConfig struct {
	Size              float64 `yaml:"size"`
	Cap               int     `yaml:"cap"`
	Initial           int     `yaml:"initial"`
	SpawnInterval     int     `yaml:"spawn_interval"`
	IntervalShrink    int     `yaml:"interval_shrink"`
	IntervalFloor     int     `yaml:"interval_floor"`
	Rings             int     `yaml:"rings"`
	SlotsPerRing      int     `yaml:"slots_per_ring"`
	FirstRingRadius   float64 `yaml:"first_ring_radius"`
	RingSpacing       float64 `yaml:"ring_spacing"`
	OrbitSpeed        float64 `yaml:"orbit_speed"` // Radians per tick
	PulseAmplitude    float64 `yaml:"pulse_amplitude"`
	PulseFrequency    float64 `yaml:"pulse_frequency"`
	BaseHits          int     `yaml:"base_hits"`
	LevelsPerExtraHit int     `yaml:"levels_per_extra_hit"`
	HitVariance       int     `yaml:"hit_variance"`
	MaxHits           int     `yaml:"max_hits"`
}

// ScoringConfig holds point values.
type ScoringConfig struct {
	HitPoints     int `yaml:"hit_points"`
	CollectPoints int `yaml:"collect_points"`
	LevelBonus    int `yaml:"level_bonus"`
}

// CollisionConfig selects the hazard collision variant.
type CollisionConfig struct {
	Fatal bool `yaml:"fatal"` // Any unshielded hazard contact ends the run
}

// BombConfig holds the bomb ability timings in ticks.
type BombConfig struct {
	Cooldown int `yaml:"cooldown"`
	SafeTime int `yaml:"safe_time"`
}

// EffectsConfig holds effect decay rates and particle settings.
type EffectsConfig struct {
	HitDecay         float64 `yaml:"hit_decay"`
	CollectDecay     float64 `yaml:"collect_decay"`
	ExplosionDecay   float64 `yaml:"explosion_decay"`
	BombDecay        float64 `yaml:"bomb_decay"`
	SpawnDecay       float64 `yaml:"spawn_decay"`
	ParticleDecay    float64 `yaml:"particle_decay"`
	ParticleFriction float64 `yaml:"particle_friction"`
	ParticleSize     float64 `yaml:"particle_size"`
	ParticleSpeed    float64 `yaml:"particle_speed"`
	BurstCount       int     `yaml:"burst_count"`
	MaxParticles     int     `yaml:"max_particles"`
	MaxEffects       int     `yaml:"max_effects"`
}

// OrnamentConfig holds the spiral-follow formation of collected bodies.
type OrnamentConfig struct {
	BaseRadius    float64 `yaml:"base_radius"`
	Spacing       float64 `yaml:"spacing"`
	PhaseStep     float64 `yaml:"phase_step"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	Ease          float64 `yaml:"ease"`
	SnapEpsilon   float64 `yaml:"snap_epsilon"`
}

// CameraConfig holds the camera rig parameters.
type CameraConfig struct {
	Smoothing      float64 `yaml:"smoothing"`
	ShakeDecay     float64 `yaml:"shake_decay"`
	ShakePerDamage float64 `yaml:"shake_per_damage"` // Shake magnitude per fuel point lost
	ShakeBomb      float64 `yaml:"shake_bomb"`
	ShotInterval   int     `yaml:"shot_interval"` // Ticks between cinematic shot changes
	Cinematic      bool    `yaml:"cinematic"`
	FollowDistance float64 `yaml:"follow_distance"`
	FollowHeight   float64 `yaml:"follow_height"`
	SideDistance   float64 `yaml:"side_distance"`
	TopHeight      float64 `yaml:"top_height"`
	OrbitRadius    float64 `yaml:"orbit_radius"`
	OrbitSpeed     float64 `yaml:"orbit_speed"`
	Zoom           float64 `yaml:"zoom"`
	MinZoom        float64 `yaml:"min_zoom"`
	MaxZoom        float64 `yaml:"max_zoom"`
	FocalLength    float64 `yaml:"focal_length"` // Perspective projection
}

// ProgressionConfig holds per-level requirements.
type ProgressionConfig struct {
	BaseRequired     int `yaml:"base_required"`
	RequiredPerLevel int `yaml:"required_per_level"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	LeaderboardSize     int     `yaml:"leaderboard_size"`
}

// ServerConfig holds the multiplayer room parameters.
type ServerConfig struct {
	TickHz            int     `yaml:"tick_hz"`
	BroadcastEvery    int     `yaml:"broadcast_every"`
	LevelAdvanceDelay float64 `yaml:"level_advance_delay"` // Seconds; 0 disables auto advance
	ReadLimit         int64   `yaml:"read_limit"`
	PongWait          float64 `yaml:"pong_wait"`
	SendBuffer        int     `yaml:"send_buffer"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfW          float64 // World.Width / 2
	HalfH          float64 // World.Height / 2
	HalfD          float64 // World.Depth / 2
	Is3D           bool    // World.Depth > 0
	TicksPerWindow int     // Telemetry.StatsWindow * Screen.TargetFPS
	SlotCount      int     // Collectible.Rings * Collectible.SlotsPerRing
	ScreenW32      float32
	ScreenH32      float32
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 || c.World.Depth < 0 {
		errs = append(errs, fmt.Errorf("world: invalid dimensions %gx%gx%g", c.World.Width, c.World.Height, c.World.Depth))
	}
	if c.Player.Friction <= 0 || c.Player.Friction >= 1 {
		errs = append(errs, fmt.Errorf("player.friction must be in (0,1), got %g", c.Player.Friction))
	}
	if c.Player.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("player.max_speed must be positive"))
	}
	if c.Player.TrailLength < 0 || c.Player.MaxOrnaments < 0 {
		errs = append(errs, fmt.Errorf("player: negative trail or ornament limit"))
	}
	if c.Fuel.Max <= 0 {
		errs = append(errs, fmt.Errorf("fuel.max must be positive"))
	}
	if c.Hazard.Cap < 0 || c.Collectible.Cap < 0 {
		errs = append(errs, fmt.Errorf("population caps must not be negative"))
	}
	if c.Hazard.IntervalFloor < 1 || c.Collectible.IntervalFloor < 1 {
		errs = append(errs, fmt.Errorf("spawn interval floors must be at least 1 tick"))
	}
	if c.Collectible.Rings < 1 || c.Collectible.SlotsPerRing < 1 {
		errs = append(errs, fmt.Errorf("collectible slot layout needs at least one ring and slot"))
	}
	if c.Collectible.BaseHits < 1 {
		errs = append(errs, fmt.Errorf("collectible.base_hits must be at least 1"))
	}
	if c.Camera.Smoothing <= 0 || c.Camera.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("camera.smoothing must be in (0,1], got %g", c.Camera.Smoothing))
	}
	if c.Camera.ShakeDecay < 0 || c.Camera.ShakeDecay >= 1 {
		errs = append(errs, fmt.Errorf("camera.shake_decay must be in [0,1), got %g", c.Camera.ShakeDecay))
	}
	if c.Progression.BaseRequired < 1 {
		errs = append(errs, fmt.Errorf("progression.base_required must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HalfW = c.World.Width / 2
	c.Derived.HalfH = c.World.Height / 2
	c.Derived.HalfD = c.World.Depth / 2
	c.Derived.Is3D = c.World.Depth > 0
	c.Derived.SlotCount = c.Collectible.Rings * c.Collectible.SlotsPerRing
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.TicksPerWindow = int(c.Telemetry.StatsWindow * float64(fps))
	if c.Derived.TicksPerWindow < 1 {
		c.Derived.TicksPerWindow = 1
	}
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// Clone returns a deep copy; the config has no reference fields so a value copy suffices.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
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
