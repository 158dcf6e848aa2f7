package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaJSON string

var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaJSON)

// ErrInvalidConfig is returned (wrapped) whenever a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// EdgePolicy selects what happens at the world boundaries.
type EdgePolicy string

const (
	EdgeAvoid EdgePolicy = "avoid" // steer away from walls
	EdgeWrap  EdgePolicy = "wrap"  // teleport to the opposite edge
)

// NeighborPolicy selects which agents influence a given agent.
type NeighborPolicy string

const (
	NeighborRadius NeighborPolicy = "radius"
	NeighborCount  NeighborPolicy = "count"
)

// SpawnPolicy selects where food appears.
type SpawnPolicy string

const (
	SpawnLeastDense SpawnPolicy = "least-dense"
	SpawnSprinkle   SpawnPolicy = "sprinkle"
)

// ClockMode selects the time base of the food spawn cadence.
type ClockMode string

const (
	ClockWall ClockMode = "wall"
	ClockSim  ClockMode = "sim"
)

type Config struct {
	// Display surface, the world is half the resolution divided by Scale
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"` // pixels per world unit
	FPS    float64 `json:"fps"`   // 1/FPS is the tick duration

	// Population
	NumAgents int   `json:"numAgents"`
	Highlight bool  `json:"highlight"`
	Seed      int64 `json:"seed"` // 0 means time based

	// Policies
	EdgePolicy     EdgePolicy     `json:"edgePolicy"`
	NeighborPolicy NeighborPolicy `json:"neighborPolicy"`
	ViewDistance   float64        `json:"viewDistance"`
	NumNeighbors   int            `json:"numNeighbors"`

	// Rule weights
	SeparationWeight float64 `json:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`
	FoodWeight       float64 `json:"foodWeight"`

	// Crowding avoidance
	CrowdingRadius float64 `json:"crowdingRadius"`
	MaxFlockSize   int     `json:"maxFlockSize"`

	// Kinematics
	AgentSpeed      float64 `json:"agentSpeed"`      // units per second
	TurnSpeed       float64 `json:"turnSpeed"`       // radians per second
	NoseLength      float64 `json:"noseLength"`      // drawing only
	MaxSpeedFactor  float64 `json:"maxSpeedFactor"`  // speed multiplier while chasing food
	SpeedRamp       float64 `json:"speedRamp"`       // base speeds per second, 0 = step change
	SatietyDuration float64 `json:"satietyDuration"` // seconds ignoring food after a meal, 0 = off

	Food FoodConfig `json:"food"`
}

type FoodConfig struct {
	SpawnPolicy        SpawnPolicy `json:"spawnPolicy"`
	SpawnInterval      float64     `json:"spawnInterval"` // seconds
	Clock              ClockMode   `json:"clock"`
	AttractionDistance float64     `json:"attractionDistance"`
	ConsumptionRadius  float64     `json:"consumptionRadius"`
	Size               float64     `json:"size"`
	CellSize           float64     `json:"cellSize"`

	// sprinkle policy
	SprinkleCount       int     `json:"sprinkleCount"`
	SprinkleChance      float64 `json:"sprinkleChance"`
	SprinkleSpread      float64 `json:"sprinkleSpread"`
	SprinkleClearance   float64 `json:"sprinkleClearance"`
	SprinkleMargin      float64 `json:"sprinkleMargin"`
	SprinkleMaxAttempts int     `json:"sprinkleMaxAttempts"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:            1920,
		Height:           1080,
		Scale:            1.0,
		FPS:              30.0,
		NumAgents:        60,
		EdgePolicy:       EdgeAvoid,
		NeighborPolicy:   NeighborRadius,
		ViewDistance:     80.0,
		NumNeighbors:     5,
		SeparationWeight: 1.0,
		AlignmentWeight:  1.0,
		CohesionWeight:   1.0,
		FoodWeight:       1.5,
		CrowdingRadius:   150.0,
		MaxFlockSize:     10,
		AgentSpeed:       90.0,
		TurnSpeed:        3.6,
		NoseLength:       30.0,
		MaxSpeedFactor:   2.0,
		Food: FoodConfig{
			SpawnPolicy:         SpawnLeastDense,
			SpawnInterval:       3.0,
			Clock:               ClockWall,
			AttractionDistance:  200.0,
			ConsumptionRadius:   10.0,
			Size:                5.0,
			CellSize:            100.0,
			SprinkleCount:       10,
			SprinkleChance:      0.5,
			SprinkleSpread:      30.0,
			SprinkleClearance:   3.0,
			SprinkleMargin:      0.1,
			SprinkleMaxAttempts: 100,
		},
	}
}

// LoadConfig loads a JSON or YAML configuration file on top of DefaultConfig.
// The file is validated against the embedded schema before and after merging, so
// unknown keys and out of range values are both rejected.
func LoadConfig(configFile string) (*Config, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
		if raw, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert config yaml: %w", err)
		}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := configSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the whole configuration against the embedded schema.
// Use it after any programmatic change (command line overrides, UI restart).
func (c *Config) Validate() error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := configSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Clone returns a deep copy, Config has no reference fields.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Dt is the fixed tick duration in seconds.
func (c *Config) Dt() float64 {
	return 1 / c.FPS
}

// WorldSize is the half extent of the world derived from the resolution.
func (c *Config) WorldSize() geometry.Vector2D {
	return geometry.Vector2D{
		X: float64(c.Width) / 2 / c.Scale,
		Y: float64(c.Height) / 2 / c.Scale,
	}
}

// Kinematics extracts the per agent motion parameters.
func (c *Config) Kinematics() Kinematics {
	return Kinematics{
		BaseSpeed:      c.AgentSpeed,
		TurnSpeed:      c.TurnSpeed,
		MaxSpeedFactor: c.MaxSpeedFactor,
		SpeedRamp:      c.SpeedRamp,
	}
}

// Bounds provides the current half extent of the world.
// It is queried on every use so a resized surface takes effect immediately.
type Bounds interface {
	Size() geometry.Vector2D
}

// FixedBounds is a Bounds with a constant half extent.
type FixedBounds geometry.Vector2D

func (b FixedBounds) Size() geometry.Vector2D { return geometry.Vector2D(b) }
