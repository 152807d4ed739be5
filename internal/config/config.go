package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// MaxVisibleSlots is the hard upper bound of visible aura slots per unit.
const MaxVisibleSlots = 255

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
	MaxConns int32  `yaml:"max_conns" env:"MAX_CONNS"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
	if d.MaxConns > 0 {
		dsn += fmt.Sprintf("&pool_max_conns=%d", d.MaxConns)
	}
	return dsn
}

// Aura holds the tunables of the aura subsystem.
type Aura struct {
	// How often area auras re-resolve their target set.
	TargetMapInterval time.Duration `yaml:"target_map_interval" env:"TARGET_MAP_INTERVAL"`
	// Period of per-second resource drains (health or power cost of channeled auras).
	ResourceDrainInterval time.Duration `yaml:"resource_drain_interval" env:"RESOURCE_DRAIN_INTERVAL"`
	VisibleSlots          int           `yaml:"visible_slots" env:"VISIBLE_SLOTS"`

	// Allows two resource-tracking auras (herbs + minerals) on one unit.
	AllowTrackBothResources bool `yaml:"allow_track_both_resources" env:"ALLOW_TRACK_BOTH_RESOURCES"`

	// Proc chance penalty: above Threshold each level reduces chance by 1/Range.
	ProcLevelPenaltyThreshold int32 `yaml:"proc_level_penalty_threshold" env:"PROC_LEVEL_PENALTY_THRESHOLD"`
	ProcLevelPenaltyRange     int32 `yaml:"proc_level_penalty_range" env:"PROC_LEVEL_PENALTY_RANGE"`
}

// DefaultAura returns Aura settings matching live balance.
func DefaultAura() Aura {
	return Aura{
		TargetMapInterval:         500 * time.Millisecond,
		ResourceDrainInterval:     time.Second,
		VisibleSlots:              MaxVisibleSlots,
		ProcLevelPenaltyThreshold: 60,
		ProcLevelPenaltyRange:     30,
	}
}

// Data points at static game data on disk.
type Data struct {
	SpellsPath string `yaml:"spells_path" env:"SPELLS_PATH"`
	ScriptsDir string `yaml:"scripts_dir" env:"SCRIPTS_DIR"`
	UnitsPath  string `yaml:"units_path" env:"UNITS_PATH"`
}

// Telemetry configures opt-in OpenTelemetry export.
type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"ENABLED"`
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

// AuraServer holds all configuration for the aura simulation server.
type AuraServer struct {
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
	BindAddress string `yaml:"bind_address" env:"BIND_ADDRESS"`

	// Simulation step.
	TickInterval time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`

	Aura      Aura           `yaml:"aura" envPrefix:"AURA_"`
	Data      Data           `yaml:"data" envPrefix:"DATA_"`
	Database  DatabaseConfig `yaml:"database" envPrefix:"DB_"`
	Telemetry Telemetry      `yaml:"telemetry" envPrefix:"OTEL_"`
}

// DefaultAuraServer returns AuraServer config with sensible defaults.
func DefaultAuraServer() AuraServer {
	return AuraServer{
		LogLevel:     "info",
		BindAddress:  "0.0.0.0:7778",
		TickInterval: 50 * time.Millisecond,
		Aura:         DefaultAura(),
		Data: Data{
			SpellsPath: "data/spells.yaml",
			ScriptsDir: "data/scripts",
			UnitsPath:  "data/units.yaml",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "auracore",
			Password: "auracore",
			DBName:   "auracore",
			SSLMode:  "disable",
		},
		Telemetry: Telemetry{
			ServiceName: "auraserver",
		},
	}
}

// LoadAuraServer loads config from a YAML file and applies AURA_* environment overrides.
// If the file doesn't exist, defaults are used.
func LoadAuraServer(path string) (AuraServer, error) {
	cfg := DefaultAuraServer()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "AURA_"}); err != nil {
		return cfg, fmt.Errorf("parsing env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings the simulation cannot run with.
func (c AuraServer) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	if c.Aura.TargetMapInterval <= 0 {
		errs = append(errs, errors.New("aura.target_map_interval must be positive"))
	}
	if c.Aura.ResourceDrainInterval <= 0 {
		errs = append(errs, errors.New("aura.resource_drain_interval must be positive"))
	}
	if c.Aura.VisibleSlots <= 0 || c.Aura.VisibleSlots > MaxVisibleSlots {
		errs = append(errs, fmt.Errorf("aura.visible_slots must be in [1, %d]", MaxVisibleSlots))
	}
	if c.Aura.ProcLevelPenaltyRange <= 0 {
		errs = append(errs, errors.New("aura.proc_level_penalty_range must be positive"))
	}
	return errors.Join(errs...)
}
