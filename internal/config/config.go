// Package config loads service settings and sets up logging.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. TIDES_PORT.
const EnvPrefix = "TIDES"

// Viper keys.
const (
	KeyEnv            = "env"
	KeyLogLevel       = "log_level"
	KeyPort           = "port"
	KeyDataDir        = "data_dir"
	KeyGridDir        = "grid_dir"
	KeyStation        = "station"
	KeyDSTOffset      = "dst_offset_hours"
	KeyCacheSize      = "cache.size"
	KeyMinYear        = "years.min"
	KeyMaxYear        = "years.max"
	KeyAllowedOrigins = "cors.allowed_origins"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Environment    string
	LogLevel       zerolog.Level
	Port           string
	DataDir        string // CSV station calibrations.
	GridDir        string // NetCDF calibration grids; empty disables lat/lon lookups.
	Station        string // Default station.
	DSTOffsetHours float64
	CacheSize      int
	MinYear        int
	MaxYear        int
	AllowedOrigins []string
}

// Option configures a Config.
type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil || level == "" {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithPort sets the HTTP listen port.
func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithDataDir sets the CSV calibration directory.
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithGridDir sets the NetCDF grid directory.
func WithGridDir(dir string) Option {
	return func(c *Config) {
		c.GridDir = dir
	}
}

// WithStation sets the default station.
func WithStation(station string) Option {
	return func(c *Config) {
		c.Station = station
	}
}

// WithDSTOffset sets the default manual DST offset in hours.
func WithDSTOffset(hours float64) Option {
	return func(c *Config) {
		c.DSTOffsetHours = hours
	}
}

// WithCacheSize sets the model cache capacity.
func WithCacheSize(size int) Option {
	return func(c *Config) {
		c.CacheSize = size
	}
}

// WithYearRange sets the accepted prediction years, inclusive.
func WithYearRange(minYear, maxYear int) Option {
	return func(c *Config) {
		c.MinYear = minYear
		c.MaxYear = maxYear
	}
}

// WithAllowedOrigins sets the CORS origins; empty allows all.
func WithAllowedOrigins(origins []string) Option {
	return func(c *Config) {
		c.AllowedOrigins = origins
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment: "production",
		LogLevel:    zerolog.InfoLevel,
		Port:        "8080",
		DataDir:     "./data",
		Station:     "reference",
		CacheSize:   256,
		MinYear:     1850,
		MaxYear:     2150,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.MinYear > c.MaxYear {
		return fmt.Errorf("years.min (%d) is after years.max (%d)", c.MinYear, c.MaxYear)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache.size must be positive, got %d", c.CacheSize)
	}
	if c.DSTOffsetHours < -12 || c.DSTOffsetHours > 12 {
		return fmt.Errorf("dst_offset_hours must be within [-12, 12], got %v", c.DSTOffsetHours)
	}
	return nil
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Console output for development; stdout stays free for command output.
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault(KeyEnv, d.Environment)
	v.SetDefault(KeyLogLevel, d.LogLevel.String())
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyGridDir, d.GridDir)
	v.SetDefault(KeyStation, d.Station)
	v.SetDefault(KeyDSTOffset, d.DSTOffsetHours)
	v.SetDefault(KeyCacheSize, d.CacheSize)
	v.SetDefault(KeyMinYear, d.MinYear)
	v.SetDefault(KeyMaxYear, d.MaxYear)
	v.SetDefault(KeyAllowedOrigins, []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper builds a validated Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := New(
		WithEnvironment(v.GetString(KeyEnv)),
		WithLogLevel(v.GetString(KeyLogLevel)),
		WithPort(v.GetString(KeyPort)),
		WithDataDir(v.GetString(KeyDataDir)),
		WithGridDir(v.GetString(KeyGridDir)),
		WithStation(v.GetString(KeyStation)),
		WithDSTOffset(v.GetFloat64(KeyDSTOffset)),
		WithCacheSize(v.GetInt(KeyCacheSize)),
		WithYearRange(v.GetInt(KeyMinYear), v.GetInt(KeyMaxYear)),
		WithAllowedOrigins(splitOrigins(v.GetStringSlice(KeyAllowedOrigins))),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// splitOrigins accepts both YAML lists and comma-separated env values.
func splitOrigins(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, o := range strings.Split(r, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
