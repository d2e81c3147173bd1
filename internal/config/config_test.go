package config

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "reference", cfg.Station)
	assert.Equal(t, 1850, cfg.MinYear)
	assert.Equal(t, 2150, cfg.MaxYear)
	assert.NoError(t, cfg.Validate())
}

func TestNew_Options(t *testing.T) {
	cfg := New(
		WithEnvironment("local"),
		WithLogLevel("debug"),
		WithPort("9000"),
		WithGridDir("/grids"),
		WithYearRange(1900, 2100),
		WithCacheSize(16),
		WithDSTOffset(1),
	)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/grids", cfg.GridDir)
	assert.Equal(t, 1900, cfg.MinYear)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, 1.0, cfg.DSTOffsetHours)
}

func TestWithLogLevel_Invalid(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New(WithLogLevel("loud")).LogLevel)
	assert.Equal(t, zerolog.InfoLevel, New(WithLogLevel("")).LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"inverted years", []Option{WithYearRange(2100, 1900)}},
		{"zero cache", []Option{WithCacheSize(0)}},
		{"dst too large", []Option{WithDSTOffset(13)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, New(tt.opts...).Validate())
		})
	}
}

func TestFromViper_YAMLAndEnv(t *testing.T) {
	t.Setenv("TIDES_PORT", "9999")
	t.Setenv("TIDES_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
env: development
log_level: warn
data_dir: /srv/tides
years:
  min: 1900
cache:
  size: 32
`)))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "/srv/tides", cfg.DataDir)
	assert.Equal(t, 1900, cfg.MinYear)
	assert.Equal(t, 2150, cfg.MaxYear)
	assert.Equal(t, 32, cfg.CacheSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyMinYear, 2200)

	_, err := FromViper(v)
	assert.Error(t, err)
}
