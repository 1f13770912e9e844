package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Log       LogConfig       `mapstructure:"log"`
	Search    SearchConfig    `mapstructure:"search"`
	Tides     TidesConfig     `mapstructure:"tides"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	NOAA      NOAAConfig      `mapstructure:"noaa"`
	Server    ServerConfig    `mapstructure:"server"`
}

// DataConfig locates the local SQLite database
type DataConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
	File   string `mapstructure:"file"`   // empty means stderr
}

// SearchConfig controls nearby station ranking
type SearchConfig struct {
	StationLimit int     `mapstructure:"station_limit"`
	RadiusMiles  float64 `mapstructure:"radius_miles"` // 0 ranks every known station
}

// TidesConfig controls the prediction window
type TidesConfig struct {
	Days int `mapstructure:"days"`
}

// FilterConfig holds the starting tide-pool filter
type FilterConfig struct {
	MaxTideLevel float64 `mapstructure:"max_tide_level"`
	DaylightOnly bool    `mapstructure:"daylight_only"`
}

// GeocodingConfig configures the optional geocoding providers
type GeocodingConfig struct {
	GoogleAPIKey string `mapstructure:"google_api_key"`
}

// NOAAConfig holds endpoints for the NOAA CO-OPS APIs
type NOAAConfig struct {
	Application    string `mapstructure:"application"`
	DataGetterURL  string `mapstructure:"datagetter_url"`
	MetadataAPIURL string `mapstructure:"mdapi_url"`
}

// ServerConfig holds JSON API configuration
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"` // debug, release, test
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.db_path", "data/tidepool.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("search.station_limit", 5)
	v.SetDefault("search.radius_miles", 0.0)
	v.SetDefault("tides.days", 365)
	v.SetDefault("filter.max_tide_level", 0.0)
	v.SetDefault("filter.daylight_only", true)
	v.SetDefault("geocoding.google_api_key", "")
	v.SetDefault("noaa.application", "TidepoolTerminal")
	v.SetDefault("noaa.datagetter_url", "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter")
	v.SetDefault("noaa.mdapi_url", "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "release")
}

// Load reads configuration from an optional .env file, config.yaml and
// TIDEPOOL_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.tidepool")

	return load(v)
}

// loadDotEnv loads .env (or filenames) into the environment. A missing file is
// fine; an unreadable or malformed one is not.
func loadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadFile reads configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("TIDEPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail far from their source
func (c *Config) Validate() error {
	if c.Search.StationLimit < 1 {
		return fmt.Errorf("search.station_limit must be at least 1, got %d", c.Search.StationLimit)
	}
	if c.Search.RadiusMiles < 0 {
		return fmt.Errorf("search.radius_miles must not be negative, got %v", c.Search.RadiusMiles)
	}
	if c.Tides.Days < 1 {
		return fmt.Errorf("tides.days must be at least 1, got %d", c.Tides.Days)
	}
	if c.Data.DBPath == "" {
		return fmt.Errorf("data.db_path must be set")
	}
	return nil
}

// FilterSettings returns the configured starting filter
func (c *Config) FilterSettings() models.FilterSettings {
	return models.FilterSettings{
		MaxTideLevel: c.Filter.MaxTideLevel,
		DaylightOnly: c.Filter.DaylightOnly,
	}
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
