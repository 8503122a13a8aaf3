package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the devcamper API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Geocoder   GeocoderConfig   `yaml:"geocoder"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Pagination PaginationConfig `yaml:"pagination"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis Stack connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	DialTimeoutSec   int      `yaml:"dial_timeout_sec"`
}

// StorageConfig holds keyspace settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// GeocoderConfig selects and configures the geocoding provider.
type GeocoderConfig struct {
	Provider   string `yaml:"provider"` // mapquest, openstreetmap (default: openstreetmap)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// UploadsConfig holds photo upload settings. Without a MinIO endpoint
// photos go to UploadPath on local disk.
type UploadsConfig struct {
	MaxFileUpload int64  `yaml:"max_file_upload"` // bytes
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	UploadPath    string `yaml:"upload_path"`
}

// PaginationConfig bounds listing page sizes.
type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// RateLimitConfig holds per-client request limits. 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes a YAML document, expanding ${VAR} references, then applies
// defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.DialTimeoutSec <= 0 {
		c.Database.DialTimeoutSec = 5
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "devcamper:"
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 30 * 24
	}
	if c.Geocoder.Provider == "" {
		c.Geocoder.Provider = "openstreetmap"
	}
	if c.Geocoder.TimeoutSec <= 0 {
		c.Geocoder.TimeoutSec = 5
	}
	if c.Uploads.MaxFileUpload <= 0 {
		c.Uploads.MaxFileUpload = 1000000
	}
	if c.Uploads.Bucket == "" {
		c.Uploads.Bucket = "devcamper-photos"
	}
	if c.Uploads.UploadPath == "" {
		c.Uploads.UploadPath = "./public/uploads"
	}
	if c.Pagination.DefaultLimit <= 0 {
		c.Pagination.DefaultLimit = 25
	}
	if c.Pagination.MaxLimit <= 0 {
		c.Pagination.MaxLimit = 100
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = c.RateLimit.RequestsPerMinute
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	switch c.Geocoder.Provider {
	case "openstreetmap":
	case "mapquest":
		if c.Geocoder.APIKey == "" {
			return fmt.Errorf("geocoder.api_key is required for provider mapquest")
		}
	default:
		return fmt.Errorf("geocoder.provider must be \"mapquest\" or \"openstreetmap\", got %q", c.Geocoder.Provider)
	}
	if c.Uploads.Endpoint != "" && (c.Uploads.AccessKey == "" || c.Uploads.SecretKey == "") {
		return fmt.Errorf("uploads.access_key and uploads.secret_key are required with uploads.endpoint")
	}
	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("pagination.default_limit (%d) exceeds pagination.max_limit (%d)",
			c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
