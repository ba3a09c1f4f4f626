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

// Entry store drivers.
const (
	EntriesDriverRedis    = "redis"
	EntriesDriverPostgres = "postgres"
)

// Config holds the GravityView search service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Redis   RedisConfig   `yaml:"redis"`
	Entries EntriesConfig `yaml:"entries"`
	Sieve   SieveConfig   `yaml:"sieve"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
	// PublicSearch serves widget renders without a token.
	PublicSearch bool `yaml:"public_search"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// RedisConfig holds the connection to the Redis instance that stores views,
// forms, users and the sieve cache.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EntriesConfig selects where entries live.
type EntriesConfig struct {
	Driver       string `yaml:"driver"` // redis, postgres (default: redis)
	PostgresURL  string `yaml:"postgres_url"`
	ScanPageSize int    `yaml:"scan_page_size"`
}

// SieveConfig controls the shared cache of sieved values.
type SieveConfig struct {
	CacheEnabled bool `yaml:"cache_enabled"`
	CacheTTLSec  int  `yaml:"cache_ttl_sec"`
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

// Parse decodes YAML configuration, expanding ${VAR} references, then
// applies defaults and validates.
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Entries.Driver == "" {
		c.Entries.Driver = EntriesDriverRedis
	}
	if c.Entries.ScanPageSize <= 0 {
		c.Entries.ScanPageSize = 500
	}
	if c.Sieve.CacheTTLSec <= 0 {
		c.Sieve.CacheTTLSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("redis.addrs is required")
	}
	switch c.Entries.Driver {
	case EntriesDriverRedis:
	case EntriesDriverPostgres:
		if c.Entries.PostgresURL == "" {
			return fmt.Errorf("entries.postgres_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("entries.driver must be %q or %q, got %q",
			EntriesDriverRedis, EntriesDriverPostgres, c.Entries.Driver)
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
