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

// Config holds the assessrank server configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig holds catalog source and text normalization settings.
type CatalogConfig struct {
	DataFile  string `yaml:"data_file"`
	StopWords *bool  `yaml:"stop_words"` // default: true
	MinLength int    `yaml:"min_token_length"`
}

// StopWordsEnabled reports whether the stop-word filter is on.
func (c CatalogConfig) StopWordsEnabled() bool {
	return c.StopWords == nil || *c.StopWords
}

// RankingConfig holds result-count limits and the score floor.
type RankingConfig struct {
	DefaultK int     `yaml:"default_k"`
	MaxK     int     `yaml:"max_k"`
	MinScore float64 `yaml:"min_score"`
}

// EvaluationConfig holds evaluation runner settings.
type EvaluationConfig struct {
	Workers int `yaml:"workers"`
}

// CacheConfig holds ranked-result cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none, redis, valkey (default: none)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Standalone       bool     `yaml:"standalone"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool {
	return c.Driver != "" && c.Driver != CacheDriverNone
}

// Cache driver names.
const (
	CacheDriverNone   = "none"
	CacheDriverRedis  = "redis"
	CacheDriverValkey = "valkey"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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
	if c.Catalog.DataFile == "" {
		c.Catalog.DataFile = "data/assessments.json"
	}
	if c.Catalog.MinLength <= 0 {
		c.Catalog.MinLength = 2
	}
	if c.Ranking.DefaultK <= 0 {
		c.Ranking.DefaultK = 5
	}
	if c.Ranking.MaxK <= 0 {
		c.Ranking.MaxK = 10
	}
	if c.Evaluation.Workers <= 0 {
		c.Evaluation.Workers = runtime.NumCPU()
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverNone
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Ranking.DefaultK > c.Ranking.MaxK {
		return fmt.Errorf("ranking.default_k (%d) must not exceed ranking.max_k (%d)",
			c.Ranking.DefaultK, c.Ranking.MaxK)
	}
	if c.Ranking.MinScore < 0 || c.Ranking.MinScore > 1 {
		return fmt.Errorf("ranking.min_score must be between 0 and 1, got %v", c.Ranking.MinScore)
	}
	switch c.Cache.Driver {
	case CacheDriverNone:
	case CacheDriverRedis, CacheDriverValkey:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"redis\" or \"valkey\", got %q", c.Cache.Driver)
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
