package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default partition layout: chunk1..chunk30.
const (
	DefaultIndexPrefix     = "chunk"
	DefaultPartitions      = 30
	DefaultPageSize        = 100
	DefaultMaxResultWindow = 1_000_000
	DefaultSearchTimeout   = 60 * time.Second
)

// Config holds the msgsearch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Search    SearchConfig    `yaml:"search"`
	Stats     StatsConfig     `yaml:"stats"`
	Directory DirectoryConfig `yaml:"directory"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// SearchConfig holds the Elasticsearch connection and query policy.
type SearchConfig struct {
	CloudID            string        `yaml:"cloud_id"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Addresses          []string      `yaml:"addresses"`
	IndexPrefix        string        `yaml:"index_prefix"`
	Partitions         int           `yaml:"partitions"`
	Indices            []string      `yaml:"indices"` // overrides prefix+partitions
	PageSize           int           `yaml:"page_size"`
	Timeout            time.Duration `yaml:"timeout"`
	EnsureResultWindow bool          `yaml:"ensure_result_window"`
	MaxResultWindow    int           `yaml:"max_result_window"`
	ReadinessTimeout   int           `yaml:"readiness_timeout_sec"`
}

// StatsConfig holds statistics settings.
type StatsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"` // 0 = no memoization
}

// DirectoryConfig holds Discord directory credentials and limits.
type DirectoryConfig struct {
	Tokens            []string      `yaml:"tokens"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Concurrency       int           `yaml:"concurrency"`
}

// CacheConfig holds user cache settings. Addrs empty = memory only.
type CacheConfig struct {
	Capacity         int           `yaml:"capacity"`
	ResolvedTTL      time.Duration `yaml:"resolved_ttl"` // 0 = until evicted
	FallbackTTL      time.Duration `yaml:"fallback_ttl"`
	Driver           string        `yaml:"driver"` // redis, valkey
	Addrs            []string      `yaml:"addrs"`
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	DB               int           `yaml:"db"`
	ReadinessTimeout int           `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first; variables
// already set in the process environment win.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data, decodes it, applies defaults and validates.
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.IndexPrefix == "" {
		c.Search.IndexPrefix = DefaultIndexPrefix
	}
	if c.Search.Partitions <= 0 {
		c.Search.Partitions = DefaultPartitions
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = DefaultPageSize
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = DefaultSearchTimeout
	}
	if c.Search.MaxResultWindow <= 0 {
		c.Search.MaxResultWindow = DefaultMaxResultWindow
	}
	if c.Search.ReadinessTimeout <= 0 {
		c.Search.ReadinessTimeout = 30
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "redis"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	c.Directory.Tokens = compact(c.Directory.Tokens)
	c.Search.Indices = compact(c.Search.Indices)
	c.Search.Addresses = compact(c.Search.Addresses)
	// A cloud id names its own endpoint; the client rejects both together.
	if c.Search.CloudID != "" {
		c.Search.Addresses = nil
	}
	c.Cache.Addrs = compact(c.Cache.Addrs)
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Search.Addresses) == 0 {
		if c.Search.CloudID == "" {
			return errors.New("search.cloud_id is required (or search.addresses)")
		}
		if c.Search.Username == "" || c.Search.Password == "" {
			return errors.New("search.username and search.password are required with search.cloud_id")
		}
	}
	switch c.Cache.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf("cache.driver must be \"redis\" or \"valkey\", got %q", c.Cache.Driver)
	}
	if c.Directory.RequestsPerSecond < 0 {
		return fmt.Errorf("directory.requests_per_second must be >= 0, got %v", c.Directory.RequestsPerSecond)
	}
	return nil
}

// IndexNames returns the partition set every query spans.
func (s SearchConfig) IndexNames() []string {
	if len(s.Indices) > 0 {
		return append([]string(nil), s.Indices...)
	}
	names := make([]string, s.Partitions)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", s.IndexPrefix, i+1)
	}
	return names
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

// compact drops blank entries (unset ${VAR} references expand to "").
func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
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
