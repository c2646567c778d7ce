// Package config provides loading and parsing of loom.yaml configuration
// files. A loom.yaml carries the scoring and enumeration knobs alongside
// the optional cache, registry, and serve sections.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MartiniMaung/loom/weaver"
)

// Config represents a loom.yaml configuration file.
type Config struct {
	// Weaver holds the scoring and enumeration settings. Omitted fields
	// fall back to the built-in defaults.
	Weaver *weaver.Config `yaml:"weaver,omitempty"`

	// Cache configures the Redis result cache. Nil disables caching.
	Cache *CacheConfig `yaml:"cache,omitempty"`

	// Registry configures etcd instance registration. Nil disables it.
	Registry *RegistryConfig `yaml:"registry,omitempty"`

	// Serve configures the gRPC serving surface.
	Serve *ServeConfig `yaml:"serve,omitempty"`
}

// CacheConfig configures the Redis-backed ranking cache.
type CacheConfig struct {
	// Addr is the Redis host:port. Default: localhost:6379
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`

	// TTL is how long cached rankings stay valid.
	// Format: Go duration string (e.g., "5m", "1h")
	// Default: 15m
	TTL string `yaml:"ttl,omitempty"`
}

// GetAddr returns the Redis address or the default value.
func (c *CacheConfig) GetAddr() string {
	if c == nil || c.Addr == "" {
		return "localhost:6379"
	}
	return c.Addr
}

// GetTTL parses the TTL string and returns a duration.
// Returns the default value if not set or invalid.
func (c *CacheConfig) GetTTL() time.Duration {
	if c == nil || c.TTL == "" {
		return 15 * time.Minute
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// RegistryConfig configures etcd service registration.
type RegistryConfig struct {
	// Endpoints lists the etcd endpoints. The LOOM_REGISTRY_ENDPOINTS
	// environment variable takes precedence when set.
	Endpoints []string `yaml:"endpoints,omitempty"`

	// LeaseTTL is the registration lease in seconds. Default: 30
	LeaseTTL int64 `yaml:"lease_ttl,omitempty"`
}

// GetLeaseTTL returns the configured lease TTL or the default value.
func (r *RegistryConfig) GetLeaseTTL() int64 {
	if r == nil || r.LeaseTTL <= 0 {
		return 30
	}
	return r.LeaseTTL
}

// ServeConfig configures the gRPC serving surface.
type ServeConfig struct {
	// Address is the listen address. Default: :50051
	Address string `yaml:"address,omitempty"`

	// ShutdownTimeout is the time to wait for graceful shutdown.
	// Format: Go duration string (e.g., "30s")
	// Default: 30s
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// GetAddress returns the listen address or the default value.
func (s *ServeConfig) GetAddress() string {
	if s == nil || s.Address == "" {
		return ":50051"
	}
	return s.Address
}

// GetShutdownTimeout parses the shutdown timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (s *ServeConfig) GetShutdownTimeout() time.Duration {
	if s == nil || s.ShutdownTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// WeaverConfig returns the weaver settings merged over the defaults and
// validated. A nil or partially filled section inherits the default for
// every omitted field.
func (c *Config) WeaverConfig() (weaver.Config, error) {
	merged := weaver.DefaultConfig()
	if c.Weaver != nil {
		merged = mergeWeaver(merged, *c.Weaver)
	}
	if err := merged.Validate(); err != nil {
		return weaver.Config{}, err
	}
	return merged, nil
}

func mergeWeaver(base, over weaver.Config) weaver.Config {
	if over.Scoring.CompatWeight > 0 {
		base.Scoring.CompatWeight = over.Scoring.CompatWeight
	}
	if over.Scoring.RobustWeight > 0 {
		base.Scoring.RobustWeight = over.Scoring.RobustWeight
	}
	if over.Scoring.FitWeight > 0 {
		base.Scoring.FitWeight = over.Scoring.FitWeight
	}
	if over.Scoring.FitDecay > 0 {
		base.Scoring.FitDecay = over.Scoring.FitDecay
	}
	if over.Scoring.LicensePenalty > 0 {
		base.Scoring.LicensePenalty = over.Scoring.LicensePenalty
	}
	if len(over.Scoring.RestrictiveLicenses) > 0 {
		base.Scoring.RestrictiveLicenses = over.Scoring.RestrictiveLicenses
	}
	if over.Scoring.ComponentWeight > 0 {
		base.Scoring.ComponentWeight = over.Scoring.ComponentWeight
	}
	if over.Scoring.LicenseWeight > 0 {
		base.Scoring.LicenseWeight = over.Scoring.LicenseWeight
	}
	if over.Scoring.OverheadWeight > 0 {
		base.Scoring.OverheadWeight = over.Scoring.OverheadWeight
	}
	if over.Scoring.MaxComponents > 0 {
		base.Scoring.MaxComponents = over.Scoring.MaxComponents
	}
	if len(over.Scoring.Overhead) > 0 {
		base.Scoring.Overhead = over.Scoring.Overhead
	}
	if over.Scoring.MinConfidence > 0 {
		base.Scoring.MinConfidence = over.Scoring.MinConfidence
	}
	if over.Enumeration.TopPerCapability > 0 {
		base.Enumeration.TopPerCapability = over.Enumeration.TopPerCapability
	}
	if over.Enumeration.MaxCandidates > 0 {
		base.Enumeration.MaxCandidates = over.Enumeration.MaxCandidates
	}
	return base
}

// Load reads and parses a loom.yaml file from the given path.
// If the path is a directory, it looks for loom.yaml or loom.yml in that
// directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var configPath string
	if info.IsDir() {
		yamlPath := filepath.Join(path, "loom.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "loom.yml")
			if _, err := os.Stat(ymlPath); err == nil {
				configPath = ymlPath
			} else {
				return nil, fmt.Errorf("no loom.yaml or loom.yml found in %s", path)
			}
		}
	} else {
		configPath = path
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// LoadFromDir searches for loom.yaml starting from the given directory and
// walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		config, err := Load(absDir)
		if err == nil {
			return config, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no loom.yaml found in %s or parent directories", dir)
		}
		absDir = parent
	}
}
