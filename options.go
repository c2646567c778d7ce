package loom

import (
	"log/slog"

	"github.com/MartiniMaung/loom/cache"
	"github.com/MartiniMaung/loom/weaver"
)

// Option configures a Reasoner.
type Option func(*reasonerConfig)

// reasonerConfig holds configuration collected from options before the
// Reasoner is built.
type reasonerConfig struct {
	configPath string
	weaverCfg  *weaver.Config
	logger     *slog.Logger
	cache      cache.Cache
	filter     weaver.Filter
}

// WithConfig sets the path of a loom.yaml file (or a directory containing
// one) to load scoring and enumeration settings from.
func WithConfig(path string) Option {
	return func(c *reasonerConfig) {
		c.configPath = path
	}
}

// WithWeaverConfig sets the scoring and enumeration settings directly,
// overriding any configuration file.
func WithWeaverConfig(cfg weaver.Config) Option {
	return func(c *reasonerConfig) {
		c.weaverCfg = &cfg
	}
}

// WithLogger sets a custom logger. If not provided, a JSON logger writing
// to stdout is created.
func WithLogger(logger *slog.Logger) Option {
	return func(c *reasonerConfig) {
		c.logger = logger
	}
}

// WithCache sets a ranking cache. Rankings are stored by intent
// fingerprint and flushed whenever the graph changes.
func WithCache(ch cache.Cache) Option {
	return func(c *reasonerConfig) {
		c.cache = ch
	}
}

// WithFilter replaces the default CEL constraint engine with a custom
// pattern filter.
func WithFilter(filter weaver.Filter) Option {
	return func(c *reasonerConfig) {
		c.filter = filter
	}
}
