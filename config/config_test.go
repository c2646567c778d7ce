package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "loom.yaml", `
weaver:
  scoring:
    compat_weight: 0.6
    min_confidence: 0.2
  enumeration:
    top_per_capability: 3
cache:
  addr: redis.internal:6380
  ttl: 5m
registry:
  endpoints:
    - etcd-1:2379
    - etcd-2:2379
  lease_ttl: 60
serve:
  address: ":9090"
  shutdown_timeout: 10s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	wcfg, err := cfg.WeaverConfig()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, wcfg.Scoring.CompatWeight, 1e-9)
	assert.InDelta(t, 0.2, wcfg.Scoring.MinConfidence, 1e-9)
	assert.Equal(t, 3, wcfg.Enumeration.TopPerCapability)

	// Omitted fields inherit defaults.
	assert.InDelta(t, 0.30, wcfg.Scoring.RobustWeight, 1e-9)
	assert.Positive(t, wcfg.Enumeration.MaxCandidates)

	assert.Equal(t, "redis.internal:6380", cfg.Cache.GetAddr())
	assert.Equal(t, 5*time.Minute, cfg.Cache.GetTTL())
	assert.Equal(t, []string{"etcd-1:2379", "etcd-2:2379"}, cfg.Registry.Endpoints)
	assert.Equal(t, int64(60), cfg.Registry.GetLeaseTTL())
	assert.Equal(t, ":9090", cfg.Serve.GetAddress())
	assert.Equal(t, 10*time.Second, cfg.Serve.GetShutdownTimeout())
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "loom.yml", "cache:\n  addr: localhost:7000\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "localhost:7000", cfg.Cache.GetAddr())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadFromDirWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "loom.yaml", "serve:\n  address: ':7070'\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadFromDir(nested)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Serve.GetAddress())
}

func TestDefaultsOnEmptySections(t *testing.T) {
	var cfg Config

	wcfg, err := cfg.WeaverConfig()
	require.NoError(t, err)
	assert.InDelta(t, 0.50, wcfg.Scoring.CompatWeight, 1e-9)

	assert.Equal(t, "localhost:6379", cfg.Cache.GetAddr())
	assert.Equal(t, 15*time.Minute, cfg.Cache.GetTTL())
	assert.Equal(t, int64(30), cfg.Registry.GetLeaseTTL())
	assert.Equal(t, ":50051", cfg.Serve.GetAddress())
	assert.Equal(t, 30*time.Second, cfg.Serve.GetShutdownTimeout())
}

func TestInvalidDurationFallsBack(t *testing.T) {
	c := &CacheConfig{TTL: "soon"}
	assert.Equal(t, 15*time.Minute, c.GetTTL())

	s := &ServeConfig{ShutdownTimeout: "whenever"}
	assert.Equal(t, 30*time.Second, s.GetShutdownTimeout())
}

func TestInvalidWeaverConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "loom.yaml", `
weaver:
  scoring:
    fit_decay: 2.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.WeaverConfig()
	assert.Error(t, err)
}
