package loom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MartiniMaung/loom/auditor"
	"github.com/MartiniMaung/loom/cache"
	"github.com/MartiniMaung/loom/config"
	"github.com/MartiniMaung/loom/constraint"
	"github.com/MartiniMaung/loom/evolver"
	"github.com/MartiniMaung/loom/graph"
	"github.com/MartiniMaung/loom/taxonomy"
	"github.com/MartiniMaung/loom/weaver"
)

// Reasoner is the top-level entry point. It owns the knowledge graph and
// wires the weaver, auditor, and evolver around it.
//
// Thread-safety: all methods are safe for concurrent use. Graph mutations
// invalidate any configured ranking cache.
type Reasoner struct {
	graph   *graph.Graph
	weaver  *weaver.Weaver
	auditor *auditor.Auditor
	evolver *evolver.Evolver
	cache   cache.Cache
	logger  *slog.Logger
}

// New creates a Reasoner with the provided options.
//
// Example:
//
//	r, err := loom.New(
//	    loom.WithConfig("/etc/loom"),
//	    loom.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func New(opts ...Option) (*Reasoner, error) {
	cfg := &reasonerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	wcfg := weaver.DefaultConfig()
	if cfg.configPath != "" {
		loaded, err := config.Load(cfg.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		wcfg, err = loaded.WeaverConfig()
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
	}
	if cfg.weaverCfg != nil {
		wcfg = *cfg.weaverCfg
	}

	g := graph.New()
	w, err := weaver.New(g, wcfg)
	if err != nil {
		return nil, err
	}

	filter := cfg.filter
	if filter == nil {
		engine, err := constraint.NewEngine()
		if err != nil {
			return nil, err
		}
		filter = engine
	}
	w = w.WithFilter(filter)

	return &Reasoner{
		graph:   g,
		weaver:  w,
		auditor: auditor.New(g, wcfg.Scoring),
		evolver: evolver.New(g, wcfg.Scoring),
		cache:   cfg.cache,
		logger:  cfg.logger,
	}, nil
}

// Graph returns the underlying knowledge graph for direct queries.
func (r *Reasoner) Graph() *graph.Graph {
	return r.graph
}

// AddProject validates and upserts a project, invalidating cached
// rankings.
func (r *Reasoner) AddProject(ctx context.Context, project graph.Project) error {
	if err := r.graph.AddProject(project); err != nil {
		return err
	}
	r.flushCache(ctx)
	r.logger.Debug("project added", "name", project.Name)
	return nil
}

// AddRelationship validates and upserts a relationship, invalidating
// cached rankings. Both endpoints must already be in the graph.
func (r *Reasoner) AddRelationship(ctx context.Context, rel graph.Relationship) error {
	if err := r.graph.AddRelationship(rel); err != nil {
		return err
	}
	r.flushCache(ctx)
	r.logger.Debug("relationship added",
		"source", rel.Source, "target", rel.Target, "kind", rel.Kind.String())
	return nil
}

// Rank enumerates, scores, and ranks patterns for an intent. With a cache
// configured, semantically identical intents are served from it.
func (r *Reasoner) Rank(ctx context.Context, intent weaver.Intent) (weaver.Result, error) {
	if err := intent.Validate(); err != nil {
		return weaver.Result{}, err
	}

	fingerprint := intent.Fingerprint()
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, fingerprint)
		if err == nil {
			r.logger.Debug("ranking served from cache", "fingerprint", fingerprint)
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			r.logger.Warn("cache read failed", "error", err)
		}
	}

	start := time.Now()
	result, err := r.weaver.Rank(ctx, intent)
	if err != nil {
		return weaver.Result{}, err
	}
	r.logger.Info("intent ranked",
		"fingerprint", fingerprint,
		"patterns", len(result.Patterns),
		"truncated", result.Truncated,
		"duration", time.Since(start))

	if r.cache != nil {
		if err := r.cache.Put(ctx, fingerprint, result); err != nil {
			r.logger.Warn("cache write failed", "error", err)
		}
	}
	return result, nil
}

// Audit inspects a pattern for compatibility, licensing, security, and
// architectural findings.
func (r *Reasoner) Audit(pattern weaver.Pattern, constraints map[string]any) auditor.Report {
	return r.auditor.Audit(pattern, constraints)
}

// Evolve proposes directed changes to a pattern.
func (r *Reasoner) Evolve(pattern weaver.Pattern, kind evolver.Kind) (evolver.Plan, error) {
	return r.evolver.Evolve(pattern, kind)
}

// Search finds projects matching a free-text query, best match first.
func (r *Reasoner) Search(query string) []graph.SearchResult {
	return r.graph.Search(query)
}

// Alternatives returns the names of a project's alternative-to neighbors.
func (r *Reasoner) Alternatives(name string) []string {
	return r.graph.Alternatives(name)
}

// FindByCapability returns the names of the providers of a capability,
// most popular first.
func (r *Reasoner) FindByCapability(kind taxonomy.Capability) []string {
	return r.graph.FindByCapability(kind)
}

// Stats reports the size of the knowledge graph.
func (r *Reasoner) Stats() graph.Stats {
	return r.graph.Stats()
}

// Close releases resources held by the Reasoner.
func (r *Reasoner) Close() error {
	if r.cache != nil {
		return r.cache.Close()
	}
	return nil
}

func (r *Reasoner) flushCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Flush(ctx); err != nil {
		r.logger.Warn("cache flush failed", "error", err)
	}
}
