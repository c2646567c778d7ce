package weaver

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/MartiniMaung/loom/graph"
)

const instrumentationName = "github.com/MartiniMaung/loom/weaver"

// Filter decides whether a scored pattern survives the intent's named
// constraints. Implementations live outside this package (see the constraint
// package); a nil Filter admits everything.
type Filter interface {
	// Allow returns true if the pattern satisfies every constraint.
	Allow(ctx context.Context, pattern Pattern, constraints map[string]any) (bool, error)
}

// Result is the ranked output of one reasoning call.
type Result struct {
	// Patterns is the ordered recommendation list, best first.
	Patterns []Pattern `json:"patterns"`

	// Truncated is true when per-capability provider lists were cut to the
	// configured top-N before enumeration. A truncated ranking is still
	// valid, but it is not exhaustive.
	Truncated bool `json:"truncated"`
}

// Weaver orchestrates enumeration and scoring into a ranked result set.
type Weaver struct {
	graph      *graph.Graph
	cfg        Config
	enumerator *Enumerator
	scorer     *Scorer
	filter     Filter

	tracer     trace.Tracer
	candidates metric.Int64Counter
	patterns   metric.Int64Counter
}

// New creates a Weaver over the given graph. The config is validated once up
// front so a bad weight set fails construction instead of skewing every
// subsequent ranking.
func New(g *graph.Graph, cfg Config) (*Weaver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("weaver config: %w", err)
	}

	meter := otel.Meter(instrumentationName)
	candidates, err := meter.Int64Counter("loom.weaver.candidates",
		metric.WithDescription("Candidate combinations enumerated per rank call"))
	if err != nil {
		return nil, fmt.Errorf("create candidates counter: %w", err)
	}
	patterns, err := meter.Int64Counter("loom.weaver.patterns",
		metric.WithDescription("Patterns returned per rank call"))
	if err != nil {
		return nil, fmt.Errorf("create patterns counter: %w", err)
	}

	return &Weaver{
		graph:      g,
		cfg:        cfg,
		enumerator: NewEnumerator(g, cfg.Enumeration),
		scorer:     NewScorer(g, cfg.Scoring),
		tracer:     otel.Tracer(instrumentationName),
		candidates: candidates,
		patterns:   patterns,
	}, nil
}

// WithFilter sets the constraint filter applied to scored patterns and
// returns the weaver for chaining.
func (w *Weaver) WithFilter(f Filter) *Weaver {
	w.filter = f
	return w
}

// Rank enumerates, scores, and orders candidate patterns for the intent.
//
// Ordering is fully deterministic: descending confidence, ties broken by
// ascending complexity, remaining ties by the lexicographic order of the
// pattern's project names. An empty Patterns slice with a nil error means the
// intent is satisfiable but nothing passed the configured filters or
// confidence floor; hard failures (unsatisfiable or invalid intents, the
// combination ceiling) are returned as errors and never as partial results.
func (w *Weaver) Rank(ctx context.Context, intent Intent) (Result, error) {
	ctx, span := w.tracer.Start(ctx, "Weaver.Rank", trace.WithAttributes(
		attribute.Int("intent.required_capabilities", len(intent.Required)),
		attribute.Int("intent.constraints", len(intent.Constraints)),
	))
	defer span.End()

	enumeration, err := w.enumerator.Enumerate(intent)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enumeration failed")
		return Result{}, err
	}
	w.candidates.Add(ctx, int64(len(enumeration.Candidates)))

	type scored struct {
		pattern Pattern
		sortKey string
	}
	ranked := make([]scored, 0, len(enumeration.Candidates))
	for _, candidate := range enumeration.Candidates {
		breakdown := w.scorer.Score(candidate, intent)
		if w.cfg.Scoring.MinConfidence > 0 && breakdown.Confidence < w.cfg.Scoring.MinConfidence {
			continue
		}

		pattern := buildPattern(w.graph, candidate, breakdown)
		if w.filter != nil {
			ok, err := w.filter.Allow(ctx, pattern, intent.Constraints)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "constraint evaluation failed")
				return Result{}, err
			}
			if !ok {
				continue
			}
		}
		ranked = append(ranked, scored{pattern: pattern, sortKey: candidate.key()})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.pattern.Confidence != b.pattern.Confidence {
			return a.pattern.Confidence > b.pattern.Confidence
		}
		if a.pattern.Complexity != b.pattern.Complexity {
			return a.pattern.Complexity < b.pattern.Complexity
		}
		return a.sortKey < b.sortKey
	})

	patterns := make([]Pattern, len(ranked))
	for i, s := range ranked {
		patterns[i] = s.pattern
	}

	w.patterns.Add(ctx, int64(len(patterns)))
	span.SetAttributes(
		attribute.Int("result.patterns", len(patterns)),
		attribute.Bool("result.truncated", enumeration.Truncated),
	)
	return Result{Patterns: patterns, Truncated: enumeration.Truncated}, nil
}
