package weaver

import (
	"strings"

	"github.com/MartiniMaung/loom/graph"
)

// Scorer computes sub-scores and composite scores for candidates. It has no
// side effects: the same candidate, graph state, configuration, and
// constraints always produce the same breakdown.
type Scorer struct {
	graph *graph.Graph
	cfg   ScoringConfig
}

// Breakdown holds the three sub-scores and the two composites for one
// candidate. All values are in [0.0, 1.0].
type Breakdown struct {
	Compatibility float64 `json:"compatibility"`
	Robustness    float64 `json:"robustness"`
	Fit           float64 `json:"fit"`
	Confidence    float64 `json:"confidence"`
	Complexity    float64 `json:"complexity"`
}

// NewScorer creates a Scorer over the given graph.
func NewScorer(g *graph.Graph, cfg ScoringConfig) *Scorer {
	return &Scorer{graph: g, cfg: cfg}
}

// Score evaluates a candidate against the graph and the intent's constraints.
func (s *Scorer) Score(candidate Candidate, intent Intent) Breakdown {
	compat := s.compatibility(candidate)
	robust := s.robustness(candidate, intent.commercialUse())
	fit := s.fit(candidate)

	return Breakdown{
		Compatibility: compat,
		Robustness:    robust,
		Fit:           fit,
		Confidence:    s.confidence(compat, robust, fit),
		Complexity:    s.complexity(candidate),
	}
}

// compatibility averages the strongest known compatibility strength over all
// unordered pairs of distinct projects. A single-project candidate is
// vacuously fully compatible and scores 1.0. Missing edges contribute 0.0:
// silence means unverified fit, and unverified pairings must pull the
// aggregate down rather than pass unnoticed.
func (s *Scorer) compatibility(candidate Candidate) float64 {
	projects := candidate.Projects()
	if len(projects) <= 1 {
		return 1.0
	}

	sum := 0.0
	pairs := 0
	for i := 0; i < len(projects); i++ {
		for j := i + 1; j < len(projects); j++ {
			sum += s.graph.RelationshipStrength(projects[i], projects[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// robustness averages popularity across distinct projects, then applies the
// configured penalty factor when the commercial-use constraint is set and any
// project carries a restrictive license.
func (s *Scorer) robustness(candidate Candidate, commercialUse bool) float64 {
	projects := candidate.Projects()
	if len(projects) == 0 {
		return 0.0
	}

	sum := 0.0
	restricted := false
	for _, name := range projects {
		p, ok := s.graph.Project(name)
		if !ok {
			continue
		}
		sum += p.Popularity
		if s.restrictive(p.License) {
			restricted = true
		}
	}

	score := sum / float64(len(projects))
	if commercialUse && restricted {
		score *= s.cfg.LicensePenalty
	}
	return score
}

// fit scores each role assignment: 1.0 when the chosen project's primary
// capability is exactly the required role, the configured decay when the
// project only incidentally provides it. The result is the average over
// roles, not over distinct projects.
func (s *Scorer) fit(candidate Candidate) float64 {
	if len(candidate.Assignments) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, a := range candidate.Assignments {
		p, ok := s.graph.Project(a.Project)
		if !ok {
			continue
		}
		if p.Primary() == a.Capability {
			sum += 1.0
		} else {
			sum += s.cfg.FitDecay
		}
	}
	return sum / float64(len(candidate.Assignments))
}

// confidence blends the sub-scores with the configured weights. Weights are
// renormalized to sum to 1.0; a zero-sum weight set falls back to the
// defaults rather than producing out-of-range scores. The result is clamped
// to [0.0, 1.0].
func (s *Scorer) confidence(compat, robust, fit float64) float64 {
	wc, wr, wf := s.cfg.CompatWeight, s.cfg.RobustWeight, s.cfg.FitWeight
	total := wc + wr + wf
	if total <= 0 {
		def := DefaultConfig().Scoring
		wc, wr, wf = def.CompatWeight, def.RobustWeight, def.FitWeight
		total = wc + wr + wf
	}
	return clamp01((wc*compat + wr*robust + wf*fit) / total)
}

// complexity blends three normalized terms: distinct component count,
// distinct license count, and summed per-role operational overhead. Each term
// is divided by MaxComponents, the documented bound on realistic pattern
// size; overhead weights are at most 1.0, so every term lands in [0.0, 1.0]
// before blending and the composite needs no further scaling.
func (s *Scorer) complexity(candidate Candidate) float64 {
	projects := candidate.Projects()

	licenses := make(map[string]struct{}, len(projects))
	for _, name := range projects {
		p, ok := s.graph.Project(name)
		if !ok {
			continue
		}
		// Unknown licenses still count as one distinct identifier.
		licenses[p.License] = struct{}{}
	}

	overhead := 0.0
	for _, a := range candidate.Assignments {
		overhead += s.cfg.overheadFor(a.Capability)
	}

	max := float64(s.cfg.MaxComponents)
	countTerm := clamp01(float64(len(projects)) / max)
	licenseTerm := clamp01(float64(len(licenses)) / max)
	overheadTerm := clamp01(overhead / max)

	wc, wl, wo := s.cfg.ComponentWeight, s.cfg.LicenseWeight, s.cfg.OverheadWeight
	total := wc + wl + wo
	if total <= 0 {
		def := DefaultConfig().Scoring
		wc, wl, wo = def.ComponentWeight, def.LicenseWeight, def.OverheadWeight
		total = wc + wl + wo
	}
	return clamp01((wc*countTerm + wl*licenseTerm + wo*overheadTerm) / total)
}

// restrictive reports whether the license identifier matches any configured
// restrictive prefix. Prefix matching keeps "AGPL-3.0-only" and "AGPL-3.0"
// under one policy entry.
func (s *Scorer) restrictive(license string) bool {
	if license == "" {
		return false
	}
	for _, prefix := range s.cfg.RestrictiveLicenses {
		if strings.HasPrefix(license, prefix) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
